package models

import (
	"time"
)

const (
	MinPostImages = 1
	MaxPostImages = 3
)

// Post is one published outfit. Everything except the caption rendering is immutable after creation.
type Post struct {
	ID            string      `gorm:"primaryKey;size:36" json:"id"`
	AuthorID      string      `gorm:"size:64;not null;index" json:"author_id"`
	DeclaredStyle string      `gorm:"size:100;not null;index" json:"style"`
	Substyle      string      `gorm:"size:100;index" json:"substyle,omitempty"`
	CountryName   string      `gorm:"size:100;index" json:"country_name,omitempty"`
	Caption       string      `gorm:"type:text" json:"caption,omitempty"`
	Images        []PostImage `gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"images"`
	CreatedAt     time.Time   `gorm:"index" json:"created_at"`

	// Filled in by the feed queries, not persisted.
	DeclaredVotes int `gorm:"-" json:"declared_votes"`
}

// PostImage keeps the author's ordering through OrderIndex.
type PostImage struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	PostID      string `gorm:"size:36;not null;index" json:"-"`
	URL         string `gorm:"not null" json:"url"`
	StoragePath string `json:"-"`
	OrderIndex  int    `gorm:"not null;default:0" json:"order_index"`
}

// ImageURLs returns the image references in display order.
func (p *Post) ImageURLs() []string {
	urls := make([]string, len(p.Images))
	for i, img := range p.Images {
		urls[i] = img.URL
	}
	return urls
}
