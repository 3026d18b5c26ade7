package models

// Style is a catalogue entry. Substyles point at their parent by name; parents have an empty Parent.
type Style struct {
	ID     uint   `gorm:"primaryKey" json:"-"`
	Name   string `gorm:"size:100;not null;uniqueIndex:idx_style_parent_name" json:"name"`
	Parent string `gorm:"size:100;not null;default:'';uniqueIndex:idx_style_parent_name;index" json:"parent,omitempty"`
}

// StyleGroup is a parent style together with its substyles.
type StyleGroup struct {
	Name      string   `json:"name"`
	Substyles []string `json:"substyles"`
}
