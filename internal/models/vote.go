package models

import (
	"time"
)

type VoteKind string

const (
	VoteKindDeclared  VoteKind = "DECLARED"
	VoteKindSuggested VoteKind = "SUGGESTED"
)

// Valid reports whether k is one of the known vote kinds.
func (k VoteKind) Valid() bool {
	return k == VoteKindDeclared || k == VoteKindSuggested
}

// Vote is one user's endorsement of one style tag on one post.
// At most one row may exist per (post_id, style, voter_id); idx_vote_triple enforces it.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	PostID    string    `gorm:"size:36;not null;uniqueIndex:idx_vote_triple;index" json:"post_id"`
	Post      *Post     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Style     string    `gorm:"size:100;not null;uniqueIndex:idx_vote_triple" json:"style"`
	VoterID   string    `gorm:"size:64;not null;uniqueIndex:idx_vote_triple" json:"voter_id"`
	Kind      VoteKind  `gorm:"type:varchar(16);not null" json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}
