// Package store holds the persistence contract of the consensus engine and its two backends:
// GormStore for Postgres and MemoryStore for tests and local runs.
package store

import (
	"context"

	"fashigram/internal/models"
)

// VoteStore is the durable record of style votes.
type VoteStore interface {
	// CastVote inserts v, or fails with ErrDuplicateVote when the (post, style, voter) triple exists.
	CastVote(ctx context.Context, v models.Vote) error
	// RetractVote deletes the matching triple. removed is false when nothing matched.
	RetractVote(ctx context.Context, postID, style, voterID string) (removed bool, err error)
	VotesForPost(ctx context.Context, postID string) ([]models.Vote, error)
	VoteCount(ctx context.Context, postID, style string) (int64, error)
	HasVoted(ctx context.Context, postID, style, voterID string) (bool, error)
	// WithinPost runs fn with every other WithinPost caller for the same post excluded.
	// Reads made through tx observe all writes committed by earlier holders.
	WithinPost(ctx context.Context, postID string, fn func(tx VoteStore) error) error
}

type PostStore interface {
	// CreatePost persists the post, its images and the author's declared vote, all or nothing.
	CreatePost(ctx context.Context, post *models.Post, declared models.Vote) error
	GetPost(ctx context.Context, id string) (*models.Post, error)
	// ListPosts returns matching posts newest first.
	ListPosts(ctx context.Context, filter models.FeedFilter) ([]models.Post, error)
	// DeletePost removes the post with its votes, images and spotlight entries.
	DeletePost(ctx context.Context, id, authorID string) error
	// DeclaredVoteCounts returns, per post id, the number of votes on the post's declared style.
	// Posts without any such vote are absent from the map.
	DeclaredVoteCounts(ctx context.Context, postIDs []string) (map[string]int64, error)
	// PostsMissingAuthorVote lists posts whose author has no vote on the declared style.
	PostsMissingAuthorVote(ctx context.Context) ([]models.Post, error)
	DistinctCountries(ctx context.Context) ([]string, error)
}

type SpotlightStore interface {
	// AddSpotlight fails with ErrDuplicateSpotlight when the (circle, post) pair exists.
	AddSpotlight(ctx context.Context, entry models.SpotlightEntry) error
	RemoveSpotlight(ctx context.Context, postID, circleID string) (removed bool, err error)
	// SpotlightedPosts returns the circle's posts in insertion order.
	SpotlightedPosts(ctx context.Context, circleID string) ([]models.Post, error)
	CirclesContainingPost(ctx context.Context, postID string) ([]string, error)
}

type CircleStore interface {
	// CreateCircle persists the circle and its owner membership together.
	CreateCircle(ctx context.Context, circle *models.Circle, owner models.CircleMember) error
	GetCircle(ctx context.Context, id string) (*models.Circle, error)
	CirclesForUser(ctx context.Context, userID string) ([]models.Circle, error)
	IsActiveMember(ctx context.Context, circleID, userID string) (bool, error)
}

type StyleStore interface {
	ListStyles(ctx context.Context) ([]models.Style, error)
}

// Store is everything the services need from one backend.
type Store interface {
	VoteStore
	PostStore
	SpotlightStore
	CircleStore
	StyleStore
	Ping(ctx context.Context) error
}
