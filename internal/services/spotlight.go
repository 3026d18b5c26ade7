package services

import (
	"context"
	"errors"
	"time"

	"fashigram/internal/models"
	"fashigram/internal/store"

	"github.com/google/uuid"
)

type SpotlightService struct {
	spots   store.SpotlightStore
	circles store.CircleStore
	posts   store.PostStore
	feed    *FeedService
	Now     func() time.Time
}

func NewSpotlightService(spots store.SpotlightStore, circles store.CircleStore, posts store.PostStore, feed *FeedService) *SpotlightService {
	return &SpotlightService{spots: spots, circles: circles, posts: posts, feed: feed, Now: time.Now}
}

// ToggleSpotlight pins or unpins a post in a circle and reports whether it is now pinned.
// Only ACTIVE members may toggle.
func (s *SpotlightService) ToggleSpotlight(ctx context.Context, postID, circleID, userID string) (bool, error) {
	if _, err := s.circles.GetCircle(ctx, circleID); err != nil {
		return false, err
	}
	member, err := s.circles.IsActiveMember(ctx, circleID, userID)
	if err != nil {
		return false, err
	}
	if !member {
		return false, ErrNotCircleMember
	}
	if _, err := s.posts.GetPost(ctx, postID); err != nil {
		return false, err
	}

	removed, err := s.spots.RemoveSpotlight(ctx, postID, circleID)
	if err != nil {
		return false, err
	}
	if removed {
		return false, nil
	}

	err = s.spots.AddSpotlight(ctx, models.SpotlightEntry{
		ID:            uuid.NewString(),
		CircleID:      circleID,
		PostID:        postID,
		AddedByUserID: userID,
		AddedAt:       s.Now(),
	})
	// A concurrent toggle inserted the same pair first; the pair is pinned either way.
	if err != nil && !errors.Is(err, store.ErrDuplicateSpotlight) {
		return false, err
	}
	return true, nil
}

// SpotlightedPosts returns the circle's pinned posts. With an empty order they stay in insertion order.
func (s *SpotlightService) SpotlightedPosts(ctx context.Context, circleID string, filter models.FeedFilter, order SortOrder) ([]models.Post, error) {
	if _, err := s.circles.GetCircle(ctx, circleID); err != nil {
		return nil, err
	}
	posts, err := s.spots.SpotlightedPosts(ctx, circleID)
	if err != nil {
		return nil, err
	}
	return s.feed.Rank(ctx, posts, filter, order)
}

// CirclesContainingPost is empty for unknown posts.
func (s *SpotlightService) CirclesContainingPost(ctx context.Context, postID string) ([]string, error) {
	ids, err := s.spots.CirclesContainingPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
