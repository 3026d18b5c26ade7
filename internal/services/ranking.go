package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"fashigram/internal/models"
	"fashigram/internal/store"
	"fashigram/internal/utils"
)

type SortOrder string

const (
	SortNew SortOrder = "new"
	SortTop SortOrder = "top"
)

// ParseSortOrder accepts "new" and "top" in any case. ok is false for anything else, including "".
func ParseSortOrder(s string) (order SortOrder, ok bool) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case SortNew:
		return SortNew, true
	case SortTop:
		return SortTop, true
	}
	return "", false
}

// SortByNew 按发布时间倒序，稳定排序
func SortByNew(posts []models.Post) []models.Post {
	out := make([]models.Post, len(posts))
	copy(out, posts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// TopScore uses post.DeclaredVotes, floored at 1.
func TopScore(post *models.Post, now time.Time) float64 {
	return utils.CalculateTopScore(post.CreatedAt, now, max(post.DeclaredVotes, 1))
}

// SortByTop orders by TopScore descending. Equal scores fall back to newest first, then id.
func SortByTop(posts []models.Post, now time.Time) []models.Post {
	out := make([]models.Post, len(posts))
	copy(out, posts)
	scores := make(map[string]float64, len(out))
	for i := range out {
		scores[out[i].ID] = TopScore(&out[i], now)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		if sa, sb := scores[a.ID], scores[b.ID]; sa != sb {
			return sa > sb
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out
}

// FeedService filters, counts and sorts post collections. Nothing is cached; scores are computed per call.
type FeedService struct {
	posts store.PostStore
	Now   func() time.Time
}

func NewFeedService(posts store.PostStore) *FeedService {
	return &FeedService{posts: posts, Now: time.Now}
}

// Feed loads the posts matching filter and returns them in the requested order.
func (f *FeedService) Feed(ctx context.Context, filter models.FeedFilter, order SortOrder) ([]models.Post, error) {
	posts, err := f.posts.ListPosts(ctx, filter)
	if err != nil {
		return nil, err
	}
	return f.Rank(ctx, posts, models.FeedFilter{}, order)
}

// Rank filters an already loaded collection and sorts it. An empty order keeps the input order.
func (f *FeedService) Rank(ctx context.Context, posts []models.Post, filter models.FeedFilter, order SortOrder) ([]models.Post, error) {
	posts = filter.Apply(posts)
	if err := f.fillDeclaredVotes(ctx, posts); err != nil {
		return nil, err
	}

	switch order {
	case SortTop:
		return SortByTop(posts, f.Now()), nil
	case SortNew:
		return SortByNew(posts), nil
	}
	return posts, nil
}

// fillDeclaredVotes 批量统计 declared 票数，避免 N+1
func (f *FeedService) fillDeclaredVotes(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}
	counts, err := f.posts.DeclaredVoteCounts(ctx, ids)
	if err != nil {
		return err
	}
	for i := range posts {
		posts[i].DeclaredVotes = max(int(counts[posts[i].ID]), 1)
	}
	return nil
}

// Countries lists the distinct country names used across posts, for the country filter.
func (f *FeedService) Countries(ctx context.Context) ([]string, error) {
	return f.posts.DistinctCountries(ctx)
}
