package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"fashigram/internal/models"
	"fashigram/internal/store"

	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

// stepClock advances one second per call so vote ordering is deterministic.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type testEnv struct {
	store     *store.MemoryStore
	consensus *ConsensusService
	feed      *FeedService
	posts     *PostService
	styles    *StyleService
	circles   *CircleService
	spotlight *SpotlightService
	clock     *stepClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := store.NewMemoryStore(models.CatalogueStyles()...)
	styles, err := NewStyleService(st)
	require.NoError(t, err)

	clock := &stepClock{now: baseTime}
	feed := NewFeedService(st)
	feed.Now = func() time.Time { return baseTime }
	consensus := NewConsensusService(st, st)
	consensus.Now = clock.Now
	posts := NewPostService(st, consensus, styles, feed)
	circles := NewCircleService(st)
	circles.Now = clock.Now
	spotlight := NewSpotlightService(st, st, st, feed)
	spotlight.Now = clock.Now

	return &testEnv{
		store:     st,
		consensus: consensus,
		feed:      feed,
		posts:     posts,
		styles:    styles,
		circles:   circles,
		spotlight: spotlight,
		clock:     clock,
	}
}

func (e *testEnv) createPost(t *testing.T, author, style string, createdAt time.Time) *models.Post {
	t.Helper()
	e.posts.Now = func() time.Time { return createdAt }
	p, err := e.posts.Create(context.Background(), author, CreatePostInput{
		Style:     style,
		ImageURLs: []string{"https://img.example/look.jpg"},
	})
	require.NoError(t, err)
	return p
}
