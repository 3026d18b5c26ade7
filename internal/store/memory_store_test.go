package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"fashigram/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPost(t *testing.T, s *MemoryStore, id, author, style string) {
	t.Helper()
	err := s.CreatePost(context.Background(), &models.Post{
		ID: id, AuthorID: author, DeclaredStyle: style, CreatedAt: time.Now(),
		Images: []models.PostImage{{ID: id + "-img", PostID: id, URL: "https://img.example/x.jpg"}},
	}, models.Vote{PostID: id, Style: style, VoterID: author, Kind: models.VoteKindDeclared})
	require.NoError(t, err)
}

func TestConcurrentCastVoteKeepsOneRow(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	seedPost(t, s, "p1", "author", "Goth")

	var (
		wg       sync.WaitGroup
		accepted atomic.Int32
		dupes    atomic.Int32
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.CastVote(ctx, models.Vote{PostID: "p1", Style: "Punk", VoterID: "alice", Kind: models.VoteKindSuggested})
			switch {
			case err == nil:
				accepted.Add(1)
			case errors.Is(err, ErrDuplicateVote):
				dupes.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), accepted.Load())
	assert.Equal(t, int32(31), dupes.Load())

	n, err := s.VoteCount(ctx, "p1", "Punk")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCastVoteUnknownPost(t *testing.T) {
	s := NewMemoryStore()
	err := s.CastVote(context.Background(), models.Vote{PostID: "nope", Style: "Goth", VoterID: "a"})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestRetractVote(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	seedPost(t, s, "p1", "author", "Goth")

	removed, err := s.RetractVote(ctx, "p1", "Goth", "author")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.RetractVote(ctx, "p1", "Goth", "author")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestWithinPostSerialisesCallers(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	seedPost(t, s, "p1", "author", "Goth")

	var (
		wg     sync.WaitGroup
		inside atomic.Int32
		peak   atomic.Int32
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.WithinPost(ctx, "p1", func(tx VoteStore) error {
				n := inside.Add(1)
				if n > peak.Load() {
					peak.Store(n)
				}
				time.Sleep(time.Millisecond)
				inside.Add(-1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), peak.Load())

	assert.ErrorIs(t, s.WithinPost(ctx, "missing", func(VoteStore) error { return nil }), ErrPostNotFound)
}

func TestWithinPostNestedDoesNotDeadlock(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	seedPost(t, s, "p1", "author", "Goth")

	err := s.WithinPost(ctx, "p1", func(tx VoteStore) error {
		return tx.WithinPost(ctx, "p1", func(inner VoteStore) error {
			return inner.CastVote(ctx, models.Vote{PostID: "p1", Style: "Emo", VoterID: "a", Kind: models.VoteKindSuggested})
		})
	})
	require.NoError(t, err)

	voted, err := s.HasVoted(ctx, "p1", "Emo", "a")
	require.NoError(t, err)
	assert.True(t, voted)
}

func TestSpotlightUniqueness(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	seedPost(t, s, "p1", "author", "Goth")
	require.NoError(t, s.CreateCircle(ctx, &models.Circle{ID: "c1", OwnerUserID: "o", Name: "c"},
		models.CircleMember{CircleID: "c1", UserID: "o", Role: models.CircleRoleOwner, Status: models.CircleStatusActive}))

	entry := models.SpotlightEntry{ID: "e1", CircleID: "c1", PostID: "p1", AddedByUserID: "o"}
	require.NoError(t, s.AddSpotlight(ctx, entry))
	entry.ID = "e2"
	assert.ErrorIs(t, s.AddSpotlight(ctx, entry), ErrDuplicateSpotlight)

	ids, err := s.CirclesContainingPost(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, ids)
}

func TestFailureIsStorageUnavailable(t *testing.T) {
	s := NewMemoryStore()
	s.SetFailure(errors.New("boom"))

	_, err := s.ListPosts(context.Background(), models.FeedFilter{})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorContains(t, err, "boom")
	assert.ErrorIs(t, s.Ping(context.Background()), ErrStorageUnavailable)
}

func TestDeclaredVoteCountsAndMissingAuthorVotes(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	seedPost(t, s, "p1", "author", "Goth")
	seedPost(t, s, "p2", "author", "Punk")
	require.NoError(t, s.CastVote(ctx, models.Vote{PostID: "p1", Style: "Goth", VoterID: "b", Kind: models.VoteKindDeclared}))
	require.NoError(t, s.CastVote(ctx, models.Vote{PostID: "p1", Style: "Emo", VoterID: "b", Kind: models.VoteKindSuggested}))
	_, err := s.RetractVote(ctx, "p2", "Punk", "author")
	require.NoError(t, err)

	counts, err := s.DeclaredVoteCounts(ctx, []string{"p1", "p2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"p1": 2}, counts)

	missing, err := s.PostsMissingAuthorVote(ctx)
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, "p2", missing[0].ID)
}
