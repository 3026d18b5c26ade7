package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"fashigram/internal/models"
	"fashigram/internal/store"
	"fashigram/internal/utils"
	"fashigram/internal/utils/log"
)

// MaxSuggestedStyles caps the distinct non-declared styles a post can collect.
const MaxSuggestedStyles = 2

const maxStyleLength = 100

// StyleTally is one suggested style with its vote count and earliest vote time.
type StyleTally struct {
	Style     string    `json:"style"`
	Count     int       `json:"count"`
	FirstSeen time.Time `json:"first_seen"`
}

// VoteOutcome is the state of one (post, style, voter) triple after a toggle.
type VoteOutcome struct {
	Style string          `json:"style"`
	Kind  models.VoteKind `json:"kind"`
	Voted bool            `json:"voted"`
	Count int64           `json:"count"`
}

// ConsensusService derives declared counts and suggestion rankings from raw votes on every call.
type ConsensusService struct {
	votes store.VoteStore
	posts store.PostStore
	Now   func() time.Time
}

func NewConsensusService(votes store.VoteStore, posts store.PostStore) *ConsensusService {
	return &ConsensusService{votes: votes, posts: posts, Now: time.Now}
}

// DeclaredVoteCount never reports less than 1. A post without any vote on its
// declared style gets the author's DECLARED vote inserted.
func (s *ConsensusService) DeclaredVoteCount(ctx context.Context, post *models.Post) (int, error) {
	n, err := s.votes.VoteCount(ctx, post.ID, post.DeclaredStyle)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return int(n), nil
	}

	if _, err := s.insertAuthorVote(ctx, post); err != nil {
		if errors.Is(err, store.ErrPostNotFound) {
			return 0, err
		}
		// The floor still holds; the next read retries the insert.
		log.Log.WithError(err).WithField("post_id", post.ID).Warn("declared vote backfill failed")
	}
	return 1, nil
}

// insertAuthorVote writes the author's DECLARED vote unless it exists. It reports whether a row was written.
func (s *ConsensusService) insertAuthorVote(ctx context.Context, post *models.Post) (bool, error) {
	inserted := false
	err := s.votes.WithinPost(ctx, post.ID, func(tx store.VoteStore) error {
		voted, err := tx.HasVoted(ctx, post.ID, post.DeclaredStyle, post.AuthorID)
		if err != nil || voted {
			return err
		}
		err = tx.CastVote(ctx, models.Vote{
			PostID:    post.ID,
			Style:     post.DeclaredStyle,
			VoterID:   post.AuthorID,
			Kind:      models.VoteKindDeclared,
			CreatedAt: post.CreatedAt,
		})
		if errors.Is(err, store.ErrDuplicateVote) {
			return nil
		}
		inserted = err == nil
		return err
	})
	return inserted, err
}

// BackfillDeclaredVotes sweeps posts whose author has no vote on the declared style and inserts it.
func (s *ConsensusService) BackfillDeclaredVotes(ctx context.Context) (int, error) {
	posts, err := s.posts.PostsMissingAuthorVote(ctx)
	if err != nil {
		return 0, err
	}

	restored := 0
	for i := range posts {
		if err := ctx.Err(); err != nil {
			return restored, err
		}
		inserted, err := s.insertAuthorVote(ctx, &posts[i])
		if err != nil {
			if errors.Is(err, store.ErrPostNotFound) {
				continue
			}
			return restored, err
		}
		if inserted {
			restored++
		}
	}
	log.Log.WithField("restored", restored).Info("declared vote backfill finished")
	return restored, nil
}

// RankSuggestions groups the non-declared SUGGESTED votes by style, ordered by count
// descending and then by earliest vote ascending.
func RankSuggestions(votes []models.Vote, declaredStyle string) []StyleTally {
	byStyle := make(map[string]*StyleTally)
	for _, v := range votes {
		if v.Kind != models.VoteKindSuggested || v.Style == declaredStyle {
			continue
		}
		t, ok := byStyle[v.Style]
		if !ok {
			t = &StyleTally{Style: v.Style, FirstSeen: v.CreatedAt}
			byStyle[v.Style] = t
		}
		t.Count++
		if v.CreatedAt.Before(t.FirstSeen) {
			t.FirstSeen = v.CreatedAt
		}
	}

	tallies := make([]StyleTally, 0, len(byStyle))
	for _, t := range byStyle {
		tallies = append(tallies, *t)
	}
	sort.Slice(tallies, func(i, j int) bool {
		a, b := tallies[i], tallies[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if !a.FirstSeen.Equal(b.FirstSeen) {
			return a.FirstSeen.Before(b.FirstSeen)
		}
		return a.Style < b.Style
	})
	return tallies
}

// SuggestedStyles returns the post's suggested style names in ranked order.
func (s *ConsensusService) SuggestedStyles(ctx context.Context, post *models.Post) ([]string, error) {
	tallies, err := s.StyleCounts(ctx, post)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(tallies))
	for i, t := range tallies {
		names[i] = t.Style
	}
	return names, nil
}

// StyleCounts is SuggestedStyles with the per-style counts kept.
func (s *ConsensusService) StyleCounts(ctx context.Context, post *models.Post) ([]StyleTally, error) {
	votes, err := s.votes.VotesForPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return RankSuggestions(votes, post.DeclaredStyle), nil
}

// ToggleVote removes the caller's vote on style when present, otherwise casts it
// subject to the suggestion-slot rule. The whole decision runs inside the post's
// atomic section so concurrent callers see each other's writes.
func (s *ConsensusService) ToggleVote(ctx context.Context, postID, style, voterID string, kind models.VoteKind) (*VoteOutcome, error) {
	style = utils.NormalizeStyle(style)
	if style == "" {
		return nil, invalid("style", "is required")
	}
	if len(style) > maxStyleLength {
		return nil, invalid("style", "is too long")
	}
	if !kind.Valid() {
		return nil, ErrInvalidVoteKind
	}

	post, err := s.posts.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	var outcome *VoteOutcome
	err = s.votes.WithinPost(ctx, postID, func(tx store.VoteStore) error {
		votes, err := tx.VotesForPost(ctx, postID)
		if err != nil {
			return err
		}

		style := canonicalStyle(votes, post.DeclaredStyle, style)
		kind, err := voteKindFor(post, style, kind)
		if err != nil {
			return err
		}
		outcome = &VoteOutcome{Style: style, Kind: kind}

		if hasVote(votes, style, voterID) {
			if _, err := tx.RetractVote(ctx, postID, style, voterID); err != nil {
				return err
			}
		} else {
			if err := admit(votes, post.DeclaredStyle, style); err != nil {
				return err
			}
			err := tx.CastVote(ctx, models.Vote{
				PostID:    postID,
				Style:     style,
				VoterID:   voterID,
				Kind:      kind,
				CreatedAt: s.Now(),
			})
			if err != nil && !errors.Is(err, store.ErrDuplicateVote) {
				return err
			}
			outcome.Voted = true
		}

		outcome.Count, err = tx.VoteCount(ctx, postID, style)
		return err
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// Suggest toggles a SUGGESTED vote; on the declared style it acts as a declared vote.
func (s *ConsensusService) Suggest(ctx context.Context, postID, style, voterID string) (*VoteOutcome, error) {
	return s.ToggleVote(ctx, postID, style, voterID, models.VoteKindSuggested)
}

// admit applies the suggestion-slot rule against the locked vote snapshot.
func admit(votes []models.Vote, declaredStyle, style string) error {
	if style == declaredStyle {
		return nil
	}
	distinct := make(map[string]bool)
	for _, v := range votes {
		if v.Kind != models.VoteKindSuggested || v.Style == declaredStyle {
			continue
		}
		if v.Style == style {
			return nil
		}
		distinct[v.Style] = true
	}
	if len(distinct) >= MaxSuggestedStyles {
		return ErrSuggestionLimitExceeded
	}
	return nil
}

// voteKindFor makes the kind follow the tag: the declared style only takes DECLARED votes.
func voteKindFor(post *models.Post, style string, requested models.VoteKind) (models.VoteKind, error) {
	if style == post.DeclaredStyle {
		return models.VoteKindDeclared, nil
	}
	if requested == models.VoteKindDeclared {
		return "", ErrInvalidVoteKind
	}
	return models.VoteKindSuggested, nil
}

// canonicalStyle maps a case variant of an existing tag on the post onto that tag's spelling.
func canonicalStyle(votes []models.Vote, declaredStyle, style string) string {
	if strings.EqualFold(style, declaredStyle) {
		return declaredStyle
	}
	for _, v := range votes {
		if strings.EqualFold(v.Style, style) {
			return v.Style
		}
	}
	return style
}

func hasVote(votes []models.Vote, style, voterID string) bool {
	for _, v := range votes {
		if v.Style == style && v.VoterID == voterID {
			return true
		}
	}
	return false
}
