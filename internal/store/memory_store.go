package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"fashigram/internal/models"
)

// MemoryStore keeps everything in process. It honours the same uniqueness and
// per-post exclusion guarantees as GormStore.
type MemoryStore struct {
	mu         sync.RWMutex
	posts      map[string]models.Post
	votes      []models.Vote
	nextVoteID uint
	spotlights []models.SpotlightEntry
	circles    map[string]models.Circle
	members    []models.CircleMember
	styles     []models.Style

	locksMu   sync.Mutex
	postLocks map[string]*sync.Mutex

	// failure, when set, is returned (wrapped as unavailable) by every call.
	failure error
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(styles ...models.Style) *MemoryStore {
	return &MemoryStore{
		posts:     make(map[string]models.Post),
		circles:   make(map[string]models.Circle),
		postLocks: make(map[string]*sync.Mutex),
		styles:    append([]models.Style(nil), styles...),
	}
}

// SetFailure makes every later call fail with err wrapped in ErrStorageUnavailable. nil restores normal operation.
func (s *MemoryStore) SetFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failure = err
}

func (s *MemoryStore) check(op string) error {
	if s.failure != nil {
		return unavailable(op, s.failure)
	}
	return nil
}

func copyPost(p models.Post) models.Post {
	p.Images = append([]models.PostImage(nil), p.Images...)
	sort.SliceStable(p.Images, func(i, j int) bool { return p.Images[i].OrderIndex < p.Images[j].OrderIndex })
	return p
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.check("ping")
}

func (s *MemoryStore) CastVote(ctx context.Context, v models.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("cast vote"); err != nil {
		return err
	}
	if _, ok := s.posts[v.PostID]; !ok {
		return ErrPostNotFound
	}
	for _, existing := range s.votes {
		if existing.PostID == v.PostID && existing.Style == v.Style && existing.VoterID == v.VoterID {
			return ErrDuplicateVote
		}
	}
	s.nextVoteID++
	v.ID = s.nextVoteID
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	v.Post = nil
	s.votes = append(s.votes, v)
	return nil
}

func (s *MemoryStore) RetractVote(ctx context.Context, postID, style, voterID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("retract vote"); err != nil {
		return false, err
	}
	for i, v := range s.votes {
		if v.PostID == postID && v.Style == style && v.VoterID == voterID {
			s.votes = append(s.votes[:i], s.votes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) VotesForPost(ctx context.Context, postID string) ([]models.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check("votes for post"); err != nil {
		return nil, err
	}
	var votes []models.Vote
	for _, v := range s.votes {
		if v.PostID == postID {
			votes = append(votes, v)
		}
	}
	return votes, nil
}

func (s *MemoryStore) VoteCount(ctx context.Context, postID, style string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check("vote count"); err != nil {
		return 0, err
	}
	var n int64
	for _, v := range s.votes {
		if v.PostID == postID && v.Style == style {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) HasVoted(ctx context.Context, postID, style, voterID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check("has voted"); err != nil {
		return false, err
	}
	for _, v := range s.votes {
		if v.PostID == postID && v.Style == style && v.VoterID == voterID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) postLock(postID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.postLocks[postID]
	if !ok {
		l = &sync.Mutex{}
		s.postLocks[postID] = l
	}
	return l
}

func (s *MemoryStore) WithinPost(ctx context.Context, postID string, fn func(tx VoteStore) error) error {
	s.mu.RLock()
	err := s.check("lock post")
	_, exists := s.posts[postID]
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	if !exists {
		return ErrPostNotFound
	}

	l := s.postLock(postID)
	l.Lock()
	defer l.Unlock()
	return fn(lockedPost{s})
}

// lockedPost is the view handed to a WithinPost callback; nested sections run inline.
type lockedPost struct {
	*MemoryStore
}

func (l lockedPost) WithinPost(ctx context.Context, postID string, fn func(tx VoteStore) error) error {
	return fn(l)
}

func (s *MemoryStore) CreatePost(ctx context.Context, post *models.Post, declared models.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("create post"); err != nil {
		return err
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	stored := copyPost(*post)
	stored.DeclaredVotes = 0
	s.posts[post.ID] = stored

	s.nextVoteID++
	declared.ID = s.nextVoteID
	if declared.CreatedAt.IsZero() {
		declared.CreatedAt = post.CreatedAt
	}
	s.votes = append(s.votes, declared)
	return nil
}

func (s *MemoryStore) GetPost(ctx context.Context, id string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check("get post"); err != nil {
		return nil, err
	}
	p, ok := s.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	out := copyPost(p)
	return &out, nil
}

func (s *MemoryStore) ListPosts(ctx context.Context, filter models.FeedFilter) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check("list posts"); err != nil {
		return nil, err
	}
	posts := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if filter.Match(&p) {
			posts = append(posts, copyPost(p))
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID < posts[j].ID
	})
	return posts, nil
}

func (s *MemoryStore) DeletePost(ctx context.Context, id, authorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("delete post"); err != nil {
		return err
	}
	p, ok := s.posts[id]
	if !ok {
		return ErrPostNotFound
	}
	if p.AuthorID != authorID {
		return ErrNotPostAuthor
	}
	delete(s.posts, id)

	votes := s.votes[:0]
	for _, v := range s.votes {
		if v.PostID != id {
			votes = append(votes, v)
		}
	}
	s.votes = votes

	entries := s.spotlights[:0]
	for _, e := range s.spotlights {
		if e.PostID != id {
			entries = append(entries, e)
		}
	}
	s.spotlights = entries
	return nil
}

func (s *MemoryStore) DeclaredVoteCounts(ctx context.Context, postIDs []string) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check("declared vote counts"); err != nil {
		return nil, err
	}
	wanted := make(map[string]bool, len(postIDs))
	for _, id := range postIDs {
		wanted[id] = true
	}
	counts := make(map[string]int64, len(postIDs))
	for _, v := range s.votes {
		if !wanted[v.PostID] {
			continue
		}
		if p, ok := s.posts[v.PostID]; ok && p.DeclaredStyle == v.Style {
			counts[v.PostID]++
		}
	}
	return counts, nil
}

func (s *MemoryStore) PostsMissingAuthorVote(ctx context.Context) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check("posts missing author vote"); err != nil {
		return nil, err
	}
	voted := make(map[string]bool)
	for _, v := range s.votes {
		if p, ok := s.posts[v.PostID]; ok && p.DeclaredStyle == v.Style && p.AuthorID == v.VoterID {
			voted[v.PostID] = true
		}
	}
	var posts []models.Post
	for id, p := range s.posts {
		if !voted[id] {
			posts = append(posts, copyPost(p))
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.Before(posts[j].CreatedAt) })
	return posts, nil
}

func (s *MemoryStore) DistinctCountries(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check("distinct countries"); err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var names []string
	for _, p := range s.posts {
		if p.CountryName != "" && !seen[p.CountryName] {
			seen[p.CountryName] = true
			names = append(names, p.CountryName)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) AddSpotlight(ctx context.Context, entry models.SpotlightEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("add spotlight"); err != nil {
		return err
	}
	if _, ok := s.posts[entry.PostID]; !ok {
		return ErrPostNotFound
	}
	if _, ok := s.circles[entry.CircleID]; !ok {
		return ErrCircleNotFound
	}
	for _, e := range s.spotlights {
		if e.PostID == entry.PostID && e.CircleID == entry.CircleID {
			return ErrDuplicateSpotlight
		}
	}
	if entry.AddedAt.IsZero() {
		entry.AddedAt = time.Now()
	}
	s.spotlights = append(s.spotlights, entry)
	return nil
}

func (s *MemoryStore) RemoveSpotlight(ctx context.Context, postID, circleID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("remove spotlight"); err != nil {
		return false, err
	}
	for i, e := range s.spotlights {
		if e.PostID == postID && e.CircleID == circleID {
			s.spotlights = append(s.spotlights[:i], s.spotlights[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// SpotlightedPosts walks entries in append order, which is insertion order.
func (s *MemoryStore) SpotlightedPosts(ctx context.Context, circleID string) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check("spotlighted posts"); err != nil {
		return nil, err
	}
	var posts []models.Post
	for _, e := range s.spotlights {
		if e.CircleID != circleID {
			continue
		}
		if p, ok := s.posts[e.PostID]; ok {
			posts = append(posts, copyPost(p))
		}
	}
	return posts, nil
}

func (s *MemoryStore) CirclesContainingPost(ctx context.Context, postID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check("circles containing post"); err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range s.spotlights {
		if e.PostID == postID {
			ids = append(ids, e.CircleID)
		}
	}
	return ids, nil
}

func (s *MemoryStore) CreateCircle(ctx context.Context, circle *models.Circle, owner models.CircleMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("create circle"); err != nil {
		return err
	}
	now := time.Now()
	if circle.CreatedAt.IsZero() {
		circle.CreatedAt = now
	}
	circle.UpdatedAt = circle.CreatedAt
	s.circles[circle.ID] = *circle

	if owner.InvitedAt.IsZero() {
		owner.InvitedAt = now
	}
	owner.ID = uint(len(s.members) + 1)
	s.members = append(s.members, owner)
	return nil
}

func (s *MemoryStore) GetCircle(ctx context.Context, id string) (*models.Circle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check("get circle"); err != nil {
		return nil, err
	}
	c, ok := s.circles[id]
	if !ok {
		return nil, ErrCircleNotFound
	}
	return &c, nil
}

func (s *MemoryStore) CirclesForUser(ctx context.Context, userID string) ([]models.Circle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check("circles for user"); err != nil {
		return nil, err
	}
	var circles []models.Circle
	for _, m := range s.members {
		if m.UserID != userID || m.Status != models.CircleStatusActive {
			continue
		}
		if c, ok := s.circles[m.CircleID]; ok {
			circles = append(circles, c)
		}
	}
	sort.SliceStable(circles, func(i, j int) bool { return circles[i].CreatedAt.Before(circles[j].CreatedAt) })
	return circles, nil
}

func (s *MemoryStore) IsActiveMember(ctx context.Context, circleID, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check("is active member"); err != nil {
		return false, err
	}
	for _, m := range s.members {
		if m.CircleID == circleID && m.UserID == userID && m.Status == models.CircleStatusActive {
			return true, nil
		}
	}
	return false, nil
}

// AddMember is a test and seeding hook; circle invitations are handled elsewhere.
func (s *MemoryStore) AddMember(member models.CircleMember) {
	s.mu.Lock()
	defer s.mu.Unlock()
	member.ID = uint(len(s.members) + 1)
	s.members = append(s.members, member)
}

func (s *MemoryStore) ListStyles(ctx context.Context) ([]models.Style, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check("list styles"); err != nil {
		return nil, err
	}
	return append([]models.Style(nil), s.styles...), nil
}
