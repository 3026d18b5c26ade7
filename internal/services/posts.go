package services

import (
	"context"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"fashigram/internal/models"
	"fashigram/internal/store"
	"fashigram/internal/utils"

	"github.com/google/uuid"
)

type CreatePostInput struct {
	Style       string   `json:"style"`
	Substyle    string   `json:"substyle"`
	CountryName string   `json:"country_name"`
	Caption     string   `json:"caption"`
	ImageURLs   []string `json:"image_urls"`
}

// PostDetail is the single-post view: consensus state plus the viewer's own votes.
type PostDetail struct {
	Post          *models.Post `json:"post"`
	CaptionHTML   string       `json:"caption_html"`
	DeclaredVotes int          `json:"declared_votes"`
	Suggestions   []StyleTally `json:"suggestions"`
	MyVotes       []string     `json:"my_votes"`
	Circles       []string     `json:"circles"`
}

type PostService struct {
	posts     store.PostStore
	votes     store.VoteStore
	spots     store.SpotlightStore
	consensus *ConsensusService
	styles    *StyleService
	feed      *FeedService
	Now       func() time.Time
}

func NewPostService(st store.Store, consensus *ConsensusService, styles *StyleService, feed *FeedService) *PostService {
	return &PostService{
		posts:     st,
		votes:     st,
		spots:     st,
		consensus: consensus,
		styles:    styles,
		feed:      feed,
		Now:       time.Now,
	}
}

// Create stores the post, its images and the author's DECLARED vote together.
func (s *PostService) Create(ctx context.Context, authorID string, in CreatePostInput) (*models.Post, error) {
	style, _, err := s.styles.Resolve(ctx, in.Style)
	if err != nil {
		return nil, err
	}
	if style == "" {
		return nil, invalid("style", "is required")
	}
	if len(style) > maxStyleLength {
		return nil, invalid("style", "is too long")
	}

	substyle, err := s.styles.CheckSubstyle(ctx, style, utils.NormalizeStyle(in.Substyle))
	if err != nil {
		return nil, err
	}

	urls, err := validateImageURLs(in.ImageURLs)
	if err != nil {
		return nil, err
	}

	caption := utils.SanitizeCaption(in.Caption)
	if utf8.RuneCountInString(caption) > utils.MaxCaptionLength {
		return nil, invalid("caption", "is too long")
	}

	now := s.Now()
	post := &models.Post{
		ID:            uuid.NewString(),
		AuthorID:      authorID,
		DeclaredStyle: style,
		Substyle:      substyle,
		CountryName:   strings.TrimSpace(in.CountryName),
		Caption:       caption,
		CreatedAt:     now,
	}
	for i, u := range urls {
		post.Images = append(post.Images, models.PostImage{
			ID:         uuid.NewString(),
			PostID:     post.ID,
			URL:        u,
			OrderIndex: i,
		})
	}

	declared := models.Vote{
		PostID:    post.ID,
		Style:     style,
		VoterID:   authorID,
		Kind:      models.VoteKindDeclared,
		CreatedAt: now,
	}
	if err := s.posts.CreatePost(ctx, post, declared); err != nil {
		return nil, err
	}
	post.DeclaredVotes = 1
	return post, nil
}

func validateImageURLs(raw []string) ([]string, error) {
	if len(raw) < models.MinPostImages || len(raw) > models.MaxPostImages {
		return nil, invalid("image_urls", "a post needs between 1 and 3 images")
	}
	urls := make([]string, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		u, err := url.Parse(r)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, invalid("image_urls", "must be absolute http(s) URLs")
		}
		urls = append(urls, r)
	}
	return urls, nil
}

// Delete removes a post. Only its author may do so.
func (s *PostService) Delete(ctx context.Context, postID, userID string) error {
	return s.posts.DeletePost(ctx, postID, userID)
}

// Detail assembles the post page for viewerID, which may be empty for anonymous readers.
func (s *PostService) Detail(ctx context.Context, postID, viewerID string) (*PostDetail, error) {
	post, err := s.posts.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	declared, err := s.consensus.DeclaredVoteCount(ctx, post)
	if err != nil {
		return nil, err
	}
	post.DeclaredVotes = declared

	votes, err := s.votes.VotesForPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	circles, err := s.spots.CirclesContainingPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if circles == nil {
		circles = []string{}
	}

	mine := []string{}
	if viewerID != "" {
		for _, v := range votes {
			if v.VoterID == viewerID {
				mine = append(mine, v.Style)
			}
		}
	}

	return &PostDetail{
		Post:          post,
		CaptionHTML:   utils.RenderCaption(post.Caption),
		DeclaredVotes: declared,
		Suggestions:   RankSuggestions(votes, post.DeclaredStyle),
		MyVotes:       mine,
		Circles:       circles,
	}, nil
}

// ByAuthor is the profile feed, newest first.
func (s *PostService) ByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	return s.feed.Feed(ctx, models.FeedFilter{AuthorID: authorID}, SortNew)
}

// StylePage lists posts declaring the named style, matched case-insensitively against the catalogue.
func (s *PostService) StylePage(ctx context.Context, name string, order SortOrder) (string, []models.Post, error) {
	style, _, err := s.styles.Resolve(ctx, name)
	if err != nil {
		return "", nil, err
	}
	if style == "" {
		return "", nil, invalid("style", "is required")
	}
	if order == "" {
		order = SortNew
	}
	posts, err := s.feed.Feed(ctx, models.FeedFilter{Style: style}, order)
	return style, posts, err
}
