package store

import (
	"context"
	"errors"

	"fashigram/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const pgForeignKeyViolation = "23503"

// GormStore is the Postgres backend.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var _ Store = (*GormStore)(nil)

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

func withImages(db *gorm.DB) *gorm.DB {
	return db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index ASC")
	})
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return unavailable("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

// CastVote relies on idx_vote_triple. ON CONFLICT DO NOTHING keeps a lost race from aborting the enclosing transaction.
func (s *GormStore) CastVote(ctx context.Context, v models.Vote) error {
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&v)
	if err := res.Error; err != nil {
		switch {
		case isUniqueViolation(err):
			return ErrDuplicateVote
		case isForeignKeyViolation(err):
			return ErrPostNotFound
		}
		return unavailable("cast vote", err)
	}
	if res.RowsAffected == 0 {
		return ErrDuplicateVote
	}
	return nil
}

func (s *GormStore) RetractVote(ctx context.Context, postID, style, voterID string) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("post_id = ? AND style = ? AND voter_id = ?", postID, style, voterID).
		Delete(&models.Vote{})
	if res.Error != nil {
		return false, unavailable("retract vote", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) VotesForPost(ctx context.Context, postID string) ([]models.Vote, error) {
	var votes []models.Vote
	if err := s.db.WithContext(ctx).Where("post_id = ?", postID).Order("created_at ASC, id ASC").Find(&votes).Error; err != nil {
		return nil, unavailable("votes for post", err)
	}
	return votes, nil
}

func (s *GormStore) VoteCount(ctx context.Context, postID, style string) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Vote{}).Where("post_id = ? AND style = ?", postID, style).Count(&count).Error; err != nil {
		return 0, unavailable("vote count", err)
	}
	return count, nil
}

func (s *GormStore) HasVoted(ctx context.Context, postID, style, voterID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Vote{}).
		Where("post_id = ? AND style = ? AND voter_id = ?", postID, style, voterID).
		Count(&count).Error
	if err != nil {
		return false, unavailable("has voted", err)
	}
	return count > 0, nil
}

// WithinPost takes a row lock on the post so concurrent writers of the same post run one after another.
func (s *GormStore) WithinPost(ctx context.Context, postID string, fn func(tx VoteStore) error) error {
	var fnErr error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", postID).
			Take(&post).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				fnErr = ErrPostNotFound
			} else {
				fnErr = unavailable("lock post", err)
			}
			return fnErr
		}
		fnErr = fn(&GormStore{db: tx})
		return fnErr
	})
	if err != nil && fnErr == nil {
		return unavailable("commit", err)
	}
	return err
}

func (s *GormStore) CreatePost(ctx context.Context, post *models.Post, declared models.Vote) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return tx.Create(&declared).Error
	})
	if err != nil {
		return unavailable("create post", err)
	}
	return nil
}

func (s *GormStore) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := withImages(s.db.WithContext(ctx)).Where("id = ?", id).Take(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, unavailable("get post", err)
	}
	return &post, nil
}

func (s *GormStore) ListPosts(ctx context.Context, filter models.FeedFilter) ([]models.Post, error) {
	query := withImages(s.db.WithContext(ctx))
	if filter.Style != "" {
		query = query.Where("declared_style = ?", filter.Style)
	}
	if sub := filter.EffectiveSubstyle(); sub != "" {
		query = query.Where("substyle = ?", sub)
	}
	if filter.CountryName != "" {
		query = query.Where("country_name = ?", filter.CountryName)
	}
	if filter.AuthorID != "" {
		query = query.Where("author_id = ?", filter.AuthorID)
	}

	var posts []models.Post
	if err := query.Order("created_at DESC, id ASC").Find(&posts).Error; err != nil {
		return nil, unavailable("list posts", err)
	}
	return posts, nil
}

func (s *GormStore) DeletePost(ctx context.Context, id, authorID string) error {
	var domainErr error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).Take(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				domainErr = ErrPostNotFound
				return domainErr
			}
			return err
		}
		if post.AuthorID != authorID {
			domainErr = ErrNotPostAuthor
			return domainErr
		}

		// The foreign keys cascade as well; deleting explicitly keeps older schemas consistent.
		if err := tx.Where("post_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.SpotlightEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if domainErr != nil {
		return domainErr
	}
	if err != nil {
		return unavailable("delete post", err)
	}
	return nil
}

func (s *GormStore) DeclaredVoteCounts(ctx context.Context, postIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	type countResult struct {
		PostID string
		Count  int64
	}
	var results []countResult
	err := s.db.WithContext(ctx).Model(&models.Vote{}).
		Select("votes.post_id, COUNT(*) AS count").
		Joins("JOIN posts ON posts.id = votes.post_id AND posts.declared_style = votes.style").
		Where("votes.post_id IN ?", postIDs).
		Group("votes.post_id").
		Scan(&results).Error
	if err != nil {
		return nil, unavailable("declared vote counts", err)
	}

	for _, r := range results {
		counts[r.PostID] = r.Count
	}
	return counts, nil
}

func (s *GormStore) PostsMissingAuthorVote(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM votes WHERE votes.post_id = posts.id AND votes.style = posts.declared_style AND votes.voter_id = posts.author_id)").
		Order("created_at ASC").
		Find(&posts).Error
	if err != nil {
		return nil, unavailable("posts missing author vote", err)
	}
	return posts, nil
}

func (s *GormStore) DistinctCountries(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("country_name <> ''").
		Distinct("country_name").
		Order("country_name ASC").
		Pluck("country_name", &names).Error
	if err != nil {
		return nil, unavailable("distinct countries", err)
	}
	return names, nil
}

func (s *GormStore) AddSpotlight(ctx context.Context, entry models.SpotlightEntry) error {
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&entry)
	if err := res.Error; err != nil {
		switch {
		case isUniqueViolation(err):
			return ErrDuplicateSpotlight
		case isForeignKeyViolation(err):
			return ErrPostNotFound
		}
		return unavailable("add spotlight", err)
	}
	if res.RowsAffected == 0 {
		return ErrDuplicateSpotlight
	}
	return nil
}

func (s *GormStore) RemoveSpotlight(ctx context.Context, postID, circleID string) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("post_id = ? AND circle_id = ?", postID, circleID).
		Delete(&models.SpotlightEntry{})
	if res.Error != nil {
		return false, unavailable("remove spotlight", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) SpotlightedPosts(ctx context.Context, circleID string) ([]models.Post, error) {
	var posts []models.Post
	err := withImages(s.db.WithContext(ctx)).
		Select("posts.*").
		Joins("JOIN spotlight_entries ON spotlight_entries.post_id = posts.id").
		Where("spotlight_entries.circle_id = ?", circleID).
		Order("spotlight_entries.added_at ASC, spotlight_entries.id ASC").
		Find(&posts).Error
	if err != nil {
		return nil, unavailable("spotlighted posts", err)
	}
	return posts, nil
}

func (s *GormStore) CirclesContainingPost(ctx context.Context, postID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&models.SpotlightEntry{}).
		Where("post_id = ?", postID).
		Order("added_at ASC").
		Pluck("circle_id", &ids).Error
	if err != nil {
		return nil, unavailable("circles containing post", err)
	}
	return ids, nil
}

func (s *GormStore) CreateCircle(ctx context.Context, circle *models.Circle, owner models.CircleMember) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(circle).Error; err != nil {
			return err
		}
		return tx.Create(&owner).Error
	})
	if err != nil {
		return unavailable("create circle", err)
	}
	return nil
}

func (s *GormStore) GetCircle(ctx context.Context, id string) (*models.Circle, error) {
	var circle models.Circle
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&circle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCircleNotFound
		}
		return nil, unavailable("get circle", err)
	}
	return &circle, nil
}

func (s *GormStore) CirclesForUser(ctx context.Context, userID string) ([]models.Circle, error) {
	var circles []models.Circle
	err := s.db.WithContext(ctx).
		Select("circles.*").
		Joins("JOIN circle_members ON circle_members.circle_id = circles.id").
		Where("circle_members.user_id = ? AND circle_members.status = ?", userID, models.CircleStatusActive).
		Order("circles.created_at ASC").
		Find(&circles).Error
	if err != nil {
		return nil, unavailable("circles for user", err)
	}
	return circles, nil
}

func (s *GormStore) IsActiveMember(ctx context.Context, circleID, userID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.CircleMember{}).
		Where("circle_id = ? AND user_id = ? AND status = ?", circleID, userID, models.CircleStatusActive).
		Count(&count).Error
	if err != nil {
		return false, unavailable("is active member", err)
	}
	return count > 0, nil
}

func (s *GormStore) ListStyles(ctx context.Context) ([]models.Style, error) {
	var styles []models.Style
	if err := s.db.WithContext(ctx).Order("parent ASC, id ASC").Find(&styles).Error; err != nil {
		return nil, unavailable("list styles", err)
	}
	return styles, nil
}
