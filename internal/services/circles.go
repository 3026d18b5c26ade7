package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"fashigram/internal/models"
	"fashigram/internal/store"

	"github.com/google/uuid"
)

const (
	maxCircleName        = 80
	maxCircleDescription = 300
)

type CircleService struct {
	circles store.CircleStore
	Now     func() time.Time
}

func NewCircleService(circles store.CircleStore) *CircleService {
	return &CircleService{circles: circles, Now: time.Now}
}

// Create stores a circle with ownerID as its ACTIVE OWNER member.
func (s *CircleService) Create(ctx context.Context, ownerID, name, description string) (*models.Circle, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	if utf8.RuneCountInString(name) > maxCircleName {
		return nil, invalid("name", "is too long")
	}
	if utf8.RuneCountInString(description) > maxCircleDescription {
		return nil, invalid("description", "is too long")
	}

	now := s.Now()
	circle := &models.Circle{
		ID:          uuid.NewString(),
		OwnerUserID: ownerID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	owner := models.CircleMember{
		CircleID:        circle.ID,
		UserID:          ownerID,
		Role:            models.CircleRoleOwner,
		Status:          models.CircleStatusActive,
		InvitedByUserID: ownerID,
		InvitedAt:       now,
		JoinedAt:        &now,
	}
	if err := s.circles.CreateCircle(ctx, circle, owner); err != nil {
		return nil, err
	}
	return circle, nil
}

func (s *CircleService) Get(ctx context.Context, id string) (*models.Circle, error) {
	return s.circles.GetCircle(ctx, id)
}

// ListForUser returns the circles where userID is an ACTIVE member.
func (s *CircleService) ListForUser(ctx context.Context, userID string) ([]models.Circle, error) {
	return s.circles.CirclesForUser(ctx, userID)
}
