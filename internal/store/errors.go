package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrDuplicateVote      = errors.New("vote already cast")
	ErrDuplicateSpotlight = errors.New("post already spotlighted in circle")
	ErrPostNotFound       = errors.New("post not found")
	ErrCircleNotFound     = errors.New("circle not found")
	ErrNotPostAuthor      = errors.New("only the author can delete a post")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

const pgUniqueViolation = "23505"

// unavailable marks an infrastructure failure so callers can tell it apart from domain errors.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}

// isUniqueViolation recognises a duplicate-key rejection from either gorm's translated error or the raw pg error.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
