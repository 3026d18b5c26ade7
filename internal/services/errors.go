package services

import (
	"errors"
	"fmt"
)

var (
	ErrSuggestionLimitExceeded = fmt.Errorf("a post can carry at most %d suggested styles", MaxSuggestedStyles)
	ErrNotCircleMember         = errors.New("not an active member of this circle")
	ErrInvalidVoteKind         = errors.New("invalid vote kind for this style")
)

// ValidationError reports bad caller input for one field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
