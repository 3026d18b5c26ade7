package handlers

import (
	"errors"
	"net/http"

	"fashigram/internal/middleware"
	"fashigram/internal/services"
	"fashigram/internal/store"
	"fashigram/internal/utils/log"

	"github.com/gin-gonic/gin"
)

// respondError maps service and store errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
	case errors.Is(err, services.ErrSuggestionLimitExceeded):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidVoteKind):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrPostNotFound), errors.Is(err, store.ErrCircleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotPostAuthor), errors.Is(err, services.ErrNotCircleMember):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrStorageUnavailable):
		log.Log.WithError(err).WithField("path", c.FullPath()).Error("storage unavailable")
		c.Header("Retry-After", "1")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage temporarily unavailable, retry"})
	default:
		log.Log.WithError(err).WithField("path", c.FullPath()).Error("unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

func currentUserID(c *gin.Context) string {
	return middleware.CurrentUserID(c)
}

// sortParam reads ?sort=. An absent value yields "", an unknown one is an error.
func sortParam(c *gin.Context) (services.SortOrder, bool) {
	raw, present := c.GetQuery("sort")
	if !present || raw == "" {
		return "", true
	}
	return services.ParseSortOrder(raw)
}
