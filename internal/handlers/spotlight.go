package handlers

import (
	"net/http"

	"fashigram/internal/models"
	"fashigram/internal/services"

	"github.com/gin-gonic/gin"
)

type SpotlightHandler struct {
	spotlight *services.SpotlightService
}

func NewSpotlightHandler(spotlight *services.SpotlightService) *SpotlightHandler {
	return &SpotlightHandler{spotlight: spotlight}
}

// Toggle 切换 spotlight 状态 - 加入/移出圈子精选
func (h *SpotlightHandler) Toggle(c *gin.Context) {
	circleID := c.Param("id")
	postID := c.Param("postId")

	on, err := h.spotlight.ToggleSpotlight(c.Request.Context(), postID, circleID, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"circle_id": circleID, "post_id": postID, "spotlighted": on})
}

// List returns the circle's spotlight feed, in insertion order unless ?sort= is given.
func (h *SpotlightHandler) List(c *gin.Context) {
	order, ok := sortParam(c)
	if !ok {
		badRequest(c, "sort must be new or top")
		return
	}
	var filter models.FeedFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, "invalid filter")
		return
	}

	posts, err := h.spotlight.SpotlightedPosts(c.Request.Context(), c.Param("id"), filter, order)
	if err != nil {
		respondError(c, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}
