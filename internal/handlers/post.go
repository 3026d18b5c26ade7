package handlers

import (
	"net/http"

	"fashigram/internal/services"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	posts     *services.PostService
	spotlight *services.SpotlightService
}

func NewPostHandler(posts *services.PostService, spotlight *services.SpotlightService) *PostHandler {
	return &PostHandler{posts: posts, spotlight: spotlight}
}

func (h *PostHandler) Create(c *gin.Context) {
	var in services.CreatePostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	post, err := h.posts.Create(c.Request.Context(), currentUserID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// Detail 帖子详情，包含 declared 票数、建议风格排名和当前用户已投的风格
func (h *PostHandler) Detail(c *gin.Context) {
	detail, err := h.posts.Detail(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.posts.Delete(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PostHandler) ByAuthor(c *gin.Context) {
	posts, err := h.posts.ByAuthor(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *PostHandler) Circles(c *gin.Context) {
	ids, err := h.spotlight.CirclesContainingPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"circle_ids": ids})
}
