package handlers

import (
	"net/http"

	"fashigram/internal/models"
	"fashigram/internal/services"

	"github.com/gin-gonic/gin"
)

type StyleHandler struct {
	styles *services.StyleService
	posts  *services.PostService
}

func NewStyleHandler(styles *services.StyleService, posts *services.PostService) *StyleHandler {
	return &StyleHandler{styles: styles, posts: posts}
}

// List 风格目录：父风格及其子风格
func (h *StyleHandler) List(c *gin.Context) {
	groups, err := h.styles.Catalogue(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"styles": groups})
}

// Posts is the style page. The name in the path matches the catalogue case-insensitively.
func (h *StyleHandler) Posts(c *gin.Context) {
	order, ok := sortParam(c)
	if !ok {
		badRequest(c, "sort must be new or top")
		return
	}
	name, posts, err := h.posts.StylePage(c.Request.Context(), c.Param("name"), order)
	if err != nil {
		respondError(c, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	c.JSON(http.StatusOK, gin.H{"style": name, "posts": posts})
}
