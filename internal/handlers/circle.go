package handlers

import (
	"net/http"

	"fashigram/internal/models"
	"fashigram/internal/services"

	"github.com/gin-gonic/gin"
)

type CircleHandler struct {
	circles *services.CircleService
}

func NewCircleHandler(circles *services.CircleService) *CircleHandler {
	return &CircleHandler{circles: circles}
}

type createCircleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *CircleHandler) Create(c *gin.Context) {
	var req createCircleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	circle, err := h.circles.Create(c.Request.Context(), currentUserID(c), req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, circle)
}

func (h *CircleHandler) List(c *gin.Context) {
	circles, err := h.circles.ListForUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if circles == nil {
		circles = []models.Circle{}
	}
	c.JSON(http.StatusOK, gin.H{"circles": circles})
}

func (h *CircleHandler) Get(c *gin.Context) {
	circle, err := h.circles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, circle)
}
