package handlers

import (
	"net/http"

	"fashigram/internal/models"
	"fashigram/internal/services"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	consensus *services.ConsensusService
}

func NewVoteHandler(consensus *services.ConsensusService) *VoteHandler {
	return &VoteHandler{consensus: consensus}
}

type voteRequest struct {
	Style string          `json:"style" binding:"required"`
	Kind  models.VoteKind `json:"kind"`
}

// Vote toggles the caller's vote on one style of the post.
func (h *VoteHandler) Vote(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "style is required")
		return
	}
	if req.Kind == "" {
		req.Kind = models.VoteKindSuggested
	}

	outcome, err := h.consensus.ToggleVote(c.Request.Context(), c.Param("id"), req.Style, currentUserID(c), req.Kind)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// Suggest toggles a suggested style; a third distinct suggestion is rejected with 422.
func (h *VoteHandler) Suggest(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "style is required")
		return
	}

	outcome, err := h.consensus.Suggest(c.Request.Context(), c.Param("id"), req.Style, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}
