package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type StageNumberRequest struct {
	Number *int `json:"number" binding:"required"`
}

// StageNumber forces the next drawn number. Host-only.
func (h *Handler) StageNumber(c *gin.Context) {
	var req StageNumberRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.Bingo.StageNumber(c.Request.Context(), c.Param("id"), *req.Number, getHostID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"staged": *req.Number})
}

// DevLogs lists recent developer actions, newest first
func (h *Handler) DevLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	actions, err := h.Bingo.DevActions(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": actions})
}
