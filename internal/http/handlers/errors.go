package handlers

import (
	"context"
	"errors"
	"net/http"

	"bingo_webapp/internal/logger"
	"bingo_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{service.ErrNotFound, http.StatusNotFound, "not_found"},
	{service.ErrInvalidConfig, http.StatusBadRequest, "invalid_config"},
	{service.ErrInvalidNumber, http.StatusBadRequest, "invalid_number"},
	{service.ErrInvalidInterval, http.StatusBadRequest, "invalid_interval"},
	{service.ErrSessionFull, http.StatusForbidden, "session_full"},
	{service.ErrGameNotActive, http.StatusBadRequest, "game_not_active"},
	{service.ErrGameAlreadyStarted, http.StatusForbidden, "game_already_started"},
	{service.ErrDrawExhausted, http.StatusBadRequest, "draw_exhausted"},
	{service.ErrAlreadyCalled, http.StatusBadRequest, "already_called"},
	{service.ErrNoCardsFound, http.StatusBadRequest, "no_cards_found"},
	{service.ErrNoWinningPattern, http.StatusBadRequest, "no_winning_pattern"},
	{service.ErrTooManyCards, http.StatusBadRequest, "too_many_cards"},
}

// respondError writes the status and stable code for err. A lost race is not
// an error for the caller: the concurrent request already did the work.
func respondError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrRaceLost) {
		c.JSON(http.StatusAccepted, gin.H{"status": "coalesced"})
		return
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			c.JSON(m.status, gin.H{"error": err.Error(), "code": m.code})
			return
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "request cancelled", "code": "unavailable"})
		return
	}

	logger.Error("request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "code": "internal"})
}
