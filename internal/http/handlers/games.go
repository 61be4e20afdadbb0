package handlers

import (
	"context"
	"net/http"

	"bingo_webapp/internal/domain"
	"bingo_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateGameRequest is the body of POST /games
type CreateGameRequest struct {
	HostName    string `json:"host_name" binding:"required"`
	PlayerLimit int    `json:"player_limit" binding:"required,min=1"`
	WinPattern  string `json:"win_pattern"`
}

// CreateGameResponse carries the host token needed for host-only routes
type CreateGameResponse struct {
	Game      *domain.Game `json:"game"`
	HostToken string       `json:"host_token"`
}

type JoinRequest struct {
	Name      string `json:"name" binding:"required"`
	CardCount int    `json:"card_count"`
}

type AddCardsRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
	Count    int    `json:"count" binding:"required,min=1"`
}

type MarkRequest struct {
	Index *int `json:"index" binding:"required"`
}

type SetMarkedRequest struct {
	Marked []int `json:"marked" binding:"required"`
}

type BingoRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
	Name     string `json:"name"`
}

type MessageRequest struct {
	PlayerID string `json:"player_id"`
	Sender   string `json:"sender"`
	Text     string `json:"text" binding:"required"`
}

type PatternRequest struct {
	Pattern string `json:"pattern" binding:"required"`
}

// Patterns lists the win pattern catalog
func (h *Handler) Patterns(c *gin.Context) {
	catalog := h.Bingo.Catalog()
	c.JSON(http.StatusOK, gin.H{
		"patterns":   catalog.List(),
		"categories": catalog.Categories(),
	})
}

func (h *Handler) CreateGame(c *gin.Context) {
	var req CreateGameRequest
	if !bindJSON(c, &req) {
		return
	}

	g, err := h.Bingo.CreateGame(c.Request.Context(), req.HostName, req.PlayerLimit, req.WinPattern)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := service.GenerateHostJWT(g.ID, g.HostID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateGameResponse{Game: g, HostToken: token})
}

// GetGame returns the polling snapshot of one session
func (h *Handler) GetGame(c *gin.Context) {
	snap, err := h.Bingo.Snapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) Join(c *gin.Context) {
	var req JoinRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.CardCount == 0 {
		req.CardCount = 1
	}

	res, err := h.Bingo.Join(c.Request.Context(), c.Param("id"), req.Name, req.CardCount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) AddCards(c *gin.Context) {
	var req AddCardsRequest
	if !bindJSON(c, &req) {
		return
	}

	cards, err := h.Bingo.AddCards(c.Request.Context(), c.Param("id"), req.PlayerID, req.Count)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"cards": cards})
}

func (h *Handler) PlayerCards(c *gin.Context) {
	cards, err := h.Bingo.PlayerCards(c.Request.Context(), c.Param("id"), c.Param("playerId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cards": cards})
}

func (h *Handler) SetMarked(c *gin.Context) {
	var req SetMarkedRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.Bingo.SetMarks(c.Request.Context(), c.Param("id"), c.Param("cardId"), req.Marked)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *Handler) Mark(c *gin.Context) {
	var req MarkRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.Bingo.MarkCell(c.Request.Context(), c.Param("id"), c.Param("cardId"), *req.Index)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *Handler) Unmark(c *gin.Context) {
	var req MarkRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.Bingo.UnmarkCell(c.Request.Context(), c.Param("id"), c.Param("cardId"), *req.Index)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// ClaimBingo arbitrates a win claim
func (h *Handler) ClaimBingo(c *gin.Context) {
	var req BingoRequest
	if !bindJSON(c, &req) {
		return
	}

	w, err := h.Bingo.ClaimWin(c.Request.Context(), c.Param("id"), req.PlayerID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"winner": w})
}

func (h *Handler) PostMessage(c *gin.Context) {
	var req MessageRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := h.Bingo.PostMessage(c.Request.Context(), c.Param("id"), req.PlayerID, req.Sender, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// ---- host-only ----

func (h *Handler) Start(c *gin.Context) {
	h.transition(c, h.Bingo.Start)
}

func (h *Handler) Pause(c *gin.Context) {
	h.transition(c, h.Bingo.Pause)
}

func (h *Handler) Restart(c *gin.Context) {
	h.transition(c, h.Bingo.Restart)
}

func (h *Handler) Call(c *gin.Context) {
	n, err := h.Bingo.CallNext(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"number": n})
}

func (h *Handler) SetPattern(c *gin.Context) {
	var req PatternRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.Bingo.SetPattern(c.Request.Context(), c.Param("id"), req.Pattern); err != nil {
		respondError(c, err)
		return
	}
	h.respondGame(c)
}

func (h *Handler) transition(c *gin.Context, fn func(ctx context.Context, sessionID string) error) {
	if err := fn(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	h.respondGame(c)
}

func (h *Handler) respondGame(c *gin.Context) {
	g, err := h.Bingo.GetGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}
