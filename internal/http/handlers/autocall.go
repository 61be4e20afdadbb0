package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type AutoCallRequest struct {
	Interval int `json:"interval" binding:"required"`
}

func (h *Handler) AutoCallStatus(c *gin.Context) {
	if _, err := h.Bingo.GetGame(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Bingo.AutoCallStatus(c.Param("id")))
}

func (h *Handler) StartAutoCall(c *gin.Context) {
	var req AutoCallRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.Bingo.StartAutoCall(c.Request.Context(), c.Param("id"), req.Interval); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Bingo.AutoCallStatus(c.Param("id")))
}

// UpdateAutoCallInterval swaps the running timer for one with the new interval
func (h *Handler) UpdateAutoCallInterval(c *gin.Context) {
	var req AutoCallRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.Bingo.UpdateAutoCallInterval(c.Request.Context(), c.Param("id"), req.Interval); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Bingo.AutoCallStatus(c.Param("id")))
}

func (h *Handler) StopAutoCall(c *gin.Context) {
	if err := h.Bingo.StopAutoCall(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Bingo.AutoCallStatus(c.Param("id")))
}
