package handlers

import (
	"net/http"

	"bingo_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Bingo *service.BingoService
}

func NewHandler(svc *service.BingoService) *Handler {
	return &Handler{Bingo: svc}
}

// getHostID returns the host_id set by middleware.HostAuth
func getHostID(c *gin.Context) string {
	return c.GetString("host_id")
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error(), "code": "invalid_request"})
		return false
	}
	return true
}
