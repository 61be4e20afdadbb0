package ws

import (
	"context"
	"net/http"

	"bingo_webapp/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// HandleWS upgrades /ws?game=ID&player_id=&player_name= connections.
// Observers are anonymous; a game query parameter joins immediately.
func HandleWS(hub *Hub, allowedOrigin string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	return func(c *gin.Context) {
		gameID := c.Query("game")
		if gameID != "" {
			if svc := hub.service(); svc != nil && !svc.GameExists(c.Request.Context(), gameID) {
				c.JSON(http.StatusNotFound, gin.H{"error": "game not found", "code": "not_found"})
				return
			}
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade error", "error", err)
			return
		}

		client := NewClient(hub, conn)
		go client.Run(context.Background(), gameID, c.Query("player_id"), c.Query("player_name"))
	}
}
