package http

import (
	"time"

	"bingo_webapp/internal/config"
	"bingo_webapp/internal/http/handlers"
	"bingo_webapp/internal/http/middleware"
	"bingo_webapp/internal/service"
	"bingo_webapp/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(r *gin.Engine, svc *service.BingoService, hub *ws.Hub, cfg *config.Config) {
	h := handlers.NewHandler(svc)
	healthHandler := handlers.NewHealthHandler(svc, hub, cfg.AppVersion)

	apiRateWindow := time.Duration(cfg.APIRateWindow) * time.Second
	claimRateWindow := time.Duration(cfg.ClaimRateWindow) * time.Second

	r.Use(middleware.Metrics())

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, apiRateWindow))
	registerAPIRoutes(v1, h, cfg.ClaimRateLimit, claimRateWindow)

	// Legacy /api routes
	api := r.Group("/api")
	api.Use(middleware.RedisRateLimit(cfg.APIRateLimit, apiRateWindow))
	api.GET("/health", healthHandler.Health)
	api.POST("/games/create", h.CreateGame)
	registerAPIRoutes(api, h, cfg.ClaimRateLimit, claimRateWindow)

	// WebSocket audiences
	r.GET("/ws", ws.HandleWS(hub, cfg.AllowedOrigin))
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, claimRateLimit int, claimRateWindow time.Duration) {
	api.GET("/patterns", h.Patterns)
	api.POST("/games", h.CreateGame)

	games := api.Group("/games/:id")
	{
		// Public
		games.GET("", h.GetGame)
		games.POST("/join", h.Join)
		games.POST("/cards", h.AddCards)
		games.GET("/players/:playerId/cards", h.PlayerCards)
		games.PATCH("/cards/:cardId/marked", h.SetMarked)
		games.POST("/cards/:cardId/mark", h.Mark)
		games.POST("/cards/:cardId/unmark", h.Unmark)
		games.POST("/bingo", middleware.ClaimRateLimit(claimRateLimit, claimRateWindow), h.ClaimBingo)
		games.POST("/messages", h.PostMessage)
		games.GET("/auto-call/status", h.AutoCallStatus)

		// Host-only
		host := games.Group("")
		host.Use(middleware.HostAuth())
		host.POST("/start", h.Start)
		host.POST("/pause", h.Pause)
		host.POST("/restart", h.Restart)
		host.POST("/call", h.Call)
		host.PATCH("/pattern", h.SetPattern)
		host.POST("/auto-call/start", h.StartAutoCall)
		host.POST("/auto-call/stop", h.StopAutoCall)
		host.PATCH("/auto-call/interval", h.UpdateAutoCallInterval)
		host.POST("/dev/stage-number", h.StageNumber)
		host.GET("/dev/logs", h.DevLogs)
	}
}
