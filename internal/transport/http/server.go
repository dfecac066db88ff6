package http

import (
	"fmt"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/turntalk-server/internal/config"
	"github.com/vovakirdan/turntalk-server/internal/core"
	"github.com/vovakirdan/turntalk-server/internal/metrics"
)

// NewServer builds the HTTP server exposing the REST room API, metrics and the WebSocket endpoint.
func NewServer(hub *core.Hub, cfg *config.Config, m *metrics.Metrics, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))
	router.Use(MetricsMiddleware(m))
	router.Use(CORSMiddleware(cfg.ClientOrigins))

	router.GET("/health", healthHandler)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	rooms := NewRoomHandlers(hub, logger)
	api := router.Group("/api")
	api.POST("/rooms", rooms.CreateRoom)
	api.GET("/rooms/:roomId", rooms.GetRoom)

	router.GET("/ws", gin.WrapH(NewWSHandler(hub, cfg, m, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	_, _ = fmt.Fprint(c.Writer, "ok")
}
