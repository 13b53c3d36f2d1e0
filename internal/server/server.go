package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"StarTrade/pkg/logger"
)

// Server wraps the gin engine in an http.Server.
type Server struct {
	engine *gin.Engine
	http   *http.Server
	log    *zap.Logger
}

// New builds the router for h and binds it to addr.
func New(addr string, h *Handler) *Server {
	log := logger.Named("http")
	r := gin.New()
	r.Use(Recovery(log), RequestLogging(log), CORS())

	r.GET("/healthz", Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/chart/:symbol", h.Chart)
		api.GET("/analysis/:symbol", h.Analysis)
		api.GET("/history/:symbol", h.History)

		api.GET("/selection", h.GetSelection)
		api.POST("/selection", h.Select)

		api.GET("/board", h.Board)
		api.POST("/board/add", h.BoardAdd)
		api.POST("/board/remove", h.BoardRemove)
		api.POST("/board/move", h.BoardMove)

		api.POST("/chat", h.Chat)
		api.GET("/chat/:conversation", h.Transcript)
	}

	return &Server{
		engine: r,
		http: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// Engine returns the underlying gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start listens in the background.
func (s *Server) Start() {
	go func() {
		s.log.Info("http server listening", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("http server error", zap.Error(err))
		}
	}()
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	s.log.Info("http server stopped")
	return nil
}

// Health reports liveness.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
