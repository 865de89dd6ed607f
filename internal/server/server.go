// Package server exposes the resolver over HTTP with gin.
//
// Routes:
//
//	POST /api/result   - character lookup plus mnemonic
//	POST /api/mnemonic - mnemonic for a known character
//	GET  /api/health   - provider health snapshot
//	GET  /api/status   - available provider names
//	GET  /metrics      - Prometheus metrics
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"codeberg.org/snonux/hanzirecall/internal/health"
	"codeberg.org/snonux/hanzirecall/internal/resolver"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// Server serves the lookup API
type Server struct {
	resolver *resolver.Resolver
	health   *health.Aggregator
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	engine   *gin.Engine
}

// New builds the router. A nil gatherer uses the default Prometheus
// registry and a nil logger uses slog.Default().
func New(r *resolver.Resolver, agg *health.Aggregator, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		resolver: r,
		health:   agg,
		gatherer: gatherer,
		logger:   logger,
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())
	s.registerRoutes(engine)
	s.engine = engine

	return s
}

func (s *Server) registerRoutes(router *gin.Engine) {
	api := router.Group("/api")
	api.POST("/result", s.handleResult)
	api.POST("/mnemonic", s.handleMnemonic)
	api.GET("/health", s.handleHealth)
	api.GET("/status", s.handleStatus)

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
