// Package api exposes the resolver, health checks and metrics over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/compass/internal/geocoding"
	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/UnknownOlympus/compass/internal/resolver"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	readTimeout     = 5 * time.Second
	writeTimeout    = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Resolver resolves a free-text location through the provider chain.
type Resolver interface {
	Resolve(ctx context.Context, query string) (*models.GeoResult, error)
}

// Pinger reports database health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server serves the HTTP API.
type Server struct {
	log       *slog.Logger
	resolver  Resolver
	providers []string
	db        Pinger // nil when no database is configured
	gatherer  prometheus.Gatherer
}

// AttemptResponse is one failed provider attempt.
type AttemptResponse struct {
	Provider string `json:"provider"`
	Error    string `json:"error"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error    string            `json:"error"`
	Attempts []AttemptResponse `json:"attempts,omitempty"`
}

// NewServer creates the API server. providers lists the chain IDs in attempt order.
func NewServer(
	log *slog.Logger,
	resolver Resolver,
	providers []string,
	db Pinger,
	gatherer prometheus.Gatherer,
) *Server {
	return &Server{
		log:       log,
		resolver:  resolver,
		providers: providers,
		db:        db,
		gatherer:  gatherer,
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	v1 := router.Group("/v1")
	v1.GET("/resolve", s.handleResolve)
	v1.GET("/providers", s.handleProviders)

	return router
}

// ListenAndServe serves the API on port until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.Router(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.InfoContext(ctx, "Starting HTTP server", "port", port)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	s.log.InfoContext(ctx, "HTTP server stopped")

	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()
		s.log.DebugContext(c.Request.Context(), "HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(startTime))
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	s.log.DebugContext(c.Request.Context(), "Performing health checks...")

	if s.db != nil {
		if err := s.db.Ping(c.Request.Context()); err != nil {
			s.log.WarnContext(c.Request.Context(), "Database ping failed", "error", err)
			c.String(http.StatusServiceUnavailable, "DB ping failed")
			return
		}
	}

	c.String(http.StatusOK, "OK")
}

func (s *Server) handleResolve(c *gin.Context) {
	query := c.Query("q")

	result, err := s.resolver.Resolve(c.Request.Context(), query)
	if err != nil {
		s.writeResolveError(c, query, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) writeResolveError(c *gin.Context, query string, err error) {
	var exhausted *resolver.ExhaustedError

	switch {
	case errors.Is(err, geocoding.ErrEmptyQuery):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.As(err, &exhausted):
		response := ErrorResponse{
			Error:    resolver.ErrAllProvidersExhausted.Error(),
			Attempts: make([]AttemptResponse, 0, len(exhausted.Attempts)),
		}
		for _, attempt := range exhausted.Attempts {
			response.Attempts = append(response.Attempts, AttemptResponse{
				Provider: attempt.ProviderID,
				Error:    attempt.Err.Error(),
			})
		}
		c.JSON(http.StatusBadGateway, response)
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{Error: err.Error()})
	default:
		s.log.ErrorContext(c.Request.Context(), "Failed to resolve location", "query", query, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to resolve location"})
	}
}

func (s *Server) handleProviders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"providers": s.providers})
}
