// Package server exposes the liveness and manual-scan HTTP surface.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"premarket-screener/internal/screener"
)

// Server wraps the gin router serving the screener's HTTP endpoints.
type Server struct {
	screener *screener.Screener
	logger   zerolog.Logger
	http     *http.Server
}

// New creates the HTTP server on the given port.
func New(s *screener.Screener, port int, logger zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	srv := &Server{
		screener: s,
		logger:   logger,
		http: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		},
	}

	router.GET("/", srv.handleHome)
	router.GET("/scan", srv.handleScan)

	return srv
}

func (s *Server) handleHome(c *gin.Context) {
	c.String(http.StatusOK, "Pre-market scanner online.")
}

// handleScan forces one scan synchronously. The window gate still applies:
// outside premarket hours the scan is a no-op and still reports completion.
func (s *Server) handleScan(c *gin.Context) {
	if err := s.screener.Run(c.Request.Context()); err != nil {
		c.String(http.StatusInternalServerError, "Scan failed: %v", err)
		return
	}
	c.String(http.StatusOK, "Scan completed.")
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}
