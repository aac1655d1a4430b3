// Package server assembles the gin engine and runs it until its context is
// cancelled.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/Rana718/forge/internal/api/v1"
	"github.com/Rana718/forge/internal/middleware"
)

const shutdownTimeout = 10 * time.Second

// NewEngine wires the middleware chain, /health and /api/v1.
func NewEngine(deps *v1.Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.Recovery(deps.Log),
		middleware.CorrelationID(),
		middleware.RequestLogger(deps.Log),
		middleware.CORS(deps.Settings.CORSOrigins),
		middleware.ErrorHandler(deps.Log),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"project":  deps.Settings.ProjectName,
			"version":  deps.Settings.Version,
			"database": deps.Settings.DBType,
			"auth":     deps.Settings.AuthType,
		})
	})

	v1.RegisterRoutes(r.Group("/api/v1"), deps)
	return r
}

// Run serves handler on addr and shuts down gracefully once ctx is done.
func Run(ctx context.Context, addr string, handler http.Handler, log *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
