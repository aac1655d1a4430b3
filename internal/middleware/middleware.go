// Package middleware holds the gin middleware shared by the service and its
// tests.
package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rana718/forge/internal/apperrors"
	applog "github.com/Rana718/forge/internal/logger"
	"github.com/Rana718/forge/internal/repositories"
)

const CorrelationHeader = "X-Correlation-ID"

// CorrelationID reuses the caller's X-Correlation-ID or generates one, stores
// it on the request context and echoes it on the response.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CorrelationHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Request = c.Request.WithContext(applog.WithCorrelationID(c.Request.Context(), id))
		c.Header(CorrelationHeader, id)
		c.Next()
	}
}

// RequestLogger writes one line per request.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		applog.FromContext(c.Request.Context(), log).Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// CORS allows the configured origins. "*" allows any origin; no origins
// disables the middleware.
func CORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", CorrelationHeader},
		ExposeHeaders:    []string{CorrelationHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
		}
	}
	if !cfg.AllowAllOrigins {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

type errorBody struct {
	Detail string `json:"detail"`
}

// ErrorHandler renders the last error attached with c.Error as
// {"detail": message}. Errors that are not business errors become a 500.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		be, ok := apperrors.As(err)
		switch {
		case ok:
		case errors.Is(err, repositories.ErrNotFound):
			be = apperrors.RecordNotFound("")
		case errors.Is(err, repositories.ErrDuplicate):
			be = apperrors.Conflict("")
		default:
			applog.FromContext(c.Request.Context(), log).Error("unhandled error",
				zap.String("path", c.Request.URL.Path), zap.Error(err))
			be = apperrors.InternalServer("")
		}

		if be.StatusCode == http.StatusUnauthorized {
			c.Header("WWW-Authenticate", "Bearer")
		}
		c.AbortWithStatusJSON(be.StatusCode, errorBody{Detail: be.Message})
	}
}

// Recovery turns panics into the generic 500 body.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		applog.FromContext(c.Request.Context(), log).Error("panic recovered", zap.Any("panic", recovered))
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{Detail: "Internal server error"})
	})
}
