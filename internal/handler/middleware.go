package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nikolayk812/pos-demo/internal/auth"
	"github.com/nikolayk812/pos-demo/internal/domain"
	"github.com/nikolayk812/pos-demo/internal/register"
	"go.uber.org/zap"
)

const (
	SessionHeader   = "X-Session-ID"
	RequestIDHeader = "X-Request-ID"

	sessionKey   = "session"
	registerKey  = "register"
	requestIDKey = "request_id"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)

		c.Next()
	}
}

func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(requestIDKey)),
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			logger.Error("request", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("request", fields...)
		default:
			logger.Debug("request", fields...)
		}
	}
}

// RequireSession restores the cashier session named by the X-Session-ID header.
// The register of a session that is gone, e.g. expired, is closed.
func RequireSession(authService *auth.Service, registry *register.Registry, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)

		sess, err := authService.Restore(c.Request.Context(), sessionID)
		if err != nil {
			if errors.Is(err, auth.ErrNotLoggedIn) {
				if sessionID != "" {
					registry.Close(sessionID)
				}
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "Not logged in",
				})
				return
			}

			logger.Error("Failed to restore session", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to restore session",
			})
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// RequireRegister opens the session's register, which must follow RequireSession.
func RequireRegister(registry *register.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		reg, err := registry.Open(c.Request.Context(), sessionFrom(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
				"error": "Failed to load products and categories",
			})
			return
		}

		c.Set(registerKey, reg)
		c.Next()
	}
}

func sessionFrom(c *gin.Context) domain.Session {
	sess, _ := c.MustGet(sessionKey).(domain.Session)
	return sess
}

func registerFrom(c *gin.Context) *register.Register {
	reg, _ := c.MustGet(registerKey).(*register.Register)
	return reg
}
