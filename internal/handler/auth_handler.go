package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/pos-demo/internal/api"
	"github.com/nikolayk812/pos-demo/internal/auth"
	"github.com/nikolayk812/pos-demo/internal/domain"
	"github.com/nikolayk812/pos-demo/internal/register"
	"go.uber.org/zap"
)

type DashboardSource interface {
	Dashboard(ctx context.Context, now time.Time) (domain.DashboardData, error)
}

type DashboardFactory func(token string) DashboardSource

type AuthHandler struct {
	authService *auth.Service
	registry    *register.Registry
	dashboard   DashboardFactory
	now         func() time.Time
	logger      *zap.Logger
}

func NewAuthHandler(authService *auth.Service, registry *register.Registry, dashboard DashboardFactory, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		registry:    registry,
		dashboard:   dashboard,
		now:         time.Now,
		logger:      logger,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	sess, err := h.authService.Login(c.Request.Context(), api.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Warn("Login failed", zap.String("email", req.Email), zap.Error(err))

		status := http.StatusBadGateway
		if code := api.StatusCode(err); code == http.StatusBadRequest || code == http.StatusUnauthorized {
			status = http.StatusUnauthorized
		}

		c.JSON(status, gin.H{
			"error": remoteMessage(err, "Login failed"),
		})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		SessionID: sess.ID,
		User:      sess.User,
		Settings:  sess.Settings,
	})
}

// Logout clears the session and discards its register, cart included.
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID := c.GetHeader(SessionHeader)

	if err := h.authService.Logout(c.Request.Context(), sessionID); err != nil {
		if errors.Is(err, auth.ErrNotLoggedIn) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Not logged in",
			})
			return
		}

		h.logger.Error("Failed to logout",
			zap.String("session_id", sessionID),
			zap.Error(err))

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to logout",
		})
		return
	}

	h.registry.Close(sessionID)

	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Dashboard(c *gin.Context) {
	sess := sessionFrom(c)

	data, err := h.dashboard(sess.Token).Dashboard(c.Request.Context(), h.now())
	if err != nil {
		h.logger.Error("Failed to load dashboard",
			zap.String("session_id", sess.ID),
			zap.Error(err))

		c.JSON(http.StatusBadGateway, gin.H{
			"error": remoteMessage(err, "Failed to load dashboard"),
		})
		return
	}

	c.JSON(http.StatusOK, mapDashboardToResponse(data))
}

// remoteMessage is the remote API's own error message when there is one.
func remoteMessage(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
