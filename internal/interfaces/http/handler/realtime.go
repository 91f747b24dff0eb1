package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/loro/backend/internal/infrastructure/logger"
	"github.com/loro/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// ConnServer takes over an upgraded connection
type ConnServer interface {
	Serve(conn *websocket.Conn, tenantID, userID uuid.UUID)
}

// RealtimeHandler upgrades authenticated clients to WebSocket
type RealtimeHandler struct {
	BaseHandler
	validator middleware.TokenValidator
	hub       ConnServer
	upgrader  *websocket.Upgrader
}

// NewRealtimeHandler creates a RealtimeHandler
func NewRealtimeHandler(validator middleware.TokenValidator, hub ConnServer, upgrader *websocket.Upgrader) *RealtimeHandler {
	return &RealtimeHandler{validator: validator, hub: hub, upgrader: upgrader}
}

// Connect godoc
// @Summary      Open the realtime channel
// @Description  Browsers cannot set headers on WebSocket requests, so the access token may be passed as ?token=
// @Tags         realtime
// @Param        token query string false "Access token"
// @Success      101
// @Failure      401 {object} ErrorResponse
// @Router       /ws [get]
func (h *RealtimeHandler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = middleware.BearerToken(c)
	}
	if token == "" {
		h.Unauthorized(c, "Missing access token")
		return
	}
	claims, err := h.validator.ValidateAccessToken(c.Request.Context(), token)
	if err != nil {
		h.Unauthorized(c, "Invalid or expired token")
		return
	}
	p, err := middleware.PrincipalFromClaims(claims)
	if err != nil {
		h.Unauthorized(c, "Invalid token claims")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		logger.L(c.Request.Context()).Debug("WebSocket upgrade failed", zap.Error(err))
		return
	}
	h.hub.Serve(conn, p.TenantID, p.UserID)
}
