package http

import (
	"net/http"
	"time"

	"learnhub/pkg/jwt"
	"learnhub/pkg/logger"
	"learnhub/pkg/middleware"
	"learnhub/services/notification/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StreamHandler serves the live notification feed. Browsers cannot set
// headers on websocket requests, so the token travels in the query string.
type StreamHandler struct {
	notificationUseCase usecase.NotificationUseCase
	jwtService          *jwt.Service
	logger              *logger.Logger
}

func NewStreamHandler(notificationUseCase usecase.NotificationUseCase, jwtService *jwt.Service, logger *logger.Logger) *StreamHandler {
	return &StreamHandler{
		notificationUseCase: notificationUseCase,
		jwtService:          jwtService,
		logger:              logger,
	}
}

// HandleWebSocket godoc
// @Summary      Live notification stream
// @Tags         notifications
// @Param        token query string true "JWT access token"
// @Success      101  {string}  string  "Switching Protocols"
// @Failure      401  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]string
// @Router       /notifications/ws [get]
func (h *StreamHandler) HandleWebSocket(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		token := c.Query("token")
		if token == "" {
			middleware.AbortUnauthorized(c)
			return
		}
		claims, err := h.jwtService.ValidateToken(token)
		if err != nil {
			middleware.AbortUnauthorized(c)
			return
		}
		userID = claims.UserID
	}

	messages, cancel, err := h.notificationUseCase.Subscribe(c.Request.Context(), userID)
	if err != nil {
		h.logger.Warn("[WEBSOCKET] Subscribe failed for user %s: %v", userID, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Live notifications unavailable"})
		return
	}
	defer cancel()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade connection to WebSocket: %v", err)
		return
	}
	defer conn.Close()

	h.logger.Info("WebSocket connected for user %s", userID)

	done := make(chan struct{})
	go h.writePump(conn, messages, done)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("WebSocket read error: %v", err)
			}
			break
		}
	}

	close(done)
	h.logger.Info("WebSocket disconnected for user %s", userID)
}

// writePump owns all writes on conn.
func (h *StreamHandler) writePump(conn *websocket.Conn, messages <-chan []byte, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case payload, ok := <-messages:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.logger.Error("Failed to write WebSocket message: %v", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
