package handlers

import (
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/reviewboost/reviewboost_be/internal/logger"
	"github.com/reviewboost/reviewboost_be/internal/realtime"
	"github.com/reviewboost/reviewboost_be/internal/utils"
)

type EventsHandler struct {
	Hub       *realtime.Hub
	JWTSecret string
}

func NewEventsHandler(hub *realtime.Hub, jwtSecret string) *EventsHandler {
	return &EventsHandler{Hub: hub, JWTSecret: jwtSecret}
}

// WebSocketHandler streams status events to a freelancer's dashboard. The
// browser can't set cookies on the ws upgrade, so the token rides in the
// query string.
func (h *EventsHandler) WebSocketHandler(c *websocket.Conn) {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		c.Close()
		return
	}

	token, err := jwt.ParseWithClaims(tokenStr, &utils.Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(h.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		logger.Debug("ws auth failed", "err", err)
		c.Close()
		return
	}
	claims, ok := token.Claims.(*utils.Claims)
	if !ok {
		c.Close()
		return
	}

	userUUID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.Close()
		return
	}

	client := &realtime.Client{
		ID:     uuid.New().String(),
		UserID: userUUID,
		Conn:   realtime.NewWebSocketConn(c),
		Send:   make(chan []byte, 256),
	}

	h.Hub.RegisterClient(client)
	defer h.Hub.UnregisterClient(client)

	// writer: hub -> socket
	go func() {
		for msg := range client.Send {
			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}()

	// reader: keep the connection alive, tolerate client pings
	for {
		var payload map[string]interface{}
		if err := c.ReadJSON(&payload); err != nil {
			break
		}
		if msgType, ok := payload["type"].(string); ok && msgType == "pong" {
			continue
		}
	}
}
