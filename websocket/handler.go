package websocket

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/DavidAtikpo/firsty/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// SessionResolver validates a session token and returns its user.
type SessionResolver func(ctx context.Context, token string) (*models.AuthUser, error)

// HandleWebSocket upgrades the connection and waits for an "AUTH:<token>"
// message carrying the session cookie token. Once authenticated, the client
// receives notifications addressed to its user ID.
func HandleWebSocket(c echo.Context, hub *Hub, resolve SessionResolver) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &Client{Conn: conn}
	hub.register <- client

	conn.WriteJSON(Notification{
		Type:         "connected",
		Message:      "WebSocket connection established. Please authenticate to receive notifications.",
		RequiresAuth: true,
	})

	go func() {
		defer func() {
			hub.unregister <- client
		}()

		for {
			messageType, message, err := conn.ReadMessage()
			if err != nil {
				break
			}

			if messageType != websocket.TextMessage {
				continue
			}

			messageStr := string(message)
			if !strings.HasPrefix(messageStr, "AUTH:") {
				continue
			}

			token := strings.TrimPrefix(messageStr, "AUTH:")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			user, err := resolve(ctx, token)
			cancel()
			if err != nil {
				conn.WriteJSON(Notification{
					Type:         "auth_response",
					Message:      "Authentication failed",
					RequiresAuth: true,
				})
				continue
			}

			userID, err := primitive.ObjectIDFromHex(user.ID)
			if err != nil {
				conn.WriteJSON(Notification{
					Type:         "auth_response",
					Message:      "Authentication failed",
					RequiresAuth: true,
				})
				continue
			}

			hub.AuthenticateClient(client, userID)
			conn.WriteJSON(Notification{
				Type:    "auth_response",
				Message: "Authenticated",
				UserID:  user.ID,
			})
		}
	}()

	return nil
}
