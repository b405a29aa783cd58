package realtime

import (
	"context"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Inbound event names understood by the connection loop.
const (
	eventLoginStaff  = "login-staff"
	eventLogoutStaff = "logout-staff"
)

// PresenceEvents receives connection lifecycle events. Implemented by
// presence.Tracker.
type PresenceEvents interface {
	HandleLogin(ctx context.Context, staffID, connID string)
	HandleLogout(ctx context.Context, staffID, connID string)
	HandleDisconnect(ctx context.Context, connID string)
}

type inboundMessage struct {
	Event   string `json:"event"`
	StaffID string `json:"staff_id"`
}

// UpgradeGuard rejects plain HTTP requests on the websocket route.
func UpgradeGuard() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// Handler serves one websocket connection: it registers the connection with
// the hub under a fresh connection id, feeds inbound login/logout events to
// the presence tracker, and reports the disconnect when the read loop ends.
func Handler(hub *Hub, presence PresenceEvents, logger *zap.Logger) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		connID := uuid.NewString()
		hub.register(connID, conn)
		logger.Info("client connected", zap.String("conn_id", connID))

		defer func() {
			hub.unregister(connID)
			presence.HandleDisconnect(context.Background(), connID)
			logger.Info("client disconnected", zap.String("conn_id", connID))
		}()

		for {
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}

			switch msg.Event {
			case eventLoginStaff:
				presence.HandleLogin(context.Background(), msg.StaffID, connID)
			case eventLogoutStaff:
				presence.HandleLogout(context.Background(), msg.StaffID, connID)
			default:
				logger.Debug("unknown realtime event", zap.String("event", msg.Event))
			}
		}
	})
}
