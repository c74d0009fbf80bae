package websocket

import (
	"net/http"
	"net/url"
	"slices"
	"time"

	"veritaslab/internal/microservices/http-api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Handler upgrades an authenticated request to the notification stream.
// It must run behind middleware.AuthMiddleware.
func Handler(hub *Hub, allowedOrigins []string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}

	return func(c *gin.Context) {
		userID := middleware.UserIDFrom(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		// Upgrade writes its own error response
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			hub.logger.Warn("websocket upgrade failed", "user_id", userID, "error", err)
			return
		}

		client := newClient(userID, conn, hub)
		if !hub.attach(client) {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "shutting down"),
				time.Now().Add(WriteWait))
			conn.Close()
			return
		}

		go client.writePump()
		go client.readPump()
	}
}

// originChecker accepts non-browser clients (no Origin header), same-host
// pages and the configured CORS origins.
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if slices.Contains(allowed, "*") || slices.Contains(allowed, origin) {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	}
}
