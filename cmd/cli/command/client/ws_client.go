package client

// ws_client.go = live notification stream over WebSocket.

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"veritaslab/cmd/cli/dto"

	"github.com/gorilla/websocket"
)

// StreamMessage is one frame of /api/notifications/stream.
type StreamMessage struct {
	Type         string            `json:"type"` // "system" or "notification"
	Content      string            `json:"content,omitempty"`
	Notification *dto.Notification `json:"notification,omitempty"`
	Timestamp    time.Time         `json:"timestamp"`
}

func (c *HTTPClient) streamURL() (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid API url: %w", err)
	}
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/notifications/stream"
	return u.String(), nil
}

// WatchNotifications calls fn for every pushed notification until ctx is
// cancelled or the server closes the stream.
func (c *HTTPClient) WatchNotifications(ctx context.Context, sess Session, fn func(dto.Notification)) error {
	s, err := authed(sess)
	if err != nil {
		return err
	}
	target, err := c.streamURL()
	if err != nil {
		return err
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+s.Token)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, target, header)
	if err != nil {
		if resp != nil && resp.StatusCode >= http.StatusBadRequest {
			defer resp.Body.Close()
			return decodeError(resp)
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	defer conn.Close()

	// unblocks ReadJSON when the user stops watching
	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		conn.Close()
	})
	defer stop()

	for {
		var msg StreamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("stream interrupted: %w", err)
		}
		if msg.Type == "notification" && msg.Notification != nil {
			fn(*msg.Notification)
		}
	}
}
