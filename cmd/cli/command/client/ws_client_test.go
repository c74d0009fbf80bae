package client

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"veritaslab/cmd/cli/dto"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{}

func TestStreamURL(t *testing.T) {
	u, err := NewHTTPClient("https://veritas.example/base/").streamURL()
	require.NoError(t, err)
	assert.Equal(t, "wss://veritas.example/base/api/notifications/stream", u)

	u, err = NewHTTPClient("http://localhost:4000").streamURL()
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:4000/api/notifications/stream", u)
}

func TestWatchNotifications(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/notifications/stream", r.URL.Path)
		assert.Equal(t, "Bearer jwt", r.Header.Get("Authorization"))

		conn, err := upgrader.Upgrade(w, r, nil)
		if !assert.NoError(t, err) {
			return
		}
		defer conn.Close()

		assert.NoError(t, conn.WriteJSON(map[string]any{"type": "system", "content": "connected"}))
		assert.NoError(t, conn.WriteJSON(map[string]any{
			"type":         "notification",
			"notification": map[string]any{"id": 9, "type": "comment_like", "title": "Comment liked"},
		}))
		assert.NoError(t, conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "")))
	})

	var got []dto.Notification
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := c.WatchNotifications(ctx, Session{Token: "jwt"}, func(n dto.Notification) {
		got = append(got, n)
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(9), got[0].ID)
	assert.Equal(t, "Comment liked", got[0].Title)
}

func TestWatchNotifications_StopsOnCancel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if !assert.NoError(t, err) {
			return
		}
		defer conn.Close()
		// hold the stream open until the client goes away
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := c.WatchNotifications(ctx, Session{Token: "jwt"}, func(dto.Notification) {
		t.Error("no notification expected")
	})
	assert.NoError(t, err)
}

func TestWatchNotifications_Unauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":"invalid token"}`)
	})

	err := c.WatchNotifications(context.Background(), Session{Token: "stale"}, func(dto.Notification) {})
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.Contains(t, err.Error(), "invalid token")

	err = c.WatchNotifications(context.Background(), Session{}, func(dto.Notification) {})
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}
