package websocket

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"veritaslab/internal/microservices/http-api/middleware"
	"veritaslab/internal/microservices/http-api/models"
	"veritaslab/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeValidator struct{}

func (fakeValidator) ValidateToken(token string) (*shared.AuthClaims, error) {
	if token != "alice-token" {
		return nil, errors.New("invalid token")
	}
	return &shared.AuthClaims{UserID: "alice", Username: "alice", Role: "user"}, nil
}

func newStreamServer(t *testing.T, hub *Hub) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/stream", middleware.AuthMiddleware(fakeValidator{}), Handler(hub, []string{"http://allowed.example"}))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream"
}

func dial(t *testing.T, url, token string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	return websocket.DefaultDialer.Dial(url, header)
}

func readMessage(t *testing.T, conn *websocket.Conn) *Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return &msg
}

func TestHandler_StreamsNotifications(t *testing.T) {
	hub, cancel, done := startHub(t)
	url := newStreamServer(t, hub)

	conn, _, err := dial(t, url, "alice-token")
	require.NoError(t, err)
	defer conn.Close()

	// the welcome message proves the hub registered the client
	assert.Equal(t, TypeSystem, readMessage(t, conn).Type)

	hub.Publish(&models.Notification{ID: 3, UserID: "alice", Type: models.NotificationSubmissionApproved, Title: "Submission approved!"})
	msg := readMessage(t, conn)
	assert.Equal(t, TypeNotification, msg.Type)
	require.NotNil(t, msg.Notification)
	assert.Equal(t, models.NotificationSubmissionApproved, msg.Notification.Type)

	cancel()
	require.NoError(t, <-done)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

func TestHandler_RequiresToken(t *testing.T) {
	hub, cancel, done := startHub(t)
	defer func() {
		cancel()
		<-done
	}()
	url := newStreamServer(t, hub)

	_, resp, err := dial(t, url, "")
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = dial(t, url, "wrong")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandler_HubStopped(t *testing.T) {
	hub, cancel, done := startHub(t)
	cancel()
	<-done
	url := newStreamServer(t, hub)

	conn, _, err := dial(t, url, "alice-token")
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseTryAgainLater), "got %v", err)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://allowed.example"})

	tests := []struct {
		name   string
		origin string
		host   string
		want   bool
	}{
		{"no origin", "", "api.example", true},
		{"configured origin", "http://allowed.example", "api.example", true},
		{"same host", "https://api.example", "api.example", true},
		{"foreign origin", "http://evil.example", "api.example", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/stream", nil)
			r.Host = tt.host
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, check(r))
		})
	}

	assert.True(t, originChecker([]string{"*"})(func() *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/stream", nil)
		r.Header.Set("Origin", "http://anything.example")
		return r
	}()))
}
