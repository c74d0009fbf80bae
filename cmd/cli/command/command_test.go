package command

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"veritaslab/cmd/cli/authentication"
	"veritaslab/cmd/cli/command/client"
	"veritaslab/cmd/cli/dto"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func run(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(bytes.NewBufferString(""))
	rootCmd.SetArgs(append([]string{"--api", srv.URL, "--no-color"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestParseAuthorFlags(t *testing.T) {
	authors, err := parseAuthorFlags([]string{
		"Ana Souza",
		"Bruno Lima | USP | bruno@usp.br",
		`{"name":"Carla Dias","affiliation":"UFRJ"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, []dto.Author{
		{Name: "Ana Souza"},
		{Name: "Bruno Lima", Affiliation: "USP", Email: "bruno@usp.br"},
		{Name: "Carla Dias", Affiliation: "UFRJ"},
	}, authors)

	_, err = parseAuthorFlags([]string{"|USP"})
	assert.Error(t, err)
}

func TestLoginStoresSession(t *testing.T) {
	keyring.MockInit()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		io.WriteString(w, `{"user":{"id":"u-1","username":"ana","full_name":"Ana Souza","role":"user"},"token":"jwt"}`)
	}))
	defer srv.Close()

	out, err := run(t, srv, "auth", "login", "--email", "ana@example.com", "--password", "secret1")

	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as Ana Souza")
	sess, err := authentication.LoadSession()
	require.NoError(t, err)
	assert.Equal(t, "jwt", sess.Token)
	assert.Equal(t, "ana", sess.User.Username)
}

func TestArticlesListSendsStoredSession(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, authentication.SaveSession(client.Session{Token: "jwt"}))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer jwt", r.Header.Get("Authorization"))
		assert.Equal(t, "graph", r.URL.Query().Get("search"))
		io.WriteString(w, `{"articles":[{"id":4,"title":"Planar graphs","authors":[{"name":"Ana Souza"}],"tags":["graphs"],"isFavorited":true}],"page":1}`)
	}))
	defer srv.Close()

	out, err := run(t, srv, "articles", "list", "--search", "graph")

	require.NoError(t, err)
	assert.Contains(t, out, "[4] Planar graphs ★")
	assert.Contains(t, out, "Authors: Ana Souza")
}

func TestFavoriteNeedsLogin(t *testing.T) {
	keyring.MockInit()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	}))
	defer srv.Close()

	_, err := run(t, srv, "articles", "favorite", "4")

	assert.ErrorIs(t, err, client.ErrNotLoggedIn)
}

func TestRejectShowsServerError(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, authentication.SaveSession(client.Session{Token: "jwt"}))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"error":"invalid status transition: submission is approved"}`)
	}))
	defer srv.Close()

	_, err := run(t, srv, "admin", "reject", "7", "--reason", "late")

	require.Error(t, err)
	assert.True(t, client.IsStatus(err, http.StatusConflict))
	assert.Contains(t, err.Error(), "submission is approved")
}

func TestNotificationsWatchPrintsPushes(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, authentication.SaveSession(client.Session{Token: "jwt"}))

	var upgrader websocket.Upgrader
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/notifications/stream", r.URL.Path)
		conn, err := upgrader.Upgrade(w, r, nil)
		if !assert.NoError(t, err) {
			return
		}
		defer conn.Close()
		assert.NoError(t, conn.WriteJSON(map[string]any{
			"type":         "notification",
			"notification": map[string]any{"id": 12, "title": "Submission approved!", "message": "Your submission was published"},
		}))
		assert.NoError(t, conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	}))
	defer srv.Close()

	out, err := run(t, srv, "notifications", "watch")

	require.NoError(t, err)
	assert.Contains(t, out, "[12] Submission approved!")
	assert.Contains(t, out, "Your submission was published")
}
