package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"veritaslab/internal/microservices/http-api/service"
	"veritaslab/internal/shared"
	"veritaslab/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	userToken  = "user-token"
	adminToken = "admin-token"
)

var (
	userClaims  = &shared.AuthClaims{UserID: "7d3f1a52-0c1e-4b8e-9d55-5b2a4c1e9f01", Username: "ana", Role: "user"}
	adminClaims = &shared.AuthClaims{UserID: "0b9e4c3d-6a71-4f2b-8e1d-2c5a7b9d3e42", Username: "editor", Role: "admin"}
)

type testAPI struct {
	router        *gin.Engine
	auth          *MockAuthService
	articles      *MockArticleService
	submissions   *MockSubmissionService
	comments      *MockCommentService
	notifications *MockNotificationService
	users         *MockUserService
	pingErr       error
}

func newTestAPI(t *testing.T, tweak ...func(*RouterConfig)) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	api := &testAPI{
		auth:          new(MockAuthService),
		articles:      new(MockArticleService),
		submissions:   new(MockSubmissionService),
		comments:      new(MockCommentService),
		notifications: new(MockNotificationService),
		users:         new(MockUserService),
	}
	api.auth.On("ValidateToken", userToken).Return(userClaims, nil).Maybe()
	api.auth.On("ValidateToken", adminToken).Return(adminClaims, nil).Maybe()
	api.auth.On("ValidateToken", mock.Anything).Return(nil, service.ErrInvalidToken).Maybe()

	cfg := RouterConfig{
		Logger:              discardLogger,
		AuthService:         api.auth,
		ArticleService:      api.articles,
		SubmissionService:   api.submissions,
		CommentService:      api.comments,
		NotificationService: api.notifications,
		UserService:         api.users,
		Ping:                func(context.Context) error { return api.pingErr },
		UploadMaxBytes:      1 << 20,
		AuthRateLimit:       100,
		AuthRateBurst:       100,
	}
	for _, f := range tweak {
		f(&cfg)
	}
	api.router = NewRouter(cfg)

	t.Cleanup(func() {
		api.auth.AssertExpectations(t)
		api.articles.AssertExpectations(t)
		api.submissions.AssertExpectations(t)
		api.comments.AssertExpectations(t)
		api.notifications.AssertExpectations(t)
		api.users.AssertExpectations(t)
	})
	return api
}

func (a *testAPI) do(method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) json(method, path, token string, payload any) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			panic(err)
		}
		body = bytes.NewReader(raw)
	}
	return a.do(method, path, token, body, "application/json")
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// multipartBody encodes fields and, when fileField is set, one file part.
func multipartBody(t *testing.T, fields map[string]string, fileField string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		part, err := mw.CreateFormFile(fileField, "upload.bin")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHealthRoutes(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/api", "", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"ok": true, "service": "veritaslab backend"}, decode(t, w))

	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/check-conn", "", nil, "").Code)

	api.pingErr = errors.New("connection refused")
	w = api.do(http.MethodGet, "/check-conn", "", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestNotificationStreamRoute(t *testing.T) {
	api := newTestAPI(t)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/notifications/stream", userToken, nil, "").Code)

	var seen string
	api = newTestAPI(t, func(cfg *RouterConfig) {
		cfg.NotificationStream = func(c *gin.Context) {
			seen = c.GetString("userID")
			c.Status(http.StatusNoContent)
		}
	})
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/notifications/stream", "", nil, "").Code)
	assert.Equal(t, http.StatusNoContent, api.do(http.MethodGet, "/api/notifications/stream", userToken, nil, "").Code)
	assert.Equal(t, userClaims.UserID, seen)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrForbidden, http.StatusForbidden},
		{service.ErrSubmissionNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: submission is approved", service.ErrInvalidTransition), http.StatusConflict},
		{service.ErrEmailInUse, http.StatusConflict},
		{service.ErrAbstractRequired, http.StatusBadRequest},
		{fmt.Errorf("%w: \"mla\"", service.ErrUnknownFormat), http.StatusBadRequest},
		{storage.ErrUnsupportedType, http.StatusUnsupportedMediaType},
		{storage.ErrTooLarge, http.StatusRequestEntityTooLarge},
		{fmt.Errorf("failed to read upload: %w", &http.MaxBytesError{Limit: 10}), http.StatusRequestEntityTooLarge},
		{errors.New("pq: connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestInternalErrorsAreHidden(t *testing.T) {
	api := newTestAPI(t)
	api.articles.On("List", mock.Anything, "", mock.Anything).
		Return(nil, errors.New("failed to list articles: dial tcp 10.0.0.5:5432: i/o timeout"))

	w := api.do(http.MethodGet, "/api/articles", "", nil, "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, map[string]any{"error": "internal server error"}, decode(t, w))
}

func TestInvalidPathID(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/api/articles/abc", "/api/articles/0", "/api/articles/-3/comments"} {
		w := api.do(http.MethodGet, path, "", nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}
