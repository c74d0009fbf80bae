package client

// http_client.go = HTTP client for the VeritasLab API.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"veritaslab/cmd/cli/dto"
)

var ErrNotLoggedIn = errors.New("not logged in, please run 'veritas auth login'")

// Session is the signed-in state a command passes to every authenticated call.
type Session struct {
	Token string   `json:"token"`
	User  dto.User `json:"user"`
}

func (s Session) LoggedIn() bool {
	return s.Token != ""
}

// FieldError is one entry of a 400 validation response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
	Fields     []FieldError
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, f.Field+" "+f.Message)
		}
		return fmt.Sprintf("%d: %s", e.StatusCode, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// defines the HTTP client structure and methods
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// constructor for HTTP client
func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second, // uploads can be slow
		},
	}
}

// do sends one request and decodes a successful JSON body into out.
func (c *HTTPClient) do(ctx context.Context, method, path string, sess *Session, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if sess != nil && sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() // Ensure the response body is closed

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, sess *Session, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(jsonData)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, sess, body, contentType, out)
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
	var payload struct {
		Error  string       `json:"error"`
		Errors []FieldError `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		if payload.Error != "" {
			apiErr.Message = payload.Error
		}
		apiErr.Fields = payload.Errors
	}
	return apiErr
}

func authed(sess Session) (*Session, error) {
	if !sess.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	return &sess, nil
}

// Auth

func (c *HTTPClient) Register(ctx context.Context, request dto.RegisterRequest) (*dto.AuthResponse, error) {
	var result dto.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", nil, request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Login(ctx context.Context, request dto.LoginRequest) (*dto.AuthResponse, error) {
	var result dto.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", nil, request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Me(ctx context.Context, sess Session) (*dto.User, error) {
	s, err := authed(sess)
	if err != nil {
		return nil, err
	}
	var result struct {
		User dto.User `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", s, nil, &result); err != nil {
		return nil, err
	}
	return &result.User, nil
}

// Articles

// ListArticles works signed out too; favorites are only marked for a session.
func (c *HTTPClient) ListArticles(ctx context.Context, sess Session, q dto.ArticleQuery) ([]dto.Article, error) {
	params := url.Values{}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Recent {
		params.Set("date", "recent")
	}
	for _, a := range q.Areas {
		params.Add("area", a)
	}
	for _, t := range q.Types {
		params.Add("type", t)
	}
	for _, i := range q.Impact {
		params.Add("impact", i)
	}
	path := "/api/articles"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var result struct {
		Articles []dto.Article `json:"articles"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, &sess, nil, &result); err != nil {
		return nil, err
	}
	return result.Articles, nil
}

func (c *HTTPClient) GetArticle(ctx context.Context, sess Session, id int64) (*dto.Article, error) {
	var result struct {
		Article dto.Article `json:"article"`
	}
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/articles/%d", id), &sess, nil, &result); err != nil {
		return nil, err
	}
	return &result.Article, nil
}

func (c *HTTPClient) Citation(ctx context.Context, id int64, format string) (*dto.Citation, error) {
	var result dto.Citation
	path := fmt.Sprintf("/api/articles/%d/citation?format=%s", id, url.QueryEscape(format))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Citations(ctx context.Context, id int64) (*dto.Citations, error) {
	var result dto.Citations
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/articles/%d/citation", id), nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Favorite(ctx context.Context, sess Session, id int64) error {
	return c.setFavorite(ctx, sess, id, http.MethodPost)
}

func (c *HTTPClient) Unfavorite(ctx context.Context, sess Session, id int64) error {
	return c.setFavorite(ctx, sess, id, http.MethodDelete)
}

func (c *HTTPClient) setFavorite(ctx context.Context, sess Session, id int64, method string) error {
	s, err := authed(sess)
	if err != nil {
		return err
	}
	return c.doJSON(ctx, method, fmt.Sprintf("/api/articles/%d/favorite", id), s, nil, nil)
}

// Submissions

func (c *HTTPClient) CreateSubmission(ctx context.Context, sess Session, request dto.SubmissionRequest) (*dto.Submission, error) {
	s, err := authed(sess)
	if err != nil {
		return nil, err
	}
	body, contentType, err := submissionForm(request)
	if err != nil {
		return nil, err
	}
	var result struct {
		Submission dto.Submission `json:"submission"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/submissions", s, body, contentType, &result); err != nil {
		return nil, err
	}
	return &result.Submission, nil
}

// submissionForm encodes a submission as multipart/form-data.
func submissionForm(request dto.SubmissionRequest) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	authors, err := json.Marshal(request.Authors)
	if err != nil {
		return nil, "", err
	}
	fields := map[string]string{
		"title":    request.Title,
		"abstract": request.Abstract,
		"authors":  string(authors),
		"keywords": strings.Join(request.Keywords, ","),
		"area":     request.Area,
	}
	if request.Draft {
		fields["status"] = "draft"
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}

	if request.FilePath != "" {
		f, err := os.Open(request.FilePath)
		if err != nil {
			return nil, "", err
		}
		defer f.Close()
		part, err := w.CreateFormFile("file", filepath.Base(request.FilePath))
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func (c *HTTPClient) listSubmissions(ctx context.Context, sess Session, path string) ([]dto.Submission, error) {
	s, err := authed(sess)
	if err != nil {
		return nil, err
	}
	var result struct {
		Submissions []dto.Submission `json:"submissions"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, s, nil, &result); err != nil {
		return nil, err
	}
	return result.Submissions, nil
}

func (c *HTTPClient) MySubmissions(ctx context.Context, sess Session) ([]dto.Submission, error) {
	return c.listSubmissions(ctx, sess, "/api/submissions/mine")
}

func (c *HTTPClient) Drafts(ctx context.Context, sess Session) ([]dto.Submission, error) {
	return c.listSubmissions(ctx, sess, "/api/submissions/drafts")
}

func (c *HTTPClient) GetSubmission(ctx context.Context, sess Session, id int64) (*dto.Submission, error) {
	var result struct {
		Submission dto.Submission `json:"submission"`
	}
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/submissions/%d", id), &sess, nil, &result); err != nil {
		return nil, err
	}
	return &result.Submission, nil
}

func (c *HTTPClient) DeleteSubmission(ctx context.Context, sess Session, id int64) error {
	s, err := authed(sess)
	if err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/submissions/%d", id), s, nil, nil)
}

// Admin

func (c *HTTPClient) AdminSubmissions(ctx context.Context, sess Session, status string) ([]dto.Submission, error) {
	path := "/api/admin/submissions"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	return c.listSubmissions(ctx, sess, path)
}

func (c *HTTPClient) Approve(ctx context.Context, sess Session, id int64) (*dto.Article, error) {
	s, err := authed(sess)
	if err != nil {
		return nil, err
	}
	var result struct {
		Article dto.Article `json:"article"`
	}
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/admin/approve/%d", id), s, nil, &result); err != nil {
		return nil, err
	}
	return &result.Article, nil
}

func (c *HTTPClient) Reject(ctx context.Context, sess Session, id int64, reason string) (*dto.Submission, error) {
	s, err := authed(sess)
	if err != nil {
		return nil, err
	}
	var result struct {
		Submission dto.Submission `json:"submission"`
	}
	body := map[string]string{"reason": reason}
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/admin/reject/%d", id), s, body, &result); err != nil {
		return nil, err
	}
	return &result.Submission, nil
}

// Comments

func (c *HTTPClient) Comments(ctx context.Context, sess Session, articleID int64) ([]dto.Comment, error) {
	var result struct {
		Comments []dto.Comment `json:"comments"`
	}
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/articles/%d/comments", articleID), &sess, nil, &result); err != nil {
		return nil, err
	}
	return result.Comments, nil
}

func (c *HTTPClient) AddComment(ctx context.Context, sess Session, articleID int64, content string, parentID *int64) (*dto.Comment, error) {
	s, err := authed(sess)
	if err != nil {
		return nil, err
	}
	body := struct {
		Content  string `json:"content"`
		ParentID *int64 `json:"parent_id,omitempty"`
	}{content, parentID}
	var result struct {
		Comment dto.Comment `json:"comment"`
	}
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/articles/%d/comments", articleID), s, body, &result); err != nil {
		return nil, err
	}
	return &result.Comment, nil
}

func (c *HTTPClient) LikeComment(ctx context.Context, sess Session, commentID int64) (int64, error) {
	return c.toggleLike(ctx, sess, commentID, http.MethodPost)
}

func (c *HTTPClient) UnlikeComment(ctx context.Context, sess Session, commentID int64) (int64, error) {
	return c.toggleLike(ctx, sess, commentID, http.MethodDelete)
}

func (c *HTTPClient) toggleLike(ctx context.Context, sess Session, commentID int64, method string) (int64, error) {
	s, err := authed(sess)
	if err != nil {
		return 0, err
	}
	var result struct {
		LikesCount int64 `json:"likes_count"`
	}
	if err := c.doJSON(ctx, method, fmt.Sprintf("/api/comments/%d/like", commentID), s, nil, &result); err != nil {
		return 0, err
	}
	return result.LikesCount, nil
}

// Notifications

func (c *HTTPClient) Notifications(ctx context.Context, sess Session) ([]dto.Notification, int64, error) {
	s, err := authed(sess)
	if err != nil {
		return nil, 0, err
	}
	var result struct {
		Notifications []dto.Notification `json:"notifications"`
		UnreadCount   int64              `json:"unreadCount"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/notifications", s, nil, &result); err != nil {
		return nil, 0, err
	}
	return result.Notifications, result.UnreadCount, nil
}

func (c *HTTPClient) UnreadCount(ctx context.Context, sess Session) (int64, error) {
	s, err := authed(sess)
	if err != nil {
		return 0, err
	}
	var result struct {
		Count int64 `json:"count"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/notifications/unread-count", s, nil, &result); err != nil {
		return 0, err
	}
	return result.Count, nil
}

func (c *HTTPClient) MarkRead(ctx context.Context, sess Session, id int64) error {
	s, err := authed(sess)
	if err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/notifications/%d/read", id), s, nil, nil)
}

func (c *HTTPClient) MarkAllRead(ctx context.Context, sess Session) error {
	s, err := authed(sess)
	if err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodPut, "/api/notifications/read-all", s, nil, nil)
}
