package handler

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"veritaslab/internal/microservices/http-api/dto"
	"veritaslab/internal/microservices/http-api/models"
	"veritaslab/internal/microservices/http-api/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAdminRoutes_RequireAdmin(t *testing.T) {
	api := newTestAPI(t)

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/admin/submissions", "", nil, "").Code)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, "/api/admin/submissions", userToken, nil, "").Code)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, "/api/admin/approve/7", userToken, nil, "").Code)
	api.submissions.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminList(t *testing.T) {
	api := newTestAPI(t)
	name := "Ana Souza"
	api.submissions.On("AdminList", mock.Anything, "pending").
		Return([]models.Submission{{ID: 7, SubmitterName: &name}}, nil)
	api.submissions.On("AdminList", mock.Anything, "rejected").
		Return([]models.Submission{}, nil)

	w := api.do(http.MethodGet, "/api/admin/submissions", adminToken, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	first := decode(t, w)["submissions"].([]any)[0].(map[string]any)
	assert.Equal(t, "Ana Souza", first["submitter_name"])

	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/admin/submissions?status=rejected", adminToken, nil, "").Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/admin/submissions?status=lost", adminToken, nil, "").Code)
}

func TestApprove(t *testing.T) {
	api := newTestAPI(t)
	api.submissions.On("Approve", mock.Anything, adminClaims.UserID, int64(7)).
		Return(&models.Article{ID: 11, Title: "Planar graphs", CreatedBy: userClaims.UserID}, nil).Once()
	api.submissions.On("Approve", mock.Anything, adminClaims.UserID, int64(7)).
		Return(nil, fmt.Errorf("%w: submission is approved", service.ErrInvalidTransition)).Once()

	w := api.do(http.MethodPost, "/api/admin/approve/7", adminToken, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	article := decode(t, w)["article"].(map[string]any)
	assert.Equal(t, float64(11), article["id"])
	assert.Equal(t, []any{}, article["tags"])

	// approving twice is a conflict
	w = api.do(http.MethodPost, "/api/admin/approve/7", adminToken, nil, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestReject(t *testing.T) {
	api := newTestAPI(t)
	api.submissions.On("Reject", mock.Anything, adminClaims.UserID, int64(7), "Out of scope").
		Return(&models.Submission{ID: 7, Status: models.SubmissionStatusRejected}, nil)
	api.submissions.On("Reject", mock.Anything, adminClaims.UserID, int64(8), "").
		Return(&models.Submission{ID: 8, Status: models.SubmissionStatusRejected}, nil)

	w := api.json(http.MethodPost, "/api/admin/reject/7", adminToken, dto.RejectRequest{Reason: "Out of scope"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rejected", decode(t, w)["submission"].(map[string]any)["status"])

	// no body at all
	w = api.do(http.MethodPost, "/api/admin/reject/8", adminToken, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReject_EmptyChunkedBody(t *testing.T) {
	api := newTestAPI(t)
	api.submissions.On("Reject", mock.Anything, adminClaims.UserID, int64(8), "").
		Return(&models.Submission{ID: 8, Status: models.SubmissionStatusRejected}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/reject/8", nil)
	req.Body = io.NopCloser(strings.NewReader(""))
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestReject_MalformedBody(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/admin/reject/8", adminToken, strings.NewReader(`{"reason":`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	api.submissions.AssertNotCalled(t, "Reject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
