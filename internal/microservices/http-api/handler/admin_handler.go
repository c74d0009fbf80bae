package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"veritaslab/internal/microservices/http-api/dto"
	"veritaslab/internal/microservices/http-api/middleware"
	"veritaslab/internal/microservices/http-api/models"
	"veritaslab/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the editorial review queue.
type AdminHandler struct {
	submissionService service.SubmissionService
	logger            *slog.Logger
}

func NewAdminHandler(submissionService service.SubmissionService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{submissionService: submissionService, logger: logger}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup, guards Guards) {
	admin := rg.Group("/admin", guards.Required, middleware.RequireAdmin())
	{
		admin.GET("/submissions", h.List)
		admin.POST("/approve/:id", h.Approve)
		admin.POST("/reject/:id", h.Reject)
	}
}

// List returns submissions by status, pending by default
// GET /api/admin/submissions?status=
func (h *AdminHandler) List(c *gin.Context) {
	var query dto.AdminListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}
	if query.Status == "" {
		query.Status = models.SubmissionStatusPending
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	submissions, err := h.submissionService.AdminList(ctx, query.Status)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": submissions})
}

// Approve publishes a pending submission as an article
// POST /api/admin/approve/:id
func (h *AdminHandler) Approve(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	article, err := h.submissionService.Approve(ctx, middleware.UserIDFrom(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "submission approved",
		"article": dto.FromModelToArticleResponse(article),
	})
}

// Reject closes a pending submission with an optional reason
// POST /api/admin/reject/:id
func (h *AdminHandler) Reject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.RejectRequest
	// the body is optional; an empty one, chunked or not, decodes to io.EOF
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		bindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	submission, err := h.submissionService.Reject(ctx, middleware.UserIDFrom(c), id, req.Reason)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "submission rejected",
		"submission": submission,
	})
}
