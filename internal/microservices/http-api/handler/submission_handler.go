package handler

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"veritaslab/internal/microservices/http-api/dto"
	"veritaslab/internal/microservices/http-api/middleware"
	"veritaslab/internal/microservices/http-api/models"
	"veritaslab/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// multipartMemory is how much of a multipart body is kept in memory before spilling to disk.
const multipartMemory = 8 << 20

type SubmissionHandler struct {
	submissionService service.SubmissionService
	logger            *slog.Logger
}

func NewSubmissionHandler(submissionService service.SubmissionService, logger *slog.Logger) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService, logger: logger}
}

func (h *SubmissionHandler) RegisterRoutes(rg *gin.RouterGroup, guards Guards) {
	submissions := rg.Group("/submissions")
	{
		submissions.POST("", guards.Required, guards.Upload, h.Create)
		submissions.GET("/mine", guards.Required, h.ListMine)
		submissions.GET("/drafts", guards.Required, h.ListDrafts)

		// approved submissions are public
		submissions.GET("/:id", guards.Optional, h.Get)
		submissions.PATCH("/:id", guards.Required, guards.Upload, h.Update)
		submissions.DELETE("/:id", guards.Required, h.Delete)
	}
}

// openUpload returns the optional file part, or nil when the field is absent.
func openUpload(c *gin.Context, field string) (multipart.File, error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return header.Open()
}

// Create stores a new submission, optionally with its manuscript
// POST /api/submissions (multipart/form-data)
func (h *SubmissionHandler) Create(c *gin.Context) {
	var form dto.CreateSubmissionForm
	if err := c.ShouldBind(&form); err != nil {
		bindError(c, err)
		return
	}

	authors, err := dto.ParseAuthors(form.Authors)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := openUpload(c, dto.FormFile)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	input := service.SubmissionInput{
		Title:    form.Title,
		Abstract: form.Abstract,
		Authors:  authors,
		Keywords: dto.ParseKeywords(form.Keywords),
		Area:     form.Area,
		Status:   form.Status,
	}
	if file != nil {
		defer file.Close()
		input.File = file
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	submission, err := h.submissionService.Create(ctx, middleware.UserIDFrom(c), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"submission": submission})
}

// Update applies the fields present in the form and leaves the rest untouched
// PATCH /api/submissions/:id (multipart/form-data or urlencoded)
func (h *SubmissionHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if c.ContentType() == binding.MIMEJSON {
		var req dto.UpdateSubmissionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		h.update(c, id, patchFromJSON(req))
		return
	}

	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		bindError(c, err)
		return
	}

	patch, err := patchFromForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var file multipart.File
	if c.Request.MultipartForm != nil {
		if file, err = openUpload(c, dto.FormFile); err != nil {
			respondError(c, h.logger, err)
			return
		}
	}
	if file != nil {
		defer file.Close()
		patch.File = file
	}
	h.update(c, id, patch)
}

func (h *SubmissionHandler) update(c *gin.Context, id int64, patch service.SubmissionPatch) {
	ctx, cancel := requestContext(c)
	defer cancel()

	submission, err := h.submissionService.Update(ctx, middleware.ClaimsFrom(c), id, patch)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submission": submission})
}

// patchFromJSON applies the same normalisation as patchFromForm.
func patchFromJSON(req dto.UpdateSubmissionRequest) service.SubmissionPatch {
	patch := service.SubmissionPatch{Abstract: req.Abstract}
	if req.Title != nil {
		v := strings.TrimSpace(*req.Title)
		patch.Title = &v
	}
	if req.Area != nil {
		v := strings.TrimSpace(*req.Area)
		patch.Area = &v
	}
	if req.Status != nil {
		v := strings.TrimSpace(*req.Status)
		patch.Status = &v
	}
	if req.Keywords != nil {
		keywords := dto.ParseKeywords(*req.Keywords)
		patch.Keywords = &keywords
	}
	if req.Authors != nil {
		authors := dto.CleanAuthors(*req.Authors)
		patch.Authors = &authors
	}
	return patch
}

func patchFromForm(c *gin.Context) (service.SubmissionPatch, error) {
	var patch service.SubmissionPatch

	if v, ok := c.GetPostForm(dto.FormTitle); ok {
		v = strings.TrimSpace(v)
		patch.Title = &v
	}
	if v, ok := c.GetPostForm(dto.FormAbstract); ok {
		patch.Abstract = &v
	}
	if v, ok := c.GetPostForm(dto.FormArea); ok {
		v = strings.TrimSpace(v)
		patch.Area = &v
	}
	if v, ok := c.GetPostForm(dto.FormStatus); ok {
		v = strings.TrimSpace(v)
		patch.Status = &v
	}
	if v, ok := c.GetPostForm(dto.FormKeywords); ok {
		keywords := dto.ParseKeywords(v)
		patch.Keywords = &keywords
	}
	if v, ok := c.GetPostForm(dto.FormAuthors); ok {
		authors, err := dto.ParseAuthors(v)
		if err != nil {
			return patch, err
		}
		patch.Authors = &authors
	}
	return patch, nil
}

// GET /api/submissions/:id
func (h *SubmissionHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	submission, err := h.submissionService.Get(ctx, middleware.ClaimsFrom(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submission": submission})
}

// DELETE /api/submissions/:id
func (h *SubmissionHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.submissionService.Delete(ctx, middleware.ClaimsFrom(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "submission deleted"})
}

// GET /api/submissions/mine
func (h *SubmissionHandler) ListMine(c *gin.Context) {
	h.list(c, h.submissionService.ListMine)
}

// GET /api/submissions/drafts
func (h *SubmissionHandler) ListDrafts(c *gin.Context) {
	h.list(c, h.submissionService.ListDrafts)
}

func (h *SubmissionHandler) list(c *gin.Context, load func(ctx context.Context, userID string) ([]models.Submission, error)) {
	ctx, cancel := requestContext(c)
	defer cancel()

	submissions, err := load(ctx, middleware.UserIDFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": submissions})
}
