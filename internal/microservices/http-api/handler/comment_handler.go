package handler

import (
	"context"
	"log/slog"
	"net/http"

	"veritaslab/internal/microservices/http-api/dto"
	"veritaslab/internal/microservices/http-api/middleware"
	"veritaslab/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type likeFunc func(ctx context.Context, userID string, commentID int64) (int64, error)

type CommentHandler struct {
	commentService service.CommentService
	logger         *slog.Logger
}

func NewCommentHandler(commentService service.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		logger:         logger,
	}
}

// RegisterRoutes registers comment-related routes
func (h *CommentHandler) RegisterRoutes(rg *gin.RouterGroup, guards Guards) {
	// Article threads
	threads := rg.Group("/articles/:id/comments")
	{
		threads.GET("", guards.Optional, h.ListByArticle)
		threads.POST("", guards.Required, h.Create)

		threads.POST("/:commentId/like", guards.Required, h.likeByParam("commentId"))
		threads.DELETE("/:commentId/like", guards.Required, h.unlikeByParam("commentId"))
	}

	comments := rg.Group("/comments")
	{
		comments.POST("/:id/like", guards.Required, h.Like)
		comments.DELETE("/:id/like", guards.Required, h.Unlike)
	}
}

// ListByArticle returns the thread of an article
// GET /api/articles/:id/comments
func (h *CommentHandler) ListByArticle(c *gin.Context) {
	articleID, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	comments, err := h.commentService.List(ctx, articleID, middleware.UserIDFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// Create creates a new comment or reply on an article
// POST /api/articles/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	articleID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	comment, err := h.commentService.Create(ctx, middleware.UserIDFrom(c), articleID, req.Content, req.ParentID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// POST /api/comments/:id/like
func (h *CommentHandler) Like(c *gin.Context) {
	h.likeByParam("id")(c)
}

// DELETE /api/comments/:id/like
func (h *CommentHandler) Unlike(c *gin.Context) {
	h.unlikeByParam("id")(c)
}

func (h *CommentHandler) likeByParam(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.toggleLike(c, param, h.commentService.Like)
	}
}

func (h *CommentHandler) unlikeByParam(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.toggleLike(c, param, h.commentService.Unlike)
	}
}

func (h *CommentHandler) toggleLike(c *gin.Context, param string, apply likeFunc) {
	commentID, ok := parseID(c, param)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	count, err := apply(ctx, middleware.UserIDFrom(c), commentID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.LikesResponse{LikesCount: count})
}
