package handler

import (
	"log/slog"
	"net/http"

	"veritaslab/internal/microservices/http-api/dto"
	"veritaslab/internal/microservices/http-api/middleware"
	"veritaslab/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	articleService service.ArticleService
	logger         *slog.Logger
}

func NewArticleHandler(articleService service.ArticleService, logger *slog.Logger) *ArticleHandler {
	return &ArticleHandler{articleService: articleService, logger: logger}
}

func (h *ArticleHandler) RegisterRoutes(rg *gin.RouterGroup, guards Guards) {
	articles := rg.Group("/articles")
	{
		// Public routes, favorites are marked when a token is sent
		articles.GET("", guards.Optional, h.List)
		articles.GET("/:id", guards.Optional, h.Get)
		articles.GET("/:id/citation", h.Citation)

		articles.POST("/:id/favorite", guards.Required, h.Favorite)
		articles.DELETE("/:id/favorite", guards.Required, h.Unfavorite)
		articles.GET("/:id/favorite-status", guards.Required, h.FavoriteStatus)
	}
}

// List returns one page of the published feed
// GET /api/articles?page=&search=&area=&date=&type=&impact=
func (h *ArticleHandler) List(c *gin.Context) {
	var query dto.ArticleListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}
	if query.Page == 0 {
		query.Page = 1
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	articles, err := h.articleService.List(ctx, middleware.UserIDFrom(c), query)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ArticleListResponse{Articles: articles, Page: query.Page})
}

// Get returns one article and counts the view
// GET /api/articles/:id
func (h *ArticleHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	article, err := h.articleService.Get(ctx, middleware.UserIDFrom(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": article})
}

// Citation formats the article reference. Without a format both styles are returned.
// GET /api/articles/:id/citation?format=apa|abnt
func (h *ArticleHandler) Citation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var query dto.CitationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if query.Format == "" {
		citations, err := h.articleService.Citations(ctx, id)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, citations)
		return
	}

	citation, err := h.articleService.Citation(ctx, id, query.Format)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.CitationResponse{Format: query.Format, Citation: citation})
}

// POST /api/articles/:id/favorite
func (h *ArticleHandler) Favorite(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.articleService.Favorite(ctx, middleware.UserIDFrom(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FavoriteStatusResponse{IsFavorited: true})
}

// DELETE /api/articles/:id/favorite
func (h *ArticleHandler) Unfavorite(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.articleService.Unfavorite(ctx, middleware.UserIDFrom(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FavoriteStatusResponse{IsFavorited: false})
}

// GET /api/articles/:id/favorite-status
func (h *ArticleHandler) FavoriteStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	favorited, err := h.articleService.FavoriteStatus(ctx, middleware.UserIDFrom(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FavoriteStatusResponse{IsFavorited: favorited})
}
