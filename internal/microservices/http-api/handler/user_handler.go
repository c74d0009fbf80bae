package handler

import (
	"log/slog"
	"net/http"

	"veritaslab/internal/microservices/http-api/middleware"
	"veritaslab/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

func NewUserHandler(userService service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, guards Guards) {
	users := rg.Group("/users", guards.Required)
	{
		users.GET("/me/favorites", h.MyFavorites)
		users.GET("/:id", h.Profile)
		users.GET("/:id/articles", h.Articles)
	}
}

// parseUserID rejects ids that are not UUIDs before they reach the uuid column.
func parseUserID(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return "", false
	}
	return id.String(), true
}

// GET /api/users/:id
func (h *UserHandler) Profile(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	profile, err := h.userService.Profile(ctx, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": profile})
}

// Articles lists what the user has published
// GET /api/users/:id/articles
func (h *UserHandler) Articles(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	articles, err := h.userService.Articles(ctx, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

// GET /api/users/me/favorites
func (h *UserHandler) MyFavorites(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	articles, err := h.userService.Favorites(ctx, middleware.UserIDFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles})
}
