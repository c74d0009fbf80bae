package handler

import (
	"log/slog"
	"net/http"

	"veritaslab/internal/microservices/http-api/dto"
	"veritaslab/internal/microservices/http-api/middleware"
	"veritaslab/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

// RegisterRoutes registers the account routes. limit throttles the credential endpoints.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, guards Guards, limit gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", limit, h.Register)
		auth.POST("/login", limit, h.Login)

		auth.GET("/me", guards.Required, h.Me)
		auth.PATCH("/me", guards.Required, h.UpdateProfile)
		auth.POST("/avatar", guards.Required, guards.Upload, h.UploadAvatar)
	}
}

// Register creates an account and signs the caller in
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, token, err := h.authService.Register(ctx, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.AuthResponse{
		User:  dto.FromModelToUserResponse(user),
		Token: token,
	})
}

// Login exchanges email and password for a token
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, token, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		User:  dto.FromModelToUserResponse(user),
		Token: token,
	})
}

// Me returns the caller's own account
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.authService.Me(ctx, middleware.UserIDFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": dto.FromModelToUserResponse(user)})
}

// UpdateProfile changes full name and bio
// PATCH /api/auth/me
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.authService.UpdateProfile(ctx, middleware.UserIDFrom(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": dto.FromModelToUserResponse(user)})
}

// UploadAvatar replaces the caller's profile picture
// POST /api/auth/avatar
func (h *AuthHandler) UploadAvatar(c *gin.Context) {
	header, err := c.FormFile(dto.FormAvatar)
	if err != nil {
		if status := statusFor(err); status == http.StatusRequestEntityTooLarge {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
		return
	}
	file, err := header.Open()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer file.Close()

	ctx, cancel := requestContext(c)
	defer cancel()

	url, err := h.authService.SetAvatar(ctx, middleware.UserIDFrom(c), file)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.AvatarResponse{Message: "avatar updated", AvatarURL: url})
}
