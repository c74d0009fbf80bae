package handler

import (
	"context"
	"log/slog"
	"net/http"

	"veritaslab/internal/microservices/http-api/middleware"
	"veritaslab/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// Guards are the per-route middlewares handlers pick from.
type Guards struct {
	Required gin.HandlerFunc // valid token or 401
	Optional gin.HandlerFunc // claims when a valid token is sent
	Upload   gin.HandlerFunc // caps multipart bodies
}

// RouterConfig carries everything the API router is built from.
type RouterConfig struct {
	Logger *slog.Logger

	AuthService         service.AuthService
	ArticleService      service.ArticleService
	SubmissionService   service.SubmissionService
	CommentService      service.CommentService
	NotificationService service.NotificationService
	UserService         service.UserService

	// Ping checks the database for /check-conn.
	Ping func(ctx context.Context) error

	// NotificationStream serves GET /api/notifications/stream when set.
	NotificationStream gin.HandlerFunc

	CORSOrigins     []string
	UploadMaxBytes  int64
	UploadDir       string
	UploadURLPrefix string
	AuthRateLimit   float64
	AuthRateBurst   int
}

// uploadSlack leaves room for multipart framing and the text fields next to the file.
const uploadSlack = 1 << 20

// NewRouter wires every handler under /api.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	if cfg.UploadDir != "" {
		r.Static(cfg.UploadURLPrefix, cfg.UploadDir)
	}

	r.GET("/check-conn", func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()
		if err := cfg.Ping(ctx); err != nil {
			cfg.Logger.Error("database ping failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "message": "API is alive and database connected"})
	})

	guards := Guards{
		Required: middleware.AuthMiddleware(cfg.AuthService),
		Optional: middleware.OptionalAuth(cfg.AuthService),
		Upload:   middleware.BodyLimit(cfg.UploadMaxBytes + uploadSlack),
	}
	limiter := middleware.NewIPRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)

	api := r.Group("/api")
	api.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "service": "veritaslab backend"})
	})

	NewAuthHandler(cfg.AuthService, cfg.Logger).RegisterRoutes(api, guards, middleware.RateLimit(limiter))
	NewArticleHandler(cfg.ArticleService, cfg.Logger).RegisterRoutes(api, guards)
	NewCommentHandler(cfg.CommentService, cfg.Logger).RegisterRoutes(api, guards)
	NewSubmissionHandler(cfg.SubmissionService, cfg.Logger).RegisterRoutes(api, guards)
	NewAdminHandler(cfg.SubmissionService, cfg.Logger).RegisterRoutes(api, guards)
	NewNotificationHandler(cfg.NotificationService, cfg.Logger).RegisterRoutes(api, guards)
	NewUserHandler(cfg.UserService, cfg.Logger).RegisterRoutes(api, guards)

	if cfg.NotificationStream != nil {
		api.GET("/notifications/stream", guards.Required, cfg.NotificationStream)
	}

	return r
}
