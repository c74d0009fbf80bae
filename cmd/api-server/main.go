package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"veritaslab/database"
	"veritaslab/internal/cache"
	"veritaslab/internal/config"
	"veritaslab/internal/microservices/http-api/handler"
	"veritaslab/internal/microservices/http-api/repository"
	"veritaslab/internal/microservices/http-api/service"
	"veritaslab/internal/microservices/websocket"
	"veritaslab/internal/shared"
	"veritaslab/internal/storage"
	"veritaslab/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "api-server:", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := shared.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	// 2. Connect to the database
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warn("failed to close database", "error", err)
		}
	}()

	// 3. Redis is optional, views are simply not counted without it
	redisClient, err := cache.NewRedisClient(cfg.RedisURL, cfg.RedisPassword)
	if err != nil {
		logger.Warn("redis unavailable, view counting disabled", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}
	views := cache.NewViewCounter(redisClient, logger)

	// 4. Uploads
	blobs, err := storage.NewLocalStore(cfg.UploadDir, cfg.UploadURLPrefix, cfg.UploadMaxBytes)
	if err != nil {
		return fmt.Errorf("failed to prepare upload dir: %w", err)
	}

	// 5. Wire services
	repos := repository.NewRepositories(db)
	hub := websocket.NewHub(logger)
	notifier := service.NewNotifier(logger).WithPublisher(hub)

	authService := service.NewAuthService(repos.Users, blobs, cfg, logger)
	articleService := service.NewArticleService(repos.Articles, views, cfg.PublicBaseURL, logger)

	router := newRouter(cfg, logger, db, handler.RouterConfig{
		AuthService:         authService,
		ArticleService:      articleService,
		SubmissionService:   service.NewSubmissionService(repos.Submissions, repository.NewUnitOfWork(db), blobs, notifier, logger),
		CommentService:      service.NewCommentService(repos, notifier, logger),
		NotificationService: service.NewNotificationService(repos.Notifications),
		UserService:         service.NewUserService(repos.Users, articleService),
		UploadDir:           blobs.Dir(),
		NotificationStream:  websocket.Handler(hub, cfg.CORSOrigins),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server running", "addr", srv.Addr, "env", cfg.GoEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	// closes the live connections the HTTP shutdown does not track
	g.Go(func() error { return hub.Run(gctx) })

	if redisClient != nil {
		viewsSync := worker.NewViewsSync(views, repos.Articles, cfg.ViewsSyncInterval, logger)
		g.Go(func() error { return viewsSync.Run(gctx) })
	}

	return g.Wait()
}

func newRouter(cfg *config.Config, logger *slog.Logger, db *gorm.DB, rc handler.RouterConfig) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	rc.Logger = logger
	rc.Ping = func(ctx context.Context) error { return database.Ping(ctx, db) }
	rc.CORSOrigins = cfg.CORSOrigins
	rc.UploadMaxBytes = cfg.UploadMaxBytes
	rc.UploadURLPrefix = cfg.UploadURLPrefix
	rc.AuthRateLimit = cfg.AuthRateLimit
	rc.AuthRateBurst = cfg.AuthRateBurst
	return handler.NewRouter(rc)
}
