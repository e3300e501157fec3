// Package main runs the invitation platform HTTP server with the live guestbook and graceful shutdown.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/roemah-nenek/undangan/config"
	"github.com/roemah-nenek/undangan/internal/admin"
	"github.com/roemah-nenek/undangan/internal/analytics"
	"github.com/roemah-nenek/undangan/internal/auth"
	"github.com/roemah-nenek/undangan/internal/guests"
	"github.com/roemah-nenek/undangan/internal/invitations"
	"github.com/roemah-nenek/undangan/internal/media"
	"github.com/roemah-nenek/undangan/internal/middleware"
	"github.com/roemah-nenek/undangan/internal/public"
	"github.com/roemah-nenek/undangan/internal/realtime"
	"github.com/roemah-nenek/undangan/internal/templates"
	"github.com/roemah-nenek/undangan/pkg/database"
	"github.com/roemah-nenek/undangan/pkg/queue"
	"github.com/roemah-nenek/undangan/pkg/redis"
	"github.com/roemah-nenek/undangan/pkg/response"
	"github.com/roemah-nenek/undangan/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.Shared(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer database.CloseShared()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	// Redis backs the slug cache, the live guestbook fan-out and the cleanup queue.
	// Without it the server still runs on the database alone.
	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Warn("redis disabled", zap.Error(err))
		rdb = nil
	}
	defer rdb.Close()

	var mediaStore media.Storage
	if cfg.AWS.Enabled() {
		s3Client, err := storage.NewS3(ctx, storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			Endpoint:             cfg.AWS.Endpoint,
			Bucket:               cfg.AWS.MediaBucket,
			PublicBaseURL:        cfg.AWS.PublicBaseURL,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		} else {
			mediaStore = s3Client
		}
	}

	// Accounts and sessions
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	cookies := auth.NewCookies(cfg.Cookie, int(jwtService.TTL().Seconds()))
	authService := auth.NewService(auth.NewRepository(pool), jwtService, logger)
	authHandler := auth.NewHandler(authService, cookies, logger)

	// Invitations
	var (
		slugCache invitations.Cache
		cleanup   invitations.CleanupEnqueuer
		hub       *realtime.Hub
	)
	if raw := rdb.Raw(); raw != nil {
		slugCache = invitations.NewRedisCache(raw, cfg.Cache.InvitationTTL)
		cleanup = queue.NewQueue(raw, logger)
		bus := realtime.NewRedisPubSub(raw, logger)
		hub = realtime.NewHub(logger, bus, bus)
	} else {
		hub = realtime.NewHub(logger, nil, nil)
	}
	defer hub.Close()

	invitationService := invitations.NewService(invitations.NewRepository(pool), slugCache, cleanup, logger)
	invitationHandler := invitations.NewHandler(invitationService, logger)
	mediaHandler := media.NewHandler(mediaStore, invitationService, logger)
	analyticsHandler := analytics.NewHandler(analytics.NewRepository(pool), invitationService, hub, logger)
	templateHandler := templates.NewHandler()

	// Guestbook
	guestService := guests.NewService(guests.NewRepository(pool), hub, logger)
	guestHandler := guests.NewHandler(guestService, logger)
	publicHandler := public.NewHandler(invitationService, guestService, logger)

	ui := admin.NewUI(cfg.Server.AdminUIDir)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.GET("/me", middleware.Session(jwtService, cookies), authHandler.Me)
	}

	// Templates (public)
	router.GET("/api/templates", templateHandler.List)
	router.GET("/api/templates/:id/preview", templateHandler.Preview)

	// Guest submissions are anonymous; reading and deleting need a session.
	router.POST("/api/guests", guestHandler.Submit)

	// Protected API (session required)
	api := router.Group("/api")
	api.Use(middleware.Session(jwtService, cookies))
	{
		invGroup := api.Group("/invitations")
		invitationHandler.Register(invGroup)
		mediaHandler.Register(invGroup)
		analyticsHandler.Register(invGroup)

		api.GET("/guests", guestHandler.List)
		api.DELETE("/guests/:id", guestHandler.Delete)
	}

	// Public invitation pages and live guestbook
	publicHandler.Register(router)
	router.GET("/ws/guestbook/:slug", realtime.ServeGuestbook(hub, public.SlugResolver(invitationService), logger))

	// Admin pages
	router.GET("/assets/*filepath", ui.Assets)
	loggedOut := middleware.RedirectAuthenticated(jwtService, cookies)
	router.GET(middleware.LoginPath, loggedOut, ui.Serve)
	router.GET("/admin/register", loggedOut, ui.Serve)
	page := middleware.RequirePageSession(jwtService, cookies)
	router.GET("/", page, ui.Serve)
	router.GET(middleware.DashboardPath, page, ui.Serve)
	router.GET(middleware.DashboardPath+"/*path", page, ui.Serve)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
