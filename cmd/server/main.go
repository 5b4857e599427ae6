package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Baaaki/storefront/internal/blacklist"
	"github.com/Baaaki/storefront/internal/config"
	"github.com/Baaaki/storefront/internal/database"
	"github.com/Baaaki/storefront/internal/handler"
	"github.com/Baaaki/storefront/internal/mail"
	"github.com/Baaaki/storefront/internal/middleware"
	"github.com/Baaaki/storefront/internal/repository"
	"github.com/Baaaki/storefront/internal/service"
	"github.com/Baaaki/storefront/internal/storage"
	"github.com/Baaaki/storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	if err := logger.Init(!cfg.IsProduction()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database.Connect(cfg)
	database.Migrate()

	ctx := context.Background()

	redisClient, err := blacklist.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Mail goes out over SMTP when configured, otherwise it is only logged
	var sender mail.Sender = mail.NewLogSender()
	if cfg.SMTPHost != "" {
		sender = mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.DefaultFromEmail)
	}
	mailer := mail.NewDispatcher(sender, cfg.MailWorkers, cfg.MailQueueSize)
	defer mailer.Close()

	var images storage.ImageStore = storage.NewLocalStore(cfg.MediaRoot, cfg.MediaURL)
	if cfg.CloudinaryURL != "" {
		images, err = storage.NewCloudinaryStore(cfg.CloudinaryURL, "storefront")
		if err != nil {
			logger.Log.Fatal("Failed to configure Cloudinary", zap.Error(err))
		}
	}

	// Repositories
	userRepo := repository.NewUserRepository(database.DB)
	resetRepo := repository.NewPasswordResetRepository(database.DB)
	categoryRepo := repository.NewCategoryRepository(database.DB)
	productRepo := repository.NewProductRepository(database.DB)
	reviewRepo := repository.NewReviewRepository(database.DB)

	// Services
	authService := service.NewAuthService(
		userRepo,
		blacklist.NewRedisBlacklist(redisClient),
		mailer,
		images,
		service.AuthSettings{
			JWTSecret:       cfg.JWTSecret,
			AccessTokenTTL:  cfg.AccessTokenTTL,
			RefreshTokenTTL: cfg.RefreshTokenTTL,
			VerificationTTL: cfg.VerificationTokenTTL,
			FrontendURL:     cfg.FrontendURL,
			SiteName:        cfg.SiteName,
		},
	)
	resetService := service.NewPasswordResetService(userRepo, resetRepo, mailer, service.PasswordResetSettings{
		TokenTTL:    cfg.PasswordResetTTL,
		FrontendURL: cfg.FrontendURL,
		SiteName:    cfg.SiteName,
	})
	profileService := service.NewProfileService(userRepo, images)
	catalogService := service.NewCatalogService(categoryRepo, productRepo, images)
	reviewService := service.NewReviewService(reviewRepo, productRepo)
	rateLimiter := middleware.NewRateLimiter(redisClient, middleware.RateLimiterConfig{
		MaxRequests: cfg.RateLimitMaxRequests,
		Window:      cfg.RateLimitWindow,
		BlockTime:   cfg.RateLimitBlockTime,
	})
	adminService := service.NewAdminService(userRepo, rateLimiter)

	sqlDB, err := database.DB.DB()
	if err != nil {
		logger.Log.Fatal("Failed to get database handle", zap.Error(err))
	}

	router := handler.NewRouter(
		handler.RouterConfig{
			JWTSecret:      cfg.JWTSecret,
			AllowedOrigins: cfg.CORSAllowedOrigins,
			IsProduction:   cfg.IsProduction(),
			MediaRoot:      cfg.MediaRoot,
			MediaURL:       cfg.MediaURL,
			RateLimiter:    rateLimiter,
			HealthCheck: func(ctx context.Context) error {
				if err := sqlDB.PingContext(ctx); err != nil {
					return err
				}
				return redisClient.Ping(ctx).Err()
			},
		},
		handler.Handlers{
			Auth:          handler.NewAuthHandler(authService, handler.CookieSettings{Secure: cfg.CookieSecure, Domain: cfg.CookieDomain}),
			Profile:       handler.NewProfileHandler(profileService),
			PasswordReset: handler.NewPasswordResetHandler(resetService),
			Catalog:       handler.NewCatalogHandler(catalogService),
			Review:        handler.NewReviewHandler(reviewService),
			Admin:         handler.NewAdminHandler(adminService),
		},
	)

	srv := &http.Server{
		Addr:              cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("Server starting",
			zap.String("addr", cfg.ServerPort),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Graceful shutdown failed", zap.Error(err))
	}
}
