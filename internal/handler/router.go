package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Baaaki/storefront/internal/access"
	"github.com/Baaaki/storefront/internal/middleware"
	"github.com/Baaaki/storefront/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterConfig carries the edge settings of the HTTP surface
type RouterConfig struct {
	JWTSecret      string
	AllowedOrigins []string
	IsProduction   bool
	// MediaRoot is served at MediaURL when both are set and MediaURL is a path
	MediaRoot string
	MediaURL  string
	// RateLimiter guards the unauthenticated auth endpoints; nil disables it
	RateLimiter *middleware.RateLimiter
	// HealthCheck reports backing store health; nil always reports ok
	HealthCheck func(ctx context.Context) error
}

type Handlers struct {
	Auth          *AuthHandler
	Profile       *ProfileHandler
	PasswordReset *PasswordResetHandler
	Catalog       *CatalogHandler
	Review        *ReviewHandler
	Admin         *AdminHandler
}

// NewRouter builds the engine used by both the server and the HTTP tests
func NewRouter(cfg RouterConfig, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.HSTSMiddleware(cfg.IsProduction))

	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	if cfg.MediaRoot != "" && strings.HasPrefix(cfg.MediaURL, "/") {
		router.Static(strings.TrimRight(cfg.MediaURL, "/"), cfg.MediaRoot)
	}

	limited := func(c *gin.Context) { c.Next() }
	if cfg.RateLimiter != nil {
		limited = cfg.RateLimiter.Middleware()
	}

	guest := middleware.RequirePolicy(access.PolicyGuest)
	signedIn := middleware.RequirePolicy(access.PolicyAuthenticated)
	customer := middleware.RequirePolicy(access.PolicyCustomer)
	admin := middleware.RequirePolicy(access.PolicyAdmin)
	superadmin := middleware.RequirePolicy(access.PolicySuperAdmin)

	api := router.Group("/api")
	api.Use(middleware.Authenticate(cfg.JWTSecret))

	api.GET("/health", func(c *gin.Context) {
		if cfg.HealthCheck != nil {
			if err := cfg.HealthCheck(c.Request.Context()); err != nil {
				logger.Log.Error("Health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := api.Group("/auth")
	{
		auth.POST("/register", limited, h.Auth.Register)
		auth.POST("/resend-verification", limited, h.Auth.ResendVerification)
		auth.GET("/verify-email/:uid/:token", h.Auth.VerifyEmail)
		auth.POST("/login", limited, h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)

		auth.GET("/profile", signedIn, h.Profile.Get)
		auth.PUT("/profile", signedIn, h.Profile.Update)
		auth.PATCH("/profile", signedIn, h.Profile.Update)

		auth.POST("/password-reset/", limited, h.PasswordReset.Request)
		auth.POST("/password-reset/validate_token/", limited, h.PasswordReset.ValidateToken)
		auth.POST("/password-reset/confirm/", limited, h.PasswordReset.Confirm)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", guest, h.Catalog.ListCategories)
		categories.POST("", admin, h.Catalog.CreateCategory)
		categories.GET("/:slug", guest, h.Catalog.GetCategory)
		categories.PUT("/:slug", admin, h.Catalog.UpdateCategory)
		categories.PATCH("/:slug", admin, h.Catalog.UpdateCategory)
		categories.DELETE("/:slug", admin, h.Catalog.DeleteCategory)
	}

	products := api.Group("/products")
	{
		products.GET("", guest, h.Catalog.ListProducts)
		products.POST("", admin, h.Catalog.CreateProduct)
		products.GET("/:slug", guest, h.Catalog.GetProduct)
		products.PUT("/:slug", admin, h.Catalog.UpdateProduct)
		products.PATCH("/:slug", admin, h.Catalog.UpdateProduct)
		products.DELETE("/:slug", admin, h.Catalog.DeleteProduct)

		products.GET("/:slug/reviews", guest, h.Review.List)
		products.POST("/:slug/reviews", customer, h.Review.Create)
		products.POST("/:slug/add_review", customer, h.Review.Create)
		products.GET("/:slug/reviews/:id", guest, h.Review.Get)
		products.PUT("/:slug/reviews/:id", customer, h.Review.Update)
		products.PATCH("/:slug/reviews/:id", customer, h.Review.Update)
		products.DELETE("/:slug/reviews/:id", customer, h.Review.Delete)
	}

	reviews := api.Group("/reviews")
	{
		reviews.GET("", guest, h.Review.List)
		reviews.POST("", customer, h.Review.Create)
		reviews.GET("/:id", guest, h.Review.Get)
		reviews.PUT("/:id", customer, h.Review.Update)
		reviews.PATCH("/:id", customer, h.Review.Update)
		reviews.DELETE("/:id", customer, h.Review.Delete)
	}

	accounts := api.Group("/admin/users", superadmin)
	{
		accounts.GET("", h.Admin.ListUsers)
		accounts.PATCH("/:id", h.Admin.UpdateAccess)
	}

	bans := api.Group("/admin/banned-ips", superadmin)
	{
		bans.GET("", h.Admin.ListBannedIPs)
		bans.POST("", h.Admin.BanIP)
		bans.DELETE("/:ip", h.Admin.UnbanIP)
	}

	return router
}
