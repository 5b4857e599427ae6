package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Baaaki/storefront/internal/middleware"
	"github.com/Baaaki/storefront/internal/service"
	"github.com/Baaaki/storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError is the single place service errors become HTTP answers
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid input.",
			"fields": verr.Fields,
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrEmailAlreadyExists),
		errors.Is(err, service.ErrInvalidLink),
		errors.Is(err, service.ErrInvalidOrExpiredToken),
		errors.Is(err, service.ErrProductRequired):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrReviewNotFound),
		errors.Is(err, service.ErrResetTokenNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		logger.Log.Error("Unhandled error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	logger.Log.Debug("Request parsing failed",
		zap.String("path", c.Request.URL.Path),
		zap.String("ip", c.ClientIP()),
		zap.Error(err),
	)
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
}

// CookieSettings controls the attributes of the session cookies
type CookieSettings struct {
	Secure bool
	Domain string
}

func (s CookieSettings) set(c *gin.Context, name, value string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, int(ttl.Seconds()), "/", s.Domain, s.Secure, true)
}

func (s CookieSettings) clear(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, "/", s.Domain, s.Secure, true)
}

func (s CookieSettings) clearSession(c *gin.Context) {
	s.clear(c, middleware.AccessCookieName)
	s.clear(c, middleware.RefreshCookieName)
}

// idParam parses a numeric path parameter; malformed ids are simply not found
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
