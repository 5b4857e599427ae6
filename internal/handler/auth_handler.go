package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/Baaaki/storefront/internal/middleware"
	"github.com/Baaaki/storefront/internal/service"
	"github.com/Baaaki/storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
	cookies     CookieSettings
}

func NewAuthHandler(authService *service.AuthService, cookies CookieSettings) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookies:     cookies,
	}
}

// RegisterRequest binds from JSON or multipart (when a profile image is sent)
type RegisterRequest struct {
	Email        string                `json:"email" form:"email"`
	Password     string                `json:"password" form:"password"`
	Password2    string                `json:"password2" form:"password2"`
	FirstName    string                `json:"first_name" form:"first_name"`
	LastName     string                `json:"last_name" form:"last_name"`
	ProfileImage *multipart.FileHeader `json:"-" form:"profile_image"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type EmailRequest struct {
	Email string `json:"email" form:"email"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	logger.Log.Info("User registration attempt",
		zap.String("email", req.Email),
		zap.String("ip", c.ClientIP()),
	)

	user, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Email:        req.Email,
		Password:     req.Password,
		Password2:    req.Password2,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully. Check your email to verify your account.",
		"user":    newUserResponse(user),
	})
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	alreadyVerified, err := h.authService.VerifyEmail(c.Request.Context(), c.Param("uid"), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}

	if alreadyVerified {
		c.JSON(http.StatusOK, gin.H{"message": "Email already verified"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
}

func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.authService.ResendVerification(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "If an unverified account exists for this email, a new verification link has been sent.",
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	logger.Log.Info("User login attempt",
		zap.String("email", req.Email),
		zap.String("ip", c.ClientIP()),
	)

	user, tokens, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	// tokens travel only in HttpOnly cookies, never in the body
	h.cookies.set(c, middleware.AccessCookieName, tokens.Access, h.authService.AccessTokenTTL())
	h.cookies.set(c, middleware.RefreshCookieName, tokens.Refresh, h.authService.RefreshTokenTTL())

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    newUserResponse(user),
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, _ := c.Cookie(middleware.RefreshCookieName)

	access, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	h.cookies.set(c, middleware.AccessCookieName, access, h.authService.AccessTokenTTL())
	c.JSON(http.StatusOK, gin.H{"message": "Token refreshed"})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, _ := c.Cookie(middleware.RefreshCookieName)

	h.authService.Logout(c.Request.Context(), refreshToken)

	h.cookies.clearSession(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}
