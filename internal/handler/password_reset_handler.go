package handler

import (
	"net/http"

	"github.com/Baaaki/storefront/internal/service"
	"github.com/gin-gonic/gin"
)

type PasswordResetHandler struct {
	resetService *service.PasswordResetService
}

func NewPasswordResetHandler(resetService *service.PasswordResetService) *PasswordResetHandler {
	return &PasswordResetHandler{resetService: resetService}
}

type TokenRequest struct {
	Token string `json:"token" form:"token"`
}

type ResetConfirmRequest struct {
	Token    string `json:"token" form:"token"`
	Password string `json:"password" form:"password"`
}

func (h *PasswordResetHandler) Request(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	err := h.resetService.RequestReset(c.Request.Context(), service.ResetRequest{
		Email:     req.Email,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (h *PasswordResetHandler) ValidateToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	if _, err := h.resetService.ValidateToken(c.Request.Context(), req.Token); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (h *PasswordResetHandler) Confirm(c *gin.Context) {
	var req ResetConfirmRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.resetService.ConfirmReset(c.Request.Context(), req.Token, req.Password); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}
