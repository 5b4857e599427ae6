package handler

import (
	"net/http"

	"github.com/Baaaki/storefront/internal/middleware"
	"github.com/Baaaki/storefront/internal/models"
	"github.com/Baaaki/storefront/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	adminService *service.AdminService
}

func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

type AccessRequest struct {
	Role     *models.Role `json:"role"`
	IsActive *bool        `json:"is_active"`
}

// ListUsers returns every account, ?role= narrows it
// GET /admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminService.ListUsers(
		c.Request.Context(),
		middleware.PrincipalFrom(c),
		models.Role(c.Query("role")),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for i := range users {
		resp = append(resp, newUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"users": resp})
}

// UpdateAccess changes role or activation of one account
// PATCH /admin/users/:id
func (h *AdminHandler) UpdateAccess(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, service.ErrUserNotFound)
		return
	}

	var req AccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.adminService.UpdateAccess(
		c.Request.Context(),
		middleware.PrincipalFrom(c),
		userID,
		service.AccessUpdate{Role: req.Role, IsActive: req.IsActive},
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

type BanRequest struct {
	IP string `json:"ip"`
}

// ListBannedIPs
// GET /admin/banned-ips
func (h *AdminHandler) ListBannedIPs(c *gin.Context) {
	ips, err := h.adminService.ListBannedIPs(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"banned_ips": ips})
}

// BanIP
// POST /admin/banned-ips
func (h *AdminHandler) BanIP(c *gin.Context) {
	var req BanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ip, err := h.adminService.BanIP(c.Request.Context(), middleware.PrincipalFrom(c), req.IP)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "IP banned", "ip": ip})
}

// UnbanIP
// DELETE /admin/banned-ips/:ip
func (h *AdminHandler) UnbanIP(c *gin.Context) {
	ip, err := h.adminService.UnbanIP(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("ip"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "IP unbanned", "ip": ip})
}
