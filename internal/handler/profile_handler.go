package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/Baaaki/storefront/internal/middleware"
	"github.com/Baaaki/storefront/internal/service"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// ProfileRequest has no email field; the address is read-only here
type ProfileRequest struct {
	Bio          *string               `json:"bio" form:"bio"`
	PhoneNumber  *string               `json:"phone_number" form:"phone_number"`
	Address      *string               `json:"address" form:"address"`
	DateOfBirth  *string               `json:"date_of_birth" form:"date_of_birth"`
	ProfileImage *multipart.FileHeader `json:"-" form:"profile_image"`
}

func (h *ProfileHandler) Get(c *gin.Context) {
	profile, user, err := h.profileService.GetProfile(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProfileResponse(profile, user))
}

// Update serves PUT and PATCH
func (h *ProfileHandler) Update(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	profile, user, err := h.profileService.UpdateProfile(
		c.Request.Context(),
		middleware.PrincipalFrom(c),
		service.ProfileUpdate{
			Bio:          req.Bio,
			PhoneNumber:  req.PhoneNumber,
			Address:      req.Address,
			DateOfBirth:  req.DateOfBirth,
			ProfileImage: req.ProfileImage,
		},
		c.Request.Method == http.MethodPatch,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProfileResponse(profile, user))
}
