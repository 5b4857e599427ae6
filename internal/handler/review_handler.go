package handler

import (
	"net/http"

	"github.com/Baaaki/storefront/internal/middleware"
	"github.com/Baaaki/storefront/internal/service"
	"github.com/gin-gonic/gin"
)

// ReviewHandler serves both the nested /products/:slug/reviews routes and
// the flat /reviews routes. An empty :slug param means flat.
type ReviewHandler struct {
	reviewService *service.ReviewService
}

func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

type ReviewRequest struct {
	Product *string `json:"product" form:"product"`
	Rating  *int    `json:"rating" form:"rating"`
	Comment *string `json:"comment" form:"comment"`
}

func (r ReviewRequest) input() service.ReviewInput {
	return service.ReviewInput{
		Product: r.Product,
		Rating:  r.Rating,
		Comment: r.Comment,
	}
}

func (h *ReviewHandler) List(c *gin.Context) {
	reviews, err := h.reviewService.ListReviews(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]reviewResponse, 0, len(reviews))
	for i := range reviews {
		resp = append(resp, newReviewResponse(&reviews[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReviewHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		respondError(c, service.ErrReviewNotFound)
		return
	}

	review, err := h.reviewService.GetReview(c.Request.Context(), c.Param("slug"), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newReviewResponse(review))
}

func (h *ReviewHandler) Create(c *gin.Context) {
	var req ReviewRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	review, err := h.reviewService.CreateReview(
		c.Request.Context(),
		middleware.PrincipalFrom(c),
		c.Param("slug"),
		req.input(),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newReviewResponse(review))
}

// Update serves PUT and PATCH
func (h *ReviewHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		respondError(c, service.ErrReviewNotFound)
		return
	}

	var req ReviewRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	review, err := h.reviewService.UpdateReview(
		c.Request.Context(),
		middleware.PrincipalFrom(c),
		c.Param("slug"),
		id,
		req.input(),
		c.Request.Method == http.MethodPatch,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newReviewResponse(review))
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		respondError(c, service.ErrReviewNotFound)
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("slug"), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
