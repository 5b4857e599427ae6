package handler

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/Baaaki/storefront/internal/middleware"
	"github.com/Baaaki/storefront/internal/repository"
	"github.com/Baaaki/storefront/internal/service"
	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

type CategoryRequest struct {
	Name        *string `json:"name" form:"name"`
	Slug        *string `json:"slug" form:"slug"`
	Description *string `json:"description" form:"description"`
}

func (r CategoryRequest) input() service.CategoryInput {
	return service.CategoryInput{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
	}
}

// ProductRequest names its category by slug
type ProductRequest struct {
	Category    *string               `json:"category" form:"category"`
	Name        *string               `json:"name" form:"name"`
	Slug        *string               `json:"slug" form:"slug"`
	Description *string               `json:"description" form:"description"`
	Price       *Decimal              `json:"price" form:"price"`
	Stock       *int                  `json:"stock" form:"stock"`
	Available   *bool                 `json:"available" form:"available"`
	Image       *multipart.FileHeader `json:"-" form:"image"`
}

func (r ProductRequest) input() service.ProductInput {
	in := service.ProductInput{
		Category:    r.Category,
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Stock:       r.Stock,
		Available:   r.Available,
		Image:       r.Image,
	}
	if r.Price != nil {
		price := float64(*r.Price)
		in.Price = &price
	}
	return in
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]categoryResponse, 0, len(categories))
	for i := range categories {
		resp = append(resp, newCategoryResponse(&categories[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) GetCategory(c *gin.Context) {
	category, err := h.catalogService.GetCategory(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCategoryResponse(category))
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), middleware.PrincipalFrom(c), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newCategoryResponse(category))
}

// UpdateCategory serves PUT and PATCH
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	category, err := h.catalogService.UpdateCategory(
		c.Request.Context(),
		middleware.PrincipalFrom(c),
		c.Param("slug"),
		req.input(),
		c.Request.Method == http.MethodPatch,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCategoryResponse(category))
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	if err := h.catalogService.DeleteCategory(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	filter := repository.ProductFilter{
		CategorySlug: c.Query("category"),
		Search:       c.Query("search"),
		Ordering:     c.Query("ordering"),
	}

	if raw, ok := c.GetQuery("available"); ok && raw != "" {
		available, err := parseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "available must be true or false"})
			return
		}
		filter.Available = &available
	}
	for _, p := range []struct {
		name string
		dst  *int
	}{{"limit", &filter.Limit}, {"offset", &filter.Offset}} {
		if raw := c.Query(p.name); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": p.name + " must be a non-negative integer"})
				return
			}
			*p.dst = n
		}
	}

	products, err := h.catalogService.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]productResponse, 0, len(products))
	for i := range products {
		resp = append(resp, newProductResponse(&products[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalogService.GetProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProductDetailResponse(product))
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), middleware.PrincipalFrom(c), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newProductDetailResponse(product))
}

// UpdateProduct serves PUT and PATCH
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, err := h.catalogService.UpdateProduct(
		c.Request.Context(),
		middleware.PrincipalFrom(c),
		c.Param("slug"),
		req.input(),
		c.Request.Method == http.MethodPatch,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProductDetailResponse(product))
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	if err := h.catalogService.DeleteProduct(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return strconv.ParseBool(raw)
}
