package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"strings"

	"github.com/Baaaki/storefront/internal/access"
	"github.com/Baaaki/storefront/internal/models"
	"github.com/Baaaki/storefront/internal/repository"
	"github.com/Baaaki/storefront/internal/storage"
	"github.com/Baaaki/storefront/internal/utils"
	"github.com/Baaaki/storefront/pkg/logger"
	validation "github.com/go-ozzo/ozzo-validation"
	"go.uber.org/zap"
)

const maxPrice = 99999999.99

// CategoryInput holds writable category fields. Nil means "not sent".
type CategoryInput struct {
	Name        *string
	Slug        *string
	Description *string
}

// ProductInput holds writable product fields. Category is a category slug.
type ProductInput struct {
	Category    *string
	Name        *string
	Slug        *string
	Description *string
	Price       *float64
	Stock       *int
	Available   *bool
	Image       *multipart.FileHeader
}

type CatalogService struct {
	categoryRepo *repository.CategoryRepository
	productRepo  *repository.ProductRepository
	images       storage.ImageStore
}

func NewCatalogService(
	categoryRepo *repository.CategoryRepository,
	productRepo *repository.ProductRepository,
	images storage.ImageStore,
) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		images:       images,
	}
}

func (s *CatalogService) ListCategories(ctx context.Context, search string) ([]models.Category, error) {
	return s.categoryRepo.List(ctx, search)
}

func (s *CatalogService) GetCategory(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, p access.Principal, in CategoryInput) (*models.Category, error) {
	if err := requireWrite(p, access.PolicyAdmin); err != nil {
		return nil, err
	}

	category := &models.Category{}
	if err := applyCategoryInput(category, in, false, true); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, slugConflict(err)
	}

	logger.Log.Info("Category created",
		zap.String("slug", category.Slug),
		zap.String("by", p.UserID.String()),
	)
	return category, nil
}

// UpdateCategory replaces (partial=false) or patches the category at slug
func (s *CatalogService) UpdateCategory(ctx context.Context, p access.Principal, slug string, in CategoryInput, partial bool) (*models.Category, error) {
	if err := requireWrite(p, access.PolicyAdmin); err != nil {
		return nil, err
	}

	category, err := s.GetCategory(ctx, slug)
	if err != nil {
		return nil, err
	}

	if err := applyCategoryInput(category, in, partial, false); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, slugConflict(err)
	}

	logger.Log.Info("Category updated",
		zap.String("slug", category.Slug),
		zap.String("by", p.UserID.String()),
	)
	return category, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, p access.Principal, slug string) error {
	if err := requireWrite(p, access.PolicyAdmin); err != nil {
		return err
	}

	category, err := s.GetCategory(ctx, slug)
	if err != nil {
		return err
	}

	if err := s.categoryRepo.Delete(ctx, category); err != nil {
		logger.Log.Error("Failed to delete category",
			zap.String("slug", slug),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("Category deleted",
		zap.String("slug", slug),
		zap.String("by", p.UserID.String()),
	)
	return nil
}

func (s *CatalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]models.Product, error) {
	return s.productRepo.List(ctx, filter)
}

// GetProduct loads the detail representation, review ids included
func (s *CatalogService) GetProduct(ctx context.Context, slug string) (*models.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug, true)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, p access.Principal, in ProductInput) (*models.Product, error) {
	if err := requireWrite(p, access.PolicyAdmin); err != nil {
		return nil, err
	}

	product := &models.Product{Available: true}
	if err := s.applyProductInput(ctx, product, in, false, true); err != nil {
		return nil, err
	}

	if err := s.storeProductImage(ctx, product, in.Image); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, slugConflict(err)
	}

	logger.Log.Info("Product created",
		zap.String("slug", product.Slug),
		zap.String("by", p.UserID.String()),
	)
	return s.GetProduct(ctx, product.Slug)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, p access.Principal, slug string, in ProductInput, partial bool) (*models.Product, error) {
	if err := requireWrite(p, access.PolicyAdmin); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetBySlug(ctx, slug, false)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if err := s.applyProductInput(ctx, product, in, partial, false); err != nil {
		return nil, err
	}

	if err := s.storeProductImage(ctx, product, in.Image); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, slugConflict(err)
	}

	logger.Log.Info("Product updated",
		zap.String("slug", product.Slug),
		zap.String("by", p.UserID.String()),
	)
	return s.GetProduct(ctx, product.Slug)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, p access.Principal, slug string) error {
	if err := requireWrite(p, access.PolicyAdmin); err != nil {
		return err
	}

	product, err := s.productRepo.GetBySlug(ctx, slug, false)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}

	if err := s.productRepo.Delete(ctx, product); err != nil {
		logger.Log.Error("Failed to delete product",
			zap.String("slug", slug),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("Product deleted",
		zap.String("slug", slug),
		zap.String("by", p.UserID.String()),
	)
	return nil
}

func applyCategoryInput(category *models.Category, in CategoryInput, partial, creating bool) error {
	name := category.Name
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
	}
	slug := mergeSlug(category.Slug, in.Slug, name, creating)

	if err := checkFields(validation.Errors{
		"name": validation.Validate(name, validation.Required.Error(requiredMessage), maxLength(100)),
		"slug": validation.Validate(slug, slugRules(name)...),
	}); err != nil {
		return err
	}

	category.Name = name
	category.Slug = slug
	if in.Description != nil {
		category.Description = *in.Description
	} else if !partial {
		category.Description = ""
	}
	return nil
}

func (s *CatalogService) applyProductInput(ctx context.Context, product *models.Product, in ProductInput, partial, creating bool) error {
	var categorySlug *string
	if in.Category != nil {
		trimmed := strings.TrimSpace(*in.Category)
		categorySlug = &trimmed
	}

	categoryRules := []validation.Rule{presence(partial)}
	if categorySlug != nil && *categorySlug != "" {
		category, err := s.categoryRepo.GetBySlug(ctx, *categorySlug)
		if err != nil {
			return err
		}
		if category == nil {
			categoryRules = append(categoryRules, validation.By(func(interface{}) error {
				return fmt.Errorf("Object with slug=%s does not exist.", *categorySlug)
			}))
		} else {
			product.CategoryID = category.ID
			product.Category = *category
		}
	}

	name := product.Name
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
	}
	slug := mergeSlug(product.Slug, in.Slug, name, creating)

	priceRules := []validation.Rule{
		validation.By(finite),
		validation.Min(0.0).Error("Ensure this value is greater than or equal to 0."),
		validation.Max(maxPrice).Error("Ensure that there are no more than 10 digits in total."),
	}
	if !partial {
		priceRules = append([]validation.Rule{validation.NotNil.Error(requiredMessage)}, priceRules...)
	}

	if err := checkFields(validation.Errors{
		"category": validation.Validate(categorySlug, categoryRules...),
		"name":     validation.Validate(name, validation.Required.Error(requiredMessage), maxLength(200)),
		"slug":     validation.Validate(slug, slugRules(name)...),
		"price":    validation.Validate(in.Price, priceRules...),
		"stock":    validation.Validate(in.Stock, validation.Min(0).Error("Ensure this value is greater than or equal to 0.")),
		"image":    validation.Validate(in.Image, validation.By(validImage)),
	}); err != nil {
		return err
	}

	product.Name = name
	product.Slug = slug
	if in.Price != nil {
		product.Price = math.Round(*in.Price*100) / 100
	}
	if in.Description != nil {
		product.Description = *in.Description
	} else if !partial {
		product.Description = ""
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
	} else if !partial {
		product.Stock = 0
	}
	if in.Available != nil {
		product.Available = *in.Available
	} else if !partial {
		product.Available = true
	}
	return nil
}

func (s *CatalogService) storeProductImage(ctx context.Context, product *models.Product, file *multipart.FileHeader) error {
	if file == nil {
		return nil
	}
	url, err := s.images.Save(ctx, "products", file)
	if err != nil {
		logger.Log.Error("Failed to store product image",
			zap.String("slug", product.Slug),
			zap.Error(err),
		)
		return err
	}
	product.Image = &url
	return nil
}

// mergeSlug keeps the stored slug unless one was sent. New records without
// one derive it from the name.
func mergeSlug(current string, sent *string, name string, creating bool) string {
	switch {
	case sent != nil && strings.TrimSpace(*sent) != "":
		return strings.TrimSpace(*sent)
	case creating:
		return utils.Slugify(name)
	}
	return current
}

func slugConflict(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return NewValidationError("slug", "This slug is already in use.")
	}
	return err
}
