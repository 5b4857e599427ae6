package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/Baaaki/storefront/internal/models"
	"gorm.io/gorm"
)

// averageRatingSelect derives the rating at read time from the reviews table
const averageRatingSelect = "products.*, " +
	"(SELECT COALESCE(AVG(reviews.rating), 0) FROM reviews WHERE reviews.product_id = products.id) AS average_rating"

// orderableProductFields maps public ordering keys to SQL expressions
var orderableProductFields = map[string]string{
	"price":          "products.price",
	"created_at":     "products.created_at",
	"average_rating": "average_rating",
}

// ProductFilter narrows a product listing
type ProductFilter struct {
	CategorySlug string
	Available    *bool
	Search       string
	// Ordering is a comma separated list of keys, "-" prefix for descending
	Ordering string
	Limit    int
	Offset   int
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select(averageRatingSelect).
		Preload("Category")
}

func (r *ProductRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	q := r.base(ctx)

	if filter.CategorySlug != "" {
		categoryIDs := r.db.Model(&models.Category{}).Select("id").Where("slug = ?", filter.CategorySlug)
		q = q.Where("products.category_id IN (?)", categoryIDs)
	}
	if filter.Available != nil {
		q = q.Where("products.available = ?", *filter.Available)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := containsPattern(search)
		q = q.Where(`LOWER(products.name) LIKE ? ESCAPE '\' OR LOWER(products.description) LIKE ? ESCAPE '\'`, like, like)
	}

	ordered := false
	for _, key := range strings.Split(filter.Ordering, ",") {
		key = strings.TrimSpace(key)
		desc := strings.HasPrefix(key, "-")
		column, ok := orderableProductFields[strings.TrimPrefix(key, "-")]
		if !ok {
			// unknown keys are ignored
			continue
		}
		if desc {
			column += " DESC"
		} else {
			column += " ASC"
		}
		q = q.Order(column)
		ordered = true
	}
	if !ordered {
		q = q.Order("products.id ASC")
	}

	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var products []models.Product
	err := q.Find(&products).Error
	return products, err
}

// GetBySlug loads a product with its category. withReviews also loads the
// review rows so callers can expose their ids.
func (r *ProductRepository) GetBySlug(ctx context.Context, slug string, withReviews bool) (*models.Product, error) {
	q := r.base(ctx).Where("products.slug = ?", slug)
	if withReviews {
		q = q.Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "product_id").Order("id ASC")
		})
	}

	var product models.Product
	if err := q.First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Omit("Category", "Reviews").Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Omit("Category", "Reviews").Save(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// Delete removes the product and its reviews
func (r *ProductRepository) Delete(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, product.ID).Error
	})
}
