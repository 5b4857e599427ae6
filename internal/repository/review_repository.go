package repository

import (
	"context"
	"errors"

	"github.com/Baaaki/storefront/internal/models"
	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// List returns reviews oldest first. A non-zero productID scopes the list.
func (r *ReviewRepository) List(ctx context.Context, productID uint) ([]models.Review, error) {
	var reviews []models.Review
	q := r.db.WithContext(ctx).
		Preload("Product").
		Preload("User").
		Order("reviews.id ASC")
	if productID != 0 {
		q = q.Where("reviews.product_id = ?", productID)
	}
	err := q.Find(&reviews).Error
	return reviews, err
}

// GetByID loads a review. A non-zero productID requires the review to belong to it.
func (r *ReviewRepository) GetByID(ctx context.Context, id uint, productID uint) (*models.Review, error) {
	var review models.Review
	q := r.db.WithContext(ctx).Preload("Product").Preload("User").Where("reviews.id = ?", id)
	if productID != 0 {
		q = q.Where("reviews.product_id = ?", productID)
	}
	if err := q.First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Omit("Product", "User").Create(review).Error
}

func (r *ReviewRepository) Update(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Model(review).
		Select("rating", "comment").
		Updates(map[string]interface{}{
			"rating":  review.Rating,
			"comment": review.Comment,
		}).Error
}

func (r *ReviewRepository) Delete(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Delete(&models.Review{}, review.ID).Error
}
