package service

import (
	"context"
	"strings"

	"github.com/Baaaki/storefront/internal/access"
	"github.com/Baaaki/storefront/internal/models"
	"github.com/Baaaki/storefront/internal/repository"
	"github.com/Baaaki/storefront/pkg/logger"
	validation "github.com/go-ozzo/ozzo-validation"
	"go.uber.org/zap"
)

const (
	minRating = 1
	maxRating = 5
)

// ReviewInput holds writable review fields. Product is a product slug and
// is only read on the flat create route.
type ReviewInput struct {
	Product *string
	Rating  *int
	Comment *string
}

type ReviewService struct {
	reviewRepo  *repository.ReviewRepository
	productRepo *repository.ProductRepository
}

func NewReviewService(reviewRepo *repository.ReviewRepository, productRepo *repository.ProductRepository) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, productRepo: productRepo}
}

// ListReviews returns every review, or only those of productSlug when set
func (s *ReviewService) ListReviews(ctx context.Context, productSlug string) ([]models.Review, error) {
	var productID uint
	if productSlug != "" {
		product, err := s.findProduct(ctx, productSlug)
		if err != nil {
			return nil, err
		}
		productID = product.ID
	}
	return s.reviewRepo.List(ctx, productID)
}

// GetReview loads a review. A non-empty productSlug scopes the lookup.
func (s *ReviewService) GetReview(ctx context.Context, productSlug string, id uint) (*models.Review, error) {
	var productID uint
	if productSlug != "" {
		product, err := s.findProduct(ctx, productSlug)
		if err != nil {
			return nil, err
		}
		productID = product.ID
	}

	review, err := s.reviewRepo.GetByID(ctx, id, productID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	return review, nil
}

// CreateReview attaches a review by p to productSlug, or to the product named
// in the body when productSlug is empty (flat route).
func (s *ReviewService) CreateReview(ctx context.Context, p access.Principal, productSlug string, in ReviewInput) (*models.Review, error) {
	if err := requireWrite(p, access.PolicyCustomer); err != nil {
		return nil, err
	}

	if productSlug == "" {
		if in.Product == nil || strings.TrimSpace(*in.Product) == "" {
			return nil, ErrProductRequired
		}
		productSlug = strings.TrimSpace(*in.Product)
	}

	product, err := s.findProduct(ctx, productSlug)
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		ProductID: product.ID,
		UserID:    p.UserID,
	}
	if err := applyReviewInput(review, in, false); err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		logger.Log.Error("Failed to create review",
			zap.String("slug", productSlug),
			zap.String("user_id", p.UserID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("Review created",
		zap.Uint("review_id", review.ID),
		zap.String("slug", productSlug),
		zap.String("user_id", p.UserID.String()),
		zap.Int("rating", review.Rating),
	)
	return s.GetReview(ctx, "", review.ID)
}

// UpdateReview lets the author change rating and comment
func (s *ReviewService) UpdateReview(ctx context.Context, p access.Principal, productSlug string, id uint, in ReviewInput, partial bool) (*models.Review, error) {
	if err := requireWrite(p, access.PolicyCustomer); err != nil {
		return nil, err
	}

	review, err := s.GetReview(ctx, productSlug, id)
	if err != nil {
		return nil, err
	}

	if err := requireOwner(p, review.UserID); err != nil {
		logger.Log.Warn("Review update by non-author",
			zap.Uint("review_id", id),
			zap.String("user_id", p.UserID.String()),
		)
		return nil, err
	}

	if err := applyReviewInput(review, in, partial); err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		logger.Log.Error("Failed to update review",
			zap.Uint("review_id", id),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("Review updated",
		zap.Uint("review_id", id),
		zap.String("user_id", p.UserID.String()),
	)
	return review, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, p access.Principal, productSlug string, id uint) error {
	if err := requireWrite(p, access.PolicyCustomer); err != nil {
		return err
	}

	review, err := s.GetReview(ctx, productSlug, id)
	if err != nil {
		return err
	}

	if err := requireOwner(p, review.UserID); err != nil {
		logger.Log.Warn("Review delete by non-author",
			zap.Uint("review_id", id),
			zap.String("user_id", p.UserID.String()),
		)
		return err
	}

	if err := s.reviewRepo.Delete(ctx, review); err != nil {
		logger.Log.Error("Failed to delete review",
			zap.Uint("review_id", id),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("Review deleted",
		zap.Uint("review_id", id),
		zap.String("user_id", p.UserID.String()),
	)
	return nil
}

func (s *ReviewService) findProduct(ctx context.Context, slug string) (*models.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug, false)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func applyReviewInput(review *models.Review, in ReviewInput, partial bool) error {
	ratingRules := []validation.Rule{validation.By(ratingInRange)}
	if !partial {
		ratingRules = append([]validation.Rule{validation.NotNil.Error(requiredMessage)}, ratingRules...)
	}
	if err := checkFields(validation.Errors{
		"rating": validation.Validate(in.Rating, ratingRules...),
	}); err != nil {
		return err
	}

	if in.Rating != nil {
		review.Rating = *in.Rating
	}
	if in.Comment != nil {
		review.Comment = *in.Comment
	} else if !partial {
		review.Comment = ""
	}
	return nil
}
