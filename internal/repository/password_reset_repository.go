package repository

import (
	"context"
	"errors"

	"github.com/Baaaki/storefront/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PasswordResetRepository struct {
	db *gorm.DB
}

func NewPasswordResetRepository(db *gorm.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

func (r *PasswordResetRepository) Create(ctx context.Context, token *models.PasswordResetToken) error {
	return r.db.WithContext(ctx).Omit("User").Create(token).Error
}

func (r *PasswordResetRepository) GetByKey(ctx context.Context, key string) (*models.PasswordResetToken, error) {
	var token models.PasswordResetToken
	err := r.db.WithContext(ctx).Where("token_key = ?", key).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

// GetLatestForUser returns the newest outstanding token of a user, if any
func (r *PasswordResetRepository) GetLatestForUser(ctx context.Context, userID uuid.UUID) (*models.PasswordResetToken, error) {
	var token models.PasswordResetToken
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (r *PasswordResetRepository) DeleteByKey(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("token_key = ?", key).Delete(&models.PasswordResetToken{}).Error
}

// ConsumeForUser sets the new password hash and removes every reset token of
// the user in one transaction, so a key can only be used once.
func (r *PasswordResetRepository) ConsumeForUser(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("password_hash", passwordHash).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&models.PasswordResetToken{}).Error
	})
}
