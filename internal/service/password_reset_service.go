package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/Baaaki/storefront/internal/mail"
	"github.com/Baaaki/storefront/internal/models"
	"github.com/Baaaki/storefront/internal/repository"
	"github.com/Baaaki/storefront/internal/utils"
	"github.com/Baaaki/storefront/pkg/logger"
	validation "github.com/go-ozzo/ozzo-validation"
	"go.uber.org/zap"
)

const resetKeyBytes = 24

type PasswordResetSettings struct {
	TokenTTL    time.Duration
	FrontendURL string
	SiteName    string
}

// ResetRequest describes who asked for a reset link
type ResetRequest struct {
	Email     string
	IPAddress string
	UserAgent string
}

type PasswordResetService struct {
	userRepo  *repository.UserRepository
	resetRepo *repository.PasswordResetRepository
	mailer    mail.Mailer
	settings  PasswordResetSettings
	now       func() time.Time
}

func NewPasswordResetService(
	userRepo *repository.UserRepository,
	resetRepo *repository.PasswordResetRepository,
	mailer mail.Mailer,
	settings PasswordResetSettings,
) *PasswordResetService {
	return &PasswordResetService{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		mailer:    mailer,
		settings:  settings,
		now:       time.Now,
	}
}

// RequestReset mails a reset link to an eligible account. Callers get the
// same answer whether or not the address is known.
func (s *PasswordResetService) RequestReset(ctx context.Context, req ResetRequest) error {
	email := NormalizeEmail(req.Email)

	if err := checkFields(validation.Errors{
		"email": validation.Validate(email, emailRules()...),
	}); err != nil {
		return err
	}

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		logger.Log.Error("Failed to look up user for password reset",
			zap.String("email", email),
			zap.Error(err),
		)
		return err
	}
	if user == nil || !user.IsActive || !utils.IsUsablePassword(user.PasswordHash) {
		logger.Log.Debug("Password reset requested for ineligible account", zap.String("email", email))
		return nil
	}

	token, err := s.resetRepo.GetLatestForUser(ctx, user.ID)
	if err != nil {
		return err
	}
	if token != nil && token.IsExpired(s.settings.TokenTTL, s.now()) {
		token = nil
	}

	if token == nil {
		key, err := newResetKey()
		if err != nil {
			logger.Log.Error("Failed to generate reset key", zap.Error(err))
			return err
		}
		token = &models.PasswordResetToken{
			UserID:    user.ID,
			Key:       key,
			IPAddress: truncate(req.IPAddress, 45),
			UserAgent: truncate(req.UserAgent, 256),
		}
		if err := s.resetRepo.Create(ctx, token); err != nil {
			logger.Log.Error("Failed to store reset token",
				zap.String("user_id", user.ID.String()),
				zap.Error(err),
			)
			return err
		}
	}

	link := fmt.Sprintf("%s/password-reset/confirm/?token=%s", s.settings.FrontendURL, token.Key)
	msg, err := mail.PasswordResetMessage(user.Email, mail.LinkEmail{
		Name:     strings.TrimSpace(user.FirstName + " " + user.LastName),
		Link:     link,
		SiteName: s.settings.SiteName,
	})
	if err != nil {
		logger.Log.Error("Failed to render password reset email",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil
	}
	s.mailer.Enqueue(msg)

	logger.Log.Info("Password reset requested",
		zap.String("user_id", user.ID.String()),
		zap.String("ip", req.IPAddress),
	)
	return nil
}

// ValidateToken reports ErrResetTokenNotFound for unknown or expired keys.
// Expired keys are removed on sight.
func (s *PasswordResetService) ValidateToken(ctx context.Context, key string) (*models.PasswordResetToken, error) {
	key = strings.TrimSpace(key)
	if err := checkFields(validation.Errors{
		"token": validation.Validate(key, validation.Required.Error(requiredMessage)),
	}); err != nil {
		return nil, err
	}

	token, err := s.resetRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, ErrResetTokenNotFound
	}

	if token.IsExpired(s.settings.TokenTTL, s.now()) {
		if err := s.resetRepo.DeleteByKey(ctx, key); err != nil {
			logger.Log.Warn("Failed to delete expired reset token", zap.Error(err))
		}
		return nil, ErrResetTokenNotFound
	}

	return token, nil
}

// ConfirmReset sets the new password and burns every reset key of the user
func (s *PasswordResetService) ConfirmReset(ctx context.Context, key, password string) error {
	token, err := s.ValidateToken(ctx, key)
	if err != nil {
		return err
	}

	user, err := s.userRepo.GetUserByID(ctx, token.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrResetTokenNotFound
	}

	if err := checkFields(validation.Errors{
		"password": validation.Validate(password, passwordRules(user.Email)...),
	}); err != nil {
		return err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		logger.Log.Error("Failed to hash password", zap.Error(err))
		return err
	}

	if err := s.resetRepo.ConsumeForUser(ctx, user.ID, hash); err != nil {
		logger.Log.Error("Failed to reset password",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("Password reset completed", zap.String("user_id", user.ID.String()))
	return nil
}

func newResetKey() (string, error) {
	buf := make([]byte, resetKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
