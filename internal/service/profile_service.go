package service

import (
	"context"
	"mime/multipart"
	"strings"
	"time"

	"github.com/Baaaki/storefront/internal/access"
	"github.com/Baaaki/storefront/internal/models"
	"github.com/Baaaki/storefront/internal/repository"
	"github.com/Baaaki/storefront/internal/storage"
	"github.com/Baaaki/storefront/pkg/logger"
	validation "github.com/go-ozzo/ozzo-validation"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// ProfileUpdate carries the writable profile fields. Nil means "not sent".
type ProfileUpdate struct {
	Bio          *string
	PhoneNumber  *string
	Address      *string
	DateOfBirth  *string
	ProfileImage *multipart.FileHeader
}

type ProfileService struct {
	userRepo *repository.UserRepository
	images   storage.ImageStore
}

func NewProfileService(userRepo *repository.UserRepository, images storage.ImageStore) *ProfileService {
	return &ProfileService{userRepo: userRepo, images: images}
}

func (s *ProfileService) GetProfile(ctx context.Context, p access.Principal) (*models.Profile, *models.User, error) {
	if !p.Authenticated {
		return nil, nil, ErrUnauthorized
	}

	profile, user, err := s.userRepo.GetProfile(ctx, p.UserID)
	if err != nil {
		logger.Log.Error("Failed to load profile",
			zap.String("user_id", p.UserID.String()),
			zap.Error(err),
		)
		return nil, nil, err
	}
	if profile == nil {
		return nil, nil, ErrUserNotFound
	}
	return profile, user, nil
}

// UpdateProfile applies in to the caller's profile. With partial=false every
// text field not sent is cleared, mirroring PUT semantics.
func (s *ProfileService) UpdateProfile(ctx context.Context, p access.Principal, in ProfileUpdate, partial bool) (*models.Profile, *models.User, error) {
	profile, user, err := s.GetProfile(ctx, p)
	if err != nil {
		return nil, nil, err
	}

	if err := checkFields(validation.Errors{
		"phone_number":  validation.Validate(in.PhoneNumber, maxLength(20)),
		"date_of_birth": validation.Validate(in.DateOfBirth, validation.By(isoDate)),
		"profile_image": validation.Validate(in.ProfileImage, validation.By(validImage)),
	}); err != nil {
		return nil, nil, err
	}

	var dob *time.Time
	if in.DateOfBirth != nil && strings.TrimSpace(*in.DateOfBirth) != "" {
		parsed, _ := time.Parse(dateLayout, strings.TrimSpace(*in.DateOfBirth))
		dob = &parsed
	}

	if !partial {
		profile.Bio = ""
		profile.PhoneNumber = ""
		profile.Address = ""
		profile.DateOfBirth = nil
	}
	if in.Bio != nil {
		profile.Bio = *in.Bio
	}
	if in.PhoneNumber != nil {
		profile.PhoneNumber = *in.PhoneNumber
	}
	if in.Address != nil {
		profile.Address = *in.Address
	}
	if in.DateOfBirth != nil {
		profile.DateOfBirth = dob
	}

	if in.ProfileImage != nil {
		url, err := s.images.Save(ctx, "profile_images", in.ProfileImage)
		if err != nil {
			logger.Log.Error("Failed to store profile image",
				zap.String("user_id", p.UserID.String()),
				zap.Error(err),
			)
			return nil, nil, err
		}
		profile.ProfileImage = &url
	}

	if err := s.userRepo.SaveProfile(ctx, profile); err != nil {
		logger.Log.Error("Failed to save profile",
			zap.String("user_id", p.UserID.String()),
			zap.Error(err),
		)
		return nil, nil, err
	}

	logger.Log.Info("Profile updated",
		zap.String("user_id", p.UserID.String()),
		zap.Bool("partial", partial),
	)
	return profile, user, nil
}
