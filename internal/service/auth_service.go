package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/Baaaki/storefront/internal/blacklist"
	"github.com/Baaaki/storefront/internal/mail"
	"github.com/Baaaki/storefront/internal/models"
	"github.com/Baaaki/storefront/internal/repository"
	"github.com/Baaaki/storefront/internal/storage"
	"github.com/Baaaki/storefront/internal/utils"
	"github.com/Baaaki/storefront/pkg/logger"
	validation "github.com/go-ozzo/ozzo-validation"
	"go.uber.org/zap"
)

// AuthSettings groups token lifetimes and the values placed in outgoing links
type AuthSettings struct {
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	VerificationTTL time.Duration
	FrontendURL     string
	SiteName        string
}

type TokenPair struct {
	Access  string
	Refresh string
}

type NewUser struct {
	Email        string
	Password     string
	FirstName    string
	LastName     string
	Role         models.Role
	IsActive     bool
	IsVerified   bool
	IsStaff      bool
	IsSuperuser  bool
	ProfileImage *string
}

type RegisterInput struct {
	Email        string
	Password     string
	Password2    string
	FirstName    string
	LastName     string
	ProfileImage *multipart.FileHeader
}

type AuthService struct {
	userRepo  *repository.UserRepository
	blacklist blacklist.TokenBlacklist
	mailer    mail.Mailer
	images    storage.ImageStore
	settings  AuthSettings
}

func NewAuthService(
	userRepo *repository.UserRepository,
	tokenBlacklist blacklist.TokenBlacklist,
	mailer mail.Mailer,
	images storage.ImageStore,
	settings AuthSettings,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		blacklist: tokenBlacklist,
		mailer:    mailer,
		images:    images,
		settings:  settings,
	}
}

// CreateUser persists a user and its profile. An empty password produces an
// account that cannot log in with a password (OAuth-only).
func (s *AuthService) CreateUser(ctx context.Context, in NewUser) (*models.User, error) {
	email := NormalizeEmail(in.Email)
	if email == "" {
		return nil, NewValidationError("email", "Users must have an email address.")
	}

	existing, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		logger.Log.Error("Failed to check email existence",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, err
	}
	if existing != nil {
		logger.Log.Warn("Email already exists", zap.String("email", email))
		return nil, ErrEmailAlreadyExists
	}

	passwordHash := utils.UnusablePassword()
	if in.Password != "" {
		hashStart := time.Now()
		passwordHash, err = utils.HashPassword(in.Password)
		if err != nil {
			logger.Log.Error("Failed to hash password", zap.Error(err))
			return nil, err
		}
		logger.Log.Debug("Password hashed successfully",
			zap.Duration("hash_duration", time.Since(hashStart)),
		)
	}

	role := in.Role
	if role == "" {
		role = models.RoleCustomer
	}
	if err := checkFields(validation.Errors{
		"role": validation.Validate(role, roleRule(role)),
	}); err != nil {
		return nil, err
	}

	user := &models.User{
		Email:           email,
		PasswordHash:    passwordHash,
		FirstName:       strings.TrimSpace(in.FirstName),
		LastName:        strings.TrimSpace(in.LastName),
		Role:            role,
		ProfileImage:    in.ProfileImage,
		IsActive:        in.IsActive,
		IsEmailVerified: in.IsVerified,
		IsStaff:         in.IsStaff,
		IsSuperuser:     in.IsSuperuser,
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// lost a race with a concurrent registration
			return nil, ErrEmailAlreadyExists
		}
		logger.Log.Error("Failed to create user in database",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, err
	}

	return user, nil
}

// CreateSuperuser creates an active, verified superadmin
func (s *AuthService) CreateSuperuser(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	if err := checkFields(validation.Errors{
		"email":    validation.Validate(email, emailRules()...),
		"password": validation.Validate(password, passwordRules(email)...),
	}); err != nil {
		return nil, err
	}

	user, err := s.CreateUser(ctx, NewUser{
		Email:       email,
		Password:    password,
		Role:        models.RoleSuperAdmin,
		IsActive:    true,
		IsVerified:  true,
		IsStaff:     true,
		IsSuperuser: true,
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Superuser created",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
	)
	return user, nil
}

// Register creates an inactive customer and mails the verification link
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	start := time.Now()
	email := NormalizeEmail(in.Email)

	logger.Log.Debug("Processing user registration", zap.String("email", email))

	err := checkFields(validation.Errors{
		"email":         validation.Validate(email, emailRules()...),
		"password":      validation.Validate(in.Password, append(passwordRules(email), validation.By(matches(in.Password2)))...),
		"password2":     validation.Validate(in.Password2, validation.Required.Error(requiredMessage)),
		"first_name":    validation.Validate(in.FirstName, maxLength(150)),
		"last_name":     validation.Validate(in.LastName, maxLength(150)),
		"profile_image": validation.Validate(in.ProfileImage, validation.By(validImage)),
	})
	if err != nil {
		logger.Log.Warn("Registration validation failed",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, err
	}

	var imageURL *string
	if in.ProfileImage != nil {
		url, err := s.images.Save(ctx, "profile_images", in.ProfileImage)
		if err != nil {
			logger.Log.Error("Failed to store profile image", zap.Error(err))
			return nil, err
		}
		imageURL = &url
	}

	user, err := s.CreateUser(ctx, NewUser{
		Email:        email,
		Password:     in.Password,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         models.RoleCustomer,
		IsActive:     false,
		ProfileImage: imageURL,
	})
	if err != nil {
		return nil, err
	}

	s.sendVerificationEmail(user)

	logger.Log.Info("User registered successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("email", email),
		zap.Duration("total_duration", time.Since(start)),
	)

	return user, nil
}

// VerifyEmail activates the account behind uid when token matches it.
// Repeated visits with a valid token report alreadyVerified without writing.
func (s *AuthService) VerifyEmail(ctx context.Context, uid, token string) (alreadyVerified bool, err error) {
	userID, err := utils.DecodeUID(uid)
	if err != nil {
		logger.Log.Warn("Verification with malformed uid", zap.String("uid", uid))
		return false, ErrInvalidLink
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil {
		logger.Log.Warn("Verification for unknown user", zap.String("user_id", userID.String()))
		return false, ErrInvalidLink
	}

	if !utils.CheckVerificationToken(user, token, s.settings.JWTSecret) {
		logger.Log.Warn("Verification token rejected", zap.String("user_id", user.ID.String()))
		return false, ErrInvalidOrExpiredToken
	}

	if user.IsEmailVerified {
		return true, nil
	}

	if err := s.userRepo.MarkEmailVerified(ctx, user.ID); err != nil {
		logger.Log.Error("Failed to mark email verified",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return false, err
	}

	logger.Log.Info("Email verified", zap.String("user_id", user.ID.String()))
	return false, nil
}

// ResendVerification mails a fresh link to an unverified account. Unknown or
// already verified addresses are ignored so callers learn nothing.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if err := checkFields(validation.Errors{
		"email": validation.Validate(email, emailRules()...),
	}); err != nil {
		return err
	}

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil || user.IsEmailVerified {
		return nil
	}

	s.sendVerificationEmail(user)
	return nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	start := time.Now()
	email = NormalizeEmail(email)

	logger.Log.Debug("Processing user login", zap.String("email", email))

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		logger.Log.Error("Failed to get user by email",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, nil, err
	}
	if user == nil {
		logger.Log.Warn("Login failed: user not found", zap.String("email", email))
		return nil, nil, ErrInvalidCredentials
	}

	verifyStart := time.Now()
	valid, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		logger.Log.Error("Failed to verify password",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, nil, err
	}
	verifyDuration := time.Since(verifyStart)

	if !valid {
		logger.Log.Warn("Login failed: invalid password",
			zap.String("email", email),
			zap.String("user_id", user.ID.String()),
		)
		return nil, nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		logger.Log.Warn("Login failed: account inactive",
			zap.String("user_id", user.ID.String()),
		)
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		// login still succeeds, last_login is informational
		logger.Log.Warn("Failed to update last login",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	} else {
		user.LastLogin = &now
	}

	logger.Log.Info("User logged in successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
		zap.Duration("password_verify_duration", verifyDuration),
		zap.Duration("total_duration", time.Since(start)),
	)

	return user, tokens, nil
}

// Refresh mints a new access token. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", ErrUnauthorized
	}

	claims, err := utils.ValidateToken(refreshToken, s.settings.JWTSecret, utils.TokenTypeRefresh)
	if err != nil {
		logger.Log.Warn("Refresh token rejected", zap.Error(err))
		return "", ErrInvalidToken
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		logger.Log.Error("Failed to check token blacklist",
			zap.String("jti", claims.ID),
			zap.Error(err),
		)
		return "", err
	}
	if revoked {
		logger.Log.Warn("Blacklisted refresh token used",
			zap.String("user_id", claims.UserID.String()),
			zap.String("jti", claims.ID),
		)
		return "", ErrInvalidToken
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return "", err
	}
	if user == nil || !user.IsActive {
		return "", ErrInvalidToken
	}

	access, err := utils.GenerateToken(user, utils.TokenTypeAccess, s.settings.JWTSecret, s.settings.AccessTokenTTL)
	if err != nil {
		logger.Log.Error("Failed to generate access token",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return "", err
	}

	logger.Log.Debug("Access token refreshed", zap.String("user_id", user.ID.String()))
	return access, nil
}

// Logout revokes the refresh token on a best-effort basis. It never fails.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}

	claims, err := utils.ValidateToken(refreshToken, s.settings.JWTSecret, utils.TokenTypeRefresh)
	if err != nil {
		// expired or forged tokens cannot be used again anyway
		logger.Log.Debug("Logout with unusable refresh token", zap.Error(err))
		return
	}

	if err := s.blacklist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		logger.Log.Warn("Failed to blacklist refresh token",
			zap.String("user_id", claims.UserID.String()),
			zap.String("jti", claims.ID),
			zap.Error(err),
		)
		return
	}

	logger.Log.Info("User logged out", zap.String("user_id", claims.UserID.String()))
}

// AccessTokenTTL is the cookie lifetime handlers should use for access tokens
func (s *AuthService) AccessTokenTTL() time.Duration {
	return s.settings.AccessTokenTTL
}

// RefreshTokenTTL is the cookie lifetime handlers should use for refresh tokens
func (s *AuthService) RefreshTokenTTL() time.Duration {
	return s.settings.RefreshTokenTTL
}

func (s *AuthService) issueTokens(user *models.User) (*TokenPair, error) {
	access, err := utils.GenerateToken(user, utils.TokenTypeAccess, s.settings.JWTSecret, s.settings.AccessTokenTTL)
	if err != nil {
		logger.Log.Error("Failed to generate access token",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	refresh, err := utils.GenerateToken(user, utils.TokenTypeRefresh, s.settings.JWTSecret, s.settings.RefreshTokenTTL)
	if err != nil {
		logger.Log.Error("Failed to generate refresh token",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *AuthService) sendVerificationEmail(user *models.User) {
	token, err := utils.GenerateToken(user, utils.TokenTypeVerification, s.settings.JWTSecret, s.settings.VerificationTTL)
	if err != nil {
		logger.Log.Error("Failed to generate verification token",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return
	}

	link := fmt.Sprintf("%s/verify-email/%s/%s/", s.settings.FrontendURL, utils.EncodeUID(user.ID), token)

	msg, err := mail.VerificationMessage(user.Email, mail.LinkEmail{
		Name:     strings.TrimSpace(user.FirstName + " " + user.LastName),
		Link:     link,
		SiteName: s.settings.SiteName,
	})
	if err != nil {
		logger.Log.Error("Failed to render verification email",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return
	}

	s.mailer.Enqueue(msg)
}
