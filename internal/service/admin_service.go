package service

import (
	"context"
	"net"
	"strings"

	"github.com/Baaaki/storefront/internal/access"
	"github.com/Baaaki/storefront/internal/models"
	"github.com/Baaaki/storefront/internal/repository"
	"github.com/Baaaki/storefront/pkg/logger"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccessUpdate changes who an account is. Nil means "leave as is".
type AccessUpdate struct {
	Role     *models.Role
	IsActive *bool
}

// IPBanList holds client addresses that are refused before rate limiting
type IPBanList interface {
	BanIP(ctx context.Context, ip string) error
	UnbanIP(ctx context.Context, ip string) error
	BannedIPs(ctx context.Context) ([]string, error)
}

// AdminService is the superadmin's account management surface
type AdminService struct {
	userRepo *repository.UserRepository
	bans     IPBanList
}

func NewAdminService(userRepo *repository.UserRepository, bans IPBanList) *AdminService {
	return &AdminService{userRepo: userRepo, bans: bans}
}

func (s *AdminService) ListUsers(ctx context.Context, p access.Principal, role models.Role) ([]models.User, error) {
	if err := requireWrite(p, access.PolicySuperAdmin); err != nil {
		return nil, err
	}
	if err := checkFields(validation.Errors{
		"role": validation.Validate(role, roleRule(role)),
	}); err != nil {
		return nil, err
	}

	users, err := s.userRepo.ListUsers(ctx, role)
	if err != nil {
		logger.Log.Error("Failed to fetch users", zap.Error(err))
		return nil, err
	}
	return users, nil
}

// UpdateAccess sets role and activation of another account. Staff and
// superuser flags follow the role.
func (s *AdminService) UpdateAccess(ctx context.Context, p access.Principal, userID uuid.UUID, in AccessUpdate) (*models.User, error) {
	if err := requireWrite(p, access.PolicySuperAdmin); err != nil {
		return nil, err
	}

	if userID == p.UserID {
		return nil, NewValidationError("user", "You cannot change your own access.")
	}
	if in.Role != nil {
		if err := checkFields(validation.Errors{
			"role": validation.Validate(*in.Role, roleRule(*in.Role)),
		}); err != nil {
			return nil, err
		}
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if in.Role != nil {
		user.Role = *in.Role
		user.IsStaff = user.Role == models.RoleAdmin || user.Role == models.RoleSuperAdmin
		user.IsSuperuser = user.Role == models.RoleSuperAdmin
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	if err := s.userRepo.UpdateAccess(ctx, user); err != nil {
		logger.Log.Error("Failed to update user access",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("User access updated",
		zap.String("user_id", userID.String()),
		zap.String("role", string(user.Role)),
		zap.Bool("is_active", user.IsActive),
		zap.String("by", p.UserID.String()),
	)
	return user, nil
}

func (s *AdminService) ListBannedIPs(ctx context.Context, p access.Principal) ([]string, error) {
	if err := requireWrite(p, access.PolicySuperAdmin); err != nil {
		return nil, err
	}

	ips, err := s.bans.BannedIPs(ctx)
	if err != nil {
		logger.Log.Error("Failed to fetch banned IPs", zap.Error(err))
		return nil, err
	}
	return ips, nil
}

// BanIP refuses every further request from ip on the rate limited routes
func (s *AdminService) BanIP(ctx context.Context, p access.Principal, ip string) (string, error) {
	ip, err := s.checkIP(p, ip)
	if err != nil {
		return "", err
	}

	if err := s.bans.BanIP(ctx, ip); err != nil {
		logger.Log.Error("Failed to ban IP", zap.String("ip", ip), zap.Error(err))
		return "", err
	}

	logger.Log.Warn("IP banned",
		zap.String("ip", ip),
		zap.String("by", p.UserID.String()),
	)
	return ip, nil
}

func (s *AdminService) UnbanIP(ctx context.Context, p access.Principal, ip string) (string, error) {
	ip, err := s.checkIP(p, ip)
	if err != nil {
		return "", err
	}

	if err := s.bans.UnbanIP(ctx, ip); err != nil {
		logger.Log.Error("Failed to unban IP", zap.String("ip", ip), zap.Error(err))
		return "", err
	}

	logger.Log.Info("IP unbanned",
		zap.String("ip", ip),
		zap.String("by", p.UserID.String()),
	)
	return ip, nil
}

// checkIP gates the ban endpoints and returns ip in the canonical form
// gin reports as the client address
func (s *AdminService) checkIP(p access.Principal, ip string) (string, error) {
	if err := requireWrite(p, access.PolicySuperAdmin); err != nil {
		return "", err
	}

	ip = strings.TrimSpace(ip)
	if err := checkFields(validation.Errors{
		"ip": validation.Validate(ip,
			validation.Required.Error(requiredMessage),
			is.IP.Error("Enter a valid IPv4 or IPv6 address."),
		),
	}); err != nil {
		return "", err
	}
	return net.ParseIP(ip).String(), nil
}
