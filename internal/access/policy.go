// Package access decides whether a caller may perform a request.
// Decisions are pure functions of the caller's identity and role.
package access

import (
	"net/http"

	"github.com/Baaaki/storefront/internal/models"
	"github.com/google/uuid"
)

// Principal is the per-request caller identity. The zero value is anonymous.
type Principal struct {
	UserID        uuid.UUID
	Email         string
	Role          models.Role
	Authenticated bool
}

// Anonymous is the caller without credentials
var Anonymous = Principal{}

type Policy int

const (
	// PolicyGuest lets anyone read and any authenticated user write
	PolicyGuest Policy = iota
	PolicyCustomer
	// PolicyAdmin also admits superadmins
	PolicyAdmin
	PolicySuperAdmin
	// PolicyAuthenticated admits any signed-in user regardless of role
	PolicyAuthenticated
)

func (p Policy) String() string {
	switch p {
	case PolicyGuest:
		return "guest"
	case PolicyCustomer:
		return "customer"
	case PolicyAdmin:
		return "admin"
	case PolicySuperAdmin:
		return "superadmin"
	case PolicyAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

type Decision int

const (
	Allow Decision = iota
	// DenyUnauthenticated maps to 401
	DenyUnauthenticated
	// DenyForbidden maps to 403
	DenyForbidden
)

// IsSafeMethod reports whether method never mutates state
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}

// Evaluate applies policy to a request made by p with the given HTTP method
func Evaluate(p Principal, policy Policy, method string) Decision {
	switch policy {
	case PolicyGuest:
		if IsSafeMethod(method) || p.Authenticated {
			return Allow
		}
		return DenyUnauthenticated
	case PolicyAuthenticated:
		if p.Authenticated {
			return Allow
		}
		return DenyUnauthenticated
	case PolicyCustomer, PolicyAdmin, PolicySuperAdmin:
		if !p.Authenticated {
			return DenyUnauthenticated
		}
		if roleSatisfies(p.Role, policy) {
			return Allow
		}
		return DenyForbidden
	default:
		return DenyForbidden
	}
}

// roleSatisfies is exhaustive over the known roles; unknown roles never pass
func roleSatisfies(role models.Role, policy Policy) bool {
	switch role {
	case models.RoleSuperAdmin:
		return policy == PolicyAdmin || policy == PolicySuperAdmin
	case models.RoleAdmin:
		return policy == PolicyAdmin
	case models.RoleCustomer:
		return policy == PolicyCustomer
	case models.RoleGuest:
		return false
	default:
		return false
	}
}

// CheckOwner is evaluated against a fetched object after the role check passed
func CheckOwner(p Principal, ownerID uuid.UUID) Decision {
	if !p.Authenticated {
		return DenyUnauthenticated
	}
	if p.UserID != ownerID {
		return DenyForbidden
	}
	return Allow
}
