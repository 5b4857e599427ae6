package access

import (
	"net/http"
	"testing"

	"github.com/Baaaki/storefront/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func principal(role models.Role) Principal {
	return Principal{UserID: uuid.New(), Role: role, Authenticated: true}
}

func TestEvaluate(t *testing.T) {
	testCases := []struct {
		name     string
		caller   Principal
		policy   Policy
		method   string
		expected Decision
	}{
		{"guest policy read anonymous", Anonymous, PolicyGuest, http.MethodGet, Allow},
		{"guest policy head anonymous", Anonymous, PolicyGuest, http.MethodHead, Allow},
		{"guest policy write anonymous", Anonymous, PolicyGuest, http.MethodPost, DenyUnauthenticated},
		{"guest policy write guest role", principal(models.RoleGuest), PolicyGuest, http.MethodPost, Allow},

		{"customer policy anonymous", Anonymous, PolicyCustomer, http.MethodPost, DenyUnauthenticated},
		{"customer policy customer", principal(models.RoleCustomer), PolicyCustomer, http.MethodPost, Allow},
		{"customer policy admin", principal(models.RoleAdmin), PolicyCustomer, http.MethodPost, DenyForbidden},
		{"customer policy superadmin", principal(models.RoleSuperAdmin), PolicyCustomer, http.MethodPost, DenyForbidden},
		{"customer policy read still needs role", principal(models.RoleGuest), PolicyCustomer, http.MethodGet, DenyForbidden},

		{"admin policy anonymous", Anonymous, PolicyAdmin, http.MethodDelete, DenyUnauthenticated},
		{"admin policy customer", principal(models.RoleCustomer), PolicyAdmin, http.MethodDelete, DenyForbidden},
		{"admin policy admin", principal(models.RoleAdmin), PolicyAdmin, http.MethodDelete, Allow},
		{"admin policy superadmin", principal(models.RoleSuperAdmin), PolicyAdmin, http.MethodDelete, Allow},

		{"superadmin policy admin", principal(models.RoleAdmin), PolicySuperAdmin, http.MethodPut, DenyForbidden},
		{"superadmin policy superadmin", principal(models.RoleSuperAdmin), PolicySuperAdmin, http.MethodPut, Allow},

		{"authenticated policy anonymous", Anonymous, PolicyAuthenticated, http.MethodGet, DenyUnauthenticated},
		{"authenticated policy guest role", principal(models.RoleGuest), PolicyAuthenticated, http.MethodGet, Allow},

		{"unknown role", principal(models.Role("owner")), PolicyAdmin, http.MethodPost, DenyForbidden},
		{"unknown policy", principal(models.RoleSuperAdmin), Policy(99), http.MethodGet, DenyForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Evaluate(tc.caller, tc.policy, tc.method))
		})
	}
}

func TestCheckOwner(t *testing.T) {
	owner := principal(models.RoleCustomer)
	other := principal(models.RoleCustomer)

	assert.Equal(t, Allow, CheckOwner(owner, owner.UserID))
	assert.Equal(t, DenyForbidden, CheckOwner(other, owner.UserID))
	assert.Equal(t, DenyUnauthenticated, CheckOwner(Anonymous, owner.UserID))
}

func TestPolicyString(t *testing.T) {
	assert.Equal(t, "admin", PolicyAdmin.String())
	assert.Equal(t, "unknown", Policy(42).String())
}
