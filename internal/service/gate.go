package service

import (
	"net/http"

	"github.com/Baaaki/storefront/internal/access"
	"github.com/google/uuid"
)

// requireWrite applies policy to a state-changing call made by p
func requireWrite(p access.Principal, policy access.Policy) error {
	return decisionError(access.Evaluate(p, policy, http.MethodPost))
}

func requireOwner(p access.Principal, ownerID uuid.UUID) error {
	return decisionError(access.CheckOwner(p, ownerID))
}

func decisionError(d access.Decision) error {
	switch d {
	case access.Allow:
		return nil
	case access.DenyUnauthenticated:
		return ErrUnauthorized
	default:
		return ErrForbidden
	}
}
