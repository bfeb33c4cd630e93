package ports

import (
	"context"

	"github.com/tiendafast/identity-service/internal/core/domain"
)

// RegisterInput is the payload for local account registration.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AccountService implements the credential store operations: registration,
// password login, and self-service profile updates.
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Account, error)
	// Login verifies the password and issues a session token. Unverified
	// accounts may log in; the authorization guard blocks them per request.
	Login(ctx context.Context, email, password string) (string, *domain.Account, error)
	// UpdateProfile applies a self-service update on the caller's own account.
	UpdateProfile(ctx context.Context, caller *domain.Account, in UpdateProfileInput) (*domain.Account, error)
}

// UpdateProfileInput carries the self-service update request. Nil means
// "leave unchanged". Role changes are permitted only to a SuperAdmin acting
// on itself, and never downward past its own rank.
type UpdateProfileInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *domain.Role
}
