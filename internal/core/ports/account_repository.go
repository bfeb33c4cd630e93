package ports

import (
	"context"
	"time"

	"github.com/tiendafast/identity-service/internal/core/domain"
)

// ProfilePatch carries the mutable profile fields for a partial update.
// Nil pointers mean "leave unchanged".
type ProfilePatch struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Role         *domain.Role
}

// AccountRepository defines the persistence contract for accounts.
// Every mutation is atomic at single-document granularity; concurrent
// writers resolve last-write-wins.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	// FindByEmail expects an already-normalized address.
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByFederatedID(ctx context.Context, federatedID string) (*domain.Account, error)
	List(ctx context.Context, limit, offset int64) ([]*domain.Account, error)

	// FindByVerificationToken matches the full 64-character token against
	// unexpired tokens only.
	FindByVerificationToken(ctx context.Context, token string, now time.Time) (*domain.Account, error)
	// FindByVerificationTokenPrefix matches an unexpired token by prefix.
	FindByVerificationTokenPrefix(ctx context.Context, prefix string, now time.Time) (*domain.Account, error)

	// SetVerificationToken replaces the token pair, invalidating any prior token.
	SetVerificationToken(ctx context.Context, id, token string, expiresAt time.Time) error
	// MarkVerified sets is_verified and clears both token fields in one update.
	MarkVerified(ctx context.Context, id string) error
	// AttachFederatedID links a provider subject and marks the account verified.
	AttachFederatedID(ctx context.Context, id, federatedID string) error

	UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (*domain.Account, error)
	SetRole(ctx context.Context, id string, role domain.Role) error
	Delete(ctx context.Context, id string) error
}
