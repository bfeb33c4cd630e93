package ports

import (
	"context"

	"github.com/tiendafast/identity-service/internal/core/domain"
)

// AdminService exposes the governed role mutations. Every operation
// receives the fully resolved caller account (never just a token claim) so
// the anti-escalation rules evaluate against current state.
type AdminService interface {
	// SetAdminFlag toggles the admin rank on the target. SuperAdmin callers
	// only; the endpoint can never grant SuperAdmin.
	SetAdminFlag(ctx context.Context, caller *domain.Account, targetID string, makeAdmin, wantSuper bool) (*domain.Account, error)
	// SetRole assigns an explicit role to the target. Admin callers may
	// only assign plain User.
	SetRole(ctx context.Context, caller *domain.Account, targetID string, role domain.Role) (*domain.Account, error)
	// Delete removes the target account. Admin callers may only delete
	// plain Users.
	Delete(ctx context.Context, caller *domain.Account, targetID string) error
	List(ctx context.Context, limit, offset int64) ([]*domain.Account, error)
}
