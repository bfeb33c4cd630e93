package ports

import (
	"context"

	"github.com/tiendafast/identity-service/internal/core/domain"
)

// FederatedService exchanges an external identity-provider credential for a
// local session, creating or linking the account as needed.
type FederatedService interface {
	Login(ctx context.Context, credential string) (string, *domain.Account, error)
}
