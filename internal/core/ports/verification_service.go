package ports

import (
	"context"

	"github.com/tiendafast/identity-service/internal/core/domain"
)

// VerifyOutcome distinguishes a first-time verification from an idempotent
// re-verification of an already confirmed address.
type VerifyOutcome string

const (
	OutcomeVerified        VerifyOutcome = "verified"
	OutcomeAlreadyVerified VerifyOutcome = "already_verified"
)

// VerificationService drives the email-verification token lifecycle.
type VerificationService interface {
	// Issue generates a fresh token on the account and dispatches the
	// verification email. Any prior token is invalidated.
	Issue(ctx context.Context, account *domain.Account) error
	// Resend re-issues the token for an unverified account.
	Resend(ctx context.Context, email string) error
	// Consume redeems a raw (still URL-encoded) token from a verification
	// link. The optional email lets an already-verified account be
	// recognised when its token is long gone.
	Consume(ctx context.Context, rawToken, email string) (VerifyOutcome, error)
}
