package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/tiendafast/identity-service/internal/core/domain"
	"github.com/tiendafast/identity-service/internal/core/ports"
)

func newVerificationService(repo *memAccountRepo, throttle ResendThrottle) (*VerificationService, *memMailDispatcher) {
	mail := &memMailDispatcher{}
	svc := NewVerificationService(repo, mail, throttle, testLogger())
	return svc, mail
}

func seedUnverified(repo *memAccountRepo, email string) *domain.Account {
	return repo.seed(&domain.Account{
		Name:         "Pending",
		Email:        email,
		PasswordHash: "hash",
		Role:         domain.RoleUser,
	})
}

func TestVerification_Issue_TokenShapeAndExpiry(t *testing.T) {
	repo := newMemAccountRepo()
	svc, mail := newVerificationService(repo, nil)
	account := seedUnverified(repo, "pending@example.com")

	before := time.Now().UTC()
	if err := svc.Issue(context.Background(), account); err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	stored, _ := repo.FindByID(context.Background(), account.ID)
	if len(stored.VerificationToken) != 64 {
		t.Fatalf("token length = %d, want 64", len(stored.VerificationToken))
	}
	for _, r := range stored.VerificationToken {
		if !('0' <= r && r <= '9' || 'a' <= r && r <= 'f') {
			t.Fatalf("token contains non-hex rune %q", r)
		}
	}
	expiry := stored.VerificationTokenExpiresAt
	if expiry.Before(before.Add(24*time.Hour-time.Minute)) || expiry.After(before.Add(24*time.Hour+time.Minute)) {
		t.Fatalf("expiry not ~24h out: %v", expiry)
	}
	if len(mail.jobs) != 1 || mail.jobs[0].Token != stored.VerificationToken {
		t.Fatalf("mail job missing or wrong token")
	}
}

func TestVerification_Issue_InvalidatesPriorToken(t *testing.T) {
	repo := newMemAccountRepo()
	svc, _ := newVerificationService(repo, nil)
	account := seedUnverified(repo, "pending@example.com")

	_ = svc.Issue(context.Background(), account)
	first, _ := repo.FindByID(context.Background(), account.ID)
	_ = svc.Issue(context.Background(), account)
	second, _ := repo.FindByID(context.Background(), account.ID)

	if first.VerificationToken == second.VerificationToken {
		t.Fatalf("re-issue must replace the token")
	}
	if _, err := svc.Consume(context.Background(), first.VerificationToken, ""); err != nil {
		// The stale token no longer matches; full-length fallback reports
		// already-verified success rather than an error.
		t.Fatalf("unexpected error for stale full-length token: %v", err)
	}
}

func TestVerification_Consume_ExactMatch(t *testing.T) {
	repo := newMemAccountRepo()
	svc, _ := newVerificationService(repo, nil)
	account := seedUnverified(repo, "pending@example.com")
	_ = svc.Issue(context.Background(), account)
	stored, _ := repo.FindByID(context.Background(), account.ID)

	outcome, err := svc.Consume(context.Background(), stored.VerificationToken, "")
	if err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	if outcome != ports.OutcomeVerified {
		t.Fatalf("outcome = %s, want verified", outcome)
	}

	after, _ := repo.FindByID(context.Background(), account.ID)
	if !after.IsVerified || after.VerificationToken != "" || !after.VerificationTokenExpiresAt.IsZero() {
		t.Fatalf("verification did not clear token fields: %+v", after)
	}
}

func TestVerification_Consume_Idempotent(t *testing.T) {
	repo := newMemAccountRepo()
	svc, _ := newVerificationService(repo, nil)
	account := seedUnverified(repo, "pending@example.com")
	_ = svc.Issue(context.Background(), account)
	stored, _ := repo.FindByID(context.Background(), account.ID)

	if outcome, err := svc.Consume(context.Background(), stored.VerificationToken, "pending@example.com"); err != nil || outcome != ports.OutcomeVerified {
		t.Fatalf("first consume: outcome=%v err=%v", outcome, err)
	}
	// Second click of the same link must succeed, not error.
	if outcome, err := svc.Consume(context.Background(), stored.VerificationToken, "pending@example.com"); err != nil || outcome != ports.OutcomeAlreadyVerified {
		t.Fatalf("second consume: outcome=%v err=%v", outcome, err)
	}
}

func TestVerification_Consume_PrefixMatch(t *testing.T) {
	repo := newMemAccountRepo()
	svc, _ := newVerificationService(repo, nil)
	account := seedUnverified(repo, "pending@example.com")
	_ = svc.Issue(context.Background(), account)
	stored, _ := repo.FindByID(context.Background(), account.ID)

	truncated := stored.VerificationToken[:40]
	outcome, err := svc.Consume(context.Background(), truncated, "")
	if err != nil {
		t.Fatalf("prefix consume failed: %v", err)
	}
	if outcome != ports.OutcomeVerified {
		t.Fatalf("outcome = %s, want verified", outcome)
	}
}

func TestVerification_Consume_ExpiredNeverMatches(t *testing.T) {
	repo := newMemAccountRepo()
	svc, _ := newVerificationService(repo, nil)
	account := seedUnverified(repo, "pending@example.com")
	_ = svc.Issue(context.Background(), account)
	stored, _ := repo.FindByID(context.Background(), account.ID)

	// Jump past expiry.
	svc.now = func() time.Time { return stored.VerificationTokenExpiresAt.Add(time.Second) }

	// Prefix of an expired token is a hard failure.
	if _, err := svc.Consume(context.Background(), stored.VerificationToken[:20], ""); err != domain.ErrTokenInvalidOrExpired {
		t.Fatalf("expired prefix: expected ErrTokenInvalidOrExpired, got %v", err)
	}
	// Full-length expired token falls into the lenient already-consumed
	// path; the account itself must remain unverified either way.
	if outcome, err := svc.Consume(context.Background(), stored.VerificationToken, ""); err != nil || outcome != ports.OutcomeAlreadyVerified {
		t.Fatalf("expired exact: outcome=%v err=%v", outcome, err)
	}
	after, _ := repo.FindByID(context.Background(), account.ID)
	if after.IsVerified {
		t.Fatalf("expired token must never flip verification state")
	}
}

func TestVerification_Consume_BadEscapeIsFormatError(t *testing.T) {
	repo := newMemAccountRepo()
	svc, _ := newVerificationService(repo, nil)

	if _, err := svc.Consume(context.Background(), "abc%zz", ""); err != domain.ErrTokenFormat {
		t.Fatalf("expected ErrTokenFormat, got %v", err)
	}
}

func TestVerification_Consume_UnknownShortTokenRejected(t *testing.T) {
	repo := newMemAccountRepo()
	svc, _ := newVerificationService(repo, nil)
	seedUnverified(repo, "pending@example.com")

	if _, err := svc.Consume(context.Background(), "deadbeef", ""); err != domain.ErrTokenInvalidOrExpired {
		t.Fatalf("expected ErrTokenInvalidOrExpired, got %v", err)
	}
}

func TestVerification_Consume_OverlongTokenRejected(t *testing.T) {
	repo := newMemAccountRepo()
	svc, _ := newVerificationService(repo, nil)

	long := strings.Repeat("a", 65)
	if _, err := svc.Consume(context.Background(), long, ""); err != domain.ErrTokenInvalidOrExpired {
		t.Fatalf("expected ErrTokenInvalidOrExpired, got %v", err)
	}
}

// A verified user re-clicking a link whose token picked up extra characters
// in transit still gets the idempotent already-verified answer.
func TestVerification_Consume_OverlongTokenVerifiedEmail(t *testing.T) {
	repo := newMemAccountRepo()
	svc, _ := newVerificationService(repo, nil)
	repo.seed(&domain.Account{Email: "done@example.com", IsVerified: true, PasswordHash: "x"})

	long := strings.Repeat("a", 65)
	outcome, err := svc.Consume(context.Background(), long, "done@example.com")
	if err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	if outcome != ports.OutcomeAlreadyVerified {
		t.Fatalf("outcome = %s, want already_verified", outcome)
	}
}

func TestVerification_Resend(t *testing.T) {
	repo := newMemAccountRepo()
	svc, mail := newVerificationService(repo, &stubThrottle{allow: true})
	seedUnverified(repo, "pending@example.com")

	if err := svc.Resend(context.Background(), "Pending@Example.com"); err != nil {
		t.Fatalf("resend failed: %v", err)
	}
	if len(mail.jobs) != 1 {
		t.Fatalf("expected one mail job, got %d", len(mail.jobs))
	}

	if err := svc.Resend(context.Background(), "ghost@example.com"); err != domain.ErrAccountNotFound {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	repo.seed(&domain.Account{Email: "done@example.com", IsVerified: true, PasswordHash: "x"})
	if err := svc.Resend(context.Background(), "done@example.com"); err != domain.ErrAlreadyVerified {
		t.Fatalf("expected ErrAlreadyVerified, got %v", err)
	}
}

func TestVerification_Resend_Throttled(t *testing.T) {
	repo := newMemAccountRepo()
	svc, mail := newVerificationService(repo, &stubThrottle{allow: false})
	seedUnverified(repo, "pending@example.com")

	if err := svc.Resend(context.Background(), "pending@example.com"); err != domain.ErrResendThrottled {
		t.Fatalf("expected ErrResendThrottled, got %v", err)
	}
	if len(mail.jobs) != 0 {
		t.Fatalf("throttled resend must not enqueue mail")
	}
}

func TestVerification_Resend_ThrottleErrorFailsOpen(t *testing.T) {
	repo := newMemAccountRepo()
	svc, mail := newVerificationService(repo, &stubThrottle{err: context.DeadlineExceeded})
	seedUnverified(repo, "pending@example.com")

	if err := svc.Resend(context.Background(), "pending@example.com"); err != nil {
		t.Fatalf("throttle error should not block resend: %v", err)
	}
	if len(mail.jobs) != 1 {
		t.Fatalf("expected resend to proceed despite throttle error")
	}
}
