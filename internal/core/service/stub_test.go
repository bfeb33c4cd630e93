package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tiendafast/identity-service/internal/core/domain"
	"github.com/tiendafast/identity-service/internal/core/ports"
)

// memAccountRepo is an in-memory ports.AccountRepository used across the
// service tests.
type memAccountRepo struct {
	accounts map[string]*domain.Account // keyed by id
	nextID   int
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{accounts: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *memAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	for _, existing := range r.accounts {
		if existing.Email == account.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	created := cloneAccount(account)
	created.ID = "acc-" + strconv.Itoa(r.nextID)
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now
	r.accounts[created.ID] = cloneAccount(created)
	return created, nil
}

func (r *memAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	if a, ok := r.accounts[id]; ok {
		return cloneAccount(a), nil
	}
	return nil, domain.ErrAccountNotFound
}

func (r *memAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *memAccountRepo) FindByFederatedID(_ context.Context, federatedID string) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.FederatedID == federatedID {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *memAccountRepo) List(_ context.Context, _, _ int64) ([]*domain.Account, error) {
	out := make([]*domain.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, cloneAccount(a))
	}
	return out, nil
}

func (r *memAccountRepo) FindByVerificationToken(_ context.Context, token string, now time.Time) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.VerificationToken == token && a.VerificationTokenExpiresAt.After(now) {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *memAccountRepo) FindByVerificationTokenPrefix(_ context.Context, prefix string, now time.Time) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.VerificationToken != "" && strings.HasPrefix(a.VerificationToken, prefix) && a.VerificationTokenExpiresAt.After(now) {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *memAccountRepo) SetVerificationToken(_ context.Context, id, token string, expiresAt time.Time) error {
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.VerificationToken = token
	a.VerificationTokenExpiresAt = expiresAt
	return nil
}

func (r *memAccountRepo) MarkVerified(_ context.Context, id string) error {
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.IsVerified = true
	a.VerificationToken = ""
	a.VerificationTokenExpiresAt = time.Time{}
	return nil
}

func (r *memAccountRepo) AttachFederatedID(_ context.Context, id, federatedID string) error {
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.FederatedID = federatedID
	a.IsVerified = true
	a.VerificationToken = ""
	a.VerificationTokenExpiresAt = time.Time{}
	return nil
}

func (r *memAccountRepo) UpdateProfile(_ context.Context, id string, patch ports.ProfilePatch) (*domain.Account, error) {
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if patch.Email != nil {
		for otherID, other := range r.accounts {
			if otherID != id && other.Email == *patch.Email {
				return nil, domain.ErrEmailTaken
			}
		}
		a.Email = *patch.Email
	}
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.PasswordHash != nil {
		a.PasswordHash = *patch.PasswordHash
	}
	if patch.Role != nil {
		a.Role = *patch.Role
	}
	return cloneAccount(a), nil
}

func (r *memAccountRepo) SetRole(_ context.Context, id string, role domain.Role) error {
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.Role = role
	return nil
}

func (r *memAccountRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.accounts, id)
	return nil
}

// seed inserts an account directly, bypassing uniqueness checks meant for
// the code under test.
func (r *memAccountRepo) seed(a *domain.Account) *domain.Account {
	r.nextID++
	created := cloneAccount(a)
	if created.ID == "" {
		created.ID = "acc-" + strconv.Itoa(r.nextID)
	}
	r.accounts[created.ID] = created
	return cloneAccount(created)
}

// memMailDispatcher records enqueued jobs instead of sending anything.
type memMailDispatcher struct {
	jobs []ports.MailJob
}

func (d *memMailDispatcher) Enqueue(job ports.MailJob) {
	d.jobs = append(d.jobs, job)
}

// stubTokens issues predictable tokens.
type stubTokens struct {
	issued []string
}

func (s *stubTokens) Issue(accountID string) (string, error) {
	s.issued = append(s.issued, accountID)
	return "token-for-" + accountID, nil
}

func (s *stubTokens) Validate(token string) (string, error) {
	id, ok := strings.CutPrefix(token, "token-for-")
	if !ok {
		return "", domain.ErrInvalidToken
	}
	return id, nil
}

// stubProvider returns a fixed identity or error.
type stubProvider struct {
	identity *ports.ProviderIdentity
	err      error
	audience string
}

func (p *stubProvider) Verify(_ context.Context, _, audience string) (*ports.ProviderIdentity, error) {
	p.audience = audience
	if p.err != nil {
		return nil, p.err
	}
	return p.identity, nil
}

type stubThrottle struct {
	allow bool
	err   error
}

func (t *stubThrottle) Allow(context.Context, string) (bool, error) {
	return t.allow, t.err
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
