package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/tiendafast/identity-service/internal/core/domain"
	"github.com/tiendafast/identity-service/internal/core/ports"
)

const bcryptCost = 12

// AccountService implements registration, password login, and self-service
// profile updates over the account store.
type AccountService struct {
	repo         ports.AccountRepository
	verification ports.VerificationService
	tokens       ports.TokenService
	log          zerolog.Logger
}

func NewAccountService(repo ports.AccountRepository, verification ports.VerificationService, tokens ports.TokenService, log zerolog.Logger) *AccountService {
	return &AccountService{repo: repo, verification: verification, tokens: tokens, log: log}
}

// Register creates an unverified account with a hashed password and kicks
// off email verification. Email delivery trouble never fails registration.
func (s *AccountService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	name := strings.TrimSpace(in.Name)
	email := domain.NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	if err := s.verification.Issue(ctx, created); err != nil {
		s.log.Warn().Err(err).Str("account_id", created.ID).Msg("verification issue failed after registration")
	}

	s.log.Info().Str("account_id", created.ID).Msg("account registered")
	return created, nil
}

// Login checks the password and mints a session token. The bcrypt compare
// is constant-time; an account without a password hash fails closed. An
// unknown email gets the same answer as a wrong password so responses do not
// reveal which addresses hold accounts.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, *domain.Account, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !verifyPassword(account, password) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return "", nil, err
	}

	return token, account, nil
}

// UpdateProfile applies a self-service update. Name and email are free;
// password changes re-hash; role changes are reserved to a SuperAdmin
// acting on itself, which still may not clear its own rank.
func (s *AccountService) UpdateProfile(ctx context.Context, caller *domain.Account, in ports.UpdateProfileInput) (*domain.Account, error) {
	var patch ports.ProfilePatch

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		patch.Name = &name
	}

	if in.Email != nil {
		email := domain.NormalizeEmail(*in.Email)
		if email == "" {
			return nil, domain.ErrInvalidInput
		}
		patch.Email = &email
	}

	if in.Password != nil {
		if *in.Password == "" {
			return nil, domain.ErrInvalidInput
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		h := string(hash)
		patch.PasswordHash = &h
	}

	if in.Role != nil {
		role := *in.Role
		if !role.Valid() {
			return nil, domain.ErrInvalidInput
		}
		switch {
		case caller.Role != domain.RoleSuperAdmin && role == domain.RoleSuperAdmin:
			return nil, domain.ErrEscalationDenied
		case caller.Role != domain.RoleSuperAdmin:
			// Only a SuperAdmin may touch its own rank at all.
			return nil, domain.ErrEscalationDenied
		case role != domain.RoleSuperAdmin:
			return nil, domain.ErrSelfDemotionDenied
		}
		patch.Role = &role
	}

	updated, err := s.repo.UpdateProfile(ctx, caller.ID, patch)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("account_id", caller.ID).Msg("profile updated")
	return updated, nil
}

// verifyPassword reports whether plaintext matches the stored hash. It
// returns false, never panics, when no hash is present.
func verifyPassword(account *domain.Account, plaintext string) bool {
	if !account.HasPassword() {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(plaintext)) == nil
}
