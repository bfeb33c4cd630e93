package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tiendafast/identity-service/internal/core/domain"
	"github.com/tiendafast/identity-service/internal/core/ports"
)

// Provider ID tokens are base64 JWT segments; anything shorter than this is
// structurally not a credential.
const minCredentialLength = 32

// FederatedService exchanges a provider-issued credential for a local
// session. The provider client id may be absent at startup; configuration
// is re-checked on every call rather than assumed once.
type FederatedService struct {
	repo     ports.AccountRepository
	provider ports.IdentityProvider
	tokens   ports.TokenService
	clientID string
	log      zerolog.Logger
}

func NewFederatedService(repo ports.AccountRepository, provider ports.IdentityProvider, tokens ports.TokenService, clientID string, log zerolog.Logger) *FederatedService {
	return &FederatedService{repo: repo, provider: provider, tokens: tokens, clientID: clientID, log: log}
}

func (s *FederatedService) configured() bool {
	return s.clientID != "" && s.provider != nil
}

// Login verifies the credential with the provider and resolves it to a
// local account, creating or linking as needed. Federated accounts never
// need password verification; the flow always ends with a session token.
func (s *FederatedService) Login(ctx context.Context, credential string) (string, *domain.Account, error) {
	if !s.configured() {
		return "", nil, domain.ErrProviderUnconfigured
	}

	credential = strings.TrimSpace(credential)
	if len(credential) < minCredentialLength {
		return "", nil, domain.ErrCredentialFormat
	}

	identity, err := s.provider.Verify(ctx, credential, s.clientID)
	if err != nil {
		return "", nil, err
	}
	if identity.Email == "" || identity.Name == "" {
		return "", nil, domain.ErrInvalidProviderCredential
	}

	account, err := s.resolveAccount(ctx, identity)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return "", nil, err
	}

	return token, account, nil
}

func (s *FederatedService) resolveAccount(ctx context.Context, identity *ports.ProviderIdentity) (*domain.Account, error) {
	email := domain.NormalizeEmail(identity.Email)

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == domain.ErrAccountNotFound:
		account := &domain.Account{
			Name:        strings.TrimSpace(identity.Name),
			Email:       email,
			IsVerified:  true,
			Role:        domain.RoleUser,
			FederatedID: identity.SubjectID,
		}
		created, err := s.repo.Create(ctx, account)
		if err != nil {
			return nil, err
		}
		s.log.Info().Str("account_id", created.ID).Msg("federated account created")
		return created, nil

	case err != nil:
		return nil, err
	}

	if existing.FederatedID == "" {
		// Account linking: the provider proved control of the address, so
		// the link also settles any pending email verification.
		if err := s.repo.AttachFederatedID(ctx, existing.ID, identity.SubjectID); err != nil {
			return nil, err
		}
		existing.FederatedID = identity.SubjectID
		existing.IsVerified = true
		existing.VerificationToken = ""
		s.log.Info().Str("account_id", existing.ID).Msg("federated identity linked")
		return existing, nil
	}

	if existing.FederatedID != identity.SubjectID {
		s.log.Warn().Str("account_id", existing.ID).Msg("federated subject mismatch for email")
		return nil, domain.ErrInvalidProviderCredential
	}

	return existing, nil
}
