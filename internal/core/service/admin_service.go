package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tiendafast/identity-service/internal/core/domain"
	"github.com/tiendafast/identity-service/internal/core/ports"
)

// AdminService enforces the role-hierarchy mutation rules. Route middleware
// already guarantees the caller's minimum rank; the checks here cover the
// relationship between caller and target, which middleware cannot see.
type AdminService struct {
	repo ports.AccountRepository
	log  zerolog.Logger
}

func NewAdminService(repo ports.AccountRepository, log zerolog.Logger) *AdminService {
	return &AdminService{repo: repo, log: log}
}

// guardTarget applies the two rules shared by every governed mutation:
// never your own account, never a SuperAdmin's.
func (s *AdminService) guardTarget(ctx context.Context, caller *domain.Account, targetID string) (*domain.Account, error) {
	if targetID == caller.ID {
		return nil, domain.ErrSelfModification
	}
	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.Role == domain.RoleSuperAdmin {
		return nil, domain.ErrProtectedAccount
	}
	return target, nil
}

// SetAdminFlag toggles admin rank on the target. This endpoint may never
// grant SuperAdmin, even to a SuperAdmin caller.
func (s *AdminService) SetAdminFlag(ctx context.Context, caller *domain.Account, targetID string, makeAdmin, wantSuper bool) (*domain.Account, error) {
	if caller.Role != domain.RoleSuperAdmin {
		return nil, domain.ErrForbidden
	}

	// Target guards run before the escalation check so a request violating
	// several rules reports the caller/target one first.
	target, err := s.guardTarget(ctx, caller, targetID)
	if err != nil {
		return nil, err
	}
	if wantSuper {
		return nil, domain.ErrEscalationDenied
	}

	role := domain.RoleUser
	if makeAdmin {
		role = domain.RoleAdmin
	}
	if err := s.repo.SetRole(ctx, target.ID, role); err != nil {
		return nil, err
	}
	target.Role = role

	s.log.Info().Str("caller_id", caller.ID).Str("target_id", target.ID).Str("role", string(role)).Msg("admin flag changed")
	return target, nil
}

// SetRole assigns an explicit role. An Admin caller may only assign plain
// User; anything higher is an escalation attempt.
func (s *AdminService) SetRole(ctx context.Context, caller *domain.Account, targetID string, role domain.Role) (*domain.Account, error) {
	if !caller.Role.AtLeast(domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidInput
	}

	target, err := s.guardTarget(ctx, caller, targetID)
	if err != nil {
		return nil, err
	}
	if caller.Role != domain.RoleSuperAdmin && role != domain.RoleUser {
		return nil, domain.ErrEscalationDenied
	}

	if err := s.repo.SetRole(ctx, target.ID, role); err != nil {
		return nil, err
	}
	target.Role = role

	s.log.Info().Str("caller_id", caller.ID).Str("target_id", target.ID).Str("role", string(role)).Msg("role changed")
	return target, nil
}

// Delete removes the target account. Admins may only delete plain Users.
func (s *AdminService) Delete(ctx context.Context, caller *domain.Account, targetID string) error {
	if !caller.Role.AtLeast(domain.RoleAdmin) {
		return domain.ErrForbidden
	}

	target, err := s.guardTarget(ctx, caller, targetID)
	if err != nil {
		return err
	}
	if caller.Role != domain.RoleSuperAdmin && target.Role.AtLeast(domain.RoleAdmin) {
		return domain.ErrEscalationDenied
	}

	if err := s.repo.Delete(ctx, target.ID); err != nil {
		return err
	}

	s.log.Info().Str("caller_id", caller.ID).Str("target_id", target.ID).Msg("account deleted")
	return nil
}

func (s *AdminService) List(ctx context.Context, limit, offset int64) ([]*domain.Account, error) {
	return s.repo.List(ctx, limit, offset)
}
