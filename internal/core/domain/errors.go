package domain

import "errors"

// Validation and persistence.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmailTaken      = errors.New("email already registered")
	ErrAccountNotFound = errors.New("account not found")
)

// Credential login.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Authorization-layer denials. Never retried, always surfaced.
var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrForbidden          = errors.New("access forbidden")
	ErrSelfModification   = errors.New("own account cannot be modified through this operation")
	ErrProtectedAccount   = errors.New("account is protected from external modification")
	ErrEscalationDenied   = errors.New("requested privilege change exceeds caller rights")
	ErrSelfDemotionDenied = errors.New("superadmin rank cannot be removed from own account")
)

// Verification flow.
var (
	ErrAlreadyVerified       = errors.New("email already verified")
	ErrTokenFormat           = errors.New("malformed verification token")
	ErrTokenInvalidOrExpired = errors.New("verification token invalid or expired")
	ErrResendThrottled       = errors.New("verification email recently sent, try again later")
)

// Federated login.
var (
	ErrProviderUnconfigured      = errors.New("identity provider not configured")
	ErrProviderUnavailable       = errors.New("identity provider unavailable")
	ErrCredentialFormat          = errors.New("malformed provider credential")
	ErrInvalidProviderCredential = errors.New("provider rejected credential")
)

// Session tokens.
var ErrInvalidToken = errors.New("invalid session token")
