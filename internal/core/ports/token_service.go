package ports

// TokenService mints and validates signed bearer tokens. Tokens carry only
// the account identifier; role and verification state are re-resolved from
// the store on every request so changes take effect immediately.
type TokenService interface {
	Issue(accountID string) (string, error)
	// Validate returns the embedded account identifier, or
	// domain.ErrInvalidToken on any signature, expiry, or structural mismatch.
	Validate(token string) (string, error)
}
