package domain

import (
	"strings"
	"time"
)

// Role is the ordered privilege level of an account.
// Rank comparisons replace pairwise flag checks: User < Admin < SuperAdmin.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// Rank returns the numeric position of the role in the hierarchy.
// Unknown roles rank below User.
func (r Role) Rank() int {
	switch r {
	case RoleUser:
		return 1
	case RoleAdmin:
		return 2
	case RoleSuperAdmin:
		return 3
	default:
		return 0
	}
}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin || r == RoleSuperAdmin
}

// AtLeast reports whether r carries at least the privileges of min.
func (r Role) AtLeast(min Role) bool {
	return r.Rank() >= min.Rank()
}

// ParseRole maps a request string to a Role, case-insensitively.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

// Account models a registered identity: credentials, verification state,
// and privilege level. PasswordHash is empty only for federated accounts
// that never set a local password; an unverified account always carries one
// so local login stays possible before the email is confirmed.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsVerified   bool      `json:"is_verified"`
	Role         Role      `json:"role"`
	FederatedID  string    `json:"-"`

	// VerificationToken and VerificationTokenExpiresAt are either both set
	// or both cleared; they exist only while the account is unverified.
	VerificationToken          string    `json:"-"`
	VerificationTokenExpiresAt time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasPassword reports whether a local password has ever been set.
func (a *Account) HasPassword() bool {
	return a.PasswordHash != ""
}

// IsFederated reports whether the account is linked to an external
// identity provider.
func (a *Account) IsFederated() bool {
	return a.FederatedID != ""
}

// HasLiveToken reports whether a verification token exists and has not
// expired at the given instant.
func (a *Account) HasLiveToken(now time.Time) bool {
	return a.VerificationToken != "" && a.VerificationTokenExpiresAt.After(now)
}

// NormalizeEmail canonicalises an email address for storage and lookup:
// trimmed and lower-cased. Uniqueness is enforced on this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
