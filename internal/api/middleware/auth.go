package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tiendafast/identity-service/internal/api/metrics"
	"github.com/tiendafast/identity-service/internal/core/domain"
)

// AccountKey is the context key under which Auth stores the resolved account.
const AccountKey = "account"

// TokenValidator is the slice of the session issuer the middleware needs.
type TokenValidator interface {
	Validate(token string) (string, error)
}

// AccountResolver is the slice of the account store the middleware needs.
type AccountResolver interface {
	FindByID(ctx context.Context, id string) (*domain.Account, error)
}

// Auth validates the bearer token and re-resolves the account from the
// store on every request: the token carries only an identifier, so role
// changes and deletions take effect on the next request, not at next login.
// Unverified accounts are rejected before reaching any handler.
func Auth(tokens TokenValidator, accounts AccountResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.AuthzDenialsTotal.WithLabelValues("unauthenticated").Inc()
				return domain.ErrUnauthenticated
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.AuthzDenialsTotal.WithLabelValues("unauthenticated").Inc()
				return domain.ErrUnauthenticated
			}

			accountID, err := tokens.Validate(parts[1])
			if err != nil {
				metrics.AuthzDenialsTotal.WithLabelValues("unauthenticated").Inc()
				return domain.ErrUnauthenticated
			}

			account, err := accounts.FindByID(c.Request().Context(), accountID)
			if err != nil {
				metrics.AuthzDenialsTotal.WithLabelValues("unauthenticated").Inc()
				return domain.ErrUnauthenticated
			}

			if !account.IsVerified {
				metrics.AuthzDenialsTotal.WithLabelValues("unverified").Inc()
				return domain.ErrEmailNotVerified
			}

			c.Set(AccountKey, account)
			return next(c)
		}
	}
}
