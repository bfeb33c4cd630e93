package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/tiendafast/identity-service/internal/api/metrics"
	"github.com/tiendafast/identity-service/internal/core/domain"
)

// RequireRole enforces a minimum rank on the account resolved by Auth.
// Rank comparison makes "admin or above" a single check instead of a
// flag-pair matrix.
func RequireRole(min domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account, _ := c.Get(AccountKey).(*domain.Account)
			if account == nil {
				metrics.AuthzDenialsTotal.WithLabelValues("unauthenticated").Inc()
				return domain.ErrUnauthenticated
			}
			if !account.Role.AtLeast(min) {
				metrics.AuthzDenialsTotal.WithLabelValues("forbidden").Inc()
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

// RequireAdmin gates routes to Admin and SuperAdmin callers.
func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole(domain.RoleAdmin)
}

// RequireSuperAdmin gates routes to SuperAdmin callers only.
func RequireSuperAdmin() echo.MiddlewareFunc {
	return RequireRole(domain.RoleSuperAdmin)
}
