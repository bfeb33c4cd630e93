package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/tiendafast/identity-service/internal/api/middleware"
	"github.com/tiendafast/identity-service/internal/core/domain"
)

// callerAccount extracts the account resolved by the Auth middleware.
// A missing account means the route was wired without Auth; treat it as an
// unauthenticated request rather than panicking.
func callerAccount(c echo.Context) (*domain.Account, error) {
	account, _ := c.Get(middleware.AccountKey).(*domain.Account)
	if account == nil {
		return nil, domain.ErrUnauthenticated
	}
	return account, nil
}
