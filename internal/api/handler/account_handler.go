package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tiendafast/identity-service/internal/core/domain"
	"github.com/tiendafast/identity-service/internal/core/ports"
)

// AccountHandler serves the self-service profile surface.
type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type updateProfileRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8"`
	Role     *string `json:"role,omitempty"`
}

// Me returns the caller's own account.
//
// @Summary      Current account
// @Tags         account
// @Produce      json
// @Success      200  {object}  domain.Account
// @Failure      401  {object}  map[string]string
// @Router       /me [get]
func (h *AccountHandler) Me(c echo.Context) error {
	account, err := callerAccount(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// Update applies a self-service profile update. Role changes are reserved
// to a SuperAdmin acting on itself.
//
// @Summary      Update own profile
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  domain.Account
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /me [put]
func (h *AccountHandler) Update(c echo.Context) error {
	account, err := callerAccount(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in := ports.UpdateProfileInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
	if req.Role != nil {
		role, ok := domain.ParseRole(*req.Role)
		if !ok {
			return domain.ErrInvalidInput
		}
		in.Role = &role
	}

	updated, err := h.accounts.UpdateProfile(c.Request().Context(), account, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}
