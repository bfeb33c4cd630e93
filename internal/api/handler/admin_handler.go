package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tiendafast/identity-service/internal/core/domain"
	"github.com/tiendafast/identity-service/internal/core/ports"
)

// AdminHandler serves the governed role-mutation surface.
type AdminHandler struct {
	admin ports.AdminService
}

func NewAdminHandler(admin ports.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

type setAdminRequest struct {
	IsAdmin      bool `json:"is_admin"`
	IsSuperAdmin bool `json:"is_super_admin"`
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// List returns a page of accounts.
//
// @Summary      List accounts
// @Tags         admin
// @Produce      json
// @Param        limit   query     int  false  "Page size"
// @Param        offset  query     int  false  "Page offset"
// @Success      200     {array}   domain.Account
// @Failure      403     {object}  map[string]string
// @Router       /admin/accounts [get]
func (h *AdminHandler) List(c echo.Context) error {
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	offset, _ := strconv.ParseInt(c.QueryParam("offset"), 10, 64)

	accounts, err := h.admin.List(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accounts)
}

// SetAdminFlag toggles admin rank on the target account. SuperAdmin only;
// the endpoint can never grant SuperAdmin.
//
// @Summary      Toggle admin rank
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string           true  "Target account id"
// @Param        body  body      setAdminRequest  true  "Desired flags"
// @Success      200   {object}  domain.Account
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /admin/accounts/{id}/admin [put]
func (h *AdminHandler) SetAdminFlag(c echo.Context) error {
	caller, err := callerAccount(c)
	if err != nil {
		return err
	}

	var req setAdminRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.admin.SetAdminFlag(c.Request().Context(), caller, c.Param("id"), req.IsAdmin, req.IsSuperAdmin)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// SetRole assigns an explicit role to the target account.
//
// @Summary      Assign role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Target account id"
// @Param        body  body      setRoleRequest  true  "New role"
// @Success      200   {object}  domain.Account
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /admin/accounts/{id}/role [put]
func (h *AdminHandler) SetRole(c echo.Context) error {
	caller, err := callerAccount(c)
	if err != nil {
		return err
	}

	var req setRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return domain.ErrInvalidInput
	}

	updated, err := h.admin.SetRole(c.Request().Context(), caller, c.Param("id"), role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes the target account.
//
// @Summary      Delete account
// @Tags         admin
// @Produce      json
// @Param        id  path  string  true  "Target account id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/accounts/{id} [delete]
func (h *AdminHandler) Delete(c echo.Context) error {
	caller, err := callerAccount(c)
	if err != nil {
		return err
	}

	if err := h.admin.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
