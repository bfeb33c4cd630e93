package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tiendafast/identity-service/internal/api/metrics"
	"github.com/tiendafast/identity-service/internal/core/domain"
	"github.com/tiendafast/identity-service/internal/core/ports"
)

type AuthHandler struct {
	accounts     ports.AccountService
	verification ports.VerificationService
	federated    ports.FederatedService
}

func NewAuthHandler(accounts ports.AccountService, verification ports.VerificationService, federated ports.FederatedService) *AuthHandler {
	return &AuthHandler{accounts: accounts, verification: verification, federated: federated}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type resendRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type federatedLoginRequest struct {
	Credential string `json:"credential" validate:"required"`
}

type authResponse struct {
	Token   string          `json:"token,omitempty"`
	Account *domain.Account `json:"account,omitempty"`
}

type verifyResponse struct {
	Status string `json:"status"`
}

// Register creates a new unverified account and emails a verification link.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.accounts.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("local").Inc()
	return c.JSON(http.StatusCreated, authResponse{Account: account})
}

// Login authenticates with email and password and returns a bearer token.
//
// @Summary      Password login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, account, err := h.accounts.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("password", "failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("password", "success").Inc()
	return c.JSON(http.StatusOK, authResponse{Token: token, Account: account})
}

// Verify consumes a verification link.
//
// The token is pulled from the raw query string, not the decoded form:
// the verification engine owns URL-decoding so that a malformed escape
// sequence surfaces as a format error instead of being silently mangled.
//
// @Summary      Verify email address
// @Tags         auth
// @Produce      json
// @Param        token  query     string  true   "Verification token"
// @Param        email  query     string  false  "Account email"
// @Success      200    {object}  verifyResponse
// @Failure      400    {object}  map[string]string
// @Failure      422    {object}  map[string]string
// @Router       /auth/verify [get]
func (h *AuthHandler) Verify(c echo.Context) error {
	rawToken := rawQueryValue(c.Request().URL.RawQuery, "token")
	if rawToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "token is required")
	}

	outcome, err := h.verification.Consume(c.Request().Context(), rawToken, c.QueryParam("email"))
	if err != nil {
		metrics.VerificationsTotal.WithLabelValues("rejected").Inc()
		return err
	}

	metrics.VerificationsTotal.WithLabelValues(string(outcome)).Inc()
	return c.JSON(http.StatusOK, verifyResponse{Status: string(outcome)})
}

// Resend re-issues the verification email for an unverified account.
//
// @Summary      Resend verification email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resendRequest  true  "Account email"
// @Success      202   {object}  verifyResponse
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/resend [post]
func (h *AuthHandler) Resend(c echo.Context) error {
	var req resendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.verification.Resend(c.Request().Context(), req.Email); err != nil {
		return err
	}

	return c.JSON(http.StatusAccepted, verifyResponse{Status: "sent"})
}

// FederatedLogin exchanges an identity-provider credential for a session.
//
// @Summary      Federated login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      federatedLoginRequest  true  "Provider credential"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Failure      501   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /auth/google [post]
func (h *AuthHandler) FederatedLogin(c echo.Context) error {
	var req federatedLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, account, err := h.federated.Login(c.Request().Context(), req.Credential)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("federated", "failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("federated", "success").Inc()
	return c.JSON(http.StatusOK, authResponse{Token: token, Account: account})
}

// rawQueryValue extracts a single still-encoded value from a raw query
// string.
func rawQueryValue(rawQuery, key string) string {
	for _, pair := range strings.Split(rawQuery, "&") {
		if v, ok := strings.CutPrefix(pair, key+"="); ok {
			return v
		}
	}
	return ""
}
