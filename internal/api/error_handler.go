package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tiendafast/identity-service/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking storage details.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
//
// Password hashes and raw verification tokens never appear in a response.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrTokenFormat),
		errors.Is(err, domain.ErrCredentialFormat):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrInvalidProviderCredential):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrEmailNotVerified),
		errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrSelfModification),
		errors.Is(err, domain.ErrProtectedAccount),
		errors.Is(err, domain.ErrEscalationDenied),
		errors.Is(err, domain.ErrSelfDemotionDenied):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrAlreadyVerified):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrTokenInvalidOrExpired):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrResendThrottled):
		return http.StatusTooManyRequests, err.Error()
	case errors.Is(err, domain.ErrProviderUnconfigured):
		return http.StatusNotImplemented, err.Error()
	case errors.Is(err, domain.ErrProviderUnavailable):
		return http.StatusBadGateway, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
