package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vpnservice/access-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Reason is
// populated only for access denials so clients can distinguish "buy a plan"
// from "account disabled".
type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Malformed input is deterministic and safe to echo back.
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, errorResponse{Error: ve.Error()}
	}

	// Denials are expected outcomes, not faults; the reason code travels
	// with them.
	var ade *domain.AccessDeniedError
	if errors.As(err, &ade) {
		return http.StatusForbidden, errorResponse{Error: "access denied", Reason: string(ade.Reason)}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrPlanNotFound):
		return http.StatusNotFound, errorResponse{Error: "plan not found"}
	case errors.Is(err, domain.ErrPlanUnavailable):
		return http.StatusUnprocessableEntity, errorResponse{Error: "plan unavailable"}
	case errors.Is(err, domain.ErrEntitlementNotFound):
		return http.StatusNotFound, errorResponse{Error: "entitlement not found"}
	case errors.Is(err, domain.ErrCredentialNotFound):
		return http.StatusNotFound, errorResponse{Error: "credential not found"}
	case errors.Is(err, domain.ErrServerNotFound):
		return http.StatusNotFound, errorResponse{Error: "server not found"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrAccountDisabled):
		return http.StatusForbidden, errorResponse{Error: "account disabled", Reason: string(domain.DenyAccountDisabled)}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Error: "user not found"}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, errorResponse{Error: "user already exists"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
