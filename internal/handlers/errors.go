package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/exchange_kiosk_app/internal/apperrors"
	"github.com/SscSPs/exchange_kiosk_app/internal/middleware"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrInsufficientFunds),
		errors.Is(err, apperrors.ErrNoActiveShift),
		errors.Is(err, apperrors.ErrBaseCurrencyMissing):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.As(err, &appErr):
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// respondError writes err as JSON. Internal failures are logged and hidden behind failMsg.
func respondError(c *gin.Context, err error, failMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(failMsg, slog.String("error", err.Error()))
		c.JSON(status, ErrorResponse{Error: failMsg})
		return
	}

	logger.Warn(failMsg, slog.Int("status", status), slog.String("error", err.Error()))
	resp := ErrorResponse{Error: err.Error()}
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		resp.Field = validationErr.Field
	}
	c.JSON(status, resp)
}

// respondBindError answers a request that failed binding or tag validation.
func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request: " + err.Error()})
}

// currentIdentity returns the caller or answers 401.
func currentIdentity(c *gin.Context) (middleware.Identity, bool) {
	identity, ok := middleware.GetIdentityFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User identity not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	}
	return identity, ok
}
