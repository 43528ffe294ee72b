package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the request raced with another write and lost.
var ErrConflict = errors.New("conflicting concurrent update")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller is authenticated but lacks the required role.
var ErrForbidden = errors.New("forbidden")

var (
	// ErrNoActiveShift is returned when no shift is open or the open shift has no cashier.
	ErrNoActiveShift = errors.New("no active shift or no cashier assigned to the active shift")

	// ErrBaseCurrencyMissing is returned when the settlement currency record does not exist.
	ErrBaseCurrencyMissing = errors.New("base currency not found")

	// ErrInsufficientFunds is the sentinel matched by InsufficientFundsError.
	ErrInsufficientFunds = errors.New("insufficient funds")

	ErrUserNotFound     = fmt.Errorf("user: %w", ErrNotFound)
	ErrCurrencyNotFound = fmt.Errorf("currency: %w", ErrNotFound)
)

// InsufficientFundsError reports which currency balance could not cover a debit.
type InsufficientFundsError struct {
	Currency  string
	Available decimal.Decimal
	Required  decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient %s balance: available %s, required %s",
		e.Currency, e.Available.StringFixed(2), e.Required.StringFixed(2))
}

// Is lets errors.Is(err, ErrInsufficientFunds) match.
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// NewInsufficientFundsError builds an InsufficientFundsError.
func NewInsufficientFundsError(currency string, available, required decimal.Decimal) error {
	return &InsufficientFundsError{Currency: currency, Available: available, Required: required}
}

// ValidationError names the request field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// AppError carries an HTTP status alongside an infrastructure failure.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with a status code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewInternalServerError builds a 500 AppError without an underlying cause.
func NewInternalServerError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, message, nil)
}
