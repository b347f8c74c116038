package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

type ErrorCode string

const (
	ErrCodeNotFound            ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized        ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden           ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest          ErrorCode = "BAD_REQUEST"
	ErrCodeConflict            ErrorCode = "CONFLICT"
	ErrCodeInternal            ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation          ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError       ErrorCode = "DATABASE_ERROR"
	ErrCodeInsufficientBalance ErrorCode = "INSUFFICIENT_BALANCE"
	ErrCodeBelowMinimum        ErrorCode = "BELOW_MINIMUM"
	ErrCodeUnverifiedAccount   ErrorCode = "UNVERIFIED_ACCOUNT"
	ErrCodeOwnership           ErrorCode = "OWNERSHIP_ERROR"
	ErrCodeStateConflict       ErrorCode = "STATE_CONFLICT"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden, ErrCodeOwnership:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation, ErrCodeBelowMinimum:
		return http.StatusBadRequest
	case ErrCodeConflict, ErrCodeStateConflict:
		return http.StatusConflict
	case ErrCodeInsufficientBalance, ErrCodeUnverifiedAccount:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// InsufficientBalance builds the error surfaced when a withdrawal exceeds the
// available balance; the actually available amount is part of the message.
func InsufficientBalance(available decimal.Decimal) *AppError {
	return New(ErrCodeInsufficientBalance, fmt.Sprintf("insufficient balance: available %s", available.StringFixed(2)))
}

// BelowMinimum builds the error surfaced when a withdrawal is below the
// configured minimum amount.
func BelowMinimum(minimum decimal.Decimal) *AppError {
	return New(ErrCodeBelowMinimum, fmt.Sprintf("amount is below the minimum withdrawal of %s", minimum.StringFixed(2)))
}

func Code(err error) (ErrorCode, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}

func hasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

func IsNotFound(err error) bool      { return hasCode(err, ErrCodeNotFound) }
func IsForbidden(err error) bool     { return hasCode(err, ErrCodeForbidden) }
func IsValidation(err error) bool    { return hasCode(err, ErrCodeValidation) }
func IsStateConflict(err error) bool { return hasCode(err, ErrCodeStateConflict) }

var (
	ErrTransactionNotFound = New(ErrCodeNotFound, "transaction not found")
	ErrWithdrawalNotFound  = New(ErrCodeNotFound, "withdrawal not found")
	ErrBankAccountNotFound = New(ErrCodeNotFound, "bank account not found")
	ErrUserNotFound        = New(ErrCodeNotFound, "user not found")
	ErrSettingNotFound     = New(ErrCodeNotFound, "setting not found")
	ErrUnauthorized        = New(ErrCodeUnauthorized, "authorization required")
	ErrForbidden           = New(ErrCodeForbidden, "insufficient permissions")
	ErrInvalidCredentials  = New(ErrCodeUnauthorized, "invalid credentials")

	ErrUnverifiedAccount = New(ErrCodeUnverifiedAccount, "bank account is awaiting verification")
	ErrNotAccountOwner   = New(ErrCodeOwnership, "bank account does not belong to the requester")
	ErrStateConflict     = New(ErrCodeStateConflict, "withdrawal is no longer in the expected state")
)
