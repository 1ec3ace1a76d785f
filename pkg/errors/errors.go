package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors
var (
	ErrInvalidLoanTerms    = errors.New("invalid loan terms")
	ErrCalculationNotFound = errors.New("calculation not found")
	ErrInvalidRequest      = errors.New("invalid request")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeInvalidLoanTerms    = "INVALID_LOAN_TERMS"
	ErrCodeInvalidRequest      = "INVALID_REQUEST"
	ErrCodeCalculationNotFound = "CALCULATION_NOT_FOUND"
	ErrCodeDatabaseError       = "DATABASE_ERROR"
	ErrCodeCacheError          = "CACHE_ERROR"
)

// Code returns the business error code carried by err, or "" when err is not
// a BusinessError.
func Code(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// StatusCode maps the business error code carried by err to an HTTP status.
// Errors without a known code are internal errors.
func StatusCode(err error) int {
	switch Code(err) {
	case ErrCodeInvalidLoanTerms, ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeCalculationNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func WrapInvalidLoanTerms(field, reason string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidLoanTerms,
		fmt.Sprintf("%s %s", field, reason),
		ErrInvalidLoanTerms,
	)
}

func WrapInvalidRequest(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidRequest,
		"request validation failed",
		errors.Join(ErrInvalidRequest, err),
	)
}

func WrapCalculationNotFound(id string) *BusinessError {
	return NewBusinessError(
		ErrCodeCalculationNotFound,
		fmt.Sprintf("Calculation with ID %s not found", id),
		ErrCalculationNotFound,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}
