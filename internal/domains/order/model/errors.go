package model

import "errors"

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeOrderNotFound     = "ORD001"
	ErrCodeCartEmpty         = "ORD002"
	ErrCodeOrderCannotCancel = "ORD003"
	ErrCodeInvalidTransition = "ORD004"
	ErrCodeUnauthorized      = "ORD005"
	ErrCodeInvalidStatus     = "ORD006"
	ErrCodeMovieUnavailable  = "ORD007"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrCartEmpty covers both a literally empty cart and a cart whose
	// every movie the user already owns.
	ErrCartEmpty         = errors.New("cart is empty")
	ErrOrderCannotCancel = errors.New("order cannot be cancelled")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrUnauthorized      = errors.New("unauthorized access")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrMovieUnavailable  = errors.New("movie no longer available")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type OrderError struct {
	Code    string
	Message string
	Err     error
}

func (e *OrderError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *OrderError) Unwrap() error {
	return e.Err
}

func NewOrderError(code, message string, err error) *OrderError {
	return &OrderError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
