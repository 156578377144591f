package model

import "errors"

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeAlreadyInCart = "CRT001"
	ErrCodeNotInCart     = "CRT002"
	ErrCodeMovieNotFound = "CRT003"
	ErrCodeCartNotFound  = "CRT004"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrAlreadyInCart = errors.New("movie already in cart")
	ErrNotInCart     = errors.New("movie not in cart")
	ErrMovieNotFound = errors.New("movie not found")
	ErrCartNotFound  = errors.New("cart not found")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type CartError struct {
	Code    string
	Message string
	Err     error
}

func (e *CartError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *CartError) Unwrap() error {
	return e.Err
}

func NewCartError(code, message string, err error) *CartError {
	return &CartError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
