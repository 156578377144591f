package model

import "errors"

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeMovieNotFound = "MOV001"
	ErrCodeSlugExists    = "MOV002"
	ErrCodeGenreNotFound = "MOV003"
	ErrCodeInvalidPoster = "MOV004"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrMovieNotFound = errors.New("movie not found")
	ErrSlugExists    = errors.New("movie slug already exists")
	ErrGenreNotFound = errors.New("genre not found")
	ErrInvalidPoster = errors.New("invalid poster image")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type MovieError struct {
	Code    string
	Message string
	Err     error
}

func (e *MovieError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *MovieError) Unwrap() error {
	return e.Err
}

func NewMovieError(code, message string, err error) *MovieError {
	return &MovieError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
