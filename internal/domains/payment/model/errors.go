package model

import "errors"

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodePaymentNotFound    = "PAY001"
	ErrCodeGatewayUnavailable = "PAY002"
	ErrCodeOrderNotPayable    = "PAY003"
	ErrCodeInvalidSignature   = "PAY004"
	ErrCodeAlreadyFinalized   = "PAY005"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrGatewayUnavailable is retryable: the order stays PENDING and
	// no payment state is written.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrOrderNotPayable    = errors.New("order is not payable")
	ErrInvalidSignature   = errors.New("invalid webhook signature")
	ErrAlreadyFinalized   = errors.New("payment already finalized")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type PaymentError struct {
	Code    string
	Message string
	Err     error
}

func (e *PaymentError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

func NewPaymentError(code, message string, err error) *PaymentError {
	return &PaymentError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
