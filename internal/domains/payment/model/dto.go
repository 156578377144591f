package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// ListPaymentsQuery carries listing filters. UserID, Status and Date
// are honored for staff only; plain users always see their own
// payments.
type ListPaymentsQuery struct {
	UserID string `form:"user_id"`
	Status string `form:"status"`
	// Date filters by calendar day, format 2006-01-02.
	Date  string `form:"date"`
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
}

func (q ListPaymentsQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.UserID, is.UUID),
		validation.Field(&q.Status, validation.In(
			string(PaymentStatusPending), string(PaymentStatusCompleted),
			string(PaymentStatusFailed), string(PaymentStatusCancelled),
		)),
		validation.Field(&q.Date, validation.Date("2006-01-02")),
	)
}

func (q *ListPaymentsQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
}

// ParseDate returns the calendar day filter, if set.
func (q ListPaymentsQuery) ParseDate() (*time.Time, error) {
	if q.Date == "" {
		return nil, nil
	}
	day, err := time.Parse("2006-01-02", q.Date)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// PaymentResponse is the user-facing view. The session URL is omitted
// once the payment is finalized; there is nothing left to pay.
type PaymentResponse struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     uuid.UUID       `json:"order_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Status      PaymentStatus   `json:"status"`
	SessionURL  string          `json:"session_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

func ToPaymentResponse(p *Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:          p.ID,
		OrderID:     p.OrderID,
		Amount:      p.Amount,
		Currency:    p.Currency,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		CompletedAt: p.CompletedAt,
	}

	if !p.Status.IsTerminal() {
		resp.SessionURL = p.SessionURL
	}

	return resp
}

// CallbackResult reports what a success/cancel callback did.
type CallbackResult struct {
	Payment *Payment `json:"payment"`
	// Applied is false when the callback was a replay and nothing changed.
	Applied bool `json:"applied"`
}
