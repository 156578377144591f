package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// ListOrdersQuery carries listing filters. UserID, Status and Date are
// honored for staff only; plain users always see their own orders.
type ListOrdersQuery struct {
	UserID string `form:"user_id"`
	Status string `form:"status"`
	// Date filters by calendar day, format 2006-01-02.
	Date  string `form:"date"`
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
}

func (q ListOrdersQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.UserID, is.UUID),
		validation.Field(&q.Status, validation.In(
			string(OrderStatusPending), string(OrderStatusPaid), string(OrderStatusCanceled),
		)),
		validation.Field(&q.Date, validation.Date("2006-01-02")),
	)
}

func (q *ListOrdersQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
}

// ParseDate returns the calendar day filter, if set.
func (q ListOrdersQuery) ParseDate() (*time.Time, error) {
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

// CreateOrderResponse carries the checkout result: the priced order
// plus the gateway URL the client should redirect the user to.
type CreateOrderResponse struct {
	Order      *Order `json:"order"`
	PaymentURL string `json:"payment_url"`
}

type OrderListResponse struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
}
