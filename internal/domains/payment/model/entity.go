package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// PAYMENT STATUS
// =====================================================
// Closed enumeration with a total transition function. COMPLETED and
// CANCELLED are terminal and can never be overwritten — a late cancel
// callback must not undo a completed payment. FAILED may still recover
// via a fresh session on the same payment row.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:   {PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCancelled},
	PaymentStatusFailed:    {PaymentStatusCompleted, PaymentStatusCancelled},
	PaymentStatusCompleted: {},
	PaymentStatusCancelled: {},
}

func (s PaymentStatus) IsValid() bool {
	_, ok := paymentTransitions[s]
	return ok
}

func (s PaymentStatus) IsTerminal() bool {
	targets, ok := paymentTransitions[s]
	return ok && len(targets) == 0
}

func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	for _, t := range paymentTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// =====================================================
// ENTITY: Payment
// =====================================================
// One payment row per order. Gateway retries reuse the row with a
// fresh session id; callbacks are keyed by the unique session id.
type Payment struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     uuid.UUID       `json:"order_id"`
	UserID      uuid.UUID       `json:"user_id"`
	SessionID   string          `json:"session_id"`
	SessionURL  string          `json:"session_url,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Status      PaymentStatus   `json:"status"`
	Items       []PaymentItem   `json:"items,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// =====================================================
// ENTITY: PaymentItem
// =====================================================
// Mirrors an order item, freezing price_at_payment at session creation.
type PaymentItem struct {
	ID             uuid.UUID       `json:"id"`
	PaymentID      uuid.UUID       `json:"payment_id"`
	OrderItemID    uuid.UUID       `json:"order_item_id"`
	MovieID        uuid.UUID       `json:"movie_id"`
	PriceAtPayment decimal.Decimal `json:"price_at_payment"`
}
