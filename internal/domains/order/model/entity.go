package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// ORDER STATUS
// =====================================================
// Status is a closed enumeration with a total transition function.
// PAID and CANCELED are terminal; unknown transitions are rejected.
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusPaid     OrderStatus = "paid"
	OrderStatusCanceled OrderStatus = "canceled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:  {OrderStatusPaid, OrderStatusCanceled},
	OrderStatusPaid:     {},
	OrderStatusCanceled: {},
}

func (s OrderStatus) IsValid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatus) IsTerminal() bool {
	targets, ok := orderTransitions[s]
	return ok && len(targets) == 0
}

func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, t := range orderTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// =====================================================
// ENTITY: Order
// =====================================================
type Order struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	Total      decimal.Decimal `json:"total"`
	Status     OrderStatus     `json:"status"`
	Items      []OrderItem     `json:"items,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	PaidAt     *time.Time      `json:"paid_at,omitempty"`
	CanceledAt *time.Time      `json:"canceled_at,omitempty"`
}

// CanBeCancelled reports whether the user may still cancel the order.
func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderStatusPending
}

// MovieIDs returns the ids of all movies on the order.
func (o *Order) MovieIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(o.Items))
	for _, item := range o.Items {
		ids = append(ids, item.MovieID)
	}
	return ids
}

// =====================================================
// ENTITY: OrderItem
// =====================================================
// PriceAtOrder snapshots the catalog price at order creation and never
// changes, even when the catalog price does.
type OrderItem struct {
	ID           uuid.UUID       `json:"id"`
	OrderID      uuid.UUID       `json:"order_id"`
	MovieID      uuid.UUID       `json:"movie_id"`
	MovieTitle   string          `json:"movie_title"`
	PriceAtOrder decimal.Decimal `json:"price_at_order"`
	CreatedAt    time.Time       `json:"created_at"`
}
