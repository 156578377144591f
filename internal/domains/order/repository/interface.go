package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"cinema-backend/internal/domains/order/model"
)

// OrderRepository persists orders and their items. Checkout and
// reconciliation run inside transactions owned by the service layer,
// hence the explicit Tx handles and ...WithTx variants.
type OrderRepository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
	CommitTx(ctx context.Context, tx pgx.Tx) error
	RollbackTx(ctx context.Context, tx pgx.Tx) error

	CreateOrderWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error
	CreateOrderItemsWithTx(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error
	UpdateOrderTotalWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, total decimal.Decimal) error

	GetOrderByID(ctx context.Context, orderID uuid.UUID) (*model.Order, error)
	GetOrderItems(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error)
	ListOrders(ctx context.Context, query model.ListOrdersQuery, restrictToUser *uuid.UUID) ([]model.Order, int, error)

	// MarkPaidWithTx and MarkCanceledWithTx are guarded updates: they
	// only fire when the order is still PENDING and report whether a
	// row changed, which keeps callback replays idempotent.
	MarkPaidWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (bool, error)
	MarkCanceledWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (bool, error)
	MarkCanceled(ctx context.Context, orderID uuid.UUID) (bool, error)

	// ExpirePendingOrdersBefore cancels stale pending orders; returns
	// how many were expired.
	ExpirePendingOrdersBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
