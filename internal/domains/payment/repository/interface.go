package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"cinema-backend/internal/domains/payment/model"
)

// =====================================================
// PAYMENT REPOSITORY INTERFACE
// =====================================================

type PaymentRepository interface {
	// Transaction management
	BeginTx(ctx context.Context) (pgx.Tx, error)
	CommitTx(ctx context.Context, tx pgx.Tx) error
	RollbackTx(ctx context.Context, tx pgx.Tx) error

	// CreatePayment inserts the payment row together with its items.
	CreatePayment(ctx context.Context, payment *model.Payment) error

	GetPaymentByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	GetPaymentBySessionID(ctx context.Context, sessionID string) (*model.Payment, error)
	GetPaymentByOrderID(ctx context.Context, orderID uuid.UUID) (*model.Payment, error)

	// UpdateSession replaces the gateway session on an existing pending
	// payment. Used when a checkout session is re-created after a
	// gateway failure.
	UpdateSession(ctx context.Context, paymentID uuid.UUID, sessionID, sessionURL string) error

	// MarkCompletedWithTx and MarkCancelledWithTx only move payments out
	// of non-terminal states. They report whether a row changed so
	// callers can distinguish a fresh transition from a replay.
	MarkCompletedWithTx(ctx context.Context, tx pgx.Tx, paymentID uuid.UUID) (bool, error)
	MarkCancelledWithTx(ctx context.Context, tx pgx.Tx, paymentID uuid.UUID) (bool, error)

	// ListPayments applies admin filters; restrictToUser pins the
	// result to one user regardless of the query.
	ListPayments(ctx context.Context, query model.ListPaymentsQuery, restrictToUser *uuid.UUID) ([]model.Payment, int, error)
}
