package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cinema-backend/internal/domains/payment/model"
	"cinema-backend/internal/shared/utils"
	"cinema-backend/pkg/database"
)

// =====================================================
// PAYMENT REPOSITORY IMPLEMENTATION
// =====================================================

type paymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) PaymentRepository {
	return &paymentRepository{db: db}
}

// =====================================================
// TRANSACTION MANAGEMENT
// =====================================================

func (r *paymentRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

func (r *paymentRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	return tx.Commit(ctx)
}

func (r *paymentRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	err := tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}

// =====================================================
// WRITES
// =====================================================

func (r *paymentRepository) CreatePayment(ctx context.Context, payment *model.Payment) error {
	return database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO payments (user_id, order_id, session_id, session_url, amount, currency, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at, updated_at
		`

		err := tx.QueryRow(ctx, query,
			payment.UserID,
			payment.OrderID,
			payment.SessionID,
			payment.SessionURL,
			payment.Amount,
			payment.Currency,
			payment.Status,
		).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}

		if len(payment.Items) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		itemQuery := `
			INSERT INTO payment_items (payment_id, order_item_id, movie_id, price_at_payment)
			VALUES ($1, $2, $3, $4)
		`
		for i := range payment.Items {
			payment.Items[i].PaymentID = payment.ID
			batch.Queue(itemQuery,
				payment.ID,
				payment.Items[i].OrderItemID,
				payment.Items[i].MovieID,
				payment.Items[i].PriceAtPayment,
			)
		}

		results := tx.SendBatch(ctx, batch)
		for range payment.Items {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("failed to create payment items: %w", err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("failed to close payment items batch: %w", err)
		}
		return nil
	})
}

func (r *paymentRepository) UpdateSession(ctx context.Context, paymentID uuid.UUID, sessionID, sessionURL string) error {
	query := `
		UPDATE payments
		SET session_id = $2, session_url = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	tag, err := r.db.Exec(ctx, query, paymentID, sessionID, sessionURL)
	if err != nil {
		return fmt.Errorf("failed to update payment session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPaymentNotFound
	}
	return nil
}

func (r *paymentRepository) MarkCompletedWithTx(ctx context.Context, tx pgx.Tx, paymentID uuid.UUID) (bool, error) {
	query := `
		UPDATE payments
		SET status = 'completed', completed_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status IN ('pending', 'failed')
	`

	tag, err := tx.Exec(ctx, query, paymentID)
	if err != nil {
		return false, fmt.Errorf("failed to mark payment completed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *paymentRepository) MarkCancelledWithTx(ctx context.Context, tx pgx.Tx, paymentID uuid.UUID) (bool, error) {
	query := `
		UPDATE payments
		SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status IN ('pending', 'failed')
	`

	tag, err := tx.Exec(ctx, query, paymentID)
	if err != nil {
		return false, fmt.Errorf("failed to mark payment cancelled: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// =====================================================
// READS
// =====================================================

const paymentColumns = `
	id, user_id, order_id, session_id, session_url, amount, currency,
	status, created_at, updated_at, completed_at
`

func (r *paymentRepository) GetPaymentByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return r.getPayment(ctx, query, id)
}

func (r *paymentRepository) GetPaymentBySessionID(ctx context.Context, sessionID string) (*model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE session_id = $1`
	return r.getPayment(ctx, query, sessionID)
}

func (r *paymentRepository) GetPaymentByOrderID(ctx context.Context, orderID uuid.UUID) (*model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE order_id = $1`
	return r.getPayment(ctx, query, orderID)
}

func (r *paymentRepository) getPayment(ctx context.Context, query string, arg any) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&payment.ID,
		&payment.UserID,
		&payment.OrderID,
		&payment.SessionID,
		&payment.SessionURL,
		&payment.Amount,
		&payment.Currency,
		&payment.Status,
		&payment.CreatedAt,
		&payment.UpdatedAt,
		&payment.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	items, err := r.getPaymentItems(ctx, payment.ID)
	if err != nil {
		return nil, err
	}
	payment.Items = items

	return &payment, nil
}

func (r *paymentRepository) getPaymentItems(ctx context.Context, paymentID uuid.UUID) ([]model.PaymentItem, error) {
	query := `
		SELECT id, payment_id, order_item_id, movie_id, price_at_payment
		FROM payment_items
		WHERE payment_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment items: %w", err)
	}
	defer rows.Close()

	var items []model.PaymentItem
	for rows.Next() {
		var item model.PaymentItem
		if err := rows.Scan(
			&item.ID,
			&item.PaymentID,
			&item.OrderItemID,
			&item.MovieID,
			&item.PriceAtPayment,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *paymentRepository) ListPayments(ctx context.Context, query model.ListPaymentsQuery, restrictToUser *uuid.UUID) ([]model.Payment, int, error) {
	clauses := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if restrictToUser != nil {
		clauses = append(clauses, fmt.Sprintf("user_id = $%d", argPos))
		args = append(args, *restrictToUser)
		argPos++
	} else if query.UserID != "" {
		clauses = append(clauses, fmt.Sprintf("user_id = $%d", argPos))
		args = append(args, utils.ParseStringToUUID(query.UserID))
		argPos++
	}

	if query.Status != "" {
		clauses = append(clauses, fmt.Sprintf("status = $%d", argPos))
		args = append(args, query.Status)
		argPos++
	}

	if day, err := query.ParseDate(); err == nil && day != nil {
		clauses = append(clauses, fmt.Sprintf("created_at::date = $%d", argPos))
		args = append(args, *day)
		argPos++
	}

	where := utils.JoinWithAnd(clauses)

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM payments WHERE %s`, where)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT `+paymentColumns+`
		FROM payments
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argPos, argPos+1)

	args = append(args, query.Limit, (query.Page-1)*query.Limit)

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		var payment model.Payment
		if err := rows.Scan(
			&payment.ID,
			&payment.UserID,
			&payment.OrderID,
			&payment.SessionID,
			&payment.SessionURL,
			&payment.Amount,
			&payment.Currency,
			&payment.Status,
			&payment.CreatedAt,
			&payment.UpdatedAt,
			&payment.CompletedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}

	return payments, total, rows.Err()
}
