package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"cinema-backend/internal/domains/order/model"
	"cinema-backend/internal/shared/utils"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================
type postgresOrderRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &postgresOrderRepository{
		pool: pool,
	}
}

// =====================================================
// TRANSACTION MANAGEMENT
// =====================================================

func (r *postgresOrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

func (r *postgresOrderRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	return tx.Commit(ctx)
}

func (r *postgresOrderRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	return tx.Rollback(ctx)
}

// =====================================================
// CREATE
// =====================================================

func (r *postgresOrderRepository) CreateOrderWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (id, user_id, total, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		order.ID,
		order.UserID,
		order.Total,
		order.Status,
	).Scan(&order.CreatedAt, &order.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

func (r *postgresOrderRepository) CreateOrderItemsWithTx(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO order_items (id, order_id, movie_id, movie_title, price_at_order)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.MovieID, item.MovieTitle, item.PriceAtOrder)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for range items {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	return nil
}

func (r *postgresOrderRepository) UpdateOrderTotalWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, total decimal.Decimal) error {
	query := `UPDATE orders SET total = $2, updated_at = NOW() WHERE id = $1`

	tag, err := tx.Exec(ctx, query, orderID, total)
	if err != nil {
		return fmt.Errorf("failed to update order total: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}

	return nil
}

// =====================================================
// READ
// =====================================================

func (r *postgresOrderRepository) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	query := `
		SELECT id, user_id, total, status, created_at, updated_at, paid_at, canceled_at
		FROM orders
		WHERE id = $1
	`

	var order model.Order
	err := r.pool.QueryRow(ctx, query, orderID).Scan(
		&order.ID,
		&order.UserID,
		&order.Total,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
		&order.PaidAt,
		&order.CanceledAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by id: %w", err)
	}

	items, err := r.GetOrderItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

func (r *postgresOrderRepository) GetOrderItems(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	query := `
		SELECT id, order_id, movie_id, movie_title, price_at_order, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.MovieID,
			&item.MovieTitle,
			&item.PriceAtOrder,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *postgresOrderRepository) ListOrders(ctx context.Context, query model.ListOrdersQuery, restrictToUser *uuid.UUID) ([]model.Order, int, error) {
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

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM orders WHERE %s`, where)

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT id, user_id, total, status, created_at, updated_at, paid_at, canceled_at
		FROM orders
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argPos, argPos+1)

	args = append(args, query.Limit, (query.Page-1)*query.Limit)

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var order model.Order
		err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.Total,
			&order.Status,
			&order.CreatedAt,
			&order.UpdatedAt,
			&order.PaidAt,
			&order.CanceledAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate orders: %w", err)
	}

	return orders, total, nil
}

// =====================================================
// STATUS TRANSITIONS
// =====================================================
// The WHERE status = 'pending' guard enforces the transition function
// at the database level: terminal orders are never touched, and a
// replayed callback simply updates zero rows.

func (r *postgresOrderRepository) MarkPaidWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (bool, error) {
	query := `
		UPDATE orders
		SET status = $2, paid_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = $3
	`

	tag, err := tx.Exec(ctx, query, orderID, model.OrderStatusPaid, model.OrderStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to mark order paid: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *postgresOrderRepository) MarkCanceledWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (bool, error) {
	query := `
		UPDATE orders
		SET status = $2, canceled_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = $3
	`

	tag, err := tx.Exec(ctx, query, orderID, model.OrderStatusCanceled, model.OrderStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to mark order canceled: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *postgresOrderRepository) MarkCanceled(ctx context.Context, orderID uuid.UUID) (bool, error) {
	query := `
		UPDATE orders
		SET status = $2, canceled_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = $3
	`

	tag, err := r.pool.Exec(ctx, query, orderID, model.OrderStatusCanceled, model.OrderStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to mark order canceled: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// =====================================================
// EXPIRY
// =====================================================

func (r *postgresOrderRepository) ExpirePendingOrdersBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE orders
		SET status = $1, canceled_at = NOW(), updated_at = NOW()
		WHERE status = $2 AND created_at < $3
	`

	tag, err := r.pool.Exec(ctx, query, model.OrderStatusCanceled, model.OrderStatusPending, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire pending orders: %w", err)
	}

	return tag.RowsAffected(), nil
}
