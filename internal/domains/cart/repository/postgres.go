package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"cinema-backend/internal/domains/cart/model"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================
type postgresCartRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCartRepository(pool *pgxpool.Pool) CartRepository {
	return &postgresCartRepository{
		pool: pool,
	}
}

// =====================================================
// CART
// =====================================================

// GetOrCreateCart relies on the unique(user_id) constraint: the upsert
// either inserts a fresh cart or returns the existing one.
func (r *postgresCartRepository) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	query := `
		INSERT INTO carts (id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
		RETURNING id, user_id, created_at, updated_at
	`

	var cart model.Cart
	err := r.pool.QueryRow(ctx, query, uuid.New(), userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create cart: %w", err)
	}

	return &cart, nil
}

func (r *postgresCartRepository) GetCartByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	query := `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`

	var cart model.Cart
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart by user id: %w", err)
	}

	return &cart, nil
}

// =====================================================
// ITEMS
// =====================================================

func (r *postgresCartRepository) AddItem(ctx context.Context, cartID, movieID uuid.UUID) error {
	query := `
		INSERT INTO cart_items (id, cart_id, movie_id)
		VALUES ($1, $2, $3)
	`

	_, err := r.pool.Exec(ctx, query, uuid.New(), cartID, movieID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505": // unique(cart_id, movie_id)
				return model.ErrAlreadyInCart
			case "23503": // fk to movies
				return model.ErrMovieNotFound
			}
		}
		return fmt.Errorf("failed to add cart item: %w", err)
	}

	return nil
}

func (r *postgresCartRepository) RemoveItem(ctx context.Context, cartID, movieID uuid.UUID) error {
	query := `DELETE FROM cart_items WHERE cart_id = $1 AND movie_id = $2`

	tag, err := r.pool.Exec(ctx, query, cartID, movieID)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrNotInCart
	}

	return nil
}

func (r *postgresCartRepository) GetCartItems(ctx context.Context, cartID uuid.UUID) ([]model.CartItemDetail, error) {
	query := `
		SELECT ci.movie_id, m.title, m.price, m.release_year, m.poster_url, ci.added_at,
		       COALESCE((
		           SELECT array_agg(g.name ORDER BY g.name)
		           FROM movie_genres mg
		           JOIN genres g ON g.id = mg.genre_id
		           WHERE mg.movie_id = ci.movie_id
		       ), '{}') AS genres,
		       EXISTS (
		           SELECT 1 FROM purchased_movies pm
		           JOIN carts c ON c.user_id = pm.user_id
		           WHERE c.id = ci.cart_id AND pm.movie_id = ci.movie_id
		       ) AS purchased
		FROM cart_items ci
		JOIN movies m ON m.id = ci.movie_id
		WHERE ci.cart_id = $1
		ORDER BY ci.added_at
	`

	rows, err := r.pool.Query(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	defer rows.Close()

	var items []model.CartItemDetail
	for rows.Next() {
		var item model.CartItemDetail
		err := rows.Scan(
			&item.MovieID,
			&item.Title,
			&item.Price,
			&item.ReleaseYear,
			&item.PosterURL,
			&item.AddedAt,
			&item.Genres,
			&item.Purchased,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cart items: %w", err)
	}

	return items, nil
}

func (r *postgresCartRepository) ClearCart(ctx context.Context, cartID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// ClearCartWithTx removes all items, including already-purchased
// leftovers, as part of the checkout transaction.
func (r *postgresCartRepository) ClearCartWithTx(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) error {
	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
