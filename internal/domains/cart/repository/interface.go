package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"cinema-backend/internal/domains/cart/model"
)

// CartRepository persists carts and their items.
type CartRepository interface {
	GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*model.Cart, error)
	GetCartByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	AddItem(ctx context.Context, cartID, movieID uuid.UUID) error
	RemoveItem(ctx context.Context, cartID, movieID uuid.UUID) error
	GetCartItems(ctx context.Context, cartID uuid.UUID) ([]model.CartItemDetail, error)

	// ClearCart empties the cart outside any transaction. Idempotent.
	ClearCart(ctx context.Context, cartID uuid.UUID) error

	// ClearCartWithTx empties the cart inside the checkout transaction.
	ClearCartWithTx(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) error
}
