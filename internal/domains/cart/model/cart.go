package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// ENTITY: Cart
// =====================================================
// One active cart per user, created lazily on first access.
type Cart struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// =====================================================
// ENTITY: CartItem
// =====================================================
// A cart holds at most one entry per movie; there are no quantities
// since a movie is bought once.
type CartItem struct {
	ID      uuid.UUID `json:"id"`
	CartID  uuid.UUID `json:"cart_id"`
	MovieID uuid.UUID `json:"movie_id"`
	AddedAt time.Time `json:"added_at"`
}

// CartItemDetail is a cart item joined with its movie data.
type CartItemDetail struct {
	MovieID     uuid.UUID       `json:"movie_id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	ReleaseYear int             `json:"release_year"`
	Genres      []string        `json:"genres"`
	PosterURL   *string         `json:"poster_url,omitempty"`
	AddedAt     time.Time       `json:"added_at"`
	// Purchased is set when the user already owns the movie; such
	// items are skipped at checkout.
	Purchased bool `json:"purchased"`
}
