package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"cinema-backend/internal/domains/user/model"
)

// UserRepository persists users and the purchase ledger.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, userID uuid.UUID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// Purchase ledger. Writes happen inside the payment success
	// transaction, reads serve checkout filtering and the library.
	AddPurchasedMoviesWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, movieIDs []uuid.UUID) error
	GetPurchasedMovieIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error)
	IsMoviePurchased(ctx context.Context, userID, movieID uuid.UUID) (bool, error)
}
