package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"cinema-backend/internal/domains/user/model"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================
type postgresUserRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepository(pool *pgxpool.Pool) UserRepository {
	return &postgresUserRepository{
		pool: pool,
	}
}

// =====================================================
// USERS
// =====================================================

func (r *postgresUserRepository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, full_name, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.Role,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrEmailExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *postgresUserRepository) GetUserByID(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	query := `
		SELECT id, email, password_hash, full_name, role, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &user, nil
}

func (r *postgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT id, email, password_hash, full_name, role, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// =====================================================
// PURCHASE LEDGER
// =====================================================

// AddPurchasedMoviesWithTx records purchases inside the payment success
// transaction. ON CONFLICT DO NOTHING keeps webhook replays idempotent.
func (r *postgresUserRepository) AddPurchasedMoviesWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, movieIDs []uuid.UUID) error {
	if len(movieIDs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO purchased_movies (user_id, movie_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, movie_id) DO NOTHING
	`

	for _, movieID := range movieIDs {
		batch.Queue(query, userID, movieID)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for range movieIDs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to record purchased movie: %w", err)
		}
	}

	return nil
}

func (r *postgresUserRepository) GetPurchasedMovieIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	query := `
		SELECT movie_id
		FROM purchased_movies
		WHERE user_id = $1
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchased movies: %w", err)
	}
	defer rows.Close()

	purchased := make(map[uuid.UUID]bool)
	for rows.Next() {
		var movieID uuid.UUID
		if err := rows.Scan(&movieID); err != nil {
			return nil, fmt.Errorf("failed to scan purchased movie: %w", err)
		}
		purchased[movieID] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate purchased movies: %w", err)
	}

	return purchased, nil
}

func (r *postgresUserRepository) IsMoviePurchased(ctx context.Context, userID, movieID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM purchased_movies
			WHERE user_id = $1 AND movie_id = $2
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, movieID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check purchased movie: %w", err)
	}

	return exists, nil
}
