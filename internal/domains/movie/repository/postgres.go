package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"cinema-backend/internal/domains/movie/model"
	"cinema-backend/internal/shared/utils"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================
type postgresMovieRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresMovieRepository(pool *pgxpool.Pool) MovieRepository {
	return &postgresMovieRepository{
		pool: pool,
	}
}

// =====================================================
// CREATE
// =====================================================

func (r *postgresMovieRepository) CreateMovie(ctx context.Context, movie *model.Movie) error {
	query := `
		INSERT INTO movies (id, title, slug, description, price, release_year, duration_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		movie.ID,
		movie.Title,
		movie.Slug,
		movie.Description,
		movie.Price,
		movie.ReleaseYear,
		movie.DurationMinutes,
	).Scan(&movie.CreatedAt, &movie.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrSlugExists
		}
		return fmt.Errorf("failed to create movie: %w", err)
	}

	return nil
}

// =====================================================
// READ
// =====================================================

func (r *postgresMovieRepository) GetMovieByID(ctx context.Context, movieID uuid.UUID) (*model.Movie, error) {
	query := `
		SELECT id, title, slug, description, price, release_year, duration_minutes,
		       poster_url, created_at, updated_at
		FROM movies
		WHERE id = $1
	`

	var movie model.Movie
	err := r.pool.QueryRow(ctx, query, movieID).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Slug,
		&movie.Description,
		&movie.Price,
		&movie.ReleaseYear,
		&movie.DurationMinutes,
		&movie.PosterURL,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to get movie by id: %w", err)
	}

	if err := r.loadGenres(ctx, &movie); err != nil {
		return nil, err
	}

	return &movie, nil
}

func (r *postgresMovieRepository) GetMovieBySlug(ctx context.Context, slug string) (*model.Movie, error) {
	query := `
		SELECT id, title, slug, description, price, release_year, duration_minutes,
		       poster_url, created_at, updated_at
		FROM movies
		WHERE slug = $1
	`

	var movie model.Movie
	err := r.pool.QueryRow(ctx, query, slug).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Slug,
		&movie.Description,
		&movie.Price,
		&movie.ReleaseYear,
		&movie.DurationMinutes,
		&movie.PosterURL,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to get movie by slug: %w", err)
	}

	if err := r.loadGenres(ctx, &movie); err != nil {
		return nil, err
	}

	return &movie, nil
}

// GetMoviesByIDs returns movies for checkout pricing. Missing ids are
// simply absent from the result; the caller decides whether that is an error.
func (r *postgresMovieRepository) GetMoviesByIDs(ctx context.Context, movieIDs []uuid.UUID) ([]model.Movie, error) {
	if len(movieIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, title, slug, description, price, release_year, duration_minutes,
		       poster_url, created_at, updated_at
		FROM movies
		WHERE id = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, movieIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get movies by ids: %w", err)
	}
	defer rows.Close()

	return scanMovies(rows)
}

func (r *postgresMovieRepository) ListMovies(ctx context.Context, listQuery model.ListMoviesQuery) ([]model.Movie, int, error) {
	clauses := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if listQuery.Search != "" {
		clauses = append(clauses, fmt.Sprintf("m.title ILIKE $%d", argPos))
		args = append(args, "%"+listQuery.Search+"%")
		argPos++
	}

	if listQuery.Genre != "" {
		clauses = append(clauses, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM movie_genres mg JOIN genres g ON g.id = mg.genre_id WHERE mg.movie_id = m.id AND g.name = $%d)", argPos))
		args = append(args, listQuery.Genre)
		argPos++
	}

	where := utils.JoinWithAnd(clauses)

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM movies m WHERE %s`, where)

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count movies: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT m.id, m.title, m.slug, m.description, m.price, m.release_year, m.duration_minutes,
		       m.poster_url, m.created_at, m.updated_at
		FROM movies m
		WHERE %s
		ORDER BY m.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argPos, argPos+1)

	args = append(args, listQuery.Limit, (listQuery.Page-1)*listQuery.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list movies: %w", err)
	}
	defer rows.Close()

	movies, err := scanMovies(rows)
	if err != nil {
		return nil, 0, err
	}

	return movies, total, nil
}

// =====================================================
// UPDATE / DELETE
// =====================================================

func (r *postgresMovieRepository) UpdateMovie(ctx context.Context, movie *model.Movie) error {
	query := `
		UPDATE movies
		SET title = $2, slug = $3, description = $4, price = $5,
		    release_year = $6, duration_minutes = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		movie.ID,
		movie.Title,
		movie.Slug,
		movie.Description,
		movie.Price,
		movie.ReleaseYear,
		movie.DurationMinutes,
	).Scan(&movie.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrMovieNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrSlugExists
		}
		return fmt.Errorf("failed to update movie: %w", err)
	}

	return nil
}

func (r *postgresMovieRepository) UpdatePosterURL(ctx context.Context, movieID uuid.UUID, posterURL string) error {
	query := `UPDATE movies SET poster_url = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, movieID, posterURL)
	if err != nil {
		return fmt.Errorf("failed to update poster url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrMovieNotFound
	}

	return nil
}

func (r *postgresMovieRepository) DeleteMovie(ctx context.Context, movieID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM movies WHERE id = $1`, movieID)
	if err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrMovieNotFound
	}

	return nil
}

// =====================================================
// GENRES
// =====================================================

func (r *postgresMovieRepository) SetMovieGenres(ctx context.Context, movieID uuid.UUID, genreIDs []uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM movie_genres WHERE movie_id = $1`, movieID); err != nil {
		return fmt.Errorf("failed to clear movie genres: %w", err)
	}

	if len(genreIDs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, genreID := range genreIDs {
		batch.Queue(`INSERT INTO movie_genres (movie_id, genre_id) VALUES ($1, $2)`, movieID, genreID)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range genreIDs {
		if _, err := br.Exec(); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return model.ErrGenreNotFound
			}
			return fmt.Errorf("failed to set movie genre: %w", err)
		}
	}

	return nil
}

func (r *postgresMovieRepository) GetGenres(ctx context.Context) ([]model.Genre, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM genres ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	defer rows.Close()

	var genres []model.Genre
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}
		genres = append(genres, g)
	}

	return genres, rows.Err()
}

func (r *postgresMovieRepository) loadGenres(ctx context.Context, movie *model.Movie) error {
	query := `
		SELECT g.id, g.name
		FROM genres g
		JOIN movie_genres mg ON mg.genre_id = g.id
		WHERE mg.movie_id = $1
		ORDER BY g.name
	`

	rows, err := r.pool.Query(ctx, query, movie.ID)
	if err != nil {
		return fmt.Errorf("failed to load movie genres: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return fmt.Errorf("failed to scan movie genre: %w", err)
		}
		movie.Genres = append(movie.Genres, g)
	}

	return rows.Err()
}

func scanMovies(rows pgx.Rows) ([]model.Movie, error) {
	var movies []model.Movie
	for rows.Next() {
		var movie model.Movie
		err := rows.Scan(
			&movie.ID,
			&movie.Title,
			&movie.Slug,
			&movie.Description,
			&movie.Price,
			&movie.ReleaseYear,
			&movie.DurationMinutes,
			&movie.PosterURL,
			&movie.CreatedAt,
			&movie.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, movie)
	}

	return movies, rows.Err()
}
