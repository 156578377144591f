package repository

import (
	"context"

	"github.com/google/uuid"

	"cinema-backend/internal/domains/movie/model"
)

// MovieRepository persists the movie catalog.
type MovieRepository interface {
	CreateMovie(ctx context.Context, movie *model.Movie) error
	GetMovieByID(ctx context.Context, movieID uuid.UUID) (*model.Movie, error)
	GetMovieBySlug(ctx context.Context, slug string) (*model.Movie, error)
	GetMoviesByIDs(ctx context.Context, movieIDs []uuid.UUID) ([]model.Movie, error)
	ListMovies(ctx context.Context, query model.ListMoviesQuery) ([]model.Movie, int, error)
	UpdateMovie(ctx context.Context, movie *model.Movie) error
	UpdatePosterURL(ctx context.Context, movieID uuid.UUID, posterURL string) error
	DeleteMovie(ctx context.Context, movieID uuid.UUID) error

	SetMovieGenres(ctx context.Context, movieID uuid.UUID, genreIDs []uuid.UUID) error
	GetGenres(ctx context.Context) ([]model.Genre, error)
}
