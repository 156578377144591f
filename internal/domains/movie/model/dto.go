package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// =====================================================
// REQUEST DTOs
// =====================================================

type CreateMovieRequest struct {
	Title           string      `json:"title"`
	Description     *string     `json:"description"`
	Price           float64     `json:"price"`
	ReleaseYear     int         `json:"release_year"`
	DurationMinutes int         `json:"duration_minutes"`
	GenreIDs        []uuid.UUID `json:"genre_ids"`
}

func (r CreateMovieRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.Price, validation.Required, validation.Min(0.01)),
		validation.Field(&r.ReleaseYear, validation.Required, validation.Min(1888)),
		validation.Field(&r.DurationMinutes, validation.Required, validation.Min(1)),
	)
}

type UpdateMovieRequest struct {
	Title           *string     `json:"title"`
	Description     *string     `json:"description"`
	Price           *float64    `json:"price"`
	ReleaseYear     *int        `json:"release_year"`
	DurationMinutes *int        `json:"duration_minutes"`
	GenreIDs        []uuid.UUID `json:"genre_ids"`
}

func (r UpdateMovieRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 500)),
		validation.Field(&r.Price, validation.Min(0.01)),
		validation.Field(&r.ReleaseYear, validation.Min(1888)),
		validation.Field(&r.DurationMinutes, validation.Min(1)),
	)
}

// ListMoviesQuery carries catalog listing filters.
type ListMoviesQuery struct {
	Search string `form:"search"`
	Genre  string `form:"genre"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

func (q *ListMoviesQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type MovieListResponse struct {
	Movies []Movie `json:"movies"`
	Total  int     `json:"total"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
}
