package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// ENTITY: Movie
// =====================================================
type Movie struct {
	ID              uuid.UUID       `json:"id"`
	Title           string          `json:"title"`
	Slug            string          `json:"slug"`
	Description     *string         `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price"`
	ReleaseYear     int             `json:"release_year"`
	DurationMinutes int             `json:"duration_minutes"`
	PosterURL       *string         `json:"poster_url,omitempty"`
	Genres          []Genre         `json:"genres,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// =====================================================
// ENTITY: Genre
// =====================================================
type Genre struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
