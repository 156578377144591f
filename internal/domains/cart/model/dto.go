package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// REQUEST DTOs
// =====================================================

type AddToCartRequest struct {
	MovieID string `json:"movie_id"`
}

func (r AddToCartRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.MovieID, validation.Required, is.UUIDv4),
	)
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type CartResponse struct {
	CartID uuid.UUID        `json:"cart_id"`
	Items  []CartItemDetail `json:"items"`
	// Total sums the prices of items not yet purchased.
	Total decimal.Decimal `json:"total"`
	// Warnings surfaces already-purchased items still sitting in the cart.
	Warnings []string `json:"warnings,omitempty"`
}
