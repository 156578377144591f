package model

import (
	"time"

	"github.com/google/uuid"
)

// =====================================================
// ROLE CONSTANTS
// =====================================================
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// IsPrivileged reports whether a role carries staff access: catalog
// management and cross-user order/payment listing.
func IsPrivileged(role string) bool {
	return role == RoleAdmin || role == RoleModerator
}

// =====================================================
// ENTITY: User
// =====================================================
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// =====================================================
// ENTITY: PurchasedMovie
// =====================================================
// One row per (user, movie). A movie is purchased exactly once;
// repeat purchases are prevented at checkout.
type PurchasedMovie struct {
	UserID      uuid.UUID `json:"user_id"`
	MovieID     uuid.UUID `json:"movie_id"`
	PurchasedAt time.Time `json:"purchased_at"`
}
