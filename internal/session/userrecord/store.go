// Package userrecord persists the signed-in user record so an external token
// collaborator can restore the user across reloads. The cart is deliberately
// never persisted; it lives and dies with the session store.
package userrecord

import (
	"context"
	"time"

	"unitrader/pkg/domain"
)

// Record is the persisted shape of a signed-in user.
type Record struct {
	ID        domain.UserID `json:"id"`
	Handle    string        `json:"handle"`
	AvatarURL string        `json:"avatar_url"`
	Email     string        `json:"email"`
	// Purchases holds catalog item IDs bought by this user; the profile
	// page resolves them against the catalog.
	Purchases []domain.ItemID `json:"purchases,omitempty"`
	// Checkouts holds redirect session IDs already settled for this user.
	// Payment processors retry completion callbacks, so each redirect ID is
	// credited at most once.
	Checkouts []string  `json:"checkouts,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the persistence boundary for user records.
type Store interface {
	Save(ctx context.Context, rec Record) error
	FindByID(ctx context.Context, id domain.UserID) (Record, error)
	Delete(ctx context.Context, id domain.UserID) error
}
