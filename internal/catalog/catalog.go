// Package catalog is the read-only boundary onto the external content
// platform. Item records are treated as opaque when building cart lines;
// only the lookups the storefront needs are exposed.
package catalog

import (
	"context"

	"unitrader/internal/session"
	"unitrader/pkg/domain"
)

// Item is one catalog record as served by the content platform.
type Item struct {
	ID       domain.ItemID `json:"id"`
	Slug     string        `json:"slug"`
	Title    string        `json:"title"`
	Price    float64       `json:"price"`
	Currency string        `json:"currency"`
	// Count is the remaining stock; zero renders as "Not Available" and
	// disables purchase.
	Count    int    `json:"count"`
	Category string `json:"category"`
	Color    string `json:"color"`
	// Seller is the canonical roll number of the selling student.
	Seller   string `json:"seller"`
	ImageURL string `json:"image_url"`
}

// Available reports whether the item can be purchased.
func (i Item) Available() bool { return i.Count > 0 }

// CartView maps the record onto the session store's opaque item shape.
func (i Item) CartView() session.Item {
	return session.Item{
		ID:        i.ID,
		Title:     i.Title,
		UnitPrice: i.Price,
		Available: i.Available(),
	}
}

// Store is the lookup surface the core needs from the content platform.
type Store interface {
	FindBySlug(ctx context.Context, slug string) (Item, error)
	ListByCategory(ctx context.Context, category string) ([]Item, error)
	// ListBySellerRoll returns the items a student is selling, keyed by the
	// roll number derived from their institutional email.
	ListBySellerRoll(ctx context.Context, roll string) ([]Item, error)
	// ListByIDs resolves item IDs (e.g. a profile's purchase history) to
	// records, skipping IDs that no longer exist.
	ListByIDs(ctx context.Context, ids []domain.ItemID) ([]Item, error)
}
