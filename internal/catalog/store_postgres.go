package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"unitrader/pkg/domain"
	"unitrader/pkg/platform/sentinel"
)

// PostgresStore reads catalog items from a PostgreSQL mirror of the content
// platform (populated out of band by a sync job).
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const itemColumns = `id, slug, title, price, currency, count, category, color, seller, image_url`

func (s *PostgresStore) FindBySlug(ctx context.Context, slug string) (Item, error) {
	query := `SELECT ` + itemColumns + ` FROM catalog_items WHERE slug = $1`
	item, err := scanItem(s.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if err == sql.ErrNoRows {
			return Item{}, sentinel.ErrNotFound
		}
		return Item{}, fmt.Errorf("find item by slug: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) ListByCategory(ctx context.Context, category string) ([]Item, error) {
	query := `SELECT ` + itemColumns + ` FROM catalog_items WHERE category = $1 ORDER BY title`
	rows, err := s.db.QueryContext(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("list items by category: %w", err)
	}
	return collectItems(rows)
}

func (s *PostgresStore) ListBySellerRoll(ctx context.Context, roll string) ([]Item, error) {
	query := `SELECT ` + itemColumns + ` FROM catalog_items WHERE seller = $1 ORDER BY title`
	rows, err := s.db.QueryContext(ctx, query, roll)
	if err != nil {
		return nil, fmt.Errorf("list items by seller roll: %w", err)
	}
	return collectItems(rows)
}

func (s *PostgresStore) ListByIDs(ctx context.Context, ids []domain.ItemID) ([]Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	query := `SELECT ` + itemColumns + ` FROM catalog_items WHERE id = ANY($1)`
	rows, err := s.db.QueryContext(ctx, query, pq.Array(raw))
	if err != nil {
		return nil, fmt.Errorf("list items by ids: %w", err)
	}
	items, err := collectItems(rows)
	if err != nil {
		return nil, err
	}
	// Preserve the caller's ordering; missing IDs are skipped.
	byID := make(map[domain.ItemID]Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	var out []Item
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (Item, error) {
	var item Item
	var id string
	err := row.Scan(&id, &item.Slug, &item.Title, &item.Price, &item.Currency,
		&item.Count, &item.Category, &item.Color, &item.Seller, &item.ImageURL)
	if err != nil {
		return Item{}, err
	}
	item.ID = domain.ItemID(id)
	return item, nil
}

func collectItems(rows *sql.Rows) ([]Item, error) {
	defer rows.Close()
	var out []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return out, nil
}
