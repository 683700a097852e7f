package catalog

import (
	"context"
	"sync"

	"unitrader/pkg/domain"
	"unitrader/pkg/platform/sentinel"
)

// InMemoryStore serves a fixed set of items. Used in development and tests;
// deployments point at the PostgresStore mirror of the content platform.
type InMemoryStore struct {
	mu    sync.RWMutex
	items []Item
}

func NewInMemory(items ...Item) *InMemoryStore {
	return &InMemoryStore{items: items}
}

// Put adds or replaces an item, keyed by ID.
func (s *InMemoryStore) Put(item Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i] = item
			return
		}
	}
	s.items = append(s.items, item)
}

func (s *InMemoryStore) FindBySlug(_ context.Context, slug string) (Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.Slug == slug {
			return item, nil
		}
	}
	return Item{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) ListByCategory(_ context.Context, category string) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Item
	for _, item := range s.items {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *InMemoryStore) ListBySellerRoll(_ context.Context, roll string) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Item
	for _, item := range s.items {
		if item.Seller == roll {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *InMemoryStore) ListByIDs(_ context.Context, ids []domain.ItemID) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byID := make(map[domain.ItemID]Item, len(s.items))
	for _, item := range s.items {
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
