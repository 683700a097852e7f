package userrecord

import (
	"context"
	"sync"

	"unitrader/pkg/domain"
	"unitrader/pkg/platform/sentinel"
)

// InMemoryStore keeps records in a map. Default for development and tests;
// deployments that want records to survive restarts use RedisStore.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[domain.UserID]Record
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{records: make(map[domain.UserID]Record)}
}

func (s *InMemoryStore) Save(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.UserID) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.records[id]; ok {
		return rec, nil
	}
	return Record{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) Delete(_ context.Context, id domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}
