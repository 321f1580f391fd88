package store

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	ants        map[string]AntRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.ants = make(map[string]AntRecord)
	return nil
}

func (s *MemoryStore) SaveAnt(_ context.Context, record AntRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	if record.ID == "" {
		return errors.New("ant record requires an id")
	}
	s.ants[record.ID] = record
	return nil
}

func (s *MemoryStore) GetAnt(_ context.Context, id string) (AntRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.ants[id]
	return record, ok, nil
}

func (s *MemoryStore) ListAnts(_ context.Context, runID string) ([]AntRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []AntRecord
	for _, record := range s.ants {
		if record.RunID == runID {
			out = append(out, record)
		}
	}
	slices.SortFunc(out, compareRecords)
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// compareRecords orders records fittest first, then by ID.
func compareRecords(a, b AntRecord) int {
	if c := cmp.Compare(b.Fitness, a.Fitness); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
