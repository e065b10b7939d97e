package inmem

import (
	"context"
	"sync"

	"github.com/rafidain/schoollink/core"
)

// Store keeps records in process memory; nothing survives a restart.
type Store struct {
	mu    sync.RWMutex
	table map[string][]byte
}

var _ core.RecordStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{table: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.table[key]
	if !ok {
		return nil, core.ErrRecordNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *Store) Put(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table[key] = append([]byte(nil), data...)
	return nil
}
