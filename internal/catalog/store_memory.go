package catalog

import (
	"context"
	"sync"
)

// MemSource serves a fixed list held in memory.
type MemSource struct {
	mu      sync.RWMutex
	records []ProductRecord
	err     error
}

func NewMemSource(records ...ProductRecord) *MemSource {
	return &MemSource{records: records}
}

func (s *MemSource) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *MemSource) Records(ctx context.Context) ([]ProductRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, s.err
	}
	out := make([]ProductRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

// Replace swaps the list; a non-nil err makes every read fail with it.
func (s *MemSource) Replace(records []ProductRecord, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.err = err
}
