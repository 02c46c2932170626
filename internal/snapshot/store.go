package snapshot

import (
	"sync"

	"MarketPulse/internal/model"
)

// Store holds the most recent evaluation, optionally mirrored to disk.
type Store struct {
	mu       sync.RWMutex
	last     *model.Evaluation
	filePath string
}

// NewStore creates a Store, loading the previous snapshot from filePath if there is one.
// An empty filePath keeps the store in memory only.
func NewStore(filePath string) (*Store, error) {
	s := &Store{filePath: filePath}
	if filePath == "" {
		return s, nil
	}
	ev, err := Load(filePath)
	if err != nil {
		return nil, err
	}
	s.last = ev
	return s, nil
}

// Latest returns the most recent evaluation, or nil before the first cycle.
func (s *Store) Latest() *model.Evaluation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Put replaces the latest evaluation and persists it.
// The in-memory value is updated even if the write fails.
func (s *Store) Put(ev *model.Evaluation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = ev
	if s.filePath == "" {
		return nil
	}
	return Save(s.filePath, ev)
}
