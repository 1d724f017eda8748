// Package store keeps parsed steps for the duration of a run.
package store

import (
	"sync"

	"go.trai.ch/nixdiff/internal/adapters/derivation"
	"go.trai.ch/nixdiff/internal/core/domain"
	"go.trai.ch/nixdiff/internal/core/ports"
	"golang.org/x/sync/singleflight"
)

var _ ports.StepStore = (*Store)(nil)

type entry struct {
	step *domain.Step
	err  error
}

// Store loads and parses each step at most once. Failed loads are remembered
// as well and are not retried. It is safe for concurrent use.
type Store struct {
	reader ports.StepReader

	mu      sync.RWMutex
	entries map[domain.StepID]entry

	group singleflight.Group
}

// New creates a Store reading step descriptions through reader.
func New(reader ports.StepReader) *Store {
	return &Store{
		reader:  reader,
		entries: make(map[domain.StepID]entry),
	}
}

// Load returns the parsed step for id. Errors are *domain.StepLoadError.
func (s *Store) Load(id domain.StepID) (*domain.Step, error) {
	if e, ok := s.get(id); ok {
		return e.step, e.err
	}

	// Concurrent first loads of the same id share one read and parse.
	v, _, _ := s.group.Do(id.String(), func() (any, error) {
		if e, ok := s.get(id); ok {
			return e, nil
		}
		e := s.load(id)
		s.mu.Lock()
		s.entries[id] = e
		s.mu.Unlock()
		return e, nil
	})

	e := v.(entry)
	return e.step, e.err
}

// Len returns the number of steps loaded so far, failed ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) get(id domain.StepID) (entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	return e, ok
}

func (s *Store) load(id domain.StepID) entry {
	data, err := s.reader.ReadStep(id)
	if err != nil {
		return entry{err: &domain.StepLoadError{Step: id, Err: err}}
	}
	step, err := derivation.Parse(data)
	if err != nil {
		return entry{err: &domain.StepLoadError{Step: id, Err: err}}
	}
	return entry{step: step}
}
