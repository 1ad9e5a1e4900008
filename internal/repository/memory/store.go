package memory

import (
	"sync/atomic"
	"time"

	"lpscout/internal/models"
)

// Store is an in-process PoolStore backed by an atomic pointer swap.
type Store struct {
	current atomic.Pointer[models.PoolSnapshot]
}

func New() *Store {
	s := &Store{}
	s.current.Store(&models.PoolSnapshot{})
	return s
}

func (s *Store) Load() models.PoolSnapshot {
	return *s.current.Load()
}

func (s *Store) Replace(pools []models.Pool, updatedAt time.Time) models.PoolSnapshot {
	ts := updatedAt
	snap := &models.PoolSnapshot{
		Pools:     append([]models.Pool(nil), pools...),
		UpdatedAt: &ts,
	}
	s.current.Store(snap)
	return *snap
}

func (s *Store) Clear() models.PoolSnapshot {
	prev := s.current.Load()
	snap := &models.PoolSnapshot{UpdatedAt: prev.UpdatedAt}
	s.current.Store(snap)
	return *snap
}
