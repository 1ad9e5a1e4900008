package service

import (
	"errors"
	"time"

	"lpscout/internal/models"
	"lpscout/internal/repository"
)

var ErrPoolNotFound = errors.New("pool not found")

// UnavailableError reports an empty cache together with the last successful update.
type UnavailableError struct {
	LastUpdate *time.Time
	Location   *time.Location
}

func (e *UnavailableError) Error() string {
	return "No data available. Last update: " + e.LastUpdateText()
}

// LastUpdateText renders the last update as a clock time, or "never".
func (e *UnavailableError) LastUpdateText() string {
	if e.LastUpdate == nil {
		return "never"
	}
	loc := e.Location
	if loc == nil {
		loc = time.UTC
	}
	return e.LastUpdate.In(loc).Format("3:04:05 PM")
}

// PoolQueryService serves reads from the in-memory snapshot; it never performs I/O.
type PoolQueryService struct {
	Store    repository.PoolStore
	Location *time.Location
}

// GetPools returns the cached pools verbatim, or *UnavailableError when the cache is empty.
func (s *PoolQueryService) GetPools() ([]models.Pool, error) {
	snap := s.Snapshot()
	if snap.Empty() {
		return nil, &UnavailableError{LastUpdate: snap.UpdatedAt, Location: s.Location}
	}
	return snap.Pools, nil
}

// FindPool looks up a cached pool by address.
func (s *PoolQueryService) FindPool(address string) (models.Pool, error) {
	pools, err := s.GetPools()
	if err != nil {
		return models.Pool{}, err
	}
	for _, p := range pools {
		if p.Address == address {
			return p, nil
		}
	}
	return models.Pool{}, ErrPoolNotFound
}

func (s *PoolQueryService) Snapshot() models.PoolSnapshot {
	if s == nil || s.Store == nil {
		return models.PoolSnapshot{}
	}
	return s.Store.Load()
}
