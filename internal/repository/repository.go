package repository

import (
	"time"

	"lpscout/internal/models"
)

// PoolStore holds the current generation of enriched pools.
// Implementations publish whole snapshots; readers never see a partial update.
type PoolStore interface {
	Load() models.PoolSnapshot
	Replace(pools []models.Pool, updatedAt time.Time) models.PoolSnapshot
	// Clear empties the pool list but keeps the last successful update time.
	Clear() models.PoolSnapshot
}
