package memory

import (
	"context"
	"sync"
	"time"

	"github.com/coldchain/planner/pkg/domain/entities"
	"github.com/coldchain/planner/pkg/domain/repositories"
)

// InventoryRepository tracks realized ending inventory per execution day
// in memory. Unlike the static catalog repositories it is written between
// planning cycles, so access is guarded.
type InventoryRepository struct {
	mu     sync.RWMutex
	byDate map[time.Time]map[entities.CohortKey]float64
}

// NewInventoryRepository creates a new in-memory inventory repository
func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{
		byDate: make(map[time.Time]map[entities.CohortKey]float64),
	}
}

// Verify interface compliance
var _ repositories.InventoryRepository = (*InventoryRepository)(nil)

// EndingInventory returns realized cohort quantities at the end of a day.
// Days with no record return an empty map.
func (r *InventoryRepository) EndingInventory(ctx context.Context, date time.Time) (map[entities.CohortKey]float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	levels := r.byDate[entities.Midnight(date)]
	out := make(map[entities.CohortKey]float64, len(levels))
	for c, qty := range levels {
		out[c] = qty
	}
	return out, nil
}

// RecordEndingInventory stores the ending state for a day, replacing any
// prior record for the same day.
func (r *InventoryRepository) RecordEndingInventory(ctx context.Context, date time.Time, levels map[entities.CohortKey]float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := make(map[entities.CohortKey]float64, len(levels))
	for c, qty := range levels {
		if qty > 0 {
			stored[c] = qty
		}
	}
	r.byDate[entities.Midnight(date)] = stored
	return nil
}
