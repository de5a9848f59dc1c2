package repositories

import (
	"context"
	"time"

	"github.com/coldchain/planner/pkg/domain/entities"
)

// InventoryRepository tracks realized ending inventory per execution day.
// Each planning cycle seeds its model from the *realized* ending state of
// the previous day, not the previously planned one; that is how real-world
// deviations are absorbed into the next solve.
type InventoryRepository interface {
	// EndingInventory returns realized cohort quantities at the end of the
	// given day. An empty map means no stock (a valid cold-start state).
	EndingInventory(ctx context.Context, date time.Time) (map[entities.CohortKey]float64, error)

	// RecordEndingInventory stores the realized (or, absent execution data,
	// planned) ending state for a day, replacing any prior record.
	RecordEndingInventory(ctx context.Context, date time.Time, levels map[entities.CohortKey]float64) error
}
