package repositories

import (
	"context"
	"time"

	"github.com/coldchain/planner/pkg/domain/entities"
)

// ForecastRepository exposes the external demand forecast as a date-keyed
// lookup. The provider behind it (spreadsheet, database) is not the
// planner's concern.
type ForecastRepository interface {
	// DemandOn returns all demand records for one day.
	DemandOn(ctx context.Context, date time.Time) ([]entities.DemandRecord, error)

	// DemandBetween returns all demand records within [start, end].
	DemandBetween(ctx context.Context, start, end time.Time) ([]entities.DemandRecord, error)
}
