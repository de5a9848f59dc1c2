package memory

import (
	"context"
	"time"

	"github.com/coldchain/planner/pkg/domain/entities"
	"github.com/coldchain/planner/pkg/domain/repositories"
)

// ForecastRepository provides in-memory forecast storage
type ForecastRepository struct {
	records []entities.DemandRecord
}

// NewForecastRepository creates a new in-memory forecast repository
func NewForecastRepository() *ForecastRepository {
	return &ForecastRepository{
		records: []entities.DemandRecord{},
	}
}

// Verify interface compliance
var _ repositories.ForecastRepository = (*ForecastRepository)(nil)

// LoadDemand loads demand records into the repository
func (r *ForecastRepository) LoadDemand(records []entities.DemandRecord) error {
	for _, rec := range records {
		rec.Date = entities.Midnight(rec.Date)
		r.records = append(r.records, rec)
	}
	return nil
}

// DemandOn returns all demand records for one day
func (r *ForecastRepository) DemandOn(ctx context.Context, date time.Time) ([]entities.DemandRecord, error) {
	date = entities.Midnight(date)
	var out []entities.DemandRecord
	for _, rec := range r.records {
		if rec.Date.Equal(date) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// DemandBetween returns all demand records within [start, end]
func (r *ForecastRepository) DemandBetween(ctx context.Context, start, end time.Time) ([]entities.DemandRecord, error) {
	start, end = entities.Midnight(start), entities.Midnight(end)
	var out []entities.DemandRecord
	for _, rec := range r.records {
		if !rec.Date.Before(start) && !rec.Date.After(end) {
			out = append(out, rec)
		}
	}
	return out, nil
}
