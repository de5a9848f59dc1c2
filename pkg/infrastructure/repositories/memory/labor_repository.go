package memory

import (
	"context"
	"time"

	"github.com/coldchain/planner/pkg/domain/entities"
	"github.com/coldchain/planner/pkg/domain/repositories"
)

// LaborRepository provides in-memory labor calendar storage
type LaborRepository struct {
	entries []entities.LaborDay
}

// NewLaborRepository creates a new in-memory labor repository
func NewLaborRepository() *LaborRepository {
	return &LaborRepository{
		entries: []entities.LaborDay{},
	}
}

// Verify interface compliance
var _ repositories.LaborRepository = (*LaborRepository)(nil)

// LoadCalendar loads labor calendar entries into the repository
func (r *LaborRepository) LoadCalendar(entries []entities.LaborDay) error {
	for _, e := range entries {
		e.Date = entities.Midnight(e.Date)
		r.entries = append(r.entries, e)
	}
	return nil
}

// HoursOn returns the calendar entry for a node on one day. Days without
// an entry yield nil, which the planner treats as zero available hours.
func (r *LaborRepository) HoursOn(ctx context.Context, node entities.NodeID, date time.Time) (*entities.LaborDay, error) {
	date = entities.Midnight(date)
	for i := range r.entries {
		e := &r.entries[i]
		if e.Node == node && e.Date.Equal(date) {
			return e, nil
		}
	}
	return nil, nil
}

// CalendarBetween returns all entries within [start, end] for all nodes
func (r *LaborRepository) CalendarBetween(ctx context.Context, start, end time.Time) ([]entities.LaborDay, error) {
	start, end = entities.Midnight(start), entities.Midnight(end)
	var out []entities.LaborDay
	for _, e := range r.entries {
		if !e.Date.Before(start) && !e.Date.After(end) {
			out = append(out, e)
		}
	}
	return out, nil
}
