package repositories

import (
	"context"
	"time"

	"github.com/coldchain/planner/pkg/domain/entities"
)

// LaborRepository exposes the labor calendar as a date-keyed lookup.
type LaborRepository interface {
	// HoursOn returns the labor calendar entry for a manufacturing node on
	// one day. Days without an entry have zero available hours.
	HoursOn(ctx context.Context, node entities.NodeID, date time.Time) (*entities.LaborDay, error)

	// CalendarBetween returns all entries within [start, end] for all nodes.
	CalendarBetween(ctx context.Context, start, end time.Time) ([]entities.LaborDay, error)
}
