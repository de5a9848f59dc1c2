package planner

import (
	"sort"
	"time"

	"github.com/coldchain/planner/pkg/domain/entities"
	"github.com/coldchain/planner/pkg/milp"
	"github.com/coldchain/planner/pkg/solve"
)

const reportEpsilon = 1e-6

// AssembleResult turns a normalized solve outcome into the cohort-level
// plan the reporting layer consumes. An infeasible solve yields a result
// carrying only status and diagnostics.
func AssembleResult(plan *Plan, res solve.Result, warmstartCoverage float64) *OptimizationResult {
	out := &OptimizationResult{
		Status:    res.Status,
		Objective: res.Objective,
		Diagnostics: Diagnostics{
			Gap:               res.Gap,
			Elapsed:           res.Elapsed,
			Nodes:             res.Nodes,
			Warmstarted:       res.Warmstarted,
			WarmstartCoverage: warmstartCoverage,
			Variables:         plan.Model.NumVariables(),
			Constraints:       plan.Model.NumConstraints(),
		},
	}
	if res.Values == nil {
		return out
	}
	values := res.Values

	out.ProducedMatrix = make(map[entities.BatchKey]bool, len(plan.batches))
	for _, batch := range plan.batches {
		ran := values[keyProduced(batch)] > 0.5
		out.ProducedMatrix[batch] = ran
		if qty := values[keyProduction(batch)]; qty > reportEpsilon {
			out.Production = append(out.Production, ProductionEntry{Batch: batch, Quantity: qty})
		}
	}

	for c, from := range plan.cohorts {
		first := from
		if first.Before(plan.Horizon.Start) {
			first = plan.Horizon.Start
		}
		for d := first; !d.After(plan.Horizon.End); d = d.AddDate(0, 0, 1) {
			if qty := values[keyInventory(c, d)]; qty > reportEpsilon {
				out.Inventory = append(out.Inventory, entities.InventoryLevel{Cohort: c, Date: d, Quantity: qty})
			}
		}
	}
	sort.Slice(out.Inventory, func(i, j int) bool {
		a, b := out.Inventory[i], out.Inventory[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.Cohort.String() < b.Cohort.String()
	})

	for _, s := range plan.shipments {
		if qty := values[keyShipment(s)]; qty > reportEpsilon {
			out.Shipments = append(out.Shipments, ShipmentEntry{
				Leg:        s.Leg.Key(),
				Product:    s.Cohort.Product,
				BirthDate:  s.Cohort.BirthDate,
				State:      s.Cohort.State,
				DepartDate: s.DepartDate,
				Quantity:   qty,
			})
		}
	}

	for _, d := range plan.demands {
		if qty := values[keyShortage(d.Node, d.Product, d.Date)]; qty > reportEpsilon {
			out.Shortages = append(out.Shortages, ShortageEntry{Node: d.Node, Product: d.Product, Date: d.Date, Quantity: qty})
		}
	}

	return out
}

// EndingInventory reads the planned cohort levels at the close of one day,
// in the shape the inventory repository records between cycles.
func EndingInventory(plan *Plan, values milp.Assignment, date time.Time) map[entities.CohortKey]float64 {
	date = entities.Midnight(date)
	out := make(map[entities.CohortKey]float64)
	for c, from := range plan.cohorts {
		first := from
		if first.Before(plan.Horizon.Start) {
			first = plan.Horizon.Start
		}
		if date.Before(first) || date.After(plan.Horizon.End) {
			continue
		}
		if qty := values[keyInventory(c, date)]; qty > reportEpsilon {
			out[c] = qty
		}
	}
	return out
}
