package planner

import (
	"sort"

	"github.com/coldchain/planner/pkg/domain/entities"
	"github.com/coldchain/planner/pkg/milp"
)

// GreedyAssignment builds a feasible point without a solver: produce each
// day's demand on the day it is due, at the demanding node, within that
// day's labor; whatever cannot be made locally becomes shortage. Initial
// stock carries forward untouched. It is a baseline for objective
// comparisons and a stand-in solve result in tests, not a planning
// strategy: it never ships, never transitions and never builds ahead.
func GreedyAssignment(plan *Plan) milp.Assignment {
	req := plan.Request

	type nodeDate struct {
		node entities.NodeID
		date string
	}
	remaining := make(map[nodeDate]float64)
	for _, l := range req.Labor {
		remaining[nodeDate{node: l.Node, date: entities.FormatDate(l.Date)}] += l.Hours
	}
	changeover := make(map[entities.NodeID]float64)
	manufacturing := make(map[entities.NodeID]bool)
	for _, n := range req.Nodes {
		changeover[n.ID] = n.ChangeoverHours
		manufacturing[n.ID] = n.Role == entities.Manufacturing
	}

	batches := make(map[entities.BatchKey]bool, len(plan.batches))
	for _, b := range plan.batches {
		batches[b] = true
	}

	partial := make(milp.Assignment)
	produced := make(map[entities.BatchKey]float64)
	for _, dem := range req.Forecast {
		if !manufacturing[dem.Node] {
			continue
		}
		batch := entities.NewBatchKey(dem.Node, dem.Product, dem.Date)
		if !batches[batch] {
			continue
		}
		p := productByID(req.Products, dem.Product)
		nd := nodeDate{node: dem.Node, date: entities.FormatDate(dem.Date)}
		if produced[batch] == 0 {
			// Reserve the changeover window up front so the labor row
			// holds whether or not a start fires.
			remaining[nd] -= changeover[dem.Node]
		}
		avail := remaining[nd] * p.UnitsPerHour
		if avail < 0 {
			avail = 0
		}
		q := dem.Quantity
		if q > avail {
			q = avail
		}
		if q <= 0 {
			continue
		}
		produced[batch] += q
		remaining[nd] -= q / p.UnitsPerHour
		cohort := entities.NewCohortKey(dem.Node, dem.Product, dem.Date, p.InitialState)
		partial[keyConsume(cohort, dem.Date)] += q
	}

	type runSeries struct {
		node    entities.NodeID
		product entities.ProductID
	}
	bySeries := make(map[runSeries][]entities.BatchKey)
	for b := range produced {
		s := runSeries{node: b.Node, product: b.Product}
		bySeries[s] = append(bySeries[s], b)
	}
	ran := make(map[entities.BatchKey]bool)
	for b, q := range produced {
		partial[keyProduction(b)] = q
		partial[keyProduced(b)] = 1
		ran[b] = true
	}
	for _, series := range bySeries {
		sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
		for _, b := range series {
			prev := entities.NewBatchKey(b.Node, b.Product, b.Date.AddDate(0, 0, -1))
			if !ran[prev] {
				partial[keyStart(b)] = 1
			}
		}
	}

	return CompleteHint(plan, partial)
}

func productByID(products []*entities.Product, id entities.ProductID) *entities.Product {
	for _, p := range products {
		if p.ID == id {
			return p
		}
	}
	return nil
}
