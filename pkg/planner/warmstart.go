package planner

import (
	"fmt"
	"math"
	"time"

	"github.com/coldchain/planner/pkg/domain/entities"
	"github.com/coldchain/planner/pkg/milp"
	"github.com/coldchain/planner/pkg/solve"
)

// Rolling-window warmstart: day N's horizon [N, N+H-1] and day N+1's
// horizon [N+1, N+H] overlap on H-1 literal calendar days, and variable
// keys are identical for the overlap. Extraction captures every variable;
// projection keeps the key-set intersection as-is (no date shifting — the
// overlapping days are the same dates in both models), and completion
// fills the one new day with a conservative do-nothing extension so the
// adapter receives the complete point its hot-start contract requires.

// Extract captures every variable's value from a solved model, with
// solver numerical noise snapped to exact values. The returned assignment
// is complete by construction and must be treated as immutable: it is the
// only state handed across planning cycles.
func Extract(plan *Plan, res solve.Result) (milp.Assignment, error) {
	if res.Values == nil {
		return nil, fmt.Errorf("cannot extract from a solve with no values (status %s)", res.Status)
	}
	if !res.Values.Covers(plan.Model) {
		return nil, fmt.Errorf("solve values do not cover the model")
	}
	return res.Values.Snap(milp.DefaultEpsilon), nil
}

// Project returns the subset of the assignment whose keys exist in the
// next plan's variable space. Keys referencing dates outside the new
// horizon drop out naturally because their variables do not exist there.
// An empty intersection means the models share no structure (topology
// changed); that is a WarmstartIncompatibleError the orchestrator handles
// by solving cold.
func Project(a milp.Assignment, next *Plan) (milp.Assignment, error) {
	if len(a) == 0 {
		return nil, &WarmstartIncompatibleError{Reason: "empty source assignment"}
	}
	out := make(milp.Assignment)
	for k, v := range a {
		if next.Model.HasVariable(k) {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil, &WarmstartIncompatibleError{Reason: "no overlap with the new model's variable space"}
	}
	return out, nil
}

// CompleteHint extends a projected assignment to every variable of the
// plan. Variables the projection did not cover — the newly introduced day,
// plus any cohorts the realized inventory update created — get a
// conservative extension: no production, no flows, inventory carried
// forward through the balance recursion, shortage absorbing uncovered
// demand, pallet and truck integers at their ceilings. The result is a
// complete point; whether it is feasible after the initial-inventory
// update is the adapter's check to make.
func CompleteHint(plan *Plan, projected milp.Assignment) milp.Assignment {
	out := projected.Clone()

	// Default every missing flow and indicator to zero.
	for _, v := range plan.Model.Variables() {
		if _, ok := out[v.Key]; !ok {
			out[v.Key] = 0
		}
	}

	// The first day's start rows force start = produced because the previous
	// day is outside the horizon. A projection captured when that day still
	// had a predecessor can carry produced=1 with start=0 for a run that
	// began earlier, so the first-day starts are re-derived, not carried.
	for _, batch := range plan.batches {
		if !batch.Date.Equal(plan.Horizon.Start) {
			continue
		}
		out[keyStart(batch)] = out[keyProduced(batch)]
	}

	flows := plan.flowIndex()

	// Inventory follows the balance recursion day by day.
	for c, from := range plan.cohorts {
		first := from
		if first.Before(plan.Horizon.Start) {
			first = plan.Horizon.Start
		}
		for d := first; !d.After(plan.Horizon.End); d = d.AddDate(0, 0, 1) {
			key := keyInventory(c, d)
			if _, ok := projected[key]; ok {
				continue
			}
			level := 0.0
			if d.Equal(first) {
				level = plan.Request.InitialInventory[c]
			} else {
				level = out[keyInventory(c, d.AddDate(0, 0, -1))]
			}
			for _, t := range flows[cohortDay{Cohort: c, Date: d}] {
				// Balance terms carry +1 for outflows, -1 for inflows.
				level -= t.Coef * out[t.Key]
			}
			if level < 0 {
				level = 0
			}
			out[key] = level
		}
	}

	// Shortage picks up whatever consumption does not cover.
	for _, dem := range plan.demands {
		key := keyShortage(dem.Node, dem.Product, dem.Date)
		if _, ok := projected[key]; ok {
			continue
		}
		served := 0.0
		for _, c := range plan.eligibleCohorts(dem.Node, dem.Product, dem.Date) {
			served += out[keyConsume(c, dem.Date)]
		}
		short := dem.Quantity - served
		if short < 0 {
			short = 0
		}
		out[key] = short
	}

	// Pallet ceilings from the completed inventory levels.
	for c, days := range plan.palletVars {
		p := plan.product(c.Product)
		for _, d := range days {
			key := keyPallets(c, d)
			if _, ok := projected[key]; ok {
				continue
			}
			out[key] = math.Ceil(out[keyInventory(c, d)]/float64(p.UnitsPerPallet) - milp.DefaultEpsilon)
		}
	}

	// Truck ceilings from the completed shipment volumes.
	type legDay struct {
		leg string
		day time.Time
	}
	pallets := make(map[legDay]float64)
	caps := make(map[legDay]float64)
	for _, s := range plan.shipments {
		p := plan.product(s.Cohort.Product)
		ld := legDay{leg: s.Leg.Key(), day: s.DepartDate}
		pallets[ld] += out[keyShipment(s)] / float64(p.UnitsPerPallet)
		caps[ld] = float64(s.Leg.VehicleCapacityPallets)
	}
	for ld, volume := range pallets {
		for _, s := range plan.shipments {
			if s.Leg.Key() != ld.leg || !s.DepartDate.Equal(ld.day) {
				continue
			}
			key := keyTrucks(s.Leg, s.DepartDate)
			if _, ok := projected[key]; !ok {
				out[key] = math.Ceil(volume/caps[ld] - milp.DefaultEpsilon)
			}
			break
		}
	}

	return out
}

// product looks up a product from the originating request.
func (p *Plan) product(id entities.ProductID) *entities.Product {
	for _, prod := range p.Request.Products {
		if prod.ID == id {
			return prod
		}
	}
	return nil
}

// eligibleCohorts lists the cohorts a demand record may draw from: at the
// right node, available by the demand date and not past shelf life.
func (p *Plan) eligibleCohorts(node entities.NodeID, product entities.ProductID, date time.Time) []entities.CohortKey {
	prod := p.product(product)
	var out []entities.CohortKey
	for c, from := range p.cohorts {
		if c.Node != node || c.Product != product {
			continue
		}
		if from.After(date) || c.ExpiredOn(date, prod) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// flowIndex rebuilds the balance-row flow terms per cohort-day from the
// plan registries, for the completion recursion.
func (p *Plan) flowIndex() map[cohortDay][]milp.Term {
	flows := make(map[cohortDay][]milp.Term)
	add := func(c entities.CohortKey, d time.Time, t milp.Term) {
		cd := cohortDay{Cohort: c, Date: d}
		flows[cd] = append(flows[cd], t)
	}
	for _, batch := range p.batches {
		prod := p.product(batch.Product)
		c := entities.NewCohortKey(batch.Node, batch.Product, batch.Date, prod.InitialState)
		add(c, batch.Date, milp.Term{Coef: -1, Key: keyProduction(batch)})
	}
	for _, s := range p.shipments {
		add(s.Cohort, s.DepartDate, milp.Term{Coef: 1, Key: keyShipment(s)})
		dest := entities.NewCohortKey(s.Leg.Dest, s.Cohort.Product, s.Cohort.BirthDate, s.Cohort.State)
		add(dest, s.ArrivalDate(), milp.Term{Coef: -1, Key: keyShipment(s)})
	}
	for _, t := range p.transitions {
		key := keyTransition(t.Cohort, t.To, t.Date)
		add(t.Cohort, t.Date, milp.Term{Coef: 1, Key: key})
		born := entities.NewCohortKey(t.Cohort.Node, t.Cohort.Product, t.Date, t.To)
		add(born, t.Date, milp.Term{Coef: -1, Key: key})
	}
	for _, dem := range p.demands {
		for _, c := range p.eligibleCohorts(dem.Node, dem.Product, dem.Date) {
			add(c, dem.Date, milp.Term{Coef: 1, Key: keyConsume(c, dem.Date)})
		}
	}
	return flows
}
