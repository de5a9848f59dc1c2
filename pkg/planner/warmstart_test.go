package planner

import (
	"errors"
	"math"
	"testing"

	"github.com/coldchain/planner/pkg/domain/entities"
	"github.com/coldchain/planner/pkg/milp"
	"github.com/coldchain/planner/pkg/solve"
)

func TestExtractRejectsMissingValues(t *testing.T) {
	plan := mustBuild(t, singleNodeRequest(t, 2, 100, 8))

	if _, err := Extract(plan, solve.Result{Status: solve.StatusInfeasible}); err == nil {
		t.Error("extraction from a valueless result accepted")
	}

	partial := milp.Assignment{keyShortage("PLANT", "PIZZA", plan.Horizon.Start): 100}
	if _, err := Extract(plan, solve.Result{Status: solve.StatusFeasible, Values: partial}); err == nil {
		t.Error("extraction from a partial result accepted")
	}
}

func TestExtractSnapsSolverNoise(t *testing.T) {
	plan := mustBuild(t, singleNodeRequest(t, 2, 100, 8))
	a := GreedyAssignment(plan)

	batch := entities.NewBatchKey("PLANT", "PIZZA", plan.Horizon.Start)
	noisy := a.Clone()
	noisy[keyProduced(batch)] = 1.0000000001
	noisy[keyShortage("PLANT", "PIZZA", plan.Horizon.Start)] = 2.3e-9

	extracted, err := Extract(plan, solve.Result{Status: solve.StatusOptimal, Values: noisy})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if got := extracted[keyProduced(batch)]; got != 1 {
		t.Errorf("run indicator = %g, want exactly 1", got)
	}
	if got := extracted[keyShortage("PLANT", "PIZZA", plan.Horizon.Start)]; got != 0 {
		t.Errorf("shortage = %g, want exactly 0", got)
	}
}

func TestProjectIncompatibility(t *testing.T) {
	plan := mustBuild(t, singleNodeRequest(t, 2, 100, 8))

	var incompatible *WarmstartIncompatibleError
	if _, err := Project(nil, plan); !errors.As(err, &incompatible) {
		t.Errorf("empty source did not produce an incompatibility error: %v", err)
	}

	foreign := milp.Assignment{"prd|OTHER|WIDGET|2026-09-01": 5}
	if _, err := Project(foreign, plan); !errors.As(err, &incompatible) {
		t.Errorf("disjoint key space did not produce an incompatibility error: %v", err)
	}
}

func TestProjectKeepsOnlySharedKeys(t *testing.T) {
	req1 := singleNodeRequest(t, 3, 100, 8)
	plan1 := mustBuild(t, req1)
	extracted := GreedyAssignment(plan1)

	req2 := singleNodeRequest(t, 3, 100, 8)
	req2.Horizon = req2.Horizon.Shift(1)
	shiftForecastAndLabor(req2, 1)
	plan2 := mustBuild(t, req2)

	projected, err := Project(extracted, plan2)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if len(projected) == 0 || len(projected) >= len(extracted) {
		t.Fatalf("projected %d of %d keys, want a strict non-empty subset", len(projected), len(extracted))
	}
	for k := range projected {
		if !plan2.Model.HasVariable(k) {
			t.Errorf("projected key %s has no variable in the new model", k)
		}
	}

	// Day one of the old horizon is behind the new one; its batch must
	// drop out.
	gone := entities.NewBatchKey("PLANT", "PIZZA", req1.Horizon.Start)
	if _, ok := projected[keyProduction(gone)]; ok {
		t.Error("projection kept a variable from the retired day")
	}
}

// TestWarmstartRoundTripAcrossCycles walks a full cycle boundary: solve
// day N (here the greedy baseline stands in for the engine), extract,
// project onto day N+1's shifted horizon, complete, and verify the hint
// is a feasible complete point for the new model.
func TestWarmstartRoundTripAcrossCycles(t *testing.T) {
	req1 := singleNodeRequest(t, 3, 100, 8)
	// Idle first day, so the overlapping days carry a run that starts
	// inside the overlap.
	req1.Forecast = req1.Forecast[1:]
	plan1 := mustBuild(t, req1)

	values := GreedyAssignment(plan1)
	if err := values.Check(plan1.Model, 0); err != nil {
		t.Fatalf("baseline infeasible: %v", err)
	}
	extracted, err := Extract(plan1, solve.Result{Status: solve.StatusOptimal, Values: values})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	req2 := singleNodeRequest(t, 3, 100, 8)
	req2.Horizon = req2.Horizon.Shift(1)
	shiftForecastAndLabor(req2, 1)
	req2.InitialInventory = EndingInventory(plan1, extracted, req1.Horizon.Start)
	plan2 := mustBuild(t, req2)

	projected, err := Project(extracted, plan2)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	coverage := projected.CoverageOf(plan2.Model)
	if coverage <= 0 || coverage >= 1 {
		t.Errorf("coverage = %g, want strictly between 0 and 1", coverage)
	}

	hint := CompleteHint(plan2, projected)
	if !hint.Covers(plan2.Model) {
		t.Fatal("completed hint does not cover the model")
	}
	if err := hint.Check(plan2.Model, 0); err != nil {
		t.Fatalf("completed hint infeasible: %v", err)
	}

	// The overlap days keep their planned production; the newly revealed
	// day defaults to doing nothing, with shortage absorbing its demand.
	for _, d := range []int{1, 2} {
		day := req1.Horizon.Start.AddDate(0, 0, d)
		batch := entities.NewBatchKey("PLANT", "PIZZA", day)
		if got := hint[keyProduction(batch)]; math.Abs(got-100) > 1e-6 {
			t.Errorf("carried production on day %d = %g, want 100", d, got)
		}
	}
	newDay := req2.Horizon.End
	if got := hint[keyProduction(entities.NewBatchKey("PLANT", "PIZZA", newDay))]; got != 0 {
		t.Errorf("new-day production = %g, want 0", got)
	}
	if got := hint[keyShortage("PLANT", "PIZZA", newDay)]; math.Abs(got-100) > 1e-6 {
		t.Errorf("new-day shortage = %g, want 100", got)
	}
}

// TestWarmstartCarriesRunSpanningCycleBoundary covers steady production: a
// run active on every day of the old horizon reaches the new horizon's
// first day as a carried run indicator whose start was captured on an
// earlier, now retired day. Completion must re-derive that start, otherwise
// the first-day rows reject the whole hint and the cycle solves cold.
func TestWarmstartCarriesRunSpanningCycleBoundary(t *testing.T) {
	req1 := singleNodeRequest(t, 3, 100, 8)
	plan1 := mustBuild(t, req1)

	values := GreedyAssignment(plan1)
	if err := values.Check(plan1.Model, 0); err != nil {
		t.Fatalf("baseline infeasible: %v", err)
	}
	extracted, err := Extract(plan1, solve.Result{Status: solve.StatusOptimal, Values: values})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	req2 := singleNodeRequest(t, 3, 100, 8)
	req2.Horizon = req2.Horizon.Shift(1)
	shiftForecastAndLabor(req2, 1)
	req2.InitialInventory = EndingInventory(plan1, extracted, req1.Horizon.Start)
	plan2 := mustBuild(t, req2)

	projected, err := Project(extracted, plan2)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	firstBatch := entities.NewBatchKey("PLANT", "PIZZA", req2.Horizon.Start)
	if got := projected[keyProduced(firstBatch)]; got != 1 {
		t.Fatalf("carried run indicator = %g, want 1", got)
	}
	if got := projected[keyStart(firstBatch)]; got != 0 {
		t.Fatalf("carried start = %g, want 0 before completion", got)
	}

	hint := CompleteHint(plan2, projected)
	if got := hint[keyStart(firstBatch)]; got != 1 {
		t.Errorf("re-derived first-day start = %g, want 1", got)
	}
	if !hint.Covers(plan2.Model) {
		t.Fatal("completed hint does not cover the model")
	}
	if err := hint.Check(plan2.Model, 0); err != nil {
		t.Fatalf("completed hint infeasible: %v", err)
	}
}

func TestCompleteHintCarriesRealizedInventory(t *testing.T) {
	req := singleNodeRequest(t, 3, 0, 8)
	cohort := entities.NewCohortKey("PLANT", "PIZZA", req.Horizon.Start.AddDate(0, 0, -2), entities.Frozen)
	req.InitialInventory = map[entities.CohortKey]float64{cohort: 75}
	plan := mustBuild(t, req)

	hint := CompleteHint(plan, milp.Assignment{})
	if err := hint.Check(plan.Model, 0); err != nil {
		t.Fatalf("completed hint infeasible: %v", err)
	}
	if got := hint[keyInventory(cohort, req.Horizon.End)]; math.Abs(got-75) > 1e-6 {
		t.Errorf("final inventory = %g, want 75", got)
	}
}

// shiftForecastAndLabor moves every forecast and labor date by the given
// number of days, matching a shifted horizon.
func shiftForecastAndLabor(req *PlanningRequest, days int) {
	for i := range req.Forecast {
		req.Forecast[i].Date = req.Forecast[i].Date.AddDate(0, 0, days)
	}
	for i := range req.Labor {
		req.Labor[i].Date = req.Labor[i].Date.AddDate(0, 0, days)
	}
}
