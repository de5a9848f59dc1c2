package rolling

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/coldchain/planner/pkg/domain/entities"
	"github.com/coldchain/planner/pkg/infrastructure/events"
	testinfra "github.com/coldchain/planner/pkg/infrastructure/testing"
	"github.com/coldchain/planner/pkg/milp"
	"github.com/coldchain/planner/pkg/solve"
)

// stubSolver records whether each call carried a warmstart hint and
// returns a zero-valued complete assignment, which is all the
// orchestration contract needs.
type stubSolver struct {
	hinted      []bool
	rejectHints bool
	// degradeHints mimics the adapter finding a hint infeasible and
	// solving cold internally.
	degradeHints bool
	infeasible   bool
}

func (s *stubSolver) Solve(ctx context.Context, m *milp.Model, opts solve.Options, warmstart milp.Assignment) (solve.Result, error) {
	s.hinted = append(s.hinted, warmstart != nil)
	if warmstart != nil && s.rejectHints {
		return solve.Result{}, solve.ErrIncompleteWarmstart
	}
	if s.infeasible {
		return solve.Result{Status: solve.StatusInfeasible, Gap: solve.GapUnknown, Nodes: -1}, nil
	}
	values := make(milp.Assignment, m.NumVariables())
	for _, v := range m.Variables() {
		values[v.Key] = 0
	}
	return solve.Result{
		Status:      solve.StatusOptimal,
		Objective:   0,
		Values:      values,
		Gap:         0,
		Nodes:       1,
		Warmstarted: warmstart != nil && !s.degradeHints,
	}, nil
}

func testOrchestrator(t *testing.T, solver Solver, store events.EventStore) *Orchestrator {
	t.Helper()
	start := entities.Day(2026, time.September, 1)
	req := testinfra.SingleNodeScenario(start, 10, 100, 8)
	network, products, forecast, labor, inventory := testinfra.LoadedRepositories(req)

	orch, err := NewOrchestrator(Config{
		Solver:      solver,
		Network:     network,
		Products:    products,
		Forecast:    forecast,
		Labor:       labor,
		Inventory:   inventory,
		Store:       store,
		Costs:       testinfra.DefaultCosts(),
		HorizonDays: 3,
		SolveOpts:   solve.Options{TimeLimit: time.Minute},
		Logger:      zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("NewOrchestrator failed: %v", err)
	}
	return orch
}

func TestNewOrchestratorValidation(t *testing.T) {
	start := entities.Day(2026, time.September, 1)
	req := testinfra.SingleNodeScenario(start, 3, 100, 8)
	network, products, forecast, labor, inventory := testinfra.LoadedRepositories(req)

	base := func() Config {
		return Config{
			Solver:      &stubSolver{},
			Network:     network,
			Products:    products,
			Forecast:    forecast,
			Labor:       labor,
			Inventory:   inventory,
			Costs:       testinfra.DefaultCosts(),
			HorizonDays: 3,
			Logger:      zerolog.Nop(),
		}
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing solver", func(c *Config) { c.Solver = nil }},
		{"missing repository", func(c *Config) { c.Inventory = nil }},
		{"zero horizon", func(c *Config) { c.HorizonDays = 0 }},
		{"invalid costs", func(c *Config) { c.Costs = entities.CostStructure{Mode: entities.PalletStorage} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			if _, err := NewOrchestrator(cfg); err == nil {
				t.Error("expected configuration to be rejected")
			}
		})
	}
}

func TestRunCarriesWarmstartAcrossCycles(t *testing.T) {
	solver := &stubSolver{}
	store := events.NewInMemoryEventStore(zerolog.Nop())
	orch := testOrchestrator(t, solver, store)

	start := entities.Day(2026, time.September, 1)
	results, err := orch.Run(context.Background(), start, 2)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	for i, res := range results {
		if !res.Advanced {
			t.Errorf("cycle %d did not advance", i)
		}
		if res.Result.Status != solve.StatusOptimal {
			t.Errorf("cycle %d status = %v", i, res.Result.Status)
		}
		if res.CycleID == "" {
			t.Errorf("cycle %d has no id", i)
		}
	}
	if !results[1].ExecutionDay.Equal(start.AddDate(0, 0, 1)) {
		t.Errorf("second execution day = %v", results[1].ExecutionDay)
	}

	// First cycle solves cold; the second carries the projected solution.
	want := []bool{false, true}
	if len(solver.hinted) != len(want) {
		t.Fatalf("solver called %d times, want %d", len(solver.hinted), len(want))
	}
	for i := range want {
		if solver.hinted[i] != want[i] {
			t.Errorf("call %d hinted = %v, want %v", i, solver.hinted[i], want[i])
		}
	}

	if got := orch.Phase(); got != PhaseIdle {
		t.Errorf("phase after run = %v, want idle", got)
	}

	advanced := 0
	for _, res := range results {
		evts, err := store.ReadEvents(res.CycleID, 0)
		if err != nil {
			t.Fatalf("ReadEvents failed: %v", err)
		}
		if len(evts) == 0 {
			t.Errorf("cycle %s published no events", res.CycleID)
		}
		for _, e := range evts {
			if e.Type() == events.CycleAdvancedEvent {
				advanced++
			}
		}
	}
	if advanced != 2 {
		t.Errorf("cycle.advanced events = %d, want 2", advanced)
	}
}

func TestInfeasibleCycleDoesNotAdvance(t *testing.T) {
	solver := &stubSolver{infeasible: true}
	orch := testOrchestrator(t, solver, events.NewInMemoryEventStore(zerolog.Nop()))

	start := entities.Day(2026, time.September, 1)
	res, err := orch.RunCycle(context.Background(), start)
	if err != nil {
		t.Fatalf("infeasible cycle reported an error: %v", err)
	}
	if res.Advanced {
		t.Error("infeasible cycle advanced")
	}
	if res.Result.Status != solve.StatusInfeasible {
		t.Errorf("status = %v", res.Result.Status)
	}

	// The carried solution stays untouched, so the next cycle is cold.
	solver.infeasible = false
	if _, err := orch.RunCycle(context.Background(), start.AddDate(0, 0, 1)); err != nil {
		t.Fatalf("RunCycle failed: %v", err)
	}
	if len(solver.hinted) != 2 || solver.hinted[1] {
		t.Errorf("hinted = %v, want two cold calls", solver.hinted)
	}
}

func TestWarmstartRejectionFallsBackToCold(t *testing.T) {
	solver := &stubSolver{rejectHints: true}
	orch := testOrchestrator(t, solver, events.NewInMemoryEventStore(zerolog.Nop()))

	start := entities.Day(2026, time.September, 1)
	results, err := orch.Run(context.Background(), start, 2)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for i, res := range results {
		if !res.Advanced {
			t.Errorf("cycle %d did not advance", i)
		}
	}

	// Cycle one cold, cycle two hinted then retried cold.
	want := []bool{false, true, false}
	if len(solver.hinted) != len(want) {
		t.Fatalf("solver called %d times, want %d", len(solver.hinted), len(want))
	}
	for i := range want {
		if solver.hinted[i] != want[i] {
			t.Errorf("call %d hinted = %v, want %v", i, solver.hinted[i], want[i])
		}
	}
}

func TestDegradedWarmstartReportsZeroCoverage(t *testing.T) {
	solver := &stubSolver{degradeHints: true}
	orch := testOrchestrator(t, solver, events.NewInMemoryEventStore(zerolog.Nop()))

	start := entities.Day(2026, time.September, 1)
	results, err := orch.Run(context.Background(), start, 2)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(solver.hinted) != 2 || !solver.hinted[1] {
		t.Fatalf("hinted = %v, want a hinted second cycle", solver.hinted)
	}

	// The hint was offered but not used, so no coverage may be claimed.
	diag := results[1].Result.Diagnostics
	if diag.Warmstarted {
		t.Error("degraded hint reported as warmstarted")
	}
	if diag.WarmstartCoverage != 0 {
		t.Errorf("coverage = %g, want 0 when the hint was not used", diag.WarmstartCoverage)
	}
}

func TestRunRejectsNonPositiveDays(t *testing.T) {
	orch := testOrchestrator(t, &stubSolver{}, nil)
	if _, err := orch.Run(context.Background(), entities.Day(2026, time.September, 1), 0); err == nil {
		t.Error("zero-day run accepted")
	}
}
