package solve

import (
	"context"
	"errors"
	"math"
	"os"
	"testing"
	"time"

	"github.com/nextmv-io/sdk/mip"
	"github.com/rs/zerolog"

	"github.com/coldchain/planner/pkg/milp"
)

func TestNewAdapterProvider(t *testing.T) {
	// The SDK takes a typed provider name, not a plain string.
	if a := NewAdapter("", zerolog.Nop()); a.provider != mip.SolverProvider("highs") {
		t.Errorf("default provider = %q", a.provider)
	}
	if a := NewAdapter("cbc", zerolog.Nop()); a.provider != mip.SolverProvider("cbc") {
		t.Errorf("provider = %q", a.provider)
	}
}

func TestAdapterRejectsIncompleteWarmstart(t *testing.T) {
	m := tinyModel(t)
	adapter := NewAdapter("", zerolog.Nop())

	partial := milp.Assignment{"qty": 50}
	_, err := adapter.Solve(context.Background(), m, DefaultOptions(), partial)
	if !errors.Is(err, ErrIncompleteWarmstart) {
		t.Fatalf("err = %v, want ErrIncompleteWarmstart", err)
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.TimeLimit != 5*time.Minute {
		t.Errorf("time limit = %s", opts.TimeLimit)
	}
	if opts.GapRel != 0.01 {
		t.Errorf("gap tolerance = %g", opts.GapRel)
	}
}

// TestAdapterSolvesTinyModel exercises the full engine path and needs the
// HiGHS provider available. Enable with PLANNER_SOLVER_TESTS=1.
func TestAdapterSolvesTinyModel(t *testing.T) {
	if os.Getenv("PLANNER_SOLVER_TESTS") == "" {
		t.Skip("set PLANNER_SOLVER_TESTS=1 to run engine tests")
	}

	// Minimize 2*qty + 5*pal subject to qty >= 30, pallets covering qty
	// in units of 25. Optimum: qty=30, pal=2, run=1.
	m := milp.NewModel()
	for _, v := range []milp.Variable{
		{Key: "qty", Kind: milp.Continuous, Lo: 30, Hi: 100},
		{Key: "run", Kind: milp.Binary},
		{Key: "pal", Kind: milp.Integer, Lo: 0, Hi: 4},
	} {
		if err := m.AddVariable(v); err != nil {
			t.Fatalf("AddVariable failed: %v", err)
		}
	}
	if err := m.AddConstraint(milp.Constraint{
		Name:   "link",
		Family: milp.FamilyCapacity,
		Sense:  milp.LessEqual,
		RHS:    0,
		Terms:  []milp.Term{{Coef: 1, Key: "qty"}, {Coef: -100, Key: "run"}},
	}); err != nil {
		t.Fatalf("AddConstraint failed: %v", err)
	}
	if err := m.AddConstraint(milp.Constraint{
		Name:   "quantize",
		Family: milp.FamilyQuantize,
		Sense:  milp.GreaterEqual,
		RHS:    0,
		Terms:  []milp.Term{{Coef: 25, Key: "pal"}, {Coef: -1, Key: "qty"}},
	}); err != nil {
		t.Fatalf("AddConstraint failed: %v", err)
	}
	if err := m.AddObjectiveTerm(2, "qty"); err != nil {
		t.Fatalf("AddObjectiveTerm failed: %v", err)
	}
	if err := m.AddObjectiveTerm(5, "pal"); err != nil {
		t.Fatalf("AddObjectiveTerm failed: %v", err)
	}

	adapter := NewAdapter("highs", zerolog.Nop())
	res, err := adapter.Solve(context.Background(), m, Options{TimeLimit: 30 * time.Second}, nil)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if res.Status != StatusOptimal {
		t.Fatalf("status = %v, want optimal", res.Status)
	}
	if math.Abs(res.Objective-70) > 1e-4 {
		t.Errorf("objective = %g, want 70", res.Objective)
	}
	if err := res.Values.Check(m, milp.DefaultEpsilon); err != nil {
		t.Errorf("returned point infeasible: %v", err)
	}

	// A feasible extracted point must round-trip as a warmstart without
	// degrading the result.
	warm, err := adapter.Solve(context.Background(), m, Options{TimeLimit: 30 * time.Second}, res.Values)
	if err != nil {
		t.Fatalf("warmstarted solve failed: %v", err)
	}
	if !warm.Warmstarted {
		t.Error("hint was not accepted")
	}
	if warm.Objective > res.Objective+1e-4 {
		t.Errorf("warmstarted objective %g worse than cold %g", warm.Objective, res.Objective)
	}
}
