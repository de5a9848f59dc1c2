package solve

import (
	"testing"

	"github.com/coldchain/planner/pkg/milp"
)

func tinyModel(t *testing.T) *milp.Model {
	t.Helper()
	m := milp.NewModel()
	vars := []milp.Variable{
		{Key: "qty", Kind: milp.Continuous, Lo: 0, Hi: 100},
		{Key: "run", Kind: milp.Binary},
		{Key: "pal", Kind: milp.Integer, Lo: 0, Hi: 4},
	}
	for _, v := range vars {
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
	return m
}

func TestTranslatePreservesShape(t *testing.T) {
	m := tinyModel(t)
	tr, err := translate(m)
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if len(tr.vars) != m.NumVariables() {
		t.Errorf("translated %d variables, want %d", len(tr.vars), m.NumVariables())
	}
	if len(tr.objTerms) != len(m.ObjectiveTerms()) {
		t.Errorf("translated %d objective terms, want %d", len(tr.objTerms), len(m.ObjectiveTerms()))
	}

	// The cutoff row is a plain constraint on the translated model; it
	// must not disturb the variable mapping.
	tr.addIncumbentCutoff(42)
	if len(tr.vars) != m.NumVariables() {
		t.Error("cutoff changed the variable mapping")
	}
}

func TestStatusString(t *testing.T) {
	cases := map[Status]string{
		StatusOptimal:    "OPTIMAL",
		StatusFeasible:   "FEASIBLE",
		StatusInfeasible: "INFEASIBLE",
		StatusTimeout:    "TIMEOUT",
		Status(99):       "UNKNOWN",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", status, got, want)
		}
	}
}
