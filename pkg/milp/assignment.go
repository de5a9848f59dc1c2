package milp

import (
	"fmt"
	"math"
)

// DefaultEpsilon is the tolerance used for snapping and feasibility checks
// when the caller does not supply one.
const DefaultEpsilon = 1e-6

// Assignment maps every decision variable's identity to a value. An
// assignment captured from a solved model is complete by construction and
// treated as immutable: operations return new maps, never mutate in place,
// because ownership transfers between planning cycles.
type Assignment map[VarKey]float64

// Clone returns a copy of the assignment.
func (a Assignment) Clone() Assignment {
	out := make(Assignment, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Snap returns a copy with solver numerical noise removed: values within
// eps of an integer are snapped to that integer (which also snaps
// near-zeros to exactly zero). Unsnapped noise fed back as a warmstart hint
// can make a provably feasible point look infeasible to the next solve.
func (a Assignment) Snap(eps float64) Assignment {
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	out := make(Assignment, len(a))
	for k, v := range a {
		if nearest := math.Round(v); math.Abs(v-nearest) <= eps {
			v = nearest
		}
		out[k] = v
	}
	return out
}

// Covers reports whether the assignment has a value for every variable in
// the model. Partial assignments are useless as warmstarts: the solver's
// hot-start mechanism expects a complete point.
func (a Assignment) Covers(m *Model) bool {
	for _, v := range m.Variables() {
		if _, ok := a[v.Key]; !ok {
			return false
		}
	}
	return true
}

// CoverageOf returns the fraction of the model's variables the assignment
// has values for.
func (a Assignment) CoverageOf(m *Model) float64 {
	if m.NumVariables() == 0 {
		return 0
	}
	covered := 0
	for _, v := range m.Variables() {
		if _, ok := a[v.Key]; ok {
			covered++
		}
	}
	return float64(covered) / float64(m.NumVariables())
}

// Objective re-prices the model's objective under the assignment without a
// solver. Extraction is lossless, so re-pricing an extracted assignment
// reproduces the solver's objective value within floating tolerance.
func (a Assignment) Objective(m *Model) float64 {
	total := 0.0
	for _, t := range m.ObjectiveTerms() {
		total += t.Coef * a[t.Key]
	}
	return total
}

// Check verifies the assignment against the model's bounds, integrality
// and constraints. It returns nil for a feasible point, or an error naming
// the first violated bound or row and its constraint family.
func (a Assignment) Check(m *Model, eps float64) error {
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	for _, v := range m.Variables() {
		val, ok := a[v.Key]
		if !ok {
			return fmt.Errorf("no value for variable %s", v.Key)
		}
		if val < v.Lo-eps || val > v.Hi+eps {
			return fmt.Errorf("variable %s value %g outside bounds [%g, %g]", v.Key, val, v.Lo, v.Hi)
		}
		if v.Kind != Continuous && math.Abs(val-math.Round(val)) > eps {
			return fmt.Errorf("variable %s value %g is not integral", v.Key, val)
		}
	}
	for _, c := range m.Constraints() {
		if viol := c.Violation(a); viol > eps {
			return fmt.Errorf("constraint %s (%s) violated by %g", c.Name, c.Family, viol)
		}
	}
	return nil
}
