// Package milp holds the solver-independent algebraic form of a mixed
// integer program: variables keyed by their full identity tuple, linear
// constraints, and a minimizing objective. Keeping this layer free of any
// solver binding lets the adapter translate it to whichever engine is
// configured, and lets warmstart assignments be checked and re-priced
// without a solver in the loop.
package milp

import (
	"fmt"
	"math"
)

// VarKey is a variable's identity: the serialized tuple of everything that
// makes it unique (kind, node, product, dates, state). Two models built
// over overlapping horizons use identical keys for the overlapping days,
// which is what makes rolling-window warmstart projection a plain key-set
// intersection.
type VarKey string

// VarKind is a variable's integrality class.
type VarKind int

const (
	Continuous VarKind = iota
	Binary
	Integer
)

// String method for VarKind enum
func (k VarKind) String() string {
	switch k {
	case Continuous:
		return "continuous"
	case Binary:
		return "binary"
	case Integer:
		return "integer"
	default:
		return "unknown"
	}
}

// Variable is one decision variable with its bounds.
type Variable struct {
	Key  VarKey
	Kind VarKind
	Lo   float64
	Hi   float64
}

// Sense is a constraint's comparison direction.
type Sense int

const (
	LessEqual Sense = iota
	GreaterEqual
	Equal
)

// String method for Sense enum
func (s Sense) String() string {
	switch s {
	case LessEqual:
		return "<="
	case GreaterEqual:
		return ">="
	case Equal:
		return "="
	default:
		return "?"
	}
}

// ConstraintFamily tags each constraint with the modeling concern it
// enforces, so infeasibility can be reported against a family.
type ConstraintFamily int

const (
	FamilyBalance ConstraintFamily = iota
	FamilyShelfLife
	FamilyCapacity
	FamilyNetwork
	FamilyDemand
	FamilyQuantize
	FamilyChangeover
	FamilyCutoff
)

// String method for ConstraintFamily enum
func (f ConstraintFamily) String() string {
	switch f {
	case FamilyBalance:
		return "balance"
	case FamilyShelfLife:
		return "shelf-life"
	case FamilyCapacity:
		return "capacity"
	case FamilyNetwork:
		return "network-reachability"
	case FamilyDemand:
		return "demand"
	case FamilyQuantize:
		return "quantization"
	case FamilyChangeover:
		return "changeover"
	case FamilyCutoff:
		return "cutoff"
	default:
		return "unknown"
	}
}

// Term is one coefficient/variable pair in a linear expression.
type Term struct {
	Coef float64
	Key  VarKey
}

// Constraint is one linear row: sum(Terms) Sense RHS.
type Constraint struct {
	Name   string
	Family ConstraintFamily
	Sense  Sense
	RHS    float64
	Terms  []Term
}

// Model is a minimizing MIP over keyed variables.
type Model struct {
	vars        []Variable
	index       map[VarKey]int
	constraints []Constraint
	objective   []Term
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{index: make(map[VarKey]int)}
}

// AddVariable registers a variable. Keys must be unique and bounds ordered.
func (m *Model) AddVariable(v Variable) error {
	if v.Key == "" {
		return fmt.Errorf("variable key cannot be empty")
	}
	if _, exists := m.index[v.Key]; exists {
		return fmt.Errorf("duplicate variable %s", v.Key)
	}
	if v.Hi < v.Lo {
		return fmt.Errorf("variable %s: upper bound %g below lower bound %g", v.Key, v.Hi, v.Lo)
	}
	if v.Kind == Binary {
		v.Lo, v.Hi = 0, 1
	}
	m.index[v.Key] = len(m.vars)
	m.vars = append(m.vars, v)
	return nil
}

// Variable looks up a variable by key.
func (m *Model) Variable(key VarKey) (Variable, bool) {
	i, ok := m.index[key]
	if !ok {
		return Variable{}, false
	}
	return m.vars[i], true
}

// HasVariable reports whether a key exists in the model.
func (m *Model) HasVariable(key VarKey) bool {
	_, ok := m.index[key]
	return ok
}

// Variables returns all variables in registration order. Callers must not
// mutate the returned slice.
func (m *Model) Variables() []Variable {
	return m.vars
}

// NumVariables returns the variable count.
func (m *Model) NumVariables() int {
	return len(m.vars)
}

// AddConstraint registers a row. Every referenced variable must exist.
func (m *Model) AddConstraint(c Constraint) error {
	for _, t := range c.Terms {
		if _, ok := m.index[t.Key]; !ok {
			return fmt.Errorf("constraint %s references unknown variable %s", c.Name, t.Key)
		}
	}
	m.constraints = append(m.constraints, c)
	return nil
}

// Constraints returns all rows in registration order. Callers must not
// mutate the returned slice.
func (m *Model) Constraints() []Constraint {
	return m.constraints
}

// NumConstraints returns the row count.
func (m *Model) NumConstraints() int {
	return len(m.constraints)
}

// AddObjectiveTerm adds a minimizing objective term. Repeated keys
// accumulate.
func (m *Model) AddObjectiveTerm(coef float64, key VarKey) error {
	if _, ok := m.index[key]; !ok {
		return fmt.Errorf("objective references unknown variable %s", key)
	}
	if coef == 0 {
		return nil
	}
	m.objective = append(m.objective, Term{Coef: coef, Key: key})
	return nil
}

// ObjectiveTerms returns the objective in registration order. Callers must
// not mutate the returned slice.
func (m *Model) ObjectiveTerms() []Term {
	return m.objective
}

// evaluate computes the left-hand side of a row under an assignment.
func (c Constraint) evaluate(a Assignment) float64 {
	lhs := 0.0
	for _, t := range c.Terms {
		lhs += t.Coef * a[t.Key]
	}
	return lhs
}

// Violation returns how far an assignment is from satisfying the row;
// zero means satisfied.
func (c Constraint) Violation(a Assignment) float64 {
	lhs := c.evaluate(a)
	switch c.Sense {
	case LessEqual:
		return math.Max(0, lhs-c.RHS)
	case GreaterEqual:
		return math.Max(0, c.RHS-lhs)
	default:
		return math.Abs(lhs - c.RHS)
	}
}
