package solve

import (
	"fmt"

	"github.com/nextmv-io/sdk/mip"

	"github.com/coldchain/planner/pkg/milp"
)

type objTerm struct {
	coef float64
	v    mip.Var
}

// translated pairs a nextmv model with the variable mapping needed to read
// a solution back into keyed assignments.
type translated struct {
	model    mip.Model
	vars     []mip.Var
	objTerms []objTerm
}

// translate builds a nextmv mip.Model from the algebraic form. Variable
// order follows the source model so solutions map back by index.
func translate(m *milp.Model) (*translated, error) {
	out := &translated{
		model: mip.NewModel(),
		vars:  make([]mip.Var, 0, m.NumVariables()),
	}
	out.model.Objective().SetMinimize()

	index := make(map[milp.VarKey]int, m.NumVariables())
	for i, v := range m.Variables() {
		var tv mip.Var
		switch v.Kind {
		case milp.Binary:
			tv = out.model.NewBool()
		case milp.Integer:
			tv = out.model.NewInt(int64(v.Lo), int64(v.Hi))
		case milp.Continuous:
			tv = out.model.NewFloat(v.Lo, v.Hi)
		default:
			return nil, fmt.Errorf("variable %s has unknown kind %d", v.Key, v.Kind)
		}
		out.vars = append(out.vars, tv)
		index[v.Key] = i
	}

	for _, c := range m.Constraints() {
		var sense mip.Sense
		switch c.Sense {
		case milp.LessEqual:
			sense = mip.LessThanOrEqual
		case milp.GreaterEqual:
			sense = mip.GreaterThanOrEqual
		case milp.Equal:
			sense = mip.Equal
		default:
			return nil, fmt.Errorf("constraint %s has unknown sense %d", c.Name, c.Sense)
		}
		row := out.model.NewConstraint(sense, c.RHS)
		for _, t := range c.Terms {
			row.NewTerm(t.Coef, out.vars[index[t.Key]])
		}
	}

	for _, t := range m.ObjectiveTerms() {
		v := out.vars[index[t.Key]]
		out.model.Objective().NewTerm(t.Coef, v)
		out.objTerms = append(out.objTerms, objTerm{coef: t.Coef, v: v})
	}

	return out, nil
}

// addIncumbentCutoff bounds the objective by a known feasible value so the
// engine starts from the incumbent's level rather than from scratch. The
// row is added before the solver is constructed, so no constraint is ever
// activated or deactivated on a live model.
func (t *translated) addIncumbentCutoff(incumbent float64) {
	slack := 1e-6 * (1 + abs(incumbent))
	row := t.model.NewConstraint(mip.LessThanOrEqual, incumbent+slack)
	for _, term := range t.objTerms {
		row.NewTerm(term.coef, term.v)
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
