package planner

import (
	"fmt"

	"github.com/coldchain/planner/pkg/milp"
)

// InfeasibleModelError reports that no feasible point exists, with the
// constraint family implicated when it can be determined. It aborts the
// current planning cycle; the previous day's plan stays authoritative.
type InfeasibleModelError struct {
	Family milp.ConstraintFamily
	Detail string
}

func (e *InfeasibleModelError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("model infeasible (%s constraints implicated)", e.Family)
	}
	return fmt.Sprintf("model infeasible (%s constraints implicated): %s", e.Family, e.Detail)
}

// WarmstartIncompatibleError reports that a projected assignment does not
// fit the new model's variable space, typically because topology changed
// between cycles. The orchestrator catches it and falls back to a cold
// solve instead of aborting the cycle.
type WarmstartIncompatibleError struct {
	Reason string
}

func (e *WarmstartIncompatibleError) Error() string {
	return "warmstart incompatible with model: " + e.Reason
}
