package planner

import (
	"fmt"

	"github.com/coldchain/planner/pkg/domain/entities"
	"github.com/coldchain/planner/pkg/milp"
)

// Diagnose inspects a plan the engine declared infeasible and attributes
// the failure to a constraint family when a structural cause is visible.
// Shortage slack keeps demand rows satisfiable on their own, so genuine
// infeasibility points at structure: demand nowhere reachable, shelf life
// shorter than every route to the consumer, or capacity pinned to zero
// while flows are forced. When no cause stands out the error still names
// the balance family, since coupled balance rows are where everything
// else meets.
func Diagnose(plan *Plan) *InfeasibleModelError {
	if e := diagnoseUnreachableDemand(plan); e != nil {
		return e
	}
	if e := diagnoseCapacity(plan); e != nil {
		return e
	}
	return &InfeasibleModelError{Family: milp.FamilyBalance}
}

// diagnoseUnreachableDemand looks for demand cells no cohort can ever
// serve. A cell with zero eligible cohorts means either no route reaches
// the node in time (network) or every route outlives the shelf life
// (shelf life); the two are told apart by whether any cohort of the
// product exists at the node at all.
func diagnoseUnreachableDemand(plan *Plan) *InfeasibleModelError {
	for _, dem := range plan.demands {
		if len(plan.eligibleCohorts(dem.Node, dem.Product, dem.Date)) > 0 {
			continue
		}
		atNode := false
		for c := range plan.cohorts {
			if c.Node == dem.Node && c.Product == dem.Product {
				atNode = true
				break
			}
		}
		detail := fmt.Sprintf("demand for %s at %s on %s", dem.Product, dem.Node, entities.FormatDate(dem.Date))
		if atNode {
			return &InfeasibleModelError{
				Family: milp.FamilyShelfLife,
				Detail: detail + " cannot be served within shelf life",
			}
		}
		return &InfeasibleModelError{
			Family: milp.FamilyNetwork,
			Detail: detail + " is unreachable from any supply",
		}
	}
	return nil
}

// diagnoseCapacity compares total supply (initial stock plus the labor
// calendar's production ceiling) against total demand per product.
// Shortage slack absorbs the gap in a well-formed model, so a hit here
// usually means the caller disabled slack pricing or the warmstart cutoff
// is tighter than any reachable point.
func diagnoseCapacity(plan *Plan) *InfeasibleModelError {
	supply := make(map[entities.ProductID]float64)
	demand := make(map[entities.ProductID]float64)
	for c, qty := range plan.Request.InitialInventory {
		supply[c.Product] += qty
	}
	rate := make(map[entities.ProductID]float64)
	for _, p := range plan.Request.Products {
		rate[p.ID] = float64(p.UnitsPerHour)
	}
	for _, l := range plan.Request.Labor {
		for _, p := range plan.Request.Products {
			supply[p.ID] += l.Hours * rate[p.ID]
		}
	}
	for _, dem := range plan.demands {
		demand[dem.Product] += dem.Quantity
	}
	for id, want := range demand {
		if supply[id] < want {
			return &InfeasibleModelError{
				Family: milp.FamilyCapacity,
				Detail: fmt.Sprintf("total supply of %s (%.0f) is below total demand (%.0f)", id, supply[id], want),
			}
		}
	}
	return nil
}
