package planner

import (
	"fmt"
	"math"
	"time"

	"github.com/coldchain/planner/pkg/domain/entities"
	"github.com/coldchain/planner/pkg/milp"
)

// Pallet quantization converts a frozen cohort's continuous quantity into
// the integer pallet count it is billed for:
//
//	pallets[c,d] * unitsPerPallet >= inventory[c,d]
//
// The pallet integer's domain is tightened per cohort from a cheap prior
// estimate of how much stock the cohort can plausibly hold, instead of a
// generic large bound; tight domains cut branch-and-bound work directly.
// Combined with the symmetry-free start-tracking binaries the LP
// relaxation is usually tight enough to solve at the root node — it is
// binary symmetry, not the integer count, that drives difficulty.

// palletBound estimates the largest pallet count a cohort can need, from
// the cohort's own supply cap and the product's total horizon supply.
func palletBound(cap float64, upp int) int {
	if cap <= 0 {
		return 0
	}
	return int(math.Ceil(cap / float64(upp)))
}

// emitPalletVars registers the pallet integer and ceiling row for one
// frozen cohort-day.
func emitPalletVars(m *milp.Model, c entities.CohortKey, d time.Time, upp int, cap float64) error {
	pal := keyPallets(c, d)
	if err := m.AddVariable(milp.Variable{
		Key:  pal,
		Kind: milp.Integer,
		Lo:   0,
		Hi:   float64(palletBound(cap, upp)),
	}); err != nil {
		return err
	}
	return m.AddConstraint(milp.Constraint{
		Name:   fmt.Sprintf("pallet|%s|%s", c, entities.FormatDate(d)),
		Family: milp.FamilyQuantize,
		Sense:  milp.LessEqual,
		RHS:    0,
		Terms: []milp.Term{
			{Coef: 1, Key: keyInventory(c, d)},
			{Coef: -float64(upp), Key: pal},
		},
	})
}
