package planner

import (
	"fmt"
	"time"

	"github.com/coldchain/planner/pkg/domain/entities"
	"github.com/coldchain/planner/pkg/milp"
)

// Start tracking derives the binary start[p,d] ("production of p started
// on d") from the produced[p,d] run indicators using always-active
// inequalities:
//
//	start[p,d] >= produced[p,d] - produced[p,d-1]
//	start[p,d] <= produced[p,d]
//	start[p,d] <= 1 - produced[p,d-1]
//
// with produced treated as 0 before the horizon, so on the first day
// start[p,d0] = produced[p,d0]. Only 0->1 transitions count.
//
// The alternative — an auxiliary integer tied by an equality to the sum of
// run indicators — couples otherwise independent binaries into symmetric
// equally-good solutions, and has to be activated/deactivated between
// solves, which solvers treat as a structural change that discards any
// incumbent. These rows are never toggled, so an assignment extracted from
// one solve stays a valid hot start for the next.

// emitStartRows adds the start-tracking rows for one (node, product) run
// sequence. The produced and start binaries must already be registered.
func emitStartRows(m *milp.Model, node entities.NodeID, product entities.ProductID, days []time.Time) error {
	for i, d := range days {
		batch := entities.NewBatchKey(node, product, d)
		produced := keyProduced(batch)
		start := keyStart(batch)
		name := fmt.Sprintf("start|%s|%s|%s", node, product, entities.FormatDate(d))

		if i == 0 {
			// No yesterday: start must equal produced.
			if err := m.AddConstraint(milp.Constraint{
				Name:   name + "|lo",
				Family: milp.FamilyChangeover,
				Sense:  milp.GreaterEqual,
				RHS:    0,
				Terms:  []milp.Term{{Coef: 1, Key: start}, {Coef: -1, Key: produced}},
			}); err != nil {
				return err
			}
			if err := m.AddConstraint(milp.Constraint{
				Name:   name + "|hi",
				Family: milp.FamilyChangeover,
				Sense:  milp.LessEqual,
				RHS:    0,
				Terms:  []milp.Term{{Coef: 1, Key: start}, {Coef: -1, Key: produced}},
			}); err != nil {
				return err
			}
			continue
		}

		prev := keyProduced(entities.NewBatchKey(node, product, days[i-1]))
		rows := []milp.Constraint{
			{
				Name:   name + "|lo",
				Family: milp.FamilyChangeover,
				Sense:  milp.GreaterEqual,
				RHS:    0,
				Terms:  []milp.Term{{Coef: 1, Key: start}, {Coef: -1, Key: produced}, {Coef: 1, Key: prev}},
			},
			{
				Name:   name + "|hi",
				Family: milp.FamilyChangeover,
				Sense:  milp.LessEqual,
				RHS:    0,
				Terms:  []milp.Term{{Coef: 1, Key: start}, {Coef: -1, Key: produced}},
			},
			{
				Name:   name + "|prev",
				Family: milp.FamilyChangeover,
				Sense:  milp.LessEqual,
				RHS:    1,
				Terms:  []milp.Term{{Coef: 1, Key: start}, {Coef: 1, Key: prev}},
			},
		}
		for _, row := range rows {
			if err := m.AddConstraint(row); err != nil {
				return err
			}
		}
	}
	return nil
}
