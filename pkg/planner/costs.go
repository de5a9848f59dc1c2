package planner

import (
	"github.com/coldchain/planner/pkg/domain/entities"
)

// addObjective resolves the cost structure into a fixed set of minimizing
// objective terms. The storage-cost mode is a build-time selection: unit
// mode prices every cohort-day quantity directly, pallet mode prices
// frozen cohort-days through their integer pallet count (with the pallet's
// fixed cost amortized into the daily rate) and everything else per unit.
// Constraint construction never branches on the mode.
func (st *buildState) addObjective() error {
	cs := st.req.Costs
	production := cs.ProductionPerUnit.InexactFloat64()
	transport := cs.TransportPerUnitLeg.InexactFloat64()
	changeover := cs.ChangeoverCost.InexactFloat64()
	shortage := cs.ShortagePerUnit.InexactFloat64()
	palletRate := cs.EffectivePalletPerDay().InexactFloat64()

	unitRate := func(state entities.ShelfLifeState) float64 {
		if rate, ok := cs.StoragePerUnitDay[state]; ok {
			return rate.InexactFloat64()
		}
		return 0
	}

	for _, batch := range st.batches {
		if err := st.m.AddObjectiveTerm(production, keyProduction(batch)); err != nil {
			return err
		}
		if err := st.m.AddObjectiveTerm(changeover, keyStart(batch)); err != nil {
			return err
		}
	}

	for _, s := range st.shipments {
		if err := st.m.AddObjectiveTerm(transport, keyShipment(s)); err != nil {
			return err
		}
	}

	for _, cell := range st.demandCells {
		if err := st.m.AddObjectiveTerm(shortage, keyShortage(cell.Node, cell.Product, cell.Date)); err != nil {
			return err
		}
	}

	h := st.req.Horizon
	for c, from := range st.avail {
		first := from
		if first.Before(h.Start) {
			first = h.Start
		}
		palletBilled := cs.Mode == entities.PalletStorage && c.State == entities.Frozen
		for d := first; !d.After(h.End); d = d.AddDate(0, 0, 1) {
			if palletBilled {
				if err := st.m.AddObjectiveTerm(palletRate, keyPallets(c, d)); err != nil {
					return err
				}
				continue
			}
			if err := st.m.AddObjectiveTerm(unitRate(c.State), keyInventory(c, d)); err != nil {
				return err
			}
		}
	}
	return nil
}
