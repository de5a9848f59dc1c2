package planner

import (
	"time"

	"github.com/coldchain/planner/pkg/domain/entities"
	"github.com/coldchain/planner/pkg/milp"
)

// Variable keys serialize the full identity tuple of each decision. The
// same (node, product, dates, state) tuple produces the same key in every
// model that contains it, so models built over overlapping horizons share
// keys for the overlapping days. Warmstart projection depends on that:
// carrying a solution forward is a key-set intersection, never a rename.

const keySep = "|"

func dateToken(t time.Time) string {
	return entities.FormatDate(t)
}

func join(parts ...string) milp.VarKey {
	out := parts[0]
	for _, p := range parts[1:] {
		out += keySep + p
	}
	return milp.VarKey(out)
}

// keyInventory is the end-of-day quantity of a cohort.
func keyInventory(c entities.CohortKey, date time.Time) milp.VarKey {
	return join("inv", string(c.Node), string(c.Product), dateToken(c.BirthDate), c.State.String(), dateToken(date))
}

// keyConsume is the quantity drawn from a cohort to serve demand on a day.
func keyConsume(c entities.CohortKey, date time.Time) milp.VarKey {
	return join("con", string(c.Node), string(c.Product), dateToken(c.BirthDate), c.State.String(), dateToken(date))
}

// keyProduction is a batch's continuous production quantity.
func keyProduction(b entities.BatchKey) milp.VarKey {
	return join("prd", string(b.Node), string(b.Product), dateToken(b.Date))
}

// keyProduced is the binary "product ran at this node today" indicator.
func keyProduced(b entities.BatchKey) milp.VarKey {
	return join("run", string(b.Node), string(b.Product), dateToken(b.Date))
}

// keyStart is the binary "production of this product started today"
// indicator derived by the start-tracking rows.
func keyStart(b entities.BatchKey) milp.VarKey {
	return join("start", string(b.Node), string(b.Product), dateToken(b.Date))
}

// keyShipment is the quantity of one cohort departing on a leg on a day.
func keyShipment(s shipment) milp.VarKey {
	return join("shp", s.Leg.Key(), string(s.Cohort.Product), dateToken(s.Cohort.BirthDate), s.Cohort.State.String(), dateToken(s.DepartDate))
}

// keyTrucks is the integer truck count on a leg on a departure day.
func keyTrucks(leg entities.RouteLeg, departDate time.Time) milp.VarKey {
	return join("trk", leg.Key(), dateToken(departDate))
}

// keyPallets is the integer pallet count billed for a frozen cohort-day.
func keyPallets(c entities.CohortKey, date time.Time) milp.VarKey {
	return join("pal", string(c.Node), string(c.Product), dateToken(c.BirthDate), c.State.String(), dateToken(date))
}

// keyShortage is the unserved portion of one demand record.
func keyShortage(node entities.NodeID, product entities.ProductID, date time.Time) milp.VarKey {
	return join("sho", string(node), string(product), dateToken(date))
}

// keyTransition is the quantity moved from a source cohort into a fresh
// cohort of the target state on a day.
func keyTransition(c entities.CohortKey, to entities.ShelfLifeState, date time.Time) milp.VarKey {
	return join("trn", string(c.Node), string(c.Product), dateToken(c.BirthDate), c.State.String(), to.String(), dateToken(date))
}
