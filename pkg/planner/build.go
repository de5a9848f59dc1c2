package planner

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/coldchain/planner/pkg/domain/entities"
	"github.com/coldchain/planner/pkg/milp"
)

// Builder translates a PlanningRequest into a variable/constraint system
// over cohort-level flows. Every unit of inventory belongs to a cohort
// with a known birth date and shelf-life state, so age-dependent
// feasibility is enforced exactly: an expired cohort simply appears in no
// outflow sum. There is no is-expired indicator variable and no constraint
// is ever activated or deactivated after the build, which is what keeps
// extracted assignments valid as warmstarts for later models.
type Builder struct{}

// NewBuilder creates a model builder.
func NewBuilder() *Builder {
	return &Builder{}
}

type demandCell struct {
	Node    entities.NodeID
	Product entities.ProductID
	Date    time.Time
}

type cohortDay struct {
	Cohort entities.CohortKey
	Date   time.Time
}

// buildState carries the intermediate registries of one build.
type buildState struct {
	req      *PlanningRequest
	m        *milp.Model
	nodes    map[entities.NodeID]*entities.Node
	products map[entities.ProductID]*entities.Product
	labor    map[entities.NodeID]map[time.Time]float64
	demand   map[demandCell]float64

	// avail maps each reachable cohort to the earliest date it can hold
	// stock; caps bounds how much it can plausibly hold.
	avail map[entities.CohortKey]time.Time
	caps  map[entities.CohortKey]float64

	productCap map[entities.ProductID]float64
	hasInbound map[entities.NodeID]bool

	batches     []entities.BatchKey
	shipments   []shipment
	transitions []transition
	demandCells []demandCell
	consumers   map[demandCell][]entities.CohortKey
	palletDays  map[entities.CohortKey][]time.Time

	// flow terms accumulated for the balance rows
	flows map[cohortDay][]milp.Term
}

// Build constructs the full model for one planning cycle.
func (b *Builder) Build(ctx context.Context, req *PlanningRequest) (*Plan, error) {
	if err := validateRequest(req); err != nil {
		return nil, fmt.Errorf("invalid planning request: %w", err)
	}

	st := newBuildState(req)

	// Step 1: discover every cohort reachable within the horizon.
	st.enumerateCohorts()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Step 2: production slots with run/start binaries and labor rows.
	if err := st.addProduction(); err != nil {
		return nil, fmt.Errorf("failed to build production slots: %w", err)
	}

	// Step 3: one inventory variable per reachable cohort-day.
	if err := st.addInventory(); err != nil {
		return nil, fmt.Errorf("failed to build inventory cohorts: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Step 4: demand rows with per-cohort consumption and shortage slack.
	if err := st.addDemand(); err != nil {
		return nil, fmt.Errorf("failed to build demand rows: %w", err)
	}

	// Step 5: shipments, truck counts, vehicle and dock capacity.
	if err := st.addShipments(); err != nil {
		return nil, fmt.Errorf("failed to build shipments: %w", err)
	}

	// Step 6: shelf-life state transitions.
	if err := st.addTransitions(); err != nil {
		return nil, fmt.Errorf("failed to build state transitions: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Step 7: conservation rows tying each cohort-day to the previous day.
	if err := st.addBalances(); err != nil {
		return nil, fmt.Errorf("failed to build balance rows: %w", err)
	}

	// Step 8: pallet quantization when storage is pallet-billed.
	if req.Costs.Mode == entities.PalletStorage {
		if err := st.addPallets(); err != nil {
			return nil, fmt.Errorf("failed to build pallet quantization: %w", err)
		}
	}

	// Step 9: resolve the cost mode into a fixed set of objective terms.
	if err := st.addObjective(); err != nil {
		return nil, fmt.Errorf("failed to build objective: %w", err)
	}

	return &Plan{
		Model:       st.m,
		Horizon:     req.Horizon,
		Request:     req,
		cohorts:     st.avail,
		batches:     st.batches,
		shipments:   st.shipments,
		transitions: st.transitions,
		demands:     demandRecords(st),
		palletVars:  st.palletDays,
	}, nil
}

func validateRequest(req *PlanningRequest) error {
	if req == nil {
		return fmt.Errorf("request cannot be nil")
	}
	if req.Horizon.End.Before(req.Horizon.Start) {
		return fmt.Errorf("horizon end before start")
	}
	if len(req.Nodes) == 0 {
		return fmt.Errorf("no nodes in network")
	}
	if len(req.Products) == 0 {
		return fmt.Errorf("no products")
	}
	if err := req.Costs.Validate(); err != nil {
		return fmt.Errorf("invalid cost structure: %w", err)
	}

	nodes := make(map[entities.NodeID]bool, len(req.Nodes))
	for _, n := range req.Nodes {
		if nodes[n.ID] {
			return fmt.Errorf("duplicate node %s", n.ID)
		}
		nodes[n.ID] = true
	}
	products := make(map[entities.ProductID]bool, len(req.Products))
	for _, p := range req.Products {
		if products[p.ID] {
			return fmt.Errorf("duplicate product %s", p.ID)
		}
		products[p.ID] = true
	}
	legs := make(map[string]bool, len(req.Legs))
	for _, l := range req.Legs {
		if !nodes[l.Origin] || !nodes[l.Dest] {
			return fmt.Errorf("route leg %s references unknown node", l.Key())
		}
		if legs[l.Key()] {
			return fmt.Errorf("duplicate route leg %s", l.Key())
		}
		legs[l.Key()] = true
	}
	for _, d := range req.Forecast {
		if !nodes[d.Node] {
			return fmt.Errorf("forecast references unknown node %s", d.Node)
		}
		if !products[d.Product] {
			return fmt.Errorf("forecast references unknown product %s", d.Product)
		}
	}
	for c, qty := range req.InitialInventory {
		if !nodes[c.Node] {
			return fmt.Errorf("initial inventory references unknown node %s", c.Node)
		}
		if !products[c.Product] {
			return fmt.Errorf("initial inventory references unknown product %s", c.Product)
		}
		if qty < 0 {
			return fmt.Errorf("initial inventory for %s cannot be negative", c)
		}
		if c.BirthDate.After(req.Horizon.Start) {
			return fmt.Errorf("initial inventory cohort %s born after horizon start", c)
		}
	}
	return nil
}

func newBuildState(req *PlanningRequest) *buildState {
	st := &buildState{
		req:        req,
		m:          milp.NewModel(),
		nodes:      make(map[entities.NodeID]*entities.Node, len(req.Nodes)),
		products:   make(map[entities.ProductID]*entities.Product, len(req.Products)),
		labor:      make(map[entities.NodeID]map[time.Time]float64),
		demand:     make(map[demandCell]float64),
		avail:      make(map[entities.CohortKey]time.Time),
		caps:       make(map[entities.CohortKey]float64),
		productCap: make(map[entities.ProductID]float64),
		hasInbound: make(map[entities.NodeID]bool),
		consumers:  make(map[demandCell][]entities.CohortKey),
		palletDays: make(map[entities.CohortKey][]time.Time),
		flows:      make(map[cohortDay][]milp.Term),
	}
	for _, n := range req.Nodes {
		st.nodes[n.ID] = n
	}
	for _, p := range req.Products {
		st.products[p.ID] = p
	}
	for _, ld := range req.Labor {
		if _, ok := st.labor[ld.Node]; !ok {
			st.labor[ld.Node] = make(map[time.Time]float64)
		}
		st.labor[ld.Node][ld.Date] += ld.Hours
	}
	for _, d := range req.Forecast {
		if !req.Horizon.Contains(d.Date) {
			continue
		}
		st.demand[demandCell{Node: d.Node, Product: d.Product, Date: d.Date}] += d.Quantity
	}
	for _, l := range req.Legs {
		st.hasInbound[l.Dest] = true
	}

	// Total plausible supply per product over the horizon: initial stock
	// plus everything every manufacturing node could run. Used to bound
	// continuous flow variables and to estimate pallet domains.
	for _, p := range req.Products {
		cap := 0.0
		for c, qty := range req.InitialInventory {
			if c.Product == p.ID {
				cap += qty
			}
		}
		for _, n := range req.Nodes {
			if n.Role != entities.Manufacturing {
				continue
			}
			for _, d := range req.Horizon.Days() {
				cap += st.hours(n.ID, d) * p.UnitsPerHour
			}
		}
		st.productCap[p.ID] = cap
	}
	return st
}

func (st *buildState) hours(node entities.NodeID, d time.Time) float64 {
	if byDay, ok := st.labor[node]; ok {
		return byDay[d]
	}
	return 0
}

func (st *buildState) capacity(node entities.NodeID, p *entities.Product, d time.Time) float64 {
	return st.hours(node, d) * p.UnitsPerHour
}

// registerCohort notes a cohort as reachable from a date, returning true
// when availability improved.
func (st *buildState) registerCohort(c entities.CohortKey, from time.Time) bool {
	if existing, ok := st.avail[c]; ok && !from.Before(existing) {
		return false
	}
	st.avail[c] = from
	if _, ok := st.caps[c]; !ok {
		st.caps[c] = st.productCap[c.Product]
	}
	return true
}

// enumerateCohorts seeds cohorts from initial inventory and production
// slots, then propagates reachability across legs and state transitions to
// a fixed point.
func (st *buildState) enumerateCohorts() {
	h := st.req.Horizon
	var queue []entities.CohortKey

	for c, qty := range st.req.InitialInventory {
		if st.registerCohort(c, h.Start) {
			queue = append(queue, c)
		}
		// A node no shipment can reach holds exactly its seeded stock.
		if !st.hasInbound[c.Node] {
			st.caps[c] = qty
		}
	}
	for _, n := range st.req.Nodes {
		if n.Role != entities.Manufacturing {
			continue
		}
		for _, p := range st.req.Products {
			for _, d := range h.Days() {
				c := entities.NewCohortKey(n.ID, p.ID, d, p.InitialState)
				if st.registerCohort(c, d) {
					queue = append(queue, c)
				}
				if !st.hasInbound[n.ID] {
					cap := st.capacity(n.ID, p, d)
					if init, ok := st.req.InitialInventory[c]; ok {
						cap += init
					}
					st.caps[c] = cap
				}
			}
		}
	}

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		p := st.products[c.Product]
		maxAge, held := p.MaxAge(c.State)
		if !held {
			continue
		}
		from := st.avail[c]
		expiry := c.BirthDate.AddDate(0, 0, maxAge)

		// Shipments: the cohort appears at the leg destination from the
		// earliest arrival that is still within shelf life.
		for _, l := range st.req.Legs {
			if l.Origin != c.Node {
				continue
			}
			dep := from
			if dep.Before(h.Start) {
				dep = h.Start
			}
			arrival := dep.AddDate(0, 0, l.TransitDays)
			if arrival.After(h.End) || arrival.After(expiry) {
				continue
			}
			dest := entities.NewCohortKey(l.Dest, c.Product, c.BirthDate, c.State)
			if st.registerCohort(dest, arrival) {
				queue = append(queue, dest)
			}
		}

		// Transitions: a fresh cohort is born on each day the change can
		// happen. Manufacturing nodes ship, they do not reprocess.
		if st.nodes[c.Node].Role == entities.Manufacturing {
			continue
		}
		for _, tr := range p.Transitions {
			if tr.From != c.State {
				continue
			}
			first := from
			if first.Before(h.Start) {
				first = h.Start
			}
			for d := first; !d.After(h.End) && !d.After(expiry); d = d.AddDate(0, 0, 1) {
				born := entities.NewCohortKey(c.Node, c.Product, d, tr.To)
				if st.registerCohort(born, d) {
					queue = append(queue, born)
				}
			}
		}
	}
}

// addProduction registers batch quantity, run and start variables for
// every (manufacturing node, product, day), links quantity to the run
// binary, emits the start-tracking rows and one labor row per node-day.
func (st *buildState) addProduction() error {
	h := st.req.Horizon
	days := h.Days()
	for _, n := range st.req.Nodes {
		if n.Role != entities.Manufacturing {
			continue
		}
		for _, p := range st.req.Products {
			for _, d := range days {
				batch := entities.NewBatchKey(n.ID, p.ID, d)
				st.batches = append(st.batches, batch)
				cap := st.capacity(n.ID, p, d)

				if err := st.m.AddVariable(milp.Variable{Key: keyProduction(batch), Kind: milp.Continuous, Lo: 0, Hi: cap}); err != nil {
					return err
				}
				if err := st.m.AddVariable(milp.Variable{Key: keyProduced(batch), Kind: milp.Binary}); err != nil {
					return err
				}
				if err := st.m.AddVariable(milp.Variable{Key: keyStart(batch), Kind: milp.Binary}); err != nil {
					return err
				}

				// qty <= cap * produced
				if err := st.m.AddConstraint(milp.Constraint{
					Name:   fmt.Sprintf("link|%s", batch),
					Family: milp.FamilyCapacity,
					Sense:  milp.LessEqual,
					RHS:    0,
					Terms: []milp.Term{
						{Coef: 1, Key: keyProduction(batch)},
						{Coef: -cap, Key: keyProduced(batch)},
					},
				}); err != nil {
					return err
				}
				if cap == 0 {
					// No labor that day: pin the run binary so it cannot
					// float between equally-priced values.
					if err := st.m.AddConstraint(milp.Constraint{
						Name:   fmt.Sprintf("norun|%s", batch),
						Family: milp.FamilyCapacity,
						Sense:  milp.LessEqual,
						RHS:    0,
						Terms:  []milp.Term{{Coef: 1, Key: keyProduced(batch)}},
					}); err != nil {
						return err
					}
				}

				// Production feeds the cohort born that day.
				c := entities.NewCohortKey(n.ID, p.ID, d, p.InitialState)
				st.addFlow(c, d, milp.Term{Coef: -1, Key: keyProduction(batch)})
			}
			if err := emitStartRows(st.m, n.ID, p.ID, days); err != nil {
				return err
			}
		}

		// Labor: production time plus changeover setups fit the calendar.
		for _, d := range days {
			row := milp.Constraint{
				Name:   fmt.Sprintf("labor|%s|%s", n.ID, entities.FormatDate(d)),
				Family: milp.FamilyCapacity,
				Sense:  milp.LessEqual,
				RHS:    st.hours(n.ID, d),
			}
			for _, p := range st.req.Products {
				batch := entities.NewBatchKey(n.ID, p.ID, d)
				row.Terms = append(row.Terms,
					milp.Term{Coef: 1 / p.UnitsPerHour, Key: keyProduction(batch)},
					milp.Term{Coef: n.ChangeoverHours, Key: keyStart(batch)},
				)
			}
			if err := st.m.AddConstraint(row); err != nil {
				return err
			}
		}
	}
	return nil
}

// addInventory registers the end-of-day quantity variable for every
// reachable cohort-day. Variables persist past expiry (dead stock still
// occupies storage); expiry only removes the cohort from outflow sums.
func (st *buildState) addInventory() error {
	h := st.req.Horizon
	for c, from := range st.avail {
		first := from
		if first.Before(h.Start) {
			first = h.Start
		}
		for d := first; !d.After(h.End); d = d.AddDate(0, 0, 1) {
			if err := st.m.AddVariable(milp.Variable{
				Key:  keyInventory(c, d),
				Kind: milp.Continuous,
				Lo:   0,
				Hi:   st.caps[c],
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

// addDemand emits one equality row per (node, product, day) with demand:
// consumption from unexpired cohorts plus shortage slack equals forecast.
func (st *buildState) addDemand() error {
	for cell, qty := range st.demand {
		st.demandCells = append(st.demandCells, cell)
		row := milp.Constraint{
			Name:   fmt.Sprintf("demand|%s|%s|%s", cell.Node, cell.Product, entities.FormatDate(cell.Date)),
			Family: milp.FamilyDemand,
			Sense:  milp.Equal,
			RHS:    qty,
		}

		p := st.products[cell.Product]
		for c, from := range st.avail {
			if c.Node != cell.Node || c.Product != cell.Product {
				continue
			}
			if from.After(cell.Date) || c.ExpiredOn(cell.Date, p) {
				continue
			}
			cons := keyConsume(c, cell.Date)
			if err := st.m.AddVariable(milp.Variable{Key: cons, Kind: milp.Continuous, Lo: 0, Hi: qty}); err != nil {
				return err
			}
			st.consumers[cell] = append(st.consumers[cell], c)
			st.addFlow(c, cell.Date, milp.Term{Coef: 1, Key: cons})
			row.Terms = append(row.Terms, milp.Term{Coef: 1, Key: cons})
		}

		short := keyShortage(cell.Node, cell.Product, cell.Date)
		if err := st.m.AddVariable(milp.Variable{Key: short, Kind: milp.Continuous, Lo: 0, Hi: qty}); err != nil {
			return err
		}
		row.Terms = append(row.Terms, milp.Term{Coef: 1, Key: short})

		if err := st.m.AddConstraint(row); err != nil {
			return err
		}
	}
	return nil
}

// addShipments registers shipment quantities for every feasible (leg,
// cohort, departure), integer truck counts per leg-day, vehicle capacity
// rows and dock capacity rows at the receiving nodes.
func (st *buildState) addShipments() error {
	h := st.req.Horizon

	type legDay struct {
		leg entities.RouteLeg
		day time.Time
	}
	shipTerms := make(map[legDay][]milp.Term)
	var legDays []legDay

	for _, l := range st.req.Legs {
		for c, from := range st.avail {
			if c.Node != l.Origin {
				continue
			}
			p := st.products[c.Product]
			maxAge, held := p.MaxAge(c.State)
			if !held {
				continue
			}
			first := from
			if first.Before(h.Start) {
				first = h.Start
			}
			for dep := first; !dep.After(h.End); dep = dep.AddDate(0, 0, 1) {
				arrival := dep.AddDate(0, 0, l.TransitDays)
				if arrival.After(h.End) {
					break
				}
				// Shelf life must survive transit: expired-on-arrival
				// shipments are never variables at all.
				if entities.DaysBetween(c.BirthDate, arrival) > maxAge {
					break
				}
				s := shipment{Leg: *l, Cohort: c, DepartDate: dep}
				key := keyShipment(s)
				if st.m.HasVariable(key) {
					continue
				}
				if err := st.m.AddVariable(milp.Variable{Key: key, Kind: milp.Continuous, Lo: 0, Hi: st.caps[c]}); err != nil {
					return err
				}
				st.shipments = append(st.shipments, s)

				st.addFlow(c, dep, milp.Term{Coef: 1, Key: key})
				dest := entities.NewCohortKey(l.Dest, c.Product, c.BirthDate, c.State)
				st.addFlow(dest, arrival, milp.Term{Coef: -1, Key: key})

				ld := legDay{leg: *l, day: dep}
				if _, ok := shipTerms[ld]; !ok {
					legDays = append(legDays, ld)
				}
				shipTerms[ld] = append(shipTerms[ld], milp.Term{
					Coef: 1 / float64(p.UnitsPerPallet),
					Key:  key,
				})
			}
		}
	}

	// Trucks: integer count per leg-day, pallet volume fits the trucks,
	// arriving trucks fit the destination's docks.
	type nodeDay struct {
		Node entities.NodeID
		Date time.Time
	}
	trucksByArrival := make(map[nodeDay][]milp.Term)
	for _, ld := range legDays {
		maxTrucks := truckBound(st, ld.leg)
		trk := keyTrucks(ld.leg, ld.day)
		if err := st.m.AddVariable(milp.Variable{Key: trk, Kind: milp.Integer, Lo: 0, Hi: float64(maxTrucks)}); err != nil {
			return err
		}
		row := milp.Constraint{
			Name:   fmt.Sprintf("vehicle|%s|%s", ld.leg.Key(), entities.FormatDate(ld.day)),
			Family: milp.FamilyCapacity,
			Sense:  milp.LessEqual,
			RHS:    0,
			Terms:  append(append([]milp.Term{}, shipTerms[ld]...), milp.Term{Coef: -float64(ld.leg.VehicleCapacityPallets), Key: trk}),
		}
		if err := st.m.AddConstraint(row); err != nil {
			return err
		}

		arrival := ld.day.AddDate(0, 0, ld.leg.TransitDays)
		cell := nodeDay{Node: ld.leg.Dest, Date: arrival}
		trucksByArrival[cell] = append(trucksByArrival[cell], milp.Term{Coef: 1, Key: trk})
	}

	for cell, terms := range trucksByArrival {
		dock := st.nodes[cell.Node].DockCapacity
		if dock <= 0 {
			continue
		}
		if err := st.m.AddConstraint(milp.Constraint{
			Name:   fmt.Sprintf("dock|%s|%s", cell.Node, entities.FormatDate(cell.Date)),
			Family: milp.FamilyCapacity,
			Sense:  milp.LessEqual,
			RHS:    float64(dock),
			Terms:  terms,
		}); err != nil {
			return err
		}
	}
	return nil
}

// truckBound caps the integer truck count for a leg from total product
// supply and the smallest pallet size shipped.
func truckBound(st *buildState, leg entities.RouteLeg) int {
	pallets := 0.0
	for _, p := range st.req.Products {
		pallets += st.productCap[p.ID] / float64(p.UnitsPerPallet)
	}
	bound := int(math.Ceil(pallets / float64(leg.VehicleCapacityPallets)))
	if bound < 1 {
		bound = 1
	}
	return bound
}

// addTransitions registers state-change variables. A transition zeroes the
// moved quantity out of the source cohort and births a cohort of the
// target state dated the transition day — the only place age resets.
func (st *buildState) addTransitions() error {
	h := st.req.Horizon
	for c, from := range st.avail {
		node := st.nodes[c.Node]
		if node.Role == entities.Manufacturing {
			continue
		}
		p := st.products[c.Product]
		maxAge, held := p.MaxAge(c.State)
		if !held {
			continue
		}
		expiry := c.BirthDate.AddDate(0, 0, maxAge)
		for _, tr := range p.Transitions {
			if tr.From != c.State {
				continue
			}
			first := from
			if first.Before(h.Start) {
				first = h.Start
			}
			for d := first; !d.After(h.End) && !d.After(expiry); d = d.AddDate(0, 0, 1) {
				key := keyTransition(c, tr.To, d)
				if err := st.m.AddVariable(milp.Variable{Key: key, Kind: milp.Continuous, Lo: 0, Hi: st.caps[c]}); err != nil {
					return err
				}
				t := transition{Cohort: c, To: tr.To, Date: d}
				st.transitions = append(st.transitions, t)

				st.addFlow(c, d, milp.Term{Coef: 1, Key: key})
				born := entities.NewCohortKey(c.Node, c.Product, d, tr.To)
				st.addFlow(born, d, milp.Term{Coef: -1, Key: key})
			}
		}
	}
	return nil
}

// addFlow records a term of a cohort-day balance row. Outflows carry
// coefficient +1, inflows -1, matching inv[d] - inv[d-1] + out - in = rhs.
func (st *buildState) addFlow(c entities.CohortKey, d time.Time, term milp.Term) {
	cd := cohortDay{Cohort: c, Date: d}
	st.flows[cd] = append(st.flows[cd], term)
}

// addBalances ties every cohort's quantity at date D to its quantity at
// D-1 plus inflows minus outflows. The first row of an initial-inventory
// cohort carries the realized opening quantity on the right-hand side.
func (st *buildState) addBalances() error {
	h := st.req.Horizon
	for c, from := range st.avail {
		first := from
		if first.Before(h.Start) {
			first = h.Start
		}
		for d := first; !d.After(h.End); d = d.AddDate(0, 0, 1) {
			row := milp.Constraint{
				Name:   fmt.Sprintf("balance|%s|%s", c, entities.FormatDate(d)),
				Family: milp.FamilyBalance,
				Sense:  milp.Equal,
				RHS:    0,
				Terms:  []milp.Term{{Coef: 1, Key: keyInventory(c, d)}},
			}
			if d.Equal(first) {
				if qty, ok := st.req.InitialInventory[c]; ok {
					row.RHS = qty
				}
			} else {
				row.Terms = append(row.Terms, milp.Term{Coef: -1, Key: keyInventory(c, d.AddDate(0, 0, -1))})
			}
			row.Terms = append(row.Terms, st.flows[cohortDay{Cohort: c, Date: d}]...)
			if err := st.m.AddConstraint(row); err != nil {
				return err
			}
		}
	}
	return nil
}

// addPallets emits the integer pallet count and ceiling row for every
// frozen cohort-day.
func (st *buildState) addPallets() error {
	h := st.req.Horizon
	for c, from := range st.avail {
		if c.State != entities.Frozen {
			continue
		}
		p := st.products[c.Product]
		first := from
		if first.Before(h.Start) {
			first = h.Start
		}
		for d := first; !d.After(h.End); d = d.AddDate(0, 0, 1) {
			if err := emitPalletVars(st.m, c, d, p.UnitsPerPallet, st.caps[c]); err != nil {
				return err
			}
			st.palletDays[c] = append(st.palletDays[c], d)
		}
	}
	return nil
}

func demandRecords(st *buildState) []entities.DemandRecord {
	out := make([]entities.DemandRecord, 0, len(st.demandCells))
	for _, cell := range st.demandCells {
		out = append(out, entities.DemandRecord{
			Node:     cell.Node,
			Product:  cell.Product,
			Date:     cell.Date,
			Quantity: st.demand[cell],
		})
	}
	return out
}
