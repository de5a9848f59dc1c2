package planner

import (
	"time"

	"github.com/coldchain/planner/pkg/domain/entities"
	"github.com/coldchain/planner/pkg/milp"
	"github.com/coldchain/planner/pkg/solve"
)

// PlanningRequest is everything one planning cycle needs: the horizon, the
// network, the forecast, the labor calendar, the cost structure, realized
// initial inventory and (optionally) the previous cycle's assignment.
type PlanningRequest struct {
	Horizon  entities.Horizon
	Nodes    []*entities.Node
	Legs     []*entities.RouteLeg
	Products []*entities.Product
	Forecast []entities.DemandRecord
	Labor    []entities.LaborDay
	Costs    entities.CostStructure

	// InitialInventory is realized ending inventory from the previous
	// execution day, keyed by cohort. Nil means an empty network.
	InitialInventory map[entities.CohortKey]float64

	// Warmstart is the previous cycle's extracted assignment, already
	// projected onto this horizon. Nil means a cold solve.
	Warmstart milp.Assignment
}

// shipment is a feasible (leg, cohort, departure) combination discovered
// during the build. The cohort's state rides along so that same-birth
// cohorts in different states stay distinguishable.
type shipment struct {
	Leg        entities.RouteLeg
	Cohort     entities.CohortKey
	DepartDate time.Time
}

// ArrivalDate is the day the shipment merges into the destination cohort.
func (s shipment) ArrivalDate() time.Time {
	return s.DepartDate.AddDate(0, 0, s.Leg.TransitDays)
}

// transition is a feasible state change of one cohort on one day.
type transition struct {
	Cohort entities.CohortKey
	To     entities.ShelfLifeState
	Date   time.Time
}

// Plan is a built model plus the registries that tie variable keys back to
// their domain identities for extraction and reporting.
type Plan struct {
	Model   *milp.Model
	Horizon entities.Horizon
	Request *PlanningRequest

	cohorts     map[entities.CohortKey]time.Time // earliest availability
	batches     []entities.BatchKey
	shipments   []shipment
	transitions []transition
	demands     []entities.DemandRecord
	palletVars  map[entities.CohortKey][]time.Time
}

// Batches lists every (node, product, day) production slot in the plan.
func (p *Plan) Batches() []entities.BatchKey {
	return p.batches
}

// Cohorts lists every cohort with its earliest availability date.
func (p *Plan) Cohorts() map[entities.CohortKey]time.Time {
	return p.cohorts
}

// Diagnostics describes how a solve went.
type Diagnostics struct {
	Gap               float64
	Elapsed           time.Duration
	Nodes             int64
	Warmstarted       bool
	WarmstartCoverage float64
	Variables         int
	Constraints       int
}

// ProductionEntry is one batch quantity in the result.
type ProductionEntry struct {
	Batch    entities.BatchKey
	Quantity float64
}

// ShipmentEntry is one shipment quantity in the result.
type ShipmentEntry struct {
	Leg        string
	Product    entities.ProductID
	BirthDate  time.Time
	State      entities.ShelfLifeState
	DepartDate time.Time
	Quantity   float64
}

// ShortageEntry is one unserved demand quantity in the result.
type ShortageEntry struct {
	Node     entities.NodeID
	Product  entities.ProductID
	Date     time.Time
	Quantity float64
}

// OptimizationResult is the sole interface the reporting layer consumes:
// status, objective, the full cohort-level plan and solve diagnostics.
type OptimizationResult struct {
	Status    solve.Status
	Objective float64

	Production []ProductionEntry
	Inventory  []entities.InventoryLevel
	Shipments  []ShipmentEntry
	Shortages  []ShortageEntry

	// ProducedMatrix is the binary production-day matrix.
	ProducedMatrix map[entities.BatchKey]bool

	Diagnostics Diagnostics
}
