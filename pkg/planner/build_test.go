package planner

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coldchain/planner/pkg/domain/entities"
)

func testCosts() entities.CostStructure {
	return entities.CostStructure{
		Mode:                entities.UnitStorage,
		ProductionPerUnit:   decimal.NewFromFloat(2.5),
		TransportPerUnitLeg: decimal.NewFromFloat(0.4),
		ChangeoverCost:      decimal.NewFromInt(150),
		ShortagePerUnit:     decimal.NewFromInt(500),
		StoragePerUnitDay: map[entities.ShelfLifeState]decimal.Decimal{
			entities.Frozen: decimal.NewFromFloat(0.05),
			entities.Thawed: decimal.NewFromFloat(0.08),
		},
	}
}

func frozenPizza(t testing.TB) *entities.Product {
	t.Helper()
	p, err := entities.NewProduct(
		"PIZZA",
		entities.Frozen,
		map[entities.ShelfLifeState]int{entities.Frozen: 90, entities.Thawed: 5},
		[]entities.StateTransition{{From: entities.Frozen, To: entities.Thawed}},
		50,
		120,
	)
	if err != nil {
		t.Fatalf("NewProduct failed: %v", err)
	}
	return p
}

// singleNodeRequest builds a one-plant request serving its own demand:
// dailyDemand units and dailyHours labor hours on every horizon day.
func singleNodeRequest(t testing.TB, days int, dailyDemand, dailyHours float64) *PlanningRequest {
	t.Helper()
	start := entities.Day(2026, time.September, 1)
	horizon, err := entities.NewHorizon(start, start.AddDate(0, 0, days-1))
	if err != nil {
		t.Fatalf("NewHorizon failed: %v", err)
	}
	plant, err := entities.NewNode("PLANT", entities.Manufacturing, 0.5, 0)
	if err != nil {
		t.Fatalf("NewNode failed: %v", err)
	}
	product := frozenPizza(t)

	var forecast []entities.DemandRecord
	var labor []entities.LaborDay
	for _, d := range horizon.Days() {
		if dailyDemand > 0 {
			forecast = append(forecast, entities.DemandRecord{
				Node: plant.ID, Product: product.ID, Date: d, Quantity: dailyDemand,
			})
		}
		labor = append(labor, entities.LaborDay{Node: plant.ID, Date: d, Hours: dailyHours})
	}
	return &PlanningRequest{
		Horizon:  horizon,
		Nodes:    []*entities.Node{plant},
		Products: []*entities.Product{product},
		Forecast: forecast,
		Labor:    labor,
		Costs:    testCosts(),
	}
}

// networkRequest builds a plant -> hub -> store chain with demand at the
// store and labor at the plant.
func networkRequest(t testing.TB, days int, dailyDemand float64) *PlanningRequest {
	t.Helper()
	start := entities.Day(2026, time.September, 1)
	horizon, err := entities.NewHorizon(start, start.AddDate(0, 0, days-1))
	if err != nil {
		t.Fatalf("NewHorizon failed: %v", err)
	}
	plant, err := entities.NewNode("PLANT", entities.Manufacturing, 0.5, 0)
	if err != nil {
		t.Fatalf("NewNode failed: %v", err)
	}
	hub, err := entities.NewNode("HUB", entities.Hub, 0, 4)
	if err != nil {
		t.Fatalf("NewNode failed: %v", err)
	}
	store, err := entities.NewNode("STORE", entities.DeliveryPoint, 0, 2)
	if err != nil {
		t.Fatalf("NewNode failed: %v", err)
	}
	toHub, err := entities.NewRouteLeg(plant.ID, hub.ID, 1, 20)
	if err != nil {
		t.Fatalf("NewRouteLeg failed: %v", err)
	}
	toStore, err := entities.NewRouteLeg(hub.ID, store.ID, 1, 8)
	if err != nil {
		t.Fatalf("NewRouteLeg failed: %v", err)
	}
	product := frozenPizza(t)

	var forecast []entities.DemandRecord
	var labor []entities.LaborDay
	for _, d := range horizon.Days() {
		forecast = append(forecast, entities.DemandRecord{
			Node: store.ID, Product: product.ID, Date: d, Quantity: dailyDemand,
		})
		labor = append(labor, entities.LaborDay{Node: plant.ID, Date: d, Hours: 8})
	}
	return &PlanningRequest{
		Horizon:  horizon,
		Nodes:    []*entities.Node{plant, hub, store},
		Legs:     []*entities.RouteLeg{toHub, toStore},
		Products: []*entities.Product{product},
		Forecast: forecast,
		Labor:    labor,
		Costs:    testCosts(),
	}
}

func mustBuild(t testing.TB, req *PlanningRequest) *Plan {
	t.Helper()
	plan, err := NewBuilder().Build(context.Background(), req)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return plan
}

func TestBuildRegistersProductionSlots(t *testing.T) {
	req := singleNodeRequest(t, 3, 100, 8)
	plan := mustBuild(t, req)

	if got := len(plan.Batches()); got != 3 {
		t.Fatalf("batches = %d, want 3", got)
	}
	for _, d := range req.Horizon.Days() {
		batch := entities.NewBatchKey("PLANT", "PIZZA", d)
		for _, key := range []string{"production", "produced", "start"} {
			var ok bool
			switch key {
			case "production":
				ok = plan.Model.HasVariable(keyProduction(batch))
			case "produced":
				ok = plan.Model.HasVariable(keyProduced(batch))
			case "start":
				ok = plan.Model.HasVariable(keyStart(batch))
			}
			if !ok {
				t.Errorf("missing %s variable for %s", key, batch)
			}
		}
		if !plan.Model.HasVariable(keyShortage("PLANT", "PIZZA", d)) {
			t.Errorf("missing shortage variable on %s", entities.FormatDate(d))
		}
	}

	// The day-one cohort persists through every later day.
	cohort := entities.NewCohortKey("PLANT", "PIZZA", req.Horizon.Start, entities.Frozen)
	for _, d := range req.Horizon.Days() {
		if !plan.Model.HasVariable(keyInventory(cohort, d)) {
			t.Errorf("missing inventory variable for %s on %s", cohort, entities.FormatDate(d))
		}
	}
	if !plan.Model.HasVariable(keyConsume(cohort, req.Horizon.Start)) {
		t.Error("same-day consumption variable missing")
	}
}

func TestBuildValidation(t *testing.T) {
	base := func() *PlanningRequest { return singleNodeRequest(t, 2, 100, 8) }
	hub, err := entities.NewNode("HUB", entities.Hub, 0, 4)
	if err != nil {
		t.Fatalf("NewNode failed: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*PlanningRequest) *PlanningRequest
	}{
		{"nil request", func(*PlanningRequest) *PlanningRequest { return nil }},
		{"no nodes", func(r *PlanningRequest) *PlanningRequest {
			r.Nodes = nil
			return r
		}},
		{"no products", func(r *PlanningRequest) *PlanningRequest {
			r.Products = nil
			return r
		}},
		{"duplicate node", func(r *PlanningRequest) *PlanningRequest {
			r.Nodes = append(r.Nodes, r.Nodes[0])
			return r
		}},
		{"leg to unknown node", func(r *PlanningRequest) *PlanningRequest {
			r.Legs = []*entities.RouteLeg{{Origin: "PLANT", Dest: "GHOST", TransitDays: 1, VehicleCapacityPallets: 10}}
			return r
		}},
		{"duplicate route leg", func(r *PlanningRequest) *PlanningRequest {
			r.Nodes = append(r.Nodes, hub)
			r.Legs = []*entities.RouteLeg{
				{Origin: "PLANT", Dest: "HUB", TransitDays: 1, VehicleCapacityPallets: 10},
				{Origin: "PLANT", Dest: "HUB", TransitDays: 2, VehicleCapacityPallets: 12},
			}
			return r
		}},
		{"forecast for unknown product", func(r *PlanningRequest) *PlanningRequest {
			r.Forecast = append(r.Forecast, entities.DemandRecord{
				Node: "PLANT", Product: "GHOST", Date: r.Horizon.Start, Quantity: 1,
			})
			return r
		}},
		{"negative initial inventory", func(r *PlanningRequest) *PlanningRequest {
			c := entities.NewCohortKey("PLANT", "PIZZA", r.Horizon.Start.AddDate(0, 0, -3), entities.Frozen)
			r.InitialInventory = map[entities.CohortKey]float64{c: -5}
			return r
		}},
		{"cohort born after horizon start", func(r *PlanningRequest) *PlanningRequest {
			c := entities.NewCohortKey("PLANT", "PIZZA", r.Horizon.Start.AddDate(0, 0, 2), entities.Frozen)
			r.InitialInventory = map[entities.CohortKey]float64{c: 5}
			return r
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewBuilder().Build(context.Background(), tc.mutate(base())); err == nil {
				t.Error("expected build to fail")
			}
		})
	}
}

func TestGreedyAssignmentIsFeasible(t *testing.T) {
	plan := mustBuild(t, singleNodeRequest(t, 3, 100, 8))
	a := GreedyAssignment(plan)

	if !a.Covers(plan.Model) {
		t.Fatal("greedy assignment does not cover the model")
	}
	if err := a.Check(plan.Model, 0); err != nil {
		t.Fatalf("greedy assignment infeasible: %v", err)
	}

	// Production every day covers demand exactly: one changeover on the
	// first day, then uninterrupted runs. 300 units at 2.5 plus one 150
	// setup.
	want := 300*2.5 + 150
	if got := a.Objective(plan.Model); math.Abs(got-want) > 1e-6 {
		t.Errorf("objective = %g, want %g", got, want)
	}
}

func TestGreedyRespectsLaborCeiling(t *testing.T) {
	plan := mustBuild(t, singleNodeRequest(t, 2, 10000, 8))
	a := GreedyAssignment(plan)

	if err := a.Check(plan.Model, 0); err != nil {
		t.Fatalf("greedy assignment infeasible: %v", err)
	}

	// 8 hours minus the 0.5h changeover at 120 units/hour.
	start := plan.Horizon.Start
	batch := entities.NewBatchKey("PLANT", "PIZZA", start)
	if got := a[keyProduction(batch)]; math.Abs(got-900) > 1e-6 {
		t.Errorf("day-one production = %g, want 900", got)
	}
	if got := a[keyShortage("PLANT", "PIZZA", start)]; math.Abs(got-9100) > 1e-6 {
		t.Errorf("day-one shortage = %g, want 9100", got)
	}
}

func TestShelfLifeExcludesExpiredCohorts(t *testing.T) {
	gelato, err := entities.NewProduct(
		"GELATO",
		entities.Frozen,
		map[entities.ShelfLifeState]int{entities.Frozen: 2},
		nil,
		50,
		120,
	)
	if err != nil {
		t.Fatalf("NewProduct failed: %v", err)
	}

	req := singleNodeRequest(t, 4, 0, 8)
	req.Products = []*entities.Product{gelato}
	lastDay := req.Horizon.End
	req.Forecast = []entities.DemandRecord{
		{Node: "PLANT", Product: "GELATO", Date: lastDay, Quantity: 100},
	}
	plan := mustBuild(t, req)

	// The day-one cohort is three days old on the last day and past its
	// two-day shelf life: no consumption variable may exist for it. The
	// day-two cohort is exactly at shelf life and still eligible.
	expired := entities.NewCohortKey("PLANT", "GELATO", req.Horizon.Start, entities.Frozen)
	if plan.Model.HasVariable(keyConsume(expired, lastDay)) {
		t.Error("expired cohort has a consumption variable")
	}
	eligible := entities.NewCohortKey("PLANT", "GELATO", req.Horizon.Start.AddDate(0, 0, 1), entities.Frozen)
	if !plan.Model.HasVariable(keyConsume(eligible, lastDay)) {
		t.Error("cohort at exactly shelf life lost its consumption variable")
	}
}

func TestInitialInventoryCarriesForward(t *testing.T) {
	req := singleNodeRequest(t, 3, 0, 8)
	cohort := entities.NewCohortKey("PLANT", "PIZZA", req.Horizon.Start.AddDate(0, 0, -5), entities.Frozen)
	req.InitialInventory = map[entities.CohortKey]float64{cohort: 40}
	plan := mustBuild(t, req)

	a := GreedyAssignment(plan)
	if err := a.Check(plan.Model, 0); err != nil {
		t.Fatalf("assignment infeasible: %v", err)
	}
	for _, d := range req.Horizon.Days() {
		if got := a[keyInventory(cohort, d)]; math.Abs(got-40) > 1e-6 {
			t.Errorf("inventory on %s = %g, want 40", entities.FormatDate(d), got)
		}
	}
}

func TestBuildNetworkShipments(t *testing.T) {
	req := networkRequest(t, 3, 100)
	plan := mustBuild(t, req)

	start := req.Horizon.Start
	cohort := entities.NewCohortKey("PLANT", "PIZZA", start, entities.Frozen)
	s := shipment{Leg: *req.Legs[0], Cohort: cohort, DepartDate: start}
	if !plan.Model.HasVariable(keyShipment(s)) {
		t.Error("missing shipment variable for the day-one plant cohort")
	}
	if !plan.Model.HasVariable(keyTrucks(*req.Legs[0], start)) {
		t.Error("missing truck count for the first leg-day")
	}

	// Demand sits at a non-manufacturing node, so the greedy baseline
	// cannot serve it; the completed point must still be feasible with
	// shortage absorbing everything.
	a := GreedyAssignment(plan)
	if err := a.Check(plan.Model, 0); err != nil {
		t.Fatalf("completed baseline infeasible: %v", err)
	}
	for _, d := range req.Horizon.Days() {
		if got := a[keyShortage("STORE", "PIZZA", d)]; math.Abs(got-100) > 1e-6 {
			t.Errorf("store shortage on %s = %g, want 100", entities.FormatDate(d), got)
		}
	}
}

func BenchmarkBuildNetworkModel(b *testing.B) {
	start := entities.Day(2026, time.September, 1)
	horizon, _ := entities.NewHorizon(start, start.AddDate(0, 0, 6))
	plant, _ := entities.NewNode("PLANT", entities.Manufacturing, 0.5, 0)
	hub, _ := entities.NewNode("HUB", entities.Hub, 0, 4)
	store, _ := entities.NewNode("STORE", entities.DeliveryPoint, 0, 2)
	toHub, _ := entities.NewRouteLeg(plant.ID, hub.ID, 1, 20)
	toStore, _ := entities.NewRouteLeg(hub.ID, store.ID, 1, 8)
	product, _ := entities.NewProduct(
		"PIZZA",
		entities.Frozen,
		map[entities.ShelfLifeState]int{entities.Frozen: 90, entities.Thawed: 5},
		[]entities.StateTransition{{From: entities.Frozen, To: entities.Thawed}},
		50,
		120,
	)
	var forecast []entities.DemandRecord
	var labor []entities.LaborDay
	for _, d := range horizon.Days() {
		forecast = append(forecast, entities.DemandRecord{Node: store.ID, Product: product.ID, Date: d, Quantity: 240})
		labor = append(labor, entities.LaborDay{Node: plant.ID, Date: d, Hours: 8})
	}
	req := &PlanningRequest{
		Horizon:  horizon,
		Nodes:    []*entities.Node{plant, hub, store},
		Legs:     []*entities.RouteLeg{toHub, toStore},
		Products: []*entities.Product{product},
		Forecast: forecast,
		Labor:    labor,
		Costs:    testCosts(),
	}
	builder := NewBuilder()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := builder.Build(ctx, req); err != nil {
			b.Fatal(err)
		}
	}
}
