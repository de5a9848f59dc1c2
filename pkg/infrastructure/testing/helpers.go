package testing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/coldchain/planner/pkg/domain/entities"
	"github.com/coldchain/planner/pkg/infrastructure/repositories/memory"
	"github.com/coldchain/planner/pkg/planner"
)

// DefaultCosts returns a cost structure with plausible relative prices:
// shortage far above production so demand is served whenever physically
// possible, and storage cheap enough that carrying stock beats missing a
// sale.
func DefaultCosts() entities.CostStructure {
	return entities.CostStructure{
		Mode:                entities.UnitStorage,
		ProductionPerUnit:   decimal.NewFromFloat(2.5),
		TransportPerUnitLeg: decimal.NewFromFloat(0.4),
		ChangeoverCost:      decimal.NewFromInt(150),
		ShortagePerUnit:     decimal.NewFromInt(500),
		StoragePerUnitDay: map[entities.ShelfLifeState]decimal.Decimal{
			entities.Frozen:  decimal.NewFromFloat(0.05),
			entities.Ambient: decimal.NewFromFloat(0.02),
			entities.Thawed:  decimal.NewFromFloat(0.08),
		},
	}
}

// PalletCosts returns DefaultCosts switched to pallet-billed frozen
// storage.
func PalletCosts() entities.CostStructure {
	costs := DefaultCosts()
	costs.Mode = entities.PalletStorage
	costs.PalletPerDay = decimal.NewFromInt(3)
	costs.PalletFixed = decimal.NewFromInt(14)
	costs.PalletAmortizationDays = 7
	return costs
}

// FrozenProduct returns a frozen product that can thaw, with the given
// shelf lives.
func FrozenProduct(id entities.ProductID, frozenDays, thawedDays int) *entities.Product {
	p, err := entities.NewProduct(
		id,
		entities.Frozen,
		map[entities.ShelfLifeState]int{
			entities.Frozen: frozenDays,
			entities.Thawed: thawedDays,
		},
		[]entities.StateTransition{{From: entities.Frozen, To: entities.Thawed}},
		50,  // units per pallet
		120, // units per hour
	)
	if err != nil {
		panic(err)
	}
	return p
}

// SingleNodeScenario builds a request with one manufacturing node serving
// its own demand: the given quantity per day for every horizon day, with
// the given labor hours per day. No legs, no transitions worth taking.
func SingleNodeScenario(start time.Time, days int, dailyDemand, dailyHours float64) *planner.PlanningRequest {
	start = entities.Midnight(start)
	horizon, err := entities.NewHorizon(start, start.AddDate(0, 0, days-1))
	if err != nil {
		panic(err)
	}
	node, err := entities.NewNode("PLANT", entities.Manufacturing, 0.5, 0)
	if err != nil {
		panic(err)
	}
	product := FrozenProduct("PIZZA", 90, 5)

	var forecast []entities.DemandRecord
	var labor []entities.LaborDay
	for _, d := range horizon.Days() {
		if dailyDemand > 0 {
			rec, err := entities.NewDemandRecord(node.ID, product.ID, d, dailyDemand)
			if err != nil {
				panic(err)
			}
			forecast = append(forecast, *rec)
		}
		day, err := entities.NewLaborDay(node.ID, d, dailyHours, false)
		if err != nil {
			panic(err)
		}
		labor = append(labor, *day)
	}

	return &planner.PlanningRequest{
		Horizon:  horizon,
		Nodes:    []*entities.Node{node},
		Products: []*entities.Product{product},
		Forecast: forecast,
		Labor:    labor,
		Costs:    DefaultCosts(),
	}
}

// NetworkScenario builds a plant -> hub -> store chain with one frozen
// product, demand at the store and labor at the plant only.
func NetworkScenario(start time.Time, days int, dailyDemand float64) *planner.PlanningRequest {
	start = entities.Midnight(start)
	horizon, err := entities.NewHorizon(start, start.AddDate(0, 0, days-1))
	if err != nil {
		panic(err)
	}

	plant, err := entities.NewNode("PLANT", entities.Manufacturing, 0.5, 0)
	if err != nil {
		panic(err)
	}
	hub, err := entities.NewNode("HUB", entities.Hub, 0, 4)
	if err != nil {
		panic(err)
	}
	store, err := entities.NewNode("STORE", entities.DeliveryPoint, 0, 2)
	if err != nil {
		panic(err)
	}

	toHub, err := entities.NewRouteLeg(plant.ID, hub.ID, 1, 20)
	if err != nil {
		panic(err)
	}
	toStore, err := entities.NewRouteLeg(hub.ID, store.ID, 1, 8)
	if err != nil {
		panic(err)
	}

	product := FrozenProduct("PIZZA", 90, 5)

	var forecast []entities.DemandRecord
	var labor []entities.LaborDay
	for _, d := range horizon.Days() {
		rec, err := entities.NewDemandRecord(store.ID, product.ID, d, dailyDemand)
		if err != nil {
			panic(err)
		}
		forecast = append(forecast, *rec)
		day, err := entities.NewLaborDay(plant.ID, d, 8, false)
		if err != nil {
			panic(err)
		}
		labor = append(labor, *day)
	}

	return &planner.PlanningRequest{
		Horizon:  horizon,
		Nodes:    []*entities.Node{plant, hub, store},
		Legs:     []*entities.RouteLeg{toHub, toStore},
		Products: []*entities.Product{product},
		Forecast: forecast,
		Labor:    labor,
		Costs:    DefaultCosts(),
	}
}

// LoadedRepositories fills in-memory repositories from a request, for
// orchestrator tests that need the repository-backed path instead of a
// direct build.
func LoadedRepositories(req *planner.PlanningRequest) (
	*memory.NetworkRepository,
	*memory.ProductRepository,
	*memory.ForecastRepository,
	*memory.LaborRepository,
	*memory.InventoryRepository,
) {
	networkRepo := memory.NewNetworkRepository()
	if err := networkRepo.LoadNodes(req.Nodes); err != nil {
		panic(err)
	}
	if err := networkRepo.LoadLegs(req.Legs); err != nil {
		panic(err)
	}

	productRepo := memory.NewProductRepository()
	if err := productRepo.LoadProducts(req.Products); err != nil {
		panic(err)
	}

	forecastRepo := memory.NewForecastRepository()
	if err := forecastRepo.LoadDemand(req.Forecast); err != nil {
		panic(err)
	}

	laborRepo := memory.NewLaborRepository()
	if err := laborRepo.LoadCalendar(req.Labor); err != nil {
		panic(err)
	}

	return networkRepo, productRepo, forecastRepo, laborRepo, memory.NewInventoryRepository()
}
