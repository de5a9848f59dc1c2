package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/coldchain/planner/pkg/application/services/rolling"
	"github.com/coldchain/planner/pkg/domain/entities"
	"github.com/coldchain/planner/pkg/infrastructure/config"
	"github.com/coldchain/planner/pkg/infrastructure/events"
	csvrepo "github.com/coldchain/planner/pkg/infrastructure/repositories/csv"
	"github.com/coldchain/planner/pkg/infrastructure/repositories/memory"
	"github.com/coldchain/planner/pkg/interfaces/cli/output"
	"github.com/coldchain/planner/pkg/solve"
)

// Config holds configuration for the plan command
type Config struct {
	ScenarioDir string
	ConfigFile  string
	StartDate   string
	Days        int
	OutputDir   string
	Format      string
	Verbose     bool
	Help        bool
}

// PlanCommand handles the rolling-plan execution logic
type PlanCommand struct {
	config Config
}

// NewPlanCommand creates a new plan command with the given configuration
func NewPlanCommand(config Config) *PlanCommand {
	return &PlanCommand{
		config: config,
	}
}

// Execute runs the plan command
func (c *PlanCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if c.config.ScenarioDir == "" {
		return fmt.Errorf("a scenario directory is required (-scenario)")
	}
	if c.config.Days < 1 {
		return fmt.Errorf("must plan at least one day (-days)")
	}

	cfg, err := config.Load(c.config.ConfigFile)
	if err != nil {
		return err
	}

	logger, err := c.buildLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	start := entities.Midnight(time.Now().UTC())
	if c.config.StartDate != "" {
		start, err = entities.ParseDate(c.config.StartDate)
		if err != nil {
			return fmt.Errorf("invalid start date: %w", err)
		}
	}

	if c.config.Verbose {
		fmt.Println("📂 Loading scenario data from CSV files...")
	}

	scenario, err := loadScenario(c.config.ScenarioDir, start)
	if err != nil {
		return err
	}
	if scenario.costs.PalletAmortizationDays == 0 {
		scenario.costs.PalletAmortizationDays = cfg.PalletAmortizationDays
	}

	adapter := solve.NewAdapter(cfg.SolverProvider, logger)
	store := events.NewInMemoryEventStore(logger)

	orch, err := rolling.NewOrchestrator(rolling.Config{
		Solver:      adapter,
		Network:     scenario.network,
		Products:    scenario.products,
		Forecast:    scenario.forecast,
		Labor:       scenario.labor,
		Inventory:   scenario.inventory,
		Store:       store,
		Costs:       scenario.costs,
		HorizonDays: cfg.HorizonDays,
		SolveOpts: solve.Options{
			TimeLimit: cfg.SolverTimeLimit,
			GapRel:    cfg.SolverGapRel,
			Threads:   cfg.SolverThreads,
			Verbose:   cfg.SolverVerbose,
		},
		Logger: logger,
	})
	if err != nil {
		return err
	}

	if c.config.Verbose {
		fmt.Printf("🔄 Running %d planning cycle(s) from %s over a %d-day horizon...\n",
			c.config.Days, entities.FormatDate(start), cfg.HorizonDays)
	}

	results, err := orch.Run(ctx, start, c.config.Days)
	if err != nil {
		return err
	}

	return output.Generate(results, output.Config{
		OutputDir: c.config.OutputDir,
		Format:    c.config.Format,
		Verbose:   c.config.Verbose,
	})
}

func (c *PlanCommand) buildLogger(configured string) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(configured)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level %q: %w", configured, err)
	}
	if c.config.Verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger(), nil
}

// scenarioData is everything loaded from a scenario directory.
type scenarioData struct {
	network   *memory.NetworkRepository
	products  *memory.ProductRepository
	forecast  *memory.ForecastRepository
	labor     *memory.LaborRepository
	inventory *memory.InventoryRepository
	costs     entities.CostStructure
}

// loadScenario reads the scenario directory's CSV files into repositories.
// legs.csv, inventory.csv and costs.csv are optional: a missing legs file
// means a single-site network, missing inventory means an empty network
// and missing costs fall back to conservative defaults.
func loadScenario(dir string, start time.Time) (*scenarioData, error) {
	loader := csvrepo.NewLoader()

	nodes, err := loader.LoadNodes(filepath.Join(dir, "nodes.csv"))
	if err != nil {
		return nil, err
	}
	products, err := loader.LoadProducts(filepath.Join(dir, "products.csv"))
	if err != nil {
		return nil, err
	}
	forecast, err := loader.LoadForecast(filepath.Join(dir, "forecast.csv"))
	if err != nil {
		return nil, err
	}
	labor, err := loader.LoadLabor(filepath.Join(dir, "labor.csv"))
	if err != nil {
		return nil, err
	}

	var legs []*entities.RouteLeg
	legsFile := filepath.Join(dir, "legs.csv")
	if _, err := os.Stat(legsFile); err == nil {
		legs, err = loader.LoadLegs(legsFile)
		if err != nil {
			return nil, err
		}
	}

	costs := defaultCosts()
	costsFile := filepath.Join(dir, "costs.csv")
	if _, err := os.Stat(costsFile); err == nil {
		costs, err = loader.LoadCosts(costsFile)
		if err != nil {
			return nil, err
		}
	}

	data := &scenarioData{
		network:   memory.NewNetworkRepository(),
		products:  memory.NewProductRepository(),
		forecast:  memory.NewForecastRepository(),
		labor:     memory.NewLaborRepository(),
		inventory: memory.NewInventoryRepository(),
		costs:     costs,
	}
	if err := data.network.LoadNodes(nodes); err != nil {
		return nil, err
	}
	if err := data.network.LoadLegs(legs); err != nil {
		return nil, err
	}
	if err := data.products.LoadProducts(products); err != nil {
		return nil, err
	}
	if err := data.forecast.LoadDemand(forecast); err != nil {
		return nil, err
	}
	if err := data.labor.LoadCalendar(labor); err != nil {
		return nil, err
	}

	inventoryFile := filepath.Join(dir, "inventory.csv")
	if _, err := os.Stat(inventoryFile); err == nil {
		initial, err := loader.LoadInitialInventory(inventoryFile)
		if err != nil {
			return nil, err
		}
		// Seed as the realized ending state of the day before the first
		// cycle, which is where the orchestrator reads from.
		if err := data.inventory.RecordEndingInventory(context.Background(), start.AddDate(0, 0, -1), initial); err != nil {
			return nil, err
		}
	}

	return data, nil
}

// defaultCosts applies when a scenario ships no costs.csv: unit-billed
// storage with shortage priced far above production.
func defaultCosts() entities.CostStructure {
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

// showHelp displays the help message
func (c *PlanCommand) showHelp() {
	fmt.Printf(`Cold-Chain Planner CLI - Rolling-Horizon Supply Planning

USAGE:
    planner -scenario <directory>          # Plan one day from a scenario directory
    planner -scenario <dir> -days 7        # Roll the plan forward a week

OPTIONS:
    -scenario <dir>     Path to scenario directory containing CSV files
    -config <file>      Path to config file (optional)
    -start <date>       First execution day, YYYY-MM-DD (default today)
    -days <n>           Number of daily planning cycles to run (default: 1)
    -output <dir>       Output directory for results (optional)
    -format <fmt>       Output format: text, json, csv (default: text)
    -verbose            Enable verbose output
    -help               Show this help message

SCENARIO DIRECTORY STRUCTURE:
    scenario_name/
    ├── nodes.csv       # Network nodes (plants, hubs, stores)
    ├── legs.csv        # Route legs between nodes (optional)
    ├── products.csv    # Product catalog with shelf lives
    ├── forecast.csv    # Demand forecast
    ├── labor.csv       # Labor calendar for manufacturing nodes
    ├── inventory.csv   # Starting cohort inventory (optional)
    └── costs.csv       # Cost structure (optional)

CSV FILE FORMATS:

nodes.csv:
    node_id,role,changeover_hours,dock_capacity
    PLANT,manufacturing,0.5,0
    STORE,delivery,0,2

legs.csv:
    origin,dest,transit_days,vehicle_capacity_pallets
    PLANT,STORE,1,8

products.csv:
    product_id,initial_state,shelf_life,transitions,units_per_pallet,units_per_hour
    PIZZA,frozen,frozen:90;thawed:5,frozen>thawed,50,120

forecast.csv:
    node_id,product_id,date,quantity
    STORE,PIZZA,2026-09-01,240

labor.csv:
    node_id,date,hours,overtime
    PLANT,2026-09-01,8,false

inventory.csv:
    node_id,product_id,birth_date,state,quantity
    STORE,PIZZA,2026-08-25,frozen,120

EXAMPLES:
    # Plan a single day
    planner -scenario examples/frozen_basic -verbose

    # Roll a week of daily cycles with JSON output
    planner -scenario examples/frozen_basic -days 7 -format json -output results/

    # Start from a fixed date
    planner -scenario examples/frozen_basic -start 2026-09-01 -days 3
`)
}
