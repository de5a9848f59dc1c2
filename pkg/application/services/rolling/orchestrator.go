package rolling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/coldchain/planner/pkg/domain/entities"
	"github.com/coldchain/planner/pkg/domain/repositories"
	"github.com/coldchain/planner/pkg/infrastructure/events"
	"github.com/coldchain/planner/pkg/milp"
	"github.com/coldchain/planner/pkg/planner"
	"github.com/coldchain/planner/pkg/solve"
)

// Phase is where a cycle currently is in its lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseBuilding
	PhaseProjecting
	PhaseSolving
	PhaseExtracting
	PhaseAdvancing
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseBuilding:
		return "building"
	case PhaseProjecting:
		return "projecting"
	case PhaseSolving:
		return "solving"
	case PhaseExtracting:
		return "extracting"
	case PhaseAdvancing:
		return "advancing"
	default:
		return "unknown"
	}
}

// Solver is the solve surface the orchestrator depends on. The production
// implementation is *solve.Adapter; tests substitute a stub that returns
// crafted assignments without invoking an engine.
type Solver interface {
	Solve(ctx context.Context, m *milp.Model, opts solve.Options, warmstart milp.Assignment) (solve.Result, error)
}

// Orchestrator drives the rolling-horizon loop: each execution day it
// builds a fresh model over a shifted window, seeds it with realized
// inventory, carries the previous solution forward as a warmstart, solves
// and records the day's planned ending state for the next cycle.
//
// It is single-cycle sequential by design. The carried assignment is the
// only mutable state between cycles, so running days out of order or
// concurrently would corrupt the warmstart chain.
type Orchestrator struct {
	builder   *planner.Builder
	solver    Solver
	network   repositories.NetworkRepository
	products  repositories.ProductRepository
	forecast  repositories.ForecastRepository
	labor     repositories.LaborRepository
	inventory repositories.InventoryRepository
	store     events.EventStore

	costs       entities.CostStructure
	horizonDays int
	opts        solve.Options
	log         zerolog.Logger

	phase Phase
	carry milp.Assignment
}

// Config collects the orchestrator's collaborators and settings.
type Config struct {
	Solver    Solver
	Network   repositories.NetworkRepository
	Products  repositories.ProductRepository
	Forecast  repositories.ForecastRepository
	Labor     repositories.LaborRepository
	Inventory repositories.InventoryRepository
	Store     events.EventStore

	Costs       entities.CostStructure
	HorizonDays int
	SolveOpts   solve.Options
	Logger      zerolog.Logger
}

// NewOrchestrator validates the configuration and returns an idle
// orchestrator.
func NewOrchestrator(cfg Config) (*Orchestrator, error) {
	if cfg.Solver == nil {
		return nil, fmt.Errorf("solver is required")
	}
	if cfg.Network == nil || cfg.Products == nil || cfg.Forecast == nil ||
		cfg.Labor == nil || cfg.Inventory == nil {
		return nil, fmt.Errorf("all repositories are required")
	}
	if cfg.HorizonDays < 1 {
		return nil, fmt.Errorf("horizon must cover at least one day, got %d", cfg.HorizonDays)
	}
	if err := cfg.Costs.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cost structure: %w", err)
	}
	opts := cfg.SolveOpts
	if opts.TimeLimit == 0 {
		opts = solve.DefaultOptions()
	}
	return &Orchestrator{
		builder:     planner.NewBuilder(),
		solver:      cfg.Solver,
		network:     cfg.Network,
		products:    cfg.Products,
		forecast:    cfg.Forecast,
		labor:       cfg.Labor,
		inventory:   cfg.Inventory,
		store:       cfg.Store,
		costs:       cfg.Costs,
		horizonDays: cfg.HorizonDays,
		opts:        opts,
		log:         cfg.Logger,
		phase:       PhaseIdle,
	}, nil
}

// Phase reports the current lifecycle phase.
func (o *Orchestrator) Phase() Phase {
	return o.phase
}

// CycleResult is the outcome of one execution day.
type CycleResult struct {
	CycleID      string
	ExecutionDay time.Time
	Plan         *planner.Plan
	Result       *planner.OptimizationResult

	// Advanced reports whether the cycle committed an ending state for the
	// next day. An infeasible solve leaves the chain untouched.
	Advanced bool
}

// RunCycle plans one execution day. An infeasible model is not an error:
// the cycle reports it, leaves the carried solution and recorded inventory
// untouched, and the caller decides whether to retry with amended inputs.
func (o *Orchestrator) RunCycle(ctx context.Context, day time.Time) (*CycleResult, error) {
	day = entities.Midnight(day)
	cycleID := uuid.NewString()
	horizon, err := entities.NewHorizon(day, day.AddDate(0, 0, o.horizonDays-1))
	if err != nil {
		return nil, fmt.Errorf("building cycle horizon: %w", err)
	}

	log := o.log.With().Str("cycle", cycleID).Str("day", entities.FormatDate(day)).Logger()
	log.Info().Str("horizon", horizon.String()).Msg("planning cycle started")
	o.publish(cycleID, events.NewCycleStartedEvent(cycleID, day, horizon))

	defer func() { o.phase = PhaseIdle }()

	o.phase = PhaseBuilding
	plan, err := o.buildPlan(ctx, cycleID, horizon)
	if err != nil {
		o.publish(cycleID, events.NewCycleAbortedEvent(cycleID, err.Error()))
		return nil, err
	}
	log.Info().
		Int("variables", plan.Model.NumVariables()).
		Int("constraints", plan.Model.NumConstraints()).
		Msg("model built")
	o.publish(cycleID, events.NewModelBuiltEvent(
		cycleID, plan.Model.NumVariables(), plan.Model.NumConstraints(), len(plan.Cohorts())))

	o.phase = PhaseProjecting
	hint, coverage := o.projectWarmstart(cycleID, plan, log)

	o.phase = PhaseSolving
	res, err := o.solver.Solve(ctx, plan.Model, o.opts, hint)
	if errors.Is(err, solve.ErrIncompleteWarmstart) {
		// Completion should have closed every gap; treat a rejection as a
		// fallback rather than a failed cycle.
		log.Warn().Err(err).Msg("warmstart rejected, solving cold")
		o.publish(cycleID, events.NewWarmstartFallbackEvent(cycleID, err.Error()))
		hint, coverage = nil, 0
		res, err = o.solver.Solve(ctx, plan.Model, o.opts, nil)
	}
	if err != nil {
		o.publish(cycleID, events.NewCycleAbortedEvent(cycleID, err.Error()))
		return nil, fmt.Errorf("solving cycle %s: %w", cycleID, err)
	}
	o.publish(cycleID, events.NewSolveCompletedEvent(
		cycleID, res.Status.String(), res.Objective, res.Gap, res.Elapsed))

	// The adapter degrades an infeasible hint to a cold solve internally;
	// coverage is only meaningful when the hint was actually used.
	if !res.Warmstarted {
		coverage = 0
	}

	out := &CycleResult{
		CycleID:      cycleID,
		ExecutionDay: day,
		Plan:         plan,
		Result:       planner.AssembleResult(plan, res, coverage),
	}

	if res.Status == solve.StatusInfeasible {
		diag := planner.Diagnose(plan)
		log.Error().Str("family", diag.Family.String()).Msg("cycle infeasible, not advancing")
		o.publish(cycleID, events.NewCycleAbortedEvent(cycleID, diag.Error()))
		return out, nil
	}

	o.phase = PhaseExtracting
	extracted, err := planner.Extract(plan, res)
	if err != nil {
		o.publish(cycleID, events.NewCycleAbortedEvent(cycleID, err.Error()))
		return out, fmt.Errorf("extracting cycle %s: %w", cycleID, err)
	}
	o.carry = extracted

	o.phase = PhaseAdvancing
	ending := planner.EndingInventory(plan, extracted, day)
	if err := o.inventory.RecordEndingInventory(ctx, day, ending); err != nil {
		return out, fmt.Errorf("recording ending inventory: %w", err)
	}
	out.Advanced = true
	log.Info().
		Str("status", res.Status.String()).
		Float64("objective", res.Objective).
		Int("cohorts", len(ending)).
		Msg("cycle advanced")
	o.publish(cycleID, events.NewCycleAdvancedEvent(cycleID, day, day.AddDate(0, 0, 1), len(ending)))
	return out, nil
}

// Run executes consecutive daily cycles starting at start. Infeasible days
// are reported in their cycle results and skipped without advancing; hard
// failures stop the run.
func (o *Orchestrator) Run(ctx context.Context, start time.Time, days int) ([]*CycleResult, error) {
	if days < 1 {
		return nil, fmt.Errorf("must run at least one day, got %d", days)
	}
	results := make([]*CycleResult, 0, days)
	day := entities.Midnight(start)
	for i := 0; i < days; i++ {
		res, err := o.RunCycle(ctx, day)
		if err != nil {
			return results, err
		}
		results = append(results, res)
		day = day.AddDate(0, 0, 1)
	}
	return results, nil
}

// buildPlan assembles the planning request from the repositories and
// builds the model. Initial inventory is the realized ending state of the
// previous execution day.
func (o *Orchestrator) buildPlan(ctx context.Context, cycleID string, horizon entities.Horizon) (*planner.Plan, error) {
	nodes, err := o.network.Nodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading nodes: %w", err)
	}
	legs, err := o.network.Legs(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading legs: %w", err)
	}
	products, err := o.products.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading products: %w", err)
	}
	forecast, err := o.forecast.DemandBetween(ctx, horizon.Start, horizon.End)
	if err != nil {
		return nil, fmt.Errorf("loading forecast: %w", err)
	}
	labor, err := o.labor.CalendarBetween(ctx, horizon.Start, horizon.End)
	if err != nil {
		return nil, fmt.Errorf("loading labor calendar: %w", err)
	}
	initial, err := o.inventory.EndingInventory(ctx, horizon.Start.AddDate(0, 0, -1))
	if err != nil {
		return nil, fmt.Errorf("loading initial inventory: %w", err)
	}

	req := &planner.PlanningRequest{
		Horizon:          horizon,
		Nodes:            nodes,
		Legs:             legs,
		Products:         products,
		Forecast:         forecast,
		Labor:            labor,
		Costs:            o.costs,
		InitialInventory: initial,
	}
	plan, err := o.builder.Build(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("building cycle %s: %w", cycleID, err)
	}
	return plan, nil
}

// projectWarmstart carries the previous cycle's solution onto the new
// model. Incompatibility is never fatal: it degrades to a cold solve.
func (o *Orchestrator) projectWarmstart(cycleID string, plan *planner.Plan, log zerolog.Logger) (milp.Assignment, float64) {
	if o.carry == nil {
		return nil, 0
	}
	projected, err := planner.Project(o.carry, plan)
	if err != nil {
		var incompatible *planner.WarmstartIncompatibleError
		if errors.As(err, &incompatible) {
			log.Warn().Str("reason", incompatible.Reason).Msg("warmstart incompatible, solving cold")
			o.publish(cycleID, events.NewWarmstartFallbackEvent(cycleID, incompatible.Reason))
			return nil, 0
		}
		log.Warn().Err(err).Msg("warmstart projection failed, solving cold")
		o.publish(cycleID, events.NewWarmstartFallbackEvent(cycleID, err.Error()))
		return nil, 0
	}
	coverage := projected.CoverageOf(plan.Model)
	hint := planner.CompleteHint(plan, projected)
	log.Info().Float64("coverage", coverage).Int("carried", len(projected)).Msg("warmstart projected")
	o.publish(cycleID, events.NewWarmstartProjectedEvent(cycleID, coverage, len(projected)))
	return hint, coverage
}

func (o *Orchestrator) publish(streamID string, event events.Event) {
	if o.store == nil {
		return
	}
	if err := o.store.AppendEvent(streamID, event); err != nil {
		o.log.Warn().Err(err).Str("event", event.Type()).Msg("event publish failed")
	}
}
