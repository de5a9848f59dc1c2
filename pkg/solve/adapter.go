// Package solve submits a built milp.Model to an external MIP engine and
// returns a normalized result. Search is fully delegated: this package
// translates, configures limits, seeds warmstarts and maps statuses, and
// never implements branching of its own.
package solve

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/nextmv-io/sdk/mip"
	"github.com/rs/zerolog"

	"github.com/coldchain/planner/pkg/milp"
)

// Status is the normalized outcome of a solve. Infeasibility and timeouts
// are statuses, not errors: callers decide what to do with a gap.
type Status int

const (
	StatusOptimal Status = iota
	StatusFeasible
	StatusInfeasible
	StatusTimeout
)

// String method for Status enum
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusFeasible:
		return "FEASIBLE"
	case StatusInfeasible:
		return "INFEASIBLE"
	case StatusTimeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

// GapUnknown is reported when the engine exposes no dual bound.
const GapUnknown = -1

// ErrIncompleteWarmstart rejects hints that do not cover every variable.
// A partial hint leaves the remainder to default initialization and loses
// most of the hot-start benefit, so it is refused outright.
var ErrIncompleteWarmstart = errors.New("warmstart assignment does not cover every model variable")

// Options is the per-call solver configuration. It is an explicit value
// passed into Solve, never a process-global setting.
type Options struct {
	TimeLimit time.Duration
	// GapRel is the relative optimality gap at which the engine may stop.
	GapRel float64
	// Threads is the engine's internal thread budget. The HiGHS provider
	// manages its own parallelism; the value is recorded for diagnostics.
	Threads int
	Verbose bool
}

// DefaultOptions returns the adapter defaults used when a zero Options is
// supplied.
func DefaultOptions() Options {
	return Options{TimeLimit: 5 * time.Minute, GapRel: 0.01}
}

// Result is a normalized solve outcome. Values is complete: it holds one
// entry per model variable, with numerical noise snapped, so it can be
// reused directly as the next cycle's warmstart.
type Result struct {
	Status    Status
	Objective float64
	Values    milp.Assignment
	Elapsed   time.Duration
	// Gap is 0 when optimality was proven and GapUnknown otherwise.
	Gap float64
	// Nodes is the branch-and-bound node count, or -1 when the engine does
	// not report it.
	Nodes int64
	// Warmstarted reports whether a supplied hint was accepted as the
	// initial incumbent.
	Warmstarted bool
}

// Adapter runs models through a nextmv MIP provider (HiGHS by default).
type Adapter struct {
	provider mip.SolverProvider
	log      zerolog.Logger
}

// NewAdapter creates an adapter for the given provider name.
func NewAdapter(provider string, log zerolog.Logger) *Adapter {
	if provider == "" {
		provider = "highs"
	}
	return &Adapter{provider: mip.SolverProvider(provider), log: log}
}

// Solve translates the model, optionally seeds a warmstart, and runs the
// engine under the supplied limits.
//
// Warmstart contract: the hint must be complete (every variable valued)
// and must have been captured from a model built without constraint
// activation toggling since capture; this codebase never toggles
// constraints, so any extracted assignment qualifies. A feasible hint is
// installed as the initial incumbent: its objective becomes a cutoff row
// on the translated model, and the returned result is never worse than
// the hint, even on timeout. An infeasible hint (e.g. slightly off after
// the realized-inventory update) degrades to a cold solve.
func (a *Adapter) Solve(ctx context.Context, m *milp.Model, opts Options, warmstart milp.Assignment) (Result, error) {
	if opts.TimeLimit <= 0 {
		opts.TimeLimit = DefaultOptions().TimeLimit
	}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < opts.TimeLimit {
			opts.TimeLimit = remaining
		}
	}

	var (
		hint    milp.Assignment
		hintObj float64
	)
	if warmstart != nil {
		if !warmstart.Covers(m) {
			return Result{}, ErrIncompleteWarmstart
		}
		if err := warmstart.Check(m, milp.DefaultEpsilon); err != nil {
			a.log.Warn().Err(err).Msg("warmstart hint infeasible for this model, solving cold")
		} else {
			hint = warmstart
			hintObj = warmstart.Objective(m)
		}
	}

	tr, err := translate(m)
	if err != nil {
		return Result{}, fmt.Errorf("failed to translate model: %w", err)
	}
	if hint != nil {
		tr.addIncumbentCutoff(hintObj)
	}

	solver, err := mip.NewSolver(a.provider, tr.model)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create %s solver: %w", a.provider, err)
	}

	solveOptions := mip.NewSolveOptions()
	if err := solveOptions.SetMaximumDuration(opts.TimeLimit); err != nil {
		return Result{}, fmt.Errorf("failed to set time limit: %w", err)
	}
	if err := solveOptions.SetMIPGapRelative(opts.GapRel); err != nil {
		return Result{}, fmt.Errorf("failed to set gap tolerance: %w", err)
	}
	if opts.Verbose {
		solveOptions.SetVerbosity(mip.High)
	} else {
		solveOptions.SetVerbosity(mip.Off)
	}

	a.log.Info().
		Str("provider", string(a.provider)).
		Int("variables", m.NumVariables()).
		Int("constraints", m.NumConstraints()).
		Dur("time_limit", opts.TimeLimit).
		Float64("gap_rel", opts.GapRel).
		Int("threads", opts.Threads).
		Bool("warmstarted", hint != nil).
		Msg("submitting model")

	started := time.Now()
	solution, err := solver.Solve(solveOptions)
	if err != nil {
		return Result{}, fmt.Errorf("solver run failed: %w", err)
	}
	elapsed := time.Since(started)

	result := Result{Elapsed: elapsed, Gap: GapUnknown, Nodes: -1, Warmstarted: hint != nil}

	if solution == nil || !solution.HasValues() {
		if hint != nil {
			// The engine found nothing under the cutoff in time; the hint
			// itself remains a feasible incumbent.
			result.Status = StatusTimeout
			result.Objective = hintObj
			result.Values = hint.Clone()
			return result, nil
		}
		result.Status = StatusInfeasible
		return result, nil
	}

	values := make(milp.Assignment, m.NumVariables())
	for i, v := range m.Variables() {
		values[v.Key] = solution.Value(tr.vars[i])
	}
	result.Values = values.Snap(milp.DefaultEpsilon)
	result.Objective = result.Values.Objective(m)

	switch {
	case solution.IsOptimal():
		result.Status = StatusOptimal
		result.Gap = 0
	case elapsed >= opts.TimeLimit:
		result.Status = StatusTimeout
	default:
		result.Status = StatusFeasible
	}

	// A timeout must still return the best known incumbent; if the engine's
	// point is worse than the hint, keep the hint.
	if hint != nil && hintObj < result.Objective-math.Abs(result.Objective)*1e-9 {
		result.Objective = hintObj
		result.Values = hint.Clone()
	}

	a.log.Info().
		Str("status", result.Status.String()).
		Float64("objective", result.Objective).
		Dur("elapsed", elapsed).
		Msg("solve finished")

	return result, nil
}
