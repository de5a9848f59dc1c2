package events

import (
	"time"

	"github.com/coldchain/planner/pkg/domain/entities"
)

const (
	CycleStartedEvent       = "cycle.started"
	ModelBuiltEvent         = "model.built"
	WarmstartProjectedEvent = "warmstart.projected"
	WarmstartFallbackEvent  = "warmstart.fallback"
	SolveCompletedEvent     = "solve.completed"
	CycleAdvancedEvent      = "cycle.advanced"
	CycleAbortedEvent       = "cycle.aborted"
)

type CycleStarted struct {
	CycleID      string           `json:"cycle_id"`
	ExecutionDay time.Time        `json:"execution_day"`
	Horizon      entities.Horizon `json:"horizon"`
}

type ModelBuilt struct {
	CycleID     string `json:"cycle_id"`
	Variables   int    `json:"variables"`
	Constraints int    `json:"constraints"`
	Cohorts     int    `json:"cohorts"`
}

type WarmstartProjected struct {
	CycleID  string  `json:"cycle_id"`
	Coverage float64 `json:"coverage"`
	Carried  int     `json:"carried"`
}

type WarmstartFallback struct {
	CycleID string `json:"cycle_id"`
	Reason  string `json:"reason"`
}

type SolveCompleted struct {
	CycleID   string        `json:"cycle_id"`
	Status    string        `json:"status"`
	Objective float64       `json:"objective"`
	Gap       float64       `json:"gap"`
	Elapsed   time.Duration `json:"elapsed"`
}

type CycleAdvanced struct {
	CycleID      string    `json:"cycle_id"`
	ExecutionDay time.Time `json:"execution_day"`
	NextDay      time.Time `json:"next_day"`
	Cohorts      int       `json:"cohorts_carried"`
}

type CycleAborted struct {
	CycleID string `json:"cycle_id"`
	Reason  string `json:"reason"`
}

func NewCycleStartedEvent(cycleID string, day time.Time, horizon entities.Horizon) Event {
	return newEvent(CycleStartedEvent, cycleID, CycleStarted{
		CycleID:      cycleID,
		ExecutionDay: day,
		Horizon:      horizon,
	})
}

func NewModelBuiltEvent(cycleID string, variables, constraints, cohorts int) Event {
	return newEvent(ModelBuiltEvent, cycleID, ModelBuilt{
		CycleID:     cycleID,
		Variables:   variables,
		Constraints: constraints,
		Cohorts:     cohorts,
	})
}

func NewWarmstartProjectedEvent(cycleID string, coverage float64, carried int) Event {
	return newEvent(WarmstartProjectedEvent, cycleID, WarmstartProjected{
		CycleID:  cycleID,
		Coverage: coverage,
		Carried:  carried,
	})
}

func NewWarmstartFallbackEvent(cycleID, reason string) Event {
	return newEvent(WarmstartFallbackEvent, cycleID, WarmstartFallback{
		CycleID: cycleID,
		Reason:  reason,
	})
}

func NewSolveCompletedEvent(cycleID, status string, objective, gap float64, elapsed time.Duration) Event {
	return newEvent(SolveCompletedEvent, cycleID, SolveCompleted{
		CycleID:   cycleID,
		Status:    status,
		Objective: objective,
		Gap:       gap,
		Elapsed:   elapsed,
	})
}

func NewCycleAdvancedEvent(cycleID string, day, next time.Time, cohorts int) Event {
	return newEvent(CycleAdvancedEvent, cycleID, CycleAdvanced{
		CycleID:      cycleID,
		ExecutionDay: day,
		NextDay:      next,
		Cohorts:      cohorts,
	})
}

func NewCycleAbortedEvent(cycleID, reason string) Event {
	return newEvent(CycleAbortedEvent, cycleID, CycleAborted{
		CycleID: cycleID,
		Reason:  reason,
	})
}
