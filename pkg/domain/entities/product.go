package entities

import (
	"fmt"
)

// ProductID identifies a product.
type ProductID string

// ShelfLifeState is the storage state a unit of product is held in. Shelf
// life is counted per state; a state transition is the only age reset.
type ShelfLifeState int

const (
	Frozen ShelfLifeState = iota
	Ambient
	Thawed
)

// String method for ShelfLifeState enum
func (s ShelfLifeState) String() string {
	switch s {
	case Frozen:
		return "frozen"
	case Ambient:
		return "ambient"
	case Thawed:
		return "thawed"
	default:
		return "unknown"
	}
}

// ParseShelfLifeState parses a state name as written in scenario CSV files.
func ParseShelfLifeState(s string) (ShelfLifeState, error) {
	switch s {
	case "frozen":
		return Frozen, nil
	case "ambient":
		return Ambient, nil
	case "thawed":
		return Thawed, nil
	default:
		return 0, fmt.Errorf("unknown shelf-life state %q", s)
	}
}

// StateTransition describes an allowed storage-state change (e.g. a hub
// thawing frozen stock). The transition creates a fresh cohort at the node
// where it happens.
type StateTransition struct {
	From ShelfLifeState
	To   ShelfLifeState
}

// Product is an id plus its shelf-life table and packing data.
type Product struct {
	ID ProductID

	// InitialState is the state a unit leaves production in.
	InitialState ShelfLifeState

	// ShelfLifeDays maps each state to the maximum age in days before the
	// unit must be discarded. A state absent from the map cannot hold the
	// product at all.
	ShelfLifeDays map[ShelfLifeState]int

	// Transitions lists the allowed state changes for this product.
	Transitions []StateTransition

	// UnitsPerPallet converts continuous unit quantities into pallet counts
	// for storage billing and vehicle capacity.
	UnitsPerPallet int

	// UnitsPerHour is the production rate at a manufacturing node.
	UnitsPerHour float64
}

// NewProduct creates a validated Product.
func NewProduct(
	id ProductID,
	initialState ShelfLifeState,
	shelfLifeDays map[ShelfLifeState]int,
	transitions []StateTransition,
	unitsPerPallet int,
	unitsPerHour float64,
) (*Product, error) {
	if id == "" {
		return nil, fmt.Errorf("product id cannot be empty")
	}
	if unitsPerPallet <= 0 {
		return nil, fmt.Errorf("product %s: units per pallet must be positive", id)
	}
	if unitsPerHour <= 0 {
		return nil, fmt.Errorf("product %s: units per hour must be positive", id)
	}
	if _, ok := shelfLifeDays[initialState]; !ok {
		return nil, fmt.Errorf("product %s: no shelf life defined for initial state %s", id, initialState)
	}
	for days := range shelfLifeDays {
		if shelfLifeDays[days] < 0 {
			return nil, fmt.Errorf("product %s: shelf life cannot be negative", id)
		}
	}
	for _, tr := range transitions {
		if tr.From == tr.To {
			return nil, fmt.Errorf("product %s: transition %s -> %s is a no-op", id, tr.From, tr.To)
		}
		if _, ok := shelfLifeDays[tr.From]; !ok {
			return nil, fmt.Errorf("product %s: transition from undefined state %s", id, tr.From)
		}
		if _, ok := shelfLifeDays[tr.To]; !ok {
			return nil, fmt.Errorf("product %s: transition to undefined state %s", id, tr.To)
		}
	}
	return &Product{
		ID:             id,
		InitialState:   initialState,
		ShelfLifeDays:  shelfLifeDays,
		Transitions:    transitions,
		UnitsPerPallet: unitsPerPallet,
		UnitsPerHour:   unitsPerHour,
	}, nil
}

// MaxAge returns the shelf life for a state and whether the product can be
// held in that state at all.
func (p *Product) MaxAge(state ShelfLifeState) (int, bool) {
	days, ok := p.ShelfLifeDays[state]
	return days, ok
}

// CanTransition reports whether the product allows the given state change.
func (p *Product) CanTransition(from, to ShelfLifeState) bool {
	for _, tr := range p.Transitions {
		if tr.From == from && tr.To == to {
			return true
		}
	}
	return false
}
