package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// StorageCostMode selects between the two mutually exclusive storage cost
// formulas. The mode is resolved once per model build into a fixed set of
// objective terms; constraint construction never branches on it at runtime.
type StorageCostMode int

const (
	// UnitStorage bills inventory per unit per day (continuous, convex).
	UnitStorage StorageCostMode = iota
	// PalletStorage bills frozen inventory per pallet per day, which
	// requires an integer pallet count per cohort.
	PalletStorage
)

// String method for StorageCostMode enum
func (m StorageCostMode) String() string {
	switch m {
	case UnitStorage:
		return "unit"
	case PalletStorage:
		return "pallet"
	default:
		return "unknown"
	}
}

// ParseStorageCostMode parses a mode name as written in configuration.
func ParseStorageCostMode(s string) (StorageCostMode, error) {
	switch s {
	case "unit":
		return UnitStorage, nil
	case "pallet":
		return PalletStorage, nil
	default:
		return 0, fmt.Errorf("unknown storage cost mode %q", s)
	}
}

// CostStructure carries every unit cost used by the objective. Rates are
// decimals so cost tables survive CSV round-trips without float drift; the
// model builder converts them to float64 coefficients once, at build time.
type CostStructure struct {
	Mode StorageCostMode

	ProductionPerUnit   decimal.Decimal
	TransportPerUnitLeg decimal.Decimal
	ChangeoverCost      decimal.Decimal
	ShortagePerUnit     decimal.Decimal

	// StoragePerUnitDay applies in UnitStorage mode, and in PalletStorage
	// mode to the states that are not pallet-billed.
	StoragePerUnitDay map[ShelfLifeState]decimal.Decimal

	// PalletPerDay and PalletFixed apply to frozen storage in PalletStorage
	// mode. The fixed cost is folded into the daily rate over
	// PalletAmortizationDays.
	PalletPerDay decimal.Decimal
	PalletFixed  decimal.Decimal

	// PalletAmortizationDays converts PalletFixed into an equivalent daily
	// rate. The default of 7 is an unvalidated approximation inherited from
	// operations practice; deployments should tune it.
	PalletAmortizationDays int
}

// DefaultPalletAmortizationDays is used when a cost structure leaves the
// amortization period unset.
const DefaultPalletAmortizationDays = 7

// Validate checks the cost structure for internal consistency.
func (c CostStructure) Validate() error {
	for _, r := range []struct {
		name string
		rate decimal.Decimal
	}{
		{"production", c.ProductionPerUnit},
		{"transport", c.TransportPerUnitLeg},
		{"changeover", c.ChangeoverCost},
		{"shortage", c.ShortagePerUnit},
		{"pallet per day", c.PalletPerDay},
		{"pallet fixed", c.PalletFixed},
	} {
		if r.rate.IsNegative() {
			return fmt.Errorf("%s cost cannot be negative", r.name)
		}
	}
	for state, rate := range c.StoragePerUnitDay {
		if rate.IsNegative() {
			return fmt.Errorf("storage cost for state %s cannot be negative", state)
		}
	}
	if c.PalletAmortizationDays < 0 {
		return fmt.Errorf("pallet amortization days cannot be negative")
	}
	if c.Mode == PalletStorage && c.PalletPerDay.IsZero() && c.PalletFixed.IsZero() {
		return fmt.Errorf("pallet storage mode requires a pallet rate")
	}
	return nil
}

// EffectivePalletPerDay is the per-pallet-day rate with the fixed cost
// amortized in.
func (c CostStructure) EffectivePalletPerDay() decimal.Decimal {
	days := c.PalletAmortizationDays
	if days == 0 {
		days = DefaultPalletAmortizationDays
	}
	return c.PalletPerDay.Add(c.PalletFixed.Div(decimal.NewFromInt(int64(days))))
}
