package entities

import (
	"fmt"
	"time"
)

// CohortKey identifies an inventory cohort: stock of one product at one
// node, grouped by the date the cohort was born and its shelf-life state.
// BirthDate is the production date for stock in its initial state; after a
// state transition it is the transition date, which is the only point age
// resets.
type CohortKey struct {
	Node      NodeID
	Product   ProductID
	BirthDate time.Time
	State     ShelfLifeState
}

// NewCohortKey normalizes the birth date so the key is map-safe.
func NewCohortKey(node NodeID, product ProductID, birthDate time.Time, state ShelfLifeState) CohortKey {
	return CohortKey{Node: node, Product: product, BirthDate: Midnight(birthDate), State: state}
}

// AgeOn returns the cohort's age in days on the given date.
func (k CohortKey) AgeOn(date time.Time) int {
	return DaysBetween(k.BirthDate, date)
}

// ExpiredOn reports whether the cohort is past its shelf life on the given
// date. A cohort in a state the product cannot be held in is always expired.
func (k CohortKey) ExpiredOn(date time.Time, p *Product) bool {
	maxAge, ok := p.MaxAge(k.State)
	if !ok {
		return true
	}
	return k.AgeOn(date) > maxAge
}

func (k CohortKey) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", k.Node, k.Product, FormatDate(k.BirthDate), k.State)
}

// ShipmentKey identifies a shipment cohort: units of one inventory cohort
// departing on one leg on one day. On arrival the quantity merges into the
// destination cohort with the same birth date, so age is preserved in
// transit.
type ShipmentKey struct {
	Leg        string // RouteLeg.Key()
	Product    ProductID
	BirthDate  time.Time
	DepartDate time.Time
}

// NewShipmentKey normalizes dates so the key is map-safe.
func NewShipmentKey(leg RouteLeg, product ProductID, birthDate, departDate time.Time) ShipmentKey {
	return ShipmentKey{
		Leg:        leg.Key(),
		Product:    product,
		BirthDate:  Midnight(birthDate),
		DepartDate: Midnight(departDate),
	}
}

func (k ShipmentKey) String() string {
	return fmt.Sprintf("%s/%s/%s/dep=%s", k.Leg, k.Product, FormatDate(k.BirthDate), FormatDate(k.DepartDate))
}

// BatchKey identifies a production batch: one product run at one
// manufacturing node on one day.
type BatchKey struct {
	Node    NodeID
	Product ProductID
	Date    time.Time
}

// NewBatchKey normalizes the date so the key is map-safe.
func NewBatchKey(node NodeID, product ProductID, date time.Time) BatchKey {
	return BatchKey{Node: node, Product: product, Date: Midnight(date)}
}

func (k BatchKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Node, k.Product, FormatDate(k.Date))
}

// InventoryLevel is a cohort quantity on a specific day, as reported in
// optimization results and realized-execution snapshots.
type InventoryLevel struct {
	Cohort   CohortKey
	Date     time.Time
	Quantity float64
}
