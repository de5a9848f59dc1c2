package entities

import (
	"fmt"
	"time"
)

// DemandRecord is forecast demand for a product at a node on a day.
type DemandRecord struct {
	Node     NodeID
	Product  ProductID
	Date     time.Time
	Quantity float64
}

// NewDemandRecord creates a validated DemandRecord.
func NewDemandRecord(node NodeID, product ProductID, date time.Time, quantity float64) (*DemandRecord, error) {
	if node == "" {
		return nil, fmt.Errorf("demand node cannot be empty")
	}
	if product == "" {
		return nil, fmt.Errorf("demand product cannot be empty")
	}
	if quantity < 0 {
		return nil, fmt.Errorf("demand for %s at %s on %s cannot be negative", product, node, FormatDate(date))
	}
	return &DemandRecord{Node: node, Product: product, Date: Midnight(date), Quantity: quantity}, nil
}

// LaborDay is one day of the labor calendar at a manufacturing node.
type LaborDay struct {
	Node     NodeID
	Date     time.Time
	Hours    float64
	Overtime bool
}

// NewLaborDay creates a validated LaborDay.
func NewLaborDay(node NodeID, date time.Time, hours float64, overtime bool) (*LaborDay, error) {
	if node == "" {
		return nil, fmt.Errorf("labor node cannot be empty")
	}
	if hours < 0 {
		return nil, fmt.Errorf("labor hours at %s on %s cannot be negative", node, FormatDate(date))
	}
	return &LaborDay{Node: node, Date: Midnight(date), Hours: hours, Overtime: overtime}, nil
}
