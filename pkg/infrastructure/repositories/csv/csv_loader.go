package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/coldchain/planner/pkg/domain/entities"
)

// Loader handles loading planning data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadNodes loads network nodes from a CSV file
func (l *Loader) LoadNodes(filename string) ([]*entities.Node, error) {
	records, err := readAll(filename, "nodes")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"node_id", "role", "changeover_hours", "dock_capacity"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("nodes CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var nodes []*entities.Node
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("nodes CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		node, err := parseNode(record)
		if err != nil {
			return nil, fmt.Errorf("nodes CSV row %d: %w", i+2, err)
		}
		nodes = append(nodes, node)
	}

	return nodes, nil
}

// LoadLegs loads route legs from a CSV file
func (l *Loader) LoadLegs(filename string) ([]*entities.RouteLeg, error) {
	records, err := readAll(filename, "legs")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"origin", "dest", "transit_days", "vehicle_capacity_pallets"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("legs CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var legs []*entities.RouteLeg
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("legs CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		leg, err := parseLeg(record)
		if err != nil {
			return nil, fmt.Errorf("legs CSV row %d: %w", i+2, err)
		}
		legs = append(legs, leg)
	}

	return legs, nil
}

// LoadProducts loads the product catalog from a CSV file. Shelf-life
// tables are encoded as "state:days" pairs separated by semicolons, and
// transitions as "from>to" pairs.
func (l *Loader) LoadProducts(filename string) ([]*entities.Product, error) {
	records, err := readAll(filename, "products")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"product_id", "initial_state", "shelf_life", "transitions", "units_per_pallet", "units_per_hour"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("products CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var products []*entities.Product
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("products CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		product, err := parseProduct(record)
		if err != nil {
			return nil, fmt.Errorf("products CSV row %d: %w", i+2, err)
		}
		products = append(products, product)
	}

	return products, nil
}

// LoadForecast loads demand records from a CSV file
func (l *Loader) LoadForecast(filename string) ([]entities.DemandRecord, error) {
	records, err := readAll(filename, "forecast")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"node_id", "product_id", "date", "quantity"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("forecast CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var forecast []entities.DemandRecord
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("forecast CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		date, err := entities.ParseDate(record[2])
		if err != nil {
			return nil, fmt.Errorf("forecast CSV row %d: %w", i+2, err)
		}
		quantity, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			return nil, fmt.Errorf("forecast CSV row %d: invalid quantity: %s", i+2, record[3])
		}
		rec, err := entities.NewDemandRecord(entities.NodeID(record[0]), entities.ProductID(record[1]), date, quantity)
		if err != nil {
			return nil, fmt.Errorf("forecast CSV row %d: %w", i+2, err)
		}
		forecast = append(forecast, *rec)
	}

	return forecast, nil
}

// LoadLabor loads the labor calendar from a CSV file
func (l *Loader) LoadLabor(filename string) ([]entities.LaborDay, error) {
	records, err := readAll(filename, "labor")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"node_id", "date", "hours", "overtime"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("labor CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var calendar []entities.LaborDay
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("labor CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		date, err := entities.ParseDate(record[1])
		if err != nil {
			return nil, fmt.Errorf("labor CSV row %d: %w", i+2, err)
		}
		hours, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("labor CSV row %d: invalid hours: %s", i+2, record[2])
		}
		overtime, err := strconv.ParseBool(record[3])
		if err != nil {
			return nil, fmt.Errorf("labor CSV row %d: invalid overtime flag: %s", i+2, record[3])
		}
		day, err := entities.NewLaborDay(entities.NodeID(record[0]), date, hours, overtime)
		if err != nil {
			return nil, fmt.Errorf("labor CSV row %d: %w", i+2, err)
		}
		calendar = append(calendar, *day)
	}

	return calendar, nil
}

// LoadInitialInventory loads cohort-level starting stock from a CSV file
func (l *Loader) LoadInitialInventory(filename string) (map[entities.CohortKey]float64, error) {
	records, err := readAll(filename, "inventory")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"node_id", "product_id", "birth_date", "state", "quantity"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("inventory CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	inventory := make(map[entities.CohortKey]float64)
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("inventory CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		birthDate, err := entities.ParseDate(record[2])
		if err != nil {
			return nil, fmt.Errorf("inventory CSV row %d: %w", i+2, err)
		}
		state, err := entities.ParseShelfLifeState(record[3])
		if err != nil {
			return nil, fmt.Errorf("inventory CSV row %d: %w", i+2, err)
		}
		quantity, err := strconv.ParseFloat(record[4], 64)
		if err != nil {
			return nil, fmt.Errorf("inventory CSV row %d: invalid quantity: %s", i+2, record[4])
		}
		if quantity < 0 {
			return nil, fmt.Errorf("inventory CSV row %d: quantity cannot be negative", i+2)
		}

		key := entities.NewCohortKey(entities.NodeID(record[0]), entities.ProductID(record[1]), birthDate, state)
		if _, exists := inventory[key]; exists {
			return nil, fmt.Errorf("inventory CSV row %d: duplicate cohort %s", i+2, key)
		}
		inventory[key] = quantity
	}

	return inventory, nil
}

// LoadCosts loads the cost structure from a key/value CSV file. Unknown
// keys are rejected so typos fail loudly instead of pricing at zero.
func (l *Loader) LoadCosts(filename string) (entities.CostStructure, error) {
	var costs entities.CostStructure
	records, err := readAll(filename, "costs")
	if err != nil {
		return costs, err
	}

	expectedHeader := []string{"cost", "value"}
	if !validateHeader(records[0], expectedHeader) {
		return costs, fmt.Errorf("costs CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	costs.StoragePerUnitDay = make(map[entities.ShelfLifeState]decimal.Decimal)
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return costs, fmt.Errorf("costs CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}
		key := strings.ToLower(strings.TrimSpace(record[0]))

		if key == "mode" {
			mode, err := entities.ParseStorageCostMode(strings.TrimSpace(record[1]))
			if err != nil {
				return costs, fmt.Errorf("costs CSV row %d: %w", i+2, err)
			}
			costs.Mode = mode
			continue
		}
		if key == "pallet_amortization_days" {
			days, err := strconv.Atoi(strings.TrimSpace(record[1]))
			if err != nil {
				return costs, fmt.Errorf("costs CSV row %d: invalid value: %s", i+2, record[1])
			}
			costs.PalletAmortizationDays = days
			continue
		}

		value, err := decimal.NewFromString(strings.TrimSpace(record[1]))
		if err != nil {
			return costs, fmt.Errorf("costs CSV row %d: invalid value: %s", i+2, record[1])
		}
		switch key {
		case "production_per_unit":
			costs.ProductionPerUnit = value
		case "transport_per_unit_leg":
			costs.TransportPerUnitLeg = value
		case "changeover":
			costs.ChangeoverCost = value
		case "shortage_per_unit":
			costs.ShortagePerUnit = value
		case "pallet_per_day":
			costs.PalletPerDay = value
		case "pallet_fixed":
			costs.PalletFixed = value
		default:
			if state, ok := strings.CutPrefix(key, "storage_"); ok {
				st, err := entities.ParseShelfLifeState(state)
				if err != nil {
					return costs, fmt.Errorf("costs CSV row %d: %w", i+2, err)
				}
				costs.StoragePerUnitDay[st] = value
				continue
			}
			return costs, fmt.Errorf("costs CSV row %d: unknown cost key %q", i+2, record[0])
		}
	}

	if err := costs.Validate(); err != nil {
		return costs, fmt.Errorf("costs CSV: %w", err)
	}
	return costs, nil
}

// Helper functions for parsing CSV records

func readAll(filename, kind string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s CSV must have header and at least one data row", kind)
	}
	return records, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}
	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}
	return true
}

func parseNode(record []string) (*entities.Node, error) {
	role, err := entities.ParseNodeRole(record[1])
	if err != nil {
		return nil, err
	}
	changeoverHours, err := strconv.ParseFloat(record[2], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid changeover_hours: %s", record[2])
	}
	dockCapacity, err := strconv.Atoi(record[3])
	if err != nil {
		return nil, fmt.Errorf("invalid dock_capacity: %s", record[3])
	}
	return entities.NewNode(entities.NodeID(record[0]), role, changeoverHours, dockCapacity)
}

func parseLeg(record []string) (*entities.RouteLeg, error) {
	transitDays, err := strconv.Atoi(record[2])
	if err != nil {
		return nil, fmt.Errorf("invalid transit_days: %s", record[2])
	}
	vehicleCapacity, err := strconv.Atoi(record[3])
	if err != nil {
		return nil, fmt.Errorf("invalid vehicle_capacity_pallets: %s", record[3])
	}
	return entities.NewRouteLeg(entities.NodeID(record[0]), entities.NodeID(record[1]), transitDays, vehicleCapacity)
}

func parseProduct(record []string) (*entities.Product, error) {
	initialState, err := entities.ParseShelfLifeState(record[1])
	if err != nil {
		return nil, err
	}
	shelfLife, err := parseShelfLifeTable(record[2])
	if err != nil {
		return nil, err
	}
	transitions, err := parseTransitions(record[3])
	if err != nil {
		return nil, err
	}
	unitsPerPallet, err := strconv.Atoi(record[4])
	if err != nil {
		return nil, fmt.Errorf("invalid units_per_pallet: %s", record[4])
	}
	unitsPerHour, err := strconv.ParseFloat(record[5], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid units_per_hour: %s", record[5])
	}
	return entities.NewProduct(
		entities.ProductID(record[0]),
		initialState,
		shelfLife,
		transitions,
		unitsPerPallet,
		unitsPerHour,
	)
}

// parseShelfLifeTable parses "frozen:120;thawed:14" into a state table.
func parseShelfLifeTable(s string) (map[entities.ShelfLifeState]int, error) {
	table := make(map[entities.ShelfLifeState]int)
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid shelf_life entry: %s (expected state:days)", pair)
		}
		state, err := entities.ParseShelfLifeState(parts[0])
		if err != nil {
			return nil, err
		}
		days, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid shelf_life days: %s", parts[1])
		}
		table[state] = days
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("shelf_life table cannot be empty")
	}
	return table, nil
}

// parseTransitions parses "frozen>thawed;frozen>ambient". An empty field
// means the product never changes state.
func parseTransitions(s string) ([]entities.StateTransition, error) {
	var transitions []entities.StateTransition
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ">", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid transition: %s (expected from>to)", pair)
		}
		from, err := entities.ParseShelfLifeState(parts[0])
		if err != nil {
			return nil, err
		}
		to, err := entities.ParseShelfLifeState(parts[1])
		if err != nil {
			return nil, err
		}
		transitions = append(transitions, entities.StateTransition{From: from, To: to})
	}
	return transitions, nil
}
