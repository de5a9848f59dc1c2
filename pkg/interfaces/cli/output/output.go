package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/coldchain/planner/pkg/application/services/rolling"
	"github.com/coldchain/planner/pkg/domain/entities"
	"github.com/coldchain/planner/pkg/planner"
)

// Config controls how cycle results are rendered
type Config struct {
	OutputDir string
	Format    string
	Verbose   bool
}

// Generate renders cycle results in the configured format
func Generate(results []*rolling.CycleResult, config Config) error {
	switch config.Format {
	case "text":
		return generateTextOutput(results, config)
	case "json":
		return generateJSONOutput(results, config)
	case "csv":
		return generateCSVOutput(results, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput generates human-readable text output
func generateTextOutput(results []*rolling.CycleResult, config Config) error {
	var output string

	output += "═══════════════════════════════════════════════════════════════\n"
	output += "                 ROLLING PLAN RESULTS\n"
	output += "═══════════════════════════════════════════════════════════════\n\n"

	for _, cycle := range results {
		r := cycle.Result
		output += fmt.Sprintf("📅 CYCLE %s (%s)\n",
			entities.FormatDate(cycle.ExecutionDay), cycle.CycleID[:8])
		output += "────────────────────────────────────────────────────────────────\n"
		output += fmt.Sprintf("  Status: %-10s Objective: %12.2f\n", r.Status, r.Objective)
		output += fmt.Sprintf("  Solve: %v  Gap: %.4f  Warmstarted: %t (%.0f%% carried)\n",
			r.Diagnostics.Elapsed.Round(time.Millisecond),
			r.Diagnostics.Gap,
			r.Diagnostics.Warmstarted,
			r.Diagnostics.WarmstartCoverage*100)
		output += fmt.Sprintf("  Model: %d variables, %d constraints\n",
			r.Diagnostics.Variables, r.Diagnostics.Constraints)
		if !cycle.Advanced {
			output += "  ⚠ Cycle did not advance; previous plan stays authoritative\n"
		}
		output += "\n"

		if len(r.Production) > 0 {
			output += "  PRODUCTION\n"
			for _, p := range r.Production {
				output += fmt.Sprintf("    %-12s %-12s %s  %10.1f units\n",
					p.Batch.Node, p.Batch.Product, entities.FormatDate(p.Batch.Date), p.Quantity)
			}
			output += "\n"
		}

		if len(r.Shipments) > 0 {
			output += "  SHIPMENTS\n"
			for _, s := range r.Shipments {
				output += fmt.Sprintf("    %-16s %-12s depart %s  %10.1f units (born %s, %s)\n",
					s.Leg, s.Product, entities.FormatDate(s.DepartDate),
					s.Quantity, entities.FormatDate(s.BirthDate), s.State)
			}
			output += "\n"
		}

		if len(r.Shortages) > 0 {
			output += "  🚨 SHORTAGES\n"
			for _, s := range r.Shortages {
				output += fmt.Sprintf("    %-12s %-12s %s  %10.1f units short\n",
					s.Node, s.Product, entities.FormatDate(s.Date), s.Quantity)
			}
			output += "\n"
		}

		if config.Verbose && len(r.Inventory) > 0 {
			output += "  INVENTORY (end of day)\n"
			for _, lvl := range r.Inventory {
				output += fmt.Sprintf("    %-40s %s  %10.1f units\n",
					lvl.Cohort, entities.FormatDate(lvl.Date), lvl.Quantity)
			}
			output += "\n"
		}
	}

	output += "═══════════════════════════════════════════════════════════════\n"

	if config.OutputDir != "" {
		if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		filename := filepath.Join(config.OutputDir, "plan_results.txt")
		if err := os.WriteFile(filename, []byte(output), 0644); err != nil {
			return fmt.Errorf("failed to write text output: %w", err)
		}
		if config.Verbose {
			fmt.Printf("📄 Text output written to: %s\n", filename)
		}
	} else {
		fmt.Print(output)
	}

	return nil
}

// generateJSONOutput generates JSON output
func generateJSONOutput(results []*rolling.CycleResult, config Config) error {
	type cycleJSON struct {
		CycleID      string                    `json:"cycle_id"`
		ExecutionDay string                    `json:"execution_day"`
		Status       string                    `json:"status"`
		Objective    float64                   `json:"objective"`
		Advanced     bool                      `json:"advanced"`
		Diagnostics  planner.Diagnostics       `json:"diagnostics"`
		Production   []planner.ProductionEntry `json:"production"`
		Shipments    []planner.ShipmentEntry   `json:"shipments"`
		Shortages    []planner.ShortageEntry   `json:"shortages"`
		Inventory    []entities.InventoryLevel `json:"inventory,omitempty"`
	}

	jsonResult := struct {
		Metadata struct {
			GeneratedAt string `json:"generated_at"`
			Cycles      int    `json:"cycles"`
		} `json:"metadata"`
		Cycles []cycleJSON `json:"cycles"`
	}{}
	jsonResult.Metadata.GeneratedAt = time.Now().Format(time.RFC3339)
	jsonResult.Metadata.Cycles = len(results)

	for _, cycle := range results {
		r := cycle.Result
		entry := cycleJSON{
			CycleID:      cycle.CycleID,
			ExecutionDay: entities.FormatDate(cycle.ExecutionDay),
			Status:       r.Status.String(),
			Objective:    r.Objective,
			Advanced:     cycle.Advanced,
			Diagnostics:  r.Diagnostics,
			Production:   r.Production,
			Shipments:    r.Shipments,
			Shortages:    r.Shortages,
		}
		if config.Verbose {
			entry.Inventory = r.Inventory
		}
		jsonResult.Cycles = append(jsonResult.Cycles, entry)
	}

	jsonBytes, err := json.MarshalIndent(jsonResult, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir != "" {
		if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		filename := filepath.Join(config.OutputDir, "plan_results.json")
		if err := os.WriteFile(filename, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write JSON output: %w", err)
		}
		if config.Verbose {
			fmt.Printf("📄 JSON output written to: %s\n", filename)
		}
	} else {
		fmt.Printf("%s\n", jsonBytes)
	}

	return nil
}

// generateCSVOutput generates CSV output files
func generateCSVOutput(results []*rolling.CycleResult, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("CSV output requires an output directory (-output)")
	}
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := writeProductionCSV(results, filepath.Join(config.OutputDir, "production.csv")); err != nil {
		return fmt.Errorf("failed to write production CSV: %w", err)
	}
	if err := writeShipmentsCSV(results, filepath.Join(config.OutputDir, "shipments.csv")); err != nil {
		return fmt.Errorf("failed to write shipments CSV: %w", err)
	}
	if err := writeShortagesCSV(results, filepath.Join(config.OutputDir, "shortages.csv")); err != nil {
		return fmt.Errorf("failed to write shortages CSV: %w", err)
	}

	if config.Verbose {
		fmt.Printf("📄 CSV output written to: %s\n", config.OutputDir)
	}
	return nil
}

// Helper functions for CSV writing

func writeProductionCSV(results []*rolling.CycleResult, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"execution_day", "node_id", "product_id", "date", "quantity"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, cycle := range results {
		for _, p := range cycle.Result.Production {
			record := []string{
				entities.FormatDate(cycle.ExecutionDay),
				string(p.Batch.Node),
				string(p.Batch.Product),
				entities.FormatDate(p.Batch.Date),
				fmt.Sprintf("%.2f", p.Quantity),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeShipmentsCSV(results []*rolling.CycleResult, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"execution_day", "leg", "product_id", "birth_date", "state", "depart_date", "quantity"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, cycle := range results {
		for _, s := range cycle.Result.Shipments {
			record := []string{
				entities.FormatDate(cycle.ExecutionDay),
				s.Leg,
				string(s.Product),
				entities.FormatDate(s.BirthDate),
				s.State.String(),
				entities.FormatDate(s.DepartDate),
				fmt.Sprintf("%.2f", s.Quantity),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeShortagesCSV(results []*rolling.CycleResult, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"execution_day", "node_id", "product_id", "date", "quantity"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, cycle := range results {
		for _, s := range cycle.Result.Shortages {
			record := []string{
				entities.FormatDate(cycle.ExecutionDay),
				string(s.Node),
				string(s.Product),
				entities.FormatDate(s.Date),
				fmt.Sprintf("%.2f", s.Quantity),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}
	return nil
}
