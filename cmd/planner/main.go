package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/coldchain/planner/pkg/interfaces/cli/commands"
)

func main() {
	// Command line flags
	var (
		scenarioDir = flag.String(
			"scenario",
			"",
			"Path to scenario directory containing CSV files",
		)
		configFile = flag.String("config", "", "Path to config file (optional)")
		startDate  = flag.String("start", "", "First execution day, YYYY-MM-DD (default today)")
		days       = flag.Int("days", 1, "Number of daily planning cycles to run")
		outputDir  = flag.String("output", "", "Output directory for results (optional)")
		format     = flag.String("format", "text", "Output format: text, json, csv")
		verbose    = flag.Bool("verbose", false, "Enable verbose output")
		help       = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	// Create command configuration
	config := commands.Config{
		ScenarioDir: *scenarioDir,
		ConfigFile:  *configFile,
		StartDate:   *startDate,
		Days:        *days,
		OutputDir:   *outputDir,
		Format:      *format,
		Verbose:     *verbose,
		Help:        *help,
	}

	// Create and execute command
	cmd := commands.NewPlanCommand(config)
	ctx := context.Background()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
