package main

import (
	"fmt"
	"os"

	"github.com/ludo-technologies/bundler/internal/graph"
	"github.com/ludo-technologies/bundler/internal/planner"
	"github.com/ludo-technologies/bundler/service"
	"github.com/spf13/cobra"
)

var (
	depsEntry        string
	depsOutputFormat string
	depsOutputPath   string
)

func depsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Print the module graph and chunk plan without emitting bundles",
		Long: `Resolves and parses --entry's import graph, computes the chunk plan, and
prints a report of both without running the transformer or writing any
output files. Useful for inspecting chunking decisions.

Examples:
  bundler deps --entry src/main.js
  bundler deps --entry src/main.js --format json -o deps.json`,
		RunE:          runDeps,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&depsEntry, "entry", "", "Entry module path (required)")
	cmd.Flags().StringVarP(&depsOutputFormat, "format", "f", "text", "Output format: text, json")
	cmd.Flags().StringVarP(&depsOutputPath, "output", "o", "", "Output file path (default: stdout)")

	return cmd
}

func runDeps(cmd *cobra.Command, args []string) (err error) {
	if depsEntry == "" {
		return fmt.Errorf("--entry is required")
	}

	format := service.ReportFormatText
	if depsOutputFormat == "json" {
		format = service.ReportFormatJSON
	}

	g, err := graph.Build(depsEntry)
	if err != nil {
		return err
	}
	plan := planner.Plan(g)

	var w *os.File
	if depsOutputPath != "" {
		f, createErr := os.Create(depsOutputPath)
		if createErr != nil {
			return fmt.Errorf("failed to create output file: %w", createErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("failed to close output file: %w", closeErr)
			}
		}()
		w = f
	} else {
		w = os.Stdout
	}

	return service.WriteDependencyReport(g, plan, format, w)
}
