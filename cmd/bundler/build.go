package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ludo-technologies/bundler/domain"
	"github.com/ludo-technologies/bundler/internal/config"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/bundler/service"
)

var (
	buildEntry          string
	buildOutput         string
	buildPublicPath     string
	buildConfigPath     string
	buildNoProgress     bool
	buildMaxConcurrency int
)

func buildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "build",
		Short:         "Bundle an entry module and its dependencies",
		Long:          `Reads --entry, follows its import graph, partitions it into chunks, and writes the entry bundle plus one file per chunk to --output.`,
		RunE:          runBuild,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&buildEntry, "entry", "", "Entry module path (required, or set via bundler.yaml)")
	cmd.Flags().StringVar(&buildOutput, "output", "", "Output directory (required, or set via bundler.yaml)")
	cmd.Flags().StringVar(&buildPublicPath, "public-path", "", "URL prefix prepended to chunk filenames at load time")
	cmd.Flags().StringVarP(&buildConfigPath, "config", "c", "", "Path to bundler.yaml (default: discovered in cwd)")
	cmd.Flags().BoolVar(&buildNoProgress, "no-progress", false, "Disable progress bars")
	cmd.Flags().IntVar(&buildMaxConcurrency, "max-concurrency", 0, "Bound on concurrent chunk writes (0 = use config/default)")

	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(buildConfigPath)
	if err != nil {
		return err
	}

	entry := firstNonEmpty(buildEntry, cfg.Entry)
	output := firstNonEmpty(buildOutput, cfg.Output)
	if entry == "" || output == "" {
		return domain.NewUsageError("both --entry and --output are required (directly or via bundler.yaml)")
	}
	publicPath := firstNonEmpty(buildPublicPath, cfg.PublicPath)
	maxConcurrency := buildMaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = cfg.MaxConcurrency
	}
	progressEnabled := cfg.Progress && !buildNoProgress

	pm := service.NewProgressManager(progressEnabled)
	defer pm.Close()

	writer := service.NewChunkWriter(maxConcurrency, pm)
	svc := service.NewBundleService(writer, pm)

	start := time.Now()
	resp, err := svc.Build(context.Background(), domain.BuildRequest{
		EntryPath:      entry,
		OutputDir:      output,
		PublicPath:     publicPath,
		ProgressEnabled: progressEnabled,
		MaxConcurrency: maxConcurrency,
	})
	if err != nil {
		return err
	}

	fmt.Println(service.BuildSummary(resp, time.Since(start)))
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
