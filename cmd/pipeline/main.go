package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"cyberlens/internal/config"
	"cyberlens/internal/files"
	"cyberlens/internal/infrastructure"
	"cyberlens/internal/operations"
	"cyberlens/internal/validation"
)

func main() {
	baseDir := flag.String("base", "", "base directory for data and logs (defaults to the executable directory)")
	stage := flag.String("stage", "", "run a single stage instead of the full pipeline (clean, segment, profile, kpi, predict, export)")
	cutoff := flag.String("cutoff", "", "cutoff date (YYYY-MM-DD) for the before/after KPI comparison")
	continueOnError := flag.Bool("continue-on-error", false, "keep running later stages after a failure")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *baseDir != "" {
		cfg.Paths.BaseDir = *baseDir
	}
	cfg.Pipeline.ContinueOnError = *continueOnError

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		logger.Error("failed to resolve paths", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		logger.Error("failed to create directories", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Fail before the pipeline starts when the raw drops are unusable.
	inventory := files.NewInventory(paths)
	if err := inventory.MissingInputs(); err != nil {
		logger.Error("raw inputs missing", slog.String("error", err.Error()))
		os.Exit(1)
	}
	validator := validation.NewFileValidator(logger)
	for _, path := range []string{paths.IncidentsCSV, paths.LoginsCSV} {
		if err := validator.ValidateCSVFile(path); err != nil {
			logger.Error("raw input rejected", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	registry, err := operations.NewPipelineRegistry(cfg, paths, logger)
	if err != nil {
		logger.Error("failed to build pipeline", slog.String("error", err.Error()))
		os.Exit(1)
	}
	manager := operations.NewManager(registry, cfg.Pipeline, nil, logger)

	req := operations.OperationRequest{
		Stage:      *stage,
		Parameters: map[string]interface{}{},
	}
	if *cutoff != "" {
		req.Parameters[operations.ParamCutoffDate] = *cutoff
	}

	resp, err := manager.Execute(context.Background(), req)
	if err != nil {
		logger.Error("pipeline failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	printSummary(resp)
	if resp.Status != operations.OperationStatusCompleted {
		os.Exit(1)
	}
}

func printSummary(resp *operations.OperationResponse) {
	fmt.Printf("operation %s: %s in %s\n", resp.ID, resp.Status, resp.Duration.Round(time.Millisecond))

	ids := make([]string, 0, len(resp.Stages))
	for id := range resp.Stages {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		st := resp.Stages[id]
		fmt.Printf("  %-10s %s", st.Name, st.Status)
		if st.Error != "" {
			fmt.Printf("  (%s)", st.Error)
		}
		fmt.Println()
	}
	if resp.Error != "" {
		fmt.Printf("error: %s\n", resp.Error)
	}
}
