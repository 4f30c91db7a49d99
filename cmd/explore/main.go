package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"cyberlens/internal/config"
	"cyberlens/internal/dataprocessing"
	"cyberlens/internal/dataset"
	"cyberlens/internal/infrastructure"
)

func main() {
	baseDir := flag.String("base", "", "base directory for data and logs (defaults to the executable directory)")
	asJSON := flag.Bool("json", false, "emit the summary as JSON")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *baseDir != "" {
		cfg.Paths.BaseDir = *baseDir
	}

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

	ctx := context.Background()
	data, err := dataset.NewLoader(paths, logger).LoadSecurityData(ctx)
	if err != nil {
		logger.Error("failed to load raw data", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cleaner := dataprocessing.NewCleaner(logger)
	incidents := cleaner.CleanIncidents(data.Incidents)
	logins := cleaner.CleanLogins(data.Logins)

	summary := dataprocessing.NewSummarizer(logger).Summarize(incidents, logins)

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			logger.Error("failed to encode summary", slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	fmt.Printf("incidents: %d rows (%d skipped)\n", summary.IncidentRows, data.IncidentStats.Skipped)
	fmt.Printf("logins:    %d rows (%d skipped)\n", summary.LoginRows, data.LoginStats.Skipped)
	fmt.Println()
	for _, cs := range summary.IncidentStats {
		fmt.Printf("%-20s n=%-5d mean=%-12.2f std=%-12.2f min=%-10.2f median=%-12.2f max=%.2f\n",
			cs.Column, cs.Count, cs.Mean, cs.Std, cs.Min, cs.Median, cs.Max)
	}
	fmt.Println()
	for _, vc := range summary.ResultCounts {
		fmt.Printf("%-12s %d\n", vc.Value, vc.Count)
	}
	fmt.Printf("\nglobal failure rate: %.4f\n", summary.GlobalFailureRate)
}
