package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"cyberlens/internal/config"
	"cyberlens/internal/dataprocessing"
	"cyberlens/internal/dataset"
	"cyberlens/internal/exporter"
	"cyberlens/internal/infrastructure"
	"cyberlens/internal/kpi"
)

func main() {
	baseDir := flag.String("base", "", "base directory for data and logs (defaults to the executable directory)")
	cutoff := flag.String("cutoff", "", "cutoff date (YYYY-MM-DD) for the before/after failure-rate comparison")
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
	if err := paths.EnsureDirectories(); err != nil {
		logger.Error("failed to create directories", slog.String("error", err.Error()))
		os.Exit(1)
	}

	data, err := dataset.NewLoader(paths, logger).LoadSecurityData(context.Background())
	if err != nil {
		logger.Error("failed to load raw data", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cleaner := dataprocessing.NewCleaner(logger)
	incidents := cleaner.CleanIncidents(data.Incidents)
	logins := cleaner.CleanLogins(data.Logins)

	calc := kpi.NewCalculator(logger)
	monthly := calc.MonthlyIncidents(incidents, kpi.Filter{})
	quarterly := calc.QuarterlyImpact(incidents, kpi.Filter{})
	rates := calc.MonthlyFailureRate(logins, kpi.Filter{})

	summary, err := calc.ExecutiveSummary(incidents, logins, kpi.Filter{})
	if err != nil {
		logger.Error("executive summary failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	export := exporter.NewReportExporter(paths, logger)
	if err := export.WriteMonthlyKPIs(monthly, rates); err != nil {
		logger.Error("failed to write monthly KPIs", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := export.WriteQuarterlyKPIs(quarterly); err != nil {
		logger.Error("failed to write quarterly KPIs", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := export.WriteExecutiveSummary(summary); err != nil {
		logger.Error("failed to write executive summary", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("months: %d, quarters: %d, total incidents: %d, failure rate: %.4f\n",
		len(monthly), len(quarterly), summary.IncidentCount, summary.LoginFailureRate)

	if *cutoff == "" {
		return
	}
	cutoffDate, err := time.Parse("2006-01-02", *cutoff)
	if err != nil {
		logger.Error("invalid cutoff date", slog.String("value", *cutoff))
		os.Exit(1)
	}
	cmp, err := calc.ComparePeriods(logins, cutoffDate, kpi.Filter{})
	if err != nil {
		logger.Error("period comparison failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Printf("failure rate before %s: %.4f, after: %.4f, improvement: %.2f%%\n",
		*cutoff, cmp.Before.Rate, cmp.After.Rate, cmp.ImprovementPct)
}
