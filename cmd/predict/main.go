package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"cyberlens/internal/config"
	"cyberlens/internal/dataprocessing"
	"cyberlens/internal/dataset"
	"cyberlens/internal/exporter"
	"cyberlens/internal/infrastructure"
	"cyberlens/internal/risk"
)

func main() {
	baseDir := flag.String("base", "", "base directory for data and logs (defaults to the executable directory)")
	trees := flag.Int("trees", 0, "override the random forest size")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *baseDir != "" {
		cfg.Paths.BaseDir = *baseDir
	}
	if *trees > 0 {
		cfg.Analysis.ForestTrees = *trees
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

	predictor := risk.NewPredictor(cfg.Analysis, logger)

	model, err := predictor.TrainIncidentModel(incidents)
	if err != nil {
		logger.Error("incident model training failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Printf("incident model: accuracy=%.3f precision=%.3f recall=%.3f f1=%.3f auc=%.3f\n",
		model.Metrics.Accuracy, model.Metrics.Precision, model.Metrics.Recall,
		model.Metrics.F1, model.Metrics.AUC)

	scored, err := predictor.ScoreUsers(logins)
	if err != nil {
		logger.Error("user risk scoring failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Printf("user risk model: accuracy=%.3f precision=%.3f recall=%.3f f1=%.3f auc=%.3f\n",
		scored.Metrics.Accuracy, scored.Metrics.Precision, scored.Metrics.Recall,
		scored.Metrics.F1, scored.Metrics.AUC)

	export := exporter.NewReportExporter(paths, logger)
	if err := export.WriteUserRisk(scored.Risks); err != nil {
		logger.Error("failed to write user risk report", slog.String("error", err.Error()))
		os.Exit(1)
	}

	top := scored.Risks
	if len(top) > 10 {
		top = top[:10]
	}
	for _, r := range top {
		fmt.Printf("  %-20s %-12s %-12s %.4f\n", r.User, r.Role, r.Department, r.RiskScore)
	}
}
