package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"

	"cyberlens/internal/config"
	"cyberlens/internal/dataprocessing"
	"cyberlens/internal/dataset"
	"cyberlens/internal/infrastructure"
	"cyberlens/internal/profiling"
	"cyberlens/internal/segmentation"
)

func main() {
	baseDir := flag.String("base", "", "base directory for data and logs (defaults to the executable directory)")
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

	data, err := dataset.NewLoader(paths, logger).LoadSecurityData(context.Background())
	if err != nil {
		logger.Error("failed to load raw data", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cleaner := dataprocessing.NewCleaner(logger)
	incidents := cleaner.CleanIncidents(data.Incidents)
	logins := cleaner.CleanLogins(data.Logins)

	segmenter := segmentation.NewSegmenter(cfg.Analysis, logger)
	companies, err := segmenter.SegmentCompanies(incidents)
	if err != nil {
		logger.Error("company segmentation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	users, err := segmenter.SegmentUsers(logins)
	if err != nil {
		logger.Error("user segmentation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	profiler := profiling.NewProfiler(logger)
	companyProfiles, err := profiler.ProfileCompanies(companies)
	if err != nil {
		logger.Error("company profiling failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	userProfiles, err := profiler.ProfileUsers(users)
	if err != nil {
		logger.Error("user profiling failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]interface{}{
		"company_clusters": companyProfiles,
		"user_clusters":    userProfiles,
	}); err != nil {
		logger.Error("failed to encode profiles", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
