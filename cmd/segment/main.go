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
	"cyberlens/internal/segmentation"
)

func main() {
	baseDir := flag.String("base", "", "base directory for data and logs (defaults to the executable directory)")
	skipCustomers := flag.Bool("skip-customers", false, "skip the customer segmentation even when the workbooks exist")
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

	ctx := context.Background()
	loader := dataset.NewLoader(paths, logger)
	data, err := loader.LoadSecurityData(ctx)
	if err != nil {
		logger.Error("failed to load raw data", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cleaner := dataprocessing.NewCleaner(logger)
	incidents := cleaner.CleanIncidents(data.Incidents)
	logins := cleaner.CleanLogins(data.Logins)

	segmenter := segmentation.NewSegmenter(cfg.Analysis, logger)
	export := exporter.NewReportExporter(paths, logger)

	companies, err := segmenter.SegmentCompanies(incidents)
	if err != nil {
		logger.Error("company segmentation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := export.WriteCompanySegments(companies); err != nil {
		logger.Error("failed to write company segments", slog.String("error", err.Error()))
		os.Exit(1)
	}

	users, err := segmenter.SegmentUsers(logins)
	if err != nil {
		logger.Error("user segmentation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := export.WriteUserSegments(users); err != nil {
		logger.Error("failed to write user segments", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("segmented %d companies and %d users\n", len(companies), len(users))

	if *skipCustomers {
		return
	}
	commerce, err := loader.LoadCommerceData(ctx)
	if err != nil {
		logger.Warn("commerce workbooks unavailable, skipping customer segmentation",
			slog.String("error", err.Error()))
		return
	}
	customers, err := segmenter.SegmentCustomers(commerce.Customers, commerce.Sales)
	if err != nil {
		logger.Error("customer segmentation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := export.WriteCustomerSegments(customers); err != nil {
		logger.Error("failed to write customer segments", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Printf("segmented %d customers\n", len(customers))
}
