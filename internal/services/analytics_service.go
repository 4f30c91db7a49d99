package services

import (
	"context"
	"fmt"
	"log/slog"

	"cyberlens/internal/config"
	"cyberlens/internal/dataprocessing"
	"cyberlens/internal/dataset"
	"cyberlens/internal/kpi"
	"cyberlens/pkg/contracts/domain"
)

// AnalyticsService recomputes filtered KPI series from the raw drops.
// Unlike DataService it does not read generated reports; filters cannot
// be answered from the pre-aggregated CSVs.
type AnalyticsService struct {
	loader     *dataset.Loader
	cleaner    *dataprocessing.Cleaner
	calculator *kpi.Calculator
	logger     *slog.Logger
}

func NewAnalyticsService(paths *config.Paths, logger *slog.Logger) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsService{
		loader:     dataset.NewLoader(paths, logger),
		cleaner:    dataprocessing.NewCleaner(logger),
		calculator: kpi.NewCalculator(logger),
		logger:     logger.With(slog.String("component", "analytics_service")),
	}
}

// FailureRates computes the monthly login failure rate under a filter.
func (s *AnalyticsService) FailureRates(ctx context.Context, filter kpi.Filter) ([]domain.MonthlyRate, error) {
	data, err := s.loader.LoadSecurityData(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading raw data: %w", err)
	}
	logins := s.cleaner.CleanLogins(data.Logins)
	return s.calculator.MonthlyFailureRate(logins, filter), nil
}

// MonthlyIncidents computes the monthly incident series under a filter.
func (s *AnalyticsService) MonthlyIncidents(ctx context.Context, filter kpi.Filter) ([]domain.MonthlyCount, error) {
	data, err := s.loader.LoadSecurityData(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading raw data: %w", err)
	}
	incidents := s.cleaner.CleanIncidents(data.Incidents)
	return s.calculator.MonthlyIncidents(incidents, filter), nil
}
