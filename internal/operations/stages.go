package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cyberlens/internal/config"
	"cyberlens/internal/dataprocessing"
	"cyberlens/internal/dataset"
	"cyberlens/internal/exporter"
	"cyberlens/internal/kpi"
	"cyberlens/internal/profiling"
	"cyberlens/internal/risk"
	"cyberlens/internal/segmentation"
	"cyberlens/pkg/contracts/domain"
)

// Context keys used to hand data between stages.
const (
	ctxKeyIncidents        = "incidents"
	ctxKeyLogins           = "logins"
	ctxKeyCustomers        = "customers"
	ctxKeySales            = "sales"
	ctxKeyCompanySegments  = "company_segments"
	ctxKeyUserSegments     = "user_segments"
	ctxKeyCustomerSegments = "customer_segments"
	ctxKeyCompanyProfiles  = "company_profiles"
	ctxKeyUserProfiles     = "user_profiles"
	ctxKeyMonthlyIncidents = "monthly_incidents"
	ctxKeyQuarterlyImpact  = "quarterly_impact"
	ctxKeyFailureRates     = "failure_rates"
	ctxKeySummary          = "executive_summary"
	ctxKeyUserRisks        = "user_risks"
	ctxKeyRiskMetrics      = "risk_metrics"
)

// ParamCutoffDate requests a before/after comparison around the given
// YYYY-MM-DD date when present in the operation parameters.
const ParamCutoffDate = "cutoff_date"

// CleanStage loads the raw files and normalizes them.
type CleanStage struct {
	BaseStage
	loader  *dataset.Loader
	cleaner *dataprocessing.Cleaner
	logger  *slog.Logger
}

func NewCleanStage(paths *config.Paths, logger *slog.Logger) *CleanStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &CleanStage{
		BaseStage: NewBaseStage(StageIDClean, StageNameClean),
		loader:    dataset.NewLoader(paths, logger),
		cleaner:   dataprocessing.NewCleaner(logger),
		logger:    logger,
	}
}

func (s *CleanStage) Execute(ctx context.Context, state *OperationState) error {
	security, err := s.loader.LoadSecurityData(ctx)
	if err != nil {
		return fmt.Errorf("load security data: %w", err)
	}

	incidents := s.cleaner.CleanIncidents(security.Incidents)
	logins := s.cleaner.CleanLogins(security.Logins)
	state.SetContext(ctxKeyIncidents, incidents)
	state.SetContext(ctxKeyLogins, logins)

	// the commerce workbooks are optional; their absence only disables
	// customer segmentation
	if commerce, err := s.loader.LoadCommerceData(ctx); err != nil {
		s.logger.WarnContext(ctx, "commerce data unavailable",
			slog.String("error", err.Error()))
	} else {
		state.SetContext(ctxKeyCustomers, commerce.Customers)
		state.SetContext(ctxKeySales, commerce.Sales)
	}
	return nil
}

// SegmentStage clusters companies, users and, when the workbooks were
// loaded, customers.
type SegmentStage struct {
	BaseStage
	segmenter *segmentation.Segmenter
}

func NewSegmentStage(cfg config.AnalysisConfig, logger *slog.Logger) *SegmentStage {
	return &SegmentStage{
		BaseStage: NewBaseStage(StageIDSegment, StageNameSegment),
		segmenter: segmentation.NewSegmenter(cfg, logger),
	}
}

func (s *SegmentStage) Validate(state *OperationState) error {
	return requireContext(state, ctxKeyIncidents, ctxKeyLogins)
}

func (s *SegmentStage) Execute(ctx context.Context, state *OperationState) error {
	incidents := getIncidents(state)
	logins := getLogins(state)

	companies, err := s.segmenter.SegmentCompanies(incidents)
	if err != nil {
		return fmt.Errorf("segment companies: %w", err)
	}
	state.SetContext(ctxKeyCompanySegments, companies)
	state.GetStage(s.ID()).UpdateProgress(40, "companies segmented")

	users, err := s.segmenter.SegmentUsers(logins)
	if err != nil {
		return fmt.Errorf("segment users: %w", err)
	}
	state.SetContext(ctxKeyUserSegments, users)
	state.GetStage(s.ID()).UpdateProgress(80, "users segmented")

	customers, customersOK := state.GetContext(ctxKeyCustomers)
	sales, salesOK := state.GetContext(ctxKeySales)
	if customersOK && salesOK {
		segments, err := s.segmenter.SegmentCustomers(
			customers.([]domain.Customer), sales.([]domain.Sale))
		if err != nil {
			return fmt.Errorf("segment customers: %w", err)
		}
		state.SetContext(ctxKeyCustomerSegments, segments)
	}
	return nil
}

// ProfileStage characterizes the clusters produced by segmentation.
type ProfileStage struct {
	BaseStage
	profiler *profiling.Profiler
}

func NewProfileStage(logger *slog.Logger) *ProfileStage {
	return &ProfileStage{
		BaseStage: NewBaseStage(StageIDProfile, StageNameProfile),
		profiler:  profiling.NewProfiler(logger),
	}
}

func (s *ProfileStage) Validate(state *OperationState) error {
	return requireContext(state, ctxKeyCompanySegments, ctxKeyUserSegments)
}

func (s *ProfileStage) Execute(ctx context.Context, state *OperationState) error {
	companies, _ := state.GetContext(ctxKeyCompanySegments)
	companyProfiles, err := s.profiler.ProfileCompanies(companies.([]domain.CompanySegment))
	if err != nil {
		return fmt.Errorf("profile companies: %w", err)
	}
	state.SetContext(ctxKeyCompanyProfiles, companyProfiles)

	users, _ := state.GetContext(ctxKeyUserSegments)
	userProfiles, err := s.profiler.ProfileUsers(users.([]domain.UserSegment))
	if err != nil {
		return fmt.Errorf("profile users: %w", err)
	}
	state.SetContext(ctxKeyUserProfiles, userProfiles)
	return nil
}

// KPIStage computes the reporting indicator series.
type KPIStage struct {
	BaseStage
	calc   *kpi.Calculator
	logger *slog.Logger
}

func NewKPIStage(logger *slog.Logger) *KPIStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &KPIStage{
		BaseStage: NewBaseStage(StageIDKPI, StageNameKPI),
		calc:      kpi.NewCalculator(logger),
		logger:    logger,
	}
}

func (s *KPIStage) Validate(state *OperationState) error {
	return requireContext(state, ctxKeyIncidents, ctxKeyLogins)
}

func (s *KPIStage) Execute(ctx context.Context, state *OperationState) error {
	incidents := getIncidents(state)
	logins := getLogins(state)

	state.SetContext(ctxKeyMonthlyIncidents, s.calc.MonthlyIncidents(incidents, kpi.Filter{}))
	state.SetContext(ctxKeyQuarterlyImpact, s.calc.QuarterlyImpact(incidents, kpi.Filter{}))
	state.SetContext(ctxKeyFailureRates, s.calc.MonthlyFailureRate(logins, kpi.Filter{}))

	summary, err := s.calc.ExecutiveSummary(incidents, logins, kpi.Filter{})
	if err != nil {
		return fmt.Errorf("executive summary: %w", err)
	}
	state.SetContext(ctxKeySummary, summary)

	if raw, ok := state.GetContext(ParamCutoffDate); ok {
		cutoffStr, _ := raw.(string)
		cutoff, err := time.Parse("2006-01-02", cutoffStr)
		if err != nil {
			return fmt.Errorf("invalid cutoff date %q: %w", cutoffStr, err)
		}
		comparison, err := s.calc.ComparePeriods(logins, cutoff, kpi.Filter{})
		if err != nil {
			return fmt.Errorf("compare periods: %w", err)
		}
		state.SetContext("period_comparison", comparison)
		s.logger.InfoContext(ctx, "campaign comparison computed",
			slog.Float64("improvement_pct", comparison.ImprovementPct))
	}
	return nil
}

// PredictStage trains the risk models and scores the user population.
type PredictStage struct {
	BaseStage
	predictor *risk.Predictor
}

func NewPredictStage(cfg config.AnalysisConfig, logger *slog.Logger) *PredictStage {
	return &PredictStage{
		BaseStage: NewBaseStage(StageIDPredict, StageNamePredict),
		predictor: risk.NewPredictor(cfg, logger),
	}
}

func (s *PredictStage) Validate(state *OperationState) error {
	return requireContext(state, ctxKeyIncidents, ctxKeyLogins)
}

func (s *PredictStage) Execute(ctx context.Context, state *OperationState) error {
	incidents := getIncidents(state)
	logins := getLogins(state)

	if _, err := s.predictor.TrainIncidentModel(incidents); err != nil {
		return fmt.Errorf("incident model: %w", err)
	}
	state.GetStage(s.ID()).UpdateProgress(50, "incident model trained")

	result, err := s.predictor.ScoreUsers(logins)
	if err != nil {
		return fmt.Errorf("user risk: %w", err)
	}
	state.SetContext(ctxKeyUserRisks, result.Risks)
	state.SetContext(ctxKeyRiskMetrics, result.Metrics)
	return nil
}

// ExportStage writes every report produced by the preceding stages.
type ExportStage struct {
	BaseStage
	exporter *exporter.ReportExporter
}

func NewExportStage(paths *config.Paths, logger *slog.Logger) *ExportStage {
	return &ExportStage{
		BaseStage: NewBaseStage(StageIDExport, StageNameExport),
		exporter:  exporter.NewReportExporter(paths, logger),
	}
}

func (s *ExportStage) Execute(ctx context.Context, state *OperationState) error {
	if v, ok := state.GetContext(ctxKeyCompanySegments); ok {
		if err := s.exporter.WriteCompanySegments(v.([]domain.CompanySegment)); err != nil {
			return err
		}
	}
	if v, ok := state.GetContext(ctxKeyUserSegments); ok {
		if err := s.exporter.WriteUserSegments(v.([]domain.UserSegment)); err != nil {
			return err
		}
	}
	if v, ok := state.GetContext(ctxKeyCustomerSegments); ok {
		if err := s.exporter.WriteCustomerSegments(v.([]domain.CustomerSegment)); err != nil {
			return err
		}
	}
	if v, ok := state.GetContext(ctxKeyUserRisks); ok {
		if err := s.exporter.WriteUserRisk(v.([]domain.UserRisk)); err != nil {
			return err
		}
	}
	monthly, monthlyOK := state.GetContext(ctxKeyMonthlyIncidents)
	rates, ratesOK := state.GetContext(ctxKeyFailureRates)
	if monthlyOK && ratesOK {
		if err := s.exporter.WriteMonthlyKPIs(
			monthly.([]domain.MonthlyCount), rates.([]domain.MonthlyRate)); err != nil {
			return err
		}
	}
	if v, ok := state.GetContext(ctxKeyQuarterlyImpact); ok {
		if err := s.exporter.WriteQuarterlyKPIs(v.([]domain.QuarterlyImpact)); err != nil {
			return err
		}
	}
	if v, ok := state.GetContext(ctxKeySummary); ok {
		if err := s.exporter.WriteExecutiveSummary(v.(domain.ExecutiveSummary)); err != nil {
			return err
		}
	}

	// The combined workbook needs every headline output.
	companies, companiesOK := state.GetContext(ctxKeyCompanySegments)
	users, usersOK := state.GetContext(ctxKeyUserSegments)
	risks, risksOK := state.GetContext(ctxKeyUserRisks)
	if companiesOK && usersOK && monthlyOK && risksOK {
		if err := s.exporter.WriteWorkbook(
			companies.([]domain.CompanySegment),
			users.([]domain.UserSegment),
			monthly.([]domain.MonthlyCount),
			risks.([]domain.UserRisk)); err != nil {
			return err
		}
	}
	return nil
}

// NewPipelineRegistry registers the full pipeline in execution order.
func NewPipelineRegistry(cfg *config.Config, paths *config.Paths, logger *slog.Logger) (*Registry, error) {
	registry := NewRegistry()
	stages := []Stage{
		NewCleanStage(paths, logger),
		NewSegmentStage(cfg.Analysis, logger),
		NewProfileStage(logger),
		NewKPIStage(logger),
		NewPredictStage(cfg.Analysis, logger),
		NewExportStage(paths, logger),
	}
	for _, stage := range stages {
		if err := registry.Register(stage); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func requireContext(state *OperationState, keys ...string) error {
	for _, key := range keys {
		if _, ok := state.GetContext(key); !ok {
			return fmt.Errorf("missing %s: run the clean stage first", key)
		}
	}
	return nil
}

func getIncidents(state *OperationState) []domain.Incident {
	v, _ := state.GetContext(ctxKeyIncidents)
	incidents, _ := v.([]domain.Incident)
	return incidents
}

func getLogins(state *OperationState) []domain.LoginAttempt {
	v, _ := state.GetContext(ctxKeyLogins)
	logins, _ := v.([]domain.LoginAttempt)
	return logins
}
