package segmentation

import (
	"fmt"
	"log/slog"

	"cyberlens/internal/config"
	"cyberlens/pkg/contracts/domain"
)

// Segmenter runs the clustering step over the aggregated features.
type Segmenter struct {
	cfg    config.AnalysisConfig
	logger *slog.Logger
}

// NewSegmenter creates a segmenter using the analysis tunables.
func NewSegmenter(cfg config.AnalysisConfig, logger *slog.Logger) *Segmenter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Segmenter{cfg: cfg, logger: logger.With(slog.String("component", "segmenter"))}
}

// SegmentCompanies clusters companies on their incident profile and attaches
// a 2-D principal-component projection for visual tooling.
func (s *Segmenter) SegmentCompanies(incidents []domain.Incident) ([]domain.CompanySegment, error) {
	features := BuildCompanyFeatures(incidents)
	if len(features) == 0 {
		return nil, fmt.Errorf("no companies to segment")
	}

	matrix := CompanyFeatureMatrix(features)
	scaled, err := (&StandardScaler{}).FitTransform(matrix)
	if err != nil {
		return nil, fmt.Errorf("scaling company features: %w", err)
	}

	km := NewKMeans(s.cfg.CompanyClusters, s.cfg.RandomSeed)
	km.Restarts = s.cfg.KMeansRestarts
	fit, err := km.Fit(scaled)
	if err != nil {
		return nil, fmt.Errorf("clustering companies: %w", err)
	}

	components := 2
	if len(scaled[0]) < 2 {
		components = 1
	}
	coords, err := PCAProject(scaled, components)
	if err != nil {
		return nil, fmt.Errorf("projecting company features: %w", err)
	}

	segments := make([]domain.CompanySegment, len(features))
	for i, f := range features {
		seg := domain.CompanySegment{
			Company:         f.Company,
			Sector:          f.Sector,
			CompanySize:     f.CompanySize,
			IncidentCount:   f.IncidentCount,
			MeanImpact:      zeroNaN(f.MeanImpact),
			MeanDowntime:    zeroNaN(f.MeanDowntime),
			AttackTypeCount: f.AttackTypeCount,
			Cluster:         fit.Labels[i],
			PC1:             coords[i][0],
		}
		if len(coords[i]) > 1 {
			seg.PC2 = coords[i][1]
		}
		segments[i] = seg
	}

	s.logger.Info("segmented companies",
		slog.Int("companies", len(segments)),
		slog.Int("clusters", s.cfg.CompanyClusters),
		slog.Float64("inertia", fit.Inertia))

	return segments, nil
}

// SegmentUsers clusters users on their login behaviour.
func (s *Segmenter) SegmentUsers(logins []domain.LoginAttempt) ([]domain.UserSegment, error) {
	features := BuildUserFeatures(logins)
	if len(features) == 0 {
		return nil, fmt.Errorf("no users to segment")
	}

	matrix := UserFeatureMatrix(features)
	scaled, err := (&StandardScaler{}).FitTransform(matrix)
	if err != nil {
		return nil, fmt.Errorf("scaling user features: %w", err)
	}

	km := NewKMeans(s.cfg.UserClusters, s.cfg.RandomSeed)
	km.Restarts = s.cfg.KMeansRestarts
	fit, err := km.Fit(scaled)
	if err != nil {
		return nil, fmt.Errorf("clustering users: %w", err)
	}

	segments := make([]domain.UserSegment, len(features))
	for i, f := range features {
		segments[i] = domain.UserSegment{
			User:         f.User,
			Role:         f.Role,
			Department:   f.Department,
			Failures:     f.Failures,
			Successes:    f.Successes,
			Total:        f.Total,
			CountryCount: f.CountryCount,
			IPCount:      f.IPCount,
			FailureRatio: f.FailureRatio,
			Cluster:      fit.Labels[i],
		}
	}

	s.logger.Info("segmented users",
		slog.Int("users", len(segments)),
		slog.Int("clusters", s.cfg.UserClusters))

	return segments, nil
}

// SegmentCustomers clusters customers on age and spend behaviour.
func (s *Segmenter) SegmentCustomers(customers []domain.Customer, sales []domain.Sale) ([]domain.CustomerSegment, error) {
	features := BuildCustomerFeatures(customers, sales)
	if len(features) == 0 {
		return nil, fmt.Errorf("no customers to segment")
	}

	matrix := CustomerFeatureMatrix(features)
	scaled, err := (&StandardScaler{}).FitTransform(matrix)
	if err != nil {
		return nil, fmt.Errorf("scaling customer features: %w", err)
	}

	km := NewKMeans(s.cfg.CustomerClusters, s.cfg.RandomSeed)
	km.Restarts = s.cfg.KMeansRestarts
	fit, err := km.Fit(scaled)
	if err != nil {
		return nil, fmt.Errorf("clustering customers: %w", err)
	}

	segments := make([]domain.CustomerSegment, len(features))
	for i, f := range features {
		segments[i] = domain.CustomerSegment{
			CustomerID:    f.CustomerID,
			Age:           f.Age,
			Gender:        f.Gender,
			TotalSpent:    f.TotalSpent,
			PurchaseCount: f.PurchaseCount,
			AvgOrderValue: f.AvgOrderValue,
			Cluster:       fit.Labels[i],
		}
	}

	s.logger.Info("segmented customers",
		slog.Int("customers", len(segments)),
		slog.Int("clusters", s.cfg.CustomerClusters))

	return segments, nil
}
