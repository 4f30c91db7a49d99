package risk

import (
	"fmt"
	"log/slog"
	"sort"

	"cyberlens/internal/config"
	apperrors "cyberlens/internal/errors"
	"cyberlens/pkg/contracts/domain"
)

// testFraction is the held-out share used when evaluating both models.
const testFraction = 0.25

// IncidentModelResult bundles the trained incident forest with its
// evaluation on the held-out company-months.
type IncidentModelResult struct {
	Forest  *Forest
	Metrics Metrics
	Panel   []PanelRow
}

// UserRiskResult bundles the per-user risk scores with how well the
// underlying model separated compromised from clean accounts.
type UserRiskResult struct {
	Risks   []domain.UserRisk
	Metrics Metrics
}

// Predictor trains and applies the two risk models.
type Predictor struct {
	cfg    config.AnalysisConfig
	logger *slog.Logger
}

func NewPredictor(cfg config.AnalysisConfig, logger *slog.Logger) *Predictor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Predictor{cfg: cfg, logger: logger.With(slog.String("component", "risk"))}
}

// TrainIncidentModel builds the company-month panel and fits a random
// forest predicting whether a company has an incident in a given month.
func (p *Predictor) TrainIncidentModel(incidents []domain.Incident) (*IncidentModelResult, error) {
	panel := BuildCompanyPanel(incidents)
	if len(panel) == 0 {
		return nil, fmt.Errorf("incident model: no panel rows from %d incidents", len(incidents))
	}

	features, labels := PanelMatrix(panel)
	trainIdx, testIdx := StratifiedSplit(labels, testFraction, p.cfg.RandomSeed)
	if len(trainIdx) == 0 || len(testIdx) == 0 {
		return nil, fmt.Errorf("incident model: panel too small to split (%d rows)", len(panel))
	}

	trainX, trainY := subset(features, labels, trainIdx)
	forestCfg := DefaultForestConfig(p.cfg.RandomSeed)
	forestCfg.Trees = p.cfg.ForestTrees
	forest, err := TrainForest(trainX, trainY, forestCfg)
	if err != nil {
		return nil, apperrors.NewAnalysisError("incident model training failed", err)
	}

	testX, testY := subset(features, labels, testIdx)
	probs := make([]float64, len(testX))
	for i, row := range testX {
		probs[i] = forest.PredictProba(row)
	}
	metrics := Evaluate(probs, testY)

	p.logger.Info("trained incident model",
		slog.Int("panel_rows", len(panel)),
		slog.Int("trees", forestCfg.Trees),
		slog.Float64("f1", metrics.F1),
		slog.Float64("auc", metrics.AUC))

	return &IncidentModelResult{Forest: forest, Metrics: metrics, Panel: panel}, nil
}

// ScoreUsers derives compromise labels from the login history, fits a
// balanced logistic regression and scores every user. Scores are returned
// sorted by descending risk.
func (p *Predictor) ScoreUsers(attempts []domain.LoginAttempt) (*UserRiskResult, error) {
	activity := BuildUserActivity(attempts)
	if len(activity) == 0 {
		return nil, fmt.Errorf("user risk: no login activity to score")
	}

	features := make([][]float64, len(activity))
	labels := make([]int, len(activity))
	for i, a := range activity {
		features[i] = a.featureVector()
		if a.Compromised {
			labels[i] = 1
		}
	}

	trainIdx, testIdx := StratifiedSplit(labels, testFraction, p.cfg.RandomSeed)
	trainX, trainY := subset(features, labels, trainIdx)
	model, err := TrainLogistic(trainX, trainY, DefaultLogisticConfig())
	if err != nil {
		return nil, apperrors.NewAnalysisError("user risk model training failed", err)
	}

	var metrics Metrics
	if len(testIdx) > 0 {
		testX, testY := subset(features, labels, testIdx)
		probs := make([]float64, len(testX))
		for i, row := range testX {
			probs[i] = model.PredictProba(row)
		}
		metrics = Evaluate(probs, testY)
	}

	risks := make([]domain.UserRisk, len(activity))
	for i, a := range activity {
		risks[i] = domain.UserRisk{
			User:       a.User,
			Role:       a.Role,
			Department: a.Department,
			RiskScore:  model.PredictProba(features[i]),
		}
	}
	sort.Slice(risks, func(i, j int) bool {
		if risks[i].RiskScore != risks[j].RiskScore {
			return risks[i].RiskScore > risks[j].RiskScore
		}
		return risks[i].User < risks[j].User
	})

	p.logger.Info("scored user risk",
		slog.Int("users", len(risks)),
		slog.Int("flagged", countPositives(labels)),
		slog.Float64("f1", metrics.F1))

	return &UserRiskResult{Risks: risks, Metrics: metrics}, nil
}

func countPositives(labels []int) int {
	n := 0
	for _, y := range labels {
		n += y
	}
	return n
}
