package risk

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberlens/internal/config"
	"cyberlens/pkg/contracts/domain"
)

func testAnalysisConfig() config.AnalysisConfig {
	return config.AnalysisConfig{
		CompanyClusters:  3,
		UserClusters:     4,
		CustomerClusters: 3,
		KMeansRestarts:   10,
		ForestTrees:      30,
		RandomSeed:       42,
	}
}

func TestStratifiedSplitKeepsBalance(t *testing.T) {
	labels := make([]int, 100)
	for i := 80; i < 100; i++ {
		labels[i] = 1
	}

	train, test := StratifiedSplit(labels, 0.25, 42)
	assert.Len(t, train, 75)
	assert.Len(t, test, 25)

	testPos := 0
	for _, i := range test {
		testPos += labels[i]
	}
	assert.Equal(t, 5, testPos)
}

func TestStratifiedSplitKeepsTrainingExample(t *testing.T) {
	labels := []int{0, 0, 0, 1}

	train, _ := StratifiedSplit(labels, 0.9, 1)
	trainPos := 0
	for _, i := range train {
		trainPos += labels[i]
	}
	assert.Equal(t, 1, trainPos, "lone positive must stay trainable")
}

func TestTrainIncidentModel(t *testing.T) {
	// 12 companies over 12 months; odd companies have repeating incident
	// streaks so lag features carry signal
	var incidents []domain.Incident
	for c := 0; c < 12; c++ {
		company := fmt.Sprintf("Company%02d", c)
		for m := 0; m < 12; m++ {
			if c%2 == 1 && m%2 == 0 {
				incidents = append(incidents, domain.Incident{
					Company:       company,
					Date:          time.Date(2024, time.Month(m+1), 10, 0, 0, 0, 0, time.UTC),
					Impact:        float64(1000 * (c + 1)),
					DowntimeHours: 4,
				})
			}
		}
		// every company appears at least once so it enters the panel
		incidents = append(incidents, domain.Incident{
			Company: company,
			Date:    time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC),
			Impact:  100,
		})
	}

	predictor := NewPredictor(testAnalysisConfig(), nil)
	result, err := predictor.TrainIncidentModel(incidents)
	require.NoError(t, err)

	assert.NotNil(t, result.Forest)
	assert.Equal(t, 12*12, len(result.Panel))
	assert.Greater(t, result.Metrics.Samples, 0)
}

func TestTrainIncidentModelEmpty(t *testing.T) {
	predictor := NewPredictor(testAnalysisConfig(), nil)
	_, err := predictor.TrainIncidentModel(nil)
	assert.Error(t, err)
}

func TestScoreUsers(t *testing.T) {
	base := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	var attempts []domain.LoginAttempt

	// 20 clean users with ordinary activity
	for u := 0; u < 20; u++ {
		user := fmt.Sprintf("user%02d", u)
		for d := 0; d < 5; d++ {
			attempts = append(attempts, domain.LoginAttempt{
				User: user, Role: "Employe", Department: "Ventes",
				SourceIP: "10.0.0.1", Country: "Madagascar",
				Time:   base.AddDate(0, 0, d),
				Result: domain.LoginSuccess,
			})
		}
	}
	// 4 compromised users: bursts of failures then a success from a new IP
	for u := 0; u < 4; u++ {
		user := fmt.Sprintf("victim%02d", u)
		for f := 0; f < 8; f++ {
			attempts = append(attempts, domain.LoginAttempt{
				User: user, Role: "Admin", Department: "IT",
				SourceIP: "203.0.113.9", Country: "Autre",
				Time:   base.Add(time.Duration(f) * time.Minute),
				Result: domain.LoginFailure,
			})
		}
		attempts = append(attempts, domain.LoginAttempt{
			User: user, Role: "Admin", Department: "IT",
			SourceIP: "198.51.100.7", Country: "Autre",
			Time:   base.Add(20 * time.Minute),
			Result: domain.LoginSuccess,
		})
	}

	predictor := NewPredictor(testAnalysisConfig(), nil)
	result, err := predictor.ScoreUsers(attempts)
	require.NoError(t, err)
	require.Len(t, result.Risks, 24)

	// compromised accounts must outrank the clean population
	top := result.Risks[0]
	assert.Contains(t, top.User, "victim")
	assert.Greater(t, top.RiskScore, result.Risks[len(result.Risks)-1].RiskScore)

	for i := 1; i < len(result.Risks); i++ {
		assert.GreaterOrEqual(t, result.Risks[i-1].RiskScore, result.Risks[i].RiskScore)
	}
}

func TestScoreUsersEmpty(t *testing.T) {
	predictor := NewPredictor(testAnalysisConfig(), nil)
	_, err := predictor.ScoreUsers(nil)
	assert.Error(t, err)
}
