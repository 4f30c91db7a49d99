package risk

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// LogisticConfig drives logistic regression training.
type LogisticConfig struct {
	LearningRate float64
	Iterations   int
	Balanced     bool
}

// DefaultLogisticConfig uses class-balanced weighting, which matters here
// because compromised users are a small minority of the population.
func DefaultLogisticConfig() LogisticConfig {
	return LogisticConfig{LearningRate: 0.1, Iterations: 2000, Balanced: true}
}

// Logistic is a binary logistic regression model. Inputs are standardized
// at fit time using the training distribution.
type Logistic struct {
	weights []float64
	bias    float64
	means   []float64
	stds    []float64
}

// TrainLogistic fits the model with full-batch gradient descent. With
// Balanced set, each class's gradient contribution is reweighted inversely
// to its frequency.
func TrainLogistic(features [][]float64, labels []int, cfg LogisticConfig) (*Logistic, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("train logistic: empty dataset")
	}
	if len(features) != len(labels) {
		return nil, fmt.Errorf("train logistic: %d feature rows but %d labels", len(features), len(labels))
	}

	dims := len(features[0])
	model := &Logistic{
		weights: make([]float64, dims),
		means:   make([]float64, dims),
		stds:    make([]float64, dims),
	}

	col := make([]float64, len(features))
	for j := 0; j < dims; j++ {
		for i, row := range features {
			col[i] = row[j]
		}
		mean, variance := stat.PopMeanVariance(col, nil)
		model.means[j] = mean
		if variance > 0 {
			model.stds[j] = math.Sqrt(variance)
		} else {
			model.stds[j] = 1
		}
	}

	scaled := make([][]float64, len(features))
	for i, row := range features {
		scaled[i] = model.scale(row)
	}

	posWeight, negWeight := 1.0, 1.0
	if cfg.Balanced {
		positives := 0
		for _, y := range labels {
			positives += y
		}
		if positives == 0 || positives == len(labels) {
			return nil, fmt.Errorf("train logistic: single-class dataset (%d/%d positive)", positives, len(labels))
		}
		n := float64(len(labels))
		posWeight = n / (2 * float64(positives))
		negWeight = n / (2 * float64(len(labels)-positives))
	}

	grad := make([]float64, dims)
	for iter := 0; iter < cfg.Iterations; iter++ {
		for j := range grad {
			grad[j] = 0
		}
		gradBias := 0.0
		for i, row := range scaled {
			p := sigmoid(dot(model.weights, row) + model.bias)
			residual := p - float64(labels[i])
			if labels[i] == 1 {
				residual *= posWeight
			} else {
				residual *= negWeight
			}
			for j, x := range row {
				grad[j] += residual * x
			}
			gradBias += residual
		}
		n := float64(len(scaled))
		for j := range model.weights {
			model.weights[j] -= cfg.LearningRate * grad[j] / n
		}
		model.bias -= cfg.LearningRate * gradBias / n
	}
	return model, nil
}

// PredictProba returns the probability of the positive class for one row.
func (m *Logistic) PredictProba(row []float64) float64 {
	return sigmoid(dot(m.weights, m.scale(row)) + m.bias)
}

// Predict applies a 0.5 threshold to PredictProba.
func (m *Logistic) Predict(row []float64) int {
	if m.PredictProba(row) >= 0.5 {
		return 1
	}
	return 0
}

func (m *Logistic) scale(row []float64) []float64 {
	scaled := make([]float64, len(row))
	for j, x := range row {
		scaled[j] = (x - m.means[j]) / m.stds[j]
	}
	return scaled
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
