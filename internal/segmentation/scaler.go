package segmentation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler centers each feature to zero mean and unit variance
// (population standard deviation). Constant features are left centered only.
type StandardScaler struct {
	Means []float64
	Stds  []float64
}

// FitTransform fits the scaler on data and returns the scaled copy.
func (s *StandardScaler) FitTransform(data [][]float64) ([][]float64, error) {
	if err := s.Fit(data); err != nil {
		return nil, err
	}
	return s.Transform(data)
}

// Fit computes per-column means and standard deviations.
func (s *StandardScaler) Fit(data [][]float64) error {
	if len(data) == 0 {
		return fmt.Errorf("cannot fit scaler on empty data")
	}
	cols := len(data[0])
	s.Means = make([]float64, cols)
	s.Stds = make([]float64, cols)

	column := make([]float64, len(data))
	for j := 0; j < cols; j++ {
		for i, row := range data {
			if len(row) != cols {
				return fmt.Errorf("ragged data: row %d has %d columns, want %d", i, len(row), cols)
			}
			column[i] = row[j]
		}
		mean, variance := stat.PopMeanVariance(column, nil)
		s.Means[j] = mean
		if variance > 0 {
			s.Stds[j] = math.Sqrt(variance)
		} else {
			s.Stds[j] = 1
		}
	}
	return nil
}

// Transform applies the fitted scaling to data.
func (s *StandardScaler) Transform(data [][]float64) ([][]float64, error) {
	if s.Means == nil {
		return nil, fmt.Errorf("scaler not fitted")
	}
	out := make([][]float64, len(data))
	for i, row := range data {
		if len(row) != len(s.Means) {
			return nil, fmt.Errorf("row %d has %d columns, scaler fitted on %d", i, len(row), len(s.Means))
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Means[j]) / s.Stds[j]
		}
		out[i] = scaled
	}
	return out, nil
}
