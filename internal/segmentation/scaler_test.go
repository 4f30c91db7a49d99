package segmentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardScalerFitTransform(t *testing.T) {
	data := [][]float64{
		{1, 100},
		{2, 200},
		{3, 300},
	}

	var s StandardScaler
	scaled, err := s.FitTransform(data)
	require.NoError(t, err)

	// Column means become 0, population std becomes 1.
	for j := 0; j < 2; j++ {
		sum, sumSq := 0.0, 0.0
		for i := range scaled {
			sum += scaled[i][j]
			sumSq += scaled[i][j] * scaled[i][j]
		}
		assert.InDelta(t, 0, sum/3, 1e-9)
		assert.InDelta(t, 1, sumSq/3, 1e-9)
	}

	assert.InDelta(t, 2, s.Means[0], 1e-9)
	assert.InDelta(t, 200, s.Means[1], 1e-9)
}

func TestStandardScalerConstantColumn(t *testing.T) {
	data := [][]float64{{5, 1}, {5, 2}, {5, 3}}

	var s StandardScaler
	scaled, err := s.FitTransform(data)
	require.NoError(t, err)

	// Constant column is centered but not exploded by a zero std.
	for i := range scaled {
		assert.InDelta(t, 0, scaled[i][0], 1e-9)
	}
}

func TestStandardScalerErrors(t *testing.T) {
	var s StandardScaler
	_, err := s.FitTransform(nil)
	assert.Error(t, err)

	_, err = s.Transform([][]float64{{1}})
	assert.Error(t, err, "transform before fit")

	require.NoError(t, s.Fit([][]float64{{1, 2}, {3, 4}}))
	_, err = s.Transform([][]float64{{1}})
	assert.Error(t, err, "column mismatch")
}

func TestPCAProjectRecoversSpread(t *testing.T) {
	// Points along the line y=x: the first component should carry all the
	// variance and the second should be ~0.
	data := [][]float64{{-2, -2}, {-1, -1}, {0, 0}, {1, 1}, {2, 2}}

	scores, err := PCAProject(data, 2)
	require.NoError(t, err)
	require.Len(t, scores, 5)

	for _, s := range scores {
		assert.InDelta(t, 0, s[1], 1e-9)
	}
	// The centered projection is symmetric around zero.
	assert.InDelta(t, 0, scores[2][0], 1e-9)
	assert.InDelta(t, -scores[0][0], scores[4][0], 1e-9)
}

func TestPCAProjectErrors(t *testing.T) {
	_, err := PCAProject(nil, 2)
	assert.Error(t, err)

	_, err = PCAProject([][]float64{{1, 2}}, 3)
	assert.Error(t, err)
}
