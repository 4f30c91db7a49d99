package segmentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoBlobs returns well-separated 2-D points: 4 near the origin and 4 near (10,10).
func twoBlobs() [][]float64 {
	return [][]float64{
		{0, 0}, {0.5, 0.2}, {0.1, 0.6}, {0.4, 0.4},
		{10, 10}, {10.5, 10.2}, {10.1, 9.8}, {9.7, 10.3},
	}
}

func TestKMeansSeparatesBlobs(t *testing.T) {
	km := NewKMeans(2, 42)
	fit, err := km.Fit(twoBlobs())
	require.NoError(t, err)
	require.Len(t, fit.Labels, 8)

	// All points in each blob share a label, and the blobs differ.
	first := fit.Labels[0]
	for i := 1; i < 4; i++ {
		assert.Equal(t, first, fit.Labels[i])
	}
	second := fit.Labels[4]
	for i := 5; i < 8; i++ {
		assert.Equal(t, second, fit.Labels[i])
	}
	assert.NotEqual(t, first, second)
	assert.Less(t, fit.Inertia, 2.0)
}

func TestKMeansDeterministic(t *testing.T) {
	data := twoBlobs()

	a, err := NewKMeans(2, 42).Fit(data)
	require.NoError(t, err)
	b, err := NewKMeans(2, 42).Fit(data)
	require.NoError(t, err)

	assert.Equal(t, a.Labels, b.Labels)
	assert.InDelta(t, a.Inertia, b.Inertia, 1e-12)
}

func TestKMeansFewerRowsThanClusters(t *testing.T) {
	data := [][]float64{{1, 1}, {2, 2}}
	fit, err := NewKMeans(4, 42).Fit(data)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, fit.Labels)
}

func TestKMeansRejectsBadInput(t *testing.T) {
	_, err := NewKMeans(0, 42).Fit(twoBlobs())
	assert.Error(t, err)

	_, err = NewKMeans(2, 42).Fit(nil)
	assert.Error(t, err)
}

func TestKMeansIdenticalPoints(t *testing.T) {
	data := [][]float64{{1, 1}, {1, 1}, {1, 1}, {1, 1}, {1, 1}}
	fit, err := NewKMeans(2, 42).Fit(data)
	require.NoError(t, err)
	assert.InDelta(t, 0, fit.Inertia, 1e-12)
}
