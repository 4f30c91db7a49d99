package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainLogisticSeparable(t *testing.T) {
	features, labels := separableData(80, 11)

	model, err := TrainLogistic(features, labels, DefaultLogisticConfig())
	require.NoError(t, err)

	assert.Equal(t, 0, model.Predict([]float64{0.5, 0}))
	assert.Equal(t, 1, model.Predict([]float64{5.5, 0}))
}

func TestTrainLogisticImbalanced(t *testing.T) {
	// 2 positives among 20: balanced weighting must keep the minority
	// class reachable instead of collapsing to all-negative.
	features := make([][]float64, 0, 20)
	labels := make([]int, 0, 20)
	for i := 0; i < 18; i++ {
		features = append(features, []float64{float64(i % 3)})
		labels = append(labels, 0)
	}
	features = append(features, []float64{20}, []float64{21})
	labels = append(labels, 1, 1)

	model, err := TrainLogistic(features, labels, DefaultLogisticConfig())
	require.NoError(t, err)

	assert.Equal(t, 1, model.Predict([]float64{20.5}))
	assert.Equal(t, 0, model.Predict([]float64{1}))
}

func TestTrainLogisticSingleClass(t *testing.T) {
	features := [][]float64{{1}, {2}}
	labels := []int{0, 0}

	_, err := TrainLogistic(features, labels, DefaultLogisticConfig())
	assert.Error(t, err)
}

func TestTrainLogisticEmpty(t *testing.T) {
	_, err := TrainLogistic(nil, nil, DefaultLogisticConfig())
	assert.Error(t, err)
}
