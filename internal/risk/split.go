package risk

import (
	"math/rand"
)

// StratifiedSplit partitions indices into train and test sets keeping the
// class balance of each side close to the population's. testFraction is
// clamped so each class keeps at least one training example when possible.
func StratifiedSplit(labels []int, testFraction float64, seed int64) (train, test []int) {
	rng := rand.New(rand.NewSource(seed))

	byClass := make(map[int][]int)
	for i, y := range labels {
		byClass[y] = append(byClass[y], i)
	}

	for _, class := range []int{0, 1} {
		indices, ok := byClass[class]
		if !ok {
			continue
		}
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
		nTest := int(float64(len(indices)) * testFraction)
		if nTest >= len(indices) && len(indices) > 1 {
			nTest = len(indices) - 1
		}
		test = append(test, indices[:nTest]...)
		train = append(train, indices[nTest:]...)
	}
	return train, test
}

func subset(features [][]float64, labels []int, indices []int) ([][]float64, []int) {
	f := make([][]float64, len(indices))
	l := make([]int, len(indices))
	for i, idx := range indices {
		f[i] = features[idx]
		l[i] = labels[idx]
	}
	return f, l
}
