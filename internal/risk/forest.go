package risk

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// ForestConfig drives random forest training.
type ForestConfig struct {
	Trees           int
	MaxDepth        int
	MinSamplesSplit int
	Seed            int64
}

// DefaultForestConfig mirrors the defaults used for the incident model.
func DefaultForestConfig(seed int64) ForestConfig {
	return ForestConfig{Trees: 300, MaxDepth: 8, MinSamplesSplit: 4, Seed: seed}
}

// Forest is a bagged ensemble of binary classification trees. Probability
// estimates are the mean of the per-tree leaf frequencies.
type Forest struct {
	trees []*treeNode
}

type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	leaf      bool
	prob      float64
}

// TrainForest fits the ensemble on a binary-labelled dataset. Each tree sees
// a bootstrap resample and a random feature subset at every split.
func TrainForest(features [][]float64, labels []int, cfg ForestConfig) (*Forest, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("train forest: empty dataset")
	}
	if len(features) != len(labels) {
		return nil, fmt.Errorf("train forest: %d feature rows but %d labels", len(features), len(labels))
	}
	if cfg.Trees <= 0 {
		return nil, fmt.Errorf("train forest: tree count %d must be positive", cfg.Trees)
	}

	dims := len(features[0])
	subspace := int(math.Ceil(math.Sqrt(float64(dims))))
	rng := rand.New(rand.NewSource(cfg.Seed))

	forest := &Forest{trees: make([]*treeNode, cfg.Trees)}
	for t := 0; t < cfg.Trees; t++ {
		indices := bootstrap(len(features), rng)
		forest.trees[t] = growTree(features, labels, indices, 0, subspace, cfg, rng)
	}
	return forest, nil
}

// PredictProba returns the probability of the positive class for one row.
func (f *Forest) PredictProba(row []float64) float64 {
	sum := 0.0
	for _, tree := range f.trees {
		sum += tree.predict(row)
	}
	return sum / float64(len(f.trees))
}

// Predict applies a 0.5 threshold to PredictProba.
func (f *Forest) Predict(row []float64) int {
	if f.PredictProba(row) >= 0.5 {
		return 1
	}
	return 0
}

func (n *treeNode) predict(row []float64) float64 {
	for !n.leaf {
		if row[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.prob
}

func bootstrap(n int, rng *rand.Rand) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = rng.Intn(n)
	}
	return indices
}

func growTree(features [][]float64, labels []int, indices []int, depth, subspace int, cfg ForestConfig, rng *rand.Rand) *treeNode {
	positives := 0
	for _, i := range indices {
		positives += labels[i]
	}
	prob := float64(positives) / float64(len(indices))

	if depth >= cfg.MaxDepth || len(indices) < cfg.MinSamplesSplit || positives == 0 || positives == len(indices) {
		return &treeNode{leaf: true, prob: prob}
	}

	feature, threshold, ok := bestSplit(features, labels, indices, subspace, rng)
	if !ok {
		return &treeNode{leaf: true, prob: prob}
	}

	var left, right []int
	for _, i := range indices {
		if features[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &treeNode{leaf: true, prob: prob}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      growTree(features, labels, left, depth+1, subspace, cfg, rng),
		right:     growTree(features, labels, right, depth+1, subspace, cfg, rng),
	}
}

// bestSplit searches a random feature subset for the threshold with lowest
// weighted Gini impurity. Candidate thresholds are midpoints between
// consecutive distinct values.
func bestSplit(features [][]float64, labels []int, indices []int, subspace int, rng *rand.Rand) (int, float64, bool) {
	dims := len(features[0])
	candidates := rng.Perm(dims)
	if subspace < len(candidates) {
		candidates = candidates[:subspace]
	}

	bestGini := math.Inf(1)
	bestFeature, bestThreshold := -1, 0.0

	values := make([]float64, 0, len(indices))
	for _, feature := range candidates {
		values = values[:0]
		for _, i := range indices {
			values = append(values, features[i][feature])
		}
		sort.Float64s(values)

		for v := 1; v < len(values); v++ {
			if values[v] == values[v-1] {
				continue
			}
			threshold := (values[v] + values[v-1]) / 2
			gini := splitGini(features, labels, indices, feature, threshold)
			if gini < bestGini {
				bestGini = gini
				bestFeature = feature
				bestThreshold = threshold
			}
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

func splitGini(features [][]float64, labels []int, indices []int, feature int, threshold float64) float64 {
	var leftN, leftPos, rightN, rightPos int
	for _, i := range indices {
		if features[i][feature] <= threshold {
			leftN++
			leftPos += labels[i]
		} else {
			rightN++
			rightPos += labels[i]
		}
	}
	total := float64(leftN + rightN)
	return float64(leftN)/total*gini(leftPos, leftN) + float64(rightN)/total*gini(rightPos, rightN)
}

func gini(positives, n int) float64 {
	if n == 0 {
		return 0
	}
	p := float64(positives) / float64(n)
	return 2 * p * (1 - p)
}
