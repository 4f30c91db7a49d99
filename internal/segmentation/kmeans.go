package segmentation

import (
	"fmt"
	"math"
	"math/rand"
)

// KMeans clusters rows into K groups using Lloyd's algorithm with k-means++
// seeding. Restarts runs the whole fit several times from different seedings
// and keeps the assignment with the lowest inertia.
type KMeans struct {
	K        int
	Restarts int
	MaxIter  int
	Seed     int64
}

// NewKMeans returns a clusterer with the usual defaults: 10 restarts and a
// 300-iteration cap per run.
func NewKMeans(k int, seed int64) *KMeans {
	return &KMeans{K: k, Restarts: 10, MaxIter: 300, Seed: seed}
}

// FitResult carries the outcome of a clustering run.
type FitResult struct {
	Labels    []int
	Centroids [][]float64
	Inertia   float64
}

// Fit clusters the data. When there are fewer rows than clusters every row
// gets its own cluster.
func (km *KMeans) Fit(data [][]float64) (*FitResult, error) {
	if km.K < 1 {
		return nil, fmt.Errorf("k must be positive, got %d", km.K)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot cluster empty data")
	}

	if len(data) <= km.K {
		labels := make([]int, len(data))
		centroids := make([][]float64, len(data))
		for i, row := range data {
			labels[i] = i
			centroids[i] = append([]float64(nil), row...)
		}
		return &FitResult{Labels: labels, Centroids: centroids}, nil
	}

	restarts := km.Restarts
	if restarts < 1 {
		restarts = 1
	}
	maxIter := km.MaxIter
	if maxIter < 1 {
		maxIter = 300
	}

	rng := rand.New(rand.NewSource(km.Seed))

	var best *FitResult
	for r := 0; r < restarts; r++ {
		result := km.run(data, rng, maxIter)
		if best == nil || result.Inertia < best.Inertia {
			best = result
		}
	}
	return best, nil
}

func (km *KMeans) run(data [][]float64, rng *rand.Rand, maxIter int) *FitResult {
	centroids := km.seedPlusPlus(data, rng)
	labels := make([]int, len(data))

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, row := range data {
			nearest := nearestCentroid(row, centroids)
			if nearest != labels[i] {
				labels[i] = nearest
				changed = true
			}
		}

		// Recompute centroids; empty clusters keep their previous position.
		counts := make([]int, km.K)
		sums := make([][]float64, km.K)
		for c := range sums {
			sums[c] = make([]float64, len(data[0]))
		}
		for i, row := range data {
			c := labels[i]
			counts[c]++
			for j, v := range row {
				sums[c][j] += v
			}
		}
		for c := 0; c < km.K; c++ {
			if counts[c] == 0 {
				continue
			}
			for j := range sums[c] {
				centroids[c][j] = sums[c][j] / float64(counts[c])
			}
		}

		if !changed && iter > 0 {
			break
		}
	}

	inertia := 0.0
	for i, row := range data {
		inertia += squaredDistance(row, centroids[labels[i]])
	}
	return &FitResult{Labels: labels, Centroids: centroids, Inertia: inertia}
}

// seedPlusPlus picks initial centroids with the k-means++ scheme: the first
// uniformly, the rest proportional to squared distance from the closest
// chosen centroid.
func (km *KMeans) seedPlusPlus(data [][]float64, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, km.K)
	first := data[rng.Intn(len(data))]
	centroids = append(centroids, append([]float64(nil), first...))

	dists := make([]float64, len(data))
	for len(centroids) < km.K {
		total := 0.0
		for i, row := range data {
			d := math.Inf(1)
			for _, c := range centroids {
				if sd := squaredDistance(row, c); sd < d {
					d = sd
				}
			}
			dists[i] = d
			total += d
		}

		if total == 0 {
			// All remaining points coincide with a centroid; pick uniformly.
			next := data[rng.Intn(len(data))]
			centroids = append(centroids, append([]float64(nil), next...))
			continue
		}

		target := rng.Float64() * total
		cumulative := 0.0
		chosen := len(data) - 1
		for i, d := range dists {
			cumulative += d
			if cumulative >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, append([]float64(nil), data[chosen]...))
	}
	return centroids
}

func nearestCentroid(row []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := squaredDistance(row, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func squaredDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
