package segmentation

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// PCAProject projects rows onto their first n principal components using the
// thin SVD of the column-centered matrix. Returns one score row per input
// row. Component signs follow the SVD and carry no meaning.
func PCAProject(data [][]float64, components int) ([][]float64, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot project empty data")
	}
	rows, cols := len(data), len(data[0])
	if components < 1 || components > cols {
		return nil, fmt.Errorf("components must be in [1,%d], got %d", cols, components)
	}

	// Center columns.
	means := make([]float64, cols)
	for _, row := range data {
		if len(row) != cols {
			return nil, fmt.Errorf("ragged data")
		}
		for j, v := range row {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= float64(rows)
	}

	m := mat.NewDense(rows, cols, nil)
	for i, row := range data {
		for j, v := range row {
			m.Set(i, j, v-means[j])
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(m, mat.SVDThin); !ok {
		return nil, fmt.Errorf("svd factorization failed")
	}

	var u mat.Dense
	svd.UTo(&u)
	values := svd.Values(nil)

	available := len(values)
	if components > available {
		components = available
	}

	scores := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		score := make([]float64, components)
		for j := 0; j < components; j++ {
			score[j] = u.At(i, j) * values[j]
		}
		scores[i] = score
	}
	return scores, nil
}
