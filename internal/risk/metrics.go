package risk

import (
	"sort"
)

// Metrics summarizes binary classifier quality on a held-out split.
type Metrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	AUC       float64 `json:"auc"`
	Positives int     `json:"positives"`
	Samples   int     `json:"samples"`
}

// Evaluate computes classification metrics from predicted probabilities and
// true labels, thresholding at 0.5 for the confusion counts.
func Evaluate(probs []float64, labels []int) Metrics {
	var tp, fp, tn, fn int
	positives := 0
	for i, p := range probs {
		predicted := p >= 0.5
		actual := labels[i] == 1
		if actual {
			positives++
		}
		switch {
		case predicted && actual:
			tp++
		case predicted && !actual:
			fp++
		case !predicted && actual:
			fn++
		default:
			tn++
		}
	}

	m := Metrics{Positives: positives, Samples: len(labels)}
	if len(labels) > 0 {
		m.Accuracy = float64(tp+tn) / float64(len(labels))
	}
	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	m.AUC = rocAUC(probs, labels)
	return m
}

// rocAUC computes the area under the ROC curve with the trapezoidal rule.
// Returns 0 when either class is absent, since the curve is undefined.
func rocAUC(probs []float64, labels []int) float64 {
	type point struct {
		prob  float64
		label int
	}
	points := make([]point, len(probs))
	positives, negatives := 0, 0
	for i := range probs {
		points[i] = point{probs[i], labels[i]}
		if labels[i] == 1 {
			positives++
		} else {
			negatives++
		}
	}
	if positives == 0 || negatives == 0 {
		return 0
	}

	sort.Slice(points, func(i, j int) bool { return points[i].prob > points[j].prob })

	auc := 0.0
	tp, fp := 0, 0
	prevTPR, prevFPR := 0.0, 0.0
	i := 0
	for i < len(points) {
		// advance through ties in one step so tied scores trace a diagonal
		prob := points[i].prob
		for i < len(points) && points[i].prob == prob {
			if points[i].label == 1 {
				tp++
			} else {
				fp++
			}
			i++
		}
		tpr := float64(tp) / float64(positives)
		fpr := float64(fp) / float64(negatives)
		auc += (fpr - prevFPR) * (tpr + prevTPR) / 2
		prevTPR, prevFPR = tpr, fpr
	}
	return auc
}
