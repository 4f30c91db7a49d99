package dataprocessing

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"cyberlens/pkg/contracts/domain"
)

// ColumnStats holds descriptive statistics for one numeric column, matching
// the describe() block analysts expect: count, mean, sample std, min,
// quartiles and max. NaN inputs are excluded from every statistic.
type ColumnStats struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// ValueCount is one value/frequency pair from a categorical column.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// DatasetSummary is the exploration output for the two security datasets.
type DatasetSummary struct {
	IncidentStats     []ColumnStats `json:"incident_stats"`
	ResultCounts      []ValueCount  `json:"result_counts"`
	GlobalFailureRate float64       `json:"global_failure_rate"`
	IncidentRows      int           `json:"incident_rows"`
	LoginRows         int           `json:"login_rows"`
}

// Summarizer computes exploration summaries over cleaned data.
type Summarizer struct {
	logger *slog.Logger
}

// NewSummarizer creates a summarizer.
func NewSummarizer(logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{logger: logger.With(slog.String("component", "summarizer"))}
}

// Summarize produces the dataset summary for cleaned incidents and logins.
func (s *Summarizer) Summarize(incidents []domain.Incident, logins []domain.LoginAttempt) DatasetSummary {
	impact := make([]float64, 0, len(incidents))
	downtime := make([]float64, 0, len(incidents))
	size := make([]float64, 0, len(incidents))
	for _, inc := range incidents {
		impact = append(impact, inc.Impact)
		downtime = append(downtime, inc.DowntimeHours)
		size = append(size, float64(inc.CompanySize))
	}

	summary := DatasetSummary{
		IncidentStats: []ColumnStats{
			Describe("ImpactAriary", impact),
			Describe("IndispoHeures", downtime),
			Describe("Taille", size),
		},
		ResultCounts:      CountResults(logins),
		GlobalFailureRate: GlobalFailureRate(logins),
		IncidentRows:      len(incidents),
		LoginRows:         len(logins),
	}

	s.logger.Info("dataset summarized",
		slog.Int("incidents", summary.IncidentRows),
		slog.Int("logins", summary.LoginRows),
		slog.Float64("failure_rate", summary.GlobalFailureRate))

	return summary
}

// Describe computes descriptive statistics for a numeric column. NaN values
// are treated as missing and excluded.
func Describe(column string, values []float64) ColumnStats {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}

	cs := ColumnStats{Column: column, Count: len(valid)}
	if len(valid) == 0 {
		cs.Mean, cs.Std, cs.Min, cs.Q25, cs.Median, cs.Q75, cs.Max =
			math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN()
		return cs
	}

	sort.Float64s(valid)
	cs.Mean = stat.Mean(valid, nil)
	if len(valid) > 1 {
		cs.Std = stat.StdDev(valid, nil)
	}
	cs.Min = valid[0]
	cs.Max = valid[len(valid)-1]
	cs.Q25 = quantile(valid, 0.25)
	cs.Median = quantile(valid, 0.5)
	cs.Q75 = quantile(valid, 0.75)
	return cs
}

// quantile computes the p-quantile of a sorted slice with linear
// interpolation between the floor and ceil ranks at h = (n-1)p, the rule
// numpy and pandas use by default.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

// CountResults tallies login outcomes, most frequent first.
func CountResults(logins []domain.LoginAttempt) []ValueCount {
	counts := make(map[string]int)
	for _, l := range logins {
		counts[string(l.Result)]++
	}

	out := make([]ValueCount, 0, len(counts))
	for value, count := range counts {
		out = append(out, ValueCount{Value: value, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// GlobalFailureRate is the share of failed attempts over all attempts,
// counting unknown results in the denominator. Returns 0 for no data.
func GlobalFailureRate(logins []domain.LoginAttempt) float64 {
	if len(logins) == 0 {
		return 0
	}
	failures := 0
	for _, l := range logins {
		if l.Failed() {
			failures++
		}
	}
	return float64(failures) / float64(len(logins))
}
