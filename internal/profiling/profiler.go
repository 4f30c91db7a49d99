package profiling

import (
	"fmt"
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"cyberlens/pkg/contracts/domain"
)

// TopValue is one dominant categorical value within a cluster.
type TopValue struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CompanyClusterProfile characterizes one company cluster.
type CompanyClusterProfile struct {
	Cluster            int        `json:"cluster"`
	Size               int        `json:"size"`
	Share              float64    `json:"share"`
	DominantSectors    []TopValue `json:"dominant_sectors"`
	MedianCompanySize  float64    `json:"median_company_size"`
	MedianIncidentFreq float64    `json:"median_incident_freq"`
	AvgImpact          float64    `json:"avg_impact"`
	AvgDowntime        float64    `json:"avg_downtime"`
	AvgAttackDiversity float64    `json:"avg_attack_diversity"`
}

// UserClusterProfile characterizes one user cluster.
type UserClusterProfile struct {
	Cluster             int        `json:"cluster"`
	Size                int        `json:"size"`
	Share               float64    `json:"share"`
	DominantRoles       []TopValue `json:"dominant_roles"`
	DominantDepartments []TopValue `json:"dominant_departments"`
	MedianFailures      float64    `json:"median_failures"`
	AvgFailureRatio     float64    `json:"avg_failure_ratio"`
	AvgCountries        float64    `json:"avg_countries"`
	AvgIPs              float64    `json:"avg_ips"`
}

// Profiler derives readable cluster characterizations from segment rows.
type Profiler struct {
	logger *slog.Logger
	topN   int
}

// NewProfiler creates a profiler reporting the top 3 categorical values.
func NewProfiler(logger *slog.Logger) *Profiler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Profiler{logger: logger.With(slog.String("component", "profiler")), topN: 3}
}

// ProfileCompanies profiles every cluster present in the segments.
func (p *Profiler) ProfileCompanies(segments []domain.CompanySegment) ([]CompanyClusterProfile, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("no company segments to profile")
	}

	byCluster := make(map[int][]domain.CompanySegment)
	for _, s := range segments {
		byCluster[s.Cluster] = append(byCluster[s.Cluster], s)
	}

	profiles := make([]CompanyClusterProfile, 0, len(byCluster))
	for _, cluster := range sortedKeys(byCluster) {
		members := byCluster[cluster]

		sectors := make([]string, len(members))
		sizes := make([]float64, len(members))
		freqs := make([]float64, len(members))
		impacts := make([]float64, len(members))
		downtimes := make([]float64, len(members))
		diversity := make([]float64, len(members))
		for i, m := range members {
			sectors[i] = m.Sector
			sizes[i] = float64(m.CompanySize)
			freqs[i] = float64(m.IncidentCount)
			impacts[i] = m.MeanImpact
			downtimes[i] = m.MeanDowntime
			diversity[i] = float64(m.AttackTypeCount)
		}

		profiles = append(profiles, CompanyClusterProfile{
			Cluster:            cluster,
			Size:               len(members),
			Share:              float64(len(members)) / float64(len(segments)),
			DominantSectors:    p.topValues(sectors),
			MedianCompanySize:  median(sizes),
			MedianIncidentFreq: median(freqs),
			AvgImpact:          stat.Mean(impacts, nil),
			AvgDowntime:        stat.Mean(downtimes, nil),
			AvgAttackDiversity: stat.Mean(diversity, nil),
		})
	}

	p.logger.Info("profiled company clusters", slog.Int("clusters", len(profiles)))
	return profiles, nil
}

// ProfileUsers profiles every cluster present in the user segments.
func (p *Profiler) ProfileUsers(segments []domain.UserSegment) ([]UserClusterProfile, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("no user segments to profile")
	}

	byCluster := make(map[int][]domain.UserSegment)
	for _, s := range segments {
		byCluster[s.Cluster] = append(byCluster[s.Cluster], s)
	}

	profiles := make([]UserClusterProfile, 0, len(byCluster))
	for _, cluster := range sortedKeys(byCluster) {
		members := byCluster[cluster]

		roles := make([]string, len(members))
		departments := make([]string, len(members))
		failures := make([]float64, len(members))
		ratios := make([]float64, len(members))
		countries := make([]float64, len(members))
		ips := make([]float64, len(members))
		for i, m := range members {
			roles[i] = m.Role
			departments[i] = m.Department
			failures[i] = float64(m.Failures)
			ratios[i] = m.FailureRatio
			countries[i] = float64(m.CountryCount)
			ips[i] = float64(m.IPCount)
		}

		profiles = append(profiles, UserClusterProfile{
			Cluster:             cluster,
			Size:                len(members),
			Share:               float64(len(members)) / float64(len(segments)),
			DominantRoles:       p.topValues(roles),
			DominantDepartments: p.topValues(departments),
			MedianFailures:      median(failures),
			AvgFailureRatio:     stat.Mean(ratios, nil),
			AvgCountries:        stat.Mean(countries, nil),
			AvgIPs:              stat.Mean(ips, nil),
		})
	}

	p.logger.Info("profiled user clusters", slog.Int("clusters", len(profiles)))
	return profiles, nil
}

// topValues tallies values and returns the topN most frequent, ties broken
// alphabetically for stable output.
func (p *Profiler) topValues(values []string) []TopValue {
	counts := make(map[string]int)
	for _, v := range values {
		if v != "" {
			counts[v]++
		}
	}

	out := make([]TopValue, 0, len(counts))
	for v, c := range counts {
		out = append(out, TopValue{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if len(out) > p.topN {
		out = out[:p.topN]
	}
	return out
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.LinInterp, sorted, nil)
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
