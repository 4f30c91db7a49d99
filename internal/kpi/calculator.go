package kpi

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"cyberlens/pkg/contracts/domain"
)

// Filter narrows the data considered by the calculator. Zero-value fields
// mean "no restriction".
type Filter struct {
	Sector      string
	AttackTypes []string
	Roles       []string
	From        time.Time
	To          time.Time
}

func (f Filter) matchIncident(inc domain.Incident) bool {
	if f.Sector != "" && inc.Sector != f.Sector {
		return false
	}
	if len(f.AttackTypes) > 0 && !contains(f.AttackTypes, inc.AttackType) {
		return false
	}
	if !f.From.IsZero() && inc.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && inc.Date.After(f.To) {
		return false
	}
	return true
}

func (f Filter) matchLogin(att domain.LoginAttempt) bool {
	if len(f.Roles) > 0 && !contains(f.Roles, att.Role) {
		return false
	}
	if !f.From.IsZero() && att.Time.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && att.Time.After(f.To) {
		return false
	}
	return true
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// Calculator computes the security KPI series and summaries.
type Calculator struct {
	logger *slog.Logger
}

func NewCalculator(logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{logger: logger.With(slog.String("component", "kpi"))}
}

// MonthlyIncidents counts incidents per calendar month. Months inside the
// observed range with no incidents are emitted with a zero count so the
// series has no gaps.
func (c *Calculator) MonthlyIncidents(incidents []domain.Incident, filter Filter) []domain.MonthlyCount {
	counts := make(map[time.Time]int)
	for _, inc := range incidents {
		if !filter.matchIncident(inc) {
			continue
		}
		counts[inc.Month()]++
	}
	if len(counts) == 0 {
		return nil
	}

	first, last := monthRange(counts)
	out := make([]domain.MonthlyCount, 0, len(counts))
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		out = append(out, domain.MonthlyCount{Month: m, Count: counts[m]})
	}
	return out
}

// QuarterlyImpact sums the known financial impact per calendar quarter.
// Incidents with an unknown impact contribute nothing.
func (c *Calculator) QuarterlyImpact(incidents []domain.Incident, filter Filter) []domain.QuarterlyImpact {
	totals := make(map[time.Time]float64)
	for _, inc := range incidents {
		if !filter.matchIncident(inc) || !inc.HasImpact() {
			continue
		}
		totals[inc.Quarter()] += inc.Impact
	}

	quarters := make([]time.Time, 0, len(totals))
	for q := range totals {
		quarters = append(quarters, q)
	}
	sort.Slice(quarters, func(i, j int) bool { return quarters[i].Before(quarters[j]) })

	out := make([]domain.QuarterlyImpact, 0, len(quarters))
	for _, q := range quarters {
		out = append(out, domain.QuarterlyImpact{Quarter: q, Impact: totals[q]})
	}
	return out
}

// MonthlyFailureRate computes the login failure rate per calendar month.
// Attempts with an unknown result count toward the total but not the
// failures, matching the source data's treatment of unparseable labels.
func (c *Calculator) MonthlyFailureRate(attempts []domain.LoginAttempt, filter Filter) []domain.MonthlyRate {
	type bucket struct {
		failures int
		total    int
	}
	buckets := make(map[time.Time]*bucket)
	for _, att := range attempts {
		if !filter.matchLogin(att) {
			continue
		}
		b, ok := buckets[att.Month()]
		if !ok {
			b = &bucket{}
			buckets[att.Month()] = b
		}
		b.total++
		if att.Failed() {
			b.failures++
		}
	}

	months := make([]time.Time, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	out := make([]domain.MonthlyRate, 0, len(months))
	for _, m := range months {
		b := buckets[m]
		out = append(out, domain.MonthlyRate{
			Month: m,
			Rate:  float64(b.failures) / float64(b.total),
			Total: b.total,
		})
	}
	return out
}

// ComparePeriods contrasts the login failure rate strictly before the cutoff
// with the rate on and after it. A period with no attempts is an error
// rather than a zero rate, because a zero would read as an improvement.
func (c *Calculator) ComparePeriods(attempts []domain.LoginAttempt, cutoff time.Time, filter Filter) (domain.PeriodComparison, error) {
	var before, after struct {
		failures int
		total    int
	}
	for _, att := range attempts {
		if !filter.matchLogin(att) {
			continue
		}
		if att.Time.Before(cutoff) {
			before.total++
			if att.Failed() {
				before.failures++
			}
		} else {
			after.total++
			if att.Failed() {
				after.failures++
			}
		}
	}

	if before.total == 0 || after.total == 0 {
		return domain.PeriodComparison{}, fmt.Errorf("period comparison at %s: before=%d after=%d attempts, both periods need data",
			cutoff.Format("2006-01-02"), before.total, after.total)
	}

	beforeRate := float64(before.failures) / float64(before.total)
	afterRate := float64(after.failures) / float64(after.total)
	improvement := beforeRate - afterRate

	comparison := domain.PeriodComparison{
		Metric: "login_failure_rate",
		Cutoff: cutoff,
		Before: domain.PeriodStats{Rate: beforeRate, Count: before.total},
		After:  domain.PeriodStats{Rate: afterRate, Count: after.total},
		Improvement: improvement,
	}
	if beforeRate > 0 {
		comparison.ImprovementPct = improvement / beforeRate * 100
	}

	c.logger.Info("compared periods",
		slog.Time("cutoff", cutoff),
		slog.Float64("before_rate", beforeRate),
		slog.Float64("after_rate", afterRate))
	return comparison, nil
}

// ExecutiveSummary assembles the headline numbers for the whole observed
// period after filtering.
func (c *Calculator) ExecutiveSummary(incidents []domain.Incident, attempts []domain.LoginAttempt, filter Filter) (domain.ExecutiveSummary, error) {
	var summary domain.ExecutiveSummary

	sectorCounts := make(map[string]int)
	observedMonths := make(map[time.Time]struct{})
	for _, inc := range incidents {
		if !filter.matchIncident(inc) {
			continue
		}
		summary.IncidentCount++
		observedMonths[inc.Month()] = struct{}{}
		if inc.HasImpact() {
			summary.TotalImpact += inc.Impact
		}
		sectorCounts[inc.Sector]++
		if summary.PeriodStart.IsZero() || inc.Date.Before(summary.PeriodStart) {
			summary.PeriodStart = inc.Date
		}
		if inc.Date.After(summary.PeriodEnd) {
			summary.PeriodEnd = inc.Date
		}
	}
	if summary.IncidentCount == 0 {
		return summary, fmt.Errorf("no incidents in the selected period")
	}
	// Average over months that actually saw incidents, not the zero-filled
	// calendar series. A quiet gap month must not deflate the average.
	months := len(observedMonths)
	if months < 1 {
		months = 1
	}
	summary.AvgMonthlyIncidents = float64(summary.IncidentCount) / float64(months)
	summary.TopSector = topKey(sectorCounts)

	users := make(map[string]struct{})
	ips := make(map[string]struct{})
	failures := 0
	for _, att := range attempts {
		if !filter.matchLogin(att) {
			continue
		}
		summary.LoginAttempts++
		if att.Failed() {
			failures++
		}
		users[att.User] = struct{}{}
		if att.SourceIP != "" {
			ips[att.SourceIP] = struct{}{}
		}
		if att.Time.Before(summary.PeriodStart) {
			summary.PeriodStart = att.Time
		}
		if att.Time.After(summary.PeriodEnd) {
			summary.PeriodEnd = att.Time
		}
	}
	if summary.LoginAttempts > 0 {
		summary.LoginFailureRate = float64(failures) / float64(summary.LoginAttempts)
	}
	summary.UniqueUsers = len(users)
	summary.UniqueIPs = len(ips)

	return summary, nil
}

func topKey(counts map[string]int) string {
	best := ""
	bestCount := -1
	for k, c := range counts {
		if c > bestCount || (c == bestCount && k < best) {
			best, bestCount = k, c
		}
	}
	return best
}

func monthRange(counts map[time.Time]int) (first, last time.Time) {
	for m := range counts {
		if first.IsZero() || m.Before(first) {
			first = m
		}
		if m.After(last) {
			last = m
		}
	}
	return first, last
}
