package risk

import (
	"sort"
	"time"

	"cyberlens/pkg/contracts/domain"
)

// PanelRow is one company-month observation. Lag features look one month
// back; the label marks whether the company suffered an incident in the
// month itself.
type PanelRow struct {
	Company          string
	Month            time.Time
	LagIncidents     int
	LagImpact        float64
	LagDowntime      float64
	MonthsSinceFirst int
	HadIncident      bool
}

// BuildCompanyPanel expands incident history into a dense company-month
// panel over the observed date range. Every company gets a row for every
// month, so quiet months become negative examples instead of silently
// disappearing.
func BuildCompanyPanel(incidents []domain.Incident) []PanelRow {
	if len(incidents) == 0 {
		return nil
	}

	type monthStats struct {
		count    int
		impact   float64
		downtime float64
	}
	byCompany := make(map[string]map[time.Time]*monthStats)
	var first, last time.Time
	for _, inc := range incidents {
		m := inc.Month()
		if first.IsZero() || m.Before(first) {
			first = m
		}
		if m.After(last) {
			last = m
		}
		months, ok := byCompany[inc.Company]
		if !ok {
			months = make(map[time.Time]*monthStats)
			byCompany[inc.Company] = months
		}
		s, ok := months[m]
		if !ok {
			s = &monthStats{}
			months[m] = s
		}
		s.count++
		if inc.HasImpact() {
			s.impact += inc.Impact
		}
		if inc.HasDowntime() {
			s.downtime += inc.DowntimeHours
		}
	}

	companies := make([]string, 0, len(byCompany))
	for c := range byCompany {
		companies = append(companies, c)
	}
	sort.Strings(companies)

	var rows []PanelRow
	for _, company := range companies {
		months := byCompany[company]
		idx := 0
		for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
			row := PanelRow{Company: company, Month: m, MonthsSinceFirst: idx}
			if prev, ok := months[m.AddDate(0, -1, 0)]; ok {
				row.LagIncidents = prev.count
				row.LagImpact = prev.impact
				row.LagDowntime = prev.downtime
			}
			if cur, ok := months[m]; ok && cur.count > 0 {
				row.HadIncident = true
			}
			rows = append(rows, row)
			idx++
		}
	}
	return rows
}

// PanelMatrix converts the panel into a feature matrix and label vector
// ready for model training.
func PanelMatrix(rows []PanelRow) (features [][]float64, labels []int) {
	features = make([][]float64, len(rows))
	labels = make([]int, len(rows))
	for i, r := range rows {
		features[i] = []float64{
			float64(r.LagIncidents),
			r.LagImpact,
			r.LagDowntime,
			float64(r.MonthsSinceFirst),
		}
		if r.HadIncident {
			labels[i] = 1
		}
	}
	return features, labels
}
