package domain

import (
	"time"
)

// MonthlyCount is one calendar-month bucket of incident volume.
type MonthlyCount struct {
	Month time.Time `json:"month"`
	Count int       `json:"count"`
}

// QuarterlyImpact is the total financial impact for one calendar quarter.
type QuarterlyImpact struct {
	Quarter time.Time `json:"quarter"`
	Impact  float64   `json:"impact"`
}

// MonthlyRate is a per-month ratio series point (e.g. login failure rate).
type MonthlyRate struct {
	Month time.Time `json:"month"`
	Rate  float64   `json:"rate"`
	Total int       `json:"total"`
}

// PeriodStats summarizes one side of a before/after comparison.
type PeriodStats struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// PeriodComparison compares the login failure rate before and after a cutoff,
// typically the start date of a security campaign.
type PeriodComparison struct {
	Metric         string      `json:"metric"`
	Cutoff         time.Time   `json:"cutoff_date"`
	Before         PeriodStats `json:"before_period"`
	After          PeriodStats `json:"after_period"`
	Improvement    float64     `json:"improvement"`
	ImprovementPct float64     `json:"improvement_pct"`
}

// ExecutiveSummary is the headline KPI block for the reporting period.
type ExecutiveSummary struct {
	PeriodStart        time.Time `json:"period_start"`
	PeriodEnd          time.Time `json:"period_end"`
	IncidentCount      int       `json:"incident_count"`
	TotalImpact        float64   `json:"total_impact"`
	AvgMonthlyIncidents float64  `json:"avg_monthly_incidents"`
	TopSector          string    `json:"top_sector"`
	LoginAttempts      int       `json:"login_attempts"`
	LoginFailureRate   float64   `json:"login_failure_rate"`
	UniqueUsers        int       `json:"unique_users"`
	UniqueIPs          int       `json:"unique_ips"`
}
