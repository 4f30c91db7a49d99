package domain

import (
	"math"
	"time"
)

// Incident represents a single reported security incident for a company.
// Impact and DowntimeHours use NaN to mark values that were missing or
// rejected during cleaning, mirroring the null semantics of the source data.
type Incident struct {
	Company         string    `json:"company" validate:"required"`
	Sector          string    `json:"sector"`
	CompanySize     int       `json:"company_size" validate:"min=0"`
	AttackType      string    `json:"attack_type"`
	Date            time.Time `json:"date" validate:"required"`
	Vector          string    `json:"vector"`
	Impact          float64   `json:"impact"`           // financial impact in MGA
	DowntimeHours   float64   `json:"downtime_hours"`
	DataCompromised bool      `json:"data_compromised"`
	Campaign        string    `json:"campaign,omitempty"` // security campaign active at the time, if any
}

// HasImpact reports whether the financial impact is known.
func (i Incident) HasImpact() bool {
	return !math.IsNaN(i.Impact)
}

// HasDowntime reports whether the downtime figure is known.
func (i Incident) HasDowntime() bool {
	return !math.IsNaN(i.DowntimeHours)
}

// Month returns the incident's calendar month truncated to the first day, UTC.
func (i Incident) Month() time.Time {
	return time.Date(i.Date.Year(), i.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Quarter returns the first day of the incident's calendar quarter, UTC.
func (i Incident) Quarter() time.Time {
	q := (int(i.Date.Month()) - 1) / 3
	return time.Date(i.Date.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, time.UTC)
}
