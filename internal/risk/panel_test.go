package risk

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberlens/pkg/contracts/domain"
)

func TestBuildCompanyPanel(t *testing.T) {
	incidents := []domain.Incident{
		{Company: "Alpha", Date: time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), Impact: 1000, DowntimeHours: 4},
		{Company: "Alpha", Date: time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC), Impact: math.NaN(), DowntimeHours: 2},
		{Company: "Beta", Date: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), Impact: 500, DowntimeHours: math.NaN()},
	}

	panel := BuildCompanyPanel(incidents)
	// two companies, three months each (Jan through Mar)
	require.Len(t, panel, 6)

	// rows are grouped by company, months ascending
	alphaJan := panel[0]
	assert.Equal(t, "Alpha", alphaJan.Company)
	assert.True(t, alphaJan.HadIncident)
	assert.Equal(t, 0, alphaJan.LagIncidents)

	alphaFeb := panel[1]
	assert.False(t, alphaFeb.HadIncident)
	assert.Equal(t, 2, alphaFeb.LagIncidents)
	assert.InDelta(t, 1000, alphaFeb.LagImpact, 1e-9) // NaN impact excluded
	assert.InDelta(t, 6, alphaFeb.LagDowntime, 1e-9)

	alphaMar := panel[2]
	assert.Equal(t, 0, alphaMar.LagIncidents)
	assert.Equal(t, 2, alphaMar.MonthsSinceFirst)

	betaMar := panel[5]
	assert.Equal(t, "Beta", betaMar.Company)
	assert.True(t, betaMar.HadIncident)
}

func TestBuildCompanyPanelEmpty(t *testing.T) {
	assert.Nil(t, BuildCompanyPanel(nil))
}

func TestPanelMatrix(t *testing.T) {
	rows := []PanelRow{
		{LagIncidents: 2, LagImpact: 1000, LagDowntime: 6, MonthsSinceFirst: 1, HadIncident: true},
		{LagIncidents: 0, MonthsSinceFirst: 2},
	}

	features, labels := PanelMatrix(rows)
	require.Len(t, features, 2)
	assert.Equal(t, []float64{2, 1000, 6, 1}, features[0])
	assert.Equal(t, []int{1, 0}, labels)
}
