package services

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberlens/internal/config"
	"cyberlens/internal/exporter"
	"cyberlens/pkg/contracts/domain"
)

func testDataService(t *testing.T) (*DataService, *exporter.ReportExporter, *config.Paths) {
	t.Helper()
	paths, err := config.NewPaths(config.PathsConfig{BaseDir: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())
	return NewDataService(paths, nil), exporter.NewReportExporter(paths, nil), paths
}

func TestCompanySegmentsRoundTrip(t *testing.T) {
	svc, reports, _ := testDataService(t)

	written := []domain.CompanySegment{
		{Company: "Alpha", Sector: "Finance", CompanySize: 100, IncidentCount: 3,
			MeanImpact: 1500.5, MeanDowntime: 4.25, AttackTypeCount: 2, Cluster: 1, PC1: 0.1, PC2: -0.2},
	}
	require.NoError(t, reports.WriteCompanySegments(written))

	result := svc.CompanySegments(context.Background())
	assert.Empty(t, result.Warnings)
	require.Len(t, result.Rows, 1)
	got := result.Rows[0]
	assert.Equal(t, "Alpha", got.Company)
	assert.Equal(t, 100, got.CompanySize)
	assert.InDelta(t, 1500.5, got.MeanImpact, 1e-9)
	assert.Equal(t, 1, got.Cluster)
}

func TestReportsMissingFilesAreNotErrors(t *testing.T) {
	svc, _, _ := testDataService(t)
	ctx := context.Background()

	companies := svc.CompanySegments(ctx)
	assert.Empty(t, companies.Rows)
	assert.Contains(t, companies.Warnings, "report not generated yet")

	risks := svc.UserRisks(ctx, 10)
	assert.Empty(t, risks.Rows)
	assert.NotEmpty(t, risks.Warnings)

	summary, warnings := svc.ExecutiveSummary(ctx)
	assert.Zero(t, summary.IncidentCount)
	assert.NotEmpty(t, warnings)
}

func TestUserRisksLimit(t *testing.T) {
	svc, reports, _ := testDataService(t)

	risks := []domain.UserRisk{
		{User: "a", RiskScore: 0.9},
		{User: "b", RiskScore: 0.5},
		{User: "c", RiskScore: 0.1},
	}
	require.NoError(t, reports.WriteUserRisk(risks))

	result := svc.UserRisks(context.Background(), 2)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "a", result.Rows[0].User)
	assert.Equal(t, "b", result.Rows[1].User)
}

func TestMonthlyKPIsSparseCells(t *testing.T) {
	svc, _, paths := testDataService(t)

	content := "Mois,NbIncidents,TauxEchecConnexion,NbConnexions\n2024-01,3,0.25,40\n2024-02,0,,\n"
	require.NoError(t, os.WriteFile(paths.MonthlyKPICSV, []byte(content), 0644))

	result := svc.MonthlyKPIs(context.Background())
	require.Len(t, result.Rows, 2)

	jan := result.Rows[0]
	require.NotNil(t, jan.Incidents)
	assert.Equal(t, 3, *jan.Incidents)
	require.NotNil(t, jan.FailureRate)
	assert.InDelta(t, 0.25, *jan.FailureRate, 1e-9)

	feb := result.Rows[1]
	require.NotNil(t, feb.Incidents)
	assert.Equal(t, 0, *feb.Incidents)
	assert.Nil(t, feb.FailureRate)
}

func TestMalformedRowsAreSkipped(t *testing.T) {
	svc, _, paths := testDataService(t)

	content := "Trimestre,ImpactTotal\n2024-Q1,1000\nshort\n2024-Q2,500\n"
	require.NoError(t, os.WriteFile(paths.QuarterlyKPICSV, []byte(content), 0644))

	result := svc.QuarterlyKPIs(context.Background())
	assert.Len(t, result.Rows, 2)
	assert.Contains(t, result.Warnings[0], "malformed")
}

func TestExecutiveSummaryRoundTrip(t *testing.T) {
	svc, reports, _ := testDataService(t)

	written := domain.ExecutiveSummary{IncidentCount: 7, TopSector: "Telecom"}
	require.NoError(t, reports.WriteExecutiveSummary(written))

	got, warnings := svc.ExecutiveSummary(context.Background())
	assert.Empty(t, warnings)
	assert.Equal(t, 7, got.IncidentCount)
	assert.Equal(t, "Telecom", got.TopSector)
}

func TestExecutiveSummaryCorrupt(t *testing.T) {
	svc, _, paths := testDataService(t)
	require.NoError(t, os.WriteFile(paths.ExecutiveSummaryJSON, []byte("{not json"), 0644))

	summary, warnings := svc.ExecutiveSummary(context.Background())
	assert.Zero(t, summary.IncidentCount)
	require.NotEmpty(t, warnings)
	assert.Contains(t, warnings[0], "corrupt")
}
