package operations

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberlens/internal/config"
	"cyberlens/internal/exporter"
	"cyberlens/pkg/contracts/domain"
)

// writeFixtures fills the raw data directory with a small but realistic
// security dataset: a dozen companies with incident histories and a user
// population containing a few takeover victims.
func writeFixtures(t *testing.T, paths *config.Paths) {
	t.Helper()

	var incidents strings.Builder
	incidents.WriteString("Entreprise,Secteur,Taille,TypeAttaque,Date,Vecteur,ImpactAriary,IndispoHeures,DonneesCompromises,CampagneSécurité\n")
	for c := 0; c < 12; c++ {
		for m := 1; m <= 6; m++ {
			if c%3 == 0 && m%2 == 1 {
				continue
			}
			incidents.WriteString(fmt.Sprintf("Societe%02d,finance,%d,phishing,2024-%02d-15,email,%d,%d,Oui,\n",
				c, 50+c*20, m, 100000*(c+1), 2+c%5))
		}
	}
	require.NoError(t, os.WriteFile(paths.IncidentsCSV, []byte(incidents.String()), 0644))

	var logins strings.Builder
	logins.WriteString("Utilisateur,Role,Departement,DateHeure,IPSource,Localisation,Resultat\n")
	for u := 0; u < 16; u++ {
		for d := 1; d <= 8; d++ {
			logins.WriteString(fmt.Sprintf("user%02d,Employe,Ventes,2024-03-%02d 09:00:00,10.0.0.%d,Madagascar,succès\n",
				u, d, u+1))
		}
	}
	for v := 0; v < 3; v++ {
		for f := 0; f < 6; f++ {
			logins.WriteString(fmt.Sprintf("victim%02d,Admin,IT,2024-03-10 0%d:0%d:00,203.0.113.9,Autre,échec\n",
				v, 3, f))
		}
		logins.WriteString(fmt.Sprintf("victim%02d,Admin,IT,2024-03-10 03:30:00,198.51.100.7,Autre,succès\n", v))
	}
	require.NoError(t, os.WriteFile(paths.LoginsCSV, []byte(logins.String()), 0644))
}

func testPipeline(t *testing.T) (*Manager, *config.Paths) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Analysis.ForestTrees = 20
	cfg.Paths.BaseDir = t.TempDir()

	paths, err := config.NewPaths(cfg.Paths)
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())
	writeFixtures(t, paths)

	registry, err := NewPipelineRegistry(cfg, paths, nil)
	require.NoError(t, err)
	return NewManager(registry, cfg.Pipeline, nil, nil), paths
}

func TestFullPipeline(t *testing.T) {
	manager, paths := testPipeline(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	resp, err := manager.Execute(ctx, OperationRequest{
		Parameters: map[string]interface{}{ParamCutoffDate: "2024-03-10"},
	})
	require.NoError(t, err)
	assert.Equal(t, OperationStatusCompleted, resp.Status)

	for _, id := range []string{StageIDClean, StageIDSegment, StageIDProfile, StageIDKPI, StageIDPredict, StageIDExport} {
		require.Contains(t, resp.Stages, id)
		assert.Equal(t, StageStatusCompleted, resp.Stages[id].Status, id)
	}

	for _, path := range []string{
		paths.CompanySegmentsCSV,
		paths.UserSegmentsCSV,
		paths.UserRiskCSV,
		paths.MonthlyKPICSV,
		paths.QuarterlyKPICSV,
		paths.ExecutiveSummaryJSON,
		paths.GetReportPath(exporter.WorkbookName),
	} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}
}

func TestPipelineProducesRankedRisk(t *testing.T) {
	manager, _ := testPipeline(t)

	registry := manager.Registry()
	stage, err := registry.Get(StageIDPredict)
	require.NoError(t, err)
	_ = stage

	resp, err := manager.Execute(context.Background(), OperationRequest{})
	require.NoError(t, err)
	assert.Equal(t, OperationStatusCompleted, resp.Status)
}

func TestSegmentStageRequiresCleanOutput(t *testing.T) {
	cfg := config.DefaultConfig()
	stage := NewSegmentStage(cfg.Analysis, nil)

	state := NewOperationState("op")
	assert.Error(t, stage.Validate(state))

	state.SetContext(ctxKeyIncidents, []domain.Incident{})
	state.SetContext(ctxKeyLogins, []domain.LoginAttempt{})
	assert.NoError(t, stage.Validate(state))
}

func TestKPIStageRejectsBadCutoff(t *testing.T) {
	stage := NewKPIStage(nil)

	state := NewOperationState("op")
	state.SetStage(stage.ID(), NewStageState(stage.ID(), stage.Name()))
	state.SetContext(ctxKeyIncidents, []domain.Incident{
		{Company: "A", Date: time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)},
	})
	state.SetContext(ctxKeyLogins, []domain.LoginAttempt{
		{User: "u", Time: time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), Result: domain.LoginSuccess},
	})
	state.SetContext(ParamCutoffDate, "not-a-date")

	err := stage.Execute(context.Background(), state)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cutoff")
}
