package dataset

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberlens/internal/config"
)

func TestLoaderLoadSecurityData(t *testing.T) {
	paths, err := config.NewPaths(config.PathsConfig{BaseDir: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())

	require.NoError(t, os.WriteFile(paths.IncidentsCSV, []byte(incidentsCSV), 0644))
	require.NoError(t, os.WriteFile(paths.LoginsCSV, []byte(loginsCSV), 0644))

	loader := NewLoader(paths, nil)
	data, err := loader.LoadSecurityData(context.Background())
	require.NoError(t, err)

	assert.Len(t, data.Incidents, 2)
	assert.Len(t, data.Logins, 5)
	assert.Equal(t, 1, data.IncidentStats.Skipped)
}

func TestLoaderMissingFileFails(t *testing.T) {
	paths, err := config.NewPaths(config.PathsConfig{BaseDir: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())

	// Only incidents present; logins load must fail the whole call.
	require.NoError(t, os.WriteFile(paths.IncidentsCSV, []byte(incidentsCSV), 0644))

	loader := NewLoader(paths, nil)
	_, err = loader.LoadSecurityData(context.Background())
	require.Error(t, err)
}
