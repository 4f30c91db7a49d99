package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberlens/internal/config"
)

func testInventory(t *testing.T) (*Inventory, *config.Paths) {
	t.Helper()
	paths, err := config.NewPaths(config.PathsConfig{BaseDir: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())
	return NewInventory(paths), paths
}

func touch(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestMissingInputsNamesRequiredFiles(t *testing.T) {
	inv, paths := testInventory(t)

	err := inv.MissingInputs()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incidents.csv")
	assert.Contains(t, err.Error(), "logins.csv")

	touch(t, paths.IncidentsCSV, "header\n")
	err = inv.MissingInputs()
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "incidents.csv")

	touch(t, paths.LoginsCSV, "header\n")
	assert.NoError(t, inv.MissingInputs())
}

func TestRawInputsMarksOptionalWorkbooks(t *testing.T) {
	inv, _ := testInventory(t)

	inputs := inv.RawInputs()
	require.Len(t, inputs, 4)
	assert.True(t, inputs[0].Required)
	assert.True(t, inputs[1].Required)
	assert.False(t, inputs[2].Required)
	assert.False(t, inputs[3].Required)
}

func TestReportsReflectGeneratedFiles(t *testing.T) {
	inv, paths := testInventory(t)

	for _, r := range inv.Reports() {
		assert.False(t, r.Present, r.Name)
	}

	touch(t, paths.MonthlyKPICSV, "Mois\n")
	var found bool
	for _, r := range inv.Reports() {
		if r.Name == "kpi_mensuel.csv" {
			found = true
			assert.True(t, r.Present)
			assert.Greater(t, r.Size, int64(0))
		}
	}
	assert.True(t, found)
}

func TestFindCSVFilesNewestFirst(t *testing.T) {
	inv, paths := testInventory(t)

	touch(t, filepath.Join(paths.ReportsDir, "a.csv"), "a")
	touch(t, filepath.Join(paths.ReportsDir, "b.csv"), "b")
	touch(t, filepath.Join(paths.ReportsDir, "ignore.txt"), "x")

	found, err := inv.FindCSVFiles(paths.ReportsDir)
	require.NoError(t, err)
	require.Len(t, found, 2)
	for _, f := range found {
		assert.True(t, f.Present)
	}
}
