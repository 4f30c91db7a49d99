package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"cyberlens/internal/config"
)

// FileInfo describes one file in the data tree.
type FileInfo struct {
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	Size     int64     `json:"size"`
	ModTime  time.Time `json:"mod_time"`
	Present  bool      `json:"present"`
	Required bool      `json:"required"`
}

// Inventory answers questions about the raw inputs and generated reports
// on disk without loading any of them.
type Inventory struct {
	paths *config.Paths
}

func NewInventory(paths *config.Paths) *Inventory {
	return &Inventory{paths: paths}
}

// RawInputs reports the state of the expected raw data drops. The two
// CSVs are required; the commerce workbooks are optional.
func (i *Inventory) RawInputs() []FileInfo {
	return []FileInfo{
		stat(i.paths.IncidentsCSV, true),
		stat(i.paths.LoginsCSV, true),
		stat(i.paths.CustomersXLSX, false),
		stat(i.paths.SalesXLSX, false),
	}
}

// Reports returns the state of every file the pipeline generates.
func (i *Inventory) Reports() []FileInfo {
	return []FileInfo{
		stat(i.paths.CompanySegmentsCSV, false),
		stat(i.paths.UserSegmentsCSV, false),
		stat(i.paths.CustomerSegmentsCSV, false),
		stat(i.paths.UserRiskCSV, false),
		stat(i.paths.MonthlyKPICSV, false),
		stat(i.paths.QuarterlyKPICSV, false),
		stat(i.paths.ExecutiveSummaryJSON, false),
		stat(i.paths.GetReportPath("rapport_securite.xlsx"), false),
	}
}

// MissingInputs returns an error naming every required raw file that is
// absent, or nil when the pipeline can run.
func (i *Inventory) MissingInputs() error {
	var missing []string
	for _, f := range i.RawInputs() {
		if f.Required && !f.Present {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing raw inputs in %s: %s", i.paths.RawDir, strings.Join(missing, ", "))
	}
	return nil
}

// FindCSVFiles lists the CSV files in a directory, newest first.
func (i *Inventory) FindCSVFiles(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var out []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".csv") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, FileInfo{
			Name:    entry.Name(),
			Path:    filepath.Join(dir, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Present: true,
		})
	}
	sort.Slice(out, func(a, b int) bool {
		return out[a].ModTime.After(out[b].ModTime)
	})
	return out, nil
}

func stat(path string, required bool) FileInfo {
	fi := FileInfo{
		Name:     filepath.Base(path),
		Path:     path,
		Required: required,
	}
	info, err := os.Stat(path)
	if err != nil {
		return fi
	}
	fi.Present = true
	fi.Size = info.Size()
	fi.ModTime = info.ModTime()
	return fi
}
