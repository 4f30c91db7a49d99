package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths is the single source of truth for all file locations used by the
// pipeline stages and the web server.
type Paths struct {
	BaseDir    string
	DataDir    string
	RawDir     string
	ReportsDir string
	LogsDir    string

	// Raw inputs (filenames fixed by the upstream data drops)
	IncidentsCSV string
	LoginsCSV    string
	CustomersXLSX string
	SalesXLSX    string

	// Generated reports
	CompanySegmentsCSV  string
	UserSegmentsCSV     string
	CustomerSegmentsCSV string
	UserRiskCSV         string
	MonthlyKPICSV       string
	QuarterlyKPICSV     string
	ExecutiveSummaryJSON string
}

// NewPaths builds the path set rooted at baseDir. An empty baseDir resolves to
// the directory containing the running executable, never the working
// directory, so the binaries behave the same wherever they are launched from.
func NewPaths(cfg PathsConfig) (*Paths, error) {
	baseDir := cfg.BaseDir
	if baseDir == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to get executable path: %w", err)
		}
		exe, err = filepath.EvalSymlinks(exe)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
		}
		baseDir = filepath.Dir(exe)
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	if !filepath.IsAbs(dataDir) {
		dataDir = filepath.Join(baseDir, dataDir)
	}
	logsDir := cfg.LogsDir
	if logsDir == "" {
		logsDir = "logs"
	}
	if !filepath.IsAbs(logsDir) {
		logsDir = filepath.Join(baseDir, logsDir)
	}

	rawDir := filepath.Join(dataDir, "raw")
	reportsDir := filepath.Join(dataDir, "reports")

	return &Paths{
		BaseDir:    baseDir,
		DataDir:    dataDir,
		RawDir:     rawDir,
		ReportsDir: reportsDir,
		LogsDir:    logsDir,

		IncidentsCSV:  filepath.Join(rawDir, "incidents.csv"),
		LoginsCSV:     filepath.Join(rawDir, "logins.csv"),
		CustomersXLSX: filepath.Join(rawDir, "customers_data_extended.xlsx"),
		SalesXLSX:     filepath.Join(rawDir, "sales_data_extended.xlsx"),

		CompanySegmentsCSV:   filepath.Join(reportsDir, "segments_entreprises.csv"),
		UserSegmentsCSV:      filepath.Join(reportsDir, "segments_utilisateurs.csv"),
		CustomerSegmentsCSV:  filepath.Join(reportsDir, "segments_clients.csv"),
		UserRiskCSV:          filepath.Join(reportsDir, "risque_utilisateur.csv"),
		MonthlyKPICSV:        filepath.Join(reportsDir, "kpi_mensuel.csv"),
		QuarterlyKPICSV:      filepath.Join(reportsDir, "kpi_trimestriel.csv"),
		ExecutiveSummaryJSON: filepath.Join(reportsDir, "resume_executif.json"),
	}, nil
}

// EnsureDirectories creates all directories the application writes to.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{p.DataDir, p.RawDir, p.ReportsDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetLogPath returns the path for a named log file inside the logs directory.
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetReportPath returns the path for a named file inside the reports directory.
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetRawPath returns the path for a named file inside the raw data directory.
func (p *Paths) GetRawPath(filename string) string {
	return filepath.Join(p.RawDir, filename)
}
