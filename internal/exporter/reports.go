package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"cyberlens/internal/config"
	"cyberlens/pkg/contracts/domain"
)

// ReportExporter writes the analysis outputs to their fixed report files.
// Filenames follow the conventions of the downstream reporting tooling.
type ReportExporter struct {
	paths  *config.Paths
	csv    *CSVWriter
	logger *slog.Logger
}

func NewReportExporter(paths *config.Paths, logger *slog.Logger) *ReportExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportExporter{
		paths:  paths,
		csv:    NewCSVWriter(paths),
		logger: logger.With(slog.String("component", "exporter")),
	}
}

// WriteCompanySegments writes segments_entreprises.csv.
func (e *ReportExporter) WriteCompanySegments(segments []domain.CompanySegment) error {
	headers := []string{"Entreprise", "Secteur", "Taille", "NbIncidents", "ImpactMoyen", "IndispoMoyenne", "TypesAttaque", "Cluster", "PC1", "PC2"}
	records := make([][]string, len(segments))
	for i, s := range segments {
		records[i] = []string{
			s.Company,
			s.Sector,
			formatInt(s.CompanySize),
			formatInt(s.IncidentCount),
			formatFloat(s.MeanImpact, 2),
			formatFloat(s.MeanDowntime, 2),
			formatInt(s.AttackTypeCount),
			formatInt(s.Cluster),
			formatFloat(s.PC1, 6),
			formatFloat(s.PC2, 6),
		}
	}
	return e.writeCSV(e.paths.CompanySegmentsCSV, headers, records)
}

// WriteUserSegments writes segments_utilisateurs.csv.
func (e *ReportExporter) WriteUserSegments(segments []domain.UserSegment) error {
	headers := []string{"Utilisateur", "Role", "Departement", "Echecs", "Succes", "Total", "NbPays", "NbIP", "TauxEchec", "Cluster"}
	records := make([][]string, len(segments))
	for i, s := range segments {
		records[i] = []string{
			s.User,
			s.Role,
			s.Department,
			formatInt(s.Failures),
			formatInt(s.Successes),
			formatInt(s.Total),
			formatInt(s.CountryCount),
			formatInt(s.IPCount),
			formatFloat(s.FailureRatio, 4),
			formatInt(s.Cluster),
		}
	}
	return e.writeCSV(e.paths.UserSegmentsCSV, headers, records)
}

// WriteCustomerSegments writes segments_clients.csv.
func (e *ReportExporter) WriteCustomerSegments(segments []domain.CustomerSegment) error {
	headers := []string{"Customer_ID", "Age", "Gender", "TotalSpent", "PurchaseCount", "AvgOrderValue", "Cluster"}
	records := make([][]string, len(segments))
	for i, s := range segments {
		records[i] = []string{
			formatInt(int(s.CustomerID)),
			formatInt(s.Age),
			s.Gender,
			formatFloat(s.TotalSpent, 2),
			formatInt(s.PurchaseCount),
			formatFloat(s.AvgOrderValue, 2),
			formatInt(s.Cluster),
		}
	}
	return e.writeCSV(e.paths.CustomerSegmentsCSV, headers, records)
}

// WriteUserRisk writes risque_utilisateur.csv, highest risk first.
func (e *ReportExporter) WriteUserRisk(risks []domain.UserRisk) error {
	headers := []string{"Utilisateur", "Role", "Departement", "risk_score"}
	records := make([][]string, len(risks))
	for i, r := range risks {
		records[i] = []string{
			r.User,
			r.Role,
			r.Department,
			formatFloat(r.RiskScore, 6),
		}
	}
	return e.writeCSV(e.paths.UserRiskCSV, headers, records)
}

// WriteMonthlyKPIs writes kpi_mensuel.csv combining the incident and login
// failure series on the month key. Months present in only one series keep
// an empty cell on the other side.
func (e *ReportExporter) WriteMonthlyKPIs(incidents []domain.MonthlyCount, failures []domain.MonthlyRate) error {
	type row struct {
		count    *int
		rate     *float64
		total    *int
	}
	months := make(map[string]*row)
	order := make([]string, 0, len(incidents))
	get := func(key string) *row {
		r, ok := months[key]
		if !ok {
			r = &row{}
			months[key] = r
			order = append(order, key)
		}
		return r
	}
	for i := range incidents {
		r := get(formatMonth(incidents[i].Month))
		r.count = &incidents[i].Count
	}
	for i := range failures {
		r := get(formatMonth(failures[i].Month))
		r.rate = &failures[i].Rate
		r.total = &failures[i].Total
	}

	// Chronological regardless of which series a month came from. The
	// YYYY-MM keys sort lexicographically in date order.
	sort.Strings(order)

	headers := []string{"Mois", "NbIncidents", "TauxEchecConnexion", "NbConnexions"}
	records := make([][]string, 0, len(order))
	for _, key := range order {
		r := months[key]
		rec := []string{key, "", "", ""}
		if r.count != nil {
			rec[1] = formatInt(*r.count)
		}
		if r.rate != nil {
			rec[2] = formatFloat(*r.rate, 4)
			rec[3] = formatInt(*r.total)
		}
		records = append(records, rec)
	}
	return e.writeCSV(e.paths.MonthlyKPICSV, headers, records)
}

// WriteQuarterlyKPIs writes kpi_trimestriel.csv.
func (e *ReportExporter) WriteQuarterlyKPIs(impacts []domain.QuarterlyImpact) error {
	headers := []string{"Trimestre", "ImpactTotal"}
	records := make([][]string, len(impacts))
	for i, q := range impacts {
		records[i] = []string{formatQuarter(q.Quarter), formatFloat(q.Impact, 2)}
	}
	return e.writeCSV(e.paths.QuarterlyKPICSV, headers, records)
}

// WriteExecutiveSummary writes resume_executif.json.
func (e *ReportExporter) WriteExecutiveSummary(summary domain.ExecutiveSummary) error {
	if err := os.MkdirAll(filepath.Dir(e.paths.ExecutiveSummaryJSON), 0755); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal executive summary: %w", err)
	}
	if err := os.WriteFile(e.paths.ExecutiveSummaryJSON, data, 0644); err != nil {
		return fmt.Errorf("failed to write executive summary: %w", err)
	}
	e.logger.Info("wrote executive summary", slog.String("path", e.paths.ExecutiveSummaryJSON))
	return nil
}

func (e *ReportExporter) writeCSV(path string, headers []string, records [][]string) error {
	if err := e.csv.WriteSimpleCSV(path, headers, records); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	e.logger.Info("wrote report",
		slog.String("file", filepath.Base(path)),
		slog.Int("rows", len(records)))
	return nil
}
