package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"cyberlens/internal/config"
	"cyberlens/pkg/contracts/domain"
)

// DataService serves the generated reports to the dashboard. Reports may
// not exist yet (the pipeline has not run) or may be partially written;
// every getter degrades to an empty result with warnings instead of
// failing the request.
type DataService struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewDataService creates a data service reading from the configured paths.
func NewDataService(paths *config.Paths, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataService{
		paths:  paths,
		logger: logger.With(slog.String("component", "data_service")),
	}
}

// ReportResult wraps report rows with any warnings hit while loading them.
type ReportResult[T any] struct {
	Rows     []T      `json:"rows"`
	Warnings []string `json:"warnings,omitempty"`
}

// CompanySegments reads segments_entreprises.csv back.
func (s *DataService) CompanySegments(ctx context.Context) ReportResult[domain.CompanySegment] {
	return loadReport(s, ctx, s.paths.CompanySegmentsCSV, 10, func(rec []string) domain.CompanySegment {
		return domain.CompanySegment{
			Company:         rec[0],
			Sector:          rec[1],
			CompanySize:     atoi(rec[2]),
			IncidentCount:   atoi(rec[3]),
			MeanImpact:      atof(rec[4]),
			MeanDowntime:    atof(rec[5]),
			AttackTypeCount: atoi(rec[6]),
			Cluster:         atoi(rec[7]),
			PC1:             atof(rec[8]),
			PC2:             atof(rec[9]),
		}
	})
}

// UserSegments reads segments_utilisateurs.csv back.
func (s *DataService) UserSegments(ctx context.Context) ReportResult[domain.UserSegment] {
	return loadReport(s, ctx, s.paths.UserSegmentsCSV, 10, func(rec []string) domain.UserSegment {
		return domain.UserSegment{
			User:         rec[0],
			Role:         rec[1],
			Department:   rec[2],
			Failures:     atoi(rec[3]),
			Successes:    atoi(rec[4]),
			Total:        atoi(rec[5]),
			CountryCount: atoi(rec[6]),
			IPCount:      atoi(rec[7]),
			FailureRatio: atof(rec[8]),
			Cluster:      atoi(rec[9]),
		}
	})
}

// UserRisks reads risque_utilisateur.csv back, keeping the file's ranking.
func (s *DataService) UserRisks(ctx context.Context, limit int) ReportResult[domain.UserRisk] {
	result := loadReport(s, ctx, s.paths.UserRiskCSV, 4, func(rec []string) domain.UserRisk {
		return domain.UserRisk{
			User:       rec[0],
			Role:       rec[1],
			Department: rec[2],
			RiskScore:  atof(rec[3]),
		}
	})
	if limit > 0 && len(result.Rows) > limit {
		result.Rows = result.Rows[:limit]
	}
	return result
}

// MonthlyKPIRow is one decoded row of kpi_mensuel.csv.
type MonthlyKPIRow struct {
	Month        string   `json:"month"`
	Incidents    *int     `json:"incidents,omitempty"`
	FailureRate  *float64 `json:"failure_rate,omitempty"`
	LoginVolume  *int     `json:"login_volume,omitempty"`
}

// MonthlyKPIs reads kpi_mensuel.csv back.
func (s *DataService) MonthlyKPIs(ctx context.Context) ReportResult[MonthlyKPIRow] {
	return loadReport(s, ctx, s.paths.MonthlyKPICSV, 4, func(rec []string) MonthlyKPIRow {
		row := MonthlyKPIRow{Month: rec[0]}
		if rec[1] != "" {
			v := atoi(rec[1])
			row.Incidents = &v
		}
		if rec[2] != "" {
			v := atof(rec[2])
			row.FailureRate = &v
		}
		if rec[3] != "" {
			v := atoi(rec[3])
			row.LoginVolume = &v
		}
		return row
	})
}

// QuarterlyKPIRow is one decoded row of kpi_trimestriel.csv.
type QuarterlyKPIRow struct {
	Quarter string  `json:"quarter"`
	Impact  float64 `json:"impact"`
}

// QuarterlyKPIs reads kpi_trimestriel.csv back.
func (s *DataService) QuarterlyKPIs(ctx context.Context) ReportResult[QuarterlyKPIRow] {
	return loadReport(s, ctx, s.paths.QuarterlyKPICSV, 2, func(rec []string) QuarterlyKPIRow {
		return QuarterlyKPIRow{Quarter: rec[0], Impact: atof(rec[1])}
	})
}

// ExecutiveSummary reads resume_executif.json back. A missing or corrupt
// file yields a zero summary plus warnings.
func (s *DataService) ExecutiveSummary(ctx context.Context) (domain.ExecutiveSummary, []string) {
	var summary domain.ExecutiveSummary

	data, err := os.ReadFile(s.paths.ExecutiveSummaryJSON)
	if err != nil {
		if os.IsNotExist(err) {
			return summary, []string{"executive summary not generated yet"}
		}
		s.logger.WarnContext(ctx, "failed to read executive summary",
			slog.String("error", err.Error()))
		return summary, []string{fmt.Sprintf("failed to read executive summary: %v", err)}
	}
	if err := json.Unmarshal(data, &summary); err != nil {
		s.logger.WarnContext(ctx, "corrupt executive summary",
			slog.String("error", err.Error()))
		return domain.ExecutiveSummary{}, []string{fmt.Sprintf("corrupt executive summary: %v", err)}
	}
	return summary, nil
}

// loadReport reads a report CSV defensively: absent file or short rows
// produce warnings, never errors.
func loadReport[T any](s *DataService, ctx context.Context, path string, wantCols int, decode func([]string) T) ReportResult[T] {
	var result ReportResult[T]

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			result.Warnings = append(result.Warnings, "report not generated yet")
			return result
		}
		s.logger.WarnContext(ctx, "failed to open report",
			slog.String("path", path),
			slog.String("error", err.Error()))
		result.Warnings = append(result.Warnings, fmt.Sprintf("failed to open report: %v", err))
		return result
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		result.Warnings = append(result.Warnings, "report is empty")
		return result
	}
	// the exporter writes a BOM; strip it if the CSV reader kept it
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	skipped := 0
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		if len(rec) < wantCols {
			skipped++
			continue
		}
		result.Rows = append(result.Rows, decode(rec))
	}
	if skipped > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%d malformed rows skipped", skipped))
	}
	return result
}

func atoi(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

func atof(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
