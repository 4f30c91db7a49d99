package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "cyberlens/internal/errors"
	"cyberlens/pkg/contracts/domain"
)

// Column headers as written by the upstream data drops. The incident and
// login files carry French headers; they are part of the file contract.
const (
	colCompany         = "Entreprise"
	colSector          = "Secteur"
	colCompanySize     = "Taille"
	colAttackType      = "TypeAttaque"
	colIncidentDate    = "Date"
	colVector          = "Vecteur"
	colImpact          = "ImpactAriary"
	colDowntime        = "IndispoHeures"
	colDataCompromised = "DonneesCompromises"
	colCampaign        = "CampagneSécurité"

	colUser       = "Utilisateur"
	colRole       = "Role"
	colDepartment = "Departement"
	colLoginTime  = "DateHeure"
	colSourceIP   = "IPSource"
	colCountry    = "Localisation"
	colResult     = "Resultat"
)

// timeLayouts are tried in order when parsing timestamp cells.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// LoadStats reports how a file load went.
type LoadStats struct {
	Rows    int `json:"rows"`
	Skipped int `json:"skipped"`
}

// LoadIncidents reads an incidents CSV file. Rows whose date cannot be parsed
// are skipped and counted; missing numeric cells become NaN so cleaning can
// treat them as nulls.
func LoadIncidents(path string) ([]domain.Incident, LoadStats, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, LoadStats{}, err
	}

	cols, err := mapColumns(header, []string{colCompany, colIncidentDate})
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("incidents header: %w", err)
	}

	var (
		incidents []domain.Incident
		stats     LoadStats
	)
	for i, row := range rows {
		date, ok := parseTime(cell(row, cols, colIncidentDate))
		if !ok {
			stats.Skipped++
			slog.Debug("skipping incident row with invalid date",
				slog.Int("row", i+2),
				slog.String("value", cell(row, cols, colIncidentDate)))
			continue
		}

		incidents = append(incidents, domain.Incident{
			Company:         cell(row, cols, colCompany),
			Sector:          cell(row, cols, colSector),
			CompanySize:     parseIntCell(cell(row, cols, colCompanySize)),
			AttackType:      cell(row, cols, colAttackType),
			Date:            date,
			Vector:          cell(row, cols, colVector),
			Impact:          parseFloatCell(cell(row, cols, colImpact)),
			DowntimeHours:   parseFloatCell(cell(row, cols, colDowntime)),
			DataCompromised: parseYesNo(cell(row, cols, colDataCompromised)),
			Campaign:        cell(row, cols, colCampaign),
		})
		stats.Rows++
	}

	return incidents, stats, nil
}

// LoadLogins reads a logins CSV file. Result labels are normalized to the
// canonical success/failure/unknown values on load.
func LoadLogins(path string) ([]domain.LoginAttempt, LoadStats, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, LoadStats{}, err
	}

	cols, err := mapColumns(header, []string{colUser, colLoginTime})
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("logins header: %w", err)
	}

	var (
		attempts []domain.LoginAttempt
		stats    LoadStats
	)
	for i, row := range rows {
		ts, ok := parseTime(cell(row, cols, colLoginTime))
		if !ok {
			stats.Skipped++
			slog.Debug("skipping login row with invalid timestamp",
				slog.Int("row", i+2))
			continue
		}

		rawResult := strings.ToLower(strings.TrimSpace(cell(row, cols, colResult)))
		attempts = append(attempts, domain.LoginAttempt{
			User:       cell(row, cols, colUser),
			Role:       cell(row, cols, colRole),
			Department: cell(row, cols, colDepartment),
			Time:       ts,
			SourceIP:   cell(row, cols, colSourceIP),
			Country:    cell(row, cols, colCountry),
			Result:     domain.NormalizeLoginResult(rawResult),
		})
		stats.Rows++
	}

	return attempts, stats, nil
}

// readCSV opens a CSV file and returns its data rows and header. A UTF-8 BOM
// on the first header cell is stripped. Blank lines are dropped.
func readCSV(path string) ([][]string, []string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, apperrors.NewStorageError("failed to open "+path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil, apperrors.NewParsingError("file "+path+" is empty", nil)
		}
		return nil, nil, apperrors.NewParsingError("failed to read header of "+path, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, apperrors.NewParsingError("failed to read "+path, err)
		}
		if isBlankRow(row) {
			continue
		}
		rows = append(rows, row)
	}

	return rows, header, nil
}

// mapColumns maps header names to indices and verifies required columns.
func mapColumns(header []string, required []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}
	return cols, nil
}

func cell(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseFloatCell returns NaN for empty or malformed cells so downstream
// aggregation can skip them the way pandas skips nulls.
func parseFloatCell(value string) float64 {
	if value == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func parseIntCell(value string) int {
	if value == "" {
		return 0
	}
	// Sizes occasionally arrive as "1200.0" from float-typed frames.
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return int(f)
	}
	return 0
}

func parseYesNo(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "oui", "yes", "true", "1":
		return true
	default:
		return false
	}
}
