package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	apperrors "cyberlens/internal/errors"
	"cyberlens/pkg/contracts/domain"
)

// WorkbookName is the combined Excel report written next to the CSV outputs.
const WorkbookName = "rapport_securite.xlsx"

// WriteWorkbook assembles the headline outputs into a single multi-sheet
// Excel workbook for readers who want everything in one file.
func (e *ReportExporter) WriteWorkbook(
	companies []domain.CompanySegment,
	users []domain.UserSegment,
	monthly []domain.MonthlyCount,
	risks []domain.UserRisk,
) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeCompanySheet(f, companies); err != nil {
		return err
	}
	if err := writeUserSheet(f, users); err != nil {
		return err
	}
	if err := writeKPISheet(f, monthly); err != nil {
		return err
	}
	if err := writeRiskSheet(f, risks); err != nil {
		return err
	}

	// drop the default sheet left over from NewFile
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	path := e.paths.GetReportPath(WorkbookName)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return apperrors.NewStorageError("failed to save workbook", err).
			WithContext("path", path)
	}
	e.logger.Info("wrote workbook", slog.String("path", path))
	return nil
}

func writeCompanySheet(f *excelize.File, segments []domain.CompanySegment) error {
	const sheet = "Entreprises"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	header := []interface{}{"Entreprise", "Secteur", "Taille", "NbIncidents", "ImpactMoyen", "Cluster"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, s := range segments {
		row := []interface{}{s.Company, s.Sector, s.CompanySize, s.IncidentCount, s.MeanImpact, s.Cluster}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeUserSheet(f *excelize.File, segments []domain.UserSegment) error {
	const sheet = "Utilisateurs"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	header := []interface{}{"Utilisateur", "Role", "Departement", "Echecs", "TauxEchec", "Cluster"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, s := range segments {
		row := []interface{}{s.User, s.Role, s.Department, s.Failures, s.FailureRatio, s.Cluster}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeKPISheet(f *excelize.File, monthly []domain.MonthlyCount) error {
	const sheet = "KPI"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	header := []interface{}{"Mois", "NbIncidents"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, m := range monthly {
		row := []interface{}{formatMonth(m.Month), m.Count}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeRiskSheet(f *excelize.File, risks []domain.UserRisk) error {
	const sheet = "Risque"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	header := []interface{}{"Utilisateur", "Role", "Departement", "risk_score"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range risks {
		row := []interface{}{r.User, r.Role, r.Department, r.RiskScore}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
