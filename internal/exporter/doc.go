// Package exporter persists the analysis outputs: one CSV per report,
// a JSON executive summary, and an optional combined Excel workbook.
// All CSVs carry a UTF-8 BOM so the accented French headers open
// correctly in Excel.
package exporter
