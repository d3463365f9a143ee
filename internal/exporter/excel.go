package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"medpulse/internal/views"
)

// Sheet names of the executive report workbook
const (
	sheetOverview    = "Overview"
	sheetTrend       = "Top Medicines Trend"
	sheetDepartments = "Departments"
	sheetSummary     = "Executive Summary"
)

// notAvailable is written in place of scalars whose source column is
// absent. Never zero: an unknown cost is not a zero cost.
const notAvailable = "N/A"

// ExcelExporter writes the dashboard views into a multi-sheet workbook
type ExcelExporter struct {
	reportsDir string
	logger     *slog.Logger
}

// NewExcelExporter creates a new Excel exporter
func NewExcelExporter(reportsDir string, logger *slog.Logger) *ExcelExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelExporter{reportsDir: reportsDir, logger: logger}
}

// ExportWorkbook writes one sheet per dashboard view and returns the
// workbook path
func (e *ExcelExporter) ExportWorkbook(overview views.Overview, usage views.DepartmentUsage, summary views.ExecutiveSummary, fileName string) (string, error) {
	fullPath := filepath.Join(e.reportsDir, fileName)

	if err := os.MkdirAll(e.reportsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeOverviewSheet(f, overview); err != nil {
		return "", err
	}
	if err := e.writeTrendSheet(f, overview); err != nil {
		return "", err
	}
	if err := e.writeDepartmentsSheet(f, usage); err != nil {
		return "", err
	}
	if err := e.writeSummarySheet(f, summary); err != nil {
		return "", err
	}

	if err := f.SaveAs(fullPath); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	e.logger.Info("Executive report workbook written",
		slog.String("path", fullPath))

	return fullPath, nil
}

// writeOverviewSheet writes the three headline scalars
func (e *ExcelExporter) writeOverviewSheet(f *excelize.File, overview views.Overview) error {
	if err := f.SetSheetName("Sheet1", sheetOverview); err != nil {
		return fmt.Errorf("failed to rename overview sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total Medicines Dispensed", overview.Metrics.TotalDispenses},
		{"Unique Medicines", overview.Metrics.UniqueMedicines},
	}
	if overview.Metrics.TotalCost != nil {
		rows = append(rows, []interface{}{"Total Cost of Medicines", *overview.Metrics.TotalCost})
	} else {
		rows = append(rows, []interface{}{"Total Cost of Medicines", notAvailable})
	}

	return writeRows(f, sheetOverview, rows)
}

// writeTrendSheet writes the top-medicines trend points
func (e *ExcelExporter) writeTrendSheet(f *excelize.File, overview views.Overview) error {
	if _, err := f.NewSheet(sheetTrend); err != nil {
		return fmt.Errorf("failed to create trend sheet: %w", err)
	}

	if !overview.TrendAvailable {
		return writeRows(f, sheetTrend, [][]interface{}{{"Trend", notAvailable}})
	}

	rows := [][]interface{}{{"Medicine", "Year", "Dispenses"}}
	for _, point := range overview.Trend {
		rows = append(rows, []interface{}{point.Medicine, point.Year, point.Dispenses})
	}

	return writeRows(f, sheetTrend, rows)
}

// writeDepartmentsSheet writes both department usage tables
func (e *ExcelExporter) writeDepartmentsSheet(f *excelize.File, usage views.DepartmentUsage) error {
	if _, err := f.NewSheet(sheetDepartments); err != nil {
		return fmt.Errorf("failed to create departments sheet: %w", err)
	}

	if !usage.Available {
		return writeRows(f, sheetDepartments, [][]interface{}{{"Department Usage", notAvailable}})
	}

	rows := [][]interface{}{{"EncounterClass", "Dispenses"}}
	for _, dept := range usage.Departments {
		rows = append(rows, []interface{}{dept.EncounterClass, dept.Dispenses})
	}

	rows = append(rows, []interface{}{})
	rows = append(rows, []interface{}{"EncounterClass", "Description", "Dispenses"})
	for _, row := range usage.TopMedicines {
		rows = append(rows, []interface{}{row.EncounterClass, row.Description, row.Dispenses})
	}

	return writeRows(f, sheetDepartments, rows)
}

// writeSummarySheet writes the executive summary blocks and narrative
func (e *ExcelExporter) writeSummarySheet(f *excelize.File, summary views.ExecutiveSummary) error {
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Total Medicines Dispensed", summary.Metrics.TotalDispenses},
		{"Unique Medicines", summary.Metrics.UniqueMedicines},
	}
	if summary.Metrics.TotalCost != nil {
		rows = append(rows, []interface{}{"Total Cost of Medicines", *summary.Metrics.TotalCost})
	} else {
		rows = append(rows, []interface{}{"Total Cost of Medicines", notAvailable})
	}

	if len(summary.TopCostMedicines) > 0 {
		rows = append(rows, []interface{}{})
		rows = append(rows, []interface{}{"Top Costliest Medicines", "Total Cost"})
		for _, medicine := range summary.TopCostMedicines {
			rows = append(rows, []interface{}{medicine.Description, medicine.TotalCost})
		}
	}

	rows = append(rows, []interface{}{})
	rows = append(rows, []interface{}{"Narrative"})
	rows = append(rows, []interface{}{summary.Narrative})

	return writeRows(f, sheetSummary, rows)
}

// writeRows writes rows starting at A1
func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("failed to resolve cell %s!%d:%d: %w", sheet, i+1, j+1, err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write cell %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
