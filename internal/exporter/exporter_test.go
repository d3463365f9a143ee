package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"medpulse/internal/views"
)

func sampleUsage() views.DepartmentUsage {
	return views.DepartmentUsage{
		Available: true,
		Departments: []views.DepartmentTotal{
			{EncounterClass: "ambulatory", Dispenses: 320},
			{EncounterClass: "inpatient", Dispenses: 80},
		},
		TopMedicines: []views.DepartmentMedicine{
			{EncounterClass: "ambulatory", Description: "Ibuprofen", Dispenses: 200},
			{EncounterClass: "ambulatory", Description: "Aspirin", Dispenses: 120},
			{EncounterClass: "inpatient", Description: "Aspirin", Dispenses: 80},
		},
	}
}

func TestWriteCSVWithBOM(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(dir, nil)

	path, err := writer.WriteCSV("out.csv", WriteOptions{
		Headers:   []string{"A", "B"},
		Records:   [][]string{{"1", "2"}, {"3", "4"}},
		BOMPrefix: true,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])
	assert.Equal(t, "A,B\n1,2\n3,4\n", string(data[3:]))
}

func TestExportDepartmentUsage(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(dir, nil)

	path, err := writer.ExportDepartmentUsage(sampleUsage(), "departments.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "departments.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data[3:]) // skip BOM

	assert.Contains(t, content, "EncounterClass,Description,Dispenses\n")
	assert.Contains(t, content, "ambulatory,Ibuprofen,200\n")
	assert.Contains(t, content, "inpatient,Aspirin,80\n")
}

func TestExportDepartmentUsageUnavailable(t *testing.T) {
	writer := NewCSVWriter(t.TempDir(), nil)

	path, err := writer.ExportDepartmentUsage(views.DepartmentUsage{Available: false}, "departments.csv")
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestExportWorkbook(t *testing.T) {
	dir := t.TempDir()
	excel := NewExcelExporter(dir, nil)

	cost := 1650.0
	overview := views.Overview{
		Metrics: views.OverviewMetrics{
			TotalDispenses:  1750,
			UniqueMedicines: 2,
			TotalCost:       &cost,
		},
		TrendAvailable: true,
		Trend: []views.TrendPoint{
			{Medicine: "Aspirin", Year: 2021, Dispenses: 1000},
			{Medicine: "Aspirin", Year: 2022, Dispenses: 500},
		},
	}
	summary := views.ExecutiveSummary{
		Metrics: overview.Metrics,
		TopCostMedicines: []views.MedicineCost{
			{Description: "Ibuprofen", TotalCost: 900},
		},
		Narrative: "- **1,750** medicine units dispensed across **2** unique medicines.",
	}

	path, err := excel.ExportWorkbook(overview, sampleUsage(), summary, "report.xlsx")
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t,
		[]string{sheetOverview, sheetTrend, sheetDepartments, sheetSummary},
		f.GetSheetList())

	value, err := f.GetCellValue(sheetOverview, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Total Medicines Dispensed", value)
	value, err = f.GetCellValue(sheetOverview, "B2")
	require.NoError(t, err)
	assert.Equal(t, "1750", value)

	value, err = f.GetCellValue(sheetTrend, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Aspirin", value)

	value, err = f.GetCellValue(sheetDepartments, "A2")
	require.NoError(t, err)
	assert.Equal(t, "ambulatory", value)
}

func TestExportWorkbookMissingCost(t *testing.T) {
	dir := t.TempDir()
	excel := NewExcelExporter(dir, nil)

	overview := views.Overview{
		Metrics: views.OverviewMetrics{TotalDispenses: 100, UniqueMedicines: 1},
	}
	summary := views.ExecutiveSummary{Metrics: overview.Metrics, Narrative: "n/a"}

	path, err := excel.ExportWorkbook(overview, views.DepartmentUsage{}, summary, "report.xlsx")
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	value, err := f.GetCellValue(sheetOverview, "B4")
	require.NoError(t, err)
	assert.Equal(t, notAvailable, value)

	value, err = f.GetCellValue(sheetTrend, "B1")
	require.NoError(t, err)
	assert.Equal(t, notAvailable, value)

	value, err = f.GetCellValue(sheetDepartments, "B1")
	require.NoError(t, err)
	assert.Equal(t, notAvailable, value)
}
