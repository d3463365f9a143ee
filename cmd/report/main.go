package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"medpulse/internal/config"
	"medpulse/internal/dataset"
	"medpulse/internal/exporter"
	"medpulse/internal/views"
)

func main() {
	outputDir := flag.String("out", "", "output directory for reports (defaults to the configured reports dir)")
	skipCSV := flag.Bool("no-csv", false, "skip the department usage CSV export")
	flag.Parse()

	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if *outputDir == "" {
		*outputDir = cfg.Data.ReportsDir
	}

	medicationPath := cfg.MedicationPath()
	if _, err := os.Stat(medicationPath); os.IsNotExist(err) {
		slog.Error("Medication summary file not found",
			"path", medicationPath,
			"hint", "Set MEDPULSE_DATA_DIR or place the CSV sources under the data directory")
		os.Exit(1)
	}

	slog.Info("Loading dataset",
		"medication_path", medicationPath,
		"forecast_path", cfg.ForecastPath())

	ctx := context.Background()
	loader := dataset.NewLoader(medicationPath, cfg.ForecastPath(), slog.Default())
	ds, err := loader.Load(ctx)
	if err != nil {
		slog.Error("Failed to load dataset", "error", err)
		os.Exit(1)
	}

	slog.Info("Dataset loaded",
		"medication_rows", len(ds.Medications),
		"forecast_rows", len(ds.Forecasts))

	overview := views.BuildOverview(ds)
	usage := views.BuildDepartmentUsage(ds)
	summary := views.BuildExecutiveSummary(ds)

	datestamp := time.Now().Format("2006-01-02")

	excel := exporter.NewExcelExporter(*outputDir, slog.Default())
	workbookName := fmt.Sprintf("medpulse_executive_report_%s.xlsx", datestamp)
	workbookPath, err := excel.ExportWorkbook(overview, usage, summary, workbookName)
	if err != nil {
		slog.Error("Failed to write workbook", "error", err)
		os.Exit(1)
	}
	slog.Info("Workbook written", "path", workbookPath)

	if !*skipCSV {
		csvWriter := exporter.NewCSVWriter(*outputDir, slog.Default())
		csvName := fmt.Sprintf("department_usage_%s.csv", datestamp)
		csvPath, err := csvWriter.ExportDepartmentUsage(usage, csvName)
		if err != nil {
			slog.Error("Failed to write department usage CSV", "error", err)
			os.Exit(1)
		}
		if csvPath == "" {
			slog.Info("Department usage unavailable, CSV export skipped")
		} else {
			slog.Info("Department usage CSV written", "path", csvPath)
		}
	}
}
