package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"medpulse/internal/errors"
	"medpulse/pkg/contracts/domain"
)

// monthLayouts are the date layouts accepted for the medication month
// column, tried in order. Values matching none of them are treated as
// missing for that row, not as a load failure.
var monthLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006-01-02T15:04:05Z",
	"01/02/2006",
	"1/2/2006",
}

// Loader reads the two tabular sources into memory. It performs light
// normalization (date parsing, numeric coercion) and the fixed year-range
// filter; everything else is left to the view builders.
type Loader struct {
	medicationPath string
	forecastPath   string
	logger         *slog.Logger
}

// NewLoader creates a loader for the given source paths
func NewLoader(medicationPath, forecastPath string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		medicationPath: medicationPath,
		forecastPath:   forecastPath,
		logger:         logger,
	}
}

// Load reads both sources and returns the normalized, filtered dataset.
// The two files are independent, so they are read concurrently. A source
// that cannot be read at all is fatal; malformed individual values are
// coerced to missing and fall out of the year filter.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	var (
		medications []domain.MedicationUsageRecord
		medSchema   domain.MedicationSchema
		forecasts   []domain.ActualForecastRecord
		fcSchema    domain.ForecastSchema
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		medications, medSchema, err = l.loadMedications(gctx)
		if err != nil {
			return fmt.Errorf("load medication summary: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		forecasts, fcSchema, err = l.loadForecasts(gctx)
		if err != nil {
			return fmt.Errorf("load actual/forecast series: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ds := &Dataset{
		Medications:      medications,
		Forecasts:        forecasts,
		MedicationSchema: medSchema,
		ForecastSchema:   fcSchema,
		LoadedAt:         time.Now(),
	}

	l.logger.InfoContext(ctx, "dataset loaded",
		slog.Int("medication_rows", len(medications)),
		slog.Int("forecast_rows", len(forecasts)),
		slog.Bool("has_total_cost", medSchema.HasTotalCost),
		slog.Bool("has_encounter_class", medSchema.HasEncounterClass),
		slog.Bool("has_month", medSchema.HasMonth))

	return ds, nil
}

// loadMedications reads the medication summary CSV. Required columns:
// DESCRIPTION and DISPENSES. MONTH, TOTALCOST and ENCOUNTERCLASS are
// legitimate optional schema variants and drive the capability flags.
func (l *Loader) loadMedications(ctx context.Context) ([]domain.MedicationUsageRecord, domain.MedicationSchema, error) {
	var schema domain.MedicationSchema

	file, err := os.Open(l.medicationPath)
	if err != nil {
		return nil, schema, errors.NewStorageError("failed to open medication summary", err).
			WithContext("path", l.medicationPath)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, schema, errors.NewParsingError("failed to read medication summary header", err)
	}

	columns := mapColumns(header)
	required := []string{"description", "dispenses"}
	for _, col := range required {
		if _, ok := columns[col]; !ok {
			return nil, schema, errors.NewParsingError(
				fmt.Sprintf("medication summary is missing required column: %s", col), nil)
		}
	}

	_, schema.HasMonth = columns["month"]
	_, schema.HasTotalCost = columns["totalcost"]
	_, schema.HasEncounterClass = columns["encounterclass"]

	var records []domain.MedicationUsageRecord
	var dropped int

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, schema, errors.NewParsingError("failed to read medication summary row", err)
		}

		record := domain.MedicationUsageRecord{
			Description: cell(row, columns, "description"),
			Dispenses:   parseFloat(cell(row, columns, "dispenses")),
		}

		if schema.HasTotalCost {
			record.TotalCost = parseFloat(cell(row, columns, "totalcost"))
		}
		if schema.HasEncounterClass {
			record.EncounterClass = cell(row, columns, "encounterclass")
		}

		if schema.HasMonth {
			if month, ok := parseMonth(cell(row, columns, "month")); ok {
				record.Month = month
				record.Year = month.Year()
				record.HasYear = true
			}

			// Inclusive range filter; rows with an underivable year fail
			// the comparison and are dropped as well.
			if !record.HasYear || record.Year < MinYear || record.Year > MaxYear {
				dropped++
				continue
			}
		}

		records = append(records, record)
	}

	if dropped > 0 {
		l.logger.DebugContext(ctx, "medication rows dropped by year filter",
			slog.Int("dropped", dropped))
	}

	return records, schema, nil
}

// loadForecasts reads the combined actual/forecast CSV. Required columns:
// Medicine, Type and Value; Year is optional.
func (l *Loader) loadForecasts(ctx context.Context) ([]domain.ActualForecastRecord, domain.ForecastSchema, error) {
	var schema domain.ForecastSchema

	file, err := os.Open(l.forecastPath)
	if err != nil {
		return nil, schema, errors.NewStorageError("failed to open actual/forecast series", err).
			WithContext("path", l.forecastPath)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, schema, errors.NewParsingError("failed to read actual/forecast header", err)
	}

	columns := mapColumns(header)
	required := []string{"medicine", "type", "value"}
	for _, col := range required {
		if _, ok := columns[col]; !ok {
			return nil, schema, errors.NewParsingError(
				fmt.Sprintf("actual/forecast series is missing required column: %s", col), nil)
		}
	}

	_, schema.HasYear = columns["year"]

	var records []domain.ActualForecastRecord
	var dropped int

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, schema, errors.NewParsingError("failed to read actual/forecast row", err)
		}

		record := domain.ActualForecastRecord{
			Medicine: cell(row, columns, "medicine"),
			Type:     cell(row, columns, "type"),
			Value:    parseFloat(cell(row, columns, "value")),
		}

		if schema.HasYear {
			year, ok := parseYear(cell(row, columns, "year"))
			if !ok || year < MinYear || year > MaxYear {
				dropped++
				continue
			}
			record.Year = year
		}

		records = append(records, record)
	}

	if dropped > 0 {
		l.logger.DebugContext(ctx, "forecast rows dropped by year filter",
			slog.Int("dropped", dropped))
	}

	return records, schema, nil
}

// mapColumns maps normalized header names to column positions. Header
// matching is case-insensitive and whitespace-tolerant, so DESCRIPTION,
// Description and " description " all resolve to the same column.
func mapColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if normalized == "" {
			continue
		}
		if _, exists := columns[normalized]; !exists {
			columns[normalized] = i
		}
	}
	return columns
}

// cell safely extracts a trimmed cell value by mapped column name
func cell(row []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseFloat coerces a numeric cell, tolerating thousands separators.
// Malformed values become zero rather than failing the load.
func parseFloat(value string) float64 {
	if value == "" {
		return 0
	}
	parsed, _ := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	return parsed
}

// parseMonth tries the accepted month layouts in order
func parseMonth(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range monthLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// parseYear coerces a year cell to an integer. Fractional representations
// such as "2021.0" are accepted; anything non-numeric is missing.
func parseYear(value string) (int, bool) {
	if value == "" {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return int(parsed), true
}
