package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"medpulse/internal/views"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	reportsDir string
	logger     *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(reportsDir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{reportsDir: reportsDir, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file under the reports directory
func (w *CSVWriter) WriteCSV(fileName string, options WriteOptions) (string, error) {
	fullPath := filepath.Join(w.reportsDir, fileName)

	w.logger.Info("Writing CSV file",
		slog.String("path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	// BOM helps Excel recognize UTF-8
	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return "", fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return "", fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return fullPath, nil
}

// ExportDepartmentUsage writes the department usage tables to a CSV file.
// Returns an empty path without error when the view is unavailable.
func (w *CSVWriter) ExportDepartmentUsage(usage views.DepartmentUsage, fileName string) (string, error) {
	if !usage.Available {
		w.logger.Info("Department usage unavailable, skipping CSV export")
		return "", nil
	}

	records := make([][]string, 0, len(usage.TopMedicines))
	for _, row := range usage.TopMedicines {
		records = append(records, []string{
			row.EncounterClass,
			row.Description,
			strconv.FormatFloat(row.Dispenses, 'f', -1, 64),
		})
	}

	return w.WriteCSV(fileName, WriteOptions{
		Headers:   []string{"EncounterClass", "Description", "Dispenses"},
		Records:   records,
		BOMPrefix: true,
	})
}
