package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medpulse/internal/dataset"
	"medpulse/pkg/contracts/domain"
)

func fcRecord(medicine string, year int, observationType string, value float64) domain.ActualForecastRecord {
	return domain.ActualForecastRecord{
		Medicine: medicine,
		Year:     year,
		Type:     observationType,
		Value:    value,
	}
}

func TestEligibleMedicines(t *testing.T) {
	ds := &dataset.Dataset{
		Forecasts: []domain.ActualForecastRecord{
			fcRecord("Zinc", 2021, "Actual", 10),
			fcRecord("Zinc", 2022, "Forecast", 12),
			fcRecord("Aspirin", 2021, "Actual", 5),
			fcRecord("Aspirin", 2021, "Forecast", 6),
			fcRecord("Ibuprofen", 2021, "Actual", 7), // single type, not eligible
			fcRecord("", 2021, "Actual", 1),
			fcRecord("", 2021, "Forecast", 2),
		},
	}

	eligible := EligibleMedicines(ds)

	// Two distinct types required; empty medicine names never qualify
	assert.Equal(t, []string{"Aspirin", "Zinc"}, eligible)
}

func TestEligibleMedicinesEmptySeries(t *testing.T) {
	assert.Empty(t, EligibleMedicines(&dataset.Dataset{}))
}

func TestBuildForecastComparisonOrdering(t *testing.T) {
	ds := &dataset.Dataset{
		Forecasts: []domain.ActualForecastRecord{
			fcRecord("Aspirin", 2022, "Forecast", 14),
			fcRecord("Aspirin", 2021, "Forecast", 12),
			fcRecord("Aspirin", 2022, "Actual", 13),
			fcRecord("Aspirin", 2021, "Backcast", 9),
			fcRecord("Aspirin", 2021, "Actual", 10),
			fcRecord("Ibuprofen", 2021, "Actual", 99),
			fcRecord("Ibuprofen", 2021, "Forecast", 98),
		},
	}

	comparison, ok := BuildForecastComparison(ds, "Aspirin")
	require.True(t, ok)

	assert.Equal(t, "Aspirin", comparison.Medicine)
	assert.Equal(t, []string{"Actual", "Forecast"}, comparison.CategoryOrder)

	// Year ascending, Actual before Forecast, unknown types trailing
	require.Len(t, comparison.Rows, 5)
	assert.Equal(t, fcRecord("Aspirin", 2021, "Actual", 10), comparison.Rows[0])
	assert.Equal(t, fcRecord("Aspirin", 2021, "Forecast", 12), comparison.Rows[1])
	assert.Equal(t, fcRecord("Aspirin", 2021, "Backcast", 9), comparison.Rows[2])
	assert.Equal(t, fcRecord("Aspirin", 2022, "Actual", 13), comparison.Rows[3])
	assert.Equal(t, fcRecord("Aspirin", 2022, "Forecast", 14), comparison.Rows[4])
}

func TestBuildForecastComparisonIneligible(t *testing.T) {
	ds := &dataset.Dataset{
		Forecasts: []domain.ActualForecastRecord{
			fcRecord("Aspirin", 2021, "Actual", 10),
		},
	}

	tests := []struct {
		name     string
		medicine string
	}{
		{name: "single observation type", medicine: "Aspirin"},
		{name: "unknown medicine", medicine: "Paracetamol"},
		{name: "empty medicine", medicine: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comparison, ok := BuildForecastComparison(ds, tt.medicine)
			assert.False(t, ok)
			assert.Empty(t, comparison.Rows)
		})
	}
}
