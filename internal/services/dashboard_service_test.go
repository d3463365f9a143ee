package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medpulse/internal/dataset"
)

const testMedicationCSV = `DESCRIPTION,MONTH,DISPENSES,TOTALCOST,ENCOUNTERCLASS
Aspirin,2021-03-01,120,60.5,ambulatory
Aspirin,2022-03-01,80,40,inpatient
Ibuprofen,2021-06-01,200,150,ambulatory
Metformin,2019-01-01,999,999,wellness
`

const testForecastCSV = `Medicine,Year,Type,Value
Aspirin,2021,Actual,120
Aspirin,2022,Forecast,130
Ibuprofen,2021,Actual,200
`

// newTestService builds a service over real CSV fixtures
func newTestService(t *testing.T) *DashboardService {
	t.Helper()
	return newTestServiceWithSources(t, testMedicationCSV, testForecastCSV)
}

func newTestServiceWithSources(t *testing.T, medication, forecast string) *DashboardService {
	t.Helper()
	dir := t.TempDir()

	medPath := filepath.Join(dir, "medication_summary.csv")
	require.NoError(t, os.WriteFile(medPath, []byte(medication), 0644))
	fcPath := filepath.Join(dir, "actual_forecast_combined.csv")
	require.NoError(t, os.WriteFile(fcPath, []byte(forecast), 0644))

	loader := dataset.NewLoader(medPath, fcPath, nil)
	provider := dataset.NewProvider(loader, nil, nil)
	return NewDashboardService(provider, nil, nil)
}

func TestDashboardServiceOverview(t *testing.T) {
	service := newTestService(t)

	overview, err := service.Overview(context.Background())
	require.NoError(t, err)

	// The 2019 Metformin row is outside the year range
	assert.Equal(t, int64(400), overview.Metrics.TotalDispenses)
	assert.Equal(t, 2, overview.Metrics.UniqueMedicines)
	require.NotNil(t, overview.Metrics.TotalCost)
	assert.InDelta(t, 250.5, *overview.Metrics.TotalCost, 1e-9)
	assert.True(t, overview.TrendAvailable)
	assert.Equal(t, []string{"Aspirin", "Ibuprofen"}, overview.TopMedicines)
}

func TestDashboardServiceForecastMedicines(t *testing.T) {
	service := newTestService(t)

	medicines, err := service.ForecastMedicines(context.Background())
	require.NoError(t, err)

	// Ibuprofen has only Actual observations, so only Aspirin qualifies
	assert.Equal(t, []string{"Aspirin"}, medicines)
}

func TestDashboardServiceForecastComparison(t *testing.T) {
	service := newTestService(t)

	comparison, err := service.ForecastComparison(context.Background(), "Aspirin")
	require.NoError(t, err)

	require.Len(t, comparison.Rows, 2)
	assert.Equal(t, "Actual", comparison.Rows[0].Type)
	assert.Equal(t, "Forecast", comparison.Rows[1].Type)
}

func TestDashboardServiceForecastComparisonIneligible(t *testing.T) {
	service := newTestService(t)

	tests := []string{"Ibuprofen", "Paracetamol", ""}
	for _, medicine := range tests {
		t.Run("medicine="+medicine, func(t *testing.T) {
			_, err := service.ForecastComparison(context.Background(), medicine)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMedicineNotEligible))
		})
	}
}

func TestDashboardServiceDepartmentUsage(t *testing.T) {
	service := newTestService(t)

	usage, err := service.DepartmentUsage(context.Background())
	require.NoError(t, err)

	require.True(t, usage.Available)
	require.Len(t, usage.Departments, 2)
	assert.Equal(t, "ambulatory", usage.Departments[0].EncounterClass)
	assert.Equal(t, 320.0, usage.Departments[0].Dispenses)
}

func TestDashboardServiceDepartmentUsageDegraded(t *testing.T) {
	service := newTestServiceWithSources(t,
		"DESCRIPTION,DISPENSES\nAspirin,100\n",
		testForecastCSV)

	usage, err := service.DepartmentUsage(context.Background())
	require.NoError(t, err)

	assert.False(t, usage.Available)
}

func TestDashboardServiceExecutiveSummary(t *testing.T) {
	service := newTestService(t)

	summary, err := service.ExecutiveSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(400), summary.Metrics.TotalDispenses)
	require.Len(t, summary.TopCostMedicines, 2)
	assert.Equal(t, "Ibuprofen", summary.TopCostMedicines[0].Description)
	assert.Contains(t, summary.Narrative, "**400** medicine units dispensed")
}

func TestDashboardServiceReload(t *testing.T) {
	service := newTestService(t)

	result, err := service.Reload(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.MedicationRows)
	assert.Equal(t, 3, result.ForecastRows)
	assert.False(t, result.LoadedAt.IsZero())
}

func TestDashboardServiceLoadFailure(t *testing.T) {
	dir := t.TempDir()
	loader := dataset.NewLoader(
		filepath.Join(dir, "missing.csv"),
		filepath.Join(dir, "also_missing.csv"),
		nil)
	service := NewDashboardService(dataset.NewProvider(loader, nil, nil), nil, nil)

	_, err := service.Overview(context.Background())
	require.Error(t, err)

	_, err = service.Reload(context.Background())
	require.Error(t, err)
}
