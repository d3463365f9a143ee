package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"medpulse/internal/dataset"
	"medpulse/internal/infrastructure"
	"medpulse/internal/views"
)

// DashboardService computes the dashboard views from the cached dataset.
// All views are pure projections of the loaded tables; the service only
// adds logging, metrics and error mapping.
type DashboardService struct {
	provider *dataset.Provider
	logger   *slog.Logger
	metrics  *infrastructure.BusinessMetrics
}

// ReloadResult reports the outcome of a dataset reload
type ReloadResult struct {
	MedicationRows int       `json:"medication_rows"`
	ForecastRows   int       `json:"forecast_rows"`
	LoadedAt       time.Time `json:"loaded_at"`
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(provider *dataset.Provider, logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		provider: provider,
		logger:   logger.With(slog.String("component", "dashboard_service")),
		metrics:  metrics,
	}
}

// Overview returns the overview page payload
func (s *DashboardService) Overview(ctx context.Context) (views.Overview, error) {
	ds, err := s.provider.Dataset(ctx)
	infrastructure.RecordViewRender(ctx, s.metrics, "overview", err)
	if err != nil {
		return views.Overview{}, fmt.Errorf("overview view: %w", err)
	}

	overview := views.BuildOverview(ds)

	s.logger.DebugContext(ctx, "overview rendered",
		slog.Int64("total_dispenses", overview.Metrics.TotalDispenses),
		slog.Int("unique_medicines", overview.Metrics.UniqueMedicines),
		slog.Bool("trend_available", overview.TrendAvailable))

	return overview, nil
}

// ForecastMedicines returns the sorted eligibility set for the medicine
// selector
func (s *DashboardService) ForecastMedicines(ctx context.Context) ([]string, error) {
	ds, err := s.provider.Dataset(ctx)
	infrastructure.RecordViewRender(ctx, s.metrics, "forecast_medicines", err)
	if err != nil {
		return nil, fmt.Errorf("forecast medicine list: %w", err)
	}

	return views.EligibleMedicines(ds), nil
}

// ForecastComparison returns the actual-vs-forecast rows for one medicine.
// Selecting a medicine outside the eligibility set returns
// ErrMedicineNotEligible.
func (s *DashboardService) ForecastComparison(ctx context.Context, medicine string) (views.ForecastComparison, error) {
	ds, err := s.provider.Dataset(ctx)
	if err != nil {
		infrastructure.RecordViewRender(ctx, s.metrics, "forecast_comparison", err)
		return views.ForecastComparison{}, fmt.Errorf("forecast comparison view: %w", err)
	}

	comparison, ok := views.BuildForecastComparison(ds, medicine)
	if !ok {
		infrastructure.RecordViewRender(ctx, s.metrics, "forecast_comparison", ErrMedicineNotEligible)
		s.logger.WarnContext(ctx, "forecast comparison requested for ineligible medicine",
			slog.String("medicine", medicine))
		return views.ForecastComparison{}, fmt.Errorf("%w: %s", ErrMedicineNotEligible, medicine)
	}

	infrastructure.RecordViewRender(ctx, s.metrics, "forecast_comparison", nil)
	return comparison, nil
}

// DepartmentUsage returns the department usage page payload. An absent
// encounter class column yields Available=false, not an error.
func (s *DashboardService) DepartmentUsage(ctx context.Context) (views.DepartmentUsage, error) {
	ds, err := s.provider.Dataset(ctx)
	infrastructure.RecordViewRender(ctx, s.metrics, "department_usage", err)
	if err != nil {
		return views.DepartmentUsage{}, fmt.Errorf("department usage view: %w", err)
	}

	usage := views.BuildDepartmentUsage(ds)
	if !usage.Available {
		s.logger.DebugContext(ctx, "department usage unavailable, encounter class column absent")
	}

	return usage, nil
}

// ExecutiveSummary returns the executive summary page payload
func (s *DashboardService) ExecutiveSummary(ctx context.Context) (views.ExecutiveSummary, error) {
	ds, err := s.provider.Dataset(ctx)
	infrastructure.RecordViewRender(ctx, s.metrics, "executive_summary", err)
	if err != nil {
		return views.ExecutiveSummary{}, fmt.Errorf("executive summary view: %w", err)
	}

	return views.BuildExecutiveSummary(ds), nil
}

// Reload discards the cached dataset and re-reads the sources
func (s *DashboardService) Reload(ctx context.Context) (ReloadResult, error) {
	ds, err := s.provider.Reload(ctx)
	if err != nil {
		return ReloadResult{}, fmt.Errorf("dataset reload: %w", err)
	}

	s.logger.InfoContext(ctx, "dataset reloaded",
		slog.Int("medication_rows", len(ds.Medications)),
		slog.Int("forecast_rows", len(ds.Forecasts)))

	return ReloadResult{
		MedicationRows: len(ds.Medications),
		ForecastRows:   len(ds.Forecasts),
		LoadedAt:       ds.LoadedAt,
	}, nil
}
