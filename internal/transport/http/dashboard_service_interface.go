package http

import (
	"context"

	"medpulse/internal/services"
	"medpulse/internal/views"
)

// DashboardServiceInterface defines the service contract the dashboard
// handler depends on. Kept as an interface so handler tests can substitute
// a mock service.
type DashboardServiceInterface interface {
	Overview(ctx context.Context) (views.Overview, error)
	ForecastMedicines(ctx context.Context) ([]string, error)
	ForecastComparison(ctx context.Context, medicine string) (views.ForecastComparison, error)
	DepartmentUsage(ctx context.Context) (views.DepartmentUsage, error)
	ExecutiveSummary(ctx context.Context) (views.ExecutiveSummary, error)
	Reload(ctx context.Context) (services.ReloadResult, error)
}
