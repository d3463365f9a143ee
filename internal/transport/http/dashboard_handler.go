package http

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "medpulse/internal/errors"
	custommiddleware "medpulse/internal/middleware"
	"medpulse/internal/services"
)

// DashboardHandler serves the dashboard view endpoints with RFC 7807
// error responses
type DashboardHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/overview", h.GetOverview)
	r.Get("/departments", h.GetDepartmentUsage)
	r.Get("/summary", h.GetExecutiveSummary)
	r.Post("/reload", h.Reload)

	r.Route("/forecast", func(r chi.Router) {
		r.Get("/medicines", h.GetForecastMedicines)
		r.Route("/{medicine}", func(r chi.Router) {
			r.Use(h.MedicineCtx)
			r.Get("/", h.GetForecastComparison)
		})
	})

	return r
}

// MedicineCtx middleware validates the medicine URL parameter
func (h *DashboardHandler) MedicineCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		medicine := chi.URLParam(r, "medicine")
		if medicine == "" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("medicine", "Medicine name is required"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetOverview handles GET /api/dashboard/overview
func (h *DashboardHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	reqID := custommiddleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "rendering overview",
		slog.String("request_id", reqID))

	overview, err := h.service.Overview(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   overview,
	})
}

// GetForecastMedicines handles GET /api/dashboard/forecast/medicines
func (h *DashboardHandler) GetForecastMedicines(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.service.ForecastMedicines(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   medicines,
		"count":  len(medicines),
	})
}

// GetForecastComparison handles GET /api/dashboard/forecast/{medicine}
func (h *DashboardHandler) GetForecastComparison(w http.ResponseWriter, r *http.Request) {
	medicine := chi.URLParam(r, "medicine")
	if decoded, err := url.PathUnescape(medicine); err == nil {
		medicine = decoded
	}

	h.logger.InfoContext(r.Context(), "rendering forecast comparison",
		slog.String("medicine", medicine))

	comparison, err := h.service.ForecastComparison(r.Context(), medicine)
	if err != nil {
		if errors.Is(err, services.ErrMedicineNotEligible) {
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusNotFound,
				"MEDICINE_NOT_FOUND",
				"Medicine not in the comparison eligibility set",
				medicine,
			))
			return
		}

		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   comparison,
	})
}

// GetDepartmentUsage handles GET /api/dashboard/departments
func (h *DashboardHandler) GetDepartmentUsage(w http.ResponseWriter, r *http.Request) {
	usage, err := h.service.DepartmentUsage(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   usage,
	})
}

// GetExecutiveSummary handles GET /api/dashboard/summary
func (h *DashboardHandler) GetExecutiveSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.ExecutiveSummary(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summary,
	})
}

// Reload handles POST /api/dashboard/reload
func (h *DashboardHandler) Reload(w http.ResponseWriter, r *http.Request) {
	reqID := custommiddleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "reloading dataset",
		slog.String("request_id", reqID))

	result, err := h.service.Reload(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
	})
}
