package views

import (
	"sort"

	"medpulse/internal/dataset"
	"medpulse/pkg/contracts/domain"
)

// ForecastComparison is the actual-vs-forecast payload for one medicine,
// intended for a grouped-by-type bar rendering.
type ForecastComparison struct {
	Medicine string                        `json:"medicine"`
	Rows     []domain.ActualForecastRecord `json:"rows"`

	// CategoryOrder fixes the series order for the chart. Types outside
	// this list are kept in the rows and render trailing.
	CategoryOrder []string `json:"category_order"`
}

// EligibleMedicines returns the medicines for which an actual-vs-forecast
// comparison is meaningful: at least two distinct observation types present
// somewhere in the series. The result is sorted ascending with no
// duplicates and forms the complete set of valid selections.
func EligibleMedicines(ds *dataset.Dataset) []string {
	types := make(map[string]map[string]bool)
	for _, record := range ds.Forecasts {
		if record.Medicine == "" {
			continue
		}
		if types[record.Medicine] == nil {
			types[record.Medicine] = make(map[string]bool)
		}
		types[record.Medicine][record.Type] = true
	}

	eligible := make([]string, 0, len(types))
	for medicine, observed := range types {
		if len(observed) >= 2 {
			eligible = append(eligible, medicine)
		}
	}

	sort.Strings(eligible)
	return eligible
}

// BuildForecastComparison returns all rows for the selected medicine,
// sorted ascending by year with Actual before Forecast within a year and
// unknown types trailing. The second return reports whether the medicine
// is in the eligibility set; selections outside it produce no comparison.
func BuildForecastComparison(ds *dataset.Dataset, medicine string) (ForecastComparison, bool) {
	comparison := ForecastComparison{
		Medicine:      medicine,
		CategoryOrder: []string{domain.ObservationActual, domain.ObservationForecast},
	}

	if !isEligible(ds, medicine) {
		return comparison, false
	}

	for _, record := range ds.Forecasts {
		if record.Medicine == medicine {
			comparison.Rows = append(comparison.Rows, record)
		}
	}

	sort.SliceStable(comparison.Rows, func(i, j int) bool {
		a, b := comparison.Rows[i], comparison.Rows[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if ra, rb := typeRank(a.Type), typeRank(b.Type); ra != rb {
			return ra < rb
		}
		return a.Type < b.Type
	})

	return comparison, true
}

// isEligible reports whether the medicine has at least two distinct
// observation types in the series
func isEligible(ds *dataset.Dataset, medicine string) bool {
	if medicine == "" {
		return false
	}
	observed := make(map[string]bool)
	for _, record := range ds.Forecasts {
		if record.Medicine == medicine {
			observed[record.Type] = true
			if len(observed) >= 2 {
				return true
			}
		}
	}
	return false
}

// typeRank orders the chart categories: Actual, Forecast, then the rest
func typeRank(observationType string) int {
	switch observationType {
	case domain.ObservationActual:
		return 0
	case domain.ObservationForecast:
		return 1
	default:
		return 2
	}
}
