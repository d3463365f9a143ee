package views

import (
	"sort"

	"medpulse/internal/dataset"
)

// topMedicineCount is how many medicines the overview trend tracks
const topMedicineCount = 5

// OverviewMetrics holds the three headline scalars. TotalCost is nil when
// the source has no cost column: the true cost is unknown, not zero.
type OverviewMetrics struct {
	TotalDispenses  int64    `json:"total_dispenses"`
	UniqueMedicines int      `json:"unique_medicines"`
	TotalCost       *float64 `json:"total_cost"`
}

// TrendPoint is one bar of the top-medicines trend chart: summed dispenses
// for a medicine in a year.
type TrendPoint struct {
	Medicine  string  `json:"medicine"`
	Year      int     `json:"year"`
	Dispenses float64 `json:"dispenses"`
}

// Overview is the dashboard overview page payload
type Overview struct {
	Metrics        OverviewMetrics `json:"metrics"`
	TopMedicines   []string        `json:"top_medicines"`
	Trend          []TrendPoint    `json:"trend"`
	TrendAvailable bool            `json:"trend_available"`
}

// BuildOverview computes the overview metrics and the five-year trend for
// the top medicines by all-time summed dispenses.
func BuildOverview(ds *dataset.Dataset) Overview {
	overview := Overview{
		Metrics:        buildOverviewMetrics(ds),
		TrendAvailable: ds.MedicationSchema.HasMonth,
	}

	overview.TopMedicines = topMedicinesByDispenses(ds, topMedicineCount)

	if !overview.TrendAvailable {
		return overview
	}

	// One point per (medicine, year), summed, restricted to the top set
	topSet := make(map[string]bool, len(overview.TopMedicines))
	for _, medicine := range overview.TopMedicines {
		topSet[medicine] = true
	}

	type key struct {
		medicine string
		year     int
	}
	sums := make(map[key]float64)
	for _, record := range ds.Medications {
		if !topSet[record.Description] {
			continue
		}
		sums[key{record.Description, record.Year}] += record.Dispenses
	}

	overview.Trend = make([]TrendPoint, 0, len(sums))
	for k, dispenses := range sums {
		overview.Trend = append(overview.Trend, TrendPoint{
			Medicine:  k.medicine,
			Year:      k.year,
			Dispenses: dispenses,
		})
	}

	sort.Slice(overview.Trend, func(i, j int) bool {
		if overview.Trend[i].Medicine != overview.Trend[j].Medicine {
			return overview.Trend[i].Medicine < overview.Trend[j].Medicine
		}
		return overview.Trend[i].Year < overview.Trend[j].Year
	})

	return overview
}

// buildOverviewMetrics computes the three headline scalars. Scalar sums
// cover every row; the unique count skips blank medicine names, which are
// missing values, not a medicine.
func buildOverviewMetrics(ds *dataset.Dataset) OverviewMetrics {
	var totalDispenses float64
	var totalCost float64
	unique := make(map[string]bool)

	for _, record := range ds.Medications {
		totalDispenses += record.Dispenses
		totalCost += record.TotalCost
		if record.Description != "" {
			unique[record.Description] = true
		}
	}

	metrics := OverviewMetrics{
		TotalDispenses:  int64(totalDispenses),
		UniqueMedicines: len(unique),
	}

	if ds.MedicationSchema.HasTotalCost {
		metrics.TotalCost = &totalCost
	}

	return metrics
}

// topMedicinesByDispenses returns the n medicines with the largest
// all-time summed dispenses. Ties break by ascending medicine name; blank
// names never form a group.
func topMedicinesByDispenses(ds *dataset.Dataset, n int) []string {
	sums := make(map[string]float64)
	for _, record := range ds.Medications {
		if record.Description == "" {
			continue
		}
		sums[record.Description] += record.Dispenses
	}

	medicines := make([]string, 0, len(sums))
	for medicine := range sums {
		medicines = append(medicines, medicine)
	}

	sort.Slice(medicines, func(i, j int) bool {
		if sums[medicines[i]] != sums[medicines[j]] {
			return sums[medicines[i]] > sums[medicines[j]]
		}
		return medicines[i] < medicines[j]
	})

	if len(medicines) > n {
		medicines = medicines[:n]
	}
	return medicines
}
