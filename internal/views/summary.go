package views

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"medpulse/internal/dataset"
)

// topCostCount is how many medicines the cost block of the executive
// summary lists
const topCostCount = 10

// MedicineCost is one medicine with its summed total cost
type MedicineCost struct {
	Description string  `json:"description"`
	TotalCost   float64 `json:"total_cost"`
}

// ExecutiveSummary composes the overview scalars with the optional cost
// and department blocks. Each optional block is independently omitted when
// its source column is absent.
type ExecutiveSummary struct {
	Metrics          OverviewMetrics   `json:"metrics"`
	TopCostMedicines []MedicineCost    `json:"top_cost_medicines,omitempty"`
	Departments      []DepartmentTotal `json:"departments,omitempty"`
	Narrative        string            `json:"narrative"`
}

// BuildExecutiveSummary assembles the executive summary page payload
func BuildExecutiveSummary(ds *dataset.Dataset) ExecutiveSummary {
	summary := ExecutiveSummary{
		Metrics: buildOverviewMetrics(ds),
	}

	if ds.MedicationSchema.HasTotalCost {
		summary.TopCostMedicines = topMedicinesByCost(ds, topCostCount)
	}

	if ds.MedicationSchema.HasEncounterClass {
		summary.Departments = BuildDepartmentUsage(ds).Departments
	}

	summary.Narrative = buildNarrative(summary.Metrics)
	return summary
}

// topMedicinesByCost returns the n medicines with the largest summed total
// cost, descending. Ties break by ascending medicine name; blank names
// never form a group.
func topMedicinesByCost(ds *dataset.Dataset, n int) []MedicineCost {
	sums := make(map[string]float64)
	for _, record := range ds.Medications {
		if record.Description == "" {
			continue
		}
		sums[record.Description] += record.TotalCost
	}

	costs := make([]MedicineCost, 0, len(sums))
	for medicine, cost := range sums {
		costs = append(costs, MedicineCost{Description: medicine, TotalCost: cost})
	}

	sort.Slice(costs, func(i, j int) bool {
		if costs[i].TotalCost != costs[j].TotalCost {
			return costs[i].TotalCost > costs[j].TotalCost
		}
		return costs[i].Description < costs[j].Description
	})

	if len(costs) > n {
		costs = costs[:n]
	}
	return costs
}

// buildNarrative renders the fixed narrative template. This is pure
// formatting of the headline scalars, not a computed insight, and keeps
// the literal wording of the dashboard's narrative block.
func buildNarrative(metrics OverviewMetrics) string {
	return fmt.Sprintf(`- **%s** medicine units dispensed across **%d** unique medicines.
- Ambulatory / wellness and other high-use departments can be identified from the department usage view.
- Forecasting page compares **Actual vs Forecast** values for each medicine across years.
- High-cost medicines can be targeted for tighter inventory and budget control.`,
		formatThousands(metrics.TotalDispenses), metrics.UniqueMedicines)
}

// formatThousands renders an integer with comma thousands separators
func formatThousands(n int64) string {
	digits := strconv.FormatInt(n, 10)
	negative := strings.HasPrefix(digits, "-")
	if negative {
		digits = digits[1:]
	}

	var parts []string
	for len(digits) > 3 {
		parts = append([]string{digits[len(digits)-3:]}, parts...)
		digits = digits[:len(digits)-3]
	}
	parts = append([]string{digits}, parts...)

	result := strings.Join(parts, ",")
	if negative {
		result = "-" + result
	}
	return result
}
