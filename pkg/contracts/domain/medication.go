package domain

import "time"

// MedicationUsageRecord represents one row of the medication dispensing
// summary: a medicine observed in a period, optionally attributed to an
// encounter class (department).
type MedicationUsageRecord struct {
	Description    string    `json:"description" csv:"DESCRIPTION"`
	Month          time.Time `json:"month,omitempty" csv:"MONTH"`
	Year           int       `json:"year,omitempty" csv:"YEAR"`
	Dispenses      float64   `json:"dispenses" csv:"DISPENSES"`
	TotalCost      float64   `json:"total_cost,omitempty" csv:"TOTALCOST"`
	EncounterClass string    `json:"encounter_class,omitempty" csv:"ENCOUNTERCLASS"`

	// HasYear reports whether Year was derivable from the source month
	// value. Rows with an unparseable month keep HasYear false and are
	// excluded by the load-time year filter.
	HasYear bool `json:"-"`
}

// MedicationSchema captures which optional columns were present in the
// medication summary source. Computed once at load time and threaded into
// every view so degraded modes are decided in one place.
type MedicationSchema struct {
	HasMonth          bool `json:"has_month"`
	HasTotalCost      bool `json:"has_total_cost"`
	HasEncounterClass bool `json:"has_encounter_class"`
}
