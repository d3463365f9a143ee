package dataset

import (
	"time"

	"medpulse/pkg/contracts/domain"
)

// Year bounds applied at load time. Rows outside this inclusive range are
// dropped and never reappear in any downstream view.
const (
	MinYear = 2020
	MaxYear = 2025
)

// Dataset holds both normalized tables plus the schema capability flags
// computed at load time. It is immutable after load: every view produces
// new derived values and never mutates these slices.
type Dataset struct {
	Medications      []domain.MedicationUsageRecord
	Forecasts        []domain.ActualForecastRecord
	MedicationSchema domain.MedicationSchema
	ForecastSchema   domain.ForecastSchema
	LoadedAt         time.Time
}
