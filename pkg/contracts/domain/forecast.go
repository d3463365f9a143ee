package domain

// Observation types present in the actual-vs-forecast series. Other values
// are tolerated in the source and carried through, but only these two drive
// the comparison eligibility rule.
const (
	ObservationActual   = "Actual"
	ObservationForecast = "Forecast"
)

// ActualForecastRecord represents one row of the combined actual/forecast
// series: a measured or predicted dispense quantity for a medicine-year.
type ActualForecastRecord struct {
	Medicine string  `json:"medicine" csv:"Medicine"`
	Year     int     `json:"year" csv:"Year"`
	Type     string  `json:"type" csv:"Type"`
	Value    float64 `json:"value" csv:"Value"`
}

// ForecastSchema captures which optional columns were present in the
// actual/forecast source.
type ForecastSchema struct {
	HasYear bool `json:"has_year"`
}
