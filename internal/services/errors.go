package services

import "errors"

// Sentinel errors returned by the dashboard service. Handlers map these to
// problem documents.
var (
	// ErrMedicineNotEligible is returned when a forecast comparison is
	// requested for a medicine outside the eligibility set.
	ErrMedicineNotEligible = errors.New("medicine is not in the comparison eligibility set")
)
