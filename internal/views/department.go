package views

import (
	"sort"

	"medpulse/internal/dataset"
)

// departmentMedicineLimit caps the per-department medicine table. The
// truncation is global, applied after the two-level sort, so departments
// late in the ascending order can be absent from the output entirely.
const departmentMedicineLimit = 50

// DepartmentTotal is one department with its summed dispenses
type DepartmentTotal struct {
	EncounterClass string  `json:"encounter_class"`
	Dispenses      float64 `json:"dispenses"`
}

// DepartmentMedicine is one (department, medicine) pair with its summed
// dispenses
type DepartmentMedicine struct {
	EncounterClass string  `json:"encounter_class"`
	Description    string  `json:"description"`
	Dispenses      float64 `json:"dispenses"`
}

// DepartmentUsage is the department usage page payload. Available is false
// when the source has no encounter class column; that is a normal degraded
// mode, not an error.
type DepartmentUsage struct {
	Available    bool                 `json:"available"`
	Departments  []DepartmentTotal    `json:"departments,omitempty"`
	TopMedicines []DepartmentMedicine `json:"top_medicines,omitempty"`
}

// BuildDepartmentUsage aggregates dispenses per department and per
// (department, medicine) pair.
func BuildDepartmentUsage(ds *dataset.Dataset) DepartmentUsage {
	if !ds.MedicationSchema.HasEncounterClass {
		return DepartmentUsage{Available: false}
	}

	usage := DepartmentUsage{Available: true}

	// Output A: per-department totals, descending by dispenses. Rows with
	// a blank encounter class carry no department and form no group.
	totals := make(map[string]float64)
	for _, record := range ds.Medications {
		if record.EncounterClass == "" {
			continue
		}
		totals[record.EncounterClass] += record.Dispenses
	}

	usage.Departments = make([]DepartmentTotal, 0, len(totals))
	for class, dispenses := range totals {
		usage.Departments = append(usage.Departments, DepartmentTotal{
			EncounterClass: class,
			Dispenses:      dispenses,
		})
	}
	sort.Slice(usage.Departments, func(i, j int) bool {
		if usage.Departments[i].Dispenses != usage.Departments[j].Dispenses {
			return usage.Departments[i].Dispenses > usage.Departments[j].Dispenses
		}
		return usage.Departments[i].EncounterClass < usage.Departments[j].EncounterClass
	})

	// Output B: (department, medicine) totals, department ascending then
	// dispenses descending, truncated globally after the sort
	type key struct {
		class       string
		description string
	}
	pairs := make(map[key]float64)
	for _, record := range ds.Medications {
		if record.EncounterClass == "" || record.Description == "" {
			continue
		}
		pairs[key{record.EncounterClass, record.Description}] += record.Dispenses
	}

	usage.TopMedicines = make([]DepartmentMedicine, 0, len(pairs))
	for k, dispenses := range pairs {
		usage.TopMedicines = append(usage.TopMedicines, DepartmentMedicine{
			EncounterClass: k.class,
			Description:    k.description,
			Dispenses:      dispenses,
		})
	}
	sort.Slice(usage.TopMedicines, func(i, j int) bool {
		a, b := usage.TopMedicines[i], usage.TopMedicines[j]
		if a.EncounterClass != b.EncounterClass {
			return a.EncounterClass < b.EncounterClass
		}
		if a.Dispenses != b.Dispenses {
			return a.Dispenses > b.Dispenses
		}
		return a.Description < b.Description
	})

	if len(usage.TopMedicines) > departmentMedicineLimit {
		usage.TopMedicines = usage.TopMedicines[:departmentMedicineLimit]
	}

	return usage
}
