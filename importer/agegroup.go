package importer

import "time"

// ReferenceYear anchors the age brackets. The pipeline pins it instead of
// deriving it from each transaction's date, so a bracket does not track
// transaction recency.
const ReferenceYear = 2024

// AgeGroupUnknown is the sentinel bracket for a missing birthdate.
const AgeGroupUnknown = "Unknown"

// AgeGroup maps a birthdate to one of four ordinal brackets relative to
// referenceYear.
func AgeGroup(birthdate *time.Time, referenceYear int) string {
	if birthdate == nil {
		return AgeGroupUnknown
	}
	age := referenceYear - birthdate.Year()
	switch {
	case age < 25:
		return "1) < 25"
	case age < 35:
		return "2) 25-34"
	case age < 45:
		return "3) 35-44"
	default:
		return "4) 45+"
	}
}
