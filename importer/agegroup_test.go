package importer_test

import (
	"testing"
	"time"

	"github.com/nikolastojicic02/mongodb-schema-optimization/importer"
)

func TestAgeGroupBoundaries(t *testing.T) {
	cases := []struct {
		birthYear int
		want      string
	}{
		{2000, "1) < 25"},  // age 24
		{1999, "2) 25-34"}, // age 25
		{1990, "2) 25-34"}, // age 34
		{1989, "3) 35-44"}, // age 35
		{1980, "3) 35-44"}, // age 44
		{1979, "4) 45+"},   // age 45
	}
	for _, c := range cases {
		birthdate := time.Date(c.birthYear, time.March, 15, 0, 0, 0, 0, time.UTC)
		got := importer.AgeGroup(&birthdate, 2024)
		if got != c.want {
			t.Errorf("AgeGroup(%d, 2024) = %q, want %q", c.birthYear, got, c.want)
		}
	}
}

func TestAgeGroupMissingBirthdate(t *testing.T) {
	got := importer.AgeGroup(nil, importer.ReferenceYear)
	if got != importer.AgeGroupUnknown {
		t.Errorf("AgeGroup(nil) = %q, want %q", got, importer.AgeGroupUnknown)
	}
}
