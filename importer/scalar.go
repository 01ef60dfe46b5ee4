package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var zeroDecimal, _ = primitive.ParseDecimal128("0.0")

// ToDecimal parses a monetary field into an exact Decimal128. Malformed
// input yields the zero decimal: a known lossy default for dirty amount
// columns, never an error.
func ToDecimal(raw string) primitive.Decimal128 {
	d, err := primitive.ParseDecimal128(strings.TrimSpace(raw))
	if err != nil {
		return zeroDecimal
	}
	return d
}

// ToOptionalInt parses a nullable identifier column. Empty, non-numeric and
// NaN-like values mean the reference is absent. Float-looking identifiers
// such as "104.0" are accepted and truncated.
func ToOptionalInt(raw string) *int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	v := int(f)
	return &v
}

// RequireInt parses a structurally mandatory identifier. Unlike
// ToOptionalInt, a failure here is an error the caller reports row-scoped.
// The same float tolerance applies.
func RequireInt(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a valid identifier: %q", raw)
	}
	return int(f), nil
}

// timestampLayouts are tried in order. The source mixes ISO date-times with
// and without the T separator, plus date-only fields.
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ParseTimestamp parses a timezone-naive timestamp. Timestamps are assumed
// well-formed in the source, so a failure propagates to the caller.
func ParseTimestamp(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", raw)
}
