// Package score normalizes raw performance cells and decodes the
// "<n>. <Competency> [<Employee>]" header convention.
package score

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Rating labels and their fixed numeric values.
const (
	LabelSangatBaik = "Sangat Baik"
	LabelBaik       = "Baik"
	LabelKurangBaik = "Kurang Baik"
)

// ratingValues must be checked longest label first so "Kurang Baik" and
// "Sangat Baik" are never read as "Baik".
var ratingValues = []struct {
	Label string
	Value float64
}{
	{LabelSangatBaik, 85},
	{LabelKurangBaik, 65},
	{LabelBaik, 75},
}

// Valid score range for the strict path.
const (
	MinScore = 0
	MaxScore = 100
)

// RatingValue returns the fixed value of a rating label, matched
// case-insensitively after trimming.
func RatingValue(raw string) (float64, bool) {
	s := strings.Join(strings.Fields(raw), " ")
	for _, r := range ratingValues {
		if strings.EqualFold(s, r.Label) {
			return r.Value, true
		}
	}
	return 0, false
}

// ParseScore is the strict path used for CSV validation. Blank cells,
// unparseable text and values outside [0,100] report ok=false; a blank
// cell is "not rated", never zero.
func ParseScore(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if v, ok := RatingValue(s); ok {
		return v, true
	}
	v, err := parseNumber(s)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	if v < MinScore || v > MaxScore {
		return 0, false
	}
	return v, true
}

// ConvertScoreToNumber is the last-resort coercion: labels map to their
// value, numbers parse, and anything else (including blank) becomes 0.
func ConvertScoreToNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	if v, ok := RatingValue(s); ok {
		return v
	}
	v, err := cast.ToFloat64E(strings.ReplaceAll(s, ",", "."))
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// NormalizeNumericScore applies the legacy discretization: 10 and 65
// become 65, 75 stays 75, anything above 75 becomes 85. Other values pass
// through unchanged.
func NormalizeNumericScore(v float64) float64 {
	switch {
	case v == 10, v == 65:
		return 65
	case v == 75:
		return 75
	case v > 75:
		return 85
	default:
		return v
	}
}

// ParseScoreValue is ParseScore followed by NormalizeNumericScore. It is
// only used when the legacy remap is enabled for an import.
func ParseScoreValue(raw string) (float64, bool) {
	v, ok := ParseScore(raw)
	if !ok {
		return 0, false
	}
	return NormalizeNumericScore(v), true
}

// parseNumber accepts a dot or a comma as decimal separator.
func parseNumber(s string) (float64, error) {
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return strconv.ParseFloat(s, 64)
}
