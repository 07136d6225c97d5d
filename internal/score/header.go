package score

import (
	"regexp"
	"strings"
)

var (
	leadingNumberRe = regexp.MustCompile(`^\s*\d+\.?\s*`)
	trailingBlockRe = regexp.MustCompile(`\s*\[[^\]]*\]\s*$`)
	bracketRe       = regexp.MustCompile(`\[([^\]]*)\]`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
)

// CleanCompetencyName strips the optional "<n>." prefix and the trailing
// "[...]" employee binding from a header cell.
//
//	CleanCompetencyName("1. Kualitas Kinerja [John Doe]") == "Kualitas Kinerja"
func CleanCompetencyName(header string) string {
	s := leadingNumberRe.ReplaceAllString(header, "")
	s = trailingBlockRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ExtractEmployeeName returns the text of the first [...] span with an
// optional "<n>." prefix removed. ok is false when the header has no
// bracket at all; "[]" yields "", true.
func ExtractEmployeeName(header string) (name string, ok bool) {
	m := bracketRe.FindStringSubmatch(header)
	if m == nil {
		return "", false
	}
	inner := leadingNumberRe.ReplaceAllString(m[1], "")
	return strings.TrimSpace(inner), true
}

// HasEmployeeBinding reports whether a cell carries a [...] span.
func HasEmployeeBinding(cell string) bool {
	return bracketRe.MatchString(cell)
}
