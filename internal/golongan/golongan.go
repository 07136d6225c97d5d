// Package golongan parses Indonesian civil-service rank codes such as
// "IV/c", "3-b" or "ii c".
package golongan

import (
	"regexp"
	"strings"

	"github.com/sells-group/kinerja-cli/internal/model"
)

var golonganRe = regexp.MustCompile(`^[+-]?(IV|III|II|I|4|3|2|1)[ /-]?([A-E])$`)

var arabicToRoman = map[string]string{
	"1": "I",
	"2": "II",
	"3": "III",
	"4": "IV",
}

// Levels and Grades enumerate the parseable domain.
var (
	Levels = []string{"I", "II", "III", "IV"}
	Grades = []string{"a", "b", "c", "d", "e"}
)

// displayNames maps "<level>/<grade>" to the pangkat title.
// I/e, II/e and III/e are outside the official scale; they repeat the
// highest title of their level so every parseable code has a name.
var displayNames = map[string]string{
	"I/a": "Juru Muda",
	"I/b": "Juru Muda Tingkat I",
	"I/c": "Juru",
	"I/d": "Juru Tingkat I",
	"I/e": "Juru Tingkat I",

	"II/a": "Pengatur Muda",
	"II/b": "Pengatur Muda Tingkat I",
	"II/c": "Pengatur",
	"II/d": "Pengatur Tingkat I",
	"II/e": "Pengatur Tingkat I",

	"III/a": "Penata Muda",
	"III/b": "Penata Muda Tingkat I",
	"III/c": "Penata",
	"III/d": "Penata Tingkat I",
	"III/e": "Penata Tingkat I",

	"IV/a": "Pembina",
	"IV/b": "Pembina Tingkat I",
	"IV/c": "Pembina Utama Muda",
	"IV/d": "Pembina Utama Madya",
	"IV/e": "Pembina Utama",
}

// Parse normalizes raw (trim, uppercase) and decodes it. Arabic levels
// are mapped to Roman numerals. Anything that does not match the full
// pattern is rejected; there is no best-effort partial result.
func Parse(raw string) (model.Golongan, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	m := golonganRe.FindStringSubmatch(s)
	if m == nil {
		return model.Golongan{}, false
	}

	level := m[1]
	if roman, ok := arabicToRoman[level]; ok {
		level = roman
	}
	grade := strings.ToLower(m[2])
	formatted := Format(level, grade)

	return model.Golongan{
		Level:       level,
		Grade:       grade,
		Formatted:   formatted,
		DisplayName: displayNames[formatted],
	}, true
}

// Format renders a level and grade as "<level>/<grade>".
func Format(level, grade string) string {
	return level + "/" + strings.ToLower(grade)
}

// IsValid reports whether raw parses.
func IsValid(raw string) bool {
	_, ok := Parse(raw)
	return ok
}

// DisplayName returns the pangkat title for raw, or "" when raw is invalid.
func DisplayName(raw string) string {
	g, ok := Parse(raw)
	if !ok {
		return ""
	}
	return g.DisplayName
}

// EmployeeStatus classifies an employee as ASN when their golongan has the
// structured civil-service format, otherwise Non-ASN.
func EmployeeStatus(raw string) string {
	if IsValid(raw) {
		return model.StatusASN
	}
	return model.StatusNonASN
}
