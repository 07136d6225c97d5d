// Package orglevel infers an employee's organizational category from
// their position title, department text and golongan.
package orglevel

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	punctuationRe  = regexp.MustCompile(`[^a-z0-9\s]+`)
	spacesRe       = regexp.MustCompile(`\s+`)
	abbreviationRe = regexp.MustCompile(`\b(kasubbag|kasubag|kasubid|kasubbid|kasie|kasi|kabag|kabid|kadis|kaban|ka|kep|plt|plh|sekdis|sekban|sekda|subbag|subbid|subbagian|subbidang|bag|bid|upt|uptd)\b`)
)

// abbreviations expands common shorthand in Indonesian position titles.
var abbreviations = map[string]string{
	"kasubbag":  "kepala sub bagian",
	"kasubag":   "kepala sub bagian",
	"kasubid":   "kepala sub bidang",
	"kasubbid":  "kepala sub bidang",
	"kasie":     "kepala seksi",
	"kasi":      "kepala seksi",
	"kabag":     "kepala bagian",
	"kabid":     "kepala bidang",
	"kadis":     "kepala dinas",
	"kaban":     "kepala badan",
	"ka":        "kepala",
	"kep":       "kepala",
	"plt":       "pelaksana tugas",
	"plh":       "pelaksana harian",
	"sekdis":    "sekretaris dinas",
	"sekban":    "sekretaris badan",
	"sekda":     "sekretaris daerah",
	"subbag":    "sub bagian",
	"subbid":    "sub bidang",
	"subbagian": "sub bagian",
	"subbidang": "sub bidang",
	"bag":       "bagian",
	"bid":       "bidang",
	"upt":       "unit pelaksana teknis",
	"uptd":      "unit pelaksana teknis daerah",
}

// Normalize lowercases s, folds diacritics, turns punctuation into
// spaces, expands abbreviations and collapses whitespace.
func Normalize(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	// Chained transformers carry state, so each call builds its own.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	out := strings.ToLower(folded)
	out = punctuationRe.ReplaceAllString(out, " ")
	out = spacesRe.ReplaceAllString(out, " ")
	out = abbreviationRe.ReplaceAllStringFunc(out, func(w string) string {
		return abbreviations[w]
	})
	return strings.TrimSpace(out)
}
