package orglevel

import (
	"regexp"

	"github.com/sells-group/kinerja-cli/internal/model"
)

// Pattern matches a normalized search context. A context matches when
// Include matches and Exclude (if set) does not.
type Pattern struct {
	Name    string
	Include *regexp.Regexp
	Exclude *regexp.Regexp
}

// Match reports whether the pattern accepts s.
func (p Pattern) Match(s string) bool {
	if !p.Include.MatchString(s) {
		return false
	}
	return p.Exclude == nil || !p.Exclude.MatchString(s)
}

// Family is the set of patterns that emits one category.
type Family struct {
	Category model.OrganizationalCategory
	Patterns []Pattern
}

// Match reports the first pattern of f accepting s.
func (f Family) Match(s string) (Pattern, bool) {
	for _, p := range f.Patterns {
		if p.Match(s) {
			return p, true
		}
	}
	return Pattern{}, false
}

func pattern(name, include string) Pattern {
	return Pattern{Name: name, Include: regexp.MustCompile(include)}
}

func patternExcept(name, include, exclude string) Pattern {
	return Pattern{Name: name, Include: regexp.MustCompile(include), Exclude: regexp.MustCompile(exclude)}
}

// EselonIIPatterns recognize heads of agencies and departments.
var EselonIIPatterns = []Pattern{
	pattern("kepala dinas", `\bkepala dinas\b`),
	pattern("kepala badan", `\bkepala badan\b`),
	pattern("kepala biro", `\bkepala biro\b`),
	pattern("kepala satuan", `\bkepala satuan polisi pamong praja\b`),
	pattern("direktur utama", `\bdirektur utama\b`),
	pattern("direktur rumah sakit", `\bdirektur (rumah sakit|rsud|rsj)\b`),
	pattern("sekretaris daerah", `\bsekretaris daerah\b`),
	pattern("asisten sekretaris daerah", `\basisten (sekretaris daerah|pemerintahan|perekonomian|administrasi)\b`),
	patternExcept("inspektur", `\binspektur\b`, `\binspektur pembantu\b`),
	pattern("staf ahli", `\bstaf+ ahli\b`),
}

// EselonIIIPatterns recognize division heads. A bare "kepala bagian"
// followed by umum/keuangan/kepegawaian is a section of the secretariat
// and belongs to Eselon IV.
var EselonIIIPatterns = []Pattern{
	pattern("kepala bidang", `\bkepala bidang\b`),
	pattern("sekretaris dinas", `\bsekretaris (dinas|badan|inspektorat|dprd)\b`),
	patternExcept("kepala bagian", `\bkepala bagian\b`, `\bkepala bagian (umum|keuangan|kepegawaian)\b`),
	pattern("inspektur pembantu", `\binspektur pembantu\b`),
	pattern("kepala unit pelaksana teknis", `\bkepala unit pelaksana teknis\b`),
	pattern("kepala panti", `\bkepala panti\b`),
	patternExcept("camat", `\bcamat\b`, `\bsekretaris camat\b`),
	pattern("wakil direktur", `\bwakil direktur\b`),
}

// EselonIVPatterns recognize section and sub-division heads.
var EselonIVPatterns = []Pattern{
	pattern("kepala sub bagian", `\bkepala sub ?bagian\b`),
	pattern("kepala sub bidang", `\bkepala sub ?bidang\b`),
	pattern("kepala seksi", `\bkepala seksi\b`),
	pattern("kepala bagian sekretariat", `\bkepala bagian (umum|keuangan|kepegawaian)\b`),
	pattern("kepala tata usaha", `\bkepala (sub bagian )?tata usaha\b`),
	pattern("sekretaris camat", `\bsekretaris camat\b`),
	pattern("lurah", `\blurah\b`),
	pattern("kepala instalasi", `\bkepala instalasi\b`),
}

// StaffPatterns recognize individual-contributor titles.
var StaffPatterns = []Pattern{
	pattern("staf", `\bstaf+\b`),
	pattern("analis", `\banalis\b`),
	pattern("operator", `\boperator\b`),
	pattern("fungsional", `\bfungsional\b`),
	pattern("pengadministrasi", `\bpengadministrasi\b`),
	pattern("pengelola", `\bpengelola\b`),
	pattern("pranata", `\bpranata\b`),
	pattern("penyuluh", `\bpenyuluh\b`),
	pattern("pekerja sosial", `\bpekerja sosial\b`),
	pattern("bendahara", `\bbendahara\b`),
	pattern("arsiparis", `\barsiparis\b`),
	pattern("verifikator", `\bverifikator\b`),
	pattern("pengemudi", `\b(pengemudi|sopir|supir)\b`),
	pattern("pramu", `\b(pramu|caraka|petugas)\b`),
	pattern("teknisi", `\bteknisi\b`),
	pattern("pelaksana", `\bpelaksana\b`),
	pattern("honorer", `\b(honorer|tenaga kontrak|pppk|p3k)\b`),
}

// Families is the classification order; the first matching family wins.
var Families = []Family{
	{Category: model.CategoryEselonII, Patterns: EselonIIPatterns},
	{Category: model.CategoryEselonIII, Patterns: EselonIIIPatterns},
	{Category: model.CategoryEselonIV, Patterns: EselonIVPatterns},
	{Category: model.CategoryStaff, Patterns: StaffPatterns},
}

// PatternsFor returns the pattern table for a category, or nil.
func PatternsFor(c model.OrganizationalCategory) []Pattern {
	for _, f := range Families {
		if f.Category == c {
			return f.Patterns
		}
	}
	return nil
}
