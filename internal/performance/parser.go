// Package performance parses competency score sheets whose header cells
// bind each column to an employee, as in "1. Integritas [Budi]".
package performance

import (
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/sells-group/kinerja-cli/internal/model"
	"github.com/sells-group/kinerja-cli/internal/orglevel"
	"github.com/sells-group/kinerja-cli/internal/score"
	"github.com/sells-group/kinerja-cli/internal/tabular"
)

// DefaultLevel is used when no source names a level for an employee.
const DefaultLevel = "Staff/Other"

// levelHeaders are header names of the free-text organizational level
// column, compared after cleaning and lowercasing.
var levelHeaders = map[string]bool{
	"organizational level": true,
	"organisational level": true,
	"level organisasi":     true,
	"tingkat organisasi":   true,
	"level jabatan":        true,
	"jenis jabatan":        true,
	"eselon":               true,
}

// eselonRe finds an explicit tier inside longer level text such as
// "Eselon III.a" or "Jabatan Eselon 4".
var eselonRe = regexp.MustCompile(`(?i)\beselon\s*(iv|iii|ii|4|3|2)\b`)

var eselonTiers = map[string]model.OrganizationalCategory{
	"ii": model.CategoryEselonII, "2": model.CategoryEselonII,
	"iii": model.CategoryEselonIII, "3": model.CategoryEselonIII,
	"iv": model.CategoryEselonIV, "4": model.CategoryEselonIV,
}

// Mappings are name to level lookups supplied by the caller. Dynamic
// holds in-session overrides, Static the stored roster levels.
type Mappings struct {
	Dynamic map[string]string
	Static  map[string]string
}

// Options tune score parsing.
type Options struct {
	// LegacyRemap applies score.NormalizeNumericScore to numeric cells.
	LegacyRemap bool
}

// Parser turns a score sheet into per-employee competency averages.
type Parser struct {
	resolver *orglevel.Resolver
	opts     Options
}

// NewParser returns a Parser resolving free-text levels with resolver.
func NewParser(resolver *orglevel.Resolver, opts Options) *Parser {
	if resolver == nil {
		resolver = orglevel.NewResolver(nil)
	}
	return &Parser{resolver: resolver, opts: opts}
}

type column struct {
	competency string
	employee   string
}

// accumulator keeps first-seen order of employees and competencies.
type accumulator struct {
	employees []string
	scores    map[string]*employeeScores
}

type employeeScores struct {
	competencies []string
	values       map[string][]decimal.Decimal
}

func newAccumulator() *accumulator {
	return &accumulator{scores: make(map[string]*employeeScores)}
}

func (a *accumulator) seen(employee string) *employeeScores {
	es, ok := a.scores[employee]
	if !ok {
		es = &employeeScores{values: make(map[string][]decimal.Decimal)}
		a.scores[employee] = es
		a.employees = append(a.employees, employee)
	}
	return es
}

func (a *accumulator) add(employee, competency string, v float64) {
	es := a.seen(employee)
	if _, ok := es.values[competency]; !ok {
		es.competencies = append(es.competencies, competency)
	}
	es.values[competency] = append(es.values[competency], decimal.NewFromFloat(v))
}

// Parse reads text whose first line is the header. Observations of the
// same (employee, competency) pair are averaged to two decimals and
// employees with no valid score are left out.
func (p *Parser) Parse(text string, m Mappings) ([]model.Employee, error) {
	lines := tabular.SplitLines(text)
	if len(lines) == 0 {
		return nil, eris.New("performance: input has no lines")
	}
	if len(lines) < 2 {
		return nil, eris.New("performance: input has a header but no data rows")
	}

	header := tabular.SplitFields(lines[0], tabular.DetectDelimiter(lines[0]))
	columns := make([]column, len(header))
	levelCol := -1
	levelEmployee := ""
	acc := newAccumulator()
	for i, h := range header {
		comp := score.CleanCompetencyName(h)
		emp, _ := score.ExtractEmployeeName(h)
		if levelCol < 0 && isLevelHeader(comp) {
			levelCol, levelEmployee = i, emp
			continue
		}
		columns[i] = column{competency: comp, employee: emp}
		if emp != "" {
			acc.seen(emp)
		}
	}

	// A data row that starts with a label cell has one more field than a
	// header without its own label column.
	offset := 0
	if len(header) > 0 && score.HasEmployeeBinding(header[0]) {
		offset = 1
	}

	columnLevel := ""
	for n, l := range lines[1:] {
		cells := tabular.SplitFields(l, tabular.DetectDelimiter(l))
		if len(cells) == 0 {
			continue
		}

		shift, rowCompetency := 0, ""
		if score.HasEmployeeBinding(cells[0]) {
			shift, rowCompetency = offset, score.CleanCompetencyName(cells[0])
		}
		if n == 0 && levelCol >= 0 && levelCol+shift < len(cells) {
			columnLevel = strings.TrimSpace(cells[levelCol+shift])
		}

		for i, col := range columns {
			if col.employee == "" {
				continue
			}
			j := i + shift
			if j >= len(cells) {
				break
			}
			v, ok := p.parseCell(cells[j])
			if !ok {
				continue
			}
			comp := col.competency
			if rowCompetency != "" {
				comp = rowCompetency
			}
			acc.add(col.employee, comp, v)
		}
	}

	out := make([]model.Employee, 0, len(acc.employees))
	for _, name := range acc.employees {
		es := acc.scores[name]
		if len(es.competencies) == 0 {
			continue
		}
		colValue := ""
		if levelEmployee == "" || levelEmployee == name {
			colValue = columnLevel
		}
		emp := model.Employee{
			Name:                name,
			OrganizationalLevel: p.category(SelectLevel(colValue, lookup(m.Dynamic, name), lookup(m.Static, name))),
			Performance:         make([]model.CompetencyScore, 0, len(es.competencies)),
		}
		for _, c := range es.competencies {
			emp.Performance = append(emp.Performance, model.CompetencyScore{Name: c, Score: mean(es.values[c])})
		}
		out = append(out, emp)
	}
	return out, nil
}

func (p *Parser) parseCell(raw string) (float64, bool) {
	if p.opts.LegacyRemap {
		return score.ParseScoreValue(raw)
	}
	return score.ParseScore(raw)
}

func (p *Parser) category(level string) model.OrganizationalCategory {
	if c, ok := model.ParseCategory(level); ok {
		return c
	}
	if m := eselonRe.FindStringSubmatch(level); m != nil {
		return eselonTiers[strings.ToLower(m[1])]
	}
	return p.resolver.Category(level, "", "")
}

// SelectLevel picks the level text for an employee from candidates in
// priority order. Any candidate mentioning "eselon" wins; otherwise the
// first non-empty one; otherwise DefaultLevel.
func SelectLevel(candidates ...string) string {
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c), "eselon") {
			return strings.TrimSpace(c)
		}
	}
	for _, c := range candidates {
		if s := strings.TrimSpace(c); s != "" {
			return s
		}
	}
	return DefaultLevel
}

// lookup finds name in m by exact key, then by trimmed key, then
// case-insensitively. Keys are tried in sorted order so near-duplicate
// spellings always resolve the same way.
func lookup(m map[string]string, name string) string {
	if v, ok := m[name]; ok {
		return v
	}
	name = strings.TrimSpace(name)
	keys := slices.Sorted(maps.Keys(m))
	for _, k := range keys {
		if strings.TrimSpace(k) == name {
			return m[k]
		}
	}
	for _, k := range keys {
		if strings.EqualFold(strings.TrimSpace(k), name) {
			return m[k]
		}
	}
	return ""
}

func isLevelHeader(cleaned string) bool {
	s := strings.ToLower(strings.ReplaceAll(cleaned, "_", " "))
	return levelHeaders[strings.Join(strings.Fields(s), " ")]
}

func mean(values []decimal.Decimal) float64 {
	if len(values) == 0 {
		return 0
	}
	avg := decimal.Sum(values[0], values[1:]...).Div(decimal.NewFromInt(int64(len(values))))
	return avg.Round(2).InexactFloat64()
}
