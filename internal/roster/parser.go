// Package roster parses pasted or exported employee rosters.
package roster

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/kinerja-cli/internal/model"
	"github.com/sells-group/kinerja-cli/internal/orglevel"
	"github.com/sells-group/kinerja-cli/internal/tabular"
)

// Placeholder fills optional columns that are blank.
const Placeholder = "-"

var headerKeywords = []string{"nama", "nip", "gol", "pangkat", "jabatan"}

// row is one tokenized roster line before defaults are applied.
type row struct {
	Name        string
	NIP         string
	Gol         string
	Pangkat     string
	Position    string
	SubPosition string
}

// Parser turns roster text into employee records.
type Parser struct {
	resolver *orglevel.Resolver
}

// NewParser returns a Parser that resolves levels with resolver.
func NewParser(resolver *orglevel.Resolver) *Parser {
	if resolver == nil {
		resolver = orglevel.NewResolver(nil)
	}
	return &Parser{resolver: resolver}
}

// Parse reads every data line of text. Lines without a name or golongan
// are skipped. Records keep input order and duplicates are not merged.
func (p *Parser) Parse(text string) ([]model.EmployeeRecord, error) {
	lines := dataLines(text)
	if lines == nil {
		return nil, eris.New("roster: input has no lines")
	}

	records := make([]model.EmployeeRecord, 0, len(lines))
	for _, l := range lines {
		r := splitRow(l.text)
		if r.Name == "" || r.Gol == "" {
			continue
		}
		records = append(records, p.record(r))
	}
	return records, nil
}

func (p *Parser) record(r row) model.EmployeeRecord {
	rec := model.EmployeeRecord{
		Name:        r.Name,
		NIP:         orPlaceholder(r.NIP),
		Gol:         r.Gol,
		Pangkat:     orPlaceholder(r.Pangkat),
		Position:    orPlaceholder(r.Position),
		SubPosition: orPlaceholder(r.SubPosition),
	}
	rec.OrganizationalLevel = p.resolver.Category(r.Position, r.SubPosition, r.Gol)
	return rec
}

type line struct {
	number int // 1-based position in the input
	text   string
}

// dataLines returns the non-blank lines of text without the header row.
// It returns nil when text has no lines at all.
func dataLines(text string) []line {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var out []line
	first := true
	for i, t := range strings.Split(text, "\n") {
		if strings.TrimSpace(t) == "" {
			continue
		}
		if first {
			first = false
			if IsHeader(t) {
				out = []line{}
				continue
			}
		}
		out = append(out, line{number: i + 1, text: t})
	}
	return out
}

// IsHeader reports whether a line names at least two roster columns.
func IsHeader(s string) bool {
	lower := strings.ToLower(s)
	n := 0
	for _, k := range headerKeywords {
		if strings.Contains(lower, k) {
			n++
		}
	}
	return n >= 2
}

// rowNumberWidth is the field count of the layout with a leading "No"
// column.
const rowNumberWidth = 7

// splitRow maps a line onto the roster columns. A purely numeric first
// field is a row number and is dropped. Tab-delimited lines keep blank
// cells so the columns stay aligned; other delimiters drop them. On a
// tab line a blank first cell is an empty row number when the line is
// wide enough to carry one.
func splitRow(s string) row {
	d := tabular.DetectDelimiter(s)
	var fields []string
	keepEmpty := d.Delimiter == '\t' && !d.SpaceDelimited
	if keepEmpty {
		fields = tabular.SplitFields(s, d)
	} else {
		fields = tabular.Tokenize(s, d)
	}
	if len(fields) > 0 {
		blankNumber := keepEmpty && fields[0] == "" && len(fields) >= rowNumberWidth
		if blankNumber || isNumeric(fields[0]) {
			fields = fields[1:]
		}
	}
	at := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}
	return row{
		Name:        at(0),
		NIP:         at(1),
		Gol:         at(2),
		Pangkat:     at(3),
		Position:    at(4),
		SubPosition: at(5),
	}
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}
