// Package tabular splits pasted spreadsheet text (CSV, TSV or
// space-aligned columns) into lines and fields.
package tabular

import (
	"regexp"
	"strings"
)

var (
	quotedSpanRe = regexp.MustCompile(`"[^"]*"`)
	multiSpaceRe = regexp.MustCompile(` {2,}`)
)

// Detection is the outcome of DetectDelimiter for a single line.
type Detection struct {
	Delimiter      rune `json:"delimiter"`
	SpaceDelimited bool `json:"space_delimited"`
}

// Comma is the fallback detection.
var Comma = Detection{Delimiter: ','}

// DetectDelimiter classifies a line as tab, multi-space or comma separated.
// Quoted spans are ignored when counting. Rules, in order:
//   - any tab: tab
//   - runs of 2+ spaces and no comma: space-delimited
//   - otherwise: comma
func DetectDelimiter(line string) Detection {
	bare := quotedSpanRe.ReplaceAllString(line, "")

	if strings.ContainsRune(bare, '\t') {
		return Detection{Delimiter: '\t'}
	}

	commas := strings.Count(bare, ",")
	spaceRuns := len(multiSpaceRe.FindAllStringIndex(bare, -1))
	if spaceRuns > 0 && commas == 0 {
		return Detection{Delimiter: ' ', SpaceDelimited: true}
	}

	return Comma
}
