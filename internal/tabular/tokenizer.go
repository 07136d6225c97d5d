package tabular

import "strings"

// Tokenize splits line into trimmed, non-empty fields using d.
// Double quotes group text containing the delimiter and "" is a literal
// quote. A line made only of delimiters yields no fields.
func Tokenize(line string, d Detection) []string {
	return split(line, d, false)
}

// TokenizeLine detects the delimiter of line and tokenizes it.
func TokenizeLine(line string) []string {
	return Tokenize(line, DetectDelimiter(line))
}

// SplitFields is Tokenize without dropping empty fields, so column
// positions survive blank cells.
func SplitFields(line string, d Detection) []string {
	return split(line, d, true)
}

// SplitLines returns the non-blank lines of text. CRLF and lone CR line
// endings are accepted.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func split(line string, d Detection, keepEmpty bool) []string {
	if d.SpaceDelimited {
		return splitSpaces(line, keepEmpty)
	}

	delim := d.Delimiter
	if delim == 0 {
		delim = ','
	}

	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)
	flush := func() {
		f := strings.TrimSpace(current.String())
		current.Reset()
		if f != "" || keepEmpty {
			fields = append(fields, f)
		}
	}

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			if i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case r == delim && !inQuotes:
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	if keepEmpty && allEmpty(fields) {
		return nil
	}
	return fields
}

func splitSpaces(line string, keepEmpty bool) []string {
	var fields []string
	for _, part := range multiSpaceRe.Split(strings.TrimSpace(line), -1) {
		part = strings.TrimSpace(part)
		if part == "" && !keepEmpty {
			continue
		}
		fields = append(fields, part)
	}
	if allEmpty(fields) {
		return nil
	}
	return fields
}

func allEmpty(fields []string) bool {
	for _, f := range fields {
		if f != "" {
			return false
		}
	}
	return true
}
