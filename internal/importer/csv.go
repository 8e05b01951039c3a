package importer

import (
	"strings"
)

// CSVData is a tokenized bank export.
type CSVData struct {
	Headers   []string
	Rows      [][]string
	Delimiter byte
}

// delimiters are tried in priority order; ties keep the earlier candidate.
var delimiters = []byte{',', ';', '\t', '|'}

// minFields is the smallest field count a data row may have.
const minFields = 2

// ParseCSV splits text into a header row and data rows. It never fails:
// input with fewer than two non-empty lines yields an empty CSVData, and data
// rows with fewer than two fields are dropped.
func ParseCSV(text string) CSVData {
	lines := splitLines(text)
	if len(lines) < 2 {
		return CSVData{}
	}

	delim := DetectDelimiter(lines[0])
	data := CSVData{
		Headers:   SplitFields(lines[0], delim),
		Delimiter: delim,
	}
	for _, line := range lines[1:] {
		fields := SplitFields(line, delim)
		if len(fields) < minFields {
			continue
		}
		data.Rows = append(data.Rows, fields)
	}
	return data
}

// DetectDelimiter returns the candidate delimiter that splits line into the
// most fields. Quotes are not considered.
func DetectDelimiter(line string) byte {
	best := delimiters[0]
	bestCount := len(strings.Split(line, string(best)))
	for _, d := range delimiters[1:] {
		if n := len(strings.Split(line, string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// SplitFields splits one line on delim, honoring double-quoted sections.
// A doubled quote inside quotes is a literal quote. Fields are trimmed.
func SplitFields(line string, delim byte) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"' && inQuotes && i+1 < len(line) && line[i+1] == '"':
			cur.WriteByte('"')
			i++
		case c == '"':
			inQuotes = !inQuotes
		case c == delim && !inQuotes:
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(fields, strings.TrimSpace(cur.String()))
}

// splitLines returns the non-blank lines of text, accepting LF or CRLF and
// dropping a leading byte order mark.
func splitLines(text string) []string {
	text = strings.TrimPrefix(text, "\ufeff")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
