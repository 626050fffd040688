package bankimport

import "strings"

// Row maps a header name to the raw field value of one statement line.
type Row map[string]string

// ParseCSV splits decoded statement text into header-keyed rows.
//
// Bank exports in this format are unquoted, so a plain comma split is the
// correct reading: encoding/csv would reject lines the bank emits (stray
// quotes, ragged columns) instead of dropping them. The first non-empty line
// is the header row; data lines that are blank or whose field count differs
// from the header count are silently skipped.
func ParseCSV(text string) []Row {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	lines := strings.Split(trimmed, "\n")
	headers := splitFields(lines[0])

	rows := make([]Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}

		values := splitFields(line)
		if len(values) != len(headers) {
			continue
		}

		row := make(Row, len(headers))
		for i, h := range headers {
			row[h] = values[i]
		}
		rows = append(rows, row)
	}

	return rows
}

// splitFields splits on comma and trims each field. Trimming also strips the
// \r left over from CRLF line endings.
func splitFields(line string) []string {
	fields := strings.Split(line, ",")
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}
