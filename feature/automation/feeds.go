package automation

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/normalize"
)

// ParseCSV reads a header-prefixed CSV feed into the key-value rows the
// normalizers consume. Short rows are padded with empty values; the header
// row defines the keys.
func ParseCSV(r io.Reader) ([]normalize.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("feeds: read csv header: %w", err)
	}

	var rows []normalize.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("feeds: read csv row %d: %w", len(rows)+2, err)
		}
		row := make(normalize.Row, len(header))
		for i, key := range header {
			if i < len(record) {
				row[strings.TrimSpace(key)] = record[i]
			} else {
				row[strings.TrimSpace(key)] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseICS splits an ICS calendar feed into one row per VEVENT, keyed by the
// raw ICS property names (DTSTART, DTEND, SUMMARY, UID). Value parameters
// like DTSTART;VALUE=DATE are stripped from the key. The property the feed
// belongs to is injected under "Property Name" so the normalizer can resolve
// it like any other source.
func ParseICS(r io.Reader, propertyName string) ([]normalize.Row, error) {
	var rows []normalize.Row
	var current normalize.Row

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		switch {
		case line == "BEGIN:VEVENT":
			current = normalize.Row{"Property Name": propertyName}
		case line == "END:VEVENT":
			if current != nil {
				rows = append(rows, current)
				current = nil
			}
		case current != nil:
			key, value, ok := strings.Cut(line, ":")
			if !ok {
				continue
			}
			// Drop parameters: "DTSTART;VALUE=DATE" -> "DTSTART".
			if idx := strings.Index(key, ";"); idx >= 0 {
				key = key[:idx]
			}
			current[key] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("feeds: read ics: %w", err)
	}
	return rows, nil
}
