package timesheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

const utf8BOM = "\ufeff"

// ParseRows reads a comma-separated timesheet with a header row and
// returns one record per data row, keyed by header name.
//
// Empty lines are skipped and rows with fewer or more fields than the
// header are kept; missing trailing fields are absent from the record.
func ParseRows(r io.Reader) ([]RawRecord, error) {
	if r == nil {
		return nil, ErrInputMissing
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w The file has no header row.", ErrInputFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("%w %v", ErrInputFormat, err)
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)

	rows := []RawRecord{}
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w %v", ErrInputFormat, err)
		}

		if isBlank(fields) {
			continue
		}

		row := make(RawRecord, len(header))
		for i, name := range header {
			if i >= len(fields) {
				break
			}
			row[name] = fields[i]
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// isBlank reports whether a row only holds empty fields, such as the
// ",,,," lines spreadsheet tools append to exports.
func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
