package timesheet

import (
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Normalizer validates raw rows and converts them into entries.
type Normalizer struct {
	slog *slog.Logger
}

func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{slog: logger}
}

// Normalize converts rows with [NewNormalizer] and the default logger.
func Normalize(rows []RawRecord) ([]Entry, error) {
	return NewNormalizer(nil).Normalize(rows)
}

// Normalize keeps every row with a non-empty date and a finite,
// non-negative hours value. Other rows are dropped without error.
// It fails with [ErrEmptyResult] when no row survives.
func (n *Normalizer) Normalize(rows []RawRecord) ([]Entry, error) {
	entries := make([]Entry, 0, len(rows))

	for i, row := range rows {
		entry, reason := normalizeRow(row)
		if reason != "" {
			n.slog.Debug("dropped timesheet row", "row", i+1, "reason", reason)
			continue
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, ErrEmptyResult
	}

	n.slog.Debug("normalized timesheet", "rows", len(rows), "entries", len(entries))

	return entries, nil
}

func normalizeRow(row RawRecord) (Entry, string) {
	date, _ := row.Text(ColumnDate)
	if date == "" {
		return Entry{}, "missing date"
	}

	rawHours, ok := row.Text(ColumnHours)
	if !ok || rawHours == "" {
		return Entry{}, "missing hours"
	}

	hours, ok := parseLeadingFloat(rawHours)
	if !ok {
		return Entry{}, "hours is not a number"
	}
	if hours < 0 {
		return Entry{}, "negative hours"
	}

	billable, _ := row[ColumnBillable].(string)

	return Entry{
		Date:     date,
		Client:   textOrEmpty(row, ColumnClient),
		Project:  textOrEmpty(row, ColumnProject),
		Task:     textOrEmpty(row, ColumnTask),
		Notes:    textOrEmpty(row, ColumnNotes),
		Hours:    formatHours(hours),
		Billable: billable == billableYes,
	}, ""
}

func textOrEmpty(row RawRecord, key string) string {
	s, _ := row.Text(key)
	return s
}

var leadingFloat = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// parseLeadingFloat parses the longest float literal at the start of s,
// so "3.5 hrs" yields 3.5. It reports false for text with no leading
// number and for values that are not finite.
func parseLeadingFloat(s string) (float64, bool) {
	literal := leadingFloat.FindString(strings.TrimSpace(s))
	if literal == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(literal, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// formatHours renders f as the shortest decimal text that parses back
// to f, switching to exponent form outside [1e-6, 1e21).
func formatHours(f float64) string {
	if f == 0 {
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		mantissa, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
		return mantissa + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}
