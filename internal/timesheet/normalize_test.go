package timesheet

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestNormalizeDropsRowWithoutDate(t *testing.T) {
	rows := []RawRecord{
		{"Date": "2025-01-01", "Hours": "2", "Client": "Acme", "Billable?": "Yes"},
		{"Date": "", "Hours": "3"},
	}

	entries, err := Normalize(rows)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	want := []Entry{{Date: "2025-01-01", Client: "Acme", Hours: "2", Billable: true}}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("Normalize() = %+v, expected %+v", entries, want)
	}
}

func TestNormalizeHours(t *testing.T) {
	tests := []struct {
		name     string
		hours    any
		expected string
		kept     bool
	}{
		{"integer text", "3", "3", true},
		{"trailing zero", "3.0", "3", true},
		{"fraction", "3.50", "3.5", true},
		{"leading whitespace", "  1.25", "1.25", true},
		{"unit suffix", "3.5 hrs", "3.5", true},
		{"leading dot", ".5", "0.5", true},
		{"exponent", "1.5e1", "15", true},
		{"zero", "0", "0", true},
		{"float value", 2.5, "2.5", true},
		{"int value", 4, "4", true},
		{"json number", json.Number("7.25"), "7.25", true},
		{"not a number", "abc", "", false},
		{"empty", "", "", false},
		{"null", nil, "", false},
		{"negative", "-1", "", false},
		{"infinity", "Infinity", "", false},
		{"overflow", "1e400", "", false},
		{"bool value", true, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, reason := normalizeRow(RawRecord{"Date": "2025-01-01", "Hours": tt.hours})
			if kept := reason == ""; kept != tt.kept {
				t.Fatalf("normalizeRow(Hours=%v) kept = %v (reason %q), expected %v", tt.hours, kept, reason, tt.kept)
			}
			if tt.kept && entry.Hours != tt.expected {
				t.Errorf("normalizeRow(Hours=%v).Hours = %q, expected %q", tt.hours, entry.Hours, tt.expected)
			}
		})
	}
}

func TestNormalizeDefaults(t *testing.T) {
	entries, err := Normalize([]RawRecord{{"Date": "2025-02-03", "Hours": "1"}})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	want := Entry{Date: "2025-02-03", Hours: "1"}
	if entries[0] != want {
		t.Errorf("Normalize() = %+v, expected %+v", entries[0], want)
	}
}

func TestNormalizeBillable(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected bool
	}{
		{"yes", "Yes", true},
		{"lowercase", "yes", false},
		{"no", "No", false},
		{"empty", "", false},
		{"bool", true, false},
		{"absent", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := RawRecord{"Date": "2025-01-01", "Hours": "1"}
			if tt.value != nil {
				row["Billable?"] = tt.value
			}

			entry, _ := normalizeRow(row)
			if entry.Billable != tt.expected {
				t.Errorf("Billable for %v = %v, expected %v", tt.value, entry.Billable, tt.expected)
			}
		})
	}
}

func TestNormalizeEmptyResult(t *testing.T) {
	tests := []struct {
		name string
		rows []RawRecord
	}{
		{"no rows", nil},
		{"all invalid", []RawRecord{{"Date": "", "Hours": "1"}, {"Date": "2025-01-01", "Hours": "abc"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := Normalize(tt.rows)
			if !errors.Is(err, ErrEmptyResult) {
				t.Errorf("Normalize() error = %v, expected %v", err, ErrEmptyResult)
			}
			if entries != nil {
				t.Errorf("Normalize() entries = %v, expected nil", entries)
			}
		})
	}
}

func TestNormalizeEntriesAreValid(t *testing.T) {
	rows := []RawRecord{
		{"Date": "2025-01-01", "Hours": "2"},
		{"Date": "2025-01-02", "Hours": "-2"},
		{"Date": nil, "Hours": "2"},
		{"Date": "2025-01-03"},
		{"Date": "2025-01-04", "Hours": "0.333333333333"},
		{"Date": "2025-01-05", "Hours": "NaN"},
	}

	entries, err := Normalize(rows)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Normalize() kept %d entries, expected 2", len(entries))
	}

	for _, e := range entries {
		h := e.HoursValue()
		if e.Date == "" || math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
			t.Errorf("entry %+v is not a valid entry", e)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	rows := []RawRecord{
		{"Date": "2025-01-01", "Hours": "2.50", "Client": "Acme", "Task": "Design", "Billable?": "Yes"},
		{"Date": "2025-01-02", "Hours": 1.0 / 3, "Project": "Site", "Notes": "call"},
		{"Date": "2025-01-03", "Hours": "1e-7"},
	}

	first, err := Normalize(rows)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	records := make([]RawRecord, 0, len(first))
	for _, e := range first {
		records = append(records, e.Record())
	}

	second, err := Normalize(records)
	if err != nil {
		t.Fatalf("Normalize(normalized) error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Normalize(normalized) = %+v, expected %+v", second, first)
	}
}

// Summed at run time so the float error is not folded away.
var tenth, fifth = 0.1, 0.2

func TestFormatHours(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected string
	}{
		{"zero", 0, "0"},
		{"negative zero", math.Copysign(0, -1), "0"},
		{"integer", 8, "8"},
		{"fraction", tenth + fifth, "0.30000000000000004"},
		{"small", 1e-7, "1e-7"},
		{"large", 1e21, "1e+21"},
		{"just below large", 123456789012, "123456789012"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatHours(tt.value); got != tt.expected {
				t.Errorf("formatHours(%v) = %q, expected %q", tt.value, got, tt.expected)
			}
		})
	}
}
