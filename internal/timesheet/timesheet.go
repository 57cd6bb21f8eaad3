// Package timesheet turns raw tabular rows of logged work into
// validated time entries.
package timesheet

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
)

var (
	ErrInputMissing = errors.New("No timesheet file was provided.")
	ErrInputFormat  = errors.New("The timesheet is not a valid CSV file.")
	ErrEmptyResult  = errors.New("No valid entries were found in the timesheet.")
)

// Column names recognized in the timesheet header.
const (
	ColumnDate     = "Date"
	ColumnClient   = "Client"
	ColumnProject  = "Project"
	ColumnTask     = "Task"
	ColumnNotes    = "Notes"
	ColumnHours    = "Hours"
	ColumnBillable = "Billable?"
)

// billableYes is the only value of the Billable? column that marks
// an entry as billable.
const billableYes = "Yes"

// Entry is one unit of billable work.
type Entry struct {
	Date    string `json:"date"`
	Client  string `json:"client"`
	Project string `json:"project"`
	Task    string `json:"task"`
	Notes   string `json:"notes"`
	// Hours is the canonical decimal text of the logged hours.
	Hours    string `json:"hours"`
	Billable bool   `json:"billable"`
}

// HoursValue returns the numeric value of e.Hours, or NaN
// if it was not produced by [Normalize].
func (e Entry) HoursValue() float64 {
	f, ok := parseLeadingFloat(e.Hours)
	if !ok {
		return math.NaN()
	}
	return f
}

// Record converts e back into the raw row shape it was normalized from.
func (e Entry) Record() RawRecord {
	billable := "No"
	if e.Billable {
		billable = billableYes
	}
	return RawRecord{
		ColumnDate:     e.Date,
		ColumnClient:   e.Client,
		ColumnProject:  e.Project,
		ColumnTask:     e.Task,
		ColumnNotes:    e.Notes,
		ColumnHours:    e.Hours,
		ColumnBillable: billable,
	}
}

// RawRecord is one untyped row as emitted by a tabular parser, keyed by
// column name. Values may be string, float64, int, bool, json.Number
// or nil depending on where the row came from.
type RawRecord map[string]any

// Text returns the field under key as text. The second result is false
// when the field is absent or null.
func (r RawRecord) Text(key string) (string, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", false
	}

	switch v := v.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case float64:
		return formatHours(v), true
	case float32:
		return formatHours(float64(v)), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}
