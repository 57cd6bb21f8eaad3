package timesheet

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseRows(t *testing.T) {
	input := "\ufeffHours,Billable?,Date,Client,Project,Task,Notes,Rate\n" +
		"2,Yes,2025-01-01,Acme,Site,Design,,90\n" +
		"\n" +
		",,,,,,,\n" +
		"\"1,5\",No,2025-01-02,\"Acme, Inc.\",Site,Review\n"

	rows, err := ParseRows(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseRows() error = %v", err)
	}

	want := []RawRecord{
		{
			"Hours": "2", "Billable?": "Yes", "Date": "2025-01-01", "Client": "Acme",
			"Project": "Site", "Task": "Design", "Notes": "", "Rate": "90",
		},
		{
			"Hours": "1,5", "Billable?": "No", "Date": "2025-01-02", "Client": "Acme, Inc.",
			"Project": "Site", "Task": "Review",
		},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("ParseRows() = %v, expected %v", rows, want)
	}
}

func TestParseRowsThenNormalize(t *testing.T) {
	input := "Date,Client,Project,Task,Notes,Hours,Billable?\n" +
		"2025-01-01,Acme,Site,Design,,2,Yes\n" +
		",Acme,Site,Design,,3,Yes\n" +
		"2025-01-03,Acme,Site,Meeting,,abc,No\n" +
		"2025-01-04,Globex,App,Build,late night,3.50,No\n"

	rows, err := ParseRows(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseRows() error = %v", err)
	}

	entries, err := Normalize(rows)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	want := []Entry{
		{Date: "2025-01-01", Client: "Acme", Project: "Site", Task: "Design", Hours: "2", Billable: true},
		{Date: "2025-01-04", Client: "Globex", Project: "App", Task: "Build", Notes: "late night", Hours: "3.5"},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("entries = %+v, expected %+v", entries, want)
	}
}

func TestParseRowsErrors(t *testing.T) {
	if _, err := ParseRows(nil); !errors.Is(err, ErrInputMissing) {
		t.Errorf("ParseRows(nil) error = %v, expected %v", err, ErrInputMissing)
	}

	if _, err := ParseRows(strings.NewReader("")); !errors.Is(err, ErrInputFormat) {
		t.Errorf("ParseRows(empty) error = %v, expected %v", err, ErrInputFormat)
	}
}

func TestParseRowsHeaderOnly(t *testing.T) {
	rows, err := ParseRows(strings.NewReader("Date,Hours\n"))
	if err != nil {
		t.Fatalf("ParseRows() error = %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("ParseRows() = %v, expected no rows", rows)
	}

	if _, err := Normalize(rows); !errors.Is(err, ErrEmptyResult) {
		t.Errorf("Normalize() error = %v, expected %v", err, ErrEmptyResult)
	}
}
