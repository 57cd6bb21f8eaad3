// Package invoice bills time entries at a flat hourly rate.
package invoice

import (
	"errors"
	"math"
	"time"

	"github.com/angelofallars/timebill/internal/timesheet"
)

var ErrInvalidRate = errors.New("The hourly rate must be a finite number that is not less than zero.")

// ClientInfo identifies the invoice recipient. Address is a free-text
// address that may span several lines; the remaining address fields
// hold the same information decomposed. Either shape may be used.
type ClientInfo struct {
	Name     string `json:"name"`
	Company  string `json:"company"`
	Address  string `json:"address"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

// InvoiceInfo identifies the invoice itself. Dates are YYYY-MM-DD.
type InvoiceInfo struct {
	Number     string  `json:"number"`
	Date       string  `json:"date"`
	DueDate    string  `json:"dueDate"`
	HourlyRate float64 `json:"hourlyRate"`
}

// Line is an entry paired with its billed amount.
type Line struct {
	Entry  timesheet.Entry `json:"entry"`
	Amount float64         `json:"amount"`
}

type Summary struct {
	Lines []Line  `json:"lines"`
	Rate  float64 `json:"rate"`
	Total float64 `json:"total"`
}

// Aggregate bills every entry at rate. Entries are not filtered by
// their billable flag.
func Aggregate(entries []timesheet.Entry, rate float64) (*Summary, error) {
	if rate < 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return nil, ErrInvalidRate
	}

	summary := &Summary{
		Lines: make([]Line, 0, len(entries)),
		Rate:  rate,
	}

	for _, entry := range entries {
		amount := entry.HoursValue() * rate
		summary.Lines = append(summary.Lines, Line{Entry: entry, Amount: amount})
		summary.Total += amount
	}

	return summary, nil
}

const paymentTerm = 30 * 24 * time.Hour

// DueDate returns the conventional payment due date for an invoice
// issued on issue, thirty days later.
func DueDate(issue string) (string, error) {
	date, err := time.Parse(time.DateOnly, issue)
	if err != nil {
		return "", err
	}
	return date.Add(paymentTerm).Format(time.DateOnly), nil
}
