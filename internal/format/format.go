// Package format renders amounts and dates for display on invoices.
package format

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// InvalidDate is shown in place of a date that could not be parsed.
const InvalidDate = "Invalid Date"

const longDateLayout = "January 2, 2006"

var printer = message.NewPrinter(language.AmericanEnglish)

// Currency formats v as US dollars with two decimals and digit grouping,
// for example "$1,234.50" or "-$5.00". Halves round away from zero.
func Currency(v float64) string {
	switch {
	case math.IsNaN(v):
		return "$NaN"
	case math.IsInf(v, 1):
		return "$∞"
	case math.IsInf(v, -1):
		return "-$∞"
	}

	amount := decimal.NewFromFloat(v).Round(2)

	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	f, _ := amount.Float64()
	return sign + "$" + printer.Sprint(number.Decimal(f, number.Scale(2)))
}

// LongDate formats an ISO date (YYYY-MM-DD) as "January 5, 2025".
func LongDate(iso string) string {
	date, err := time.Parse(time.DateOnly, iso)
	if err != nil {
		return InvalidDate
	}
	return date.Format(longDateLayout)
}
