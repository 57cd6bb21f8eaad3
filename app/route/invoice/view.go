package invoice

import (
	"strconv"

	"github.com/a-h/templ"
	"github.com/angelofallars/timebill/app/event"
)

// PageProps prefill the invoice form.
type PageProps struct {
	InvoiceNumber string
	InvoiceDate   string
	DueDate       string
	HourlyRate    float64
}

type field struct {
	label string
	name  string
	kind  string
}

var clientFields = []field{
	{label: "Name", name: "client-name", kind: "text"},
	{label: "Company", name: "client-company", kind: "text"},
	{label: "Address", name: "client-address", kind: "textarea"},
	{label: "Address line 1", name: "client-address1", kind: "text"},
	{label: "Address line 2", name: "client-address2", kind: "text"},
	{label: "City", name: "client-city", kind: "text"},
	{label: "State", name: "client-state", kind: "text"},
	{label: "ZIP", name: "client-zip", kind: "text"},
	{label: "Country", name: "client-country", kind: "text"},
	{label: "Phone", name: "client-phone", kind: "tel"},
	{label: "Email", name: "client-email", kind: "email"},
}

// downloadListeners toggle the download button on preview results.
func downloadListeners() templ.Attributes {
	attrs := event.EnableDownload.Listen("canDownload = true")
	for k, v := range event.DisableDownload.Listen("canDownload = false") {
		attrs[k] = v
	}
	return attrs
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}
