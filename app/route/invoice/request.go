package invoice

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ajg/form"
	"github.com/google/uuid"

	domain "github.com/angelofallars/timebill/internal/invoice"
	"github.com/angelofallars/timebill/internal/timesheet"
)

var errBadForm = errors.New("The invoice form is invalid.")

// CreateInvoiceRequest holds the invoice form fields sent next to the
// uploaded timesheet.
type CreateInvoiceRequest struct {
	ClientName     string `form:"client-name"`
	ClientCompany  string `form:"client-company"`
	ClientAddress  string `form:"client-address"`
	ClientAddress1 string `form:"client-address1"`
	ClientAddress2 string `form:"client-address2"`
	ClientCity     string `form:"client-city"`
	ClientState    string `form:"client-state"`
	ClientZip      string `form:"client-zip"`
	ClientCountry  string `form:"client-country"`
	ClientPhone    string `form:"client-phone"`
	ClientEmail    string `form:"client-email"`

	InvoiceNumber string `form:"invoice-number"`
	InvoiceDate   string `form:"invoice-date"`
	DueDate       string `form:"due-date"`
	HourlyRate    string `form:"hourly-rate"`

	// Rate is HourlyRate parsed by Bind.
	Rate float64 `form:"-"`
}

func decodeCreateInvoiceRequest(values url.Values) (*CreateInvoiceRequest, error) {
	req := &CreateInvoiceRequest{}
	d := form.NewDecoder(nil)
	d.IgnoreUnknownKeys(true)
	if err := d.DecodeValues(req, values); err != nil {
		return nil, fmt.Errorf("%w %v", errBadForm, err)
	}
	return req, nil
}

// Bind validates the form and fills in the invoice number and dates
// left empty.
func (cir *CreateInvoiceRequest) Bind(r *http.Request) error {
	rateString := strings.TrimSpace(cir.HourlyRate)
	if rateString == "" {
		return fmt.Errorf("%w The hourly rate is required.", domain.ErrInvalidRate)
	}
	rate, err := strconv.ParseFloat(rateString, 64)
	if err != nil || rate < 0 || math.IsInf(rate, 0) || math.IsNaN(rate) {
		return fmt.Errorf("%w Got %q.", domain.ErrInvalidRate, cir.HourlyRate)
	}
	cir.Rate = rate

	if cir.InvoiceNumber = strings.TrimSpace(cir.InvoiceNumber); cir.InvoiceNumber == "" {
		cir.InvoiceNumber = newInvoiceNumber()
	}

	if cir.InvoiceDate == "" {
		cir.InvoiceDate = time.Now().Format(time.DateOnly)
	}
	if _, err := time.Parse(time.DateOnly, cir.InvoiceDate); err != nil {
		return fmt.Errorf("%w The invoice date must be formatted as YYYY-MM-DD.", errBadForm)
	}

	if cir.DueDate == "" {
		cir.DueDate, _ = domain.DueDate(cir.InvoiceDate)
	}
	if _, err := time.Parse(time.DateOnly, cir.DueDate); err != nil {
		return fmt.Errorf("%w The due date must be formatted as YYYY-MM-DD.", errBadForm)
	}

	return nil
}

func (cir *CreateInvoiceRequest) Client() domain.ClientInfo {
	return domain.ClientInfo{
		Name:     cir.ClientName,
		Company:  cir.ClientCompany,
		Address:  cir.ClientAddress,
		Address1: cir.ClientAddress1,
		Address2: cir.ClientAddress2,
		City:     cir.ClientCity,
		State:    cir.ClientState,
		Zip:      cir.ClientZip,
		Country:  cir.ClientCountry,
		Phone:    cir.ClientPhone,
		Email:    cir.ClientEmail,
	}
}

func (cir *CreateInvoiceRequest) Invoice() domain.InvoiceInfo {
	return domain.InvoiceInfo{
		Number:     cir.InvoiceNumber,
		Date:       cir.InvoiceDate,
		DueDate:    cir.DueDate,
		HourlyRate: cir.Rate,
	}
}

// CreateInvoicePayload is the JSON body of the invoice API. Rows hold
// the timesheet already split into records, as a tabular parser emits them.
type CreateInvoicePayload struct {
	Rows    []timesheet.RawRecord `json:"rows"`
	Client  domain.ClientInfo     `json:"client"`
	Invoice domain.InvoiceInfo    `json:"invoice"`
}

// CreateInvoicePayload satisfies [render.Binder]
func (p *CreateInvoicePayload) Bind(r *http.Request) error {
	if p.Rows == nil {
		return timesheet.ErrInputMissing
	}

	if p.Invoice.Number == "" {
		p.Invoice.Number = newInvoiceNumber()
	}
	if p.Invoice.DueDate == "" && p.Invoice.Date != "" {
		due, err := domain.DueDate(p.Invoice.Date)
		if err != nil {
			return fmt.Errorf("%w The invoice date must be formatted as YYYY-MM-DD.", errBadForm)
		}
		p.Invoice.DueDate = due
	}

	return nil
}

// newInvoiceNumber returns a random invoice number like INV-1A2B3C4D.
func newInvoiceNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "INV-" + id[:8]
}

// isClientError reports whether err was caused by the request rather
// than by the server.
func isClientError(err error) bool {
	return errors.Is(err, timesheet.ErrInputMissing) ||
		errors.Is(err, timesheet.ErrInputFormat) ||
		errors.Is(err, timesheet.ErrEmptyResult) ||
		errors.Is(err, domain.ErrInvalidRate) ||
		errors.Is(err, errBadForm)
}
