package invoice

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/a-h/templ"
	"github.com/angelofallars/htmx-go"
	"github.com/angelofallars/timebill/app/component"
	"github.com/angelofallars/timebill/app/event"
	"github.com/angelofallars/timebill/app/upload"
	domain "github.com/angelofallars/timebill/internal/invoice"
	"github.com/angelofallars/timebill/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type HandlerGroup struct {
	slog        *slog.Logger
	svcInvoice  service.Invoice
	maxUpload   int64
	defaultRate float64
}

func NewHandlerGroup(slog *slog.Logger, svcInvoice service.Invoice) *HandlerGroup {
	return &HandlerGroup{
		slog:       slog,
		svcInvoice: svcInvoice,
		maxUpload:  5 << 20,
	}
}

// WithMaxUpload limits uploaded forms to n bytes.
func (hg *HandlerGroup) WithMaxUpload(n int64) *HandlerGroup {
	hg.maxUpload = n
	return hg
}

func (hg *HandlerGroup) WithDefaultRate(rate float64) *HandlerGroup {
	hg.defaultRate = rate
	return hg
}

func (hg *HandlerGroup) Mount(r chi.Router) {
	r.Get("/", hg.handleGetPage)
	r.Get("/due-date", hg.handleGetDueDate)
	r.Post("/preview", upload.RequireTimesheet(hg.maxUpload, hg.handlePreview))
	r.Post("/invoice.pdf", upload.RequireTimesheet(hg.maxUpload, hg.handleDownload))

	r.Route("/api", func(r chi.Router) {
		r.Post("/invoices", hg.handleCreateInvoice)
		r.Get("/due-date", hg.handleAPIDueDate)
	})
}

func (hg *HandlerGroup) handleGetPage(w http.ResponseWriter, r *http.Request) {
	today := time.Now().Format(time.DateOnly)
	due, _ := domain.DueDate(today)

	props := PageProps{
		InvoiceNumber: newInvoiceNumber(),
		InvoiceDate:   today,
		DueDate:       due,
		HourlyRate:    hg.defaultRate,
	}

	templ.Handler(component.FullPage("Timesheet Invoice Builder", page(props))).ServeHTTP(w, r)
}

func (hg *HandlerGroup) handleGetDueDate(w http.ResponseWriter, r *http.Request) {
	due, err := domain.DueDate(r.URL.Query().Get("invoice-date"))
	if err != nil {
		hg.showError(w, http.StatusBadRequest, errors.New("The invoice date is not a valid date."))
		return
	}

	_ = htmx.NewResponse().
		AddTrigger(event.TriggerSetErrMessage("")).
		RenderTempl(r.Context(), w, DueDate(due))
}

func (hg *HandlerGroup) handlePreview(w http.ResponseWriter, r *http.Request) {
	res, _, err := hg.createFromForm(r)
	if err != nil {
		hg.showError(w, statusOf(err), err)
		return
	}

	_ = htmx.NewResponse().
		Retarget("#preview").
		Reswap(htmx.SwapInnerHTML).
		AddTrigger(
			event.TriggerEnableDownload,
			event.TriggerSetErrMessage(""),
		).
		RenderTempl(r.Context(), w, Preview(res))
}

func (hg *HandlerGroup) handleDownload(w http.ResponseWriter, r *http.Request) {
	res, req, err := hg.createFromForm(r)
	if err != nil {
		http.Error(w, err.Error(), statusOf(err))
		return
	}

	var buf bytes.Buffer
	if err := hg.svcInvoice.Render(r.Context(), &buf, res); err != nil {
		hg.slog.Error("rendering invoice failed", "number", req.InvoiceNumber, "err", err)
		http.Error(w, "The invoice could not be rendered.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, pdfFilename(req.InvoiceNumber)))
	_, _ = w.Write(buf.Bytes())
}

// createFromForm builds the invoice for the uploaded timesheet and the
// form fields sent with it.
func (hg *HandlerGroup) createFromForm(r *http.Request) (*service.Result, *CreateInvoiceRequest, error) {
	ts, err := upload.GetTimesheet(r.Context())
	if err != nil {
		return nil, nil, err
	}

	req, err := decodeCreateInvoiceRequest(r.MultipartForm.Value)
	if err != nil {
		return nil, nil, err
	}
	if err := req.Bind(r); err != nil {
		return nil, nil, err
	}

	res, err := hg.svcInvoice.Create(r.Context(), service.CreateInvoiceRequest{
		Timesheet: ts.Reader(),
		Client:    req.Client(),
		Invoice:   req.Invoice(),
	})
	if err != nil {
		hg.slog.Info("creating invoice failed", "file", ts.Name, "err", err)
		return nil, nil, err
	}

	return res, req, nil
}

func (hg *HandlerGroup) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	payload := &CreateInvoicePayload{}
	if err := render.Bind(r, payload); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, err)
		return
	}

	res, err := hg.svcInvoice.Create(r.Context(), service.CreateInvoiceRequest{
		Rows:    payload.Rows,
		Client:  payload.Client,
		Invoice: payload.Invoice,
	})
	if err != nil {
		code := statusOf(err)
		if code == http.StatusInternalServerError {
			hg.slog.Error("creating invoice failed", "err", err)
		}
		writeAPIError(w, r, code, err)
		return
	}

	render.JSON(w, r, res.Document)
}

type dueDateResponse struct {
	DueDate string `json:"dueDate"`
}

func (hg *HandlerGroup) handleAPIDueDate(w http.ResponseWriter, r *http.Request) {
	due, err := domain.DueDate(r.URL.Query().Get("date"))
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, errors.New("The date must be formatted as YYYY-MM-DD."))
		return
	}

	render.JSON(w, r, dueDateResponse{DueDate: due})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeAPIError(w http.ResponseWriter, r *http.Request, code int, err error) {
	render.Status(r, code)
	render.JSON(w, r, errorResponse{Error: err.Error()})
}

func statusOf(err error) int {
	if isClientError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (hg *HandlerGroup) showError(w http.ResponseWriter, code int, err error) {
	if code >= http.StatusInternalServerError {
		hg.slog.Error("request failed", "err", err)
	}

	_ = htmx.NewResponse().
		StatusCode(code).
		Reswap(htmx.SwapNone).
		AddTrigger(
			event.TriggerDisableDownload,
			event.TriggerSetErrMessage(err.Error()),
		).
		Write(w)
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// pdfFilename names the downloaded PDF after the invoice number.
func pdfFilename(number string) string {
	name := unsafeFilename.ReplaceAllString(number, "-")
	if name == "" || name == "-" {
		return "invoice.pdf"
	}
	return "invoice-" + name + ".pdf"
}
