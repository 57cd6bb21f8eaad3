package invoice

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelofallars/timebill/internal/render/pdf"
	"github.com/angelofallars/timebill/internal/service"
	"github.com/go-chi/chi/v5"
)

const csvInput = "Date,Client,Project,Task,Notes,Hours,Billable?\n" +
	"2025-01-01,Acme,Site,Design,,2,Yes\n" +
	",Acme,Site,Design,,3,Yes\n" +
	"2025-01-02,Acme,Site,Build,,3.5,No\n"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	renderer, err := pdf.New(pdf.Options{})
	if err != nil {
		t.Fatalf("pdf.New() error = %v", err)
	}

	r := chi.NewRouter()
	NewHandlerGroup(logger, service.NewInvoice(logger, renderer)).
		WithDefaultRate(85).
		Mount(r)
	return r
}

// newFormRequest builds a multipart request. An empty csv leaves out the
// timesheet file.
func newFormRequest(t *testing.T, target, csv string, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if csv != "" {
		fw, err := mw.CreateFormFile("timesheet", "timesheet.csv")
		if err != nil {
			t.Fatal(err)
		}
		_, _ = io.WriteString(fw, csv)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestGetPage(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{`name="timesheet"`, `value="INV-`, `name="hourly-rate"`, `value="85"`, `id="preview"`} {
		if !strings.Contains(body, want) {
			t.Errorf("page does not contain %s", want)
		}
	}
}

func TestPreview(t *testing.T) {
	req := newFormRequest(t, "/preview", csvInput, map[string]string{
		"client-name":    "Jane",
		"invoice-number": "INV-7",
		"invoice-date":   "2025-01-05",
		"hourly-rate":    "100",
	})
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("HX-Retarget"); got != "#preview" {
		t.Errorf("HX-Retarget=%q, want #preview", got)
	}
	if got := rec.Header().Get("HX-Trigger"); !strings.Contains(got, "enable-download") {
		t.Errorf("HX-Trigger=%q, want enable-download", got)
	}
	if body := rec.Body.String(); !strings.Contains(body, "$550.00") {
		t.Errorf("preview does not show the total: %s", body)
	}
}

func TestPreviewErrors(t *testing.T) {
	tests := []struct {
		name   string
		csv    string
		fields map[string]string
	}{
		{
			name:   "missing file",
			fields: map[string]string{"hourly-rate": "100"},
		},
		{
			name:   "missing rate",
			csv:    csvInput,
			fields: map[string]string{},
		},
		{
			name:   "negative rate",
			csv:    csvInput,
			fields: map[string]string{"hourly-rate": "-1"},
		},
		{
			name:   "bad invoice date",
			csv:    csvInput,
			fields: map[string]string{"hourly-rate": "1", "invoice-date": "soon"},
		},
		{
			name:   "no valid entries",
			csv:    "Date,Hours\n,2\n",
			fields: map[string]string{"hourly-rate": "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newFormRequest(t, "/preview", tt.csv, tt.fields)
			req.Header.Set("HX-Request", "true")
			rec := httptest.NewRecorder()
			newTestRouter(t).ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status=%d, want 400", rec.Code)
			}
			if got := rec.Header().Get("HX-Reswap"); got != "none" {
				t.Errorf("HX-Reswap=%q, want none", got)
			}
			if got := rec.Header().Get("HX-Trigger"); !strings.Contains(got, "set-err-message") {
				t.Errorf("HX-Trigger=%q, want set-err-message", got)
			}
		})
	}
}

func TestDownload(t *testing.T) {
	req := newFormRequest(t, "/invoice.pdf", csvInput, map[string]string{
		"invoice-number": "INV-7",
		"invoice-date":   "2025-01-05",
		"hourly-rate":    "100",
	})
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Errorf("Content-Type=%q, want application/pdf", got)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="invoice-INV-7.pdf"` {
		t.Errorf("Content-Disposition=%q", got)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Error("response is not a PDF")
	}
}

func TestDownloadMissingFile(t *testing.T) {
	req := newFormRequest(t, "/invoice.pdf", "", map[string]string{"hourly-rate": "100"})
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No timesheet file") {
		t.Errorf("body=%q, want the missing file message", rec.Body.String())
	}
}

func TestCreateInvoiceAPI(t *testing.T) {
	body := `{
		"rows": [{"Date": "2025-01-01", "Client": "Acme", "Task": "Design", "Hours": 2}],
		"client": {"name": "Jane", "address": "1 Main St\nSpringfield"},
		"invoice": {"number": "INV-9", "date": "2025-01-05", "hourlyRate": 50}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200: %s", rec.Code, rec.Body.String())
	}

	var doc struct {
		PageSize string            `json:"pageSize"`
		Content  []json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if doc.PageSize != "A4" {
		t.Errorf("pageSize=%q, want A4", doc.PageSize)
	}
	if len(doc.Content) != 4 {
		t.Errorf("got %d content blocks, want 4", len(doc.Content))
	}
	if !strings.Contains(rec.Body.String(), "$100.00") {
		t.Error("document does not contain the amount due")
	}
	if !strings.Contains(rec.Body.String(), "February 4, 2025") {
		t.Error("document does not contain the computed due date")
	}
}

func TestCreateInvoiceAPIErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{name: "malformed json", body: `{"rows":`, code: http.StatusBadRequest},
		{name: "missing rows", body: `{"invoice": {"hourlyRate": 1}}`, code: http.StatusBadRequest},
		{name: "no valid rows", body: `{"rows": [{"Hours": 1}], "invoice": {"hourlyRate": 1}}`, code: http.StatusBadRequest},
		{name: "negative rate", body: `{"rows": [{"Date": "2025-01-01", "Hours": 1}], "invoice": {"hourlyRate": -1}}`, code: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			newTestRouter(t).ServeHTTP(rec, req)

			if rec.Code != tt.code {
				t.Errorf("status=%d, want %d", rec.Code, tt.code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Error == "" {
				t.Errorf("expected a JSON error, got %q", rec.Body.String())
			}
		})
	}
}

func TestAPIDueDate(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/due-date?date=2025-01-05", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", rec.Code)
	}
	var resp dueDateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.DueDate != "2025-02-04" {
		t.Errorf("dueDate=%q, want 2025-02-04", resp.DueDate)
	}

	rec = httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/due-date?date=tomorrow", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status=%d, want 400", rec.Code)
	}
}

func TestGetDueDate(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/due-date?invoice-date=2024-02-01", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, `value="2024-03-02"`) {
		t.Errorf("body=%q, want the due date 2024-03-02", body)
	}
}

func TestPDFFilename(t *testing.T) {
	tests := []struct {
		number   string
		expected string
	}{
		{"INV-7", "invoice-INV-7.pdf"},
		{"2025/01 #3", "invoice-2025-01-3.pdf"},
		{"", "invoice.pdf"},
		{"///", "invoice.pdf"},
	}

	for _, tt := range tests {
		if got := pdfFilename(tt.number); got != tt.expected {
			t.Errorf("pdfFilename(%q) = %q, expected %q", tt.number, got, tt.expected)
		}
	}
}
