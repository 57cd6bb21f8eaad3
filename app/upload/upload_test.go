package upload

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func echoTimesheet(w http.ResponseWriter, r *http.Request) {
	ts, err := GetTimesheet(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	body, _ := io.ReadAll(ts.Reader())
	_, _ = io.WriteString(w, ts.Name+":"+string(body))
}

func multipartRequest(t *testing.T, withFile bool) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("hourly-rate", "10")
	if withFile {
		fw, err := mw.CreateFormFile(FieldName, "hours.csv")
		if err != nil {
			t.Fatal(err)
		}
		_, _ = io.WriteString(fw, "Date,Hours\n")
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestRequireTimesheet(t *testing.T) {
	rec := httptest.NewRecorder()
	RequireTimesheet(1<<20, echoTimesheet).ServeHTTP(rec, multipartRequest(t, true))

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Body.String(); got != "hours.csv:Date,Hours\n" {
		t.Errorf("body=%q, want the uploaded file", got)
	}
}

func TestRequireTimesheetMissingFile(t *testing.T) {
	urlencoded := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("hourly-rate=10"))
	urlencoded.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	tests := []struct {
		name string
		req  *http.Request
	}{
		{name: "multipart without file", req: multipartRequest(t, false)},
		{name: "urlencoded form", req: urlencoded},
		{name: "no body", req: httptest.NewRequest(http.MethodPost, "/", nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RequireTimesheet(1<<20, echoTimesheet).ServeHTTP(rec, tt.req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status=%d, want 400", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), "No timesheet file was provided.") {
				t.Errorf("body=%q, want the missing file message", rec.Body.String())
			}
		})
	}
}

func TestRequireTimesheetHTMXError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("hourly-rate=10"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	RequireTimesheet(1<<20, echoTimesheet).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status=%d, want 400", rec.Code)
	}
	if got := rec.Header().Get("HX-Reswap"); got != "none" {
		t.Errorf("HX-Reswap=%q, want none", got)
	}
	trigger := rec.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, "disable-download") || !strings.Contains(trigger, "No timesheet file was provided.") {
		t.Errorf("HX-Trigger=%q, want disable-download and the missing file message", trigger)
	}
}

func TestTimesheetReaderEmpty(t *testing.T) {
	if (&Timesheet{Size: 0}).Reader() != nil {
		t.Error("Reader() of an empty upload should be nil")
	}
}
