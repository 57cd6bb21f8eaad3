// Package upload extracts the uploaded timesheet from multipart
// requests.
package upload

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/angelofallars/htmx-go"
	"github.com/angelofallars/timebill/app/event"
	"github.com/angelofallars/timebill/internal/timesheet"
)

// FieldName is the multipart field holding the timesheet file.
const FieldName = "timesheet"

// RequireTimesheet parses the multipart form of the request, limited to
// maxBytes, and makes the uploaded timesheet available to f through
// [GetTimesheet]. Requests without a file are answered with an error.
func RequireTimesheet(maxBytes int64, f http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		err := r.ParseMultipartForm(maxBytes)
		if errors.Is(err, http.ErrNotMultipart) {
			writeError(w, r, http.StatusBadRequest, timesheet.ErrInputMissing)
			return
		}
		if err != nil {
			writeError(w, r, http.StatusBadRequest, errors.New("The form could not be read. Make sure the timesheet is not too large."))
			return
		}

		file, header, err := r.FormFile(FieldName)
		if errors.Is(err, http.ErrMissingFile) {
			writeError(w, r, http.StatusBadRequest, timesheet.ErrInputMissing)
			return
		}
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err)
			return
		}
		defer file.Close()

		r = r.WithContext(context.WithValue(r.Context(), timesheetKey,
			&Timesheet{File: file, Name: header.Filename, Size: header.Size},
		))

		f(w, r)
	}
}

func GetTimesheet(c context.Context) (*Timesheet, error) {
	ts, ok := c.Value(timesheetKey).(*Timesheet)
	if !ok {
		return nil, timesheet.ErrInputMissing
	}
	return ts, nil
}

type Timesheet struct {
	File multipart.File
	Name string
	Size int64
}

// Reader returns the file contents, or nil for an empty upload so that
// it is treated as a missing file.
func (t *Timesheet) Reader() io.Reader {
	if t.Size == 0 {
		return nil
	}
	return t.File
}

func writeError(w http.ResponseWriter, r *http.Request, code int, err error) {
	if !htmx.IsHTMX(r) {
		http.Error(w, err.Error(), code)
		return
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

type key struct{}

var timesheetKey = key{}
