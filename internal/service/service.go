package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/angelofallars/timebill/internal/document"
	"github.com/angelofallars/timebill/internal/invoice"
	"github.com/angelofallars/timebill/internal/timesheet"
)

type Invoice interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (*Result, error)
	Render(ctx context.Context, w io.Writer, res *Result) error
}

// Renderer turns a composed document into a printable file.
type Renderer interface {
	Render(w io.Writer, doc document.Document) error
}

type invoiceService struct {
	slog     *slog.Logger
	renderer Renderer
}

func NewInvoice(slog *slog.Logger, renderer Renderer) *invoiceService {
	return &invoiceService{
		slog:     slog,
		renderer: renderer,
	}
}

// CreateInvoiceRequest carries one timesheet and one invoice context.
// Timesheet is read as CSV; when it is nil, Rows are used as already
// parsed rows.
type CreateInvoiceRequest struct {
	Timesheet io.Reader
	Rows      []timesheet.RawRecord
	Client    invoice.ClientInfo
	Invoice   invoice.InvoiceInfo
}

type Result struct {
	Entries  []timesheet.Entry
	Summary  *invoice.Summary
	Document document.Document
}

func (s *invoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*Result, error) {
	rows := req.Rows
	if req.Timesheet != nil {
		parsed, err := timesheet.ParseRows(req.Timesheet)
		if err != nil {
			return nil, err
		}
		rows = parsed
	} else if rows == nil {
		return nil, timesheet.ErrInputMissing
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := timesheet.NewNormalizer(s.slog).Normalize(rows)
	if err != nil {
		return nil, err
	}

	summary, err := invoice.Aggregate(entries, req.Invoice.HourlyRate)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.slog.Info("invoice composed",
		"number", req.Invoice.Number,
		"rows", len(rows),
		"entries", len(entries),
		"total", summary.Total,
	)

	return &Result{
		Entries:  entries,
		Summary:  summary,
		Document: document.Compose(summary, req.Client, req.Invoice),
	}, nil
}

func (s *invoiceService) Render(ctx context.Context, w io.Writer, res *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.renderer.Render(w, res.Document)
}
