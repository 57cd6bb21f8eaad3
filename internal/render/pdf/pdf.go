// Package pdf renders document descriptions to PDF with gofpdf.
package pdf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"github.com/angelofallars/timebill/internal/document"
)

// coreFamily is used when the document's font family was not registered.
const coreFamily = "Helvetica"

type Options struct {
	// FontDir holds a <Family>-Regular.ttf and <Family>-Bold.ttf file
	// for each family in Families. Core fonts are used when empty.
	FontDir string
	// Families defaults to the composer's default font.
	Families []string
	// DisableCompression writes uncompressed page streams.
	DisableCompression bool
}

type face struct {
	regular []byte
	bold    []byte
}

// Renderer turns documents into PDF files. The font registry is loaded
// once by New; Render may be called concurrently.
type Renderer struct {
	faces    map[string]face
	compress bool
}

func New(opts Options) (*Renderer, error) {
	r := &Renderer{
		faces:    map[string]face{},
		compress: !opts.DisableCompression,
	}

	if opts.FontDir == "" {
		return r, nil
	}

	families := opts.Families
	if len(families) == 0 {
		families = []string{document.DefaultFont}
	}

	for _, family := range families {
		regular, err := os.ReadFile(filepath.Join(opts.FontDir, family+"-Regular.ttf"))
		if err != nil {
			return nil, fmt.Errorf("Loading font %s failed: %w", family, err)
		}
		bold, err := os.ReadFile(filepath.Join(opts.FontDir, family+"-Bold.ttf"))
		if err != nil {
			return nil, fmt.Errorf("Loading font %s failed: %w", family, err)
		}
		r.faces[family] = face{regular: regular, bold: bold}
	}

	return r, nil
}

// Families returns the registered font families.
func (r *Renderer) Families() []string {
	families := make([]string, 0, len(r.faces))
	for family := range r.faces {
		families = append(families, family)
	}
	return families
}

// Render writes doc to w as a PDF.
func (r *Renderer) Render(w io.Writer, doc document.Document) error {
	size := doc.PageSize
	if size == "" {
		size = document.PageSizeA4
	}

	pdf := gofpdf.New("P", "pt", size, "")
	pdf.SetCompression(r.compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCellMargin(0)
	pdf.SetMargins(doc.PageMargins.Left(), doc.PageMargins.Top(), doc.PageMargins.Right())

	family, translate := r.registerFonts(pdf, doc.DefaultStyle.Font)

	l := newLayout(pdf, doc, family, translate)
	l.run()

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("Rendering PDF failed: %w", err)
	}

	return pdf.Output(w)
}

func (r *Renderer) registerFonts(pdf *gofpdf.Fpdf, family string) (string, func(string) string) {
	face, ok := r.faces[family]
	if !ok {
		return coreFamily, pdf.UnicodeTranslatorFromDescriptor("")
	}

	pdf.AddUTF8FontFromBytes(family, "", face.regular)
	pdf.AddUTF8FontFromBytes(family, "B", face.bold)

	return family, func(s string) string { return s }
}
