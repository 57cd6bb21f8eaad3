package pdf

import (
	"math"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/angelofallars/timebill/internal/document"
)

// lineFactor is the height of a text line relative to its font size.
const lineFactor = 1.17

// autoSlack keeps auto-sized text from wrapping on rounding errors.
const autoSlack = 0.5

type layout struct {
	pdf       *gofpdf.Fpdf
	doc       document.Document
	family    string
	translate func(string) string

	left, width float64
	top, bottom float64
}

func newLayout(pdf *gofpdf.Fpdf, doc document.Document, family string, translate func(string) string) *layout {
	pageW, pageH := pdf.GetPageSize()
	m := doc.PageMargins

	return &layout{
		pdf:       pdf,
		doc:       doc,
		family:    family,
		translate: translate,
		left:      m.Left(),
		width:     pageW - m.Left() - m.Right(),
		top:       m.Top(),
		bottom:    pageH - m.Bottom(),
	}
}

func (l *layout) run() {
	l.pdf.AddPage()

	y := l.top
	for _, b := range l.doc.Content {
		if table, ok := b.(document.Table); ok {
			y = l.table(table, l.left, y, l.width)
			continue
		}

		h := l.place(b, l.left, y, l.width, false)
		if y+h > l.bottom && y > l.top {
			l.pdf.AddPage()
			y = l.top
		}
		y += l.place(b, l.left, y, l.width, true)
	}
}

type style struct {
	size       float64
	bold       bool
	color      string
	align      document.Alignment
	margin     document.Margins
	lineHeight float64
}

func (l *layout) style(name string) style {
	st := style{size: 12, color: "#000000", lineHeight: 1}
	merge := func(s document.Style) {
		if s.FontSize > 0 {
			st.size = s.FontSize
		}
		if s.Bold {
			st.bold = true
		}
		if s.Color != "" {
			st.color = s.Color
		}
		if s.Alignment != "" {
			st.align = s.Alignment
		}
		if s.Margin != nil {
			st.margin = *s.Margin
		}
		if s.LineHeight > 0 {
			st.lineHeight = s.LineHeight
		}
	}

	merge(l.doc.DefaultStyle)
	if name != "" {
		merge(l.doc.Styles[name])
	}
	return st
}

func (l *layout) setFont(st style) {
	fontStyle := ""
	if st.bold {
		fontStyle = "B"
	}
	l.pdf.SetFont(l.family, fontStyle, st.size)
	r, g, b := parseColor(st.color)
	l.pdf.SetTextColor(r, g, b)
}

func widthOf(b document.Block) document.Width {
	switch b := b.(type) {
	case document.Text:
		return b.Width
	case document.Stack:
		return b.Width
	case document.Columns:
		return b.Width
	default:
		return document.Star
	}
}

func marginOf(b document.Block) document.Margins {
	var m *document.Margins
	switch b := b.(type) {
	case document.Stack:
		m = b.Margin
	case document.Columns:
		m = b.Margin
	case document.Table:
		m = b.Margin
	}
	if m == nil {
		return document.Margins{}
	}
	return *m
}

// place lays b out at (x, y) within width and returns its height.
// Nothing is drawn unless draw is set.
func (l *layout) place(b document.Block, x, y, width float64, draw bool) float64 {
	switch b := b.(type) {
	case document.Text:
		return l.text(b, x, y, width, draw)
	case document.Stack:
		m := marginOf(b)
		h := m.Top()
		for _, child := range b.Stack {
			h += l.place(child, x+m.Left(), y+h, width-m.Left()-m.Right(), draw)
		}
		return h + m.Bottom()
	case document.Columns:
		return l.columns(b, x, y, width, draw)
	case document.Canvas:
		return l.canvas(b, x, y, draw)
	case document.Table:
		if draw {
			return l.table(b, x, y, width) - y
		}
		return l.tableHeight(b, width)
	default:
		return 0
	}
}

func (l *layout) text(t document.Text, x, y, width float64, draw bool) float64 {
	st := l.style(t.Style)
	if t.Alignment != "" {
		st.align = t.Alignment
	}
	if t.Margin != nil {
		st.margin = *t.Margin
	}
	m := st.margin

	l.setFont(st)
	inner := width - m.Left() - m.Right()
	lines := l.split(t.Text, inner)
	lh := st.size * st.lineHeight * lineFactor

	if draw {
		align := "LM"
		switch st.align {
		case document.AlignRight:
			align = "RM"
		case document.AlignCenter:
			align = "CM"
		}
		for i, line := range lines {
			l.pdf.SetXY(x+m.Left(), y+m.Top()+float64(i)*lh)
			l.pdf.CellFormat(math.Max(inner, 0), lh, l.translate(line), "", 0, align, false, 0, "")
		}
	}

	return m.Top() + float64(len(lines))*lh + m.Bottom()
}

func (l *layout) split(text string, width float64) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		lines = append(lines, l.wrap(paragraph, width)...)
	}
	return lines
}

// wrap breaks paragraph at spaces so that each line fits width.
// Words wider than width are kept whole.
func (l *layout) wrap(paragraph string, width float64) []string {
	words := strings.Fields(paragraph)
	if len(words) == 0 {
		return []string{""}
	}
	if width <= 0 {
		return []string{strings.Join(words, " ")}
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if l.stringWidth(candidate) <= width {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}

func (l *layout) stringWidth(s string) float64 {
	return l.pdf.GetStringWidth(l.translate(s))
}

// natural returns the width b needs without wrapping.
func (l *layout) natural(b document.Block) float64 {
	switch b := b.(type) {
	case document.Text:
		st := l.style(b.Style)
		if b.Margin != nil {
			st.margin = *b.Margin
		}
		l.setFont(st)
		var w float64
		for _, line := range strings.Split(b.Text, "\n") {
			w = math.Max(w, l.stringWidth(line))
		}
		return w + autoSlack + st.margin.Left() + st.margin.Right()
	case document.Stack:
		var w float64
		for _, child := range b.Stack {
			w = math.Max(w, l.natural(child))
		}
		m := marginOf(b)
		return w + m.Left() + m.Right()
	case document.Columns:
		w := b.ColumnGap * float64(max(len(b.Columns)-1, 0))
		for _, child := range b.Columns {
			if fixed, ok := widthOf(child).Points(); ok {
				w += fixed
				continue
			}
			w += l.natural(child)
		}
		m := marginOf(b)
		return w + m.Left() + m.Right()
	default:
		return 0
	}
}

// resolveWidths sizes fixed and auto columns first and shares the rest
// equally among star columns.
func resolveWidths(widths []document.Width, available float64, natural func(int) float64) []float64 {
	out := make([]float64, len(widths))
	stars := 0
	used := 0.0

	for i, w := range widths {
		switch {
		case w.IsAuto():
			out[i] = natural(i)
			used += out[i]
		case w.IsStar():
			stars++
		default:
			out[i], _ = w.Points()
			used += out[i]
		}
	}

	if stars > 0 {
		share := math.Max(available-used, 0) / float64(stars)
		for i, w := range widths {
			if w.IsStar() {
				out[i] = share
			}
		}
	}

	return out
}

func (l *layout) columns(c document.Columns, x, y, width float64, draw bool) float64 {
	m := marginOf(c)
	inner := width - m.Left() - m.Right()
	gaps := c.ColumnGap * float64(max(len(c.Columns)-1, 0))

	specs := make([]document.Width, len(c.Columns))
	for i, child := range c.Columns {
		specs[i] = widthOf(child)
	}
	widths := resolveWidths(specs, inner-gaps, func(i int) float64 {
		return l.natural(c.Columns[i])
	})

	var h float64
	cx := x + m.Left()
	for i, child := range c.Columns {
		h = math.Max(h, l.place(child, cx, y+m.Top(), widths[i], draw))
		cx += widths[i] + c.ColumnGap
	}

	return m.Top() + h + m.Bottom()
}

func (l *layout) canvas(c document.Canvas, x, y float64, draw bool) float64 {
	var h float64
	for _, rect := range c.Canvas {
		if draw {
			r, g, b := parseColor(rect.Color)
			l.pdf.SetFillColor(r, g, b)
			l.pdf.Rect(x+rect.X, y+rect.Y, rect.W, rect.H, "F")
		}
		h = math.Max(h, rect.Y+rect.H)
	}
	return h
}

type tableGrid struct {
	widths []float64
	rows   []float64
}

func (l *layout) grid(t document.Table, width float64) tableGrid {
	cols := len(t.Widths)
	pad := t.Layout.Padding

	widths := resolveWidths(t.Widths, width, func(col int) float64 {
		var w float64
		for _, row := range t.Body {
			if col < len(row) && row[col].Block != nil && row[col].ColSpan <= 1 {
				w = math.Max(w, l.natural(row[col].Block))
			}
		}
		return w + pad.Left(col) + pad.Right(col, cols)
	})

	rows := make([]float64, len(t.Body))
	for r, row := range t.Body {
		for c := 0; c < len(row) && c < cols; c++ {
			cell := row[c]
			if cell.Block == nil {
				continue
			}
			last, cw := spanOf(cell, c, widths)
			inner := cw - pad.Left(c) - pad.Right(last, cols)
			h := pad.Top + l.place(cell.Block, 0, 0, inner, false) + pad.Bottom
			rows[r] = math.Max(rows[r], h)
		}
	}

	return tableGrid{widths: widths, rows: rows}
}

// spanOf returns the last column covered by cell at column c and the
// combined width of the covered columns.
func spanOf(cell document.Cell, c int, widths []float64) (int, float64) {
	last := c + max(cell.ColSpan, 1) - 1
	if last >= len(widths) {
		last = len(widths) - 1
	}
	var w float64
	for i := c; i <= last; i++ {
		w += widths[i]
	}
	return last, w
}

func (l *layout) tableHeight(t document.Table, width float64) float64 {
	m := marginOf(t)
	g := l.grid(t, width-m.Left()-m.Right())
	h := m.Top() + m.Bottom()
	for _, rh := range g.rows {
		h += rh
	}
	return h
}

// table draws t starting at y, breaking pages between rows and
// repeating header rows, and returns the y below it.
func (l *layout) table(t document.Table, x, y, width float64) float64 {
	m := marginOf(t)
	x += m.Left()
	width -= m.Left() + m.Right()
	y += m.Top()

	g := l.grid(t, width)
	rows := len(t.Body)
	headers := min(t.HeaderRows, rows)

	for r := 0; r < rows; r++ {
		if r >= headers && y+g.rows[r] > l.bottom && y > l.top {
			l.pdf.AddPage()
			y = l.top
			for h := 0; h < headers; h++ {
				y = l.row(t, g, h, x, y, width)
			}
		}
		y = l.row(t, g, r, x, y, width)
	}
	l.hline(t, rows, x, y, width)

	return y + m.Bottom()
}

func (l *layout) row(t document.Table, g tableGrid, r int, x, y, width float64) float64 {
	pad := t.Layout.Padding
	cols := len(g.widths)

	l.hline(t, r, x, y, width)

	cx := x
	for c := 0; c < cols; c++ {
		if c >= len(t.Body[r]) {
			break
		}
		cell := t.Body[r][c]
		if cell.Block == nil {
			cx += g.widths[c]
			continue
		}

		last, cw := spanOf(cell, c, g.widths)
		inner := cw - pad.Left(c) - pad.Right(last, cols)
		l.place(cell.Block, cx+pad.Left(c), y+pad.Top, inner, true)

		if vw := t.Layout.VLineWidth; vw > 0 {
			l.pdf.SetLineWidth(vw)
			l.pdf.Line(cx, y, cx, y+g.rows[r])
		}

		cx += g.widths[c]
	}

	return y + g.rows[r]
}

func (l *layout) hline(t document.Table, i int, x, y, width float64) {
	line := t.Layout.HLines.Resolve(i, len(t.Body))
	if line.Width <= 0 {
		return
	}

	r, g, b := parseColor(line.Color)
	l.pdf.SetDrawColor(r, g, b)
	l.pdf.SetLineWidth(line.Width)
	l.pdf.Line(x, y, x+width, y)
}

// parseColor reads #RRGGBB, #RGB, white or black, defaulting to black.
func parseColor(s string) (int, int, int) {
	switch strings.ToLower(s) {
	case "white":
		return 255, 255, 255
	case "black", "":
		return 0, 0, 0
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return 0, 0, 0
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
