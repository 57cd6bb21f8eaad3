// Package document describes a printable page layout as plain data.
//
// A Document is an ordered tree of blocks with named styles. It carries no
// behavior: visual rules such as which table lines are drawn are expressed
// as policies that a renderer evaluates.
package document

import (
	"encoding/json"
	"fmt"
)

type Document struct {
	PageSize     string           `json:"pageSize"`
	PageMargins  Margins          `json:"pageMargins"`
	Content      []Block          `json:"content"`
	Styles       map[string]Style `json:"styles"`
	DefaultStyle Style            `json:"defaultStyle"`
}

// Margins are left, top, right and bottom offsets in points.
type Margins [4]float64

func (m Margins) Left() float64   { return m[0] }
func (m Margins) Top() float64    { return m[1] }
func (m Margins) Right() float64  { return m[2] }
func (m Margins) Bottom() float64 { return m[3] }

// Margin returns a pointer to the margins l, t, r, b.
func Margin(l, t, r, b float64) *Margins {
	return &Margins{l, t, r, b}
}

type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

type Style struct {
	Font          string    `json:"font,omitempty"`
	FontSize      float64   `json:"fontSize,omitempty"`
	Bold          bool      `json:"bold,omitempty"`
	Color         string    `json:"color,omitempty"`
	Alignment     Alignment `json:"alignment,omitempty"`
	Margin        *Margins  `json:"margin,omitempty"`
	LineHeight    float64   `json:"lineHeight,omitempty"`
	LetterSpacing float64   `json:"letterSpacing,omitempty"`
}

type widthKind int

const (
	widthStar widthKind = iota
	widthAuto
	widthFixed
)

// Width is the horizontal size of a column. The zero value is Star.
type Width struct {
	kind   widthKind
	points float64
}

var (
	// Star takes an equal share of the space left by the other columns.
	Star = Width{kind: widthStar}
	// Auto is as wide as the content.
	Auto = Width{kind: widthAuto}
)

func Fixed(points float64) Width {
	return Width{kind: widthFixed, points: points}
}

func (w Width) IsStar() bool { return w.kind == widthStar }
func (w Width) IsAuto() bool { return w.kind == widthAuto }

// Points returns the fixed width, if w is fixed.
func (w Width) Points() (float64, bool) {
	return w.points, w.kind == widthFixed
}

func (w Width) String() string {
	switch w.kind {
	case widthAuto:
		return "auto"
	case widthFixed:
		return fmt.Sprint(w.points)
	default:
		return "*"
	}
}

func (w Width) MarshalJSON() ([]byte, error) {
	if w.kind == widthFixed {
		return json.Marshal(w.points)
	}
	return json.Marshal(w.String())
}

// Block is a node of the layout tree: [Text], [Stack], [Columns],
// [Table] or [Canvas].
type Block interface {
	block()
}

type Text struct {
	Text      string    `json:"text"`
	Style     string    `json:"style,omitempty"`
	Alignment Alignment `json:"alignment,omitempty"`
	Width     Width     `json:"width"`
	Margin    *Margins  `json:"margin,omitempty"`
}

// Stack lays its blocks out vertically.
type Stack struct {
	Stack  []Block  `json:"stack"`
	Width  Width    `json:"width"`
	Margin *Margins `json:"margin,omitempty"`
}

// Columns lays its blocks out horizontally, sized by each block's width.
type Columns struct {
	Columns   []Block  `json:"columns"`
	ColumnGap float64  `json:"columnGap,omitempty"`
	Width     Width    `json:"width"`
	Margin    *Margins `json:"margin,omitempty"`
}

type Table struct {
	HeaderRows int         `json:"headerRows"`
	Widths     []Width     `json:"widths"`
	Body       [][]Cell    `json:"body"`
	Layout     TableLayout `json:"layout"`
	Margin     *Margins    `json:"margin,omitempty"`
}

// Cell is one table cell. A cell with ColSpan n is followed by n-1
// placeholder cells with a nil Block.
type Cell struct {
	Block   Block `json:"content"`
	ColSpan int   `json:"colSpan,omitempty"`
}

// Canvas draws shapes relative to the top-left corner of the content
// area. It takes up the height of its lowest shape.
type Canvas struct {
	Canvas []Rect `json:"canvas"`
}

type Rect struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
	Color string  `json:"color"`
}

func (Text) block()    {}
func (Stack) block()   {}
func (Columns) block() {}
func (Table) block()   {}
func (Canvas) block()  {}

func (t Text) MarshalJSON() ([]byte, error) {
	type text Text
	return json.Marshal(struct {
		Type string `json:"type"`
		text
	}{"text", text(t)})
}

func (s Stack) MarshalJSON() ([]byte, error) {
	type stack Stack
	return json.Marshal(struct {
		Type string `json:"type"`
		stack
	}{"stack", stack(s)})
}

func (c Columns) MarshalJSON() ([]byte, error) {
	type columns Columns
	return json.Marshal(struct {
		Type string `json:"type"`
		columns
	}{"columns", columns(c)})
}

func (t Table) MarshalJSON() ([]byte, error) {
	type table Table
	return json.Marshal(struct {
		Type string `json:"type"`
		table
	}{"table", table(t)})
}

func (c Canvas) MarshalJSON() ([]byte, error) {
	type canvas Canvas
	return json.Marshal(struct {
		Type string `json:"type"`
		canvas
	}{"canvas", canvas(c)})
}

// TableLayout holds the line and padding rules of a table.
type TableLayout struct {
	HLines     LinePolicy  `json:"hLines"`
	VLineWidth float64     `json:"vLineWidth"`
	Padding    CellPadding `json:"padding"`
}

type Line struct {
	Width float64 `json:"width"`
	Color string  `json:"color"`
}

// LineIndex addresses one of the rows+1 horizontal lines of a table.
// Line 0 is above the first row. With FromEnd set, Offset counts back
// from the line below the last row, which is line rows.
type LineIndex struct {
	Offset  int  `json:"offset"`
	FromEnd bool `json:"fromEnd,omitempty"`
}

func (li LineIndex) resolve(rows int) int {
	if li.FromEnd {
		return rows - li.Offset
	}
	return li.Offset
}

type LineRule struct {
	At   LineIndex `json:"at"`
	Line Line      `json:"line"`
}

// LinePolicy selects the first rule matching a line, or Default.
type LinePolicy struct {
	Default Line       `json:"default"`
	Rules   []LineRule `json:"rules,omitempty"`
}

// Resolve returns the line drawn at index i of a table with rows rows.
func (p LinePolicy) Resolve(i, rows int) Line {
	for _, rule := range p.Rules {
		if rule.At.resolve(rows) == i {
			return rule.Line
		}
	}
	return p.Default
}

// CellPadding pads every cell by Top and Bottom, and horizontally by
// Inner, except on the outer edge of the first and last column
// which get Outer.
type CellPadding struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Inner  float64 `json:"inner"`
	Outer  float64 `json:"outer"`
}

func (p CellPadding) Left(col int) float64 {
	if col == 0 {
		return p.Outer
	}
	return p.Inner
}

func (p CellPadding) Right(col, cols int) float64 {
	if col == cols-1 {
		return p.Outer
	}
	return p.Inner
}
