package document

import (
	"strings"

	"github.com/angelofallars/timebill/internal/format"
	"github.com/angelofallars/timebill/internal/invoice"
)

// Style names used by composed invoices.
const (
	StyleInvoiceTitle    = "invoiceTitle"
	StyleAmountDueLabel  = "amountDueLabel"
	StyleAmountDueValue  = "amountDueValue"
	StyleSectionTitle    = "sectionTitle"
	StyleClientName      = "clientName"
	StyleClientDetails   = "clientDetails"
	StyleLabel           = "label"
	StyleValue           = "value"
	StyleTableHeader     = "tableHeader"
	StyleItemTitle       = "itemTitle"
	StyleItemDescription = "itemDescription"
	StyleTableCell       = "tableCell"
	StyleTotalLabel      = "totalLabel"
	StyleTotalValue      = "totalValue"
)

const (
	PageSizeA4  = "A4"
	DefaultFont = "Roboto"

	amountDueLabel = "Amount Due (USD)"
)

// Compose lays out an invoice for summary, billed to client.
// Every line of summary becomes one row of the item table.
func Compose(summary *invoice.Summary, client invoice.ClientInfo, info invoice.InvoiceInfo) Document {
	if summary == nil {
		summary = &invoice.Summary{}
	}
	total := format.Currency(summary.Total)

	return Document{
		PageSize:    PageSizeA4,
		PageMargins: Margins{40, 40, 40, 40},
		Content: []Block{
			headerBands(),
			header(total),
			Columns{Columns: []Block{billTo(client), details(info)}},
			items(summary, info.HourlyRate, total),
		},
		Styles:       Styles(),
		DefaultStyle: Style{Font: DefaultFont},
	}
}

func headerBands() Canvas {
	return Canvas{Canvas: []Rect{
		{X: -40, Y: -40, W: 400, H: 80, Color: "#000000"},
		{X: 360, Y: -40, W: 235, H: 80, Color: "#333333"},
	}}
}

func header(total string) Columns {
	return Columns{
		Margin: Margin(-40, -80, -40, 40),
		Columns: []Block{
			Text{Text: "INVOICE", Style: StyleInvoiceTitle, Width: Star},
			Stack{
				Width:  Auto,
				Margin: Margin(0, 10, 40, 0),
				Stack: []Block{
					Text{Text: amountDueLabel, Style: StyleAmountDueLabel},
					Text{Text: total, Style: StyleAmountDueValue},
				},
			},
		},
	}
}

func billTo(client invoice.ClientInfo) Stack {
	blocks := []Block{Text{Text: "BILL TO", Style: StyleSectionTitle}}

	if client.Name != "" {
		blocks = append(blocks, Text{Text: client.Name, Style: StyleClientName})
	}
	for _, line := range AddressLines(client) {
		blocks = append(blocks, Text{Text: line, Style: StyleClientDetails})
	}
	if client.Phone != "" {
		blocks = append(blocks, Text{Text: client.Phone, Style: StyleClientDetails, Margin: Margin(0, 10, 0, 0)})
	}
	if client.Email != "" {
		blocks = append(blocks, Text{Text: client.Email, Style: StyleClientDetails, Margin: Margin(0, 2, 0, 0)})
	}

	return Stack{Width: Star, Stack: blocks}
}

// AddressLines returns the postal lines of client's address: company,
// free-text address, street lines, "City, State Zip" and country.
// Empty parts are left out.
func AddressLines(client invoice.ClientInfo) []string {
	var lines []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			lines = append(lines, s)
		}
	}

	add(client.Company)
	for _, line := range strings.Split(client.Address, "\n") {
		add(line)
	}
	add(client.Address1)
	add(client.Address2)
	add(cityLine(client.City, client.State, client.Zip))
	add(client.Country)

	return lines
}

func cityLine(city, state, zip string) string {
	city, state, zip = strings.TrimSpace(city), strings.TrimSpace(state), strings.TrimSpace(zip)

	line := city
	if city != "" && state != "" {
		line += ", "
	}
	line += state
	if line != "" && zip != "" {
		line += " "
	}
	return line + zip
}

func details(info invoice.InvoiceInfo) Stack {
	row := func(label, value string, width float64) Columns {
		return Columns{
			ColumnGap: 10,
			Columns: []Block{
				Text{Text: label, Style: StyleLabel, Width: Auto},
				Text{Text: value, Style: StyleValue, Width: Fixed(width), Alignment: AlignLeft},
			},
		}
	}

	return Stack{
		Width: Auto,
		Stack: []Block{
			row("Invoice Number:", info.Number, 100),
			row("Invoice Date:", format.LongDate(info.Date), 150),
			row("Payment Due:", format.LongDate(info.DueDate), 150),
		},
	}
}

func items(summary *invoice.Summary, rate float64, total string) Table {
	cellMargin := Margin(10, 0, 10, 0)
	formattedRate := format.Currency(rate)

	body := make([][]Cell, 0, len(summary.Lines)+3)
	body = append(body, []Cell{
		{Block: Text{Text: "ITEMS", Style: StyleTableHeader}},
		{Block: Text{Text: "HOURS", Style: StyleTableHeader, Alignment: AlignRight}},
		{Block: Text{Text: "RATE", Style: StyleTableHeader, Alignment: AlignRight, Margin: cellMargin}},
		{Block: Text{Text: "AMOUNT", Style: StyleTableHeader, Alignment: AlignRight}},
	})

	for _, line := range summary.Lines {
		body = append(body, []Cell{
			{Block: Stack{Stack: []Block{
				Text{Text: line.Entry.Client, Style: StyleItemTitle},
				Text{Text: line.Entry.Task, Style: StyleItemDescription},
			}}},
			{Block: Text{Text: line.Entry.Hours, Style: StyleTableCell, Alignment: AlignRight}},
			{Block: Text{Text: formattedRate, Style: StyleTableCell, Alignment: AlignRight, Margin: cellMargin}},
			{Block: Text{Text: format.Currency(line.Amount), Style: StyleTableCell, Alignment: AlignRight}},
		})
	}

	totalRow := func(label string) []Cell {
		return []Cell{
			{Block: Text{}, ColSpan: 2},
			{},
			{Block: Text{Text: label, Style: StyleTotalLabel, Alignment: AlignRight, Margin: cellMargin}},
			{Block: Text{Text: total, Style: StyleTotalValue, Alignment: AlignRight}},
		}
	}
	body = append(body, totalRow("Total:"), totalRow(amountDueLabel+":"))

	return Table{
		Margin:     Margin(0, 40, 0, 0),
		HeaderRows: 1,
		Widths:     []Width{Star, Fixed(60), Fixed(80), Fixed(100)},
		Body:       body,
		Layout:     itemsLayout(),
	}
}

// itemsLayout draws an emphasized line under the header and above the
// totals, and none between the two total rows.
func itemsLayout() TableLayout {
	const light = "#F3F4F6"

	return TableLayout{
		HLines: LinePolicy{
			Default: Line{Width: 0.2, Color: light},
			Rules: []LineRule{
				{At: LineIndex{Offset: 1}, Line: Line{Width: 0.5, Color: "#E5E7EB"}},
				{At: LineIndex{Offset: 2, FromEnd: true}, Line: Line{Width: 0.5, Color: light}},
				{At: LineIndex{Offset: 1, FromEnd: true}, Line: Line{Width: 0, Color: light}},
			},
		},
		Padding: CellPadding{Top: 8, Bottom: 8, Inner: 8, Outer: 0},
	}
}

// Styles returns the named styles referenced by composed invoices.
func Styles() map[string]Style {
	return map[string]Style{
		StyleInvoiceTitle:    {FontSize: 32, Bold: true, Color: "white", Margin: Margin(40, 20, 0, 0)},
		StyleAmountDueLabel:  {FontSize: 12, Color: "white", Alignment: AlignRight},
		StyleAmountDueValue:  {FontSize: 24, Bold: true, Color: "white", Alignment: AlignRight},
		StyleSectionTitle:    {FontSize: 12, Color: "#6B7280", Margin: Margin(0, 0, 0, 8), Bold: true, LetterSpacing: 1},
		StyleClientName:      {FontSize: 16, Bold: true, Margin: Margin(0, 0, 0, 4)},
		StyleClientDetails:   {FontSize: 11, Color: "#374151", LineHeight: 1.4},
		StyleLabel:           {FontSize: 11, Color: "#6B7280"},
		StyleValue:           {FontSize: 11, Color: "#111827"},
		StyleTableHeader:     {FontSize: 10, Bold: true, Color: "#6B7280", Margin: Margin(0, 0, 0, 8), LetterSpacing: 1},
		StyleItemTitle:       {FontSize: 11, Bold: true, Color: "#111827", Margin: Margin(0, 0, 0, 2)},
		StyleItemDescription: {FontSize: 11, Color: "#6B7280"},
		StyleTableCell:       {FontSize: 11, Color: "#374151"},
		StyleTotalLabel:      {FontSize: 11, Bold: true, Color: "#374151"},
		StyleTotalValue:      {FontSize: 11, Bold: true, Color: "#111827"},
	}
}
