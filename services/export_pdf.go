package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"terracotta/domain"
)

// QuoteDocument holds everything printed on a quote PDF.
type QuoteDocument struct {
	Company       string
	QuoteID       string
	CreatedDate   string
	CustomerName  string
	CustomerEmail string
	Phone         string
	Address       string
	Status        string
	Items         []domain.LineItem
	Totals        MarginResult
	// IncludeCost adds the internal cost and margin rows. Customer copies leave it off.
	IncludeCost bool
}

// NewQuoteDocument builds a QuoteDocument from a stored quote, recomputing the
// totals from its line items.
func NewQuoteDocument(company string, q domain.Quote, includeCost bool) QuoteDocument {
	return QuoteDocument{
		Company:       company,
		QuoteID:       q.ID,
		CreatedDate:   q.Created.Format("2006-01-02"),
		CustomerName:  q.CustomerName,
		CustomerEmail: q.CustomerEmail,
		Phone:         q.Phone,
		Address:       q.Address,
		Status:        string(q.Status),
		Items:         q.LineItems,
		Totals:        ComputeMargin(q.LineItems),
		IncludeCost:   includeCost,
	}
}

// GenerateQuotePDF creates a PDF document for a single quote using maroto/v2.
// It returns the raw PDF bytes or an error.
func GenerateQuotePDF(doc QuoteDocument) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).
		WithTopMargin(12).
		WithRightMargin(12).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addQuoteHeader(m, doc)
	addQuoteTableHeader(m)
	for i, item := range doc.Items {
		addQuoteTableRow(m, i+1, item)
	}
	addQuoteSummary(m, doc)

	pdf, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdf.GetBytes(), nil
}

// addQuoteHeader adds the company, customer block and quote reference.
func addQuoteHeader(m core.Maroto, doc QuoteDocument) {
	grey := &props.Color{Red: 80, Green: 80, Blue: 80}

	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New("Quote from "+doc.Company, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	m.AddRows(
		row.New(6).Add(
			col.New(6).Add(
				text.New(doc.CustomerName, props.Text{Size: 10, Style: fontstyle.Bold}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Quote: %s", doc.QuoteID), props.Text{Size: 9, Align: align.Right, Color: grey}),
			),
		),
		row.New(5).Add(
			col.New(6).Add(
				text.New(doc.CustomerEmail, props.Text{Size: 9, Color: grey}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Date: %s", doc.CreatedDate), props.Text{Size: 9, Align: align.Right, Color: grey}),
			),
		),
		row.New(5).Add(
			col.New(6).Add(
				text.New(doc.Phone, props.Text{Size: 9, Color: grey}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Status: %s", doc.Status), props.Text{Size: 9, Align: align.Right, Color: grey}),
			),
		),
		row.New(5).Add(
			col.New(12).Add(
				text.New(doc.Address, props.Text{Size: 9, Color: grey}),
			),
		),
	)

	m.AddRows(row.New(6))
}

// addQuoteTableHeader adds the column header row for the line item table.
func addQuoteTableHeader(m core.Maroto) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left

	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("#", headerText)).WithStyle(&headerCell),
			col.New(5).Add(text.New("Description", headerTextLeft)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Qty", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Unit Price", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Amount", headerText)).WithStyle(&headerCell),
		),
	)
}

// addQuoteTableRow adds one line item, shading every other row.
func addQuoteTableRow(m core.Maroto, index int, item domain.LineItem) {
	baseText := props.Text{Size: 8, Align: align.Center}
	leftText := baseText
	leftText.Align = align.Left
	rightText := baseText
	rightText.Align = align.Right

	amount := item.Price * float64(item.Quantity)

	cols := []core.Col{
		col.New(1).Add(text.New(fmt.Sprintf("%d", index), baseText)),
		col.New(5).Add(text.New(item.Description, leftText)),
		col.New(2).Add(text.New(formatQty(item.Quantity), rightText)),
		col.New(2).Add(text.New(FormatUSD(item.Price), rightText)),
		col.New(2).Add(text.New(FormatUSD(amount), rightText)),
	}
	if index%2 == 0 {
		shade := &props.Cell{BackgroundColor: &props.Color{Red: 245, Green: 245, Blue: 245}}
		for i := range cols {
			cols[i] = cols[i].WithStyle(shade)
		}
	}

	m.AddRows(row.New(7).Add(cols...))
}

// addQuoteSummary adds the total, and for internal copies the cost and margin.
func addQuoteSummary(m core.Maroto, doc QuoteDocument) {
	m.AddRows(row.New(6))

	summaryCell := &props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240}}
	labelStyle := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	valueStyle := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}

	addLine := func(label, value string) {
		m.AddRows(
			row.New(8).Add(
				col.New(8).Add(text.New(label, labelStyle)).WithStyle(summaryCell),
				col.New(4).Add(text.New(value, valueStyle)).WithStyle(summaryCell),
			),
		)
	}

	addLine("Total", FormatUSD(doc.Totals.TotalPrice))
	if doc.IncludeCost {
		addLine("Total Cost", FormatUSD(doc.Totals.TotalCost))
		addLine("Margin", FormatPercent(doc.Totals.Margin))
	}
}
