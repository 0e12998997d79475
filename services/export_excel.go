package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"terracotta/domain"
)

const quotesSheet = "Quotes"

// GenerateQuotesExcel creates a workbook with one row per quote (customer,
// status, totals, margin) followed by a grand total row, and returns the file
// contents as a byte slice.
func GenerateQuotesExcel(quotes []domain.Quote, threshold float64) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, quotesSheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}
	lastCol := columns[len(columns)-1]

	widths := []float64{22, 26, 30, 14, 12, 14, 14, 10, 12}
	for i, c := range columns {
		if err := f.SetColWidth(quotesSheet, c, c, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", c, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Color: "#FFFFFF",
			Size:  11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	rowStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create row style: %w", err)
	}

	// Margin below threshold: red text.
	lowMarginStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10, Color: "#C0392B", Bold: true},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create low margin style: %w", err)
	}

	summaryStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary style: %w", err)
	}

	// ── Header row ──────────────────────────────────────────────────────

	headers := []string{"Quote", "Customer", "Email", "Phone", "Status", "Total", "Total Cost", "Margin %", "Created"}
	for i, h := range headers {
		f.SetCellValue(quotesSheet, columns[i]+"1", h)
	}
	f.SetCellStyle(quotesSheet, "A1", lastCol+"1", headerStyle)

	// ── Data rows ───────────────────────────────────────────────────────

	var grandTotal, grandCost float64
	row := 2
	for _, q := range quotes {
		r := fmt.Sprintf("%d", row)

		f.SetCellValue(quotesSheet, "A"+r, q.ID)
		f.SetCellValue(quotesSheet, "B"+r, sanitizeExcelCell(q.CustomerName))
		f.SetCellValue(quotesSheet, "C"+r, sanitizeExcelCell(q.CustomerEmail))
		f.SetCellValue(quotesSheet, "D"+r, sanitizeExcelCell(q.Phone))
		f.SetCellValue(quotesSheet, "E"+r, string(q.Status))
		f.SetCellValue(quotesSheet, "F"+r, q.Total)
		f.SetCellValue(quotesSheet, "G"+r, q.TotalCost)
		f.SetCellValue(quotesSheet, "H"+r, q.Margin)
		f.SetCellValue(quotesSheet, "I"+r, q.Created.Format("2006-01-02"))

		f.SetCellStyle(quotesSheet, "A"+r, lastCol+r, rowStyle)
		if IsBelowMinimumMargin(q.Margin, threshold) {
			f.SetCellStyle(quotesSheet, "H"+r, "H"+r, lowMarginStyle)
		}

		grandTotal += q.Total
		grandCost += q.TotalCost
		row++
	}

	// ── Summary row ─────────────────────────────────────────────────────

	row++
	r := fmt.Sprintf("%d", row)
	f.SetCellValue(quotesSheet, "E"+r, "Total:")
	f.SetCellValue(quotesSheet, "F"+r, Round2(grandTotal))
	f.SetCellValue(quotesSheet, "G"+r, Round2(grandCost))
	f.SetCellStyle(quotesSheet, "E"+r, "G"+r, summaryStyle)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
