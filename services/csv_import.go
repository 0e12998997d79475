package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"terracotta/store"
)

// ValidationError represents a single field-level error on one row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportResult summarises a bulk customer import.
type ImportResult struct {
	TotalRows int               `json:"total_rows"`
	Created   int               `json:"created"`
	Skipped   int               `json:"skipped"`
	Errors    []ValidationError `json:"errors"`
}

// importColumn is one recognised column of a customer import file.
type importColumn struct {
	Key      string
	Label    string
	Required bool
}

var customerImportColumns = []importColumn{
	{Key: "name", Label: "Name", Required: true},
	{Key: "email", Label: "Email", Required: true},
	{Key: "phone", Label: "Phone"},
	{Key: "address", Label: "Address"},
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	return rows[0], rows[1:], nil
}

// parseImportFile dispatches on the file extension; names without one are
// read as CSV.
func parseImportFile(file io.Reader, fileName string) ([]string, [][]string, error) {
	lower := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lower, ".xlsx"):
		return parseExcel(file)
	case strings.HasSuffix(lower, ".csv"), !strings.Contains(lower, "."):
		return parseCSV(file)
	default:
		return nil, nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
}

// mapHeadersToFields maps uploaded column headers to column keys, matching
// either the key or the label case-insensitively. Returns one key per header
// ("" for unknown headers) and the unrecognised header names.
func mapHeadersToFields(headers []string, columns []importColumn) ([]string, []string) {
	lookup := make(map[string]string, len(columns)*2)
	for _, c := range columns {
		lookup[strings.ToLower(c.Key)] = c.Key
		lookup[strings.ToLower(c.Label)] = c.Key
	}

	mapped := make([]string, len(headers))
	var unrecognized []string
	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		norm = strings.TrimSpace(strings.TrimSuffix(norm, " *"))
		if key, ok := lookup[norm]; ok {
			mapped[i] = key
		} else {
			unrecognized = append(unrecognized, h)
		}
	}
	return mapped, unrecognized
}

// Import creates customers from an uploaded CSV or xlsx file with name, email,
// phone and address columns. Rows whose email already exists (in the store or
// earlier in the file) are skipped; invalid rows are reported and not created.
func (s *CustomerService) Import(ctx context.Context, file io.Reader, fileName string) (*ImportResult, error) {
	headers, dataRows, err := parseImportFile(file, fileName)
	if err != nil {
		return nil, err
	}

	columnKeys, _ := mapHeadersToFields(headers, customerImportColumns)
	for _, c := range customerImportColumns {
		if c.Required && !containsString(columnKeys, c.Key) {
			return nil, fmt.Errorf("missing required column %q", c.Label)
		}
	}

	result := &ImportResult{TotalRows: len(dataRows), Errors: []ValidationError{}}
	seen := make(map[string]bool, len(dataRows))

	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row
		rowData := make(map[string]string, len(columnKeys))
		for colIdx, key := range columnKeys {
			if key == "" || colIdx >= len(row) {
				continue
			}
			rowData[key] = strings.TrimSpace(row[colIdx])
		}

		if isBlankRow(rowData) {
			result.TotalRows--
			continue
		}

		rowErrors := validateCustomerRow(rowNum, rowData)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			continue
		}

		emailKey := strings.ToLower(rowData["email"])
		if seen[emailKey] {
			result.Skipped++
			continue
		}
		seen[emailKey] = true

		_, err := s.Create(ctx, CustomerInput{
			Name:    rowData["name"],
			Email:   rowData["email"],
			Phone:   rowData["phone"],
			Address: rowData["address"],
		})
		switch {
		case err == nil:
			result.Created++
		case errors.Is(err, ErrCustomerExists), errors.Is(err, store.ErrDuplicate):
			result.Skipped++
		default:
			return result, fmt.Errorf("import row %d: %w", rowNum, err)
		}
	}

	return result, nil
}

func validateCustomerRow(rowNum int, data map[string]string) []ValidationError {
	var errs []ValidationError
	for _, c := range customerImportColumns {
		if c.Required && data[c.Key] == "" {
			errs = append(errs, ValidationError{
				Row:     rowNum,
				Field:   c.Label,
				Message: fmt.Sprintf("%s is required", c.Label),
			})
		}
	}
	if v := data["email"]; v != "" && !ValidateEmail(v) {
		errs = append(errs, ValidationError{Row: rowNum, Field: "Email", Message: "Invalid email format"})
	}
	if v := data["phone"]; v != "" && !ValidatePhone(v) {
		errs = append(errs, ValidationError{Row: rowNum, Field: "Phone", Message: "Phone must contain 7 to 15 digits"})
	}
	return errs
}

func isBlankRow(data map[string]string) bool {
	for _, v := range data {
		if v != "" {
			return false
		}
	}
	return true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// GenerateErrorReport creates a downloadable .xlsx file from validation errors.
func GenerateErrorReport(errs []ValidationError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	f.SetCellValue(sheet, "A1", "Row #")
	f.SetCellValue(sheet, "B1", "Field")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errs {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, e.Field)
		f.SetCellValue(sheet, "C"+row, sanitizeExcelCell(e.Message))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
