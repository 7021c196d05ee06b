// Package statement loads bank statement spreadsheets into typed rows.
package statement

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Required column headers.
const (
	DescriptionColumn = "Description"
	AmountColumn      = "Amount"
)

// ErrInvalidInput is returned for uploads that are not usable statements.
var ErrInvalidInput = errors.New("invalid input")

// Row is one transaction line from the statement, in file order.
type Row struct {
	// Description is the cell text; blank cells are empty strings.
	Description string
	// Amount is invalid when the cell was blank or not numeric.
	Amount decimal.NullDecimal
	// RawAmount keeps the cell text as read, shown next to unreadable amounts.
	RawAmount string
}

// Load parses the first sheet of an .xlsx workbook. The first non-blank row
// is the header; every later non-blank row becomes a Row.
func Load(data []byte) ([]Row, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty upload", ErrInvalidInput)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: not a readable spreadsheet: %v", ErrInvalidInput, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInvalidInput)
	}

	grid, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: reading sheet %q: %v", ErrInvalidInput, sheets[0], err)
	}

	headerAt := -1
	for i, cells := range grid {
		if !isBlank(cells) {
			headerAt = i
			break
		}
	}
	if headerAt == -1 {
		return nil, fmt.Errorf("%w: sheet %q has no header row", ErrInvalidInput, sheets[0])
	}

	descIdx, amountIdx, err := locateColumns(grid[headerAt])
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(grid)-headerAt-1)
	for _, cells := range grid[headerAt+1:] {
		if isBlank(cells) {
			continue
		}
		raw := cell(cells, amountIdx)
		rows = append(rows, Row{
			Description: cell(cells, descIdx),
			Amount:      CoerceAmount(raw),
			RawAmount:   raw,
		})
	}

	return rows, nil
}

// Bounds on coerced amounts. Magnitudes stay below 1e300 so totals over any
// realistic row count remain finite float64 values, and the exponent floor
// keeps decimal rescaling during summation small.
const (
	maxAmountIntegerDigits = 300
	minAmountExponent      = -340
)

// CoerceAmount reads a signed number from cell text. Anything that is not a
// plain number (blank, text, currency-formatted) or lies outside the amount
// bounds yields an invalid value.
func CoerceAmount(raw string) decimal.NullDecimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !inAmountRange(d) {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func inAmountRange(d decimal.Decimal) bool {
	exp := int(d.Exponent())
	if exp < minAmountExponent || d.NumDigits()+exp > maxAmountIntegerDigits {
		return false
	}
	f, _ := d.Float64()
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

func locateColumns(header []string) (descIdx, amountIdx int, err error) {
	descIdx, amountIdx = -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case DescriptionColumn:
			if descIdx == -1 {
				descIdx = i
			}
		case AmountColumn:
			if amountIdx == -1 {
				amountIdx = i
			}
		}
	}

	var missing []string
	if descIdx == -1 {
		missing = append(missing, DescriptionColumn)
	}
	if amountIdx == -1 {
		missing = append(missing, AmountColumn)
	}
	if len(missing) > 0 {
		return 0, 0, fmt.Errorf("%w: missing required column(s) %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	return descIdx, amountIdx, nil
}

func cell(cells []string, idx int) string {
	if idx < len(cells) {
		return cells[idx]
	}
	return ""
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
