// Package statementtest builds in-memory statement workbooks for tests.
package statementtest

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

// Workbook returns .xlsx bytes with header in row 1 and rows below it on the
// default sheet. Cell values keep their Go types, so numbers are stored as
// numeric cells.
func Workbook(t testing.TB, header []string, rows ...[]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	headerCells := make([]any, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		t.Fatalf("write header: %v", err)
	}

	for i, r := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		values := r
		if err := f.SetSheetRow(sheet, cellRef, &values); err != nil {
			t.Fatalf("write row %d: %v", i, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("encode workbook: %v", err)
	}
	return buf.Bytes()
}

// Statement is Workbook with the standard Description/Amount header.
func Statement(t testing.TB, rows ...[]any) []byte {
	t.Helper()
	return Workbook(t, []string{"Description", "Amount"}, rows...)
}
