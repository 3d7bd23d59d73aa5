package ingest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, sheet string, rows [][]interface{}) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet(sheet)
	require.NoError(t, err)

	for i, cells := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &cells))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestReadSheetRowsSkipsHeader(t *testing.T) {
	r := buildWorkbook(t, TargetSheet, [][]interface{}{
		{"Branch Name", "Target Amount"},
		{"KADIKOY", 10000},
		{"BESIKTAS", "2500.50"},
	})

	rows, err := ReadSheetRows(r, TargetSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "KADIKOY", rows[0].BranchName)
	require.True(t, rows[0].Amount.Equal(dec("10000")))
	require.Equal(t, "BESIKTAS", rows[1].BranchName)
	require.True(t, rows[1].Amount.Equal(dec("2500.50")))
}

func TestReadSheetRowsWrongCellCount(t *testing.T) {
	r := buildWorkbook(t, TargetSheet, [][]interface{}{
		{"Branch Name", "Target Amount"},
		{"KADIKOY", 10000, "extra"},
	})

	_, err := ReadSheetRows(r, TargetSheet)
	require.ErrorIs(t, err, ErrMalformedRow)
	require.Contains(t, err.Error(), "row 2")
}

func TestReadSheetRowsNonNumericAmount(t *testing.T) {
	r := buildWorkbook(t, CollectionSheet, [][]interface{}{
		{"Branch Name", "Collection"},
		{"KADIKOY", "ten thousand"},
	})

	_, err := ReadSheetRows(r, CollectionSheet)
	require.ErrorIs(t, err, ErrMalformedRow)
}

func TestReadSheetRowsEmptyBranchName(t *testing.T) {
	r := buildWorkbook(t, TargetSheet, [][]interface{}{
		{"Branch Name", "Target Amount"},
		{"  ", 500},
	})

	_, err := ReadSheetRows(r, TargetSheet)
	require.ErrorIs(t, err, ErrMalformedRow)
}

func TestReadSheetRowsMissingSheet(t *testing.T) {
	r := buildWorkbook(t, TargetSheet, [][]interface{}{
		{"Branch Name", "Target Amount"},
	})

	_, err := ReadSheetRows(r, CollectionSheet)
	require.ErrorIs(t, err, ErrSheetNotFound)
}

func TestReadSheetRowsNotAnExcelFile(t *testing.T) {
	_, err := ReadSheetRows(strings.NewReader("definitely not a workbook"), TargetSheet)
	require.ErrorIs(t, err, ErrInvalidFile)
}

func TestReadSheetRowsHeaderOnly(t *testing.T) {
	r := buildWorkbook(t, TargetSheet, [][]interface{}{
		{"Branch Name", "Target Amount"},
	})

	rows, err := ReadSheetRows(r, TargetSheet)
	require.NoError(t, err)
	require.Empty(t, rows)
}
