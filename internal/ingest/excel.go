package ingest

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	TargetSheet     = "targets"
	CollectionSheet = "collections"
)

var (
	ErrInvalidFile     = errors.New("invalid excel file")
	ErrSheetNotFound   = errors.New("sheet not found")
	ErrMalformedRow    = errors.New("malformed row")
	ErrUnknownBranch   = errors.New("unknown branch")
	ErrPeriodPopulated = errors.New("period already has records")
	ErrPeriodEmpty     = errors.New("period has no records")
	ErrDuplicateRecord = errors.New("record already exists for this branch and period")
)

// Row is one data row of an upload: branch name in the first cell, amount
// in the second. Anything else is a malformed row.
type Row struct {
	BranchName string
	Amount     decimal.Decimal
}

// ReadSheetRows parses the named sheet into rows, skipping the header row.
// A row with the wrong cell count or a non-numeric amount aborts the whole
// file: uploads are all-or-nothing.
func ReadSheetRows(r io.Reader, sheet string) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}

	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	rows := make([]Row, 0, len(raw))
	for i, cells := range raw {
		if i == 0 {
			continue // header row
		}
		if len(cells) == 0 {
			continue // trailing blank row
		}
		if len(cells) != 2 {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected 2", ErrMalformedRow, i+1, len(cells))
		}

		name := strings.TrimSpace(cells[0])
		if name == "" {
			return nil, fmt.Errorf("%w: row %d has an empty branch name", ErrMalformedRow, i+1)
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(cells[1]))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d amount %q is not numeric", ErrMalformedRow, i+1, cells[1])
		}

		rows = append(rows, Row{BranchName: name, Amount: amount})
	}

	return rows, nil
}
