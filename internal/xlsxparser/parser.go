// =============================================================================
// Gift Card Intake - XLSX Dataset Parser
// =============================================================================
//
// This module reads the pre-existing card inventory from an XLSX workbook.
// Spreadsheet exports are how most stores hand over their card lists, so the
// workbook is one of the dataset formats accepted at session start.
//
// WORKBOOK STRUCTURE (first sheet):
//
//   | id | store   | last4 | initial_balance | remaining_balance | status | added_date | added_by  |
//   |----|---------|-------|-----------------|-------------------|--------|------------|-----------|
//   | 1  | Target  | 5678  | 50.00           | 20.00             | active | 2024-01-01 | Lisa Chen |
//
// Columns are located by header name (case-insensitive, spaces and
// underscores ignored), so their order may differ between workbooks. When the
// first row carries no recognizable header the default positions above are
// used and every row is treated as data.
//
// Cells are read as displayed text: a last4 cell formatted as "0012" keeps
// its leading zeros.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ginjaninja78/giftcard-intake/internal/types"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Header lists the dataset columns in their default order.
var Header = []string{
	"id",
	"store",
	"last4",
	"initial_balance",
	"remaining_balance",
	"status",
	"added_date",
	"added_by",
}

// =============================================================================
// COLUMN CONFIGURATION
// =============================================================================

// DatasetColumns holds the zero-based position of each dataset column.
// A negative position means the column is absent.
type DatasetColumns struct {
	ID               int
	Store            int
	Last4            int
	InitialBalance   int
	RemainingBalance int
	Status           int
	AddedDate        int
	AddedBy          int
}

// DefaultDatasetColumns returns the positions used by Header.
func DefaultDatasetColumns() DatasetColumns {
	return DatasetColumns{
		ID:               0, // Column A
		Store:            1, // Column B
		Last4:            2, // Column C
		InitialBalance:   3, // Column D
		RemainingBalance: 4, // Column E
		Status:           5, // Column F
		AddedDate:        6, // Column G
		AddedBy:          7, // Column H
	}
}

// columnsFromHeader locates the columns named in a header row.
// ok is false when the row names neither store nor last4.
func columnsFromHeader(row []string) (DatasetColumns, bool) {
	cols := DatasetColumns{-1, -1, -1, -1, -1, -1, -1, -1}
	for i, cell := range row {
		switch normalizeHeader(cell) {
		case "id":
			cols.ID = i
		case "store":
			cols.Store = i
		case "last4":
			cols.Last4 = i
		case "initialbalance":
			cols.InitialBalance = i
		case "remainingbalance", "balance":
			cols.RemainingBalance = i
		case "status":
			cols.Status = i
		case "addeddate", "dateadded":
			cols.AddedDate = i
		case "addedby":
			cols.AddedBy = i
		}
	}
	return cols, cols.Store >= 0 && cols.Last4 >= 0
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads the dataset from an XLSX file.
//
// PARAMETERS:
//   - path: The path to the workbook.
//
// RETURNS:
//   - The records in sheet order.
//   - An error if the workbook cannot be opened or a row cannot be parsed.
func Parse(path string) ([]types.ExistingRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset workbook: %w", err)
	}
	defer f.Close()

	return parseFile(f)
}

// ParseReader reads the dataset from an XLSX stream.
func ParseReader(r io.Reader) ([]types.ExistingRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset workbook: %w", err)
	}
	defer f.Close()

	return parseFile(f)
}

func parseFile(f *excelize.File) ([]types.ExistingRecord, error) {
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("dataset workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	records := []types.ExistingRecord{}
	if len(rows) == 0 {
		return records, nil
	}

	columns, hasHeader := columnsFromHeader(rows[0])
	start := 1
	if !hasHeader {
		columns = DefaultDatasetColumns()
		start = 0
	}

	for i := start; i < len(rows); i++ {
		row := rows[i]
		if isRowEmpty(row) {
			continue
		}

		record, err := parseRow(row, columns)
		if err != nil {
			return nil, fmt.Errorf("error parsing row %d: %w", i+1, err)
		}
		records = append(records, record)
	}

	return records, nil
}

// parseRow extracts one ExistingRecord from a row.
func parseRow(row []string, columns DatasetColumns) (types.ExistingRecord, error) {
	getCell := func(index int) string {
		if index >= 0 && index < len(row) {
			return strings.TrimSpace(row[index])
		}
		return ""
	}

	record := types.ExistingRecord{
		Store:     getCell(columns.Store),
		Last4:     getCell(columns.Last4),
		Status:    strings.ToLower(getCell(columns.Status)),
		AddedDate: getCell(columns.AddedDate),
		AddedBy:   getCell(columns.AddedBy),
	}

	if s := getCell(columns.ID); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return record, fmt.Errorf("invalid id %q: %w", s, err)
		}
		record.ID = id
	}

	var err error
	if record.InitialBalance, err = parseBalance(getCell(columns.InitialBalance)); err != nil {
		return record, fmt.Errorf("invalid initial_balance: %w", err)
	}
	if record.RemainingBalance, err = parseBalance(getCell(columns.RemainingBalance)); err != nil {
		return record, fmt.Errorf("invalid remaining_balance: %w", err)
	}

	return record, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseBalance reads a money cell. Blank cells are zero; a leading "$" and
// thousands separators are tolerated since spreadsheets add them.
func parseBalance(s string) (decimal.Decimal, error) {
	s = strings.NewReplacer("$", "", ",", "").Replace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
