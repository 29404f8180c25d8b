// =============================================================================
// Gift Card Intake - Exports
// =============================================================================
//
// This module renders the downloadable files:
//   - the bulk upload template as a workbook (the CSV form lives in csvparser)
//   - the session ledger as CSV or as a workbook
//
// LEDGER COLUMNS:
//   id,store,last4,amount,added_by,notes,date_added
//
// =============================================================================

package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/ginjaninja78/giftcard-intake/internal/csvparser"
	"github.com/ginjaninja78/giftcard-intake/internal/types"
	"github.com/xuri/excelize/v2"
)

// LedgerHeader lists the ledger export columns.
var LedgerHeader = []string{"id", "store", "last4", "amount", "added_by", "notes", "date_added"}

const (
	templateSheet = "Template"
	ledgerSheet   = "Cards"
)

// =============================================================================
// TEMPLATE
// =============================================================================

// TemplateXLSX writes the upload template as a single-sheet workbook. Every
// cell is text so last4 and amount keep their leading zeros and decimals.
func TemplateXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), templateSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, row := range csvparser.TemplateRows() {
		if err := setRow(f, templateSheet, i, toCells(row)); err != nil {
			return err
		}
	}

	return write(f, w)
}

// =============================================================================
// LEDGER
// =============================================================================

// LedgerCSV writes the committed records with a header row.
func LedgerCSV(w io.Writer, records []types.CommittedRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(LedgerHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(ledgerRow(r)); err != nil {
			return fmt.Errorf("write card %d: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// LedgerXLSX writes the committed records as a workbook. Amounts are
// numeric cells with two decimals.
func LedgerXLSX(w io.Writer, records []types.CommittedRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ledgerSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := setRow(f, ledgerSheet, 0, toCells(LedgerHeader)); err != nil {
		return err
	}

	money := "#,##0.00"
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &money})
	if err != nil {
		return fmt.Errorf("create amount style: %w", err)
	}

	for i, r := range records {
		cells := []any{
			r.ID,
			r.Store,
			r.Last4,
			r.Amount.InexactFloat64(),
			r.AddedBy,
			r.Notes,
			r.DateAdded.Format(time.DateOnly),
		}
		if err := setRow(f, ledgerSheet, i+1, cells); err != nil {
			return err
		}
	}

	if len(records) > 0 {
		last, _ := excelize.CoordinatesToCellName(4, len(records)+1)
		if err := f.SetCellStyle(ledgerSheet, "D2", last, style); err != nil {
			return fmt.Errorf("style amounts: %w", err)
		}
	}

	return write(f, w)
}

func ledgerRow(r types.CommittedRecord) []string {
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.Store,
		r.Last4,
		r.Amount.StringFixed(2),
		r.AddedBy,
		r.Notes,
		r.DateAdded.Format(time.DateOnly),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func toCells(row []string) []any {
	cells := make([]any, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}

// setRow writes cells starting at column A of the zero-based row.
func setRow(f *excelize.File, sheet string, row int, cells []any) error {
	start, err := excelize.CoordinatesToCellName(1, row+1)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, start, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", row+1, err)
	}
	return nil
}

func write(f *excelize.File, w io.Writer) error {
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
