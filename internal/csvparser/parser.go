// =============================================================================
// Gift Card Intake - CSV Parser Module
// =============================================================================
//
// This module turns the raw text of a bulk upload into an ordered list of
// classified rows. Each row is validated and duplicate-checked on its own; a
// bad row never stops the rest of the file from parsing.
//
// FILE FORMAT:
//   store,last4,amount,added_by,notes          <- optional header
//   Walmart,1234,100.00,Sarah Johnson,Example card
//   Target,5678,50.00,Mike Davis,
//
// PARSING PROCESS:
//   1. Trim the text and split it on line boundaries (\n or \r\n)
//   2. Drop the first line when it mentions "store" (header detection)
//   3. Drop blank lines
//   4. Split each line on commas; tokens past the fifth are folded back into
//      notes so a note may contain commas
//   5. Validate the fields and collect the error messages
//   6. Duplicate-check valid rows against the pre-existing dataset only
//   7. Number the rows from 1 in file order
//
// Quoting is not interpreted: a comma always separates fields.
//
// =============================================================================

package csvparser

import (
	"strings"

	"github.com/ginjaninja78/giftcard-intake/internal/duplicates"
	"github.com/ginjaninja78/giftcard-intake/internal/types"
	"github.com/ginjaninja78/giftcard-intake/internal/validation"
)

// =============================================================================
// COLUMN LAYOUT
// =============================================================================

// Columns lists the five logical fields in file order.
var Columns = []string{"store", "last4", "amount", "added_by", "notes"}

const (
	colStore = iota
	colLast4
	colAmount
	colAddedBy
	colNotes
	columnCount
)

// headerMarker identifies a header line (case-insensitive substring).
const headerMarker = "store"

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse classifies every data line of text.
//
// PARAMETERS:
//   - text: The complete upload, already decoded as UTF-8.
//   - existing: The pre-existing dataset. Cards committed earlier in the
//     session are deliberately not consulted, and neither are earlier rows of
//     the same file: two identical lines are classified independently.
//
// RETURNS:
//   - The rows in file order. Parsing is a pure function of its inputs.
func Parse(text string, existing []types.ExistingRecord) []types.CSVRow {
	lines := dataLines(text)
	if len(lines) == 0 {
		return []types.CSVRow{}
	}

	index := duplicates.NewIndex(duplicates.BuildPool(existing, nil))

	rows := make([]types.CSVRow, 0, len(lines))
	for i, line := range lines {
		rows = append(rows, classify(i+1, SplitFields(line), index))
	}

	return rows
}

// dataLines applies steps 1 to 3: split, header detection, blank removal.
func dataLines(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}

	if strings.Contains(strings.ToLower(lines[0]), headerMarker) {
		lines = lines[1:]
	}

	data := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		data = append(data, line)
	}

	return data
}

// SplitFields splits one line into exactly five trimmed fields.
//
// Extra tokens are joined back into notes with their commas restored;
// missing trailing fields are empty strings.
func SplitFields(line string) []string {
	tokens := strings.Split(line, ",")
	for i := range tokens {
		tokens[i] = strings.TrimSpace(tokens[i])
	}

	fields := make([]string, columnCount)
	for i := 0; i < colNotes && i < len(tokens); i++ {
		fields[i] = tokens[i]
	}
	if len(tokens) > colNotes {
		fields[colNotes] = strings.Join(tokens[colNotes:], ",")
	}

	return fields
}

// classify builds one row and derives its status.
//
// Status is never set directly: error if any rule fails, otherwise duplicate
// if the index has a hit, otherwise valid.
func classify(rowNumber int, fields []string, index *duplicates.Index) types.CSVRow {
	row := types.CSVRow{
		RowNumber: rowNumber,
		Store:     fields[colStore],
		Last4:     fields[colLast4],
		Amount:    fields[colAmount],
		AddedBy:   fields[colAddedBy],
		Notes:     fields[colNotes],
		Errors:    []string{},
	}

	if errs := validation.RowErrors(row.Candidate()); len(errs) > 0 {
		row.Errors = errs
		row.Status = types.StatusError
		return row
	}

	if _, dup := index.Find(row.Store, row.Last4); dup {
		row.Status = types.StatusDuplicate
		return row
	}

	row.Status = types.StatusValid
	return row
}

// =============================================================================
// SUMMARY
// =============================================================================

// Summary counts parsed rows by status.
type Summary struct {
	Total      int `json:"total"`
	Valid      int `json:"valid"`
	Duplicates int `json:"duplicates"`
	Errors     int `json:"errors"`
}

// Summarize counts rows by status.
func Summarize(rows []types.CSVRow) Summary {
	s := Summary{Total: len(rows)}
	for _, r := range rows {
		switch r.Status {
		case types.StatusValid:
			s.Valid++
		case types.StatusDuplicate:
			s.Duplicates++
		case types.StatusError:
			s.Errors++
		}
	}
	return s
}
