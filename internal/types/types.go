// =============================================================================
// Gift Card Intake - Shared Types
// =============================================================================
//
// This package contains the record types shared by every stage of the intake
// pipeline. Keeping them here avoids import cycles between:
//   - validation
//   - duplicates
//   - csvparser
//   - ledger
//   - intake
//
// =============================================================================

package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// FIELD NAMES
// =============================================================================

// Field names used as keys in FieldErrors.
const (
	FieldStore   = "store"
	FieldLast4   = "last4"
	FieldAmount  = "amount"
	FieldAddedBy = "addedBy"
	FieldNotes   = "notes"
)

// FieldErrors maps a field name to its validation message.
// An empty map means the record may proceed to duplicate checking.
type FieldErrors map[string]string

// OK reports whether no field failed validation.
func (e FieldErrors) OK() bool {
	return len(e) == 0
}

// =============================================================================
// CANDIDATE AND COMMITTED RECORDS
// =============================================================================

// CandidateRecord is unvalidated card data typed by an operator or read from
// one CSV line. Amount stays as text until it is committed.
type CandidateRecord struct {
	Store   string `json:"store"`
	Last4   string `json:"last4"`
	Amount  string `json:"amount"`
	AddedBy string `json:"addedBy"`
	Notes   string `json:"notes"`

	// DateAdded defaults to the ingestion date when zero.
	DateAdded time.Time `json:"dateAdded,omitempty"`
}

// CommittedRecord is a candidate accepted into the session ledger.
// It is never mutated after creation.
type CommittedRecord struct {
	ID          int64           `json:"id"`
	Store       string          `json:"store"`
	Last4       string          `json:"last4"`
	Amount      decimal.Decimal `json:"amount"`
	AddedBy     string          `json:"addedBy"`
	Notes       string          `json:"notes,omitempty"`
	DateAdded   time.Time       `json:"dateAdded"`
	CommittedAt time.Time       `json:"committedAt"`

	// OrderKey is derived from CommittedAt and is strictly increasing
	// across the ledger.
	OrderKey int64 `json:"orderKey"`
}

// =============================================================================
// EXTERNAL DATASET
// =============================================================================

// ExistingRecord is a read-only card from the pre-loaded dataset.
type ExistingRecord struct {
	ID               int64           `json:"id" yaml:"id"`
	Store            string          `json:"store" yaml:"store"`
	Last4            string          `json:"last4" yaml:"last4"`
	InitialBalance   decimal.Decimal `json:"initialBalance" yaml:"initialBalance"`
	RemainingBalance decimal.Decimal `json:"remainingBalance" yaml:"remainingBalance"`
	Status           string          `json:"status" yaml:"status"`
	AddedDate        string          `json:"addedDate" yaml:"addedDate"`
	AddedBy          string          `json:"addedBy" yaml:"addedBy"`
}

// =============================================================================
// DUPLICATE POOL
// =============================================================================

// PoolSource tells where a pool member came from.
type PoolSource string

const (
	SourceExisting PoolSource = "existing"
	SourceSession  PoolSource = "session"
)

// PoolRecord is one member of the duplicate pool, flattened so both existing
// and session records can be shown in a duplicate warning.
type PoolRecord struct {
	ID        int64           `json:"id"`
	Store     string          `json:"store"`
	Last4     string          `json:"last4"`
	Balance   decimal.Decimal `json:"balance"`
	AddedDate string          `json:"addedDate"`
	AddedBy   string          `json:"addedBy"`
	Source    PoolSource      `json:"source"`
}

// FromExisting converts an existing dataset record to a pool member.
// The remaining balance is what a duplicate warning displays.
func FromExisting(r ExistingRecord) PoolRecord {
	return PoolRecord{
		ID:        r.ID,
		Store:     r.Store,
		Last4:     r.Last4,
		Balance:   r.RemainingBalance,
		AddedDate: r.AddedDate,
		AddedBy:   r.AddedBy,
		Source:    SourceExisting,
	}
}

// FromCommitted converts a session record to a pool member.
func FromCommitted(r CommittedRecord) PoolRecord {
	return PoolRecord{
		ID:        r.ID,
		Store:     r.Store,
		Last4:     r.Last4,
		Balance:   r.Amount,
		AddedDate: r.DateAdded.Format(time.DateOnly),
		AddedBy:   r.AddedBy,
		Source:    SourceSession,
	}
}

// =============================================================================
// CSV ROWS
// =============================================================================

// RowStatus is the derived classification of a parsed CSV line.
type RowStatus string

const (
	StatusValid     RowStatus = "valid"
	StatusDuplicate RowStatus = "duplicate"
	StatusError     RowStatus = "error"
)

// CSVRow is one parsed data line. Fields are kept as text.
type CSVRow struct {
	RowNumber int       `json:"rowNumber"`
	Store     string    `json:"store"`
	Last4     string    `json:"last4"`
	Amount    string    `json:"amount"`
	AddedBy   string    `json:"addedBy"`
	Notes     string    `json:"notes"`
	Status    RowStatus `json:"status"`
	Errors    []string  `json:"errors"`
}

// Candidate returns the row's fields as a candidate record.
func (r CSVRow) Candidate() CandidateRecord {
	return CandidateRecord{
		Store:   r.Store,
		Last4:   r.Last4,
		Amount:  r.Amount,
		AddedBy: r.AddedBy,
		Notes:   r.Notes,
	}
}

// =============================================================================
// IMPORT POLICY
// =============================================================================

// ImportPolicy selects which parsed rows a bulk import commits.
type ImportPolicy string

const (
	PolicyValidOnly         ImportPolicy = "valid-only"
	PolicyIncludeDuplicates ImportPolicy = "include-duplicates"
)

// ParsePolicy maps user input to an ImportPolicy.
func ParsePolicy(s string) (ImportPolicy, bool) {
	switch s {
	case "valid-only", "validOnly", "valid":
		return PolicyValidOnly, true
	case "include-duplicates", "includeDuplicates", "all":
		return PolicyIncludeDuplicates, true
	default:
		return "", false
	}
}

// Selects reports whether a row with the given status is committed under p.
// Error rows are never selected.
func (p ImportPolicy) Selects(status RowStatus) bool {
	switch p {
	case PolicyValidOnly:
		return status == StatusValid
	case PolicyIncludeDuplicates:
		return status == StatusValid || status == StatusDuplicate
	default:
		return false
	}
}
