// =============================================================================
// Gift Card Intake - Field Validator
// =============================================================================
//
// This module validates one candidate card record. Every rule is evaluated on
// every call, so a record can carry several errors at once:
//   - store:    required (not empty, not whitespace-only)
//   - last4:    exactly four decimal digits, leading zeros allowed
//   - amount:   a decimal number greater than zero, no upper bound
//   - addedBy:  required (not empty, not whitespace-only)
//   - notes:    optional, never fails
//
// Two output shapes are produced from the same rules:
//   1. Validate    -> FieldErrors keyed by field name (the guided form)
//   2. RowErrors   -> ordered list of messages (the CSV preview table)
//
// The functions here are pure. They never log and never return Go errors:
// a failed rule is data, not a failure of the program.
//
// =============================================================================

package validation

import (
	"regexp"
	"strings"

	"github.com/ginjaninja78/giftcard-intake/internal/types"
	"github.com/shopspring/decimal"
)

// =============================================================================
// MESSAGES
// =============================================================================

// Form messages, keyed by field in FieldErrors.
const (
	MsgStoreRequired   = "Store is required"
	MsgLast4Digits     = "Must be exactly 4 digits"
	MsgAmountInvalid   = "Enter a valid dollar amount"
	MsgAddedByRequired = "Added by is required"
)

// CSV row messages. A row's errors are shown as stacked lines with no field
// column next to them, so each message names its field.
const (
	RowMsgStoreRequired   = "Store is required"
	RowMsgLast4Digits     = "Last 4 must be exactly 4 digits"
	RowMsgAmountInvalid   = "Amount must be a positive number"
	RowMsgAddedByRequired = "Added by is required"
)

var (
	last4Pattern  = regexp.MustCompile(`^[0-9]{4}$`)
	amountPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)
)

// =============================================================================
// RULES
// =============================================================================

// rule is one independent check. field is the FieldErrors key; formMsg and
// rowMsg are the two renderings of the same failure.
type rule struct {
	field   string
	formMsg string
	rowMsg  string
	ok      func(c types.CandidateRecord) bool
}

// rules are evaluated in display order: store, last4, amount, addedBy.
var rules = []rule{
	{
		field:   types.FieldStore,
		formMsg: MsgStoreRequired,
		rowMsg:  RowMsgStoreRequired,
		ok:      func(c types.CandidateRecord) bool { return !isBlank(c.Store) },
	},
	{
		field:   types.FieldLast4,
		formMsg: MsgLast4Digits,
		rowMsg:  RowMsgLast4Digits,
		ok:      func(c types.CandidateRecord) bool { return ValidLast4(c.Last4) },
	},
	{
		field:   types.FieldAmount,
		formMsg: MsgAmountInvalid,
		rowMsg:  RowMsgAmountInvalid,
		ok: func(c types.CandidateRecord) bool {
			_, ok := ParseAmount(c.Amount)
			return ok
		},
	},
	{
		field:   types.FieldAddedBy,
		formMsg: MsgAddedByRequired,
		rowMsg:  RowMsgAddedByRequired,
		ok:      func(c types.CandidateRecord) bool { return !isBlank(c.AddedBy) },
	},
}

// =============================================================================
// ENTRY POINTS
// =============================================================================

// Validate checks a candidate and returns the failing fields.
//
// RETURNS:
//   - FieldErrors with one entry per failing field; empty when acceptable.
func Validate(c types.CandidateRecord) types.FieldErrors {
	errs := make(types.FieldErrors)
	for _, r := range rules {
		if !r.ok(c) {
			errs[r.field] = r.formMsg
		}
	}
	return errs
}

// RowErrors runs the same rules as Validate and returns the failures as an
// ordered list of messages for a CSV row.
func RowErrors(c types.CandidateRecord) []string {
	var msgs []string
	for _, r := range rules {
		if !r.ok(c) {
			msgs = append(msgs, r.rowMsg)
		}
	}
	return msgs
}

// =============================================================================
// FIELD HELPERS
// =============================================================================

// ValidLast4 reports whether s is exactly four ASCII digits.
// "0001" is valid; "12", "12345" and " 1234" are not.
func ValidLast4(s string) bool {
	return last4Pattern.MatchString(s)
}

// ParseAmount parses a positive decimal amount.
//
// Surrounding whitespace is ignored. Only plain digits with an optional
// fractional part are accepted: signs, currency symbols, exponents ("1e2")
// and trailing garbage ("12.5.6", "12abc") are invalid, as is zero.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if !amountPattern.MatchString(s) {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}

	if !d.IsPositive() {
		return decimal.Zero, false
	}

	return d, true
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
