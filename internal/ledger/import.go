package ledger

import (
	"fmt"

	"github.com/ginjaninja78/giftcard-intake/internal/types"
	"github.com/ginjaninja78/giftcard-intake/internal/validation"
)

// Selectable returns how many rows policy would commit.
func Selectable(rows []types.CSVRow, policy types.ImportPolicy) int {
	n := 0
	for _, r := range rows {
		if policy.Selects(r.Status) {
			n++
		}
	}
	return n
}

// ImportRows commits the rows selected by policy, in file order.
//
// Error rows are never selected. The selected rows are checked before any of
// them is appended and the batch is appended under one lock, so either every
// selected row lands contiguously and in order, or none does.
//
// RETURNS:
//   - The number of rows committed.
//   - An error for an unknown policy, or when a row marked valid or duplicate
//     does not actually pass validation. Nothing is committed in that case.
func (l *Ledger) ImportRows(rows []types.CSVRow, policy types.ImportPolicy) (int, error) {
	switch policy {
	case types.PolicyValidOnly, types.PolicyIncludeDuplicates:
	default:
		return 0, fmt.Errorf("unknown import policy %q", policy)
	}

	selected := make([]types.CandidateRecord, 0, len(rows))
	for _, row := range rows {
		if !policy.Selects(row.Status) {
			continue
		}
		c := row.Candidate()
		if errs := validation.Validate(c); !errs.OK() {
			return 0, fmt.Errorf("row %d: %w", row.RowNumber, ErrInvalidCandidate)
		}
		selected = append(selected, c)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, c := range selected {
		if _, err := l.commitLocked(c); err != nil {
			return 0, err
		}
	}

	l.log.Info().
		Str("policy", string(policy)).
		Int("rows", len(rows)).
		Int("committed", len(selected)).
		Msg("bulk import")

	return len(selected), nil
}
