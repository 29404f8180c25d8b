// =============================================================================
// Gift Card Intake - Intake State Machine
// =============================================================================
//
// This module drives the single-card workflow behind the guided form:
//
//   form --submit(invalid)---------> form              (field errors shown)
//   form --submit(valid, no dup)---> success           (card committed)
//   form --submit(valid, dup)------> confirm-duplicate (match held)
//   confirm-duplicate --confirm----> success           (card committed)
//   confirm-duplicate --back-------> form              (fields kept)
//   success --add another----------> form              (fields cleared)
//
// Any other event is rejected with ErrInvalidTransition and leaves the
// machine untouched. There is no terminal state.
//
// A Machine is not safe for concurrent use. Callers serving several
// goroutines guard each machine with their own lock.
//
// =============================================================================

package intake

import (
	"errors"
	"fmt"

	"github.com/ginjaninja78/giftcard-intake/internal/types"
	"github.com/ginjaninja78/giftcard-intake/internal/validation"
)

// ErrInvalidTransition is returned when an event is not allowed in the
// current stage.
var ErrInvalidTransition = errors.New("invalid intake transition")

// Stage is the current step of the workflow.
type Stage string

const (
	StageForm             Stage = "form"
	StageConfirmDuplicate Stage = "confirm-duplicate"
	StageSuccess          Stage = "success"
)

// Ledger is the part of the session ledger the machine needs.
//
// CommitIfNew must check for a duplicate and append in one step: machines
// sharing a ledger submit concurrently.
type Ledger interface {
	Commit(c types.CandidateRecord) (types.CommittedRecord, error)
	CommitIfNew(c types.CandidateRecord) (types.CommittedRecord, types.PoolRecord, bool, error)
	FindDuplicate(store, last4 string) (types.PoolRecord, bool)
}

// State is a snapshot of the machine for the presentation layer.
type State struct {
	Stage     Stage                  `json:"stage"`
	Candidate types.CandidateRecord  `json:"candidate"`
	Errors    types.FieldErrors      `json:"errors"`
	Duplicate *types.PoolRecord      `json:"duplicate,omitempty"`
	Committed *types.CommittedRecord `json:"committed,omitempty"`
}

// Machine holds one operator's intake session.
type Machine struct {
	ledger Ledger

	stage     Stage
	candidate types.CandidateRecord
	errors    types.FieldErrors
	duplicate *types.PoolRecord
	committed *types.CommittedRecord
}

// New returns a machine in the form stage with an empty candidate.
func New(ledger Ledger) *Machine {
	return &Machine{
		ledger: ledger,
		stage:  StageForm,
		errors: types.FieldErrors{},
	}
}

// Stage returns the current stage.
func (m *Machine) Stage() Stage {
	return m.stage
}

// State returns a snapshot of the machine.
func (m *Machine) State() State {
	s := State{
		Stage:     m.stage,
		Candidate: m.candidate,
		Errors:    types.FieldErrors{},
	}
	for k, v := range m.errors {
		s.Errors[k] = v
	}
	if m.duplicate != nil {
		d := *m.duplicate
		s.Duplicate = &d
	}
	if m.committed != nil {
		c := *m.committed
		s.Committed = &c
	}
	return s
}

// =============================================================================
// EVENTS
// =============================================================================

// Submit validates the candidate and either keeps the form open with errors,
// holds a duplicate match for confirmation, or commits the card.
func (m *Machine) Submit(c types.CandidateRecord) (State, error) {
	if m.stage != StageForm {
		return m.State(), m.invalid("submit")
	}

	m.candidate = c
	m.errors = validation.Validate(c)
	if !m.errors.OK() {
		return m.State(), nil
	}

	rec, match, found, err := m.ledger.CommitIfNew(c)
	if err != nil {
		return m.State(), fmt.Errorf("commit card: %w", err)
	}
	if found {
		m.duplicate = &match
		m.stage = StageConfirmDuplicate
		return m.State(), nil
	}

	m.committed = &rec
	m.stage = StageSuccess
	return m.State(), nil
}

// Confirm commits the held candidate despite the duplicate warning.
func (m *Machine) Confirm() (State, error) {
	if m.stage != StageConfirmDuplicate {
		return m.State(), m.invalid("confirm")
	}
	return m.commit()
}

// Back returns to the form, discarding the match but keeping the fields.
func (m *Machine) Back() (State, error) {
	if m.stage != StageConfirmDuplicate {
		return m.State(), m.invalid("back")
	}
	m.duplicate = nil
	m.stage = StageForm
	return m.State(), nil
}

// AddAnother clears the form for the next card. The committed card stays in
// the ledger.
func (m *Machine) AddAnother() (State, error) {
	if m.stage != StageSuccess {
		return m.State(), m.invalid("add another")
	}
	m.candidate = types.CandidateRecord{}
	m.errors = types.FieldErrors{}
	m.duplicate = nil
	m.committed = nil
	m.stage = StageForm
	return m.State(), nil
}

// Check gives live feedback for a candidate being typed without changing the
// machine. The duplicate lookup only runs once store and last4 are usable.
func (m *Machine) Check(c types.CandidateRecord) (types.FieldErrors, *types.PoolRecord) {
	return Check(m.ledger, c)
}

// Check is the stateless form of Machine.Check.
func Check(ledger Ledger, c types.CandidateRecord) (types.FieldErrors, *types.PoolRecord) {
	errs := validation.Validate(c)
	if _, bad := errs[types.FieldStore]; bad {
		return errs, nil
	}
	if _, bad := errs[types.FieldLast4]; bad {
		return errs, nil
	}
	if match, found := ledger.FindDuplicate(c.Store, c.Last4); found {
		return errs, &match
	}
	return errs, nil
}

func (m *Machine) commit() (State, error) {
	rec, err := m.ledger.Commit(m.candidate)
	if err != nil {
		return m.State(), fmt.Errorf("commit card: %w", err)
	}
	m.committed = &rec
	m.duplicate = nil
	m.stage = StageSuccess
	return m.State(), nil
}

func (m *Machine) invalid(event string) error {
	return fmt.Errorf("%w: %s in stage %s", ErrInvalidTransition, event, m.stage)
}
