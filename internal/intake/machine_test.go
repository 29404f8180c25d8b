package intake

import (
	"sync"
	"testing"
	"time"

	"github.com/ginjaninja78/giftcard-intake/internal/ledger"
	"github.com/ginjaninja78/giftcard-intake/internal/types"
	"github.com/ginjaninja78/giftcard-intake/internal/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedger() *ledger.Ledger {
	existing := []types.ExistingRecord{
		{
			ID:               1,
			Store:            "Target",
			Last4:            "5678",
			InitialBalance:   decimal.NewFromInt(50),
			RemainingBalance: decimal.NewFromInt(20),
			Status:           "active",
			AddedDate:        "2024-01-01",
			AddedBy:          "Lisa Chen",
		},
	}
	clock := func() time.Time { return time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC) }
	return ledger.New(existing, ledger.Options{Clock: clock})
}

func targetCard() types.CandidateRecord {
	return types.CandidateRecord{Store: "Target", Last4: "5678", Amount: "50.00", AddedBy: "Mike Davis"}
}

func walmartCard() types.CandidateRecord {
	return types.CandidateRecord{Store: "Walmart", Last4: "1234", Amount: "100.00", AddedBy: "Sarah Johnson"}
}

func TestNew(t *testing.T) {
	m := New(newLedger())
	s := m.State()
	assert.Equal(t, StageForm, s.Stage)
	assert.Equal(t, types.CandidateRecord{}, s.Candidate)
	assert.Empty(t, s.Errors)
	assert.Nil(t, s.Duplicate)
	assert.Nil(t, s.Committed)
}

func TestSubmit_DuplicateThenConfirm(t *testing.T) {
	l := newLedger()
	m := New(l)

	s, err := m.Submit(targetCard())
	require.NoError(t, err)
	assert.Equal(t, StageConfirmDuplicate, s.Stage)
	require.NotNil(t, s.Duplicate)
	assert.Equal(t, "Lisa Chen", s.Duplicate.AddedBy)
	assert.Equal(t, "2024-01-01", s.Duplicate.AddedDate)
	assert.True(t, decimal.NewFromInt(20).Equal(s.Duplicate.Balance))
	assert.Zero(t, l.Len())

	s, err = m.Confirm()
	require.NoError(t, err)
	assert.Equal(t, StageSuccess, s.Stage)
	assert.Nil(t, s.Duplicate)
	require.NotNil(t, s.Committed)
	assert.Equal(t, "Target", s.Committed.Store)
	assert.Equal(t, 1, l.Len())
}

func TestSubmit_NoDuplicateCommits(t *testing.T) {
	l := newLedger()
	m := New(l)

	s, err := m.Submit(walmartCard())
	require.NoError(t, err)
	assert.Equal(t, StageSuccess, s.Stage)
	require.NotNil(t, s.Committed)
	assert.Equal(t, l.All()[0], *s.Committed)
}

func TestSubmit_ConcurrentSameCardAcrossMachines(t *testing.T) {
	l := newLedger()

	const n = 20
	states := make([]State, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			state, err := New(l).Submit(walmartCard())
			assert.NoError(t, err)
			states[i] = state
		}(i)
	}
	wg.Wait()

	success, confirm := 0, 0
	for _, s := range states {
		switch s.Stage {
		case StageSuccess:
			success++
		case StageConfirmDuplicate:
			confirm++
			require.NotNil(t, s.Duplicate)
			assert.Equal(t, types.SourceSession, s.Duplicate.Source)
		}
	}
	assert.Equal(t, 1, success)
	assert.Equal(t, n-1, confirm)
	assert.Equal(t, 1, l.Len())
}

func TestSubmit_InvalidStaysOnForm(t *testing.T) {
	l := newLedger()
	m := New(l)

	c := walmartCard()
	c.Amount = ""
	s, err := m.Submit(c)
	require.NoError(t, err)
	assert.Equal(t, StageForm, s.Stage)
	assert.Equal(t, types.FieldErrors{types.FieldAmount: validation.MsgAmountInvalid}, s.Errors)
	assert.Equal(t, c, s.Candidate)
	assert.Zero(t, l.Len())

	// Correcting the field clears the errors.
	c.Amount = "25"
	s, err = m.Submit(c)
	require.NoError(t, err)
	assert.Equal(t, StageSuccess, s.Stage)
	assert.Empty(t, s.Errors)
}

func TestBack_KeepsFields(t *testing.T) {
	l := newLedger()
	m := New(l)

	_, err := m.Submit(targetCard())
	require.NoError(t, err)

	s, err := m.Back()
	require.NoError(t, err)
	assert.Equal(t, StageForm, s.Stage)
	assert.Nil(t, s.Duplicate)
	assert.Equal(t, targetCard(), s.Candidate)
	assert.Zero(t, l.Len())

	// Editing the store clears the hazard.
	c := s.Candidate
	c.Store = "Target Optical"
	s, err = m.Submit(c)
	require.NoError(t, err)
	assert.Equal(t, StageSuccess, s.Stage)
}

func TestAddAnother_ResetsForm(t *testing.T) {
	l := newLedger()
	m := New(l)

	_, err := m.Submit(walmartCard())
	require.NoError(t, err)

	s, err := m.AddAnother()
	require.NoError(t, err)
	assert.Equal(t, StageForm, s.Stage)
	assert.Equal(t, types.CandidateRecord{}, s.Candidate)
	assert.Nil(t, s.Committed)
	assert.Equal(t, 1, l.Len())

	// The card committed a moment ago is now a duplicate hazard.
	s, err = m.Submit(walmartCard())
	require.NoError(t, err)
	assert.Equal(t, StageConfirmDuplicate, s.Stage)
	require.NotNil(t, s.Duplicate)
	assert.Equal(t, types.SourceSession, s.Duplicate.Source)
}

func TestInvalidTransitions(t *testing.T) {
	tests := []struct {
		name  string
		setup func(m *Machine)
		event func(m *Machine) (State, error)
	}{
		{
			name:  "confirm on form",
			setup: func(m *Machine) {},
			event: func(m *Machine) (State, error) { return m.Confirm() },
		},
		{
			name:  "back on form",
			setup: func(m *Machine) {},
			event: func(m *Machine) (State, error) { return m.Back() },
		},
		{
			name:  "add another on form",
			setup: func(m *Machine) {},
			event: func(m *Machine) (State, error) { return m.AddAnother() },
		},
		{
			name:  "submit while confirming",
			setup: func(m *Machine) { _, _ = m.Submit(targetCard()) },
			event: func(m *Machine) (State, error) { return m.Submit(walmartCard()) },
		},
		{
			name:  "add another while confirming",
			setup: func(m *Machine) { _, _ = m.Submit(targetCard()) },
			event: func(m *Machine) (State, error) { return m.AddAnother() },
		},
		{
			name:  "submit on success",
			setup: func(m *Machine) { _, _ = m.Submit(walmartCard()) },
			event: func(m *Machine) (State, error) { return m.Submit(walmartCard()) },
		},
		{
			name:  "confirm on success",
			setup: func(m *Machine) { _, _ = m.Submit(walmartCard()) },
			event: func(m *Machine) (State, error) { return m.Confirm() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLedger()
			m := New(l)
			tt.setup(m)
			before := m.State()
			lenBefore := l.Len()

			after, err := tt.event(m)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, before, after)
			assert.Equal(t, lenBefore, l.Len())
		})
	}
}

func TestCheck(t *testing.T) {
	l := newLedger()
	m := New(l)

	t.Run("duplicate reported while typing", func(t *testing.T) {
		errs, dup := m.Check(types.CandidateRecord{Store: "tArGeT", Last4: "5678"})
		require.NotNil(t, dup)
		assert.Equal(t, int64(1), dup.ID)
		assert.Contains(t, errs, types.FieldAmount)
		assert.Contains(t, errs, types.FieldAddedBy)
	})

	t.Run("incomplete last4 skips lookup", func(t *testing.T) {
		errs, dup := m.Check(types.CandidateRecord{Store: "Target", Last4: "567"})
		assert.Nil(t, dup)
		assert.Equal(t, validation.MsgLast4Digits, errs[types.FieldLast4])
	})

	t.Run("check leaves the machine alone", func(t *testing.T) {
		assert.Equal(t, StageForm, m.Stage())
		assert.Zero(t, l.Len())
	})
}
