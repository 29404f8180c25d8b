// =============================================================================
// Gift Card Intake - Session Ledger
// =============================================================================
//
// The ledger is the append-only list of cards committed during one session.
// Together with the pre-existing dataset it forms the duplicate pool for every
// later check, so a card added earlier in the session is a duplicate hazard
// for a later entry with the same store and last four digits.
//
// INVARIANTS:
//   - Entries are never removed or reordered.
//   - IDs are strictly increasing and start above every pre-existing ID.
//   - OrderKey is derived from the commit time and strictly increasing.
//
// CONCURRENCY:
//   The intake pipeline is single-threaded by nature, but the HTTP server
//   serves requests concurrently. All mutations go through one mutex so a
//   duplicate check never sees a partially appended batch.
//
// =============================================================================

package ledger

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ginjaninja78/giftcard-intake/internal/duplicates"
	"github.com/ginjaninja78/giftcard-intake/internal/types"
	"github.com/ginjaninja78/giftcard-intake/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrInvalidCandidate is returned when a record that fails validation is
// committed.
var ErrInvalidCandidate = errors.New("candidate record is not valid")

// DefaultIDBase is the first session ID when no option overrides it.
const DefaultIDBase int64 = 1_000_000

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a ledger.
type Options struct {
	// IDBase is the lowest ID a session commit may receive. The ledger
	// raises it above the highest pre-existing ID when needed.
	IDBase int64

	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time

	// Logger receives commit and import events. Defaults to a no-op logger.
	Logger *zerolog.Logger
}

// =============================================================================
// LEDGER
// =============================================================================

// Ledger holds the session's committed records.
type Ledger struct {
	mu sync.RWMutex

	sessionID uuid.UUID
	existing  []types.ExistingRecord
	records   []types.CommittedRecord
	nextID    int64
	lastOrder int64

	clock func() time.Time
	log   zerolog.Logger
}

// New creates an empty session ledger over a read-only existing dataset.
func New(existing []types.ExistingRecord, opts Options) *Ledger {
	base := opts.IDBase
	if base <= 0 {
		base = DefaultIDBase
	}
	for _, r := range existing {
		if r.ID >= base {
			base = r.ID + 1
		}
	}

	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	l := &Ledger{
		sessionID: uuid.New(),
		existing:  append([]types.ExistingRecord(nil), existing...),
		nextID:    base,
		clock:     clock,
	}
	l.log = log.With().Str("session", l.sessionID.String()).Logger()

	return l
}

// SessionID identifies this ledger's session.
func (l *Ledger) SessionID() uuid.UUID {
	return l.sessionID
}

// Existing returns the pre-existing dataset the ledger was created with.
// The slice is a copy.
func (l *Ledger) Existing() []types.ExistingRecord {
	return append([]types.ExistingRecord(nil), l.existing...)
}

// Commit appends a candidate and returns the stored record.
//
// RETURNS:
//   - The committed record.
//   - ErrInvalidCandidate if the candidate fails field validation. A
//     validated candidate always commits.
func (l *Ledger) Commit(c types.CandidateRecord) (types.CommittedRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.commitLocked(c)
}

// CommitIfNew commits c unless the pool already holds a card with the same
// store and last four digits. The check and the append happen under one
// lock, so two concurrent submissions of the same card cannot both pass as
// new.
//
// RETURNS:
//   - The committed record, when no duplicate was found.
//   - The first matching pool record and true, when a duplicate was found.
//     Nothing is committed in that case.
//   - ErrInvalidCandidate if the candidate fails field validation.
func (l *Ledger) CommitIfNew(c types.CandidateRecord) (types.CommittedRecord, types.PoolRecord, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if errs := validation.Validate(c); !errs.OK() {
		return types.CommittedRecord{}, types.PoolRecord{}, false, fmt.Errorf("%w: %v", ErrInvalidCandidate, errs)
	}

	pool := duplicates.BuildPool(l.existing, l.records)
	if match, found := duplicates.FindDuplicate(c.Store, c.Last4, pool); found {
		return types.CommittedRecord{}, match, true, nil
	}

	rec, err := l.commitLocked(c)
	return rec, types.PoolRecord{}, false, err
}

func (l *Ledger) commitLocked(c types.CandidateRecord) (types.CommittedRecord, error) {
	if errs := validation.Validate(c); !errs.OK() {
		return types.CommittedRecord{}, fmt.Errorf("%w: %v", ErrInvalidCandidate, errs)
	}
	amount, _ := validation.ParseAmount(c.Amount)

	now := l.clock()
	order := now.UnixNano()
	if order <= l.lastOrder {
		order = l.lastOrder + 1
	}
	l.lastOrder = order

	dateAdded := c.DateAdded
	if dateAdded.IsZero() {
		dateAdded = now
	}
	y, m, d := dateAdded.Date()

	rec := types.CommittedRecord{
		ID:          l.nextID,
		Store:       c.Store,
		Last4:       c.Last4,
		Amount:      amount,
		AddedBy:     c.AddedBy,
		Notes:       c.Notes,
		DateAdded:   time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		CommittedAt: now,
		OrderKey:    order,
	}
	l.nextID++
	l.records = append(l.records, rec)

	l.log.Debug().
		Int64("id", rec.ID).
		Str("store", rec.Store).
		Str("last4", rec.Last4).
		Msg("card committed")

	return rec, nil
}

// All returns the committed records, oldest first. The slice is a copy.
func (l *Ledger) All() []types.CommittedRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return append([]types.CommittedRecord(nil), l.records...)
}

// Len returns the number of committed records.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.records)
}

// Pool returns the duplicate pool: existing records first, then session
// records in commit order. It is rebuilt on every call.
func (l *Ledger) Pool() []types.PoolRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return duplicates.BuildPool(l.existing, l.records)
}

// FindDuplicate checks a store and last four digits against the current pool.
func (l *Ledger) FindDuplicate(store, last4 string) (types.PoolRecord, bool) {
	return duplicates.FindDuplicate(store, last4, l.Pool())
}
