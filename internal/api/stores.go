package api

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ginjaninja78/giftcard-intake/internal/intake"
	"github.com/ginjaninja78/giftcard-intake/internal/types"
)

// intakeSession is one operator's guided form. The machine itself is not
// safe for concurrent use, so each session carries its own lock.
type intakeSession struct {
	mu      sync.Mutex
	machine *intake.Machine
}

type sessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*intakeSession
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[uuid.UUID]*intakeSession)}
}

func (s *sessionStore) create(m *intake.Machine) uuid.UUID {
	id := uuid.New()
	s.mu.Lock()
	s.sessions[id] = &intakeSession{machine: m}
	s.mu.Unlock()
	return id
}

func (s *sessionStore) get(id uuid.UUID) (*intakeSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *sessionStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// uploadStore holds previewed CSV rows until the operator picks a policy.
// Each preview gets its own id, so a newer upload never disturbs an older
// one that is still on screen.
type uploadStore struct {
	mu      sync.Mutex
	uploads map[uuid.UUID][]types.CSVRow
}

func newUploadStore() *uploadStore {
	return &uploadStore{uploads: make(map[uuid.UUID][]types.CSVRow)}
}

func (s *uploadStore) put(rows []types.CSVRow) uuid.UUID {
	id := uuid.New()
	s.mu.Lock()
	s.uploads[id] = rows
	s.mu.Unlock()
	return id
}

// take removes and returns the rows, so a preview commits at most once.
func (s *uploadStore) take(id uuid.UUID) ([]types.CSVRow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.uploads[id]
	if ok {
		delete(s.uploads, id)
	}
	return rows, ok
}

// restore puts back rows taken by a commit that did not go through.
func (s *uploadStore) restore(id uuid.UUID, rows []types.CSVRow) {
	s.mu.Lock()
	s.uploads[id] = rows
	s.mu.Unlock()
}

func (s *uploadStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.uploads)
}
