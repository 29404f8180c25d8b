package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ginjaninja78/giftcard-intake/internal/intake"
	"github.com/ginjaninja78/giftcard-intake/internal/logger"
)

// intakeResponse is a machine snapshot plus the session id.
type intakeResponse struct {
	ID string `json:"id"`
	intake.State
}

func (h *Handlers) CreateIntake(w http.ResponseWriter, r *http.Request) {
	m := intake.New(h.ledger)
	id := h.sessions.create(m)
	writeJSON(w, http.StatusCreated, intakeResponse{ID: id.String(), State: m.State()})
}

func (h *Handlers) GetIntake(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(m *intake.Machine) (intake.State, error) {
		return m.State(), nil
	})
}

func (h *Handlers) SubmitIntake(w http.ResponseWriter, r *http.Request) {
	// Look the session up before reading the body so an unknown id is a
	// 404 whatever the payload.
	if _, ok := h.lookup(w, r); !ok {
		return
	}
	c, ok := decodeCandidate(w, r)
	if !ok {
		return
	}
	h.withSession(w, r, func(m *intake.Machine) (intake.State, error) {
		return m.Submit(c)
	})
}

func (h *Handlers) ConfirmIntake(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, (*intake.Machine).Confirm)
}

func (h *Handlers) BackIntake(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, (*intake.Machine).Back)
}

func (h *Handlers) ResetIntake(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, (*intake.Machine).AddAnother)
}

func (h *Handlers) lookup(w http.ResponseWriter, r *http.Request) (*intakeSession, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "intake session not found")
		return nil, false
	}
	sess, ok := h.sessions.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "intake session not found")
		return nil, false
	}
	return sess, true
}

// withSession runs event against the session's machine under its lock.
func (h *Handlers) withSession(w http.ResponseWriter, r *http.Request, event func(m *intake.Machine) (intake.State, error)) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	sess.mu.Lock()
	state, err := event(sess.machine)
	sess.mu.Unlock()

	if err != nil {
		log := logger.FromContext(r.Context())
		log.Debug().Err(err).Str("intake", chi.URLParam(r, "id")).Msg("intake event rejected")
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, intakeResponse{ID: chi.URLParam(r, "id"), State: state})
}
