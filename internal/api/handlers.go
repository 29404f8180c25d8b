package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ginjaninja78/giftcard-intake/internal/csvparser"
	"github.com/ginjaninja78/giftcard-intake/internal/export"
	"github.com/ginjaninja78/giftcard-intake/internal/intake"
	"github.com/ginjaninja78/giftcard-intake/internal/ledger"
	"github.com/ginjaninja78/giftcard-intake/internal/types"
	"github.com/ginjaninja78/giftcard-intake/internal/xmlwriter"
	"github.com/ginjaninja78/giftcard-intake/pkg/utils"
)

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	ledger     *ledger.Ledger
	stores     []string
	volunteers []string
	maxUpload  int64
	sessions   *sessionStore
	uploads    *uploadStore
}

// candidateForm is the JSON body of a form submission. Amount stays text so
// the validator sees exactly what the operator typed.
type candidateForm struct {
	Store     string `json:"store"`
	Last4     string `json:"last4"`
	Amount    string `json:"amount"`
	AddedBy   string `json:"addedBy"`
	Notes     string `json:"notes"`
	DateAdded string `json:"dateAdded"`
}

func (f candidateForm) candidate() (types.CandidateRecord, error) {
	c := types.CandidateRecord{
		Store:   f.Store,
		Last4:   f.Last4,
		Amount:  f.Amount,
		AddedBy: f.AddedBy,
		Notes:   f.Notes,
	}
	if f.DateAdded != "" {
		d, err := time.Parse(time.DateOnly, f.DateAdded)
		if err != nil {
			return c, fmt.Errorf("dateAdded must be YYYY-MM-DD")
		}
		c.DateAdded = d
	}
	return c, nil
}

// decodeCandidate reads a candidateForm body, writing a 400 on failure.
func decodeCandidate(w http.ResponseWriter, r *http.Request) (types.CandidateRecord, bool) {
	var form candidateForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return types.CandidateRecord{}, false
	}
	c, err := form.candidate()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return types.CandidateRecord{}, false
	}
	return c, true
}

// --- Reference and templates ---

func (h *Handlers) GetReference(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"stores":     h.stores,
		"volunteers": h.volunteers,
	})
}

func (h *Handlers) GetTemplateCSV(w http.ResponseWriter, r *http.Request) {
	attachment(w, "text/csv; charset=utf-8", "giftcard_template.csv")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(csvparser.Template())
}

func (h *Handlers) GetTemplateXLSX(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := export.TemplateXLSX(&buf); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	attachment(w, xlsxContentType, "giftcard_template.xlsx")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// --- Validate ---

// Validate gives live feedback on a partially typed card. It never changes
// any state.
func (h *Handlers) Validate(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCandidate(w, r)
	if !ok {
		return
	}

	errs, dup := intake.Check(h.ledger, c)
	writeJSON(w, http.StatusOK, map[string]any{
		"errors":    errs,
		"duplicate": dup,
	})
}

// --- Cards ---

func (h *Handlers) ListCards(w http.ResponseWriter, r *http.Request) {
	cards := h.ledger.All()
	if cards == nil {
		cards = []types.CommittedRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"cards": cards,
		"count": len(cards),
	})
}

func (h *Handlers) ExportCardsCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := export.LedgerCSV(&buf, h.ledger.All()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	name := utils.GenerateFileName("giftcards_{date}", nil, ".csv", time.Now())
	attachment(w, "text/csv; charset=utf-8", name)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *Handlers) ExportCardsXLSX(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := export.LedgerXLSX(&buf, h.ledger.All()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	name := utils.GenerateFileName("giftcards_{date}", nil, ".xlsx", time.Now())
	attachment(w, xlsxContentType, name)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *Handlers) ExportCardsXML(w http.ResponseWriter, r *http.Request) {
	opts := xmlwriter.DefaultGenerateOptions()
	opts.SessionID = h.ledger.SessionID().String()

	var buf bytes.Buffer
	if err := xmlwriter.GenerateWithOptions(&buf, h.ledger.All(), opts); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	name := utils.GenerateFileName("giftcards_{date}", nil, ".xml", time.Now())
	attachment(w, "application/xml; charset=utf-8", name)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// --- Session ---

func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id":      h.ledger.SessionID().String(),
		"existing":        len(h.ledger.Existing()),
		"committed":       h.ledger.Len(),
		"intake_sessions": h.sessions.len(),
		"pending_uploads": h.uploads.len(),
	})
}

// --- helpers ---

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func attachment(w http.ResponseWriter, contentType, name string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, intake.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, csvparser.ErrUnsupportedFile):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, csvparser.ErrUnreadableFile):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrInvalidCandidate):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
