package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ginjaninja78/giftcard-intake/internal/csvparser"
	"github.com/ginjaninja78/giftcard-intake/internal/ledger"
	"github.com/ginjaninja78/giftcard-intake/internal/logger"
	"github.com/ginjaninja78/giftcard-intake/internal/types"
)

// multipartOverhead is the room left for multipart framing on top of the
// file size limit.
const multipartOverhead = 64 << 10

type previewResponse struct {
	UploadID   string                     `json:"upload_id"`
	FileName   string                     `json:"file_name"`
	Rows       []types.CSVRow             `json:"rows"`
	Summary    csvparser.Summary          `json:"summary"`
	Selectable map[types.ImportPolicy]int `json:"selectable"`
}

// PreviewImport parses an uploaded CSV and holds the classified rows until
// the operator commits them with a policy.
func (h *Handlers) PreviewImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required: "+err.Error())
		return
	}
	defer file.Close()

	text, err := csvparser.ReadUpload(header.Filename, file, h.maxUpload)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	rows := csvparser.Parse(text, h.ledger.Existing())
	id := h.uploads.put(rows)

	log := logger.FromContext(r.Context())
	log.Info().
		Str("upload_id", id.String()).
		Str("file", header.Filename).
		Int("rows", len(rows)).
		Msg("CSV previewed")

	writeJSON(w, http.StatusOK, previewResponse{
		UploadID: id.String(),
		FileName: header.Filename,
		Rows:     rows,
		Summary:  csvparser.Summarize(rows),
		Selectable: map[types.ImportPolicy]int{
			types.PolicyValidOnly:         ledger.Selectable(rows, types.PolicyValidOnly),
			types.PolicyIncludeDuplicates: ledger.Selectable(rows, types.PolicyIncludeDuplicates),
		},
	})
}

type commitRequest struct {
	Policy string `json:"policy"`
}

// CommitImport commits a previewed upload under the requested policy.
// The held rows are released on success, so a second commit of the same
// upload is a 404. When the import fails the rows stay held.
func (h *Handlers) CommitImport(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	policy, ok := types.ParsePolicy(req.Policy)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown policy "+req.Policy)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "uploadID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "upload not found")
		return
	}
	rows, ok := h.uploads.take(id)
	if !ok {
		writeError(w, http.StatusNotFound, "upload not found")
		return
	}

	n, err := h.ledger.ImportRows(rows, policy)
	if err != nil {
		// A failed import commits nothing; keep the preview for a retry.
		h.uploads.restore(id, rows)
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"committed": n,
		"total":     h.ledger.Len(),
	})
}
