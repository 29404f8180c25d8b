package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ginjaninja78/giftcard-intake/internal/ledger"
)

// Options configures the HTTP layer.
type Options struct {
	// Stores and Volunteers are served to the form as suggestions.
	Stores     []string
	Volunteers []string

	// MaxUploadBytes caps an uploaded CSV. Zero means 5 MiB.
	MaxUploadBytes int64

	Logger zerolog.Logger
}

const defaultMaxUploadBytes = 5 << 20

// NewRouter creates the Chi router with all API routes mounted.
func NewRouter(l *ledger.Ledger, opts Options) http.Handler {
	return newHandlers(l, opts).routes(opts.Logger)
}

func newHandlers(l *ledger.Ledger, opts Options) *Handlers {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}

	return &Handlers{
		ledger:     l,
		stores:     nonNil(opts.Stores),
		volunteers: nonNil(opts.Volunteers),
		maxUpload:  opts.MaxUploadBytes,
		sessions:   newSessionStore(),
		uploads:    newUploadStore(),
	}
}

func (h *Handlers) routes(log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware.
	r.Use(RequestID(log))
	r.Use(Logger)
	r.Use(Recovery)

	r.Route("/api/v1", func(r chi.Router) {
		// Reference data and downloads.
		r.Get("/reference", h.GetReference)
		r.Get("/template.csv", h.GetTemplateCSV)
		r.Get("/template.xlsx", h.GetTemplateXLSX)

		// Live feedback.
		r.Post("/validate", h.Validate)

		// Guided intake.
		r.Post("/intake", h.CreateIntake)
		r.Route("/intake/{id}", func(r chi.Router) {
			r.Get("/", h.GetIntake)
			r.Post("/submit", h.SubmitIntake)
			r.Post("/confirm", h.ConfirmIntake)
			r.Post("/back", h.BackIntake)
			r.Post("/reset", h.ResetIntake)
		})

		// Bulk import.
		r.Post("/imports/preview", h.PreviewImport)
		r.Post("/imports/{uploadID}/commit", h.CommitImport)

		// Session ledger.
		r.Get("/cards", h.ListCards)
		r.Get("/cards.csv", h.ExportCardsCSV)
		r.Get("/cards.xlsx", h.ExportCardsXLSX)
		r.Get("/cards.xml", h.ExportCardsXML)
		r.Get("/session", h.GetSession)
	})

	return r
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
