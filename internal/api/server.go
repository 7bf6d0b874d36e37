// Package api exposes the ledger over HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/cleared-dev/credited/internal/ledger"
	"github.com/cleared-dev/credited/internal/ocr"
)

const (
	maxJSONBody   = 64 << 10
	maxImageBytes = 10 << 20
)

// Options tunes the server. A zero RateLimit disables rate limiting.
type Options struct {
	RateLimit float64
	Burst     int
}

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	svc     *ledger.Service
	ocr     ocr.Recognizer // nil disables image uploads
	log     zerolog.Logger
	limiter *rate.Limiter
}

// New creates a Server.
func New(svc *ledger.Service, rec ocr.Recognizer, log zerolog.Logger, opts Options) *Server {
	s := &Server{svc: svc, ocr: rec, log: log}
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return s
}

// Routes returns the router with all middleware installed.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(s.rateLimit)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/alerts", s.handleSubmitAlert)
		r.Post("/alerts/classify", s.handleClassifyAlert)
		r.Post("/alerts/image", s.handleSubmitImage)

		r.Get("/transactions", s.handleListTransactions)
		r.Delete("/transactions/{id}", s.handleDeleteTransaction)

		r.Get("/profile", s.handleGetProfile)
		r.Put("/profile", s.handlePutProfile)

		r.Get("/tax", s.handleTax)
		r.Get("/export.csv", s.handleExport)
	})

	return r
}
