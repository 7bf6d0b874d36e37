package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cleared-dev/credited/internal/buildinfo"
	"github.com/cleared-dev/credited/internal/ledger"
	"github.com/cleared-dev/credited/internal/logger"
	"github.com/cleared-dev/credited/internal/model"
	"github.com/cleared-dev/credited/internal/ocr"
)

type alertRequest struct {
	Text string `json:"text"`
}

type profileBody struct {
	DisplayName string `json:"displayName"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleSubmitAlert(w http.ResponseWriter, r *http.Request) {
	var req alertRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s.submit(w, r, req.Text)
}

func (s *Server) handleClassifyAlert(w http.ResponseWriter, r *http.Request) {
	var req alertRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := s.svc.Classify(r.Context(), req.Text)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleSubmitImage(w http.ResponseWriter, r *http.Request) {
	if s.ocr == nil {
		writeError(w, http.StatusServiceUnavailable, "image recognition is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "expected an image in form field \"file\"")
		return
	}
	defer file.Close()

	mediaType := header.Header.Get("Content-Type")
	if !ocr.Supported(mediaType) {
		mediaType = ocr.MediaTypeFor(header.Filename)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read upload")
		return
	}

	text, err := s.ocr.Recognize(r.Context(), data, mediaType)
	if errors.Is(err, ocr.ErrUnsupportedMediaType) {
		writeError(w, http.StatusUnsupportedMediaType, err.Error())
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log := logger.FromContext(r.Context())
	log.Debug().Str("file", header.Filename).Int("chars", len(text)).Msg("image recognized")
	s.submit(w, r, text)
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request, text string) {
	log := logger.FromContext(r.Context())

	txn, err := s.svc.Submit(r.Context(), text)
	if err != nil {
		if rej, ok := ledger.AsRejection(err); ok {
			log.Debug().Str("kind", string(rej.Kind)).Str("reason", rej.Reason).Msg("alert rejected")
		}
		writeServiceError(w, r, err)
		return
	}

	log.Info().Str("id", txn.ID).Str("amount", txn.Amount.StringFixed(2)).Str("bank", txn.Bank).Msg("transaction added")
	writeJSON(w, http.StatusCreated, txn)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txns, err := s.svc.Transactions(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if txns == nil {
		txns = []model.Transaction{}
	}
	writeJSON(w, http.StatusOK, txns)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.svc.Remove(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	log := logger.FromContext(r.Context())
	log.Info().Str("id", id).Msg("transaction removed")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Profile(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	body := profileBody{}
	if p != nil {
		body.DisplayName = p.DisplayName
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var body profileBody
	if !decodeJSON(w, r, &body) {
		return
	}
	body.DisplayName = ledger.Sanitize(body.DisplayName)
	if err := s.svc.SetProfile(r.Context(), model.Profile{DisplayName: body.DisplayName}); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleTax(w http.ResponseWriter, r *http.Request) {
	summary, err := s.svc.Summary(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	txns, err := s.svc.Transactions(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="credited.csv"`)
	if err := ledger.WriteCSV(w, txns); err != nil {
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("writing export")
	}
}
