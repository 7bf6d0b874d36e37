package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cleared-dev/credited/internal/ledger"
	"github.com/cleared-dev/credited/internal/logger"
)

type errorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
	Reason string `json:"reason,omitempty"`
	Rule   string `json:"rule,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps ledger errors to status codes. Rejections are 422
// and carry their kind and reason.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if rej, ok := ledger.AsRejection(err); ok {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  rej.Error(),
			Kind:   string(rej.Kind),
			Reason: rej.Reason,
			Rule:   rej.Rule,
		})
		return
	}
	if errors.Is(err, ledger.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	log := logger.FromContext(r.Context())
	log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
