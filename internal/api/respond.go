package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/MikeSquared-Agency/Workup/internal/scoring"
	"github.com/MikeSquared-Agency/Workup/internal/service"
	"github.com/MikeSquared-Agency/Workup/internal/store"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeServiceError maps core and service errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var cfgErr *scoring.ConfigError
	var missing *scoring.MissingAnswerError
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnknownVersion):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &cfgErr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "invalid risk calculation config",
			"errors": cfgErr.Errors,
		})
	case errors.As(err, &missing):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":       err.Error(),
			"question_id": missing.ID,
		})
	case errors.Is(err, scoring.ErrUnknownOperator), errors.Is(err, scoring.ErrNonFiniteScore):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func recordFilter(r *http.Request) store.RecordFilter {
	q := r.URL.Query()
	filter := store.RecordFilter{AssessmentID: q.Get("assessment_id")}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		filter.Limit = n
	}
	if n, err := strconv.Atoi(q.Get("offset")); err == nil && n > 0 {
		filter.Offset = n
	}
	return filter
}
