package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Workup/internal/scoring"
	"github.com/MikeSquared-Agency/Workup/internal/service"
	"github.com/MikeSquared-Agency/Workup/internal/store"
)

type RiskHandler struct {
	svc *service.Service
}

func NewRiskHandler(svc *service.Service) *RiskHandler {
	return &RiskHandler{svc: svc}
}

func (h *RiskHandler) CreateBundle(w http.ResponseWriter, r *http.Request) {
	var input scoring.RiskBundleInput
	if !decodeJSON(w, r, &input) {
		return
	}

	rec, err := h.svc.ComputeRiskBundle(r.Context(), input, r.Header.Get(callerHeader))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *RiskHandler) LatestBundle(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.LatestRiskBundle(r.Context(), chi.URLParam(r, "assessment_id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "risk bundle not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *RiskHandler) ListBundles(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.ListRiskBundles(r.Context(), recordFilter(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if recs == nil {
		recs = []*store.RiskBundleRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *RiskHandler) ListConfigs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"versions": h.svc.Catalog().Versions()})
}

func (h *RiskHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.svc.Catalog().Get(chi.URLParam(r, "version"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown algorithm version")
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// ValidateConfig checks a configuration document without registering it.
// The body is YAML when the content type says so and JSON otherwise. An
// unknown operator is reported as a validation error, not a bad request.
func (h *RiskHandler) ValidateConfig(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var cfg scoring.RiskCalculationConfig
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		err = yaml.Unmarshal(body, &cfg)
	} else {
		err = json.Unmarshal(body, &cfg)
	}
	if err != nil {
		if errors.Is(err, scoring.ErrUnknownOperator) {
			writeJSON(w, http.StatusOK, scoring.ConfigValidation{Valid: false, Errors: []string{err.Error()}})
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, scoring.ValidateConfig(&cfg))
}
