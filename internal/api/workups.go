package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Workup/internal/evidence"
	"github.com/MikeSquared-Agency/Workup/internal/service"
	"github.com/MikeSquared-Agency/Workup/internal/store"
	"github.com/MikeSquared-Agency/Workup/internal/sufficiency"
)

type WorkupsHandler struct {
	svc *service.Service
}

func NewWorkupsHandler(svc *service.Service) *WorkupsHandler {
	return &WorkupsHandler{svc: svc}
}

func (h *WorkupsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var pack evidence.Pack
	if !decodeJSON(w, r, &pack) {
		return
	}

	out, err := h.svc.EvaluateWorkup(r.Context(), pack, r.Header.Get(callerHeader))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *WorkupsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.LatestWorkup(r.Context(), chi.URLParam(r, "assessment_id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "workup not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *WorkupsHandler) List(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.ListWorkups(r.Context(), recordFilter(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if recs == nil {
		recs = []*store.WorkupRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func ListFunnels(w http.ResponseWriter, r *http.Request) {
	out := []*sufficiency.Ruleset{}
	for _, slug := range sufficiency.KnownFunnels() {
		if rs, ok := sufficiency.RulesetForFunnel(slug); ok {
			out = append(out, rs)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func GetFunnelRuleset(w http.ResponseWriter, r *http.Request) {
	rs, ok := sufficiency.RulesetForFunnel(chi.URLParam(r, "slug"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown funnel")
		return
	}
	writeJSON(w, http.StatusOK, rs)
}

type verifyRequest struct {
	Pack evidence.Pack `json:"pack"`
	Hash string        `json:"hash"`
}

func HashEvidence(w http.ResponseWriter, r *http.Request) {
	var pack evidence.Pack
	if !decodeJSON(w, r, &pack) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"evidence_pack_hash": evidence.Hash(pack),
		"canonical":          string(evidence.Canonical(pack)),
	})
}

func VerifyEvidence(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Hash == "" {
		writeError(w, http.StatusBadRequest, "hash required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"valid":              evidence.VerifyHash(req.Pack, req.Hash),
		"evidence_pack_hash": evidence.Hash(req.Pack),
	})
}
