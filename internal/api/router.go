package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Workup/internal/service"
)

func NewRouter(svc *service.Service, adminToken string, requestsPerMinute int, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(requestsPerMinute))

	risk := NewRiskHandler(svc)
	workups := NewWorkupsHandler(svc)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(CallerIDMiddleware)

		r.Post("/risk-bundles", risk.CreateBundle)
		r.Get("/risk-bundles", risk.ListBundles)
		r.Get("/risk-bundles/{assessment_id}", risk.LatestBundle)

		r.Get("/risk-configs", risk.ListConfigs)
		r.Get("/risk-configs/{version}", risk.GetConfig)

		r.Post("/workups", workups.Create)
		r.Get("/workups", workups.List)
		r.Get("/workups/{assessment_id}", workups.Latest)

		r.Get("/funnels", ListFunnels)
		r.Get("/funnels/{slug}/ruleset", GetFunnelRuleset)

		r.Post("/evidence/hash", HashEvidence)
		r.Post("/evidence/verify", VerifyEvidence)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Post("/risk-configs/validate", risk.ValidateConfig)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
