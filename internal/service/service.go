// Package service ties the scoring and sufficiency core to persistence,
// the result cache and event publishing. The HTTP API and the NATS intake
// both go through it.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/Workup/internal/cache"
	"github.com/MikeSquared-Agency/Workup/internal/catalog"
	"github.com/MikeSquared-Agency/Workup/internal/evidence"
	"github.com/MikeSquared-Agency/Workup/internal/hermes"
	"github.com/MikeSquared-Agency/Workup/internal/scoring"
	"github.com/MikeSquared-Agency/Workup/internal/store"
	"github.com/MikeSquared-Agency/Workup/internal/sufficiency"
	"github.com/MikeSquared-Agency/Workup/internal/workup"
)

var (
	// ErrUnknownVersion is returned when no catalog entry matches the
	// requested algorithm version.
	ErrUnknownVersion = errors.New("unknown algorithm version")
	// ErrInvalidRequest marks requests rejected before any evaluation.
	ErrInvalidRequest = errors.New("invalid request")
)

type Options struct {
	DefaultVersion string
	CacheTTL       time.Duration
}

type Service struct {
	store   store.Store
	hermes  hermes.Client
	cache   cache.Cache
	catalog *catalog.Catalog
	opts    Options
	logger  *slog.Logger
	now     func() time.Time
}

// New builds a Service. h may be nil to disable events and c may be nil to
// disable caching.
func New(s store.Store, h hermes.Client, c cache.Cache, cat *catalog.Catalog, opts Options, logger *slog.Logger) *Service {
	if c == nil {
		c = cache.NopCache{}
	}
	return &Service{
		store:   s,
		hermes:  h,
		cache:   c,
		catalog: cat,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

// ComputeRiskBundle scores input against the catalog configuration for its
// algorithm version, then persists and announces the bundle. A rejected
// computation is announced but never stored.
func (s *Service) ComputeRiskBundle(ctx context.Context, input scoring.RiskBundleInput, requestedBy string) (*store.RiskBundleRecord, error) {
	if strings.TrimSpace(input.AssessmentID) == "" {
		return nil, fmt.Errorf("%w: assessment_id is required", ErrInvalidRequest)
	}
	if input.AlgorithmVersion == "" {
		input.AlgorithmVersion = s.opts.DefaultVersion
	}

	cfg, ok := s.catalog.Get(input.AlgorithmVersion)
	if !ok {
		riskBundlesTotal.WithLabelValues("unknown", outcomeUnknownVersion).Inc()
		return nil, fmt.Errorf("%w: %q", ErrUnknownVersion, input.AlgorithmVersion)
	}

	start := time.Now()
	bundle, err := scoring.ComputeRiskBundle(input, cfg)
	evaluationSeconds.WithLabelValues("risk_bundle").Observe(time.Since(start).Seconds())
	if err != nil {
		riskBundlesTotal.WithLabelValues(input.AlgorithmVersion, outcomeRejected).Inc()
		s.logger.Warn("risk bundle rejected",
			"assessment_id", input.AssessmentID,
			"algorithm_version", input.AlgorithmVersion,
			"error", err,
		)
		s.publish(hermes.SubjectRiskBundleRejected(input.AssessmentID), hermes.RiskBundleRejectedEvent{
			AssessmentID:     input.AssessmentID,
			AlgorithmVersion: input.AlgorithmVersion,
			Reason:           err.Error(),
			Timestamp:        s.now().UTC(),
		})
		return nil, err
	}

	rec := &store.RiskBundleRecord{
		AssessmentID:     bundle.AssessmentID,
		AlgorithmVersion: bundle.AlgorithmVersion,
		Overall:          bundle.RiskScore.Overall,
		RiskLevel:        bundle.RiskScore.RiskLevel,
		Bundle:           bundle,
		RequestedBy:      requestedBy,
	}
	if err := s.store.SaveRiskBundle(ctx, rec); err != nil {
		return nil, fmt.Errorf("save risk bundle: %w", err)
	}

	riskBundlesTotal.WithLabelValues(input.AlgorithmVersion, outcomeComputed).Inc()
	riskLevelsTotal.WithLabelValues(string(rec.RiskLevel)).Inc()
	s.logger.Info("risk bundle computed",
		"record_id", rec.ID,
		"assessment_id", rec.AssessmentID,
		"algorithm_version", rec.AlgorithmVersion,
		"overall", rec.Overall,
		"risk_level", rec.RiskLevel,
	)
	s.publish(hermes.SubjectRiskBundleComputed(rec.AssessmentID), hermes.RiskBundleComputedEvent{
		RecordID:         rec.ID.String(),
		AssessmentID:     rec.AssessmentID,
		AlgorithmVersion: rec.AlgorithmVersion,
		Overall:          rec.Overall,
		RiskLevel:        string(rec.RiskLevel),
		Timestamp:        s.now().UTC(),
	})
	return rec, nil
}

// WorkupOutcome is a workup result plus how it was produced.
type WorkupOutcome struct {
	workup.Result
	// RecordID is empty when the result came from the cache.
	RecordID string `json:"record_id,omitempty"`
	Cached   bool   `json:"cached"`
}

// EvaluateWorkup returns the workup for pack. A pack already cached under
// the same evidence hash and funnel ruleset version is answered from the
// cache without re-evaluation or persistence.
// Cache failures are logged and otherwise ignored.
func (s *Service) EvaluateWorkup(ctx context.Context, pack evidence.Pack, requestedBy string) (*WorkupOutcome, error) {
	if strings.TrimSpace(pack.AssessmentID) == "" {
		return nil, fmt.Errorf("%w: assessment_id is required", ErrInvalidRequest)
	}

	key := workup.ResultKey(pack)
	cached, err := s.cache.GetWorkup(ctx, key)
	if err != nil {
		s.logger.Warn("workup cache lookup failed", "key", key, "error", err)
	}
	if cached != nil {
		out := &WorkupOutcome{Result: *cached, Cached: true}
		s.recordWorkup(out, pack)
		return out, nil
	}

	start := time.Now()
	res := workup.Evaluate(pack)
	evaluationSeconds.WithLabelValues("workup").Observe(time.Since(start).Seconds())

	rec := &store.WorkupRecord{
		AssessmentID:     res.AssessmentID,
		FunnelSlug:       res.FunnelSlug,
		Status:           res.Status,
		EvidencePackHash: res.Sufficiency.EvidencePackHash,
		Result:           &res,
		RequestedBy:      requestedBy,
	}
	if err := s.store.SaveWorkup(ctx, rec); err != nil {
		return nil, fmt.Errorf("save workup: %w", err)
	}
	if err := s.cache.SetWorkup(ctx, key, &res, s.opts.CacheTTL); err != nil {
		s.logger.Warn("workup cache store failed", "key", key, "error", err)
	}

	out := &WorkupOutcome{Result: res, RecordID: rec.ID.String()}
	s.recordWorkup(out, pack)
	return out, nil
}

func (s *Service) recordWorkup(out *WorkupOutcome, pack evidence.Pack) {
	workupsTotal.WithLabelValues(funnelLabel(pack.FunnelSlug), string(out.Status), strconv.FormatBool(out.Cached)).Inc()
	s.logger.Info("workup evaluated",
		"record_id", out.RecordID,
		"assessment_id", out.AssessmentID,
		"funnel", out.FunnelSlug,
		"status", out.Status,
		"missing", out.Sufficiency.MissingDataFields,
		"cached", out.Cached,
	)

	evt := hermes.WorkupEvaluatedEvent{
		RecordID:          out.RecordID,
		AssessmentID:      out.AssessmentID,
		FunnelSlug:        out.FunnelSlug,
		Status:            string(out.Status),
		EvidencePackHash:  out.Sufficiency.EvidencePackHash,
		MissingDataFields: out.Sufficiency.MissingDataFields,
		Cached:            out.Cached,
		Timestamp:         s.now().UTC(),
	}
	s.publish(hermes.SubjectWorkupEvaluated(out.AssessmentID), evt)
	if out.Status == workup.StatusReadyForReview {
		s.publish(hermes.SubjectWorkupReady(out.AssessmentID), evt)
	}
}

// LatestRiskBundle returns nil, nil when the assessment has no bundle.
func (s *Service) LatestRiskBundle(ctx context.Context, assessmentID string) (*store.RiskBundleRecord, error) {
	return s.store.LatestRiskBundle(ctx, assessmentID)
}

func (s *Service) ListRiskBundles(ctx context.Context, filter store.RecordFilter) ([]*store.RiskBundleRecord, error) {
	return s.store.ListRiskBundles(ctx, filter)
}

// LatestWorkup returns nil, nil when the assessment has no workup.
func (s *Service) LatestWorkup(ctx context.Context, assessmentID string) (*store.WorkupRecord, error) {
	return s.store.LatestWorkup(ctx, assessmentID)
}

func (s *Service) ListWorkups(ctx context.Context, filter store.RecordFilter) ([]*store.WorkupRecord, error) {
	return s.store.ListWorkups(ctx, filter)
}

func (s *Service) publish(subject string, data interface{}) {
	if s.hermes == nil {
		return
	}
	if err := s.hermes.Publish(subject, data); err != nil {
		s.logger.Warn("publish failed", "subject", subject, "error", err)
	}
}

// funnelLabel keeps metric cardinality bounded to the known funnels.
func funnelLabel(slug string) string {
	if rs, ok := sufficiency.RulesetForFunnel(slug); ok {
		return rs.FunnelSlug
	}
	return "unknown"
}
