package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Workup/internal/scoring"
	"github.com/MikeSquared-Agency/Workup/internal/workup"
)

// RiskBundleRecord is a persisted risk bundle.
type RiskBundleRecord struct {
	ID               uuid.UUID             `json:"id"`
	AssessmentID     string                `json:"assessment_id"`
	AlgorithmVersion string                `json:"algorithm_version"`
	Overall          float64               `json:"overall"`
	RiskLevel        scoring.RiskLevel     `json:"risk_level"`
	Bundle           *scoring.RiskBundleV1 `json:"bundle"`
	RequestedBy      string                `json:"requested_by,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
}

// WorkupRecord is a persisted workup evaluation.
type WorkupRecord struct {
	ID               uuid.UUID      `json:"id"`
	AssessmentID     string         `json:"assessment_id"`
	FunnelSlug       string         `json:"funnel_slug"`
	Status           workup.Status  `json:"status"`
	EvidencePackHash string         `json:"evidence_pack_hash"`
	Result           *workup.Result `json:"result"`
	RequestedBy      string         `json:"requested_by,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

type RecordFilter struct {
	AssessmentID string
	Limit        int
	Offset       int
}

type Store interface {
	SaveRiskBundle(ctx context.Context, rec *RiskBundleRecord) error
	LatestRiskBundle(ctx context.Context, assessmentID string) (*RiskBundleRecord, error)
	ListRiskBundles(ctx context.Context, filter RecordFilter) ([]*RiskBundleRecord, error)

	SaveWorkup(ctx context.Context, rec *WorkupRecord) error
	LatestWorkup(ctx context.Context, assessmentID string) (*WorkupRecord, error)
	ListWorkups(ctx context.Context, filter RecordFilter) ([]*WorkupRecord, error)

	Close() error
}
