package hermes

import (
	"time"

	"github.com/MikeSquared-Agency/Workup/internal/evidence"
)

type RiskBundleComputedEvent struct {
	RecordID         string    `json:"record_id"`
	AssessmentID     string    `json:"assessment_id"`
	AlgorithmVersion string    `json:"algorithm_version"`
	Overall          float64   `json:"overall"`
	RiskLevel        string    `json:"risk_level"`
	Timestamp        time.Time `json:"timestamp"`
}

type RiskBundleRejectedEvent struct {
	AssessmentID     string    `json:"assessment_id"`
	AlgorithmVersion string    `json:"algorithm_version"`
	Reason           string    `json:"reason"`
	Timestamp        time.Time `json:"timestamp"`
}

type WorkupEvaluatedEvent struct {
	RecordID          string    `json:"record_id,omitempty"`
	AssessmentID      string    `json:"assessment_id"`
	FunnelSlug        string    `json:"funnel_slug"`
	Status            string    `json:"status"`
	EvidencePackHash  string    `json:"evidence_pack_hash"`
	MissingDataFields []string  `json:"missing_data_fields"`
	Cached            bool      `json:"cached"`
	Timestamp         time.Time `json:"timestamp"`
}

// EvidenceSubmittedEvent wraps an evidence pack pushed by the intake layer.
type EvidenceSubmittedEvent struct {
	Pack        evidence.Pack `json:"pack"`
	SubmittedBy string        `json:"submitted_by,omitempty"`
}
