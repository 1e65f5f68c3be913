//go:build integration

package store

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Workup/internal/evidence"
	"github.com/MikeSquared-Agency/Workup/internal/scoring"
	"github.com/MikeSquared-Agency/Workup/internal/workup"
)

func setupTestDB(t *testing.T) *PostgresStore {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	t.Cleanup(func() {
		_, _ = s.pool.Exec(ctx, "TRUNCATE workup_risk_bundles")
		_, _ = s.pool.Exec(ctx, "TRUNCATE workup_results")
		s.Close()
	})

	return s
}

func TestSaveAndLatestRiskBundle(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	for _, overall := range []float64{20, 80} {
		bundle := &scoring.RiskBundleV1{
			AssessmentID:     "assessment-1",
			AlgorithmVersion: "v1",
			RiskScore: scoring.RiskScore{
				Overall:   overall,
				RiskLevel: scoring.ClassifyRiskLevel(overall),
				Factors:   []scoring.RiskFactor{{Key: "sleep", Label: "Sleep", Score: overall}},
			},
		}
		rec := &RiskBundleRecord{
			AssessmentID:     bundle.AssessmentID,
			AlgorithmVersion: bundle.AlgorithmVersion,
			Overall:          overall,
			RiskLevel:        bundle.RiskScore.RiskLevel,
			Bundle:           bundle,
			RequestedBy:      "integration-test",
		}
		if err := s.SaveRiskBundle(ctx, rec); err != nil {
			t.Fatalf("SaveRiskBundle failed: %v", err)
		}
		if rec.ID == uuid.Nil {
			t.Fatal("expected non-nil ID after save")
		}
	}

	got, err := s.LatestRiskBundle(ctx, "assessment-1")
	if err != nil {
		t.Fatalf("LatestRiskBundle failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected bundle, got nil")
	}
	if got.Overall != 80 || got.RiskLevel != scoring.RiskCritical {
		t.Errorf("expected latest bundle (80, CRITICAL), got (%v, %s)", got.Overall, got.RiskLevel)
	}
	if got.Bundle == nil || len(got.Bundle.RiskScore.Factors) != 1 {
		t.Errorf("expected bundle payload round-trip, got %+v", got.Bundle)
	}

	list, err := s.ListRiskBundles(ctx, RecordFilter{AssessmentID: "assessment-1"})
	if err != nil {
		t.Fatalf("ListRiskBundles failed: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 bundles, got %d", len(list))
	}

	missing, err := s.LatestRiskBundle(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for unknown assessment, got %v, %v", missing, err)
	}
}

func TestSaveAndLatestWorkup(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	pack := evidence.Pack{AssessmentID: "assessment-2", FunnelSlug: "stress-resilience"}
	res := workup.Evaluate(pack)
	rec := &WorkupRecord{
		AssessmentID:     pack.AssessmentID,
		FunnelSlug:       pack.FunnelSlug,
		Status:           res.Status,
		EvidencePackHash: res.Sufficiency.EvidencePackHash,
		Result:           &res,
	}
	if err := s.SaveWorkup(ctx, rec); err != nil {
		t.Fatalf("SaveWorkup failed: %v", err)
	}

	got, err := s.LatestWorkup(ctx, "assessment-2")
	if err != nil {
		t.Fatalf("LatestWorkup failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected workup, got nil")
	}
	if got.Status != workup.StatusNeedsMoreData {
		t.Errorf("expected needs_more_data, got %s", got.Status)
	}
	if got.EvidencePackHash != evidence.Hash(pack) {
		t.Errorf("hash mismatch: %s", got.EvidencePackHash)
	}
	if got.Result == nil || len(got.Result.Sufficiency.FollowUpQuestions) != 2 {
		t.Errorf("expected result round-trip, got %+v", got.Result)
	}
}
