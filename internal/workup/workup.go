// Package workup derives the review status of an assessment from its
// evidence pack.
package workup

import (
	"github.com/MikeSquared-Agency/Workup/internal/evidence"
	"github.com/MikeSquared-Agency/Workup/internal/sufficiency"
)

// Status is the two-state workup outcome.
type Status string

const (
	StatusReadyForReview Status = "ready_for_review"
	StatusNeedsMoreData  Status = "needs_more_data"
)

// Result bundles the sufficiency outcome with the derived status.
type Result struct {
	AssessmentID string             `json:"assessment_id"`
	FunnelSlug   string             `json:"funnel_slug"`
	Status       Status             `json:"status"`
	Sufficiency  sufficiency.Result `json:"sufficiency"`
}

// Evaluate checks data sufficiency for pack and maps it to a status.
func Evaluate(pack evidence.Pack) Result {
	res := sufficiency.Check(pack)
	return Result{
		AssessmentID: pack.AssessmentID,
		FunnelSlug:   pack.FunnelSlug,
		Status:       statusOf(res),
		Sufficiency:  res,
	}
}

// ResultKey identifies the result Evaluate produces for pack. It pairs the
// evidence hash with the funnel ruleset and its version, so a ruleset change
// yields a new key for the same pack. Packs with no ruleset use "none".
func ResultKey(pack evidence.Pack) string {
	ruleset := "none"
	if rs, ok := sufficiency.RulesetForFunnel(pack.FunnelSlug); ok {
		ruleset = rs.FunnelSlug + "@" + rs.Version
	}
	return ruleset + ":" + evidence.Hash(pack)
}

// DetermineStatus returns only the status for pack.
func DetermineStatus(pack evidence.Pack) Status {
	return statusOf(sufficiency.Check(pack))
}

func statusOf(res sufficiency.Result) Status {
	if res.IsSufficient {
		return StatusReadyForReview
	}
	return StatusNeedsMoreData
}
