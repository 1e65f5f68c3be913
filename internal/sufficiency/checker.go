package sufficiency

import (
	"sort"

	"github.com/MikeSquared-Agency/Workup/internal/evidence"
)

// Result is the outcome of Check.
type Result struct {
	IsSufficient      bool               `json:"is_sufficient"`
	MissingDataFields []string           `json:"missing_data_fields"`
	FollowUpQuestions []FollowUpQuestion `json:"follow_up_questions"`
	EvidencePackHash  string             `json:"evidence_pack_hash"`
}

// Check runs the pack's funnel ruleset. A funnel without a ruleset has no
// requirements and is always sufficient. The evidence hash is computed in
// every case.
func Check(pack evidence.Pack) Result {
	res := Result{
		MissingDataFields: []string{},
		FollowUpQuestions: []FollowUpQuestion{},
		EvidencePackHash:  evidence.Hash(pack),
	}

	rs, ok := RulesetForFunnel(pack.FunnelSlug)
	if !ok {
		res.IsSufficient = true
		return res
	}

	for _, rule := range rs.Rules {
		if rule.Check != nil && rule.Check(pack) {
			continue
		}
		res.MissingDataFields = append(res.MissingDataFields, rule.FieldKey)
		res.FollowUpQuestions = append(res.FollowUpQuestions, rule.FollowUpQuestion)
	}

	sort.SliceStable(res.FollowUpQuestions, func(i, j int) bool {
		return res.FollowUpQuestions[i].Priority > res.FollowUpQuestions[j].Priority
	})

	res.IsSufficient = len(res.MissingDataFields) == 0
	return res
}
