package sufficiency

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Workup/internal/evidence"
)

func boolPtr(v bool) *bool { return &v }

func stressPack(answers map[string]evidence.Answer) evidence.Pack {
	return evidence.Pack{
		AssessmentID: "assessment-1",
		FunnelSlug:   FunnelStressResilience,
		Answers:      answers,
	}
}

func TestCheckSufficientPack(t *testing.T) {
	res := Check(stressPack(map[string]evidence.Answer{
		"sleep_q1":  evidence.Number(3),
		"stress_q2": evidence.Text("commute"),
	}))

	assert.True(t, res.IsSufficient)
	assert.Empty(t, res.MissingDataFields)
	assert.Empty(t, res.FollowUpQuestions)
	assert.Len(t, res.EvidencePackHash, 64)
}

func TestCheckInsufficientPack(t *testing.T) {
	pack := stressPack(map[string]evidence.Answer{"mood_q1": evidence.Number(2)})
	res := Check(pack)

	assert.False(t, res.IsSufficient)
	assert.Equal(t, []string{"sleep_quality", "stress_triggers"}, res.MissingDataFields)
	require.Len(t, res.FollowUpQuestions, 2)
	assert.Equal(t, "stress_triggers", res.FollowUpQuestions[0].FieldKey)
	assert.Equal(t, "sleep_quality", res.FollowUpQuestions[1].FieldKey)
	assert.GreaterOrEqual(t, res.FollowUpQuestions[0].Priority, res.FollowUpQuestions[1].Priority)
	assert.Equal(t, evidence.Hash(pack), res.EvidencePackHash)
}

func TestCheckBlankTextIsMissing(t *testing.T) {
	res := Check(stressPack(map[string]evidence.Answer{
		"sleep_q1":  evidence.Number(1),
		"stress_q1": evidence.Text("  "),
	}))
	assert.False(t, res.IsSufficient)
	assert.Equal(t, []string{"stress_triggers"}, res.MissingDataFields)
}

func TestCheckUnknownFunnel(t *testing.T) {
	pack := evidence.Pack{AssessmentID: "a", FunnelSlug: "weight-loss"}
	res := Check(pack)

	assert.True(t, res.IsSufficient)
	assert.NotNil(t, res.MissingDataFields)
	assert.Empty(t, res.MissingDataFields)
	assert.NotNil(t, res.FollowUpQuestions)
	assert.Empty(t, res.FollowUpQuestions)
	assert.Equal(t, evidence.Hash(pack), res.EvidencePackHash)
}

func TestCheckStablePriorityOrder(t *testing.T) {
	res := Check(evidence.Pack{AssessmentID: "a", FunnelSlug: "cardio"})

	assert.Equal(t, []string{"blood_pressure", "activity_level", "supporting_documents"}, res.MissingDataFields)
	var order []string
	for _, q := range res.FollowUpQuestions {
		order = append(order, q.FieldKey)
	}
	assert.Equal(t, []string{"blood_pressure", "activity_level", "supporting_documents"}, order)
}

func TestCheckFlagsSatisfyRules(t *testing.T) {
	pack := evidence.Pack{
		AssessmentID:         "a",
		FunnelSlug:           FunnelCardiovascularAge,
		Answers:              map[string]evidence.Answer{"bp_systolic": evidence.Number(120)},
		HasUploadedDocuments: boolPtr(true),
		HasWearableData:      boolPtr(true),
	}
	res := Check(pack)
	assert.Equal(t, []string{"blood_pressure"}, res.MissingDataFields)

	pack.Answers["bp_diastolic"] = evidence.Number(80)
	assert.True(t, Check(pack).IsSufficient)
}

func TestRulesetForFunnel(t *testing.T) {
	for _, slug := range []string{"stress-resilience", "  Stress-Resilience ", "STRESS", "resilience"} {
		rs, ok := RulesetForFunnel(slug)
		require.True(t, ok, slug)
		assert.Equal(t, FunnelStressResilience, rs.FunnelSlug)
	}

	rs, ok := RulesetForFunnel("unknown-funnel")
	assert.False(t, ok)
	assert.Nil(t, rs)
}

func TestKnownFunnels(t *testing.T) {
	assert.Equal(t, []string{FunnelCardiovascularAge, FunnelStressResilience}, KnownFunnels())
}

func TestRulesetsAreWellFormed(t *testing.T) {
	for _, slug := range KnownFunnels() {
		rs, _ := RulesetForFunnel(slug)
		assert.NotEmpty(t, rs.Version, slug)
		ids := map[string]bool{}
		for _, r := range rs.Rules {
			assert.NotNil(t, r.Check, r.ID)
			assert.False(t, ids[r.ID], "duplicate rule id %s", r.ID)
			ids[r.ID] = true
			assert.Equal(t, r.FieldKey, r.FollowUpQuestion.FieldKey, r.ID)
		}
	}
}

func TestResultHasNoDiagnosticVocabulary(t *testing.T) {
	banned := []string{"diagnos", "disease", "disorder", "treatment", "prescri", "syndrome", "illness"}

	packs := []evidence.Pack{
		{AssessmentID: "a", FunnelSlug: FunnelStressResilience},
		{AssessmentID: "a", FunnelSlug: FunnelCardiovascularAge},
		{AssessmentID: "a", FunnelSlug: "unknown"},
	}
	for _, p := range packs {
		b, err := json.Marshal(Check(p))
		require.NoError(t, err)
		out := strings.ToLower(string(b))
		for _, word := range banned {
			assert.NotContains(t, out, word, "funnel %s", p.FunnelSlug)
		}
	}
}
