package sufficiency

import (
	"sort"
	"strings"
)

const (
	FunnelStressResilience  = "stress-resilience"
	FunnelCardiovascularAge = "cardiovascular-age"
)

var stressResilienceV1 = Ruleset{
	FunnelSlug: FunnelStressResilience,
	Version:    "1.0.0",
	Rules: []Rule{
		{
			ID:          "stress-resilience.sleep-quality",
			FieldKey:    "sleep_quality",
			Description: "At least one sleep question answered",
			Check:       AnyAnswerWithPrefix("sleep_q"),
			FollowUpQuestion: FollowUpQuestion{
				ID:           "followup.sleep_quality",
				FieldKey:     "sleep_quality",
				QuestionText: "How would you rate the quality of your sleep over the last two weeks?",
				InputType:    InputScale,
				Priority:     2,
			},
		},
		{
			ID:          "stress-resilience.stress-triggers",
			FieldKey:    "stress_triggers",
			Description: "At least one stress question answered",
			Check:       AnyAnswerWithPrefix("stress_q"),
			FollowUpQuestion: FollowUpQuestion{
				ID:           "followup.stress_triggers",
				FieldKey:     "stress_triggers",
				QuestionText: "Which situations in your daily life feel most stressful to you?",
				InputType:    InputText,
				Priority:     3,
			},
		},
	},
}

var cardiovascularAgeV1 = Ruleset{
	FunnelSlug: FunnelCardiovascularAge,
	Version:    "1.0.0",
	Rules: []Rule{
		{
			ID:          "cardiovascular-age.blood-pressure",
			FieldKey:    "blood_pressure",
			Description: "Systolic and diastolic readings both answered",
			Check:       AllAnswers("bp_systolic", "bp_diastolic"),
			FollowUpQuestion: FollowUpQuestion{
				ID:           "followup.blood_pressure",
				FieldKey:     "blood_pressure",
				QuestionText: "Please enter your most recent blood pressure reading (systolic and diastolic).",
				InputType:    InputNumber,
				Priority:     3,
			},
		},
		{
			ID:          "cardiovascular-age.activity-level",
			FieldKey:    "activity_level",
			Description: "Activity answered or wearable data connected",
			Check:       Either(AnyAnswerWithPrefix("activity_q"), HasWearableData()),
			FollowUpQuestion: FollowUpQuestion{
				ID:           "followup.activity_level",
				FieldKey:     "activity_level",
				QuestionText: "On how many days per week are you physically active for at least 30 minutes?",
				InputType:    InputScale,
				Priority:     2,
			},
		},
		{
			ID:          "cardiovascular-age.supporting-documents",
			FieldKey:    "supporting_documents",
			Description: "Lab values answered or documents uploaded",
			Check:       Either(AnyAnswerWithPrefix("lab_"), HasUploadedDocuments()),
			FollowUpQuestion: FollowUpQuestion{
				ID:           "followup.supporting_documents",
				FieldKey:     "supporting_documents",
				QuestionText: "Do you have recent lab results you can upload?",
				InputType:    InputUpload,
				Priority:     1,
			},
		},
	},
}

// funnels maps every accepted funnel identifier to its ruleset.
var funnels = map[string]*Ruleset{
	FunnelStressResilience: &stressResilienceV1,
	"stress":               &stressResilienceV1,
	"stress_resilience":    &stressResilienceV1,
	"resilience":           &stressResilienceV1,

	FunnelCardiovascularAge: &cardiovascularAgeV1,
	"cardiovascular":        &cardiovascularAgeV1,
	"cardiovascular_age":    &cardiovascularAgeV1,
	"cardio":                &cardiovascularAgeV1,
	"heart-age":             &cardiovascularAgeV1,
}

// RulesetForFunnel returns the ruleset for slug after trimming and
// lowercasing it. Unknown funnels have no ruleset; that is not an error.
// The returned ruleset is shared and must not be modified.
func RulesetForFunnel(slug string) (*Ruleset, bool) {
	rs, ok := funnels[strings.ToLower(strings.TrimSpace(slug))]
	return rs, ok
}

// KnownFunnels returns the canonical slug of every supported funnel, sorted.
func KnownFunnels() []string {
	seen := map[string]struct{}{}
	for _, rs := range funnels {
		seen[rs.FunnelSlug] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for slug := range seen {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out
}
