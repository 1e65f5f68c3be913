// Package sufficiency decides whether an evidence pack carries enough data
// for clinical review and, when it does not, which follow-up questions to ask.
package sufficiency

import (
	"strings"

	"github.com/MikeSquared-Agency/Workup/internal/evidence"
)

// FollowUpQuestion is asked when a sufficiency rule fails.
type FollowUpQuestion struct {
	ID           string `json:"id"`
	FieldKey     string `json:"field_key"`
	QuestionText string `json:"question_text"`
	InputType    string `json:"input_type"`
	Priority     int    `json:"priority"`
}

// Input types a follow-up question may request.
const (
	InputScale          = "scale"
	InputText           = "text"
	InputNumber         = "number"
	InputBoolean        = "boolean"
	InputMultipleChoice = "multiple_choice"
	InputUpload         = "upload"
)

// CheckFunc reports whether a pack satisfies one data requirement.
type CheckFunc func(evidence.Pack) bool

// Rule is one presence requirement of a ruleset.
type Rule struct {
	ID               string           `json:"id"`
	FieldKey         string           `json:"field_key"`
	Description      string           `json:"description"`
	Check            CheckFunc        `json:"-"`
	FollowUpQuestion FollowUpQuestion `json:"follow_up_question"`
}

// Ruleset is the versioned list of requirements for one funnel.
type Ruleset struct {
	FunnelSlug string `json:"funnel_slug"`
	Version    string `json:"version"`
	Rules      []Rule `json:"rules"`
}

// AnyAnswerWithPrefix passes when at least one answer whose key starts with
// prefix is present.
func AnyAnswerWithPrefix(prefix string) CheckFunc {
	return func(p evidence.Pack) bool {
		for k, a := range p.Answers {
			if strings.HasPrefix(k, prefix) && a.Present() {
				return true
			}
		}
		return false
	}
}

// HasAnswer passes when the answer under key is present.
func HasAnswer(key string) CheckFunc {
	return func(p evidence.Pack) bool {
		a, ok := p.Answer(key)
		return ok && a.Present()
	}
}

// AllAnswers passes when every key has a present answer.
func AllAnswers(keys ...string) CheckFunc {
	return func(p evidence.Pack) bool {
		for _, k := range keys {
			if a, ok := p.Answer(k); !ok || !a.Present() {
				return false
			}
		}
		return true
	}
}

// HasUploadedDocuments passes when the pack reports uploaded documents.
func HasUploadedDocuments() CheckFunc {
	return func(p evidence.Pack) bool { return p.UploadedDocuments() }
}

// HasWearableData passes when the pack reports wearable data.
func HasWearableData() CheckFunc {
	return func(p evidence.Pack) bool { return p.WearableData() }
}

// Either passes when any of checks passes.
func Either(checks ...CheckFunc) CheckFunc {
	return func(p evidence.Pack) bool {
		for _, c := range checks {
			if c(p) {
				return true
			}
		}
		return false
	}
}
