package hermes

import "strings"

const (
	// SubjectEvidenceSubmitted carries evidence packs from the intake layer.
	SubjectEvidenceSubmitted = "workup.evidence.*.submitted"

	StreamName   = "WORKUP_EVENTS"
	StreamMaxAge = "720h" // 30 days

	// QueueGroup spreads evidence submissions across service replicas so each
	// pack is evaluated once.
	QueueGroup = "workup"
)

// StreamSubjects are the subject filters retained in StreamName.
var StreamSubjects = []string{"workup.risk.>", "workup.sufficiency.>", "workup.evidence.>"}

func SubjectRiskBundleComputed(assessmentID string) string {
	return "workup.risk." + token(assessmentID) + ".computed"
}
func SubjectRiskBundleRejected(assessmentID string) string {
	return "workup.risk." + token(assessmentID) + ".rejected"
}
func SubjectWorkupEvaluated(assessmentID string) string {
	return "workup.sufficiency." + token(assessmentID) + ".evaluated"
}
func SubjectWorkupReady(assessmentID string) string {
	return "workup.sufficiency." + token(assessmentID) + ".ready"
}

var tokenReplacer = strings.NewReplacer(".", "_", "*", "_", ">", "_", " ", "_", "\t", "_")

// token makes an id safe to use as a single subject token.
func token(id string) string {
	if id == "" {
		return "_"
	}
	return tokenReplacer.Replace(id)
}
