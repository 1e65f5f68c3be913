// Package evidence holds the evidence pack assembled from an assessment's
// stored answers, and the canonical hash used to detect when it changes.
package evidence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type answerKind uint8

const (
	kindNone answerKind = iota
	kindNumber
	kindText
	kindBool
)

// Answer is a single stored answer: a number, a text value or a boolean.
// The zero Answer is "not answered".
type Answer struct {
	kind answerKind
	num  float64
	text string
	b    bool
}

func Number(v float64) Answer { return Answer{kind: kindNumber, num: v} }
func Text(v string) Answer    { return Answer{kind: kindText, text: v} }
func Bool(v bool) Answer      { return Answer{kind: kindBool, b: v} }

// IsNumber reports whether a holds a number, and returns it.
func (a Answer) IsNumber() (float64, bool) { return a.num, a.kind == kindNumber }

// IsText reports whether a holds text, and returns it.
func (a Answer) IsText() (string, bool) { return a.text, a.kind == kindText }

// IsBool reports whether a holds a boolean, and returns it.
func (a Answer) IsBool() (bool, bool) { return a.b, a.kind == kindBool }

// Present reports whether the answer carries a value. Blank text counts as
// unanswered.
func (a Answer) Present() bool {
	switch a.kind {
	case kindNumber, kindBool:
		return true
	case kindText:
		return strings.TrimSpace(a.text) != ""
	}
	return false
}

func (a Answer) String() string {
	switch a.kind {
	case kindNumber:
		return fmt.Sprintf("%g", a.num)
	case kindText:
		return a.text
	case kindBool:
		return fmt.Sprintf("%t", a.b)
	}
	return "<none>"
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case kindNumber:
		return json.Marshal(a.num)
	case kindText:
		return marshalString(a.text)
	case kindBool:
		return json.Marshal(a.b)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts a JSON number, string or boolean. Null, objects and
// arrays are rejected.
func (a *Answer) UnmarshalJSON(data []byte) error {
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch t := v.(type) {
	case float64:
		*a = Number(t)
	case string:
		*a = Text(t)
	case bool:
		*a = Bool(t)
	default:
		return fmt.Errorf("answer must be a number, string or boolean, got %s", bytes.TrimSpace(data))
	}
	return nil
}

// Pack is the versionable snapshot of an assessment's answers plus the
// auxiliary flags sufficiency rules may consult.
type Pack struct {
	AssessmentID         string            `json:"assessment_id"`
	FunnelSlug           string            `json:"funnel_slug"`
	Answers              map[string]Answer `json:"answers"`
	HasUploadedDocuments *bool             `json:"has_uploaded_documents,omitempty"`
	HasWearableData      *bool             `json:"has_wearable_data,omitempty"`
}

// Answer returns the answer stored under key, if any.
func (p Pack) Answer(key string) (Answer, bool) {
	a, ok := p.Answers[key]
	return a, ok
}

// UploadedDocuments reports the uploaded-documents flag, treating absent as false.
func (p Pack) UploadedDocuments() bool {
	return p.HasUploadedDocuments != nil && *p.HasUploadedDocuments
}

// WearableData reports the wearable-data flag, treating absent as false.
func (p Pack) WearableData() bool {
	return p.HasWearableData != nil && *p.HasWearableData
}

// NumericAnswers returns the numeric answers only, for feeding the scoring
// engine. Text and boolean answers are skipped.
func (p Pack) NumericAnswers() map[string]float64 {
	out := make(map[string]float64, len(p.Answers))
	for k, a := range p.Answers {
		if v, ok := a.IsNumber(); ok {
			out[k] = v
		}
	}
	return out
}
