package scoring

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrUnknownOperator is returned when an operator string is not one of the
// supported scoring operators.
var ErrUnknownOperator = errors.New("unknown operator")

// Operator selects how a rule combines its inputs.
type Operator string

const (
	OpSum         Operator = "SUM"
	OpWeightedSum Operator = "WEIGHTED_SUM"
	OpAverage     Operator = "AVERAGE"
	OpMin         Operator = "MIN"
	OpMax         Operator = "MAX"
	OpThreshold   Operator = "THRESHOLD"
	OpNormalize   Operator = "NORMALIZE"
)

// Operators lists every supported operator.
func Operators() []Operator {
	return []Operator{OpSum, OpWeightedSum, OpAverage, OpMin, OpMax, OpThreshold, OpNormalize}
}

// ParseOperator converts s to an Operator, rejecting anything unsupported.
func ParseOperator(s string) (Operator, error) {
	op := Operator(s)
	if !op.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownOperator, s)
	}
	return op, nil
}

// Valid reports whether o is a supported operator.
func (o Operator) Valid() bool {
	switch o {
	case OpSum, OpWeightedSum, OpAverage, OpMin, OpMax, OpThreshold, OpNormalize:
		return true
	}
	return false
}

func (o *Operator) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("operator: %w", err)
	}
	op, err := ParseOperator(s)
	if err != nil {
		return err
	}
	*o = op
	return nil
}

func (o *Operator) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("operator: %w", err)
	}
	op, err := ParseOperator(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*o = op
	return nil
}

// RiskLevel is the coarse classification of an overall score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Weight assigns a multiplier to one input of a WEIGHTED_SUM rule.
type Weight struct {
	InputID string  `json:"input_id" yaml:"input_id"`
	Weight  float64 `json:"weight" yaml:"weight"`
}

// Threshold is one step of a THRESHOLD rule's step function.
type Threshold struct {
	Value     float64   `json:"value" yaml:"value"`
	Score     float64   `json:"score" yaml:"score"`
	RiskLevel RiskLevel `json:"risk_level,omitempty" yaml:"risk_level,omitempty"`
}

// Rule is a single scoring step. Key names the output; for factor rules it
// is also addressable as an input by the overall rule.
type Rule struct {
	Key         string      `json:"key" yaml:"key"`
	Label       string      `json:"label" yaml:"label"`
	Operator    Operator    `json:"operator" yaml:"operator"`
	QuestionIDs []string    `json:"question_ids" yaml:"question_ids"`
	Weights     []Weight    `json:"weights,omitempty" yaml:"weights,omitempty"`
	Thresholds  []Threshold `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`
	MinValue    *float64    `json:"min_value,omitempty" yaml:"min_value,omitempty"`
	MaxValue    *float64    `json:"max_value,omitempty" yaml:"max_value,omitempty"`
}

// RiskCalculationConfig is a versioned set of factor rules and the overall
// rule that combines them. Version is opaque to this package.
type RiskCalculationConfig struct {
	Version     string `json:"version" yaml:"version"`
	FactorRules []Rule `json:"factor_rules" yaml:"factor_rules"`
	OverallRule Rule   `json:"overall_rule" yaml:"overall_rule"`
}

// RiskBundleInput carries one assessment's numeric answers.
type RiskBundleInput struct {
	AssessmentID     string             `json:"assessment_id"`
	Answers          map[string]float64 `json:"answers"`
	AlgorithmVersion string             `json:"algorithm_version"`
}

// RiskFactor is the score of one factor rule.
type RiskFactor struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// RiskScore is the overall score, its level and the factor breakdown.
type RiskScore struct {
	Overall   float64      `json:"overall"`
	RiskLevel RiskLevel    `json:"risk_level"`
	Factors   []RiskFactor `json:"factors"`
}

// RiskBundleV1 is the output of ComputeRiskBundle.
type RiskBundleV1 struct {
	AssessmentID     string    `json:"assessment_id"`
	AlgorithmVersion string    `json:"algorithm_version"`
	RiskScore        RiskScore `json:"risk_score"`
}

// Float64 returns a pointer to v, for building NORMALIZE bounds.
func Float64(v float64) *float64 { return &v }
