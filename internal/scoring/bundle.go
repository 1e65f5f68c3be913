package scoring

import (
	"errors"
	"fmt"
)

// ErrNonFiniteScore is returned by ComputeRiskBundle when a rule evaluates to
// NaN or an infinity. Such a score has no risk level.
var ErrNonFiniteScore = errors.New("score is not finite")

// Risk level cut-offs on the overall score. Each is inclusive.
const (
	CriticalThreshold = 75.0
	HighThreshold     = 50.0
	ModerateThreshold = 25.0
)

// ClassifyRiskLevel maps an overall score to its risk level.
func ClassifyRiskLevel(overall float64) RiskLevel {
	switch {
	case overall >= CriticalThreshold:
		return RiskCritical
	case overall >= HighThreshold:
		return RiskHigh
	case overall >= ModerateThreshold:
		return RiskModerate
	default:
		return RiskLow
	}
}

// ComputeRiskBundle validates cfg, scores every factor rule against the
// input answers, then scores the overall rule against the answers extended
// with the factor outputs. Any failure aborts the whole computation.
//
// input.Answers is never modified. The result shares no memory with input
// or cfg.
func ComputeRiskBundle(input RiskBundleInput, cfg *RiskCalculationConfig) (*RiskBundleV1, error) {
	if v := ValidateConfig(cfg); !v.Valid {
		return nil, &ConfigError{Errors: v.Errors}
	}

	factors := make([]RiskFactor, 0, len(cfg.FactorRules))
	for _, rule := range cfg.FactorRules {
		score, err := Evaluate(rule, input.Answers)
		if err != nil {
			return nil, err
		}
		if !finite(score) {
			return nil, fmt.Errorf("%s: %w", rule.Key, ErrNonFiniteScore)
		}
		factors = append(factors, RiskFactor{Key: rule.Key, Label: rule.Label, Score: score})
	}

	overall, err := Evaluate(cfg.OverallRule, extendInputs(input.Answers, factors))
	if err != nil {
		return nil, err
	}
	if !finite(overall) {
		return nil, fmt.Errorf("overall: %w", ErrNonFiniteScore)
	}

	return &RiskBundleV1{
		AssessmentID:     input.AssessmentID,
		AlgorithmVersion: input.AlgorithmVersion,
		RiskScore: RiskScore{
			Overall:   overall,
			RiskLevel: ClassifyRiskLevel(overall),
			Factors:   factors,
		},
	}, nil
}

// extendInputs returns a new map holding answers plus each factor score
// under its key. A factor shadows a raw answer of the same name.
func extendInputs(answers map[string]float64, factors []RiskFactor) map[string]float64 {
	ledger := make(map[string]float64, len(answers)+len(factors))
	for k, v := range answers {
		ledger[k] = v
	}
	for _, f := range factors {
		ledger[f.Key] = f.Score
	}
	return ledger
}
