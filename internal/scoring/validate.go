package scoring

import (
	"fmt"
	"math"
	"strings"
)

// ConfigError is returned by ComputeRiskBundle when a configuration fails
// validation. Errors holds every problem found, in validation order.
type ConfigError struct {
	Errors []string
}

func (e *ConfigError) Error() string {
	return "invalid risk calculation config: " + strings.Join(e.Errors, "; ")
}

// ConfigValidation is the result of ValidateConfig.
type ConfigValidation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ValidateRule checks that a rule carries everything its operator needs.
// A nil return means the rule is well-formed.
func ValidateRule(rule Rule) error {
	if !rule.Operator.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownOperator, string(rule.Operator))
	}

	seen := make(map[string]struct{}, len(rule.QuestionIDs))
	var dups []string
	for _, id := range rule.QuestionIDs {
		if _, ok := seen[id]; ok {
			dups = append(dups, id)
			continue
		}
		seen[id] = struct{}{}
	}
	if len(dups) > 0 {
		return fmt.Errorf("duplicate question ids: %s", strings.Join(dups, ", "))
	}

	switch rule.Operator {
	case OpWeightedSum:
		if len(rule.Weights) == 0 {
			return fmt.Errorf("WEIGHTED_SUM operator requires weights")
		}
		weighted := make(map[string]struct{}, len(rule.Weights))
		for _, w := range rule.Weights {
			if !finite(w.Weight) {
				return fmt.Errorf("WEIGHTED_SUM weight for %s must be finite", w.InputID)
			}
			weighted[w.InputID] = struct{}{}
		}
		var missing []string
		for _, id := range rule.QuestionIDs {
			if _, ok := weighted[id]; !ok {
				missing = append(missing, id)
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("WEIGHTED_SUM weights missing for question ids: %s", strings.Join(missing, ", "))
		}

	case OpThreshold:
		if len(rule.Thresholds) == 0 {
			return fmt.Errorf("THRESHOLD operator requires thresholds")
		}
		for _, t := range rule.Thresholds {
			if !finite(t.Value) || !finite(t.Score) {
				return fmt.Errorf("THRESHOLD values and scores must be finite")
			}
		}
		// No combination rule is defined for several inputs.
		if len(rule.QuestionIDs) != 1 {
			return fmt.Errorf("THRESHOLD operator requires exactly one question id, got %d", len(rule.QuestionIDs))
		}

	case OpNormalize:
		if rule.MinValue == nil || rule.MaxValue == nil {
			return fmt.Errorf("NORMALIZE operator requires minValue and maxValue")
		}
		if !finite(*rule.MinValue) || !finite(*rule.MaxValue) {
			return fmt.Errorf("NORMALIZE operator requires finite minValue and maxValue")
		}
		if *rule.MinValue >= *rule.MaxValue {
			return fmt.Errorf("NORMALIZE operator requires minValue < maxValue (got %g >= %g)", *rule.MinValue, *rule.MaxValue)
		}
		if len(rule.QuestionIDs) != 1 {
			return fmt.Errorf("NORMALIZE operator requires exactly one question id, got %d", len(rule.QuestionIDs))
		}

	case OpSum, OpAverage, OpMin, OpMax:
	}

	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ValidateConfig validates every factor rule and then the overall rule,
// collecting all errors rather than stopping at the first.
func ValidateConfig(cfg *RiskCalculationConfig) ConfigValidation {
	if cfg == nil {
		return ConfigValidation{Errors: []string{"risk calculation config is required"}}
	}

	errs := []string{}
	keys := make(map[string]struct{}, len(cfg.FactorRules))
	for _, rule := range cfg.FactorRules {
		if _, dup := keys[rule.Key]; dup {
			errs = append(errs, fmt.Sprintf("%s: duplicate factor key", rule.Key))
		}
		keys[rule.Key] = struct{}{}
		if err := ValidateRule(rule); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", rule.Key, err))
		}
	}
	if err := ValidateRule(cfg.OverallRule); err != nil {
		errs = append(errs, "Overall rule: "+err.Error())
	}

	return ConfigValidation{Valid: len(errs) == 0, Errors: errs}
}
