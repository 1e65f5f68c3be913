package scoring

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestValidateRuleStructuralOperators(t *testing.T) {
	for _, op := range []Operator{OpSum, OpAverage, OpMin, OpMax} {
		if err := ValidateRule(Rule{Key: "r", Operator: op}); err != nil {
			t.Errorf("%s with no inputs: unexpected error %v", op, err)
		}
	}
}

func TestValidateRuleWeightedSum(t *testing.T) {
	t.Run("no weights", func(t *testing.T) {
		err := ValidateRule(Rule{Key: "r", Operator: OpWeightedSum, QuestionIDs: []string{"q1"}})
		if err == nil || !strings.Contains(err.Error(), "requires weights") {
			t.Fatalf("expected weights error, got %v", err)
		}
	})

	t.Run("missing ids in question order", func(t *testing.T) {
		err := ValidateRule(Rule{
			Key:         "r",
			Operator:    OpWeightedSum,
			QuestionIDs: []string{"q3", "q1", "q2"},
			Weights:     []Weight{{InputID: "q1", Weight: 1}},
		})
		if err == nil {
			t.Fatal("expected error for incomplete weights")
		}
		if !strings.HasSuffix(err.Error(), "q3, q2") {
			t.Errorf("expected missing ids q3, q2 in order, got %q", err.Error())
		}
	})

	t.Run("extra weights allowed", func(t *testing.T) {
		err := ValidateRule(Rule{
			Key:         "r",
			Operator:    OpWeightedSum,
			QuestionIDs: []string{"q1"},
			Weights:     []Weight{{InputID: "q1", Weight: 1}, {InputID: "q9", Weight: 1}},
		})
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestValidateRuleNonFiniteWeights(t *testing.T) {
	for _, w := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		err := ValidateRule(Rule{
			Key:         "r",
			Operator:    OpWeightedSum,
			QuestionIDs: []string{"q1"},
			Weights:     []Weight{{InputID: "q1", Weight: w}},
		})
		if err == nil || err.Error() != "WEIGHTED_SUM weight for q1 must be finite" {
			t.Errorf("weight %v: expected finite weight error, got %v", w, err)
		}
	}
}

func TestValidateRuleNonFiniteThresholds(t *testing.T) {
	tables := map[string][]Threshold{
		"NaN value":      {{Value: math.NaN(), Score: 1}},
		"infinite value": {{Value: 0, Score: 0}, {Value: math.Inf(1), Score: 1}},
		"NaN score":      {{Value: 0, Score: math.NaN()}},
		"infinite score": {{Value: 0, Score: math.Inf(-1)}},
	}
	for name, table := range tables {
		t.Run(name, func(t *testing.T) {
			err := ValidateRule(Rule{Key: "r", Operator: OpThreshold, QuestionIDs: []string{"q1"}, Thresholds: table})
			if err == nil || err.Error() != "THRESHOLD values and scores must be finite" {
				t.Errorf("expected finite threshold error, got %v", err)
			}
		})
	}
}

func TestValidateRuleThreshold(t *testing.T) {
	err := ValidateRule(Rule{Key: "r", Operator: OpThreshold, QuestionIDs: []string{"q1"}})
	if err == nil || err.Error() != "THRESHOLD operator requires thresholds" {
		t.Errorf("expected thresholds error, got %v", err)
	}

	err = ValidateRule(Rule{
		Key:         "r",
		Operator:    OpThreshold,
		QuestionIDs: []string{"q1", "q2"},
		Thresholds:  []Threshold{{Value: 0, Score: 0}},
	})
	if err == nil {
		t.Error("expected multi-input THRESHOLD to be rejected")
	}
}

func TestValidateRuleNormalize(t *testing.T) {
	tests := []struct {
		name    string
		min     *float64
		max     *float64
		wantErr string
	}{
		{"missing both", nil, nil, "requires minValue and maxValue"},
		{"missing max", Float64(0), nil, "requires minValue and maxValue"},
		{"equal bounds", Float64(5), Float64(5), "requires minValue < maxValue"},
		{"inverted bounds", Float64(10), Float64(0), "requires minValue < maxValue"},
		{"NaN min", Float64(math.NaN()), Float64(10), "requires finite minValue and maxValue"},
		{"infinite bounds", Float64(math.Inf(-1)), Float64(math.Inf(1)), "requires finite minValue and maxValue"},
		{"infinite max", Float64(0), Float64(math.Inf(1)), "requires finite minValue and maxValue"},
		{"valid", Float64(0), Float64(10), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRule(Rule{Key: "r", Operator: OpNormalize, QuestionIDs: []string{"q1"}, MinValue: tt.min, MaxValue: tt.max})
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateRuleDuplicateQuestionIDs(t *testing.T) {
	err := ValidateRule(Rule{Key: "r", Operator: OpSum, QuestionIDs: []string{"q1", "q2", "q1"}})
	if err == nil || !strings.Contains(err.Error(), "q1") {
		t.Errorf("expected duplicate id error naming q1, got %v", err)
	}
}

func TestValidateRuleUnknownOperator(t *testing.T) {
	err := ValidateRule(Rule{Key: "r", Operator: "PRODUCT"})
	if !errors.Is(err, ErrUnknownOperator) {
		t.Errorf("expected ErrUnknownOperator, got %v", err)
	}
}

func TestValidateConfigAccumulatesInOrder(t *testing.T) {
	cfg := &RiskCalculationConfig{
		Version: "v-test",
		FactorRules: []Rule{
			{Key: "sleep", Operator: OpWeightedSum, QuestionIDs: []string{"q1"}},
			{Key: "fine", Operator: OpSum, QuestionIDs: []string{"q2"}},
			{Key: "stress", Operator: OpThreshold, QuestionIDs: []string{"q3"}},
		},
		OverallRule: Rule{Key: "overall", Operator: OpNormalize, QuestionIDs: []string{"sleep"}},
	}

	v := ValidateConfig(cfg)
	if v.Valid {
		t.Fatal("expected invalid config")
	}
	if len(v.Errors) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(v.Errors), v.Errors)
	}
	if !strings.HasPrefix(v.Errors[0], "sleep: ") {
		t.Errorf("first error should be prefixed with factor key, got %q", v.Errors[0])
	}
	if !strings.HasPrefix(v.Errors[1], "stress: ") {
		t.Errorf("second error should be prefixed with factor key, got %q", v.Errors[1])
	}
	if !strings.HasPrefix(v.Errors[2], "Overall rule: ") {
		t.Errorf("last error should be the overall rule, got %q", v.Errors[2])
	}
}

func TestValidateConfigDuplicateFactorKeys(t *testing.T) {
	cfg := &RiskCalculationConfig{
		FactorRules: []Rule{
			{Key: "sleep", Operator: OpSum},
			{Key: "sleep", Operator: OpAverage},
		},
		OverallRule: Rule{Key: "overall", Operator: OpSum, QuestionIDs: []string{"sleep"}},
	}
	v := ValidateConfig(cfg)
	if v.Valid || len(v.Errors) != 1 || v.Errors[0] != "sleep: duplicate factor key" {
		t.Errorf("unexpected validation: %+v", v)
	}
}

func TestValidateConfigValid(t *testing.T) {
	v := ValidateConfig(testConfig())
	if !v.Valid || len(v.Errors) != 0 {
		t.Errorf("expected valid config, got %+v", v)
	}
}

func TestValidateConfigNil(t *testing.T) {
	if v := ValidateConfig(nil); v.Valid {
		t.Error("nil config must not validate")
	}
}

func TestOperatorUnmarshalRejectsUnknown(t *testing.T) {
	var r Rule
	if err := json.Unmarshal([]byte(`{"key":"r","operator":"MEDIAN"}`), &r); !errors.Is(err, ErrUnknownOperator) {
		t.Errorf("json: expected ErrUnknownOperator, got %v", err)
	}
	if err := yaml.Unmarshal([]byte("key: r\noperator: MEDIAN\n"), &r); !errors.Is(err, ErrUnknownOperator) {
		t.Errorf("yaml: expected ErrUnknownOperator, got %v", err)
	}
	if err := json.Unmarshal([]byte(`{"key":"r","operator":"WEIGHTED_SUM"}`), &r); err != nil || r.Operator != OpWeightedSum {
		t.Errorf("json: expected WEIGHTED_SUM, got %q (%v)", r.Operator, err)
	}
}
