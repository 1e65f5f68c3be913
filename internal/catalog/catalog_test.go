package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Workup/internal/scoring"
)

const validDoc = `
version: custom-v2
factor_rules:
  - key: mood
    label: Mood
    operator: MAX
    question_ids: [mood_q1, mood_q2]
overall_rule:
  key: overall
  label: Overall
  operator: SUM
  question_ids: [mood]
`

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	cfg, ok := c.Get("stress-resilience-v1")
	require.True(t, ok)
	assert.Len(t, cfg.FactorRules, 4)
	assert.Equal(t, scoring.OpWeightedSum, cfg.OverallRule.Operator)
}

func TestDefaultConfigScoresAnAssessment(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	cfg, _ := c.Get("stress-resilience-v1")

	bundle, err := scoring.ComputeRiskBundle(scoring.RiskBundleInput{
		AssessmentID:     "a",
		AlgorithmVersion: cfg.Version,
		Answers: map[string]float64{
			"sleep_q1": 5, "stress_q1": 60, "stress_q2": 40, "stress_q3": 50,
			"recovery_q1": 50, "recovery_q2": 50, "load_q1": 60,
		},
	}, cfg)
	require.NoError(t, err)
	// 50*0.25 + 50*0.35 + 50*0.2 + 50*0.2
	assert.InDelta(t, 50, bundle.RiskScore.Overall, 1e-9)
	assert.Equal(t, scoring.RiskHigh, bundle.RiskScore.RiskLevel)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "custom.yaml", validDoc)
	writeFile(t, dir, "README.md", "not a config")

	c, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"custom-v2", "stress-resilience-v1"}, c.Versions())

	cfg, ok := c.Get("custom-v2")
	require.True(t, ok)
	assert.Equal(t, []string{"mood_q1", "mood_q2"}, cfg.FactorRules[0].QuestionIDs)
}

func TestLoadEmptyDir(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"stress-resilience-v1"}, c.Versions())
}

func TestLoadDuplicateVersion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", validDoc)
	writeFile(t, dir, "b.yml", validDoc)

	_, err := Load(dir)
	assert.ErrorContains(t, err, "already defined")
}

func TestParseRejectsUnknownOperator(t *testing.T) {
	_, err := Parse([]byte(`
version: bad
factor_rules: []
overall_rule:
  key: overall
  operator: MEDIAN
`))
	assert.ErrorIs(t, err, scoring.ErrUnknownOperator)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte(`
version: bad
overall_rule:
  key: overall
  operator: SUM
  weight: 3
`))
	assert.Error(t, err)
}

func TestParseRejectsInvalidConfig(t *testing.T) {
	_, err := Parse([]byte(`
version: bad
factor_rules:
  - key: sleep
    operator: NORMALIZE
    question_ids: [sleep_q1]
    min_value: 10
    max_value: 0
overall_rule:
  key: overall
  operator: SUM
  question_ids: [sleep]
`))
	var cfgErr *scoring.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Len(t, cfgErr.Errors, 1)
}

func TestParseRejectsNonFiniteNumbers(t *testing.T) {
	_, err := Parse([]byte(`
version: bad
factor_rules:
  - key: recovery
    operator: WEIGHTED_SUM
    question_ids: [recovery_q1]
    weights:
      - input_id: recovery_q1
        weight: .nan
  - key: sleep
    operator: NORMALIZE
    question_ids: [sleep_q1]
    min_value: -.inf
    max_value: .inf
  - key: load
    operator: THRESHOLD
    question_ids: [load_q1]
    thresholds:
      - value: 0
        score: .inf
overall_rule:
  key: overall
  operator: SUM
  question_ids: [recovery, sleep, load]
`))
	var cfgErr *scoring.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{
		"recovery: WEIGHTED_SUM weight for recovery_q1 must be finite",
		"sleep: NORMALIZE operator requires finite minValue and maxValue",
		"load: THRESHOLD values and scores must be finite",
	}, cfgErr.Errors)
}

func TestParseRequiresVersion(t *testing.T) {
	_, err := Parse([]byte("overall_rule:\n  key: overall\n  operator: SUM\n"))
	assert.ErrorContains(t, err, "version")
	_, err = Parse(nil)
	assert.Error(t, err)
}
