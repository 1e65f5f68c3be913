package scoring

import (
	"fmt"
	"math"
)

// MissingAnswerError reports a question id that a rule reads but the
// supplied inputs do not contain.
type MissingAnswerError struct {
	ID string
}

func (e *MissingAnswerError) Error() string {
	return "missing answer for question id: " + e.ID
}

// Evaluate computes the rule's output from inputs. It does not validate the
// rule; callers evaluating untrusted rules should call ValidateRule first.
func Evaluate(rule Rule, inputs map[string]float64) (float64, error) {
	values, err := resolve(rule.QuestionIDs, inputs)
	if err != nil {
		return 0, err
	}

	switch rule.Operator {
	case OpSum:
		return sum(values), nil

	case OpAverage:
		// Mean of nothing is 0, not NaN.
		if len(values) == 0 {
			return 0, nil
		}
		return sum(values) / float64(len(values)), nil

	case OpMin:
		if len(values) == 0 {
			return 0, nil
		}
		m := values[0]
		for _, v := range values[1:] {
			m = math.Min(m, v)
		}
		return m, nil

	case OpMax:
		if len(values) == 0 {
			return 0, nil
		}
		m := values[0]
		for _, v := range values[1:] {
			m = math.Max(m, v)
		}
		return m, nil

	case OpWeightedSum:
		var total float64
		for i, id := range rule.QuestionIDs {
			w, ok := weightFor(rule.Weights, id)
			if !ok {
				return 0, fmt.Errorf("rule %s: no weight for question id %s", rule.Key, id)
			}
			total += values[i] * w
		}
		return total, nil

	case OpNormalize:
		if rule.MinValue == nil || rule.MaxValue == nil || *rule.MinValue >= *rule.MaxValue {
			return 0, fmt.Errorf("rule %s: NORMALIZE operator requires minValue < maxValue", rule.Key)
		}
		if len(values) != 1 {
			return 0, fmt.Errorf("rule %s: NORMALIZE operator requires exactly one input", rule.Key)
		}
		lo, hi := *rule.MinValue, *rule.MaxValue
		return clamp((values[0]-lo)/(hi-lo)*100, 0, 100), nil

	case OpThreshold:
		if len(values) != 1 {
			return 0, fmt.Errorf("rule %s: THRESHOLD operator requires exactly one input", rule.Key)
		}
		return stepScore(values[0], rule.Thresholds), nil

	default:
		return 0, fmt.Errorf("rule %s: %w: %q", rule.Key, ErrUnknownOperator, string(rule.Operator))
	}
}

// resolve looks up every id in order, failing on the first absent one.
func resolve(ids []string, inputs map[string]float64) ([]float64, error) {
	values := make([]float64, len(ids))
	for i, id := range ids {
		v, ok := inputs[id]
		if !ok {
			return nil, &MissingAnswerError{ID: id}
		}
		values[i] = v
	}
	return values, nil
}

func weightFor(weights []Weight, id string) (float64, bool) {
	for _, w := range weights {
		if w.InputID == id {
			return w.Weight, true
		}
	}
	return 0, false
}

// stepScore returns the score of the threshold with the largest value not
// above v. Equal values keep the first declared. Below every threshold the
// score is 0.
func stepScore(v float64, thresholds []Threshold) float64 {
	var (
		best  Threshold
		found bool
	)
	for _, t := range thresholds {
		if t.Value > v {
			continue
		}
		if !found || t.Value > best.Value {
			best = t
			found = true
		}
	}
	if !found {
		return 0
	}
	return best.Score
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
