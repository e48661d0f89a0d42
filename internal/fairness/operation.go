package fairness

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ThresholdOp is a deterministic decision rule on a raw score. Operator
// ">" predicts positive for scores strictly above Threshold; "<" predicts
// positive for scores strictly below it. The "<" form appears when a
// group's raw ROC point falls below the diagonal and the labels are
// flipped to recover a useful operating point.
//
// Threshold may be ±Inf: {">", +Inf} never predicts positive and
// {"<", +Inf} always does. These two serve as the (0,0) and (1,1)
// boundary anchors of every group's ROC.
type ThresholdOp struct {
	Operator  string
	Threshold float64
}

// Apply evaluates the rule against a score, returning 1 or 0.
func (op ThresholdOp) Apply(score float64) float64 {
	switch op.Operator {
	case ">":
		if score > op.Threshold {
			return 1
		}
	case "<":
		if score < op.Threshold {
			return 1
		}
	}
	return 0
}

func (op ThresholdOp) String() string {
	return fmt.Sprintf("[%s%s]", op.Operator, FormatThreshold(op.Threshold))
}

// FormatThreshold renders a threshold so that parsing it back recovers the
// identical float64, including the ±Inf anchors JSON cannot carry natively.
func FormatThreshold(t float64) string {
	return strconv.FormatFloat(t, 'g', -1, 64)
}

// ParseThreshold is the inverse of FormatThreshold.
func ParseThreshold(s string) (float64, error) {
	t, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid threshold %q: %v", s, err)
	}
	return t, nil
}

// thresholdOpJSON is the wire form of a ThresholdOp. The threshold is
// carried as a string because JSON has no encoding for ±Inf.
type thresholdOpJSON struct {
	Operator  string `json:"operator"`
	Threshold string `json:"threshold"`
}

func (op ThresholdOp) MarshalJSON() ([]byte, error) {
	return json.Marshal(thresholdOpJSON{
		Operator:  op.Operator,
		Threshold: FormatThreshold(op.Threshold),
	})
}

func (op *ThresholdOp) UnmarshalJSON(data []byte) error {
	var w thresholdOpJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	t, err := ParseThreshold(w.Threshold)
	if err != nil {
		return err
	}
	op.Operator = w.Operator
	op.Threshold = t
	return nil
}
