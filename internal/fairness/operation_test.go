package fairness

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/parity-tools/fairadjust/internal/testutil"
)

func TestThresholdOpApply(t *testing.T) {
	cases := []struct {
		name  string
		op    ThresholdOp
		score float64
		want  float64
	}{
		{"greater above", ThresholdOp{">", 0.5}, 0.6, 1},
		{"greater at threshold", ThresholdOp{">", 0.5}, 0.5, 0},
		{"greater below", ThresholdOp{">", 0.5}, 0.4, 0},
		{"less below", ThresholdOp{"<", 2.5}, 2.4, 1},
		{"less at threshold", ThresholdOp{"<", 2.5}, 2.5, 0},
		{"less above", ThresholdOp{"<", 2.5}, 2.6, 0},
		{"never anchor", ThresholdOp{">", math.Inf(1)}, 1e300, 0},
		{"always anchor", ThresholdOp{"<", math.Inf(1)}, 1e300, 1},
		{"negative score", ThresholdOp{">", -1}, -0.5, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.op.Apply(tc.score); got != tc.want {
				t.Errorf("Apply(%v) = %v, want %v", tc.score, got, tc.want)
			}
		})
	}
}

func TestThresholdRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 0.5, -2.75, 1e-17, math.Inf(1), math.Inf(-1), 1.0 / 3.0} {
		s := FormatThreshold(v)
		got, err := ParseThreshold(s)
		testutil.AssertNoError(t, err)
		if got != v {
			t.Errorf("round trip of %v via %q gave %v", v, s, got)
		}
	}
}

func TestParseThresholdInvalid(t *testing.T) {
	if _, err := ParseThreshold("not-a-number"); err == nil {
		t.Fatal("expected error for malformed threshold")
	}
}

func TestThresholdOpJSON(t *testing.T) {
	op := ThresholdOp{">", math.Inf(1)}
	data, err := json.Marshal(op)
	testutil.AssertNoError(t, err)
	if string(data) != `{"operator":">","threshold":"+Inf"}` {
		t.Errorf("unexpected wire form %s", data)
	}

	var back ThresholdOp
	testutil.AssertNoError(t, json.Unmarshal(data, &back))
	if back != op {
		t.Errorf("round trip gave %+v, want %+v", back, op)
	}
}

func TestThresholdOpString(t *testing.T) {
	if got := (ThresholdOp{">", 2.5}).String(); got != "[>2.5]" {
		t.Errorf("String() = %q", got)
	}
}
