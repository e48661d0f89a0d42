package fairness

import (
	"math"
	"sort"
)

// ROCPoint is an achievable (false-positive-rate, true-positive-rate) pair
// for one group, together with the thresholding operation that achieves it.
type ROCPoint struct {
	X  float64 // false positive rate
	Y  float64 // true positive rate
	Op ThresholdOp
}

// BuildROC computes the ordered set of ROC points achievable by thresholding
// the given scores at every distinct value. Thresholds sit at the midpoint
// between adjacent distinct scores. Points below the diagonal are flipped to
// (1-x, 1-y) with the inverse "<" operation, so the returned set always lies
// on or above the diagonal. The (0,0) and (1,1) anchors are always present.
//
// A degenerate group (no positives or no negatives) yields the two anchors
// only; its hull collapses to the diagonal and it never constrains a fit.
func BuildROC(scores []float64, labels []int) []ROCPoint {
	n := len(scores)
	nPos := 0
	for _, l := range labels {
		if l == 1 {
			nPos++
		}
	}
	nNeg := n - nPos

	pts := []ROCPoint{{X: 0, Y: 0, Op: ThresholdOp{">", math.Inf(1)}}}
	if nPos == 0 || nNeg == 0 {
		return append(pts, ROCPoint{X: 1, Y: 1, Op: ThresholdOp{"<", math.Inf(1)}})
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	var count0, count1 int
	for i := 0; i < n; {
		threshold := scores[order[i]]
		for i < n && scores[order[i]] == threshold {
			if labels[order[i]] == 1 {
				count1++
			} else {
				count0++
			}
			i++
		}
		next := math.Inf(-1)
		if i < n {
			next = scores[order[i]]
		}

		x := float64(count0) / float64(nNeg)
		y := float64(count1) / float64(nPos)
		op := ThresholdOp{">", (threshold + next) / 2}
		if x > y {
			// Below the diagonal: the inverted rule dominates.
			x, y = 1-x, 1-y
			op.Operator = "<"
		}
		pts = append(pts, ROCPoint{X: x, Y: y, Op: op})
	}
	pts = append(pts, ROCPoint{X: 1, Y: 1, Op: ThresholdOp{"<", math.Inf(1)}})

	sort.SliceStable(pts, func(a, b int) bool {
		if pts[a].X != pts[b].X {
			return pts[a].X < pts[b].X
		}
		return pts[a].Y < pts[b].Y
	})
	return pts
}
