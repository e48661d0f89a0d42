package fairness

// GroupRule is the fitted randomized decision rule for one group value:
// a convex combination of the two hull-vertex thresholding operations
// bracketing the group's realized operating point, optionally mixed with a
// constant prediction. Rules are immutable once produced by a fit.
type GroupRule struct {
	X0  float64     `json:"x0"`
	Y0  float64     `json:"y0"`
	Op0 ThresholdOp `json:"op0"`

	X1  float64     `json:"x1"`
	Y1  float64     `json:"y1"`
	Op1 ThresholdOp `json:"op1"`

	// P0 + P1 = 1 weight the two bracketing operations.
	P0 float64 `json:"p0"`
	P1 float64 `json:"p1"`

	// PIgnore redirects probability mass to PredictionConstant. It is
	// non-zero only under equalized odds, where it pulls a group's point
	// off its own hull down to the shared cross-group target.
	PIgnore            float64 `json:"p_ignore"`
	PredictionConstant float64 `json:"prediction_constant"`
}

// Probability returns the probability of a positive prediction for a score
// under this rule:
//
//	p_ignore·prediction_constant + (1-p_ignore)·(p0·op0(score) + p1·op1(score))
func (r GroupRule) Probability(score float64) float64 {
	base := r.P0*r.Op0.Apply(score) + r.P1*r.Op1.Apply(score)
	return r.PIgnore*r.PredictionConstant + (1-r.PIgnore)*base
}

// newGroupRule assembles a rule from the bracketing hull vertices.
func newGroupRule(v0, v1 ROCPoint, p0, p1, pIgnore, constant float64) GroupRule {
	return GroupRule{
		X0: v0.X, Y0: v0.Y, Op0: v0.Op,
		X1: v1.X, Y1: v1.Y, Op1: v1.Op,
		P0: p0, P1: p1,
		PIgnore:            pIgnore,
		PredictionConstant: constant,
	}
}
