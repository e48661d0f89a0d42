package fairness

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/parity-tools/fairadjust/internal/testutil"
)

const solverDelta = 1e-9

func TestSolveDemographicParity_Fixture1(t *testing.T) {
	groups := groupFixture(fixtureGroups1, fixtureScores, fixtureLabels)
	rules, sol := SolveDemographicParity(groups)

	// The optimum shares selection rate 4/7 across all three groups.
	testutil.AssertInDelta(t, sol.SelectionRate, 4.0/7.0, solverDelta)

	// Group A's labels are anti-correlated with its high scores, so its
	// rule mixes "never predict" with a flipped threshold at 2.5: a high
	// probability below the threshold, zero above it.
	a := rules["A"]
	testutil.AssertInDelta(t, a.Probability(0), 0.8, solverDelta)
	testutil.AssertInDelta(t, a.Probability(2.499), 0.8, solverDelta)
	testutil.AssertInDelta(t, a.Probability(2.5), 0, solverDelta)
	testutil.AssertInDelta(t, a.Probability(100), 0, solverDelta)

	// Group B's optimum sits exactly on a hull vertex: a pure threshold.
	b := rules["B"]
	testutil.AssertInDelta(t, b.Probability(0.5), 0, solverDelta)
	testutil.AssertInDelta(t, b.Probability(0.51), 1, solverDelta)
	testutil.AssertInDelta(t, b.Probability(100), 1, solverDelta)

	// Group C interpolates between thresholds at 1.5 and 0.5.
	c := rules["C"]
	testutil.AssertInDelta(t, c.Probability(0.5), 0, solverDelta)
	testutil.AssertInDelta(t, c.Probability(0.51), 17.0/28.0, solverDelta)
	testutil.AssertInDelta(t, c.Probability(1.5), 17.0/28.0, solverDelta)
	testutil.AssertInDelta(t, c.Probability(1.51), 1, solverDelta)

	// No ignore mass under demographic parity.
	for name, r := range rules {
		if r.PIgnore != 0 {
			t.Errorf("group %s: p_ignore = %v, want 0", name, r.PIgnore)
		}
	}

	// The constraint holds exactly: every group's average positive
	// probability over its own calibration rows equals the shared rate.
	for _, g := range []string{"A", "B", "C"} {
		mean := groupMeanProbability(rules, fixtureGroups1, fixtureScores, fixtureLabels, g, -1)
		testutil.AssertInDelta(t, mean, 4.0/7.0, solverDelta)
	}
}

func TestSolveDemographicParity_Fixture2(t *testing.T) {
	groups := groupFixture(fixtureGroups2, fixtureScores, fixtureLabels)
	rules, sol := SolveDemographicParity(groups)

	// Same scores and labels, different grouping, different optimum.
	testutil.AssertInDelta(t, sol.SelectionRate, 0.4, solverDelta)

	y := rules["Y"]
	testutil.AssertInDelta(t, y.Probability(0), 6.0/13.0, solverDelta)
	testutil.AssertInDelta(t, y.Probability(2.499), 6.0/13.0, solverDelta)
	testutil.AssertInDelta(t, y.Probability(2.5), 0, solverDelta)

	x := rules["x"]
	testutil.AssertInDelta(t, x.Probability(0.5), 0, solverDelta)
	testutil.AssertInDelta(t, x.Probability(0.51), 1, solverDelta)

	for _, g := range []string{"x", "Y"} {
		mean := groupMeanProbability(rules, fixtureGroups2, fixtureScores, fixtureLabels, g, -1)
		testutil.AssertInDelta(t, mean, 0.4, solverDelta)
	}
}

func TestSolveEqualizedOdds_Fixture1(t *testing.T) {
	groups := groupFixture(fixtureGroups1, fixtureScores, fixtureLabels)
	rules, sol := SolveEqualizedOdds(groups)

	// The error objective is flat between FPR 1/3 and the B/C hull
	// intersection near 0.467; the tie resolves to the lowest candidate.
	testutil.AssertInDelta(t, sol.FPR, 1.0/3.0, solverDelta)
	testutil.AssertInDelta(t, sol.TPR, 2.0/3.0, solverDelta)

	// Groups A and C pass through the shared point on their own hulls;
	// group B's hull sits above it and needs p_ignore = 1/5 toward the
	// prediction constant.
	testutil.AssertInDelta(t, rules["A"].PIgnore, 0, solverDelta)
	testutil.AssertInDelta(t, rules["B"].PIgnore, 0.2, solverDelta)
	testutil.AssertInDelta(t, rules["C"].PIgnore, 0, solverDelta)
	testutil.AssertInDelta(t, rules["B"].PredictionConstant, 1.0/3.0, solverDelta)

	testutil.AssertInDelta(t, rules["A"].Probability(0), 2.0/3.0, solverDelta)
	testutil.AssertInDelta(t, rules["A"].Probability(2.5), 0, solverDelta)
	testutil.AssertInDelta(t, rules["B"].Probability(0.5), 1.0/15.0, solverDelta)
	testutil.AssertInDelta(t, rules["B"].Probability(0.51), 13.0/15.0, solverDelta)
	testutil.AssertInDelta(t, rules["C"].Probability(0.5), 0, solverDelta)
	testutil.AssertInDelta(t, rules["C"].Probability(1.5), 0.5, solverDelta)
	testutil.AssertInDelta(t, rules["C"].Probability(1.51), 1, solverDelta)

	// Equalized odds holds exactly within each label stratum.
	for _, g := range []string{"A", "B", "C"} {
		fpr := groupMeanProbability(rules, fixtureGroups1, fixtureScores, fixtureLabels, g, 0)
		tpr := groupMeanProbability(rules, fixtureGroups1, fixtureScores, fixtureLabels, g, 1)
		testutil.AssertInDelta(t, fpr, 1.0/3.0, solverDelta)
		testutil.AssertInDelta(t, tpr, 2.0/3.0, solverDelta)
	}
}

func TestSolveEqualizedOdds_Fixture2(t *testing.T) {
	groups := groupFixture(fixtureGroups2, fixtureScores, fixtureLabels)
	rules, sol := SolveEqualizedOdds(groups)

	// The optimum lies at the intersection of the two hulls.
	testutil.AssertInDelta(t, sol.FPR, 2.0/3.0, solverDelta)
	testutil.AssertInDelta(t, sol.TPR, 8.0/9.0, solverDelta)

	// Both hulls pass through the shared point, so no ignore mass.
	testutil.AssertInDelta(t, rules["x"].PIgnore, 0, solverDelta)
	testutil.AssertInDelta(t, rules["Y"].PIgnore, 0, solverDelta)

	testutil.AssertInDelta(t, rules["x"].Probability(0.5), 2.0/3.0, solverDelta)
	testutil.AssertInDelta(t, rules["x"].Probability(0.51), 1, solverDelta)
	testutil.AssertInDelta(t, rules["Y"].Probability(2.499), 8.0/9.0, solverDelta)
	testutil.AssertInDelta(t, rules["Y"].Probability(2.5), 0, solverDelta)

	for _, g := range []string{"x", "Y"} {
		fpr := groupMeanProbability(rules, fixtureGroups2, fixtureScores, fixtureLabels, g, 0)
		tpr := groupMeanProbability(rules, fixtureGroups2, fixtureScores, fixtureLabels, g, 1)
		testutil.AssertInDelta(t, fpr, 2.0/3.0, solverDelta)
		testutil.AssertInDelta(t, tpr, 8.0/9.0, solverDelta)
	}
}

func TestSolvers_Deterministic(t *testing.T) {
	groups := groupFixture(fixtureGroups1, fixtureScores, fixtureLabels)

	dp1, _ := SolveDemographicParity(groups)
	dp2, _ := SolveDemographicParity(groups)
	if diff := cmp.Diff(dp1, dp2); diff != "" {
		t.Errorf("demographic parity refit differs (-first +second):\n%s", diff)
	}

	eo1, _ := SolveEqualizedOdds(groups)
	eo2, _ := SolveEqualizedOdds(groups)
	if diff := cmp.Diff(eo1, eo2); diff != "" {
		t.Errorf("equalized odds refit differs (-first +second):\n%s", diff)
	}
}

func TestSolveDemographicParity_DegenerateGroup(t *testing.T) {
	// A group with only positive labels collapses to the diagonal. It must
	// not crash the fit, and its rule realizes the shared rate exactly for
	// any score.
	groups := groupFixture(fixtureGroups1, fixtureScores, fixtureLabels)
	groups["D"] = Calibration{
		Scores: []float64{1, 2, 3},
		Labels: []int{1, 1, 1},
	}

	rules, sol := SolveDemographicParity(groups)
	d := rules["D"]
	for _, score := range []float64{0, 1.5, 99} {
		testutil.AssertInDelta(t, d.Probability(score), sol.SelectionRate, solverDelta)
	}
}

func TestSolveEqualizedOdds_DegenerateGroup(t *testing.T) {
	groups := groupFixture(fixtureGroups1, fixtureScores, fixtureLabels)
	groups["D"] = Calibration{
		Scores: []float64{4, 4, 4},
		Labels: []int{0, 0, 0},
	}

	rules, sol := SolveEqualizedOdds(groups)

	// The diagonal group cannot exceed TPR = FPR, so it pins the shared
	// point to the diagonal; every other group mixes down to it.
	testutil.AssertInDelta(t, sol.TPR, sol.FPR, solverDelta)
	d := rules["D"]
	testutil.AssertInDelta(t, d.PIgnore, 0, solverDelta)
	for _, score := range []float64{0, 4, 99} {
		testutil.AssertInDelta(t, d.Probability(score), sol.FPR, solverDelta)
	}
}
