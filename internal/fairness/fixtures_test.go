package fairness

import "strings"

// Two calibration fixtures with known optima. Groups, labels, and scores are
// parallel by index; the second grouping reslices the same labels and scores
// into two groups so the solver has to produce a different solution from the
// same score distribution.
var (
	fixtureGroups1 = splitChars("AAAAAAA" + "BBBBBBB" + "CCCCCC")
	fixtureGroups2 = splitChars("xxxYYYY" + "xYYYYYx" + "YYYYYY")
	fixtureLabels  = charDigits("0110100" + "0010111" + "000111")
	fixtureScores  = charFloats("0011233" + "0001111" + "011112")
)

func splitChars(s string) []string {
	return strings.Split(s, "")
}

func charDigits(s string) []int {
	out := make([]int, len(s))
	for i := range s {
		out[i] = int(s[i] - '0')
	}
	return out
}

func charFloats(s string) []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = float64(s[i] - '0')
	}
	return out
}

// groupFixture buckets parallel slices into per-group calibration data.
func groupFixture(groups []string, scores []float64, labels []int) map[string]Calibration {
	out := make(map[string]Calibration)
	for i, g := range groups {
		c := out[g]
		c.Scores = append(c.Scores, scores[i])
		c.Labels = append(c.Labels, labels[i])
		out[g] = c
	}
	return out
}

// scoresAsX wraps a score vector as single-feature rows for the optimizer.
func scoresAsX(scores []float64) [][]float64 {
	out := make([][]float64, len(scores))
	for i, s := range scores {
		out[i] = []float64{s}
	}
	return out
}

// groupMeanProbability averages a fitted rule's positive probability over
// the fixture rows of one group, optionally restricted to one label value.
func groupMeanProbability(rules map[string]GroupRule, groups []string, scores []float64, labels []int, group string, label int) float64 {
	var sum float64
	var n int
	for i, g := range groups {
		if g != group {
			continue
		}
		if label >= 0 && labels[i] != label {
			continue
		}
		sum += rules[g].Probability(scores[i])
		n++
	}
	return sum / float64(n)
}
