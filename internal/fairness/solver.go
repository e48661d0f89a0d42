package fairness

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// solverTolerance guards the strict-improvement comparison during the
// candidate scan. The objective is piecewise linear and can be exactly flat
// across a candidate interval; without the tolerance, last-bit rounding in
// the candidate evaluation would decide which end of a flat region wins.
// With it, ties resolve to the first (lowest) candidate.
const solverTolerance = 1e-12

// Calibration holds one group's labeled scores from the calibration sample.
type Calibration struct {
	Scores []float64
	Labels []int
}

// OperatingPoint is a target (FPR, TPR) pair on or below a group's hull.
type OperatingPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Solution describes the solved fairness-constrained operating point and the
// per-group geometry that produced it, for logging and visualization.
type Solution struct {
	Criterion Criterion

	// SelectionRate is the shared positive-prediction rate (demographic
	// parity only).
	SelectionRate float64

	// FPR/TPR are the shared conditional rates (equalized odds only).
	FPR float64
	TPR float64

	Hulls    map[string][]ROCPoint
	Realized map[string]OperatingPoint
}

// groupGeometry is a group's hull plus the sample shares the solvers weight
// accuracy by.
type groupGeometry struct {
	name   string
	hull   []ROCPoint
	weight float64 // group share of the calibration sample
	pPos   float64 // positive share within the group
	pNeg   float64 // negative share within the group

	// Demographic parity coordinates per hull vertex.
	selection []float64
	errRate   []float64
}

// buildGeometry computes each group's hull and weighting in sorted group
// order, which fixes the reduction order for reproducible tie-breaking.
func buildGeometry(groups map[string]Calibration) []groupGeometry {
	names := make([]string, 0, len(groups))
	total := 0
	for name, g := range groups {
		names = append(names, name)
		total += len(g.Scores)
	}
	sort.Strings(names)

	geo := make([]groupGeometry, 0, len(names))
	for _, name := range names {
		g := groups[name]
		n := len(g.Scores)
		nPos := 0
		for _, l := range g.Labels {
			if l == 1 {
				nPos++
			}
		}
		gg := groupGeometry{
			name:   name,
			hull:   ConvexHull(BuildROC(g.Scores, g.Labels)),
			weight: float64(n) / float64(total),
			pPos:   float64(nPos) / float64(n),
			pNeg:   float64(n-nPos) / float64(n),
		}
		gg.selection = make([]float64, len(gg.hull))
		gg.errRate = make([]float64, len(gg.hull))
		for i, p := range gg.hull {
			gg.selection[i] = gg.pNeg*p.X + gg.pPos*p.Y
			gg.errRate[i] = gg.pNeg*p.X + gg.pPos*(1-p.Y)
		}
		geo = append(geo, gg)
	}
	return geo
}

// SolveDemographicParity finds the shared positive-prediction rate that
// minimizes the population-weighted error over the union of hull-vertex
// selection rates, then derives each group's mixing rule realizing that rate
// exactly. Ties along flat stretches of the objective resolve to the lowest
// rate.
func SolveDemographicParity(groups map[string]Calibration) (map[string]GroupRule, Solution) {
	geo := buildGeometry(groups)

	var candidates []float64
	for _, g := range geo {
		candidates = append(candidates, g.selection...)
	}
	sort.Float64s(candidates)

	bestRate := 0.0
	bestErr := 0.0
	contrib := make([]float64, len(geo))
	for i, c := range candidates {
		for k, g := range geo {
			j, p0, p1 := bracket(g.selection, c)
			contrib[k] = g.weight * (p0*g.errRate[j] + p1*g.errRate[j+1])
		}
		total := floats.Sum(contrib)
		if i == 0 || total < bestErr-solverTolerance {
			bestErr = total
			bestRate = c
		}
	}

	rules := make(map[string]GroupRule, len(geo))
	sol := Solution{
		Criterion:     DemographicParity,
		SelectionRate: bestRate,
		Hulls:         make(map[string][]ROCPoint, len(geo)),
		Realized:      make(map[string]OperatingPoint, len(geo)),
	}
	for _, g := range geo {
		j, p0, p1 := bracket(g.selection, bestRate)
		v0, v1 := g.hull[j], g.hull[j+1]
		rules[g.name] = newGroupRule(v0, v1, p0, p1, 0, 0)
		sol.Hulls[g.name] = g.hull
		sol.Realized[g.name] = OperatingPoint{
			X: p0*v0.X + p1*v1.X,
			Y: p0*v0.Y + p1*v1.Y,
		}
	}
	return rules, sol
}

// SolveEqualizedOdds finds the (FPR, TPR) point shared by every group's
// feasible region that minimizes overall weighted error. Candidate FPRs are
// the union of hull-vertex x-coordinates and all pairwise hull-segment
// intersections; at each candidate the shared TPR is the minimum over the
// groups' hulls. Groups whose hull passes above the solved point mix toward
// the constant prediction with the exact p_ignore weight that lands their
// realized rates on the target.
func SolveEqualizedOdds(groups map[string]Calibration) (map[string]GroupRule, Solution) {
	geo := buildGeometry(groups)

	n := 0
	nPos := 0
	for _, g := range groups {
		n += len(g.Labels)
		for _, l := range g.Labels {
			if l == 1 {
				nPos++
			}
		}
	}
	pPos := float64(nPos) / float64(n)
	pNeg := float64(n-nPos) / float64(n)

	candidates := eoCandidates(geo)

	bestX, bestY, bestErr := 0.0, 0.0, 0.0
	for i, c := range candidates {
		yMin := 1.0
		for k, g := range geo {
			y := hullYAt(g.hull, c)
			if k == 0 || y < yMin {
				yMin = y
			}
		}
		total := pNeg*c + pPos*(1-yMin)
		if i == 0 || total < bestErr-solverTolerance {
			bestErr = total
			bestX = c
			bestY = yMin
		}
	}

	rules := make(map[string]GroupRule, len(geo))
	sol := Solution{
		Criterion: EqualizedOdds,
		FPR:       bestX,
		TPR:       bestY,
		Hulls:     make(map[string][]ROCPoint, len(geo)),
		Realized:  make(map[string]OperatingPoint, len(geo)),
	}
	for _, g := range geo {
		j, p0, p1 := bracket(hullXs(g.hull), bestX)
		v0, v1 := g.hull[j], g.hull[j+1]
		yGroup := p0*v0.Y + p1*v1.Y

		// p_ignore pulls the group's frontier point down to the shared
		// target. A group already on the diagonal (or exactly on the
		// target) needs no adjustment.
		pIgnore := 0.0
		if yGroup != bestX {
			pIgnore = (yGroup - bestY) / (yGroup - bestX)
		}
		rules[g.name] = newGroupRule(v0, v1, p0, p1, pIgnore, bestX)
		sol.Hulls[g.name] = g.hull
		sol.Realized[g.name] = OperatingPoint{X: bestX, Y: bestY}
	}
	return rules, sol
}

// eoCandidates collects the sorted, deduplicated set of candidate shared
// false-positive rates: every hull vertex x plus every pairwise
// intersection between two groups' hull segments. Any optimum of the
// piecewise-linear program lies at one of these.
func eoCandidates(geo []groupGeometry) []float64 {
	var xs []float64
	for _, g := range geo {
		xs = append(xs, hullXs(g.hull)...)
	}
	for i := 0; i < len(geo); i++ {
		for k := i + 1; k < len(geo); k++ {
			xs = append(xs, segmentIntersections(geo[i].hull, geo[k].hull)...)
		}
	}
	sort.Float64s(xs)

	dedup := xs[:0]
	for i, x := range xs {
		if i == 0 || x != dedup[len(dedup)-1] {
			dedup = append(dedup, x)
		}
	}
	return dedup
}

// segmentIntersections returns the x-coordinates where segments of hull a
// cross segments of hull b within both segments' spans. Vertical segments
// (the leading anchor edge) carry no interior crossing of their own.
func segmentIntersections(a, b []ROCPoint) []float64 {
	var xs []float64
	for i := 0; i+1 < len(a); i++ {
		a0, a1 := a[i], a[i+1]
		if a1.X == a0.X {
			continue
		}
		ma := (a1.Y - a0.Y) / (a1.X - a0.X)
		ba := a0.Y - ma*a0.X
		for k := 0; k+1 < len(b); k++ {
			b0, b1 := b[k], b[k+1]
			if b1.X == b0.X {
				continue
			}
			mb := (b1.Y - b0.Y) / (b1.X - b0.X)
			bb := b0.Y - mb*b0.X
			if ma == mb {
				continue
			}
			x := (bb - ba) / (ma - mb)
			if x >= a0.X && x <= a1.X && x >= b0.X && x <= b1.X && x >= 0 && x <= 1 {
				xs = append(xs, x)
			}
		}
	}
	return xs
}
