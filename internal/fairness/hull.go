package fairness

// ConvexHull reduces a group's ROC points to the upper-left frontier of
// non-dominated operating points via a monotone-chain sweep. Points arrive
// sorted by (x, y) ascending; a retained point is dropped whenever it lies
// on or below the chord between its neighbours, so the result is concave
// with non-increasing slope from (0,0) to (1,1).
//
// A leading vertical edge (two vertices sharing an x) survives the sweep.
// That keeps the (0,0) anchor reachable for selection-rate interpolation
// even when a positive true-positive rate is achievable at zero false
// positives; value-at-x lookups resolve the duplicate to the higher vertex.
func ConvexHull(points []ROCPoint) []ROCPoint {
	hull := make([]ROCPoint, 0, len(points))
	for _, r2 := range points {
		for len(hull) >= 2 {
			r0, r1 := hull[len(hull)-2], hull[len(hull)-1]
			cross := (r1.X-r0.X)*(r2.Y-r0.Y) - (r1.Y-r0.Y)*(r2.X-r0.X)
			if cross >= 0 {
				hull = hull[:len(hull)-1]
			} else {
				break
			}
		}
		hull = append(hull, r2)
	}
	return hull
}

// bracket locates the two consecutive entries of a non-decreasing sequence
// that enclose target, returning the lower index and the convex-combination
// weights (p0, p1) realizing target between them. A target equal to an
// interior vertex yields p0=1, p1=0; a zero-length segment guards to p1=0.
func bracket(vals []float64, target float64) (int, float64, float64) {
	j := 0
	for k := range vals {
		if vals[k] <= target {
			j = k
		}
	}
	if j > len(vals)-2 {
		j = len(vals) - 2
	}
	span := vals[j+1] - vals[j]
	p1 := 0.0
	if span != 0 {
		p1 = (target - vals[j]) / span
	}
	return j, 1 - p1, p1
}

// hullXs extracts the x-coordinates of a hull.
func hullXs(hull []ROCPoint) []float64 {
	xs := make([]float64, len(hull))
	for i, p := range hull {
		xs[i] = p.X
	}
	return xs
}

// hullYAt interpolates the hull's achievable true-positive rate at the
// given false-positive rate. Duplicated x resolves to the maximum y.
func hullYAt(hull []ROCPoint, x float64) float64 {
	j, p0, p1 := bracket(hullXs(hull), x)
	return p0*hull[j].Y + p1*hull[j+1].Y
}
