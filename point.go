package rast

// point is an integer screen space coordinate.
type point [2]int

func minPoint(a, b point) point {
	return point{min(a[0], b[0]), min(a[1], b[1])}
}

func maxPoint(a, b point) point {
	return point{max(a[0], b[0]), max(a[1], b[1])}
}

// clamp clamps each component of p to [lo,hi].
func (p point) clamp(lo, hi point) point {
	return minPoint(maxPoint(p, lo), hi)
}

// edgeFunction returns the signed area of the parallelogram spanned by
// b-a and c-a. Its sign tells on which side of the line ab point c lies.
func edgeFunction(a, b, c point) int {
	return (c[0]-a[0])*(b[1]-a[1]) - (c[1]-a[1])*(b[0]-a[0])
}
