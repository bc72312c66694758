package interp

import (
	"math"
	"sort"
)

// RMSE is the root mean squared y error between each original point and the
// fitted point nearest to it in x. It is 0 when either set is empty.
func RMSE(original, fitted []Point) float64 {
	if len(original) == 0 || len(fitted) == 0 {
		return 0
	}

	var sum float64
	count := 0
	for _, p := range original {
		closest := fitted[0]
		best := math.Abs(fitted[0].X - p.X)
		for _, f := range fitted[1:] {
			if d := math.Abs(f.X - p.X); d < best {
				best = d
				closest = f
			}
		}
		e := p.Y - closest.Y
		if finite(e) {
			sum += e * e
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(count))
}

// EnforceMonotonic sorts by x and clamps each y against the previous output
// y so the sequence never decreases (or never increases).
func EnforceMonotonic(points []Point, increasing bool) []Point {
	if len(points) == 0 {
		return nil
	}
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	out := make([]Point, len(sorted))
	out[0] = sorted[0]
	for i := 1; i < len(sorted); i++ {
		y := sorted[i].Y
		if increasing {
			y = math.Max(y, out[i-1].Y)
		} else {
			y = math.Min(y, out[i-1].Y)
		}
		out[i] = Point{X: sorted[i].X, Y: y}
	}
	return out
}

// Smooth blends every interior y with the mean of its neighbours:
// factor*y + (1-factor)*mean. Endpoints are kept. Factors outside (0,1) and
// inputs shorter than three points are returned unchanged.
func Smooth(points []Point, factor float64) []Point {
	if factor <= 0 || factor >= 1 || len(points) < 3 {
		return points
	}
	out := make([]Point, len(points))
	out[0] = points[0]
	for i := 1; i < len(points)-1; i++ {
		avg := 0.5 * (points[i-1].Y + points[i+1].Y)
		out[i] = Point{X: points[i].X, Y: factor*points[i].Y + (1-factor)*avg}
	}
	out[len(points)-1] = points[len(points)-1]
	return out
}
