package interp

import "math"

// degenerate is the spacing and pivot magnitude below which the spline
// system is treated as singular.
const degenerate = 1e-10

// NaturalSpline fits a natural cubic spline and samples it at n points
// (DefaultSplinePoints when n <= 0). Two points give a straight line.
// Degenerate spacing or a singular system falls back to PCHIP.
func NaturalSpline(points []Point, n int) []Point {
	out, _ := naturalSpline(points, n)
	return out
}

// naturalSpline also reports whether the PCHIP fallback was taken.
func naturalSpline(points []Point, n int) ([]Point, bool) {
	pts := prepare(points)
	n = outputCount(n, DefaultSplinePoints)
	if len(pts) < 2 {
		return pts, false
	}
	if len(pts) == 2 {
		a, b := pts[0], pts[1]
		if math.Abs(b.X-a.X) < degenerate {
			return pchip(pts, n), true
		}
		return sample(pts, n, func(x float64) float64 {
			return a.Y + (x-a.X)/(b.X-a.X)*(b.Y-a.Y)
		}), false
	}

	k := len(pts)
	h := make([]float64, k-1)
	for i := range h {
		h[i] = pts[i+1].X - pts[i].X
		if math.Abs(h[i]) < degenerate {
			return pchip(pts, n), true
		}
	}

	alpha := make([]float64, k)
	for i := 1; i < k-1; i++ {
		alpha[i] = 3/h[i]*(pts[i+1].Y-pts[i].Y) - 3/h[i-1]*(pts[i].Y-pts[i-1].Y)
	}

	l := make([]float64, k)
	mu := make([]float64, k)
	z := make([]float64, k)
	l[0] = 1
	for i := 1; i < k-1; i++ {
		l[i] = 2*(pts[i+1].X-pts[i-1].X) - h[i-1]*mu[i-1]
		if math.Abs(l[i]) < degenerate {
			return pchip(pts, n), true
		}
		mu[i] = h[i] / l[i]
		z[i] = (alpha[i] - h[i-1]*z[i-1]) / l[i]
	}

	b := make([]float64, k-1)
	c := make([]float64, k)
	d := make([]float64, k-1)
	for j := k - 2; j >= 0; j-- {
		c[j] = z[j] - mu[j]*c[j+1]
		b[j] = (pts[j+1].Y-pts[j].Y)/h[j] - h[j]*(c[j+1]+2*c[j])/3
		d[j] = (c[j+1] - c[j]) / (3 * h[j])
		if !finite(b[j]) || !finite(c[j]) || !finite(d[j]) {
			return pchip(pts, n), true
		}
	}

	return sample(pts, n, func(x float64) float64 {
		if x >= pts[k-1].X {
			return pts[k-1].Y
		}
		j := segment(pts, x)
		dx := x - pts[j].X
		return pts[j].Y + b[j]*dx + c[j]*dx*dx + d[j]*dx*dx*dx
	}), false
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
