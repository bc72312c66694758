package interp

import "math"

// maxTau2 bounds alpha²+beta² for the Fritsch-Carlson limiter.
const maxTau2 = 9.0

// PCHIP fits a piecewise cubic Hermite interpolant with Fritsch-Carlson
// slopes and samples it at n points (DefaultPCHIPPoints when n <= 0).
// Monotone input yields monotone output.
func PCHIP(points []Point, n int) []Point {
	pts := prepare(points)
	if len(pts) < 2 {
		return pts
	}
	return pchip(pts, outputCount(n, DefaultPCHIPPoints))
}

// pchip works on already prepared points.
func pchip(pts []Point, n int) []Point {
	slopes := pchipSlopes(pts)
	return sample(pts, n, func(x float64) float64 {
		return hermiteAt(pts, slopes, x)
	})
}

func pchipSlopes(pts []Point) []float64 {
	n := len(pts)
	h := make([]float64, n-1)
	delta := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		h[i] = pts[i+1].X - pts[i].X
		if h[i] != 0 {
			delta[i] = (pts[i+1].Y - pts[i].Y) / h[i]
		}
	}

	m := make([]float64, n)
	m[0] = delta[0]
	m[n-1] = delta[n-2]
	for i := 1; i < n-1; i++ {
		d0, d1 := delta[i-1], delta[i]
		if d0*d1 <= 0 {
			continue
		}
		w0 := 2*h[i] + h[i-1]
		w1 := h[i] + 2*h[i-1]
		m[i] = (w0 + w1) / (w0/d0 + w1/d1)
	}

	for i := 0; i < n-1; i++ {
		d := delta[i]
		if d == 0 {
			m[i] = 0
			m[i+1] = 0
			continue
		}
		alpha := m[i] / d
		beta := m[i+1] / d
		if s := alpha*alpha + beta*beta; s > maxTau2 {
			tau := 3 / math.Sqrt(s)
			m[i] = tau * alpha * d
			m[i+1] = tau * beta * d
		}
	}
	return m
}

// hermiteAt evaluates the cubic Hermite interpolant with the given knot
// slopes. Outside the data range it returns the nearest endpoint value.
func hermiteAt(pts []Point, slopes []float64, x float64) float64 {
	n := len(pts)
	if x <= pts[0].X {
		return pts[0].Y
	}
	if x >= pts[n-1].X {
		return pts[n-1].Y
	}

	i := segment(pts, x)
	h := pts[i+1].X - pts[i].X
	if h <= 0 {
		return pts[i].Y
	}
	t := (x - pts[i].X) / h
	t2 := t * t
	t3 := t2 * t

	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2

	return h00*pts[i].Y + h10*h*slopes[i] + h01*pts[i+1].Y + h11*h*slopes[i+1]
}
