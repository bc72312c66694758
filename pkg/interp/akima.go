package interp

import "math"

// AkimaMinPoints is the smallest input Akima handles itself; below it the
// fit is delegated to PCHIP.
const AkimaMinPoints = 5

// Akima fits an Akima spline and samples it at n points
// (DefaultAkimaPoints when n <= 0). Inputs below AkimaMinPoints or with
// repeated x values are fitted with PCHIP instead.
func Akima(points []Point, n int) []Point {
	pts := prepare(points)
	n = outputCount(n, DefaultAkimaPoints)
	if len(pts) < 2 {
		return pts
	}
	if !akimaUsable(pts) {
		return pchip(pts, n)
	}
	tangents := akimaTangents(pts)
	return sample(pts, n, func(x float64) float64 {
		return akimaAt(pts, tangents, x)
	})
}

// akimaUsable reports whether prepared points have enough samples and
// distinct x values for Akima secants.
func akimaUsable(pts []Point) bool {
	if len(pts) < AkimaMinPoints {
		return false
	}
	for i := 0; i < len(pts)-1; i++ {
		if pts[i+1].X-pts[i].X < degenerate {
			return false
		}
	}
	return true
}

func akimaTangents(pts []Point) []float64 {
	n := len(pts)
	secants := make([]float64, n-1)
	for i := range secants {
		secants[i] = (pts[i+1].Y - pts[i].Y) / (pts[i+1].X - pts[i].X)
	}

	// Two synthetic secants on each side, extrapolated linearly.
	ext := make([]float64, 0, n+3)
	first := 2*secants[0] - secants[1]
	ext = append(ext, 2*first-secants[0], first)
	ext = append(ext, secants...)
	last := 2*secants[n-2] - secants[n-3]
	ext = append(ext, last, 2*last-secants[n-2])

	tangents := make([]float64, n)
	for i := 0; i < n; i++ {
		m1, m2, m3, m4 := ext[i], ext[i+1], ext[i+2], ext[i+3]
		w1 := math.Abs(m4 - m3)
		w2 := math.Abs(m2 - m1)
		if w1+w2 == 0 {
			tangents[i] = (m2 + m3) / 2
		} else {
			tangents[i] = (w1*m2 + w2*m3) / (w1 + w2)
		}
	}
	return tangents
}

func akimaAt(pts []Point, tangents []float64, x float64) float64 {
	n := len(pts)
	if x <= pts[0].X {
		return pts[0].Y
	}
	if x >= pts[n-1].X {
		return pts[n-1].Y
	}

	i := segment(pts, x)
	x0, y0 := pts[i].X, pts[i].Y
	y1 := pts[i+1].Y
	m0, m1 := tangents[i], tangents[i+1]
	h := pts[i+1].X - x0
	if h <= 0 {
		return y0
	}

	c := (3*(y1-y0)/h - 2*m0 - m1) / h
	d := (m0 + m1 - 2*(y1-y0)/h) / (h * h)
	dx := x - x0
	return y0 + m0*dx + c*dx*dx + d*dx*dx*dx
}
