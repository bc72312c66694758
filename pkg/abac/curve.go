package abac

import "math"

const (
	// matchTolerance is the distance under which a lookup snaps to a sample.
	matchTolerance = 1e-4
	// extrapolationFraction of the x-range a lookup may extend past the data.
	extrapolationFraction = 0.1
)

// YAt reads y at x on the fitted points by linear interpolation. Within 10%
// of the fitted x-range beyond either end, the end segment is extended
// linearly. It reports false when the curve has no usable fit or x is
// further out.
func (c *Curve) YAt(x float64) (float64, bool) {
	if c.Fitted == nil || len(c.Fitted.Points) < 2 {
		return 0, false
	}
	pts := c.Fitted.Points
	n := len(pts)
	first, last := pts[0], pts[n-1]

	if x < first.X || x > last.X {
		margin := (last.X - first.X) * extrapolationFraction
		if x < first.X && x >= first.X-margin {
			return extend(pts[0], pts[1], x)
		}
		if x > last.X && x <= last.X+margin {
			return extend(pts[n-2], pts[n-1], x)
		}
		return 0, false
	}

	i := 0
	for i < n-1 && pts[i+1].X < x {
		i++
	}
	if math.Abs(pts[i].X-x) < matchTolerance {
		return pts[i].Y, true
	}
	if i == n-1 {
		return last.Y, true
	}
	if math.Abs(pts[i+1].X-x) < matchTolerance {
		return pts[i+1].Y, true
	}
	return lerp(pts[i], pts[i+1], x), true
}

// XAt returns the smallest x at which the fitted curve crosses y, or false
// when y is outside the fitted y-range.
func (c *Curve) XAt(y float64) (float64, bool) {
	if c.Fitted == nil || len(c.Fitted.Points) < 2 {
		return 0, false
	}
	pts := c.Fitted.Points
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	if y < minY || y > maxY {
		return 0, false
	}

	found := false
	best := 0.0
	for i := 0; i < len(pts)-1; i++ {
		y1, y2 := pts[i].Y, pts[i+1].Y
		if !((y >= y1 && y <= y2) || (y >= y2 && y <= y1)) {
			continue
		}
		var x float64
		switch {
		case math.Abs(y1-y) < matchTolerance:
			x = pts[i].X
		case math.Abs(y2-y) < matchTolerance:
			x = pts[i+1].X
		case math.Abs(y2-y1) < matchTolerance:
			x = (pts[i].X + pts[i+1].X) / 2
		default:
			x = pts[i].X + (y-y1)/(y2-y1)*(pts[i+1].X-pts[i].X)
		}
		if !found || x < best {
			best = x
			found = true
		}
	}
	return best, found
}

// XRange returns the fitted x-range.
func (c *Curve) XRange() (float64, float64, bool) {
	if !c.HasFit() {
		return 0, 0, false
	}
	pts := c.Fitted.Points
	return pts[0].X, pts[len(pts)-1].X, true
}

// Extrapolate extends the first or last fitted segment to x without the
// 10% limit YAt applies. Inside the fitted range it behaves like YAt.
func (c *Curve) Extrapolate(x float64) (float64, bool) {
	if c.Fitted == nil || len(c.Fitted.Points) < 2 {
		return 0, false
	}
	pts := c.Fitted.Points
	n := len(pts)
	switch {
	case x < pts[0].X:
		return extend(pts[0], pts[1], x)
	case x > pts[n-1].X:
		return extend(pts[n-2], pts[n-1], x)
	}
	return c.YAt(x)
}

func extend(a, b Point, x float64) (float64, bool) {
	if b.X == a.X {
		return 0, false
	}
	slope := (b.Y - a.Y) / (b.X - a.X)
	return a.Y + slope*(x-a.X), true
}

func lerp(a, b Point, x float64) float64 {
	if b.X == a.X {
		return a.Y
	}
	return a.Y + (x-a.X)/(b.X-a.X)*(b.Y-a.Y)
}

// valueAt is the strict lookup used when blending two curves: exact sample
// match, else linear interpolation inside the data, else false.
func valueAt(points []Point, x float64) (float64, bool) {
	for _, p := range points {
		if math.Abs(p.X-x) < matchTolerance {
			return p.Y, true
		}
	}
	for i := 0; i < len(points)-1; i++ {
		if x >= points[i].X && x <= points[i+1].X {
			return lerp(points[i], points[i+1], x), true
		}
	}
	return 0, false
}
