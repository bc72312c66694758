package abac

import "math"

// Limits is a bounding box for axes.
type Limits struct {
	XMin, XMax, YMin, YMax float64
}

// DefaultAxisMargin is the margin AutoLimits adds on each side, in axis units.
const DefaultAxisMargin = 5.0

// AutoLimits returns integer limits enclosing points with margin units on
// every side. A zero-width dimension is widened by 50 each way, and no points
// give 0..100 on both axes.
func AutoLimits(points []Point, margin float64) Limits {
	if len(points) == 0 {
		return Limits{0, 100, 0, 100}
	}
	l := Limits{points[0].X, points[0].X, points[0].Y, points[0].Y}
	for _, p := range points[1:] {
		l.XMin = math.Min(l.XMin, p.X)
		l.XMax = math.Max(l.XMax, p.X)
		l.YMin = math.Min(l.YMin, p.Y)
		l.YMax = math.Max(l.YMax, p.Y)
	}
	l.XMin, l.XMax = widen(l.XMin, l.XMax, margin)
	l.YMin, l.YMax = widen(l.YMin, l.YMax, margin)
	return Limits{math.Floor(l.XMin), math.Ceil(l.XMax), math.Floor(l.YMin), math.Ceil(l.YMax)}
}

func widen(lo, hi, margin float64) (float64, float64) {
	if hi == lo {
		return lo - 50, hi + 50
	}
	return lo - margin, hi + margin
}

// GraphAutoLimits computes AutoLimits over the raw and fitted points of every
// curve in g.
func GraphAutoLimits(g *GraphConfig) Limits {
	var all []Point
	for _, c := range g.Curves {
		all = append(all, c.Points...)
		if c.Fitted != nil {
			all = append(all, c.Fitted.Points...)
		}
	}
	return AutoLimits(all, DefaultAxisMargin)
}

// WithLimits returns a copy of a with the given ranges; titles, units and
// reversal are kept.
func (a AxesConfig) WithLimits(l Limits) AxesConfig {
	a.XAxis.Min, a.XAxis.Max = l.XMin, l.XMax
	a.YAxis.Min, a.YAxis.Max = l.YMin, l.YMax
	return a
}

// PointsOutOfBounds reports whether any point lies outside the axes by more
// than tolerance.
func PointsOutOfBounds(points []Point, axes AxesConfig, tolerance float64) bool {
	for _, p := range points {
		if p.X < axes.XAxis.Min-tolerance || p.X > axes.XAxis.Max+tolerance ||
			p.Y < axes.YAxis.Min-tolerance || p.Y > axes.YAxis.Max+tolerance {
			return true
		}
	}
	return false
}

// edgeThreshold is the fraction of an axis range that counts as "near the
// edge" for SuggestLimits.
const edgeThreshold = 0.1

// SuggestLimits proposes wider axes when some point lies within 10% of an
// axis edge. The result never shrinks the current ranges. It reports false
// when no change is needed.
func SuggestLimits(axes AxesConfig, points []Point, expand float64) (AxesConfig, bool) {
	if len(points) == 0 {
		return axes, false
	}
	xr := axes.XAxis.Max - axes.XAxis.Min
	yr := axes.YAxis.Max - axes.YAxis.Min

	near := false
	for _, p := range points {
		if p.X-axes.XAxis.Min < xr*edgeThreshold || axes.XAxis.Max-p.X < xr*edgeThreshold ||
			p.Y-axes.YAxis.Min < yr*edgeThreshold || axes.YAxis.Max-p.Y < yr*edgeThreshold {
			near = true
			break
		}
	}
	if !near {
		return axes, false
	}

	l := AutoLimits(points, expand)
	return axes.WithLimits(Limits{
		XMin: math.Min(axes.XAxis.Min, l.XMin),
		XMax: math.Max(axes.XAxis.Max, l.XMax),
		YMin: math.Min(axes.YAxis.Min, l.YMin),
		YMax: math.Max(axes.YAxis.Max, l.YMax),
	}), true
}
