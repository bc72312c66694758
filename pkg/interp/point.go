// Package interp turns sparse (x, y) samples into dense curves.
//
// Every kernel filters out non-finite samples, sorts by x, samples the fitted
// function at evenly spaced x positions across the data range and clamps the
// result to the y envelope of the input.
package interp

import (
	"math"
	"sort"
)

// Point is a single sample.
type Point struct {
	X, Y float64
}

// Default output sizes per kernel.
const (
	DefaultPCHIPPoints      = 100
	DefaultAkimaPoints      = 100
	DefaultSplinePoints     = 200
	DefaultCatmullRomPoints = 150
)

// valid reports whether both coordinates are finite.
func (p Point) valid() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// prepare returns a sorted copy of the finite points.
func prepare(points []Point) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if p.valid() {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].X < out[j].X })
	return out
}

func outputCount(n, def int) int {
	if n <= 0 {
		return def
	}
	if n == 1 {
		return 2
	}
	return n
}

// yRange returns the min and max y of a non-empty point set.
func yRange(points []Point) (float64, float64) {
	lo, hi := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		lo = math.Min(lo, p.Y)
		hi = math.Max(hi, p.Y)
	}
	return lo, hi
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// sample evaluates f at n evenly spaced x positions across the span of the
// sorted points. The last position is pinned to the maximum x so rounding
// never moves the final sample off the data.
func sample(points []Point, n int, f func(x float64) float64) []Point {
	xMin := points[0].X
	xMax := points[len(points)-1].X
	step := (xMax - xMin) / float64(n-1)
	lo, hi := yRange(points)

	out := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		x := xMin + float64(i)*step
		if i == n-1 {
			x = xMax
		}
		y := f(x)
		if math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		out = append(out, Point{X: x, Y: clamp(y, lo, hi)})
	}
	return out
}

// segment returns the index i of the segment [points[i], points[i+1]]
// containing x. x must lie strictly inside the data range.
func segment(points []Point, x float64) int {
	i := 0
	for i < len(points)-2 && x > points[i+1].X {
		i++
	}
	return i
}
