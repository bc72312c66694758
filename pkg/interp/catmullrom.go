// Catmull-Rom fitting through the samples themselves.
// Each segment is converted to a cubic Bézier and sampled uniformly in t.

package interp

import (
	"math"
	"sort"
)

// DefaultTension is the classic Catmull-Rom tension.
const DefaultTension = 0.5

// dedupeX is the x distance under which consecutive output samples collapse.
const dedupeX = 0.001

// CatmullRom fits a Catmull-Rom spline with the given tension (DefaultTension
// when tension <= 0) and returns at most n points (DefaultCatmullRomPoints
// when n <= 0). Phantom points mirrored off the first and last segments
// define the end tangents.
func CatmullRom(points []Point, n int, tension float64) []Point {
	pts := prepare(points)
	if len(pts) < 2 {
		return pts
	}
	n = outputCount(n, DefaultCatmullRomPoints)
	if tension <= 0 {
		tension = DefaultTension
	}

	k := len(pts)
	waypoints := make([]Point, 0, k+2)
	waypoints = append(waypoints, Point{
		X: 2*pts[0].X - pts[1].X,
		Y: 2*pts[0].Y - pts[1].Y,
	})
	waypoints = append(waypoints, pts...)
	waypoints = append(waypoints, Point{
		X: 2*pts[k-1].X - pts[k-2].X,
		Y: 2*pts[k-1].Y - pts[k-2].Y,
	})

	// Leave room for the final sample so truncation never drops it.
	perSegment := maxInt(1, (n-1)/(k-1))
	xMin, xMax := pts[0].X, pts[k-1].X
	lo, hi := yRange(pts)

	raw := make([]Point, 0, (k-1)*perSegment+1)
	for i := 1; i < len(waypoints)-2; i++ {
		bez := catmullRomToBezier(waypoints[i-1], waypoints[i], waypoints[i+1], waypoints[i+2], tension)
		for s := 0; s < perSegment; s++ {
			p := EvaluateBezier(bez, float64(s)/float64(perSegment))
			if !p.valid() {
				continue
			}
			p.X = clamp(p.X, xMin, xMax)
			p.Y = clamp(p.Y, lo, hi)
			raw = append(raw, p)
		}
	}
	raw = append(raw, pts[k-1])

	out := make([]Point, 0, len(raw))
	for i, p := range raw {
		if i > 0 && math.Abs(p.X-raw[i-1].X) <= dedupeX {
			if i == len(raw)-1 && len(out) > 0 {
				out[len(out)-1] = p
			}
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].X < out[j].X })
	if len(out) > n {
		// Keep the last data point.
		out = append(out[:n-1], out[len(out)-1])
	}
	return out
}

// catmullRomToBezier converts the segment p1..p2 of a Catmull-Rom spline into
// the four control points of the equivalent cubic Bézier. The tangent at p1
// is tension*(p2-p0); a Bézier handle sits a third of the tangent away.
func catmullRomToBezier(p0, p1, p2, p3 Point, tension float64) [4]Point {
	return [4]Point{
		p1,
		{X: p1.X + tension*(p2.X-p0.X)/3, Y: p1.Y + tension*(p2.Y-p0.Y)/3},
		{X: p2.X - tension*(p3.X-p1.X)/3, Y: p2.Y - tension*(p3.Y-p1.Y)/3},
		p2,
	}
}

// EvaluateBezier evaluates a cubic Bézier segment at parameter t in [0,1].
func EvaluateBezier(ctrl [4]Point, t float64) Point {
	mt := 1 - t
	mt2 := mt * mt
	t2 := t * t
	a := mt2 * mt
	b := 3 * mt2 * t
	c := 3 * mt * t2
	d := t2 * t
	return Point{
		X: a*ctrl[0].X + b*ctrl[1].X + c*ctrl[2].X + d*ctrl[3].X,
		Y: a*ctrl[0].Y + b*ctrl[1].Y + c*ctrl[2].Y + d*ctrl[3].Y,
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
