package abac

import (
	"fmt"
	"math"
	"sort"
)

// IntermediateSuffix marks curves synthesized between two parameter values.
const IntermediateSuffix = "(interpolé)"

// Intermediate curves are pre-fitted with PCHIP when a base curve has no fit.
const intermediateFitPoints = 100

type paramCurve struct {
	curve *Curve
	param float64
}

// GenerateIntermediateCurves synthesizes n curves between each adjacent pair
// of authored curves, ordered by parameter. A curve's parameter is its
// Parameter field, else a number parsed from its name; when no curve has
// one, curves are spaced 100 apart in insertion order. Each new curve blends
// the pair's fitted y values at ratio j/(n+1) over the x-range both share.
// It returns the new curve ids.
func (m *Manager) GenerateIntermediateCurves(n int) []string {
	if n <= 0 {
		n = 1
	}
	var base []*Curve
	for _, id := range m.order {
		if c := m.curves[id]; !c.IsIntermediate() {
			base = append(base, c)
		}
	}
	if len(base) < 2 {
		return nil
	}

	var family []paramCurve
	for _, c := range base {
		if c.Parameter != nil {
			family = append(family, paramCurve{c, *c.Parameter})
		} else if v, ok := nameParameter(c.Name); ok {
			family = append(family, paramCurve{c, v})
		}
	}
	numeric := len(family) > 0
	if numeric {
		sort.SliceStable(family, func(i, j int) bool { return family[i].param < family[j].param })
	} else {
		for i, c := range base {
			family = append(family, paramCurve{c, float64(i) * 100})
		}
	}

	var ids []string
	for i := 0; i < len(family)-1; i++ {
		lower, upper := family[i], family[i+1]
		m.ensureFitted(lower.curve)
		m.ensureFitted(upper.curve)
		if !lower.curve.HasFit() || !upper.curve.HasFit() {
			continue
		}

		for j := 1; j <= n; j++ {
			ratio := float64(j) / float64(n+1)
			points := blend(lower.curve.Fitted.Points, upper.curve.Fitted.Points, ratio)
			if len(points) == 0 {
				continue
			}

			c := Curve{
				Fitted: &FittedResult{Points: points, Method: MethodLinear},
			}
			if numeric {
				param := lower.param + ratio*(upper.param-lower.param)
				c.Name = intermediateName(param, unitOf(lower.curve.Name))
				c.Parameter = Float(param)
			} else {
				c.Name = fmt.Sprintf("Entre %s et %s (%d/%d)", lower.curve.Name, upper.curve.Name, j, n)
			}
			ids = append(ids, m.AddCurveFrom(c))
		}
	}
	return ids
}

func intermediateName(param float64, unit string) string {
	if unit != "" {
		return fmt.Sprintf("%.0f %s %s", param, unit, IntermediateSuffix)
	}
	return fmt.Sprintf("%.0f %s", param, IntermediateSuffix)
}

func (m *Manager) ensureFitted(c *Curve) {
	if c.HasFit() || len(c.Points) < 2 {
		return
	}
	// FitCurve only errors for unknown ids.
	_, _ = m.FitCurve(c.ID, FitOptions{Method: MethodPCHIP, NumPoints: intermediateFitPoints})
}

// blend samples both curves on a uniform grid over their common x-range and
// mixes lower and upper y at ratio.
func blend(lower, upper []Point, ratio float64) []Point {
	xMin := math.Max(lower[0].X, upper[0].X)
	xMax := math.Min(lower[len(lower)-1].X, upper[len(upper)-1].X)
	if xMax < xMin {
		return nil
	}
	n := len(lower)
	if len(upper) > n {
		n = len(upper)
	}
	if n < 2 {
		n = 2
	}
	step := (xMax - xMin) / float64(n-1)

	out := make([]Point, 0, n)
	for k := 0; k < n; k++ {
		x := xMin + float64(k)*step
		if k == n-1 {
			x = xMax
		}
		yl, okL := valueAt(lower, x)
		yu, okU := valueAt(upper, x)
		if !okL || !okU {
			continue
		}
		out = append(out, Point{X: x, Y: yl + ratio*(yu-yl)})
	}
	return out
}
