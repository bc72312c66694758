package cascade

import (
	"fmt"

	"github.com/ha1tch/abac-toolkit/pkg/abac"
)

// Calculate runs chain in simple mode: every graph is read on its first
// curve only. The first graph takes the value on X. Later graphs take it on
// X unless it is outside the X range and inside the Y range, in which case
// the curve is read backwards from Y.
func (r *Resolver) Calculate(chain []abac.GraphConfig, initial float64) *Result {
	x := r.start(initial)
	if len(chain) == 0 {
		return x.fail(fmt.Errorf("empty graph chain"))
	}

	for i := range chain {
		g := &chain[i]
		if g.Axes == nil {
			return x.fail(fmt.Errorf("graph %q has no axes configured", g.Name))
		}
		if len(g.Curves) == 0 {
			return x.fail(fmt.Errorf("graph %q has no curves", g.Name))
		}

		in := AxisX
		if i > 0 && !g.Axes.XAxis.Contains(x.value) && g.Axes.YAxis.Contains(x.value) {
			in = AxisY
		}
		c := &g.Curves[0]
		out, ok := readCurve(c, x.value, in)
		if !ok {
			return x.fail(fmt.Errorf("cannot compute a value for %s=%g on graph %q", in, x.value, g.Name))
		}
		x.note(g.Name, "simple mode", "axis", string(in), "curve", c.Name, "value", out)

		x.steps = append(x.steps, Step{
			GraphID:    g.ID,
			GraphName:  g.Name,
			Input:      x.value,
			Output:     out,
			CurveUsed:  c.Name,
			Kind:       KindDefault,
			InputAxis:  in,
			OutputAxis: other(in),
		})
		x.value = out
	}
	return x.done()
}

func readCurve(c *abac.Curve, v float64, axis Axis) (float64, bool) {
	if axis == AxisY {
		return c.XAt(v)
	}
	return c.YAt(v)
}

func other(a Axis) Axis {
	if a == AxisX {
		return AxisY
	}
	return AxisX
}
