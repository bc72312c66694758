package cascade

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-logr/logr"

	"github.com/ha1tch/abac-toolkit/pkg/abac"
)

// altitudeTolerance is how close an entry curve's parameter must be to the
// supplied parameter to be used directly.
const altitudeTolerance = 100.0

// Resolver runs cascades. The zero value discards diagnostics.
type Resolver struct {
	log   logr.Logger
	trace bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sends resolver decisions to l at V(1).
func WithLogger(l logr.Logger) Option {
	return func(r *Resolver) { r.log = l }
}

// WithTrace collects resolver decisions into Result.Trace.
func WithTrace() Option {
	return func(r *Resolver) { r.trace = true }
}

// NewResolver creates a resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{log: logr.Discard()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// CalculateWithParameters runs chain with a parameter per graph. The first
// graph's parameter is optional; every other graph needs one. Graphs are
// never modified.
func CalculateWithParameters(chain []abac.GraphConfig, initial float64, params []GraphParameter) *Result {
	return NewResolver().CalculateWithParameters(chain, initial, params)
}

// Calculate runs chain in simple mode.
func Calculate(chain []abac.GraphConfig, initial float64) *Result {
	return NewResolver().Calculate(chain, initial)
}

// run holds the state of one cascade.
type run struct {
	tracer
	steps []Step
	value float64
}

func (r *Resolver) start(initial float64) *run {
	log := r.log
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	return &run{tracer: tracer{log: log, collect: r.trace}, value: initial}
}

func (x *run) fail(err error) *Result {
	x.log.V(1).Info("cascade aborted", "error", err.Error())
	return &Result{Steps: x.steps, FinalValue: x.value, Error: err.Error(), Trace: x.entries}
}

func (x *run) done() *Result {
	return &Result{Steps: x.steps, FinalValue: x.value, Success: true, Trace: x.entries}
}

// CalculateWithParameters runs chain with a parameter per graph.
func (r *Resolver) CalculateWithParameters(chain []abac.GraphConfig, initial float64, params []GraphParameter) *Result {
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
		param := findParameter(params, g.ID)

		var step Step
		var err error
		if i == 0 {
			step, err = x.entry(g, x.value, param)
		} else {
			if param == nil {
				return x.fail(fmt.Errorf("missing parameter for graph %q: specify %s", g.Name, g.Axes.XAxis.Title))
			}
			step, err = x.chained(g, x.value, *param)
		}
		if err != nil {
			return x.fail(err)
		}

		step.GraphID = g.ID
		step.GraphName = g.Name
		step.Input = x.value
		if param != nil {
			step.Parameter = float(param.Value)
			step.ParameterName = param.Name
		}
		x.steps = append(x.steps, step)
		x.value = step.Output
	}
	return x.done()
}

func findParameter(params []GraphParameter, graphID string) *GraphParameter {
	for i := range params {
		if params[i].GraphID == graphID {
			return &params[i]
		}
	}
	return nil
}

// entry reads the first graph at x = input. With a parameter, the curve
// matching it (or the pair enclosing it) is used; otherwise the first curve.
func (x *run) entry(g *abac.GraphConfig, input float64, param *GraphParameter) (Step, error) {
	first := &g.Curves[0]
	if param == nil {
		y, ok := first.YAt(input)
		if !ok {
			return Step{}, fmt.Errorf("cannot compute Y for X=%g on graph %q", input, g.Name)
		}
		x.note(g.Name, "entry graph without parameter", "curve", first.Name, "value", y)
		return Step{Output: y, CurveUsed: first.Name + " (default)", Kind: KindDefault}, nil
	}

	p := param.Value
	members := familyOf(g)
	for _, m := range members {
		if math.Abs(m.Parameter-p) < altitudeTolerance {
			y, ok := m.Curve.YAt(input)
			if !ok {
				return Step{}, fmt.Errorf("cannot compute Y for X=%g on curve %q of graph %q", input, m.Curve.Name, g.Name)
			}
			x.note(g.Name, "entry curve matches parameter", "curve", m.Curve.Name, "value", y)
			return Step{Output: y, CurveUsed: m.Curve.Name, Kind: KindEntry}, nil
		}
	}

	sort.SliceStable(members, func(i, j int) bool { return members[i].Parameter < members[j].Parameter })
	lower, upper, ok := bracketByParameter(members, p)
	if ok && lower.Curve != upper.Curve {
		yl, okL := lower.Curve.YAt(input)
		yu, okU := upper.Curve.YAt(input)
		if okL && okU {
			t := ratio(lower.Parameter, upper.Parameter, p)
			x.note(g.Name, "entry curves bracket parameter", "lower", lower.Curve.Name, "upper", upper.Curve.Name, "ratio", t)
			return Step{
				Output:           yl + t*(yu-yl),
				CurveUsed:        fmt.Sprintf("between %s and %s (%.0f%%)", lower.Curve.Name, upper.Curve.Name, t*100),
				Interpolated:     true,
				Kind:             KindEntry,
				Offset:           float(t),
				ValuesAtCrossing: &CrossingValues{Lower: float(yl), Upper: float(yu)},
			}, nil
		}
	}

	// Nearest curve on either side, else the first curve.
	selected := first
	switch {
	case len(members) == 0:
	case p < members[0].Parameter:
		selected = members[0].Curve
	case p > members[len(members)-1].Parameter:
		selected = members[len(members)-1].Curve
	case ok:
		selected = lower.Curve
	}
	y, found := selected.YAt(input)
	if !found && ok && selected == lower.Curve {
		selected = upper.Curve
		y, found = selected.YAt(input)
	}
	if !found {
		return Step{}, fmt.Errorf("cannot compute Y for X=%g on graph %q", input, g.Name)
	}
	x.note(g.Name, "entry curve nearest to parameter", "curve", selected.Name, "value", y)
	return Step{Output: y, CurveUsed: selected.Name, Kind: KindEntry}, nil
}

// chained resolves a graph after the first: inputY is bracketed at the
// reference x and the position is re-applied at x = parameter.
func (x *run) chained(g *abac.GraphConfig, inputY float64, param GraphParameter) (Step, error) {
	members := familyOf(g)
	p := param.Value

	if len(members) == 0 {
		return x.firstCurve(g, p, "no parametrized curves, using first curve")
	}

	if g.IsWindRelated {
		members, p = filterWind(members, param)
		x.note(g.Name, "wind filter", "curves", len(members), "parameter", p)
		if len(members) == 0 {
			return x.firstCurve(g, p, "no curves for "+string(windDirection(param))+", using first curve")
		}
	}

	xRef, ok := referenceX(members, g.Edge())
	if !ok {
		return Step{}, fmt.Errorf("graph %q: no fitted curves", g.Name)
	}
	sorted := atReference(members, xRef)
	x.note(g.Name, "reference x", "edge", string(g.Edge()), "x", xRef, "curves", len(sorted))

	proj, err := x.project(g.Name, Classify(sorted, inputY), members, p, inputY)
	if err != nil {
		return Step{}, err
	}
	return Step{
		Output:           proj.output,
		CurveUsed:        proj.curveUsed,
		Interpolated:     proj.interpolated,
		Kind:             proj.kind,
		ReferenceX:       float(xRef),
		Offset:           proj.offset,
		ValuesAtCrossing: proj.crossing,
		ReferenceCurves:  proj.refs,
	}, nil
}

// firstCurve reads the graph's first curve at x = p.
func (x *run) firstCurve(g *abac.GraphConfig, p float64, msg string) (Step, error) {
	c := &g.Curves[0]
	y, ok := c.YAt(p)
	if !ok {
		return Step{}, fmt.Errorf("graph %q: no usable curve family and %q has no value at X=%g", g.Name, c.Name, p)
	}
	x.note(g.Name, msg, "curve", c.Name, "value", y)
	return Step{Output: y, CurveUsed: c.Name + " (default)", Kind: KindDefault}, nil
}

// windDirection resolves the direction of a wind parameter: explicit, else
// headwind for values >= 0.
func windDirection(param GraphParameter) abac.WindDirection {
	switch param.WindDirection {
	case abac.WindHeadwind, abac.WindTailwind:
		return param.WindDirection
	}
	if param.Value >= 0 {
		return abac.WindHeadwind
	}
	return abac.WindTailwind
}

// filterWind keeps the curves of the run's wind direction plus untagged
// curves, and switches to absolute parameter values. Families without any
// tagged curve are kept whole.
func filterWind(members []Member, param GraphParameter) ([]Member, float64) {
	dir := windDirection(param)
	tagged := false
	for _, m := range members {
		if isWind(m.Curve.WindDirection) {
			tagged = true
			break
		}
	}

	out := make([]Member, 0, len(members))
	for _, m := range members {
		if tagged && isWind(m.Curve.WindDirection) && m.Curve.WindDirection != dir {
			continue
		}
		m.Parameter = math.Abs(m.Parameter)
		out = append(out, m)
	}
	return out, math.Abs(param.Value)
}

func isWind(d abac.WindDirection) bool {
	return d == abac.WindHeadwind || d == abac.WindTailwind
}
