package cascade

import (
	"fmt"

	"github.com/ha1tch/abac-toolkit/pkg/abac"
)

// projection is the outcome of reading a classified position at the
// parameter x.
type projection struct {
	output       float64
	curveUsed    string
	interpolated bool
	kind         string
	offset       *float64
	crossing     *CrossingValues
	refs         *ReferenceCurves
}

// project reads pos at x = p. family is the full candidate set, used to
// re-bracket by parameter when a bracketing curve has no value at p.
func (x *run) project(graph string, pos Position, family []Member, p, inputY float64) (projection, error) {
	switch pos := pos.(type) {
	case Bracketed:
		refs := &ReferenceCurves{
			LowerName:   pos.Lower.Curve.Name,
			UpperName:   pos.Upper.Curve.Name,
			LowerYAtRef: float(pos.Lower.YAtRef),
			UpperYAtRef: float(pos.Upper.YAtRef),
		}
		yl, okL := pos.Lower.Curve.YAt(p)
		yu, okU := pos.Upper.Curve.YAt(p)
		if okL && okU {
			x.note(graph, "bracketed", "lower", pos.Lower.Curve.Name, "upper", pos.Upper.Curve.Name,
				"ratio", pos.Ratio, "lowerAtParam", yl, "upperAtParam", yu)
			return projection{
				output:       yl + pos.Ratio*(yu-yl),
				curveUsed:    fmt.Sprintf("between %s and %s (%.0f%%)", pos.Lower.Curve.Name, pos.Upper.Curve.Name, pos.Ratio*100),
				interpolated: true,
				kind:         KindBracketed,
				offset:       float(pos.Ratio),
				crossing:     &CrossingValues{Lower: float(yl), Upper: float(yu)},
				refs:         refs,
			}, nil
		}

		x.note(graph, "bracketing curve undefined at parameter, re-bracketing by parameter",
			"lowerDefined", okL, "upperDefined", okU)
		if proj, ok := x.byParameter(graph, family, p); ok {
			proj.refs = refs
			return proj, nil
		}
		return x.extrapolate(graph, pos.Lower, p)

	case AboveAll:
		return x.offsetFrom(graph, pos.Ref, p, inputY, KindAbove, "above")

	case BelowAll:
		return x.offsetFrom(graph, pos.Ref, p, inputY, KindBelow, "below")

	case SingleReference:
		if y, ok := pos.Ref.Curve.YAt(p); ok {
			x.note(graph, "single reference curve", "curve", pos.Ref.Curve.Name, "value", y)
			return projection{
				output:    y,
				curveUsed: pos.Ref.Curve.Name,
				kind:      KindSingle,
			}, nil
		}
		return x.extrapolate(graph, pos.Ref, p)

	case Unresolvable:
		return projection{}, fmt.Errorf("graph %q: %s", graph, pos.Reason)
	}
	return projection{}, fmt.Errorf("graph %q: unknown position %T", graph, pos)
}

// offsetFrom carries the input's vertical distance to ref at the reference
// x over to the parameter x.
func (x *run) offsetFrom(graph string, ref Member, p, inputY float64, kind, side string) (projection, error) {
	y, ok := ref.Curve.YAt(p)
	if !ok {
		return x.extrapolate(graph, ref, p)
	}
	offset := inputY - ref.YAtRef
	x.note(graph, "outside curve family, parallel offset", "side", side,
		"curve", ref.Curve.Name, "offset", offset, "curveAtParam", y)
	return projection{
		output:    y + offset,
		curveUsed: fmt.Sprintf("%s (%s all curves, offset %+.2f)", ref.Curve.Name, side, offset),
		kind:      kind,
		offset:    float(offset),
		refs:      singleRef(side, ref),
	}, nil
}

func singleRef(side string, ref Member) *ReferenceCurves {
	if side == "above" {
		return &ReferenceCurves{UpperName: ref.Curve.Name, UpperYAtRef: float(ref.YAtRef)}
	}
	return &ReferenceCurves{LowerName: ref.Curve.Name, LowerYAtRef: float(ref.YAtRef)}
}

// byParameter interpolates between the curves whose parameters enclose p.
func (x *run) byParameter(graph string, family []Member, p float64) (projection, bool) {
	lower, upper, ok := bracketByParameter(family, p)
	if !ok {
		return projection{}, false
	}
	yl, okL := lower.Curve.YAt(p)
	yu, okU := upper.Curve.YAt(p)
	if !okL || !okU {
		return projection{}, false
	}
	t := ratio(lower.Parameter, upper.Parameter, p)
	x.note(graph, "bracketed by parameter", "lower", lower.Curve.Name, "upper", upper.Curve.Name, "ratio", t)
	return projection{
		output:       yl + t*(yu-yl),
		curveUsed:    fmt.Sprintf("between %s and %s by parameter", lower.Curve.Name, upper.Curve.Name),
		interpolated: true,
		kind:         KindByParam,
		offset:       float(t),
		crossing:     &CrossingValues{Lower: float(yl), Upper: float(yu)},
	}, true
}

// extrapolate extends ref's first or last fitted segment to p.
func (x *run) extrapolate(graph string, ref Member, p float64) (projection, error) {
	y, ok := ref.Curve.Extrapolate(p)
	if !ok {
		return projection{}, fmt.Errorf("graph %q: no reference curve defined at x=%g", graph, p)
	}
	x.note(graph, "linear extrapolation", "curve", ref.Curve.Name, "x", p, "value", y)
	return projection{
		output:       y,
		curveUsed:    ref.Curve.Name + " (extrapolated)",
		interpolated: true,
		kind:         KindExtrapolate,
		offset:       float(0),
	}, nil
}

// familyOf collects the curves of g that carry a parameter.
func familyOf(g *abac.GraphConfig) []Member {
	var out []Member
	for i := range g.Curves {
		c := &g.Curves[i]
		if c.Parameter == nil {
			continue
		}
		out = append(out, Member{Curve: c, Parameter: *c.Parameter})
	}
	return out
}
