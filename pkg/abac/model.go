// Package abac provides the curve and graph model of an abac (nomogram)
// system and the Manager that fits curves for one chart session.
package abac

import (
	"fmt"
	"strings"

	"github.com/ha1tch/abac-toolkit/pkg/interp"
)

// Method names the kernel that produced a fitted result.
type Method = interp.Method

const (
	MethodPCHIP         = interp.MethodPCHIP
	MethodAkima         = interp.MethodAkima
	MethodNaturalSpline = interp.MethodNaturalSpline
	MethodCatmullRom    = interp.MethodCatmullRom
	MethodLinear        = interp.MethodLinear
)

// WindDirection tags curves of a wind correction graph.
type WindDirection string

const (
	WindNone     WindDirection = "none"
	WindHeadwind WindDirection = "headwind"
	WindTailwind WindDirection = "tailwind"
)

// ReferenceEdge selects which end of the common x-range of a curve family
// is used to compare curves.
type ReferenceEdge string

const (
	EdgeMin ReferenceEdge = "min"
	EdgeMax ReferenceEdge = "max"
)

// Point is a raw or fitted sample. ID is only set on raw points.
type Point struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	ID string  `json:"id,omitempty"`
}

// AxisSpec describes one axis. Reversed only affects rendering.
type AxisSpec struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Unit     string  `json:"unit"`
	Title    string  `json:"title"`
	Reversed bool    `json:"reversed,omitempty"`
}

// Contains reports whether v lies within [Min, Max].
func (a AxisSpec) Contains(v float64) bool {
	return v >= a.Min && v <= a.Max
}

// AxesConfig holds both axes of a chart.
type AxesConfig struct {
	XAxis AxisSpec `json:"xAxis"`
	YAxis AxisSpec `json:"yAxis"`
}

// Contains reports whether p lies inside both axis ranges.
func (a AxesConfig) Contains(p Point) bool {
	return a.XAxis.Contains(p.X) && a.YAxis.Contains(p.Y)
}

// FittedResult is the dense output of a fit.
type FittedResult struct {
	Points []Point `json:"points"`
	RMSE   float64 `json:"rmse"`
	Method Method  `json:"method"`
}

// Curve is a named, colored set of raw points with an optional fit.
// Parameter is the value the curve stands for in its family
// (an altitude, a mass, a wind speed).
type Curve struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Color         string        `json:"color"`
	Points        []Point       `json:"points"`
	Parameter     *float64      `json:"parameter,omitempty"`
	WindDirection WindDirection `json:"windDirection,omitempty"`
	Fitted        *FittedResult `json:"fitted,omitempty"`
}

// HasFit reports whether the curve carries a usable fitted result.
func (c *Curve) HasFit() bool {
	return c.Fitted != nil && len(c.Fitted.Points) > 0
}

// IsIntermediate reports whether the curve was synthesized between two
// other curves rather than authored.
func (c *Curve) IsIntermediate() bool {
	if strings.Contains(c.Name, IntermediateSuffix) {
		return true
	}
	return len(c.Points) == 0 && c.Fitted != nil && c.Fitted.Method == MethodLinear
}

// GraphConfig is one chart of a cascade: axes plus a curve family.
type GraphConfig struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Axes          *AxesConfig   `json:"axes,omitempty"`
	Curves        []Curve       `json:"curves"`
	IsWindRelated bool          `json:"isWindRelated,omitempty"`
	ReferenceEdge ReferenceEdge `json:"referenceEdge,omitempty"`
	LinkedFrom    []string      `json:"linkedFrom,omitempty"`
	LinkedTo      []string      `json:"linkedTo,omitempty"`
}

// Edge returns the reference edge, defaulting to EdgeMin.
func (g *GraphConfig) Edge() ReferenceEdge {
	if g.ReferenceEdge == EdgeMax {
		return EdgeMax
	}
	return EdgeMin
}

// CurveIndex returns the index of the curve with the given id, or -1.
func (g *GraphConfig) CurveIndex(id string) int {
	for i := range g.Curves {
		if g.Curves[i].ID == id {
			return i
		}
	}
	return -1
}

// String returns a short summary of the graph.
func (g *GraphConfig) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Graph[%s]: %s\n", g.ID, g.Name))
	if g.Axes != nil {
		sb.WriteString(fmt.Sprintf("  X: %s [%g, %g] %s\n", g.Axes.XAxis.Title, g.Axes.XAxis.Min, g.Axes.XAxis.Max, g.Axes.XAxis.Unit))
		sb.WriteString(fmt.Sprintf("  Y: %s [%g, %g] %s\n", g.Axes.YAxis.Title, g.Axes.YAxis.Min, g.Axes.YAxis.Max, g.Axes.YAxis.Unit))
	}
	sb.WriteString(fmt.Sprintf("  Curves: %d\n", len(g.Curves)))
	if len(g.LinkedTo) > 0 {
		sb.WriteString(fmt.Sprintf("  Linked to: %v\n", g.LinkedTo))
	}
	return sb.String()
}

// Float returns a pointer to v, for Curve.Parameter literals.
func Float(v float64) *float64 {
	return &v
}

func toKernel(points []Point) []interp.Point {
	out := make([]interp.Point, len(points))
	for i, p := range points {
		out[i] = interp.Point{X: p.X, Y: p.Y}
	}
	return out
}

func fromKernel(points []interp.Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{X: p.X, Y: p.Y}
	}
	return out
}
