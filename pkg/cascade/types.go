// Package cascade propagates a value through a chain of abac graphs.
//
// The entry graph reads y at the input x. Every following graph takes the
// previous y and an external parameter on its x axis: the curves that
// bracket the incoming y at a shared reference x give a position ratio,
// which is re-applied between the same curves at the parameter x.
package cascade

import (
	"errors"

	"github.com/ha1tch/abac-toolkit/pkg/abac"
)

// GraphParameter is the external value for one graph of a chain.
// WindDirection overrides the sign convention on wind graphs.
type GraphParameter struct {
	GraphID       string             `json:"graphId" yaml:"graph"`
	Value         float64            `json:"parameter" yaml:"value"`
	Name          string             `json:"parameterName,omitempty" yaml:"name,omitempty"`
	WindDirection abac.WindDirection `json:"windDirection,omitempty" yaml:"wind,omitempty"`
}

// Axis identifies a chart axis in simple mode.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// Position kinds recorded on steps.
const (
	KindEntry       = "entry"
	KindBracketed   = "bracketed"
	KindAbove       = "above"
	KindBelow       = "below"
	KindSingle      = "single"
	KindByParam     = "byParameter"
	KindExtrapolate = "extrapolated"
	KindDefault     = "default"
)

// CrossingValues are the bracketing curves' y values at the parameter x.
type CrossingValues struct {
	Lower *float64 `json:"lowerValue,omitempty"`
	Upper *float64 `json:"upperValue,omitempty"`
}

// ReferenceCurves names the bracketing curves and their y at the
// reference x.
type ReferenceCurves struct {
	LowerName   string   `json:"lowerCurveName,omitempty"`
	UpperName   string   `json:"upperCurveName,omitempty"`
	LowerYAtRef *float64 `json:"lowerYAtRef,omitempty"`
	UpperYAtRef *float64 `json:"upperYAtRef,omitempty"`
}

// Step records how one graph turned its input into its output.
type Step struct {
	GraphID          string           `json:"graphId"`
	GraphName        string           `json:"graphName"`
	Input            float64          `json:"inputValue"`
	Parameter        *float64         `json:"parameter,omitempty"`
	ParameterName    string           `json:"parameterName,omitempty"`
	Output           float64          `json:"outputValue"`
	CurveUsed        string           `json:"curveUsed,omitempty"`
	Interpolated     bool             `json:"interpolated"`
	Kind             string           `json:"kind,omitempty"`
	ReferenceX       *float64         `json:"referenceIntersectionX,omitempty"`
	Offset           *float64         `json:"offset,omitempty"`
	ValuesAtCrossing *CrossingValues  `json:"valuesAtCrossing,omitempty"`
	ReferenceCurves  *ReferenceCurves `json:"referenceCurves,omitempty"`
	InputAxis        Axis             `json:"inputAxis,omitempty"`
	OutputAxis       Axis             `json:"outputAxis,omitempty"`
}

// Result is the outcome of a cascade run. On failure Steps holds the graphs
// that succeeded and FinalValue the last value reached.
type Result struct {
	Steps      []Step       `json:"steps"`
	FinalValue float64      `json:"finalValue"`
	Success    bool         `json:"success"`
	Error      string       `json:"error,omitempty"`
	Trace      []TraceEntry `json:"trace,omitempty"`
}

// Err returns the failure as an error, or nil on success.
func (r *Result) Err() error {
	if r.Success {
		return nil
	}
	return errors.New(r.Error)
}

func float(v float64) *float64 {
	return &v
}
