package cascade

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/abac-toolkit/pkg/abac"
)

// curve builds a fitted curve y = slope*x + offset sampled at xs.
func curve(name string, param *float64, slope, offset float64, xs ...float64) abac.Curve {
	pts := make([]abac.Point, len(xs))
	for i, x := range xs {
		pts[i] = abac.Point{X: x, Y: slope*x + offset}
	}
	return abac.Curve{
		ID:        name,
		Name:      name,
		Parameter: param,
		Fitted:    &abac.FittedResult{Points: pts, Method: abac.MethodPCHIP},
	}
}

func axes() *abac.AxesConfig {
	return &abac.AxesConfig{
		XAxis: abac.AxisSpec{Min: 0, Max: 100, Title: "Parameter"},
		YAxis: abac.AxisSpec{Min: -100, Max: 400, Title: "Value"},
	}
}

func entryGraph() abac.GraphConfig {
	return abac.GraphConfig{
		ID:       "g1",
		Name:     "Entry",
		Axes:     axes(),
		Curves:   []abac.Curve{curve("base", nil, 10, 0, 0, 10)},
		LinkedTo: []string{"g2"},
	}
}

func familyGraph() abac.GraphConfig {
	return abac.GraphConfig{
		ID:   "g2",
		Name: "Correction",
		Axes: axes(),
		Curves: []abac.Curve{
			curve("0", abac.Float(0), 1, 0, 0, 50, 100),
			curve("100", abac.Float(100), 1, 100, 0, 50, 100),
		},
	}
}

func TestSingleGraphWithoutParameter(t *testing.T) {
	res := CalculateWithParameters([]abac.GraphConfig{entryGraph()}, 5, nil)
	require.True(t, res.Success, res.Error)
	assert.InDelta(t, 50, res.FinalValue, 1e-9)
	require.Len(t, res.Steps, 1)
	assert.Equal(t, "base (default)", res.Steps[0].CurveUsed)
	assert.False(t, res.Steps[0].Interpolated)
	assert.NoError(t, res.Err())
}

func TestBracketingEndToEnd(t *testing.T) {
	chain := []abac.GraphConfig{entryGraph(), familyGraph()}
	res := CalculateWithParameters(chain, 5, []GraphParameter{{GraphID: "g2", Value: 50, Name: "mass"}})
	require.True(t, res.Success, res.Error)
	assert.InDelta(t, 100, res.FinalValue, 1e-9)

	require.Len(t, res.Steps, 2)
	step := res.Steps[1]
	assert.Equal(t, "g2", step.GraphID)
	assert.InDelta(t, 50, step.Input, 1e-9)
	assert.True(t, step.Interpolated)
	assert.Equal(t, KindBracketed, step.Kind)
	require.NotNil(t, step.Offset)
	assert.InDelta(t, 0.5, *step.Offset, 1e-9)
	require.NotNil(t, step.ReferenceX)
	assert.Equal(t, 0.0, *step.ReferenceX)
	require.NotNil(t, step.Parameter)
	assert.Equal(t, 50.0, *step.Parameter)
	assert.Equal(t, "mass", step.ParameterName)

	require.NotNil(t, step.ValuesAtCrossing)
	assert.InDelta(t, 50, *step.ValuesAtCrossing.Lower, 1e-9)
	assert.InDelta(t, 150, *step.ValuesAtCrossing.Upper, 1e-9)
	require.NotNil(t, step.ReferenceCurves)
	assert.Equal(t, "0", step.ReferenceCurves.LowerName)
	assert.Equal(t, "100", step.ReferenceCurves.UpperName)
	assert.InDelta(t, 100, *step.ReferenceCurves.UpperYAtRef, 1e-9)
}

func TestMissingParameter(t *testing.T) {
	chain := []abac.GraphConfig{entryGraph(), familyGraph()}
	res := CalculateWithParameters(chain, 5, nil)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "Correction")
	assert.Len(t, res.Steps, 1)
	assert.InDelta(t, 50, res.FinalValue, 1e-9)
	assert.Error(t, res.Err())
}

func TestStructuralFailures(t *testing.T) {
	noAxes := entryGraph()
	noAxes.Axes = nil
	res := CalculateWithParameters([]abac.GraphConfig{noAxes}, 5, nil)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "axes")

	noCurves := entryGraph()
	noCurves.Curves = nil
	res = CalculateWithParameters([]abac.GraphConfig{noCurves}, 5, nil)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "no curves")

	res = CalculateWithParameters(nil, 5, nil)
	assert.False(t, res.Success)

	res = CalculateWithParameters([]abac.GraphConfig{entryGraph()}, 500, nil)
	assert.False(t, res.Success)
	assert.Empty(t, res.Steps)
	assert.Equal(t, 500.0, res.FinalValue)
}

func runFamily(t *testing.T, g abac.GraphConfig, inputY float64, param GraphParameter) Step {
	t.Helper()
	x := NewResolver().start(inputY)
	step, err := x.chained(&g, inputY, param)
	require.NoError(t, err)
	return step
}

func TestAboveAndBelowAllCurves(t *testing.T) {
	g := familyGraph()

	above := runFamily(t, g, 150, GraphParameter{GraphID: "g2", Value: 50})
	assert.Equal(t, KindAbove, above.Kind)
	assert.InDelta(t, 200, above.Output, 1e-9)
	assert.InDelta(t, 50, *above.Offset, 1e-9)
	assert.False(t, above.Interpolated)

	below := runFamily(t, g, -20, GraphParameter{GraphID: "g2", Value: 50})
	assert.Equal(t, KindBelow, below.Kind)
	assert.InDelta(t, 30, below.Output, 1e-9)
	assert.InDelta(t, -20, *below.Offset, 1e-9)
}

func TestReferenceEdge(t *testing.T) {
	g := abac.GraphConfig{
		ID:   "g2",
		Name: "Edge",
		Axes: axes(),
		Curves: []abac.Curve{
			curve("a", abac.Float(0), 1, 0, 0, 50, 100),
			curve("b", abac.Float(100), 2, 10, 0, 50, 100),
		},
	}
	param := GraphParameter{GraphID: "g2", Value: 50}

	g.ReferenceEdge = abac.EdgeMax
	step := runFamily(t, g, 155, param)
	assert.Equal(t, KindBracketed, step.Kind)
	assert.Equal(t, 100.0, *step.ReferenceX)
	assert.InDelta(t, 80, step.Output, 1e-9)

	g.ReferenceEdge = ""
	step = runFamily(t, g, 155, param)
	assert.Equal(t, KindAbove, step.Kind)
	assert.Equal(t, 0.0, *step.ReferenceX)
	assert.InDelta(t, 255, step.Output, 1e-9)
}

func windGraph(withCalm bool) abac.GraphConfig {
	head10 := curve("headwind 10", abac.Float(10), 1, 10, 0, 15, 30)
	head20 := curve("headwind 20", abac.Float(20), 1, 20, 0, 15, 30)
	tail10 := curve("tailwind 10", abac.Float(-10), 1, -10, 0, 15, 30)
	tail20 := curve("tailwind 20", abac.Float(-20), 1, -20, 0, 15, 30)
	head10.WindDirection = abac.WindHeadwind
	head20.WindDirection = abac.WindHeadwind
	tail10.WindDirection = abac.WindTailwind
	tail20.WindDirection = abac.WindTailwind

	g := abac.GraphConfig{
		ID:            "wind",
		Name:          "Wind",
		Axes:          axes(),
		IsWindRelated: true,
		Curves:        []abac.Curve{head10, head20, tail10, tail20},
	}
	if withCalm {
		g.Curves = append(g.Curves, curve("calm", abac.Float(0), 1, 0, 0, 15, 30))
	}
	return g
}

func TestWindFiltering(t *testing.T) {
	g := windGraph(false)

	head := runFamily(t, g, 15, GraphParameter{GraphID: "wind", Value: 5})
	assert.Equal(t, KindBracketed, head.Kind)
	assert.Equal(t, "headwind 10", head.ReferenceCurves.LowerName)
	assert.Equal(t, "headwind 20", head.ReferenceCurves.UpperName)
	assert.InDelta(t, 20, head.Output, 1e-9)

	tail := runFamily(t, g, -15, GraphParameter{GraphID: "wind", Value: -5})
	assert.Equal(t, "tailwind 20", tail.ReferenceCurves.LowerName)
	assert.Equal(t, "tailwind 10", tail.ReferenceCurves.UpperName)
	assert.InDelta(t, -10, tail.Output, 1e-9)

	explicit := runFamily(t, g, -15, GraphParameter{GraphID: "wind", Value: 5, WindDirection: abac.WindTailwind})
	assert.Equal(t, "tailwind 20", explicit.ReferenceCurves.LowerName)
}

func TestWindFilteringKeepsUntaggedCurves(t *testing.T) {
	g := windGraph(true)
	step := runFamily(t, g, 5, GraphParameter{GraphID: "wind", Value: 5})
	assert.Equal(t, "calm", step.ReferenceCurves.LowerName)
	assert.Equal(t, "headwind 10", step.ReferenceCurves.UpperName)
	assert.InDelta(t, 10, step.Output, 1e-9)
}

func TestSingleReferenceCurve(t *testing.T) {
	g := abac.GraphConfig{
		ID: "g", Name: "Single", Axes: axes(),
		Curves: []abac.Curve{curve("only", abac.Float(0), 1, 10, 0, 100)},
	}
	step := runFamily(t, g, 10, GraphParameter{GraphID: "g", Value: 50})
	assert.Equal(t, KindSingle, step.Kind)
	assert.InDelta(t, 60, step.Output, 1e-9)
}

func TestBracketFallbacks(t *testing.T) {
	g := abac.GraphConfig{
		ID: "g", Name: "Fallback", Axes: axes(),
		Curves: []abac.Curve{
			curve("A", abac.Float(0), 1, 0, 0, 100),
			curve("B", abac.Float(300), 1, 100, 0, 20),
			curve("C", abac.Float(100), 1, 200, 0, 100),
		},
	}

	step := runFamily(t, g, 50, GraphParameter{GraphID: "g", Value: 50})
	assert.Equal(t, KindByParam, step.Kind)
	assert.InDelta(t, 150, step.Output, 1e-9)
	assert.True(t, step.Interpolated)
	assert.Equal(t, "A", step.ReferenceCurves.LowerName)
	assert.Equal(t, "B", step.ReferenceCurves.UpperName)

	// No pair encloses 350 by parameter: extend A instead.
	step = runFamily(t, g, 50, GraphParameter{GraphID: "g", Value: 350})
	assert.Equal(t, KindExtrapolate, step.Kind)
	assert.InDelta(t, 350, step.Output, 1e-9)
}

func TestUnfittedFamilyFails(t *testing.T) {
	g := familyGraph()
	for i := range g.Curves {
		g.Curves[i].Fitted = nil
	}
	x := NewResolver().start(0)
	_, err := x.chained(&g, 10, GraphParameter{GraphID: "g2", Value: 10})
	assert.Error(t, err)
}

func TestFamilyWithoutParametersUsesFirstCurve(t *testing.T) {
	g := familyGraph()
	for i := range g.Curves {
		g.Curves[i].Parameter = nil
	}
	step := runFamily(t, g, 999, GraphParameter{GraphID: "g2", Value: 40})
	assert.Equal(t, KindDefault, step.Kind)
	assert.InDelta(t, 40, step.Output, 1e-9)
}

func TestEntryGraphWithParameter(t *testing.T) {
	g := abac.GraphConfig{
		ID: "alt", Name: "Altitude", Axes: axes(),
		Curves: []abac.Curve{
			curve("0 ft", abac.Float(0), 1, 0, 0, 10),
			curve("1000 ft", abac.Float(1000), 2, 0, 0, 10),
		},
	}
	tests := []struct {
		name   string
		param  float64
		want   float64
		interp bool
	}{
		{"bracketed", 500, 7.5, true},
		{"near match", 1050, 10, false},
		{"above family", 5000, 10, false},
		{"below family", -500, 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := CalculateWithParameters([]abac.GraphConfig{g}, 5,
				[]GraphParameter{{GraphID: "alt", Value: tt.param}})
			require.True(t, res.Success, res.Error)
			assert.InDelta(t, tt.want, res.FinalValue, 1e-9)
			assert.Equal(t, tt.interp, res.Steps[0].Interpolated)
		})
	}
}

func TestTraceCollection(t *testing.T) {
	chain := []abac.GraphConfig{entryGraph(), familyGraph()}
	params := []GraphParameter{{GraphID: "g2", Value: 50}}

	quiet := CalculateWithParameters(chain, 5, params)
	assert.Empty(t, quiet.Trace)

	traced := NewResolver(WithTrace()).CalculateWithParameters(chain, 5, params)
	require.True(t, traced.Success)
	require.NotEmpty(t, traced.Trace)
	var sawBracket bool
	for _, e := range traced.Trace {
		if e.Graph == "Correction" && strings.HasPrefix(e.Message, "bracketed") {
			sawBracket = true
		}
	}
	assert.True(t, sawBracket)

	var zero Resolver
	assert.True(t, zero.CalculateWithParameters(chain, 5, params).Success)
}

func TestResolverDoesNotModifyGraphs(t *testing.T) {
	chain := []abac.GraphConfig{entryGraph(), windGraph(true)}
	chain[0].LinkedTo = []string{"wind"}
	before := abac.CloneGraphs(chain)

	CalculateWithParameters(chain, 2, []GraphParameter{{GraphID: "wind", Value: -5}})
	Calculate(chain, 2)

	if diff := cmp.Diff(before, chain); diff != "" {
		t.Errorf("graphs modified (-before +after):\n%s", diff)
	}
}

func TestSimpleMode(t *testing.T) {
	g1 := entryGraph()
	g2 := abac.GraphConfig{
		ID: "g2", Name: "Inverse",
		Axes: &abac.AxesConfig{
			XAxis: abac.AxisSpec{Min: 0, Max: 10},
			YAxis: abac.AxisSpec{Min: 0, Max: 100},
		},
		Curves: []abac.Curve{curve("tenfold", nil, 10, 0, 0, 10)},
	}
	g3 := abac.GraphConfig{
		ID: "g3", Name: "Double",
		Axes: &abac.AxesConfig{
			XAxis: abac.AxisSpec{Min: 0, Max: 10},
			YAxis: abac.AxisSpec{Min: 0, Max: 20},
		},
		Curves: []abac.Curve{curve("double", nil, 2, 0, 0, 10)},
	}

	res := Calculate([]abac.GraphConfig{g1, g2, g3}, 5)
	require.True(t, res.Success, res.Error)
	require.Len(t, res.Steps, 3)
	assert.InDelta(t, 50, res.Steps[0].Output, 1e-9)
	assert.Equal(t, AxisX, res.Steps[0].InputAxis)

	assert.Equal(t, AxisY, res.Steps[1].InputAxis)
	assert.Equal(t, AxisX, res.Steps[1].OutputAxis)
	assert.InDelta(t, 5, res.Steps[1].Output, 1e-9)

	assert.Equal(t, AxisX, res.Steps[2].InputAxis)
	assert.InDelta(t, 10, res.FinalValue, 1e-9)
}

func TestSimpleModeFailure(t *testing.T) {
	g2 := abac.GraphConfig{
		ID: "g2", Name: "Narrow",
		Axes:   &abac.AxesConfig{XAxis: abac.AxisSpec{Min: 0, Max: 10}, YAxis: abac.AxisSpec{Min: 0, Max: 10}},
		Curves: []abac.Curve{curve("flat", nil, 0, 1, 0, 10)},
	}
	res := Calculate([]abac.GraphConfig{entryGraph(), g2}, 5)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "Narrow")
	assert.Len(t, res.Steps, 1)
}

func TestWindFilterWithoutMatchingCurvesUsesFirstCurve(t *testing.T) {
	g := windGraph(false)
	g.Curves = g.Curves[:2]

	step := runFamily(t, g, 15, GraphParameter{GraphID: "wind", Value: -5})
	assert.Equal(t, KindDefault, step.Kind)
	assert.Equal(t, "headwind 10 (default)", step.CurveUsed)
	assert.InDelta(t, 15, step.Output, 1e-9)
}

func TestFamilyBuiltThroughManager(t *testing.T) {
	m := abac.NewManager()
	m.SetAxesConfig(*axes())
	lo := m.AddCurve("0", "")
	hi := m.AddCurve("100", "")
	for _, x := range []float64{0, 50, 100} {
		_, err := m.AddPoint(lo, abac.Point{X: x, Y: x})
		require.NoError(t, err)
		_, err = m.AddPoint(hi, abac.Point{X: x, Y: x + 100})
		require.NoError(t, err)
	}
	m.FitAll(abac.FitOptions{Method: abac.MethodPCHIP})

	chain := []abac.GraphConfig{entryGraph(), m.ExportGraph("g2", "Correction")}
	res := CalculateWithParameters(chain, 5, []GraphParameter{{GraphID: "g2", Value: 50}})
	require.True(t, res.Success, res.Error)
	require.Len(t, res.Steps, 2)

	step := res.Steps[1]
	assert.Equal(t, KindBracketed, step.Kind)
	require.NotNil(t, step.ReferenceCurves)
	assert.Equal(t, "0", step.ReferenceCurves.LowerName)
	assert.Equal(t, "100", step.ReferenceCurves.UpperName)
	assert.InDelta(t, 100, res.FinalValue, 1e-6)
}
