package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/abac-toolkit/pkg/abac"
	"github.com/ha1tch/abac-toolkit/pkg/abacfile"
	"github.com/ha1tch/abac-toolkit/pkg/cascade"
	"github.com/ha1tch/abac-toolkit/pkg/config"
)

func TestParseParams(t *testing.T) {
	got, err := parseParams([]string{"alt=2000", "wind=10:Tailwind", "mass= 1050.5"})
	require.NoError(t, err)
	assert.Equal(t, []cascade.GraphParameter{
		{GraphID: "alt", Value: 2000},
		{GraphID: "wind", Value: 10, WindDirection: abac.WindTailwind},
		{GraphID: "mass", Value: 1050.5},
	}, got)

	for _, bad := range []string{"alt", "=5", "alt=high", "wind=5:crosswind"} {
		_, err := parseParams([]string{bad})
		assert.Error(t, err, bad)
	}
}

func rawLine(name string, param float64, offset float64) abac.Curve {
	return abac.Curve{
		ID:        name,
		Name:      name,
		Parameter: abac.Float(param),
		Points:    []abac.Point{{X: 0, Y: offset}, {X: 50, Y: 50 + offset}, {X: 100, Y: 100 + offset}},
	}
}

func testSystem() *abacfile.System {
	axes := &abac.AxesConfig{
		XAxis: abac.AxisSpec{Min: 0, Max: 100, Title: "Mass", Unit: "kg"},
		YAxis: abac.AxisSpec{Min: 0, Max: 300, Title: "Distance", Unit: "m"},
	}
	return &abacfile.System{
		Version: abacfile.SystemVersion,
		Graphs: []abac.GraphConfig{
			{ID: "entry", Name: "Entry", Axes: axes, Curves: []abac.Curve{rawLine("base", 0, 0)}, LinkedTo: []string{"family"}},
			{ID: "family", Name: "Family", Axes: axes, Curves: []abac.Curve{rawLine("0", 0, 0), rawLine("100", 100, 100)}, LinkedFrom: []string{"entry"}},
		},
	}
}

func TestFitSystem(t *testing.T) {
	sys := testSystem()
	cfg, err := config.Parse([]byte("fit:\n  method: pchip\n  num_points: 21\n  intermediate: 1\n"))
	require.NoError(t, err)

	rows, err := fitSystem(sys, cfg, "")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	for _, r := range rows {
		assert.Equal(t, abac.MethodPCHIP, r.Method)
		assert.Equal(t, 21, r.Points)
		assert.InDelta(t, 0, r.RMSE, 1e-9)
	}

	family, _ := sys.Graph("family")
	assert.Len(t, family.Curves, 3)
	intermediates := 0
	for i := range family.Curves {
		if family.Curves[i].IsIntermediate() {
			intermediates++
		}
	}
	assert.Equal(t, 1, intermediates)

	// A second pass replaces the intermediate curve rather than adding one.
	_, err = fitSystem(sys, cfg, "family")
	require.NoError(t, err)
	assert.Len(t, family.Curves, 3)

	_, err = fitSystem(sys, cfg, "nope")
	assert.ErrorIs(t, err, abac.ErrNotFound)
}

func TestRunScenario(t *testing.T) {
	sys := testSystem()
	cfg := &config.Config{
		Fit: config.Fit{Method: "pchip", NumPoints: 11},
		Cascade: config.Cascade{
			Input:      50,
			Mode:       config.ModeParameters,
			Trace:      true,
			Parameters: []cascade.GraphParameter{{GraphID: "family", Value: 50}},
		},
	}
	_, err := fitSystem(sys, cfg, "")
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, runScenario(&out, sys, cfg))
	assert.Contains(t, out.String(), "Result: 100.00")
	assert.Contains(t, out.String(), "bracketed")

	cfg.Cascade.Parameters = nil
	out.Reset()
	err = runScenario(&out, sys, cfg)
	require.Error(t, err)
	assert.True(t, strings.Contains(out.String(), "Failed after 1 step(s)"))
}

func TestStartGraph(t *testing.T) {
	sys := testSystem()
	id, err := startGraph(sys, "")
	require.NoError(t, err)
	assert.Equal(t, "entry", id)

	id, err = startGraph(sys, "family")
	require.NoError(t, err)
	assert.Equal(t, "family", id)

	_, err = startGraph(sys, "missing")
	assert.ErrorIs(t, err, abac.ErrNotFound)

	_, err = startGraph(&abacfile.System{}, "")
	assert.Error(t, err)
}
