package main

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/abac-toolkit/pkg/abac"
	"github.com/ha1tch/abac-toolkit/pkg/abacfile"
	"github.com/ha1tch/abac-toolkit/pkg/cascade"
)

func fittedLine(name string, param, offset float64) abac.Curve {
	pts := []abac.Point{{X: 0, Y: offset}, {X: 50, Y: 50 + offset}, {X: 100, Y: 100 + offset}}
	return abac.Curve{
		ID:        name,
		Name:      name,
		Parameter: abac.Float(param),
		Points:    pts,
		Fitted:    &abac.FittedResult{Points: pts, Method: abac.MethodPCHIP},
	}
}

func testSystem() *abacfile.System {
	axes := &abac.AxesConfig{
		XAxis: abac.AxisSpec{Min: 0, Max: 100, Title: "Mass", Unit: "kg"},
		YAxis: abac.AxisSpec{Min: 0, Max: 300, Title: "Distance", Unit: "m"},
	}
	return &abacfile.System{
		Version:  abacfile.SystemVersion,
		Metadata: abac.Metadata{SystemName: "Takeoff"},
		Graphs: []abac.GraphConfig{
			{ID: "family", Name: "Family", Axes: axes, Curves: []abac.Curve{fittedLine("0", 0, 0), fittedLine("100", 100, 100)}, LinkedFrom: []string{"entry"}},
			{ID: "entry", Name: "Entry", Axes: axes, Curves: []abac.Curve{fittedLine("base", 0, 0)}, LinkedTo: []string{"family"}},
		},
	}
}

func newTestCalculator(t *testing.T) (*Calculator, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(100, 30)
	return NewCalculator(screen, testSystem(), "takeoff.json"), screen
}

func screenText(s tcell.SimulationScreen) string {
	cells, w, h := s.GetContents()
	var sb strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := cells[y*w+x]
			if len(c.Runes) > 0 {
				sb.WriteRune(c.Runes[0])
			} else {
				sb.WriteRune(' ')
			}
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}

func render(c *Calculator, s tcell.SimulationScreen) string {
	c.draw()
	s.Show()
	return screenText(s)
}

func press(c *Calculator, key tcell.Key) bool {
	return c.handleKey(tcell.NewEventKey(key, 0, tcell.ModNone))
}

func typeText(c *Calculator, text string) {
	for _, r := range text {
		c.handleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func TestMenuListsEntryGraphsFirst(t *testing.T) {
	c, s := newTestCalculator(t)
	assert.Equal(t, []string{"entry", "family", itemMode, itemQuit}, c.menuGraphs)
	assert.Equal(t, "Entry (2 graph chain)", c.menuItems[0])

	text := render(c, s)
	assert.Contains(t, text, "Entry (2 graph chain)")
	assert.Contains(t, text, "Takeoff")
	assert.Contains(t, text, "MENU")
}

func TestCalculatorWorkflow(t *testing.T) {
	c, s := newTestCalculator(t)

	press(c, tcell.KeyEnter)
	require.Equal(t, ModeInput, c.mode)
	assert.Contains(t, render(c, s), "Entry Mass (kg): _")

	typeText(c, "50")
	press(c, tcell.KeyEnter)
	// The entry graph's parameter is optional.
	p, ok := c.session.Prompt()
	require.True(t, ok)
	assert.True(t, p.Optional)
	press(c, tcell.KeyEnter)

	typeText(c, "5x")
	press(c, tcell.KeyBackspace2)
	typeText(c, "0")
	press(c, tcell.KeyEnter)

	require.Equal(t, ModeResult, c.mode)
	assert.Equal(t, "Result: 100.00", c.message)
	text := render(c, s)
	assert.Contains(t, text, "2. Family: 50.00 -> 100.00 at 50 [bracketed]")
	assert.Contains(t, text, "Result: 100.00")
	assert.NotContains(t, text, "Family: bracketed lower=0")

	c.handleKey(tcell.NewEventKey(tcell.KeyRune, 't', tcell.ModNone))
	assert.Contains(t, render(c, s), "Family: bracketed lower=0 upper=100")

	c.handleKey(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone))
	assert.Equal(t, ModeInput, c.mode)
	press(c, tcell.KeyEscape)
	assert.Equal(t, ModeMenu, c.mode)
}

func TestCalculatorRejectsBadInput(t *testing.T) {
	c, _ := newTestCalculator(t)
	press(c, tcell.KeyEnter)
	typeText(c, "abc")
	press(c, tcell.KeyEnter)

	assert.Equal(t, ModeInput, c.mode)
	assert.Equal(t, MsgError, c.messageType)
	assert.Contains(t, c.message, "invalid number")
	assert.Empty(t, c.inputBuffer)
}

func TestCalculatorModeToggleAndQuit(t *testing.T) {
	c, _ := newTestCalculator(t)

	c.menuSelected = 2
	press(c, tcell.KeyEnter)
	assert.True(t, c.session.Simple())
	assert.Equal(t, "Mode: Simple", c.menuItems[2])

	c.menuSelected = 0
	press(c, tcell.KeyEnter)
	typeText(c, "50")
	press(c, tcell.KeyEnter)
	require.Equal(t, ModeResult, c.mode)
	require.NotNil(t, c.session.Result())
	assert.Len(t, c.session.Result().Steps, 2)

	press(c, tcell.KeyEscape)
	press(c, tcell.KeyDown)
	press(c, tcell.KeyDown)
	press(c, tcell.KeyDown)
	assert.True(t, press(c, tcell.KeyEnter), "Quit item ends the loop")
	assert.True(t, press(c, tcell.KeyCtrlC))
}

func TestSessionPrompts(t *testing.T) {
	sys := testSystem()
	wind := &sys.Graphs[0]
	wind.IsWindRelated = true

	s := NewSession(sys, cascade.NewResolver())
	require.NoError(t, s.Start("entry"))
	require.Len(t, s.prompts, 3)
	assert.Nil(t, s.prompts[0].Graph)
	assert.Contains(t, s.prompts[2].Label, "headwind|tailwind")

	require.NoError(t, s.Submit("50"))
	require.NoError(t, s.Submit(""))
	assert.Error(t, s.Submit(""), "chained graphs need a parameter")
	assert.Error(t, s.Submit("5:crosswind"))
	require.NoError(t, s.Submit("50:headwind"))

	res := s.Result()
	require.NotNil(t, res)
	assert.True(t, res.Success, res.Error)
	assert.Equal(t, abac.WindHeadwind, s.params[0].WindDirection)
	assert.Error(t, s.Submit("1"))

	assert.ErrorIs(t, s.Start("missing"), abac.ErrNotFound)
}

func TestParseValue(t *testing.T) {
	v, dir, err := parseValue(" 12.5 : Tailwind ")
	require.NoError(t, err)
	assert.Equal(t, 12.5, v)
	assert.Equal(t, abac.WindTailwind, dir)

	v, dir, err = parseValue("-3")
	require.NoError(t, err)
	assert.Equal(t, -3.0, v)
	assert.Equal(t, abac.WindDirection(""), dir)

	_, _, err = parseValue("x")
	assert.Error(t, err)
}
