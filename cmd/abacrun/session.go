package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ha1tch/abac-toolkit/pkg/abac"
	"github.com/ha1tch/abac-toolkit/pkg/abacfile"
	"github.com/ha1tch/abac-toolkit/pkg/cascade"
)

// Prompt is one value the calculator asks for.
type Prompt struct {
	Graph    *abac.GraphConfig // nil for the entry value
	Label    string
	Optional bool
}

// Session walks the user through one cascade: the entry value, then a
// parameter per graph, then the result.
type Session struct {
	system   *abacfile.System
	resolver *cascade.Resolver
	simple   bool

	chain   []abac.GraphConfig
	prompts []Prompt
	next    int
	input   float64
	params  []cascade.GraphParameter
	result  *cascade.Result
}

// NewSession creates a session over sys.
func NewSession(sys *abacfile.System, r *cascade.Resolver) *Session {
	return &Session{system: sys, resolver: r}
}

// SetSimple switches between parameter mode and simple mode. It takes
// effect on the next Start.
func (s *Session) SetSimple(simple bool) { s.simple = simple }

// Simple reports whether the session runs in simple mode.
func (s *Session) Simple() bool { return s.simple }

// Chain returns the graphs of the current run.
func (s *Session) Chain() []abac.GraphConfig { return s.chain }

// Start begins a run from the graph with the given id.
func (s *Session) Start(graphID string) error {
	chain := cascade.FindChain(s.system.Graphs, graphID)
	if len(chain) == 0 {
		return &abac.NotFoundError{Kind: "graph", ID: graphID}
	}
	s.chain = chain
	s.next = 0
	s.input = 0
	s.params = nil
	s.result = nil

	first := &chain[0]
	s.prompts = []Prompt{{Label: fmt.Sprintf("%s %s: ", first.Name, axisName(first, true))}}
	if s.simple {
		return nil
	}
	for i := range chain {
		g := &chain[i]
		label := fmt.Sprintf("%s %s", g.Name, axisName(g, false))
		if g.IsWindRelated {
			label += " [value[:headwind|tailwind]]"
		}
		p := Prompt{Graph: g, Label: label + ": "}
		if i == 0 {
			p.Optional = true
			p.Label = label + " (Enter to skip): "
		}
		s.prompts = append(s.prompts, p)
	}
	return nil
}

func axisName(g *abac.GraphConfig, entry bool) string {
	if g.Axes == nil {
		if entry {
			return "input"
		}
		return "parameter"
	}
	a := g.Axes.XAxis
	name := a.Title
	if name == "" {
		name = "X"
	}
	if a.Unit != "" {
		name += " (" + a.Unit + ")"
	}
	return name
}

// Prompt returns the pending prompt, or false once the run is complete.
func (s *Session) Prompt() (Prompt, bool) {
	if s.next >= len(s.prompts) {
		return Prompt{}, false
	}
	return s.prompts[s.next], true
}

// Submit answers the pending prompt. After the last answer the cascade is
// calculated.
func (s *Session) Submit(text string) error {
	p, ok := s.Prompt()
	if !ok {
		return fmt.Errorf("no value expected")
	}
	text = strings.TrimSpace(text)

	switch {
	case p.Graph == nil:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", text)
		}
		s.input = v
	case text == "" && p.Optional:
	default:
		v, dir, err := parseValue(text)
		if err != nil {
			return err
		}
		s.params = append(s.params, cascade.GraphParameter{
			GraphID:       p.Graph.ID,
			Value:         v,
			Name:          axisName(p.Graph, false),
			WindDirection: dir,
		})
	}

	s.next++
	if s.next == len(s.prompts) {
		s.calculate()
	}
	return nil
}

func (s *Session) calculate() {
	if s.simple {
		s.result = s.resolver.Calculate(s.chain, s.input)
		return
	}
	s.result = s.resolver.CalculateWithParameters(s.chain, s.input, s.params)
}

// Result returns the outcome of the run, or nil while prompts remain.
func (s *Session) Result() *cascade.Result { return s.result }

// parseValue parses "value" or "value:direction".
func parseValue(text string) (float64, abac.WindDirection, error) {
	num, wind, _ := strings.Cut(text, ":")
	v, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid number %q", num)
	}
	switch dir := abac.WindDirection(strings.ToLower(strings.TrimSpace(wind))); dir {
	case "":
		return v, "", nil
	case abac.WindHeadwind, abac.WindTailwind:
		return v, dir, nil
	default:
		return 0, "", fmt.Errorf("unknown wind direction %q", wind)
	}
}
