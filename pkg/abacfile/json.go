// Package abacfile reads and writes abac documents.
//
// Two shapes are accepted on input: the single-chart document (axes plus
// curves) and the multi-graph system (graphs, optionally nested under
// "system" with explicit relationships). Both normalize to a System.
package abacfile

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ha1tch/abac-toolkit/pkg/abac"
)

// SystemVersion is written on every exported system.
const SystemVersion = "2.0"

// LegacyGraphName names the graph a single-chart document becomes.
const LegacyGraphName = "Graphique principal"

// ErrEmptyDocument is returned when a document holds neither graphs nor a
// chart.
var ErrEmptyDocument = errors.New("document has no graphs or curves")

// System is a set of linked graphs with its metadata.
type System struct {
	Version  string
	Graphs   []abac.GraphConfig
	Metadata abac.Metadata
}

// Graph returns the graph with the given id.
func (s *System) Graph(id string) (*abac.GraphConfig, bool) {
	return abac.FindGraph(s.Graphs, id)
}

// Relationship is a directed link between two graphs.
type Relationship struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// jsonGraph shadows IsWindRelated so an absent flag can be told apart from
// false.
type jsonGraph struct {
	abac.GraphConfig
	IsWindRelated *bool `json:"isWindRelated,omitempty"`
}

type jsonSystem struct {
	Graphs        []jsonGraph    `json:"graphs"`
	Relationships []Relationship `json:"relationships,omitempty"`
}

// jsonDocument is the on-disk envelope.
type jsonDocument struct {
	Version  string           `json:"version"`
	Axes     *abac.AxesConfig `json:"axes,omitempty"`
	Curves   []abac.Curve     `json:"curves,omitempty"`
	Graphs   []jsonGraph      `json:"graphs,omitempty"`
	System   *jsonSystem      `json:"system,omitempty"`
	Metadata abac.Metadata    `json:"metadata"`
}

// ParseJSON parses either document shape into a System. Curve parameters,
// wind directions and reference edges missing from the file are recovered
// from names.
func ParseJSON(data []byte) (*System, error) {
	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing abac document: %w", err)
	}

	sys := &System{Version: doc.Version, Metadata: doc.Metadata}
	var rels []Relationship
	var graphs []jsonGraph

	switch {
	case doc.System != nil && len(doc.System.Graphs) > 0:
		graphs = doc.System.Graphs
		rels = doc.System.Relationships
	case len(doc.Graphs) > 0:
		graphs = doc.Graphs
		if doc.System != nil {
			rels = doc.System.Relationships
		}
	case doc.Axes != nil && doc.Curves != nil:
		axes := *doc.Axes
		graphs = []jsonGraph{{GraphConfig: abac.GraphConfig{
			Name:   LegacyGraphName,
			Axes:   &axes,
			Curves: doc.Curves,
		}}}
	default:
		return nil, ErrEmptyDocument
	}

	for _, jg := range graphs {
		g := jg.GraphConfig
		if g.ID == "" {
			g.ID = uuid.NewString()
		}
		if g.Curves == nil {
			g.Curves = []abac.Curve{}
		}
		abac.MigrateGraph(&g)
		if jg.IsWindRelated != nil {
			g.IsWindRelated = *jg.IsWindRelated
		} else {
			g.IsWindRelated = abac.DetectWindRelated(&g)
		}
		sys.Graphs = append(sys.Graphs, g)
	}

	for _, r := range rels {
		if err := abac.Link(sys.Graphs, r.From, r.To); err != nil {
			return nil, fmt.Errorf("relationship %s -> %s: %w", r.From, r.To, err)
		}
	}
	return sys, nil
}

// ToJSON writes s as a multi-graph document.
func ToJSON(s *System, pretty bool) ([]byte, error) {
	doc := jsonDocument{
		Version:  SystemVersion,
		Metadata: s.Metadata,
	}
	for _, g := range s.Graphs {
		wind := g.IsWindRelated
		doc.Graphs = append(doc.Graphs, jsonGraph{GraphConfig: g, IsWindRelated: &wind})
	}
	if doc.Graphs == nil {
		doc.Graphs = []jsonGraph{}
	}

	if pretty {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}

// ParseModel parses a single-chart document.
func ParseModel(data []byte) (*abac.Model, error) {
	var m abac.Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing abac model: %w", err)
	}
	if m.Axes == nil {
		return nil, fmt.Errorf("abac model: %w: axes missing", abac.ErrInvalidState)
	}
	for i := range m.Curves {
		abac.MigrateCurve(&m.Curves[i])
	}
	return &m, nil
}

// ModelToJSON writes a single-chart document.
func ModelToJSON(m *abac.Model, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(m, "", "  ")
	}
	return json.Marshal(m)
}
