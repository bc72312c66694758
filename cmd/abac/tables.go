package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ha1tch/abac-toolkit/pkg/abac"
	"github.com/ha1tch/abac-toolkit/pkg/abacfile"
	"github.com/ha1tch/abac-toolkit/pkg/cascade"
)

func newTable(w io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	return t
}

func printMetadata(w io.Writer, sys *abacfile.System) {
	md := sys.Metadata
	fmt.Fprintf(w, "Version:     %s\n", sys.Version)
	if md.SystemName != "" {
		fmt.Fprintf(w, "System:      %s\n", md.SystemName)
	}
	if md.SystemType != "" {
		typ := md.SystemType
		if !abac.IsSystemType(typ) {
			typ += " (unknown type)"
		}
		fmt.Fprintf(w, "Type:        %s\n", typ)
	}
	if md.AircraftModel != "" {
		fmt.Fprintf(w, "Aircraft:    %s\n", md.AircraftModel)
	}
	if md.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", md.Description)
	}
	fmt.Fprintf(w, "Graphs:      %d\n\n", len(sys.Graphs))
}

func axisLabel(a abac.AxisSpec) string {
	label := a.Title
	if a.Unit != "" {
		label += " (" + a.Unit + ")"
	}
	return fmt.Sprintf("%s [%g, %g]", label, a.Min, a.Max)
}

func renderGraphs(w io.Writer, graphs []abac.GraphConfig) {
	t := newTable(w, table.Row{"ID", "Name", "X", "Curves", "Fitted", "Wind", "Edge", "Linked to"})
	for i := range graphs {
		g := &graphs[i]
		x := "-"
		if g.Axes != nil {
			x = axisLabel(g.Axes.XAxis)
		}
		fitted := 0
		for j := range g.Curves {
			if g.Curves[j].HasFit() {
				fitted++
			}
		}
		t.AppendRow(table.Row{g.ID, g.Name, x, len(g.Curves), fitted, g.IsWindRelated, g.Edge(), strings.Join(g.LinkedTo, ", ")})
	}
	t.Render()
}

func renderChain(w io.Writer, chain []abac.GraphConfig) {
	t := newTable(w, table.Row{"#", "ID", "Name", "Parameter axis", "Output axis", "Curves"})
	for i := range chain {
		g := &chain[i]
		x, y := "-", "-"
		if g.Axes != nil {
			x, y = axisLabel(g.Axes.XAxis), axisLabel(g.Axes.YAxis)
		}
		t.AppendRow(table.Row{i + 1, g.ID, g.Name, x, y, len(g.Curves)})
	}
	t.Render()
}

func renderFit(w io.Writer, rows []fitRow) {
	t := newTable(w, table.Row{"Graph", "Curve", "Method", "Points", "RMSE", "Warnings"})
	for _, r := range rows {
		t.AppendRow(table.Row{r.Graph, r.Curve, r.Method, r.Points, fmt.Sprintf("%.4f", r.RMSE), strings.Join(r.Warnings, "; ")})
	}
	t.Render()
	printFitSummary(w, rows)
}

func formatOptional(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

func renderSteps(w io.Writer, res *cascade.Result) {
	t := newTable(w, table.Row{"#", "Graph", "Input", "Parameter", "Output", "Kind", "Curve"})
	for i, s := range res.Steps {
		param := formatOptional(s.Parameter, "%g")
		if s.ParameterName != "" {
			param += " " + s.ParameterName
		}
		kind := s.Kind
		if s.InputAxis != "" {
			kind = fmt.Sprintf("%s %s->%s", kind, s.InputAxis, s.OutputAxis)
		}
		t.AppendRow(table.Row{i + 1, s.GraphName, fmt.Sprintf("%.2f", s.Input), param, fmt.Sprintf("%.2f", s.Output), kind, s.CurveUsed})
	}
	t.Render()

	if res.Success {
		fmt.Fprintf(w, "Result: %.2f\n", res.FinalValue)
	} else {
		fmt.Fprintf(w, "Failed after %d step(s) at %.2f: %s\n", len(res.Steps), res.FinalValue, res.Error)
	}
}

func renderTrace(w io.Writer, entries []cascade.TraceEntry) {
	if len(entries) == 0 {
		return
	}
	t := newTable(w, table.Row{"Graph", "Decision", "Details"})
	for _, e := range entries {
		var kv []string
		for i := 0; i+1 < len(e.KeysAndValues); i += 2 {
			kv = append(kv, fmt.Sprintf("%v=%v", e.KeysAndValues[i], e.KeysAndValues[i+1]))
		}
		t.AppendRow(table.Row{e.Graph, e.Message, strings.Join(kv, " ")})
	}
	t.Render()
}
