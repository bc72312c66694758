package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/ha1tch/abac-toolkit/pkg/abac"
	"github.com/ha1tch/abac-toolkit/pkg/abacfile"
	"github.com/ha1tch/abac-toolkit/pkg/config"
)

// fitRow is one line of the fit report.
type fitRow struct {
	Graph    string
	Curve    string
	Method   abac.Method
	Points   int
	RMSE     float64
	Warnings []string
}

func newFitCommand() *cobra.Command {
	var (
		output string
		graph  string
		cfg    config.Fit
	)
	cmd := &cobra.Command{
		Use:   "fit <system>",
		Short: "Fit every curve of a system and report the error of each fit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := &config.Config{Fit: cfg}
			if err := c.Validate(); err != nil {
				return err
			}
			sys, err := loadSystem(args[0])
			if err != nil {
				return err
			}
			rows, err := fitSystem(sys, c, graph)
			if err != nil {
				return err
			}
			renderFit(cmd.OutOrStdout(), rows)

			if output != "" {
				if err := abacfile.WriteFile(output, sys); err != nil {
					return err
				}
				klog.InfoS("Wrote fitted system", "path", output)
			}
			return nil
		},
	}

	def := abac.DefaultFitOptions()
	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "write the fitted system to this file")
	f.StringVar(&graph, "graph", "", "fit only the graph with this id")
	f.StringVar(&cfg.Method, "method", string(def.Method), "interpolation method: pchip, akima, naturalSpline or catmullRom")
	f.IntVar(&cfg.NumPoints, "points", def.NumPoints, "number of fitted points per curve")
	f.BoolVar(&cfg.Monotonic, "monotonic", false, "force fitted curves to be monotonic")
	f.Float64Var(&cfg.Smoothing, "smoothing", 0, "smoothing factor in [0, 1], 0 disables")
	f.IntVar(&cfg.Intermediate, "intermediate", 0, "synthetic curves to generate between each pair of curves")
	f.BoolVar(&cfg.Refit, "refit", true, "refit curves that already carry a fit")
	return cmd
}

// fitSystem fits the curves of every graph (or only the graph with id
// only) and regenerates intermediate curves when requested.
func fitSystem(sys *abacfile.System, cfg *config.Config, only string) ([]fitRow, error) {
	if only != "" {
		if _, ok := sys.Graph(only); !ok {
			return nil, &abac.NotFoundError{Kind: "graph", ID: only}
		}
	}
	opts := cfg.FitOptions()

	var rows []fitRow
	for i := range sys.Graphs {
		g := &sys.Graphs[i]
		if only != "" && g.ID != only {
			continue
		}

		m := abac.NewManager()
		m.LoadGraph(g)
		for _, id := range m.IDs() {
			c, _ := m.Curve(id)
			if c.IsIntermediate() && cfg.Fit.Intermediate > 0 {
				// Regenerated below.
				_ = m.RemoveCurve(id)
				continue
			}
			if c.HasFit() && !cfg.Fit.Refit {
				continue
			}
			res, err := m.FitCurve(id, opts)
			if err != nil {
				return nil, fmt.Errorf("graph %q: %w", g.Name, err)
			}
			klog.V(1).InfoS("Fitted curve", "graph", g.Name, "curve", c.Name, "method", res.Method, "rmse", res.RMSE)
			rows = append(rows, fitRow{
				Graph:    g.Name,
				Curve:    c.Name,
				Method:   res.Method,
				Points:   len(res.FittedPoints),
				RMSE:     res.RMSE,
				Warnings: res.Warnings,
			})
		}

		if cfg.Fit.Intermediate > 0 {
			added := m.GenerateIntermediateCurves(cfg.Fit.Intermediate)
			klog.V(1).InfoS("Generated intermediate curves", "graph", g.Name, "count", len(added))
		}
		g.Curves = m.Curves()
	}
	return rows, nil
}

func warningCount(rows []fitRow) int {
	n := 0
	for _, r := range rows {
		n += len(r.Warnings)
	}
	return n
}

func printFitSummary(w io.Writer, rows []fitRow) {
	fmt.Fprintf(w, "%d curve(s) fitted, %d warning(s)\n", len(rows), warningCount(rows))
}
