package main

import (
	goflag "flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/ha1tch/abac-toolkit/pkg/abac"
	"github.com/ha1tch/abac-toolkit/pkg/abacfile"
	"github.com/ha1tch/abac-toolkit/pkg/cascade"
	"github.com/ha1tch/abac-toolkit/pkg/config"
)

func newCascadeCommand() *cobra.Command {
	var (
		start  string
		input  float64
		params []string
		simple bool
		trace  bool
		fit    bool
	)
	cmd := &cobra.Command{
		Use:   "cascade <system>",
		Short: "Propagate a value through a chain of graphs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := loadSystem(args[0])
			if err != nil {
				return err
			}
			parsed, err := parseParams(params)
			if err != nil {
				return err
			}
			cfg := &config.Config{
				Fit: config.Fit{Method: string(abac.MethodNaturalSpline), NumPoints: 200},
				Cascade: config.Cascade{
					Start:      start,
					Input:      input,
					Mode:       config.ModeParameters,
					Trace:      trace,
					Parameters: parsed,
				},
			}
			if simple {
				cfg.Cascade.Mode = config.ModeSimple
			}
			if fit {
				if _, err := fitSystem(sys, cfg, ""); err != nil {
					return err
				}
			}
			return runScenario(cmd.OutOrStdout(), sys, cfg)
		},
	}

	f := cmd.Flags()
	addStartFlag(f, &start)
	f.Float64Var(&input, "input", 0, "value entering the first graph on its X axis")
	f.StringArrayVarP(&params, "param", "p", nil, "graph parameter as graph=value[:headwind|tailwind], repeatable")
	f.BoolVar(&simple, "simple", false, "read every graph on its first curve only, switching axes as needed")
	f.BoolVar(&trace, "trace", false, "print every resolver decision")
	f.BoolVar(&fit, "fit", false, "fit curves with default options before calculating")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newRunCommand() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a YAML scenario: fit the system, then calculate the cascade",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			if cfg.Verbosity > 0 && !cmd.Flags().Changed("v") {
				if err := goflag.Set("v", strconv.Itoa(cfg.Verbosity)); err != nil {
					return err
				}
			}
			if cfg.Cascade.System == "" {
				return fmt.Errorf("%s: cascade.system is required", path)
			}
			sys, err := loadSystem(cfg.Cascade.System)
			if err != nil {
				return err
			}
			rows, err := fitSystem(sys, cfg, "")
			if err != nil {
				return err
			}
			printFitSummary(cmd.OutOrStdout(), rows)
			return runScenario(cmd.OutOrStdout(), sys, cfg)
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", "abac.yaml", "scenario file")
	return cmd
}

// runScenario walks the chain from the configured start graph and prints
// the steps. A failed cascade is returned as an error after the partial
// steps are printed.
func runScenario(w io.Writer, sys *abacfile.System, cfg *config.Config) error {
	chain, err := chainFrom(sys, cfg.Cascade.Start)
	if err != nil {
		return err
	}
	if err := validate(chain); err != nil {
		klog.InfoS("Chain has problems, calculating anyway", "err", err)
	}

	opts := []cascade.Option{cascade.WithLogger(klog.NewKlogr().WithName("cascade"))}
	if cfg.Cascade.Trace {
		opts = append(opts, cascade.WithTrace())
	}
	r := cascade.NewResolver(opts...)

	var res *cascade.Result
	if cfg.Cascade.Mode == config.ModeSimple {
		res = r.Calculate(chain, cfg.Cascade.Input)
	} else {
		res = r.CalculateWithParameters(chain, cfg.Cascade.Input, cfg.Cascade.Parameters)
	}

	renderSteps(w, res)
	renderTrace(w, res.Trace)
	return res.Err()
}

func chainFrom(sys *abacfile.System, start string) ([]abac.GraphConfig, error) {
	id, err := startGraph(sys, start)
	if err != nil {
		return nil, err
	}
	chain := cascade.FindChain(sys.Graphs, id)
	klog.V(1).InfoS("Found chain", "start", id, "length", len(chain))
	return chain, nil
}

func validate(chain []abac.GraphConfig) error {
	v := cascade.ValidateChain(chain)
	for _, e := range v.Errors {
		klog.V(1).InfoS("Chain problem", "problem", e)
	}
	return v.Err()
}

// parseParams parses graph=value[:wind] flags.
func parseParams(flags []string) ([]cascade.GraphParameter, error) {
	var out []cascade.GraphParameter
	for _, f := range flags {
		graph, rest, ok := strings.Cut(f, "=")
		if !ok || graph == "" {
			return nil, fmt.Errorf("invalid parameter %q: want graph=value", f)
		}
		value, wind, _ := strings.Cut(rest, ":")
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid parameter %q: %w", f, err)
		}
		p := cascade.GraphParameter{GraphID: graph, Value: v}
		switch dir := abac.WindDirection(strings.ToLower(wind)); dir {
		case "":
		case abac.WindHeadwind, abac.WindTailwind, abac.WindNone:
			p.WindDirection = dir
		default:
			return nil, fmt.Errorf("invalid parameter %q: unknown wind direction %q", f, wind)
		}
		out = append(out, p)
	}
	return out, nil
}
