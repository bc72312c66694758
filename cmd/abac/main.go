// Command abac fits abac curves and runs cascade calculations over a system
// of linked performance charts.
package main

import (
	goflag "flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/ha1tch/abac-toolkit/pkg/abac"
	"github.com/ha1tch/abac-toolkit/pkg/abacfile"
)

const example = `  abac info takeoff.json
  abac chain takeoff.json --start temperature
  abac fit takeoff.json --method pchip -o takeoff-fitted.json
  abac cascade takeoff.json --input 15 --param altitude=2000 --param wind=10:tailwind
  abac run -c scenario.yaml -v=1`

func main() {
	klog.InitFlags(nil)

	err := newRootCommand().Execute()
	klog.Flush()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "abac",
		Short:         "abac - performance chart toolkit",
		Long:          "abac fits digitized performance chart curves and chains charts into cascade calculations.",
		Example:       example,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().AddGoFlagSet(goflag.CommandLine)

	root.AddCommand(
		newInfoCommand(),
		newValidateCommand(),
		newChainCommand(),
		newFitCommand(),
		newCascadeCommand(),
		newRunCommand(),
	)
	return root
}

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <system>",
		Short: "Show graphs, curves and links of a system",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := loadSystem(args[0])
			if err != nil {
				return err
			}
			printMetadata(cmd.OutOrStdout(), sys)
			renderGraphs(cmd.OutOrStdout(), sys.Graphs)
			return nil
		},
	}
}

func newValidateCommand() *cobra.Command {
	var start string
	cmd := &cobra.Command{
		Use:   "validate <system>",
		Short: "Check that a chain is ready for cascade calculations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := loadSystem(args[0])
			if err != nil {
				return err
			}
			chain, err := chainFrom(sys, start)
			if err != nil {
				return err
			}
			if err := validate(chain); err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid chain of %d graph(s)\n", args[0], len(chain))
			return nil
		},
	}
	addStartFlag(cmd.Flags(), &start)
	return cmd
}

func newChainCommand() *cobra.Command {
	var start string
	cmd := &cobra.Command{
		Use:   "chain <system>",
		Short: "List the graphs a cascade walks through",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := loadSystem(args[0])
			if err != nil {
				return err
			}
			chain, err := chainFrom(sys, start)
			if err != nil {
				return err
			}
			renderChain(cmd.OutOrStdout(), chain)
			return nil
		},
	}
	addStartFlag(cmd.Flags(), &start)
	return cmd
}

func addStartFlag(fs *pflag.FlagSet, start *string) {
	fs.StringVar(start, "start", "", "id of the first graph (default: first graph without incoming links)")
}

func loadSystem(path string) (*abacfile.System, error) {
	sys, err := abacfile.ReadFile(path)
	if err != nil {
		return nil, err
	}
	klog.V(2).InfoS("Loaded system", "path", path, "graphs", len(sys.Graphs), "version", sys.Version)
	return sys, nil
}

// startGraph picks the id to start a chain from: the flag value, else the
// first entry graph, else the first graph.
func startGraph(sys *abacfile.System, start string) (string, error) {
	if start != "" {
		if _, ok := sys.Graph(start); !ok {
			return "", &abac.NotFoundError{Kind: "graph", ID: start}
		}
		return start, nil
	}
	if len(sys.Graphs) == 0 {
		return "", fmt.Errorf("system has no graphs")
	}
	if entries := abac.EntryGraphs(sys.Graphs); len(entries) > 0 {
		return entries[0], nil
	}
	return sys.Graphs[0].ID, nil
}
