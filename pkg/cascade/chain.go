package cascade

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/ha1tch/abac-toolkit/pkg/abac"
)

// FindChain walks linkedTo[0] from startID until a graph has no outgoing
// link, the link points to an unknown graph, or a graph repeats.
func FindChain(graphs []abac.GraphConfig, startID string) []abac.GraphConfig {
	var chain []abac.GraphConfig
	visited := make(map[string]bool)

	current, ok := abac.FindGraph(graphs, startID)
	for ok && !visited[current.ID] {
		chain = append(chain, *current)
		visited[current.ID] = true
		if len(current.LinkedTo) == 0 {
			break
		}
		current, ok = abac.FindGraph(graphs, current.LinkedTo[0])
	}
	return chain
}

// Validation lists the problems found in a chain.
type Validation struct {
	Valid  bool
	Errors []string
}

// Err combines the problems into one error, or returns nil.
func (v Validation) Err() error {
	var err error
	for _, e := range v.Errors {
		err = multierr.Append(err, errors.New(e))
	}
	return err
}

// ValidateChain checks that every graph has axes and fitted curves and that
// each graph declaring links points to its successor.
func ValidateChain(chain []abac.GraphConfig) Validation {
	var errs []string
	for i := range chain {
		g := &chain[i]
		if g.Axes == nil {
			errs = append(errs, fmt.Sprintf("%s: axes not configured", g.Name))
		}
		if len(g.Curves) == 0 {
			errs = append(errs, fmt.Sprintf("%s: no curves defined", g.Name))
		} else {
			unfitted := 0
			for j := range g.Curves {
				if !g.Curves[j].HasFit() {
					unfitted++
				}
			}
			if unfitted > 0 {
				errs = append(errs, fmt.Sprintf("%s: %d curve(s) not fitted", g.Name, unfitted))
			}
		}
		if i < len(chain)-1 && g.LinkedTo != nil && !contains(g.LinkedTo, chain[i+1].ID) {
			errs = append(errs, fmt.Sprintf("%s: not linked to %s", g.Name, chain[i+1].Name))
		}
	}
	return Validation{Valid: len(errs) == 0, Errors: errs}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
