package abac

import "github.com/mohae/deepcopy"

// FindGraph returns the graph with the given id.
func FindGraph(graphs []GraphConfig, id string) (*GraphConfig, bool) {
	for i := range graphs {
		if graphs[i].ID == id {
			return &graphs[i], true
		}
	}
	return nil, false
}

// Link adds a directed edge from -> to, updating LinkedTo on the source and
// LinkedFrom on the target. Existing edges are left alone.
func Link(graphs []GraphConfig, fromID, toID string) error {
	from, ok := FindGraph(graphs, fromID)
	if !ok {
		return &NotFoundError{Kind: "graph", ID: fromID}
	}
	to, ok := FindGraph(graphs, toID)
	if !ok {
		return &NotFoundError{Kind: "graph", ID: toID}
	}
	from.LinkedTo = appendUnique(from.LinkedTo, toID)
	to.LinkedFrom = appendUnique(to.LinkedFrom, fromID)
	return nil
}

// Unlink removes the edge from -> to from both graphs.
func Unlink(graphs []GraphConfig, fromID, toID string) error {
	from, ok := FindGraph(graphs, fromID)
	if !ok {
		return &NotFoundError{Kind: "graph", ID: fromID}
	}
	to, ok := FindGraph(graphs, toID)
	if !ok {
		return &NotFoundError{Kind: "graph", ID: toID}
	}
	from.LinkedTo = remove(from.LinkedTo, toID)
	to.LinkedFrom = remove(to.LinkedFrom, fromID)
	return nil
}

// EntryGraphs returns the ids of graphs no other graph links to, in order.
// A fully cyclic system has none.
func EntryGraphs(graphs []GraphConfig) []string {
	var ids []string
	for i := range graphs {
		if len(graphs[i].LinkedFrom) == 0 {
			ids = append(ids, graphs[i].ID)
		}
	}
	return ids
}

// CloneGraphs returns a deep copy of graphs.
func CloneGraphs(graphs []GraphConfig) []GraphConfig {
	if graphs == nil {
		return nil
	}
	return deepcopy.Copy(graphs).([]GraphConfig)
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

func remove(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
