package cascade

import "github.com/go-logr/logr"

// TraceEntry is one resolver decision.
type TraceEntry struct {
	Graph         string        `json:"graph"`
	Message       string        `json:"message"`
	KeysAndValues []interface{} `json:"values,omitempty"`
}

// tracer forwards decisions to the logger at V(1) and, when collecting,
// keeps them for the result.
type tracer struct {
	log     logr.Logger
	collect bool
	entries []TraceEntry
}

func (t *tracer) note(graph, msg string, kv ...interface{}) {
	if t.collect {
		t.entries = append(t.entries, TraceEntry{Graph: graph, Message: msg, KeysAndValues: kv})
	}
	if l := t.log.V(1); l.Enabled() {
		l.Info(msg, append([]interface{}{"graph", graph}, kv...)...)
	}
}
