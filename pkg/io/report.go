package io

import "fmt"

// DiagnosticKind classifies an ingestion diagnostic.
type DiagnosticKind string

const (
	// KindSkippedNode: a node record could not be used (bad JSON, no id).
	KindSkippedNode DiagnosticKind = "skipped_node"
	// KindDroppedEdge: a link was not inserted (bad record or dangling endpoint).
	KindDroppedEdge DiagnosticKind = "dropped_edge"
	// KindDefaultedField: a present but invalid attribute was replaced by its default.
	KindDefaultedField DiagnosticKind = "defaulted_field"
	// KindReplacedNode: a later record with the same id replaced an earlier one.
	KindReplacedNode DiagnosticKind = "replaced_node"
)

// Diagnostic describes one recoverable ingestion problem. Index is the
// position of the offending record in its array.
type Diagnostic struct {
	Kind   DiagnosticKind `json:"kind"`
	Index  int            `json:"index"`
	NodeID string         `json:"node_id,omitempty"`
	Source string         `json:"source,omitempty"`
	Target string         `json:"target,omitempty"`
	Reason string         `json:"reason"`
}

func (d Diagnostic) String() string {
	switch d.Kind {
	case KindDroppedEdge:
		return fmt.Sprintf("%s #%d %s->%s: %s", d.Kind, d.Index, d.Source, d.Target, d.Reason)
	case KindSkippedNode:
		return fmt.Sprintf("%s #%d: %s", d.Kind, d.Index, d.Reason)
	default:
		return fmt.Sprintf("%s #%d %s: %s", d.Kind, d.Index, d.NodeID, d.Reason)
	}
}

// Report summarizes an ingest: the resulting graph size and every
// diagnostic, in document order (nodes first, then links).
type Report struct {
	Nodes       int          `json:"nodes"`
	Edges       int          `json:"edges"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Filter returns the diagnostics of the given kind.
func (r Report) Filter(kind DiagnosticKind) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// DroppedEdges returns the links that were not inserted.
func (r Report) DroppedEdges() []Diagnostic { return r.Filter(KindDroppedEdge) }

// Clean reports whether the ingest produced no diagnostics.
func (r Report) Clean() bool { return len(r.Diagnostics) == 0 }
