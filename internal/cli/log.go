// Package cli implements the graphvis command-line interface.
//
// Commands read a graph document, prepare it (chain collapsing, isolated
// node removal), and then inspect, lay out, query, render or serve it. The
// CLI is built with cobra; status lines use lipgloss styles and the
// explorer is a bubbletea program.
//
// # Commands
//
//   - inspect: statistics and ingestion diagnostics
//   - collapse: write the chain-collapsed graph
//   - layout: write node coordinates as JSON
//   - paths: list the paths through a node
//   - render: SVG, DOT, PNG or PDF via Graphviz
//   - explore: interactive path highlighting in the terminal
//   - serve: JSON HTTP API, optionally watching files
//   - mcp: Model Context Protocol server on stdio
//   - config, cache, completion: housekeeping
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs every pipeline stage, cache lookup and HTTP request through the
// observability hooks.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger writing to w at level, with timestamps
// formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}
