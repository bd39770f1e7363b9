// Package metrics exposes security system notifications as Prometheus metrics.
//
// The Collector keeps its own registry and can dump it in the text exposition
// format for the node exporter textfile collector. Counters cover one
// session only: a one-shot CLI command writes the counts of that command,
// a "run" session writes the counts of every command it executed.
package metrics
