// Package diagnostics observes control trees for tests and tooling.
//
// A [Recorder] captures the ordered lifecycle stream of a tree, [Capture]
// takes a serializable [Snapshot] of a subtree, and [Metrics] exports
// lifecycle counters to Prometheus. All three plug into a tree through
// [tree.WithObserver] or per-node listeners and never mutate the tree.
package diagnostics
