// Package evolution implements the system-level feedback loop: interaction
// records are summarized into failure patterns, a configurable threshold
// decides whether to evolve, and applied changes land in an append-only
// versioned ledger.
//
// The classifier behind pattern extraction is deliberately pluggable; the
// bundled keyword classifier is a deterministic heuristic, not a semantic
// one. Ledger implementations cover in-memory (tests), JSON file
// (round-trip persistence) and SQLite (durable store).
package evolution
