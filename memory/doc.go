// Package memory defines the external memory collaborator consumed by
// agents during planning: a store that memorizes content with an optional
// embedding and recalls ranked records for a query.
//
// Recall ordering is fixed: knowledge-graph-sourced records come first
// (deduplicated by id), followed by vector-similarity records, each tagged
// with its source. The in-process UnifiedStore stands in for the real
// graph + vector backends with deterministic substring and cosine
// scoring, keeping the orchestration core testable without services.
package memory
