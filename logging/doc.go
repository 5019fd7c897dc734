// Package logging provides a tiny abstraction over slog so downstream
// code can depend on a minimal interface (Logger) while allowing users to
// plug any structured logger. It also offers a richer RuntimeLogger with
// contextual helpers (agent, task, component) and domain specific logging
// helpers for tool executions, task lifecycles and evolution events.
package logging
