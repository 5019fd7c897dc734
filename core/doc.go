// Package core defines the shared data model and contracts of the
// aegnt-unltd orchestration runtime: agent configuration and lifecycle
// states, tasks and their outcomes, the error taxonomy used across
// components, and the admission gate bounding concurrent external calls.
//
// Core deliberately contains no behavior beyond small value types and
// synchronization primitives. The moving parts live in the agent, tool,
// orchestrator and evolution packages, all of which depend on core and
// never on each other's internals.
package core
