// Package agent implements a single autonomous worker: identity,
// immutable configuration, the Idle/Thinking/Executing state machine and
// the Plan, Act, Reflect, Evolve execution loop over the shared tool
// registry.
//
// An agent runs at most one task at a time; concurrency lives across
// agents in the orchestrator, never within one. Planning is a pure
// function of the task, recalled context and available tool names, so the
// loop is fully testable with the deterministic rule planner and stub
// collaborators.
package agent
