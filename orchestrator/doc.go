// Package orchestrator owns the agent pool and the master task table. It
// routes single tasks, broadcasts independent task copies to many agents,
// runs bounded-concurrency batches distributed round-robin, and serves
// non-blocking status snapshots.
//
// The orchestrator is an explicit instance constructed once at process
// start; there is no package-level singleton.
package orchestrator
