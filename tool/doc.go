// Package tool implements the shared tool registry: schema-described
// invokable capabilities that agents resolve and execute at runtime,
// including tools created by agents during execution.
//
// The registry is append-only. Tools are registered (never deleted or
// mutated in place), looked up by id or by name+creator, and executed
// through a uniform Execute call that always yields exactly one Execution
// record — tool body failures are captured into the record's error field
// rather than propagated, and per-tool usage statistics are recomputed
// from those records.
package tool
