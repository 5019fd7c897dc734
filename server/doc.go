// Package server exposes the orchestrator over HTTP: agent lifecycle,
// task execution and broadcast, registry inspection and status. Handlers
// are thin pass-throughs; the server holds an explicit orchestrator
// instance and drains gracefully on shutdown.
package server
