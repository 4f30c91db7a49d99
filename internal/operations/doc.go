// Package operations orchestrates the analytics pipeline. Stages run
// sequentially through a manager that tracks per-stage state, enforces
// timeouts and broadcasts progress events to connected dashboard clients.
package operations
