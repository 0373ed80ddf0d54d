// Package utils provides shared low-level helpers used throughout the reactloop
// internals: a synchronous JSON POST helper for provider and collaborator APIs,
// log-safe JSON rendering and a simple elapsed-time timer.
//
// Key entry points: [DoPostSync] for synchronous JSON round-trips,
// [JSONToString] for log output, and [Timer] for measuring latency.
package utils
