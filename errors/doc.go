// Package errors provides the structured error type shared by wirekit packages.
// Every error carries a machine-readable code and a fatal flag that separates
// configuration errors (rejected up front) from recoverable wiring problems
// such as a missing dependency.
package errors
