// Package cli implements the cromwell-tools command line.
//
// # Commands
//
// Every API operation has one cobra command that maps its flags onto the
// operation's inputs:
//   - submit, status, abort, release_hold, metadata, query
//   - wait: polls workflows until they finish or the timeout passes
//   - health, version
//   - validate: runs womtool locally, no server needed
//
// # Output
//
// Results go to stdout: styled tables by default, indented JSON with --json,
// so output can be piped (cromwell-tools status --uuid X --json | jq .).
// Errors go to stderr followed by a hint; the exit code depends on the error
// class (see package app).
//
// Configuration is loaded lazily on the first command that needs it, after
// command-specific flags have been applied on top of the global ones.
package cli
