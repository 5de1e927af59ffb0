// Package audit provides an audit trail for frontcrypt operations.
//
// Builds, inspections and serve sessions are recorded in a per-user log so
// that it is possible to tell which bundles were produced from which source
// directories, and when.
//
// # Log Format
//
// The audit log is stored as JSON Lines (one JSON object per line) at:
//
//	<user config dir>/frontcrypt/audit.jsonl
//
// Each entry contains:
//   - Timestamp (RFC3339 with microseconds, UTC)
//   - Local username
//   - Operation name
//   - Bundle id, source and output directories
//   - File and directory counts and payload size, where known
//
// Passwords, salts and keys are never recorded.
//
// # Failure Handling
//
// Audit logging is best-effort. If logging fails the operation continues
// without error.
//
// # Reading Logs
//
// Use ReadEntries() to parse the audit log for display. Malformed entries
// are silently skipped to handle partial writes.
package audit
