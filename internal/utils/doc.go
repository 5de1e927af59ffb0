// Package utils provides shared utility functions for frontcrypt.
//
// # Filesystem Utilities
//
// Output path resolution for bundle builds:
//   - DetermineOutputDir: default <source><suffix> or the requested path
//   - ResolveOutputDir: absolute output path, rejecting the source itself and
//     anything nested inside it
//   - EnsureDirectoryReadable: checks the source is a readable directory
//   - FormatPaths: formats file paths for human-readable output
//
// # Terminal Utilities
//
//   - ReadPassphrase: masked password entry via golang.org/x/term
//   - IsTerminal: reports whether stdin is a terminal
//
// # System Utilities
//
//   - GetUsername: returns the current system username for the audit trail
package utils
