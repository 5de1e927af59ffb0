// Package workflows provides high-level orchestration for frontcrypt commands.
//
// Workflows coordinate the archive, secrets, bundle and intercept packages
// to implement complete user-facing features. Each workflow handles a single
// command's business logic, independent of CLI concerns like flag parsing,
// spinners, and output formatting.
//
// # Available Workflows
//
//   - Build: Archives a directory, encrypts it and writes a bundle
//   - Unlock: Decrypts a bundle back into its archive
//   - Inspect: Unlocks a bundle and lists the files it serves
//   - Serve: Hosts a bundle over HTTP, optionally pre-unlocked
//   - Log: Reads the audit trail
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, allowing
// the CLI layer to provide appropriate user-facing messages without string
// matching:
//
//	result, err := workflows.Build(ctx, opts)
//	if errors.Is(err, ferrors.ErrOutputNotEmpty) {
//	    // Suggest --force
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
// Build and Unlock check it between stages; Serve runs until it is cancelled.
package workflows
