// Package errors provides typed error values for the frontcrypt application.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. This makes
// error handling more robust and refactoring-safe.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Input errors: Bad arguments or missing secrets (ErrMissingSource, ErrNoPassword)
//   - Archive errors: Walking or parsing the tape archive (ErrUnsupportedEntry, ErrArchiveFormat)
//   - Crypto errors: Sealing or opening the payload (ErrAuthentication, ErrInvalidFormat)
//   - Bundle errors: Reading or writing bundle artifacts (ErrInvalidParams, ErrBundleNotFound)
//
// # Usage
//
// Return errors from internal packages:
//
//	if len(salt) != SaltSize {
//	    return nil, errors.ErrInvalidFormat
//	}
//
// Handle errors in the CLI layer:
//
//	result, err := workflows.Inspect(ctx, opts)
//	if errors.Is(err, ferrors.ErrAuthentication) {
//	    // Show "Invalid password"
//	}
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("reading %s: %w", path, errors.ErrIO)
package errors
