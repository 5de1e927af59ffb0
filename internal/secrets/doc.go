// Package secrets provides the password-based encryption used for bundles.
//
// # Encryption Architecture
//
// A bundle is sealed with a key derived from the user's password:
//
//  1. 16 random bytes of salt and a 12-byte nonce are drawn from crypto/rand
//  2. PBKDF2 with SHA-256 and Iterations rounds stretches the password and
//     salt into a 256-bit key
//  3. AES-256-GCM seals the archive bytes with that key and nonce, with no
//     associated data, appending a 128-bit tag
//
// Salt and nonce are not secret. They are shipped in the loader document and
// must be supplied to Open. They are regenerated on every Seal, so a nonce
// is never reused under the same key.
//
// The iteration count and the salt and nonce sizes are constants shared with
// the browser runtime; changing them breaks every bundle already built.
//
// # Errors
//
// Open reports a tag mismatch as ErrAuthentication, kept distinct from
// ErrInvalidFormat, since a failed tag is how a wrong password shows up.
//
// # Key Hygiene
//
// Derived keys and password byte copies are zeroed before returning. Neither
// is ever logged or persisted.
//
// # Password Acquisition
//
// AcquirePassword resolves the password from the FRONTCRYPT_PASSWORD
// environment variable, an explicit option, or a masked terminal prompt, in
// that order.
package secrets
