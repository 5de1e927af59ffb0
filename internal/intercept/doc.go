// Package intercept is the request-interception runtime for unlocked bundles.
//
// A Runtime starts Idle. Load parses a decrypted archive into a fresh
// path index and swaps it in, moving to Ready; a failed load leaves the
// previous state untouched. In Ready, content requests for the runtime's own
// origin are answered from the index with Cache-Control: no-store, and
// everything else is declined so the host can fall back to its default
// handling.
//
// The browser flavour of this state machine ships as sw.js; this package is
// the Go flavour, used by `frontcrypt serve --unlock` and `frontcrypt inspect`.
package intercept
