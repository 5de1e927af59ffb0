// Package bundle assembles the distributable output of a build.
//
// A bundle is three files in one directory:
//
//   - app.enc: the sealed archive, ciphertext with the tag appended and no framing
//   - index.html: the loader document, carrying the base64 salt and nonce and
//     the iteration count
//   - sw.js: the browser interception runtime, carrying the same iteration count
//
// Rendering is pure templating over Params. Writing goes through a staging
// directory that is renamed into place, so a failed build leaves no
// half-written bundle behind.
package bundle
