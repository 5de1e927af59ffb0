// Package archive implements the tape-archive codec used for bundles.
//
// The layout is the classic 512-byte block format: every entry is a header
// block followed by its content padded with zeros to the next block
// boundary, and the stream ends with two all-zero blocks. Headers are
// written in USTAR form so standard tar tools can read the output.
//
// Serialize walks a directory tree and produces the archive bytes in one
// pass; it is all-or-nothing and refuses symbolic links and other special
// files. Parse is the consumer side: a lenient scanner over an untrusted
// buffer that returns the file records and never reads past the end of the
// buffer.
package archive
