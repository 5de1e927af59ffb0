package errors

import (
	"errors"
	"fmt"
	"io/fs"
)

// Input errors indicate bad arguments, paths or a missing secret.
// They are reported before any side effect is performed.
var (
	// ErrMissingSource indicates no source directory was provided.
	ErrMissingSource = errors.New("missing required source directory argument")

	// ErrSourceNotDirectory indicates the source path is not a readable directory.
	ErrSourceNotDirectory = errors.New("source path is not a readable directory")

	// ErrOutputIsSource indicates the output directory equals the source directory.
	ErrOutputIsSource = errors.New("output directory must differ from the source directory")

	// ErrOutputInsideSource indicates the output directory is nested inside the source directory.
	ErrOutputInsideSource = errors.New("output directory cannot be inside the source directory")

	// ErrOutputContainsSource indicates the source directory is nested inside the output directory.
	ErrOutputContainsSource = errors.New("output directory cannot contain the source directory")

	// ErrOutputNotEmpty indicates the output directory already holds files.
	ErrOutputNotEmpty = errors.New("output directory is not empty")

	// ErrNoPassword indicates no password source was available.
	ErrNoPassword = errors.New("no password provided and no terminal available")

	// ErrInvalidPattern indicates a malformed exclude glob.
	ErrInvalidPattern = errors.New("invalid glob pattern")

	// ErrPasswordMismatch indicates the confirmation prompt did not match.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrInvalidDateFormat indicates a date filter was not YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("invalid date format")
)

// Archive errors indicate failures while writing or parsing the tape archive.
var (
	// ErrUnsupportedEntry indicates a filesystem object the archive cannot represent.
	ErrUnsupportedEntry = errors.New("unsupported entry kind")

	// ErrIO indicates a source path could not be read or a destination written.
	ErrIO = errors.New("i/o error")

	// ErrArchiveFormat indicates the archive bytes are structurally invalid.
	ErrArchiveFormat = errors.New("invalid archive format")

	// ErrUnsupportedName indicates a path segment the archive reader would not read back unchanged.
	ErrUnsupportedName = errors.New("file name has leading or trailing whitespace")

	// ErrPathTooLong indicates an entry path does not fit the header name fields.
	ErrPathTooLong = errors.New("path too long for archive header")
)

// Cryptographic errors indicate failures while sealing or opening the payload.
var (
	// ErrAuthentication indicates the authentication tag did not verify.
	// It is the primary signal of an incorrect password.
	ErrAuthentication = errors.New("authentication failed")

	// ErrInvalidFormat indicates malformed salt, nonce or ciphertext.
	ErrInvalidFormat = errors.New("invalid ciphertext format")

	// ErrEmptyPassword indicates an empty password was supplied.
	ErrEmptyPassword = errors.New("password must not be empty")
)

// Bundle errors indicate issues with the output artifacts.
var (
	// ErrInvalidParams indicates template parameters failed validation.
	ErrInvalidParams = errors.New("invalid bundle parameters")

	// ErrBundleNotFound indicates a directory does not hold a complete bundle.
	ErrBundleNotFound = errors.New("bundle not found")
)

// Runtime errors indicate issues with the interception runtime.
var (
	// ErrNotReady indicates no archive has been loaded yet.
	ErrNotReady = errors.New("no archive loaded")
)

// UnsupportedEntryError reports a filesystem object that cannot be archived.
type UnsupportedEntryError struct {
	Path string
	Mode fs.FileMode
}

func (e *UnsupportedEntryError) Error() string {
	if e.Mode&fs.ModeSymlink != 0 {
		return fmt.Sprintf("symbolic links are not supported (%s)", e.Path)
	}
	return fmt.Sprintf("%s: %s (%s)", ErrUnsupportedEntry, e.Path, e.Mode.Type())
}

func (e *UnsupportedEntryError) Unwrap() error {
	return ErrUnsupportedEntry
}

// PathError tags an I/O failure with the path that caused it.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap exposes both ErrIO and the underlying cause to errors.Is.
func (e *PathError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}
