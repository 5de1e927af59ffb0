package workflows

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/PolarWolf314/frontcrypt/internal/archive"
	"github.com/PolarWolf314/frontcrypt/internal/audit"
	"github.com/PolarWolf314/frontcrypt/internal/bundle"
	ferrors "github.com/PolarWolf314/frontcrypt/internal/errors"
	"github.com/PolarWolf314/frontcrypt/internal/secrets"
	"github.com/PolarWolf314/frontcrypt/internal/utils"
)

// BuildOptions configures the build workflow.
type BuildOptions struct {
	// Source is the directory to protect.
	Source string

	// Output is the bundle directory. Empty means Source + Suffix.
	Output string

	// Suffix is appended to Source when Output is empty.
	Suffix string

	// Exclude lists doublestar patterns, relative to Source, left out of the archive.
	Exclude []string

	// Force allows writing into a non-empty output directory.
	Force bool

	// Password controls how the password is obtained. Confirm is always set.
	Password secrets.PasswordOptions

	// Audit records the build in the audit log.
	Audit bool

	// OnEntry is called for every archived entry, in archive order.
	OnEntry func(archive.Entry)

	// OnExcluded is called with the relative path of every excluded entry.
	OnExcluded func(rel string)
}

// BuildResult contains the outcome of a build.
type BuildResult struct {
	// OutputDir is the absolute bundle directory.
	OutputDir string

	// BundleID identifies this build in the audit log.
	BundleID string

	// Files and Dirs count the archived entries.
	Files int
	Dirs  int

	// Excluded lists the relative paths skipped by exclude patterns.
	Excluded []string

	// ArchiveSize is the plaintext archive length; PayloadSize the ciphertext length.
	ArchiveSize int64
	PayloadSize int64

	Params bundle.Params
}

// Build archives opts.Source, encrypts the archive with a password and writes
// the bundle to the output directory.
//
// Input problems are reported before the password is requested and before
// anything is written:
// Returns ErrMissingSource if no source was given.
// Returns ErrSourceNotDirectory if the source cannot be listed.
// Returns ErrOutputIsSource, ErrOutputInsideSource or ErrOutputContainsSource
// for a bad output location.
// Returns ErrOutputNotEmpty if the output has files and Force is unset.
// Returns an *UnsupportedEntryError or *PathError if the walk fails.
func Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if opts.Source == "" {
		return nil, ferrors.ErrMissingSource
	}
	if err := utils.EnsureDirectoryReadable(opts.Source); err != nil {
		return nil, err
	}

	suffix := opts.Suffix
	if suffix == "" {
		suffix = utils.DefaultOutputSuffix
	}
	outputDir, err := utils.ResolveOutputDir(opts.Source, opts.Output, suffix)
	if err != nil {
		return nil, err
	}
	if !opts.Force {
		if err := ensureEmpty(outputDir); err != nil {
			return nil, err
		}
	}

	result := &BuildResult{OutputDir: outputDir}
	observer := func(e archive.Entry) {
		if e.Kind == archive.KindDirectory {
			result.Dirs++
		} else {
			result.Files++
		}
		if opts.OnEntry != nil {
			opts.OnEntry(e)
		}
	}

	tarball, err := archive.Serialize(opts.Source,
		archive.WithExclude(opts.Exclude...),
		archive.WithWalkObserver(observer),
		archive.WithExcludeObserver(func(rel string) {
			result.Excluded = append(result.Excluded, rel)
			if opts.OnExcluded != nil {
				opts.OnExcluded(rel)
			}
		}),
	)
	if err != nil {
		return nil, err
	}
	result.ArchiveSize = int64(len(tarball))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pwOpts := opts.Password
	pwOpts.Confirm = true
	password, err := secrets.AcquirePassword(pwOpts)
	if err != nil {
		return nil, err
	}

	sealed, err := secrets.Seal(tarball, password)
	if err != nil {
		return nil, fmt.Errorf("encrypting archive: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	artifacts, err := bundle.Assemble(sealed)
	if err != nil {
		return nil, err
	}
	if err := bundle.Write(outputDir, artifacts, bundle.WriteOptions{Overwrite: opts.Force}); err != nil {
		return nil, err
	}

	result.PayloadSize = int64(len(artifacts.Payload))
	result.Params = bundle.NewParams(sealed)
	result.BundleID = audit.NewBundleID()

	if opts.Audit {
		entry := audit.NewEntry(audit.OpBuild)
		entry.BundleID = result.BundleID
		entry.Source = opts.Source
		entry.Output = outputDir
		entry.FilesCount = result.Files
		entry.DirsCount = result.Dirs
		entry.PayloadSize = result.PayloadSize
		audit.Log(entry)
	}

	return result, nil
}

// ensureEmpty fails when dir exists and holds at least one entry.
func ensureEmpty(dir string) error {
	f, err := os.Open(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &ferrors.PathError{Path: dir, Err: err}
	}
	defer f.Close()

	if _, err := f.Readdirnames(1); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &ferrors.PathError{Path: dir, Err: err}
	}
	return fmt.Errorf("%s: %w", dir, ferrors.ErrOutputNotEmpty)
}
