package bundle

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	ferrors "github.com/PolarWolf314/frontcrypt/internal/errors"
)

// WriteOptions configures Write.
type WriteOptions struct {
	// Overwrite replaces a non-empty output directory.
	Overwrite bool
}

// Write materializes a into dir. The files are written to a sibling staging
// directory first and moved into place only once all of them are complete.
func Write(dir string, a *Artifacts, opts WriteOptions) error {
	existing, err := checkDestination(dir, opts.Overwrite)
	if err != nil {
		return err
	}

	parent := filepath.Dir(dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return &ferrors.PathError{Path: parent, Err: err}
	}

	staging, err := os.MkdirTemp(parent, "."+filepath.Base(dir)+".staging-*")
	if err != nil {
		return &ferrors.PathError{Path: parent, Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			os.RemoveAll(staging)
		}
	}()

	// #nosec G306 -- bundle files are public artifacts served over HTTP.
	if err := os.Chmod(staging, 0o755); err != nil {
		return &ferrors.PathError{Path: staging, Err: err}
	}
	files := []struct {
		name string
		data []byte
	}{
		{PayloadFile, a.Payload},
		{LoaderFile, a.LoaderHTML},
		{RuntimeFile, a.RuntimeJS},
	}
	for _, f := range files {
		p := filepath.Join(staging, f.name)
		// #nosec G306 -- bundle files are public artifacts served over HTTP.
		if err := os.WriteFile(p, f.data, 0o644); err != nil {
			return &ferrors.PathError{Path: filepath.Join(dir, f.name), Err: err}
		}
	}

	if existing {
		backup := staging + ".old"
		if err := os.Rename(dir, backup); err != nil {
			return &ferrors.PathError{Path: dir, Err: err}
		}
		if err := os.Rename(staging, dir); err != nil {
			// Put the previous bundle back.
			_ = os.Rename(backup, dir)
			return &ferrors.PathError{Path: dir, Err: err}
		}
		committed = true
		os.RemoveAll(backup)
		return nil
	}

	if err := os.Rename(staging, dir); err != nil {
		return &ferrors.PathError{Path: dir, Err: err}
	}
	committed = true
	return nil
}

// checkDestination reports whether dir already exists. A non-empty
// directory is only accepted with overwrite.
func checkDestination(dir string, overwrite bool) (bool, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &ferrors.PathError{Path: dir, Err: err}
	}
	if !info.IsDir() {
		return false, &ferrors.PathError{Path: dir, Err: fmt.Errorf("not a directory")}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, &ferrors.PathError{Path: dir, Err: err}
	}
	if len(entries) > 0 && !overwrite {
		return false, fmt.Errorf("%s: %w", dir, ferrors.ErrOutputNotEmpty)
	}
	return true, nil
}

// Load reads a bundle from dir.
func Load(dir string) (*Artifacts, error) {
	read := func(name string) ([]byte, error) {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s has no %s: %w", dir, name, ferrors.ErrBundleNotFound)
		}
		if err != nil {
			return nil, &ferrors.PathError{Path: filepath.Join(dir, name), Err: err}
		}
		return data, nil
	}

	var a Artifacts
	var err error
	if a.Payload, err = read(PayloadFile); err != nil {
		return nil, err
	}
	if a.LoaderHTML, err = read(LoaderFile); err != nil {
		return nil, err
	}
	if a.RuntimeJS, err = read(RuntimeFile); err != nil {
		return nil, err
	}
	return &a, nil
}

// Params recovers the loader parameters of a loaded bundle.
func (a *Artifacts) Params() (Params, error) {
	return ReadParams(a.LoaderHTML)
}
