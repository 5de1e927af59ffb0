package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	ferrors "github.com/PolarWolf314/frontcrypt/internal/errors"
)

// DefaultOutputSuffix is appended to the source directory when no output
// directory is requested.
const DefaultOutputSuffix = "-protected"

// DetermineOutputDir returns requested if set, otherwise sourceDir with suffix appended.
func DetermineOutputDir(sourceDir, requested, suffix string) string {
	if requested != "" {
		return requested
	}
	if suffix == "" {
		suffix = DefaultOutputSuffix
	}
	return filepath.Clean(sourceDir) + suffix
}

// IsInsideDirectory reports whether target is strictly below parent.
func IsInsideDirectory(target, parent string) bool {
	rel, err := filepath.Rel(parent, target)
	if err != nil {
		return false
	}
	if rel == "." || rel == ".." {
		return false
	}
	return !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// ResolveOutputDir returns the absolute output directory for a build of
// sourceDir. The output may not be the source, live inside it or contain it.
func ResolveOutputDir(sourceDir, requested, suffix string) (string, error) {
	source, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", fmt.Errorf("resolving source directory: %w", err)
	}
	output, err := filepath.Abs(DetermineOutputDir(source, requested, suffix))
	if err != nil {
		return "", fmt.Errorf("resolving output directory: %w", err)
	}

	// Compare real locations too, so a symlinked output cannot sneak into the source.
	realSource := evalExisting(source)
	realOutput := evalExisting(output)

	if output == source || realOutput == realSource {
		return "", ferrors.ErrOutputIsSource
	}
	if IsInsideDirectory(output, source) || IsInsideDirectory(realOutput, realSource) {
		return "", ferrors.ErrOutputInsideSource
	}
	// Replacing the output must never touch the source.
	if IsInsideDirectory(source, output) || IsInsideDirectory(realSource, realOutput) {
		return "", ferrors.ErrOutputContainsSource
	}
	return output, nil
}

// evalExisting resolves symlinks in the longest existing prefix of p.
func evalExisting(p string) string {
	var missing []string
	current := p
	for {
		if resolved, err := filepath.EvalSymlinks(current); err == nil {
			parts := append([]string{resolved}, missing...)
			return filepath.Join(parts...)
		}
		parent := filepath.Dir(current)
		if parent == current {
			return p
		}
		missing = append([]string{filepath.Base(current)}, missing...)
		current = parent
	}
}

// EnsureDirectoryReadable checks that dir exists, is a directory and can be listed.
func EnsureDirectoryReadable(dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%s: %w", dir, ferrors.ErrSourceNotDirectory)
	}
	f, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("%s: %w", dir, ferrors.ErrSourceNotDirectory)
	}
	defer f.Close()
	if _, err := f.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: %w", dir, ferrors.ErrSourceNotDirectory)
	}
	return nil
}
