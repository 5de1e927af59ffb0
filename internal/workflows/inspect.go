package workflows

import (
	"context"

	"github.com/PolarWolf314/frontcrypt/internal/audit"
	"github.com/PolarWolf314/frontcrypt/internal/intercept"
	"github.com/PolarWolf314/frontcrypt/internal/secrets"
)

// InspectOptions configures the inspect workflow.
type InspectOptions struct {
	BundleDir string
	Password  secrets.PasswordOptions

	// Audit records the inspection in the audit log.
	Audit bool
}

// InspectedFile describes one file the unlocked bundle would serve.
type InspectedFile struct {
	Path string
	Size int
	MIME string
}

// InspectResult contains the outcome of an inspection.
type InspectResult struct {
	BundleDir   string
	Iterations  int
	PayloadSize int64
	ArchiveSize int64

	// Files is sorted by path.
	Files []InspectedFile
}

// Inspect unlocks a bundle and lists the files it contains exactly as the
// browser runtime would index them.
func Inspect(ctx context.Context, opts InspectOptions) (*InspectResult, error) {
	unlocked, err := Unlock(ctx, UnlockOptions{
		BundleDir: opts.BundleDir,
		Password:  opts.Password,
	})
	if err != nil {
		return nil, err
	}

	rt, err := intercept.New("")
	if err != nil {
		return nil, err
	}
	if err := rt.Load(unlocked.Archive); err != nil {
		return nil, err
	}
	index, err := rt.Snapshot()
	if err != nil {
		return nil, err
	}

	result := &InspectResult{
		BundleDir:   opts.BundleDir,
		Iterations:  unlocked.Params.Iterations,
		PayloadSize: int64(len(unlocked.Artifacts.Payload)),
		ArchiveSize: int64(len(unlocked.Archive)),
	}
	for _, p := range rt.Paths() {
		f := index[p]
		result.Files = append(result.Files, InspectedFile{Path: p, Size: len(f.Content), MIME: f.MIME})
	}

	if opts.Audit {
		entry := audit.NewEntry(audit.OpInspect)
		entry.Output = opts.BundleDir
		entry.FilesCount = len(result.Files)
		entry.PayloadSize = result.PayloadSize
		audit.Log(entry)
	}

	return result, nil
}
