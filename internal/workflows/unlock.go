package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/frontcrypt/internal/bundle"
	ferrors "github.com/PolarWolf314/frontcrypt/internal/errors"
	"github.com/PolarWolf314/frontcrypt/internal/secrets"
)

// UnlockOptions configures the unlock workflow.
type UnlockOptions struct {
	// BundleDir holds app.enc, index.html and sw.js.
	BundleDir string

	// Password controls how the password is obtained.
	Password secrets.PasswordOptions
}

// UnlockResult contains a decrypted bundle.
type UnlockResult struct {
	Artifacts *bundle.Artifacts
	Params    bundle.Params

	// Archive is the decrypted tar archive.
	Archive []byte
}

// Unlock loads the bundle in opts.BundleDir and decrypts its payload with
// the password the browser loader would ask for.
//
// Returns ErrBundleNotFound if a bundle file is missing.
// Returns ErrInvalidParams if the loader parameters are malformed or were
// produced with a different iteration count.
// Returns ErrAuthentication for a wrong password or a tampered payload.
func Unlock(ctx context.Context, opts UnlockOptions) (*UnlockResult, error) {
	artifacts, err := bundle.Load(opts.BundleDir)
	if err != nil {
		return nil, err
	}
	params, err := artifacts.Params()
	if err != nil {
		return nil, err
	}
	if params.Iterations != secrets.Iterations {
		return nil, fmt.Errorf("bundle uses %d iterations, expected %d: %w",
			params.Iterations, secrets.Iterations, ferrors.ErrInvalidParams)
	}
	salt, err := params.Salt()
	if err != nil {
		return nil, err
	}
	nonce, err := params.Nonce()
	if err != nil {
		return nil, err
	}

	password, err := secrets.AcquirePassword(opts.Password)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	plaintext, err := secrets.Open(artifacts.Payload, password, salt, nonce)
	if err != nil {
		return nil, err
	}

	return &UnlockResult{
		Artifacts: artifacts,
		Params:    params,
		Archive:   plaintext,
	}, nil
}
