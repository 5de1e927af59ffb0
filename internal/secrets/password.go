package secrets

import (
	"crypto/subtle"
	"os"

	ferrors "github.com/PolarWolf314/frontcrypt/internal/errors"
	"github.com/PolarWolf314/frontcrypt/internal/utils"
)

// PasswordEnv is the environment variable checked first for the password.
const PasswordEnv = "FRONTCRYPT_PASSWORD"

// PasswordOptions configures AcquirePassword.
type PasswordOptions struct {
	// Explicit is the value of --password, used when the environment is empty.
	Explicit string

	// Confirm asks twice on interactive entry. Used when building.
	Confirm bool

	// Prompt reads a masked line. Defaults to utils.ReadPassphrase.
	Prompt func(prompt string) ([]byte, error)

	// Interactive reports whether a terminal is available. Defaults to utils.IsTerminal.
	Interactive func() bool

	// Getenv defaults to os.Getenv.
	Getenv func(key string) string
}

// AcquirePassword resolves the password from the environment, the explicit
// option or an interactive prompt, in that order.
func AcquirePassword(opts PasswordOptions) (string, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(PasswordEnv); v != "" {
		return v, nil
	}
	if opts.Explicit != "" {
		return opts.Explicit, nil
	}

	interactive := opts.Interactive
	if interactive == nil {
		interactive = utils.IsTerminal
	}
	if !interactive() {
		return "", ferrors.ErrNoPassword
	}
	prompt := opts.Prompt
	if prompt == nil {
		prompt = utils.ReadPassphrase
	}

	first, err := prompt("Enter password: ")
	if err != nil {
		return "", err
	}
	defer wipe(first)
	if len(first) == 0 {
		return "", ferrors.ErrEmptyPassword
	}

	if opts.Confirm {
		second, err := prompt("Confirm password: ")
		if err != nil {
			return "", err
		}
		defer wipe(second)
		if subtle.ConstantTimeCompare(first, second) != 1 {
			return "", ferrors.ErrPasswordMismatch
		}
	}
	return string(first), nil
}
