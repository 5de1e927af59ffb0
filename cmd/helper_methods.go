package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/pflag"

	ferrors "github.com/PolarWolf314/frontcrypt/internal/errors"
	"github.com/PolarWolf314/frontcrypt/internal/secrets"
	"github.com/PolarWolf314/frontcrypt/internal/ui"
	"github.com/PolarWolf314/frontcrypt/internal/utils"
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a cleanup function that is safe to call more than once.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !verbose && !debug
	if quiet {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			if quiet {
				log.SetOutput(os.Stdout)
			}

			finalMsg := ""
			if s.FinalMSG != "" {
				finalMsg = ui.EnsureNewline(s.FinalMSG)
				// Clear FinalMSG so s.Stop() doesn't print it.
				s.FinalMSG = ""
			}

			if quiet {
				s.Stop()
			}

			// Print final message to stdout (for tests to capture).
			if finalMsg != "" {
				fmt.Print(finalMsg)
			}
		})
	}

	return s, cleanup
}

// addPasswordFlag registers --password on fs.
func addPasswordFlag(fs *pflag.FlagSet, p *string) {
	fs.StringVar(p, "password", "", "password (prefer the "+secrets.PasswordEnv+" environment variable)")
}

// passwordOptions pauses s while the user types at the prompt.
func passwordOptions(explicit string, s *spinner.Spinner) secrets.PasswordOptions {
	if explicit != "" {
		Logger.WarnfAlways("--password is visible to other local users; prefer %s", secrets.PasswordEnv)
	}
	return secrets.PasswordOptions{
		Explicit: explicit,
		Prompt: func(prompt string) ([]byte, error) {
			if s.Active() {
				s.Stop()
				defer s.Start()
			}
			return utils.ReadPassphrase(prompt)
		},
	}
}

// reportedError marks an error whose message was already shown to the user.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// reportError sets the spinner's final message for err and returns err marked as reported.
func reportError(s *spinner.Spinner, err error) error {
	Logger.Debugf("Command failed: %v", err)
	s.FinalMSG = describeError(err)
	return &reportedError{err: err}
}

// describeError renders err for the terminal, with a hint where one helps.
func describeError(err error) string {
	cross := ui.Error.Sprint("✗")
	arrow := ui.Info.Sprint("→")

	var unsupported *ferrors.UnsupportedEntryError
	switch {
	case errors.Is(err, ferrors.ErrAuthentication):
		return cross + " Invalid password"
	case errors.Is(err, ferrors.ErrMissingSource):
		return cross + " Missing source directory\n" +
			arrow + " Run " + ui.Code.Sprint("frontcrypt build <source-dir>")
	case errors.Is(err, ferrors.ErrOutputNotEmpty):
		return cross + " " + err.Error() + "\n" +
			arrow + " Choose another " + ui.Flag.Sprint("--output") + " or pass " + ui.Flag.Sprint("--force") + " to replace it"
	case errors.Is(err, ferrors.ErrNoPassword):
		return cross + " No password provided\n" +
			arrow + " Set " + ui.Code.Sprint(secrets.PasswordEnv) + " or pass " + ui.Flag.Sprint("--password")
	case errors.Is(err, ferrors.ErrPasswordMismatch):
		return cross + " Passwords do not match"
	case errors.Is(err, ferrors.ErrBundleNotFound):
		return cross + " " + err.Error() + "\n" +
			arrow + " Run " + ui.Code.Sprint("frontcrypt build") + " first"
	case errors.Is(err, ferrors.ErrUnsupportedName):
		return cross + " " + err.Error() + "\n" +
			arrow + " Rename it or skip it with " + ui.Flag.Sprint("--exclude")
	case errors.As(err, &unsupported):
		return cross + " Cannot archive " + ui.Path.Sprint(unsupported.Path) + ": " + err.Error() + "\n" +
			arrow + " Remove it or skip it with " + ui.Flag.Sprint("--exclude")
	default:
		return cross + " " + ui.Error.Sprint("Error: ") + err.Error()
	}
}
