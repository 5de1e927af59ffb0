package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"github.com/PolarWolf314/frontcrypt/internal/configs"
	logger "github.com/PolarWolf314/frontcrypt/internal/logging"
	"github.com/PolarWolf314/frontcrypt/internal/ui"
)

var (
	verbose    bool
	debug      bool
	configPath string
	Logger     logger.Logger

	// cfg is loaded in PersistentPreRunE before any subcommand runs.
	cfg = configs.Default()
)

// NewRootCmd builds the frontcrypt command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "frontcrypt",
		Short: "Frontcrypt - password-protect a static website for any static host.",
		Long: `Frontcrypt packs a directory of static files into an encrypted bundle
that any static host can serve. Visitors enter the password in the browser;
a service worker then decrypts the site and serves it from memory.

Usage:
  frontcrypt <command> [flags]

Run 'frontcrypt help <command>' for more details on a specific command.
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing %s with verbose=%t, debug=%t", cmd.Name(), verbose, debug)

			loaded, err := configs.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			banner := figure.NewColorFigure("frontcrypt", "standard", "green", true)
			banner.Print()
			fmt.Println()
			fmt.Println("Run " + ui.Code.Sprint("frontcrypt --help") + " to see available commands.")
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVarP(&debug, "debug", "d", false, "enable debug output")
	flags.StringVar(&configPath, "config", "", "config file (default "+configs.ConfigPath()+")")

	root.AddCommand(newBuildCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newLogCmd())
	root.AddCommand(newConfigCmd())

	return root
}

// Execute runs the CLI with os.Args and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(os.Stderr, ui.Error.Sprint("Error:"), err)
		}
		return 1
	}
	return 0
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	configPath = ""
	cfg = configs.Default()
	Logger = logger.Logger{}
}
