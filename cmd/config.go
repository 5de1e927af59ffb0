package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/frontcrypt/internal/configs"
	"github.com/PolarWolf314/frontcrypt/internal/ui"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Shows or creates the frontcrypt configuration file",
	}
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigInitCmd())
	return cmd
}

func resolvedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return configs.ConfigPath()
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Prints the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := resolvedConfigPath()
			source := path
			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
				source = path + " (not found, using defaults)"
			}
			fmt.Println("# " + source)
			if err := configs.EncodeTOML(os.Stdout, cfg); err != nil {
				return Logger.ErrorfAndReturn("failed to print config: %w", err)
			}
			return nil
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Writes a configuration file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := resolvedConfigPath()
			if _, err := os.Stat(path); err == nil && !force {
				fmt.Println(ui.Error.Sprint("✗") + " " + ui.Path.Sprint(path) + " already exists\n" +
					ui.Info.Sprint("→") + " Pass " + ui.Flag.Sprint("--force") + " to overwrite it")
				return &reportedError{err: fmt.Errorf("%s already exists", path)}
			}

			Logger.Debugf("Writing default config to %s", path)
			if err := configs.Save(path, configs.Default()); err != nil {
				return Logger.ErrorfAndReturn("%w", err)
			}
			fmt.Println(ui.Success.Sprint("✓") + " Wrote " + ui.Path.Sprint(path))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")
	return cmd
}
