package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/frontcrypt/internal/archive"
	"github.com/PolarWolf314/frontcrypt/internal/bundle"
	"github.com/PolarWolf314/frontcrypt/internal/ui"
	"github.com/PolarWolf314/frontcrypt/internal/utils"
	"github.com/PolarWolf314/frontcrypt/internal/workflows"
)

func newBuildCmd() *cobra.Command {
	var (
		output   string
		password string
		exclude  []string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "build <source-dir>",
		Short: "Encrypts a static site directory into a password-protected bundle",
		Long: `Archives every file under <source-dir>, encrypts the archive with a
password and writes index.html, sw.js and app.enc to the output directory.

The password is read from ` + "FRONTCRYPT_PASSWORD" + `, then --password, then
an interactive prompt. Symbolic links and special files abort the build.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			Logger.Infof("Starting build command")
			s, cleanup := startSpinner("Building protected bundle...")
			defer cleanup()

			source := ""
			if len(args) == 1 {
				source = args[0]
			}
			patterns := append(append([]string{}, cfg.Build.Exclude...), exclude...)
			Logger.Debugf("Source: %q, output: %q, exclude: %v", source, output, patterns)

			result, err := workflows.Build(cmd.Context(), workflows.BuildOptions{
				Source:   source,
				Output:   output,
				Suffix:   cfg.Build.OutputSuffix,
				Exclude:  patterns,
				Force:    force,
				Password: passwordOptions(password, s),
				Audit:    cfg.Audit.Enabled,
				OnEntry: func(e archive.Entry) {
					Logger.Infof("Archiving %s (%s)", e.Path, ui.HumanSize(e.Size()))
				},
				OnExcluded: func(rel string) {
					Logger.Infof("Excluding %s", rel)
				},
			})
			if err != nil {
				return reportError(s, err)
			}
			Logger.Infof("Build completed: %d files, %d directories", result.Files, result.Dirs)

			created := []string{
				filepath.Join(result.OutputDir, bundle.LoaderFile),
				filepath.Join(result.OutputDir, bundle.RuntimeFile),
				filepath.Join(result.OutputDir, bundle.PayloadFile),
			}
			excludedNote := ""
			if n := len(result.Excluded); n > 0 {
				excludedNote = fmt.Sprintf("  %d paths excluded by patterns (run with %s to list them)\n", n, ui.Flag.Sprint("--verbose"))
			}
			s.FinalMSG = ui.Success.Sprint("✓") + " Bundle written to " + ui.Path.Sprint(result.OutputDir) + "\n" +
				"The following files were created: " + utils.FormatPaths(created) +
				fmt.Sprintf("  %d files, %d directories, %s archive, %s payload\n",
					result.Files, result.Dirs, ui.HumanSize(result.ArchiveSize), ui.HumanSize(result.PayloadSize)) +
				excludedNote +
				ui.Info.Sprint("→") + " Upload the contents of " + ui.Path.Sprint(result.OutputDir) + " to any static host"
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default <source-dir> plus the configured output_suffix)")
	cmd.Flags().StringArrayVar(&exclude, "exclude", nil, "glob of paths to leave out, relative to the source (repeatable)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace a non-empty output directory")
	addPasswordFlag(cmd.Flags(), &password)

	return cmd
}
