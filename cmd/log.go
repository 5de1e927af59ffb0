package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/frontcrypt/internal/audit"
	"github.com/PolarWolf314/frontcrypt/internal/ui"
	"github.com/PolarWolf314/frontcrypt/internal/workflows"
)

func newLogCmd() *cobra.Command {
	var (
		limit   int
		reverse bool
		ops     []string
		since   string
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Shows the audit trail of builds, inspections and serve sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			Logger.Infof("Reading audit log from %s", audit.LogPath())
			result, err := workflows.Log(cmd.Context(), workflows.LogOptions{
				Limit:      limit,
				Reverse:    reverse,
				Operations: ops,
				Since:      since,
			})
			if err != nil {
				return Logger.ErrorfAndReturn("failed to read audit log: %w", err)
			}

			if len(result.Entries) == 0 {
				fmt.Println(ui.Muted.Sprint("no audit entries"))
				return nil
			}
			for _, e := range result.Entries {
				fmt.Println(formatEntry(e))
			}
			Logger.Infof("Showing %d of %d entries", len(result.Entries), result.Total)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "number", "n", 0, "show only the N most recent entries")
	cmd.Flags().BoolVar(&reverse, "reverse", false, "show most recent entries first")
	cmd.Flags().StringSliceVar(&ops, "op", nil, "filter by operation (build, inspect, serve)")
	cmd.Flags().StringVar(&since, "since", "", "show entries on or after this date (YYYY-MM-DD)")

	return cmd
}

func formatEntry(e audit.Entry) string {
	ts := e.Timestamp
	if t, err := time.Parse(time.RFC3339Nano, e.Timestamp); err == nil {
		ts = t.Local().Format("2006-01-02 15:04:05")
	}

	var detail string
	switch e.Operation {
	case audit.OpBuild:
		detail = fmt.Sprintf("%s -> %s (%d files, %s)", e.Source, e.Output, e.FilesCount, ui.HumanSize(e.PayloadSize))
	case audit.OpServe:
		detail = fmt.Sprintf("%s at %s", e.Output, e.Addr)
	default:
		detail = e.Output
	}

	parts := []string{ts, fmt.Sprintf("%-7s", e.Operation), e.User, detail}
	if e.BundleID != "" {
		parts = append(parts, ui.Muted.Sprint(e.BundleID))
	}
	return strings.Join(parts, "  ")
}
