package workflows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PolarWolf314/frontcrypt/internal/audit"
	ferrors "github.com/PolarWolf314/frontcrypt/internal/errors"
)

// LogOptions configures the log workflow.
type LogOptions struct {
	// Path overrides the audit log location.
	Path string

	// Limit keeps only the most recent N entries. 0 means no limit.
	Limit int

	// Reverse orders entries from most recent to oldest when true.
	Reverse bool

	// Operations filters entries by operation name.
	Operations []string

	// Since filters entries on or after this date (YYYY-MM-DD).
	Since string
}

// LogResult contains the outcome of a log operation.
type LogResult struct {
	Entries []audit.Entry

	// Total is the number of entries in the log before filtering.
	Total int
}

// Log reads and filters the audit log. A missing log yields no entries.
//
// Returns ErrInvalidDateFormat if Since is not YYYY-MM-DD.
func Log(ctx context.Context, opts LogOptions) (*LogResult, error) {
	var since time.Time
	if opts.Since != "" {
		t, err := time.Parse("2006-01-02", opts.Since)
		if err != nil {
			return nil, fmt.Errorf("%w: --since must be YYYY-MM-DD", ferrors.ErrInvalidDateFormat)
		}
		since = t
	}

	path := opts.Path
	if path == "" {
		path = audit.LogPath()
	}
	entries, err := audit.ReadEntriesFrom(path)
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}

	result := &LogResult{Total: len(entries)}

	ops := make(map[string]bool, len(opts.Operations))
	for _, op := range opts.Operations {
		ops[strings.ToLower(strings.TrimSpace(op))] = true
	}

	filtered := entries[:0:0]
	for _, e := range entries {
		if len(ops) > 0 && !ops[strings.ToLower(e.Operation)] {
			continue
		}
		if !since.IsZero() {
			t, err := time.Parse(time.RFC3339Nano, e.Timestamp)
			if err != nil || t.Before(since) {
				continue
			}
		}
		filtered = append(filtered, e)
	}

	if opts.Limit > 0 && len(filtered) > opts.Limit {
		filtered = filtered[len(filtered)-opts.Limit:]
	}
	if opts.Reverse {
		for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
			filtered[i], filtered[j] = filtered[j], filtered[i]
		}
	}

	result.Entries = filtered
	return result, nil
}
