package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/activity"
)

func newHistoryCommand(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent changes from the git history or the activity log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			if limit <= 0 {
				return fmt.Errorf("invalid limit %d", limit)
			}

			var lines []string
			switch {
			case s.history != nil:
				if lines, err = s.history.Log(cmd.Context(), limit); err != nil {
					return err
				}
			case s.activity.Enabled():
				if lines, err = activityLines(s.activity, limit); err != nil {
					return err
				}
			default:
				return errors.New("history is disabled: set history.enabled or log.activity_path in fintrack.yaml")
			}

			out := cmd.OutOrStdout()
			if len(lines) == 0 {
				fmt.Fprintln(out, "No history yet.")
				return nil
			}
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of changes to show")

	return cmd
}

// activityLines renders the most recent changes in the activity log when no
// git history is kept.
func activityLines(activityLog *activity.Log, limit int) ([]string, error) {
	entries, err := activityLog.Entries()
	if err != nil {
		return nil, err
	}
	changes := activity.Changes(entries)
	if len(changes) > limit {
		changes = changes[:limit]
	}
	lines := make([]string, len(changes))
	for i, c := range changes {
		line := fmt.Sprintf("%s %s: %s", c.Timestamp.Format(time.RFC3339), c.Action, c.Details)
		if c.Records > 1 {
			line += fmt.Sprintf(" (%d records)", c.Records)
		}
		lines[i] = line
	}
	return lines, nil
}
