package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/activity"
	"github.com/fintrack-dev/fintrack/internal/store"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	var asCSV bool

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export the dataset as JSON, or transactions as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("creating export file: %w", err)
			}
			defer f.Close()

			if asCSV {
				txns, err := s.store.Transactions(cmd.Context())
				if err != nil {
					return err
				}
				if err := store.WriteTransactionsCSV(f, txns); err != nil {
					return fmt.Errorf("writing export: %w", err)
				}
			} else if err := s.store.Export(cmd.Context(), f); err != nil {
				return err
			}

			if err := f.Close(); err != nil {
				return fmt.Errorf("closing export file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&asCSV, "csv", false, "write transactions as CSV instead of the full JSON document")

	return cmd
}

func newRestoreCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace all data with a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening backup: %w", err)
			}
			defer f.Close()

			ds, err := s.store.Import(cmd.Context(), f)
			if err != nil {
				return err
			}
			s.record(activity.ActionRestore, fmt.Sprintf("Restored %d transactions from %s", len(ds.Transactions), args[0]))

			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d transactions, %d debts, %d savings goals\n",
				len(ds.Transactions), len(ds.Debts), len(ds.SavingsGoals))
			return nil
		},
	}
}
