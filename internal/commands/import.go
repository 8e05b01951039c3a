package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/activity"
	"github.com/fintrack-dev/fintrack/internal/importer"
	"github.com/fintrack-dev/fintrack/internal/model"
)

type importOptions struct {
	scan    bool
	mapping string
	commit  bool
	skip    string
}

func newImportCommand(opts *rootOptions) *cobra.Command {
	var flags importOptions

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Preview or import a bank statement CSV",
		Long: `Parse a bank statement export and preview the detected transactions.
Pass --commit to save them. With --scan every CSV in the import directory is
processed and moved to import/processed after a committed import.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if flags.scan {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.scan && flags.skip != "" {
				return fmt.Errorf("--skip needs a single file, not --scan")
			}
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			if !flags.scan {
				return runImport(cmd, s, args[0], flags)
			}

			dir := s.cfg.Resolve(s.cfg.Import.Dir)
			files, err := importer.Scan(dir)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No CSV files in %s\n", dir)
				return nil
			}
			for _, f := range files {
				if err := runImport(cmd, s, f.Path, flags); err != nil {
					return fmt.Errorf("%s: %w", f.Name, err)
				}
				if flags.commit {
					dst, err := importer.MarkProcessed(dir, f.Name)
					if err != nil {
						return err
					}
					s.logger.Debug("statement moved", "from", f.Path, "to", dst)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.scan, "scan", false, "import every CSV in the import directory")
	cmd.Flags().StringVar(&flags.mapping, "map", "", "column mapping override, e.g. date=0,amount=3,description=5")
	cmd.Flags().BoolVar(&flags.commit, "commit", false, "save the previewed transactions")
	cmd.Flags().StringVar(&flags.skip, "skip", "", "comma-separated preview row numbers to leave out")

	return cmd
}

func runImport(cmd *cobra.Command, s *session, path string, flags importOptions) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading statement: %w", err)
	}
	name := filepath.Base(path)
	out := cmd.OutOrStdout()

	stmt := importer.ParseStatement(string(data))
	if flags.mapping != "" {
		m, err := importer.ParseMappingFlag(flags.mapping, stmt.Mapping)
		if err != nil {
			return err
		}
		stmt = stmt.WithMapping(m)
	}

	if len(stmt.Headers) == 0 {
		fmt.Fprintf(out, "%s: no data found\n", name)
		return nil
	}

	skipped, err := parseRowList(flags.skip, len(stmt.Transactions))
	if err != nil {
		return err
	}

	printStatement(out, name, stmt, skipped)

	selected := make([]model.BankTransaction, 0, len(stmt.Transactions))
	for i, t := range stmt.Transactions {
		if !skipped[i+1] {
			selected = append(selected, t)
		}
	}

	if !flags.commit {
		fmt.Fprintln(out, "Preview only. Re-run with --commit to save.")
		return nil
	}
	if len(selected) == 0 {
		fmt.Fprintln(out, "Nothing to import.")
		return nil
	}

	ctx := cmd.Context()
	settings, err := s.store.Settings(ctx)
	if err != nil {
		return err
	}
	rate := s.exchangeRate(ctx, settings)

	added, err := s.store.AddTransactions(ctx, importer.ToTransactions(selected, rate))
	if err != nil {
		return err
	}

	ids := make([]string, len(added))
	for i, tx := range added {
		ids[i] = tx.ID
	}
	s.record(activity.ActionImport, fmt.Sprintf("Imported %d transactions from %s", len(added), name), ids...)
	s.logger.Info("statement imported", "file", name, "transactions", len(added), "skipped", len(stmt.Transactions)-len(added))

	fmt.Fprintf(out, "Imported %d transactions from %s\n", len(added), name)
	return nil
}

func printStatement(w io.Writer, name string, stmt importer.Statement, skipped map[int]bool) {
	how := "columns auto-detected"
	if !stmt.AutoMapped {
		how = "default column positions"
	}
	fmt.Fprintf(w, "%s: %d rows, %d transactions (delimiter %q, %s)\n",
		name, len(stmt.Rows), len(stmt.Transactions), string(stmt.Delimiter), how)
	fmt.Fprintf(w, "Columns: %s\n", describeMapping(stmt.Headers, stmt.Mapping))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tDATE\tTYPE\tAMOUNT\tCATEGORY\tDESCRIPTION\t")
	for i, t := range stmt.Transactions {
		mark := strconv.Itoa(i + 1)
		if skipped[i+1] {
			mark += " (skip)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			mark, t.Date, t.SuggestedType, money(t.Amount, t.Currency), t.SuggestedCategory, clip(t.Description, 50))
	}
	tw.Flush()
}

func describeMapping(headers []string, m model.ColumnMapping) string {
	col := func(idx int) string {
		if idx < 0 {
			return "-"
		}
		if idx < len(headers) {
			return fmt.Sprintf("%d %q", idx, headers[idx])
		}
		return strconv.Itoa(idx)
	}
	return fmt.Sprintf("date=%s amount=%s description=%s currency=%s counterparty=%s",
		col(m.Date), col(m.Amount), col(m.Description), col(m.Currency), col(m.Counterparty))
}

// parseRowList reads 1-based preview row numbers.
func parseRowList(value string, n int) (map[int]bool, error) {
	rows := make(map[int]bool)
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		i, err := strconv.Atoi(part)
		if err != nil || i < 1 || i > n {
			return nil, fmt.Errorf("invalid row %q: expected a number from 1 to %d", part, n)
		}
		rows[i] = true
	}
	return rows, nil
}
