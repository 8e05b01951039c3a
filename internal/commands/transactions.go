package commands

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/activity"
	"github.com/fintrack-dev/fintrack/internal/id"
	"github.com/fintrack-dev/fintrack/internal/model"
)

func newAddCommand(opts *rootOptions) *cobra.Command {
	var (
		typ, amount, cur, category, description, date, rate string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()
			ctx := cmd.Context()

			settings, err := s.store.Settings(ctx)
			if err != nil {
				return err
			}

			tx := model.Transaction{Description: strings.TrimSpace(description)}
			if tx.Type, err = parseType(typ); err != nil {
				return err
			}
			if tx.Amount, err = parseMoney("amount", amount); err != nil {
				return err
			}
			tx.Currency = settings.PrimaryCurrency
			if cur != "" {
				if tx.Currency, err = parseCurrency(cur); err != nil {
					return err
				}
			}
			if tx.Category, err = parseCategory(category, tx.Type); err != nil {
				return err
			}
			if tx.Date, err = parseDate(date, opts.now()); err != nil {
				return err
			}
			if tx.Currency == model.PLN {
				r := s.exchangeRate(ctx, settings)
				if rate != "" {
					if r, err = parseMoney("rate", rate); err != nil {
						return err
					}
				}
				tx.ExchangeRateAtTime = &r
			}

			added, err := s.store.AddTransaction(ctx, tx)
			if err != nil {
				return err
			}
			s.record(activity.ActionAddTransaction, fmt.Sprintf("Added %s %s %s", added.Type, money(added.Amount, added.Currency), added.Category), added.ID)

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s (%s) %s\n", added.Type, money(added.Amount, added.Currency), added.Category, id.Short(added.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&typ, "type", "expense", "income or expense")
	cmd.Flags().StringVar(&amount, "amount", "", "amount, always positive (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&cur, "currency", "", "USD or PLN (default: primary currency)")
	cmd.Flags().StringVar(&category, "category", "", "category name (required)")
	_ = cmd.MarkFlagRequired("category")
	cmd.Flags().StringVar(&description, "description", "", "free text")
	cmd.Flags().StringVar(&date, "date", "", "YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&rate, "rate", "", "USD->PLN rate to record for a PLN transaction")

	return cmd
}

func newListCommand(opts *rootOptions) *cobra.Command {
	var month, typ string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			txns, err := s.store.Transactions(cmd.Context())
			if err != nil {
				return err
			}

			filtered := make([]model.Transaction, 0, len(txns))
			for _, tx := range txns {
				if typ != "" && string(tx.Type) != strings.ToLower(typ) {
					continue
				}
				if month != "" && !strings.HasPrefix(tx.Date.String(), month) {
					continue
				}
				filtered = append(filtered, tx)
			}
			sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Date > filtered[j].Date })

			out := cmd.OutOrStdout()
			if len(filtered) == 0 {
				fmt.Fprintln(out, "No transactions.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tTYPE\tAMOUNT\tCATEGORY\tDESCRIPTION\t")
			for _, tx := range filtered {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
					id.Short(tx.ID), tx.Date, tx.Type, money(tx.Amount, tx.Currency), tx.Category, clip(tx.Description, 50))
			}
			tw.Flush()
			fmt.Fprintf(out, "%d transactions\n", len(filtered))
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "only YYYY-MM")
	cmd.Flags().StringVar(&typ, "type", "", "only income or expense")

	return cmd
}

func newDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction by id or id prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			removed, err := s.store.DeleteTransaction(cmd.Context(), args[0])
			if err != nil {
				return notFound("transaction", args[0], err)
			}
			s.record(activity.ActionDeleteTx, fmt.Sprintf("Deleted %s %s %s", removed.Date, money(removed.Amount, removed.Currency), removed.Description), removed.ID)

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s %s\n", id.Short(removed.ID), removed.Date, money(removed.Amount, removed.Currency))
			return nil
		},
	}
}
