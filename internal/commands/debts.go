package commands

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/activity"
	"github.com/fintrack-dev/fintrack/internal/id"
	"github.com/fintrack-dev/fintrack/internal/model"
)

func newDebtCommand(opts *rootOptions) *cobra.Command {
	debtCmd := &cobra.Command{
		Use:   "debt",
		Short: "Track loans and credit balances",
	}
	debtCmd.AddCommand(
		newDebtAddCommand(opts),
		newDebtListCommand(opts),
		newDebtPayCommand(opts),
		newDebtDeleteCommand(opts),
	)
	return debtCmd
}

func newDebtAddCommand(opts *rootOptions) *cobra.Command {
	var name, total, remaining, rate, minimum, cur, due string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a debt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := model.Debt{Name: name}
			var err error
			if d.TotalAmount, err = parseMoney("total", total); err != nil {
				return err
			}
			d.RemainingAmount = d.TotalAmount
			if remaining != "" {
				if d.RemainingAmount, err = parseMoney("remaining", remaining); err != nil {
					return err
				}
			}
			if d.InterestRate, err = parseMoney("interest rate", rate); err != nil {
				return err
			}
			if d.MinimumPayment, err = parseMoney("minimum payment", minimum); err != nil {
				return err
			}
			if d.Currency, err = parseCurrency(cur); err != nil {
				return err
			}
			if due != "" {
				if d.DueDate, err = parseDate(due, opts.now()); err != nil {
					return err
				}
			}

			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			added, err := s.store.AddDebt(cmd.Context(), d)
			if err != nil {
				return err
			}
			s.record(activity.ActionDebt, "Added debt "+added.Name, added.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Added debt %s %s (%s)\n", added.Name, money(added.RemainingAmount, added.Currency), id.Short(added.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "debt name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&total, "total", "", "original amount (required)")
	_ = cmd.MarkFlagRequired("total")
	cmd.Flags().StringVar(&remaining, "remaining", "", "outstanding balance (default: total)")
	cmd.Flags().StringVar(&rate, "interest", "0", "annual interest rate in percent")
	cmd.Flags().StringVar(&minimum, "minimum", "0", "minimum monthly payment")
	cmd.Flags().StringVar(&cur, "currency", "USD", "USD or PLN")
	cmd.Flags().StringVar(&due, "due", "", "next due date YYYY-MM-DD")

	return cmd
}

func newDebtListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List debts, highest interest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			debts, err := s.store.Debts(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(debts) == 0 {
				fmt.Fprintln(out, "No debts.")
				return nil
			}
			sort.SliceStable(debts, func(i, j int) bool { return debts[i].InterestRate.GreaterThan(debts[j].InterestRate) })

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tREMAINING\tTOTAL\tINTEREST\tMINIMUM\tDUE\t")
			for _, d := range debts {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s%%\t%s\t%s\t\n",
					id.Short(d.ID), d.Name, money(d.RemainingAmount, d.Currency), money(d.TotalAmount, d.Currency),
					d.InterestRate.String(), d.MinimumPayment.StringFixed(2), d.DueDate)
			}
			tw.Flush()

			totals := sumBy(debts, func(d model.Debt) model.Currency { return d.Currency }, func(d model.Debt) decimal.Decimal { return d.RemainingAmount })
			for _, c := range model.Currencies {
				if t, ok := totals[c]; ok {
					fmt.Fprintf(out, "Total remaining: %s\n", money(t, c))
				}
			}
			return nil
		},
	}
}

func newDebtPayCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pay <id> <amount>",
		Short: "Record a payment against a debt",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseMoney("amount", args[1])
			if err != nil {
				return err
			}
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			d, err := s.store.PayDebt(cmd.Context(), args[0], amount)
			if err != nil {
				return notFound("debt", args[0], err)
			}
			s.record(activity.ActionDebt, fmt.Sprintf("Paid %s on %s", money(amount, d.Currency), d.Name), d.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s remaining\n", d.Name, money(d.RemainingAmount, d.Currency))
			return nil
		},
	}
}

func newDebtDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a debt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			d, err := s.store.DeleteDebt(cmd.Context(), args[0])
			if err != nil {
				return notFound("debt", args[0], err)
			}
			s.record(activity.ActionDebt, "Deleted debt "+d.Name, d.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted debt %s\n", d.Name)
			return nil
		},
	}
}

func newGoalCommand(opts *rootOptions) *cobra.Command {
	goalCmd := &cobra.Command{
		Use:   "goal",
		Short: "Track savings goals",
	}
	goalCmd.AddCommand(
		newGoalAddCommand(opts),
		newGoalListCommand(opts),
		newGoalContributeCommand(opts),
		newGoalDeleteCommand(opts),
	)
	return goalCmd
}

func newGoalAddCommand(opts *rootOptions) *cobra.Command {
	var name, target, current, cur, deadline string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a savings goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g := model.SavingsGoal{Name: name}
			var err error
			if g.TargetAmount, err = parseMoney("target", target); err != nil {
				return err
			}
			if g.CurrentAmount, err = parseMoney("current", current); err != nil {
				return err
			}
			if g.Currency, err = parseCurrency(cur); err != nil {
				return err
			}
			if deadline != "" {
				if g.Deadline, err = parseDate(deadline, opts.now()); err != nil {
					return err
				}
			}

			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			added, err := s.store.AddSavingsGoal(cmd.Context(), g)
			if err != nil {
				return err
			}
			s.record(activity.ActionGoal, "Added goal "+added.Name, added.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Added goal %s %s (%s)\n", added.Name, money(added.TargetAmount, added.Currency), id.Short(added.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "goal name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&target, "target", "", "target amount (required)")
	_ = cmd.MarkFlagRequired("target")
	cmd.Flags().StringVar(&current, "current", "0", "amount saved so far")
	cmd.Flags().StringVar(&cur, "currency", "USD", "USD or PLN")
	cmd.Flags().StringVar(&deadline, "deadline", "", "target date YYYY-MM-DD")

	return cmd
}

func newGoalListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List savings goals with progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			goals, err := s.store.SavingsGoals(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(goals) == 0 {
				fmt.Fprintln(out, "No savings goals.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSAVED\tTARGET\tPROGRESS\tDEADLINE\t")
			for _, g := range goals {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s%%\t%s\t\n",
					id.Short(g.ID), g.Name, money(g.CurrentAmount, g.Currency), money(g.TargetAmount, g.Currency),
					g.Progress().StringFixed(1), g.Deadline)
			}
			tw.Flush()
			return nil
		},
	}
}

func newGoalContributeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "contribute <id> <amount>",
		Short: "Add money to a savings goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseMoney("amount", args[1])
			if err != nil {
				return err
			}
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			g, err := s.store.Contribute(cmd.Context(), args[0], amount)
			if err != nil {
				return notFound("goal", args[0], err)
			}
			s.record(activity.ActionGoal, fmt.Sprintf("Contributed %s to %s", money(amount, g.Currency), g.Name), g.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s of %s (%s%%)\n",
				g.Name, money(g.CurrentAmount, g.Currency), money(g.TargetAmount, g.Currency), g.Progress().StringFixed(1))
			return nil
		},
	}
}

func newGoalDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a savings goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			g, err := s.store.DeleteSavingsGoal(cmd.Context(), args[0])
			if err != nil {
				return notFound("goal", args[0], err)
			}
			s.record(activity.ActionGoal, "Deleted goal "+g.Name, g.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted goal %s\n", g.Name)
			return nil
		},
	}
}

// sumBy totals amounts per currency.
func sumBy[T any](items []T, cur func(T) model.Currency, amt func(T) decimal.Decimal) map[model.Currency]decimal.Decimal {
	totals := make(map[model.Currency]decimal.Decimal)
	for _, it := range items {
		totals[cur(it)] = totals[cur(it)].Add(amt(it))
	}
	return totals
}
