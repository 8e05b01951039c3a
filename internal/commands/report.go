package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/budget"
	"github.com/fintrack-dev/fintrack/internal/model"
)

// monthReport is the data shared by the breakdown and advice commands.
type monthReport struct {
	Month     string                  `json:"month"`
	Currency  model.Currency          `json:"currency"`
	Breakdown budget.Breakdown        `json:"breakdown"`
	Usage     *budget.Usage           `json:"budgetUsage,omitempty"`
	Expenses  []budget.CategoryAmount `json:"expenseCategories,omitempty"`
	Income    []budget.CategoryAmount `json:"incomeCategories,omitempty"`
	Advice    *budget.Advice          `json:"advice,omitempty"`
}

func buildReport(cmd *cobra.Command, opts *rootOptions, monthFlag string, categories bool) (*monthReport, error) {
	month, year, err := parseMonth(monthFlag, opts.now())
	if err != nil {
		return nil, err
	}

	s, err := openSession(cmd, opts)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	ctx := cmd.Context()

	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	primary := ds.Settings.PrimaryCurrency
	rate := s.exchangeRate(ctx, ds.Settings)

	b, err := budget.MonthlyBreakdown(ds.Transactions, month, year, primary, rate)
	if err != nil {
		return nil, err
	}

	r := &monthReport{
		Month:     fmt.Sprintf("%04d-%02d", year, int(month)),
		Currency:  primary,
		Breakdown: b,
	}
	if u, ok := budget.BudgetUsage(b, ds.Settings.MonthlyBudget); ok {
		r.Usage = &u
	}
	if categories {
		if r.Expenses, err = budget.CategoryBreakdown(ds.Transactions, model.TypeExpense, month, year, primary, rate); err != nil {
			return nil, err
		}
		if r.Income, err = budget.CategoryBreakdown(ds.Transactions, model.TypeIncome, month, year, primary, rate); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func newBreakdownCommand(opts *rootOptions) *cobra.Command {
	var month string
	var categories, asJSON bool

	cmd := &cobra.Command{
		Use:   "breakdown",
		Short: "Show the 50/30/20 budget breakdown for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := buildReport(cmd, opts, month, categories)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, r)
			}
			printBreakdown(out, r)
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "YYYY-MM (default: current month)")
	cmd.Flags().BoolVar(&categories, "categories", false, "also list totals per category")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

func newAdviceCommand(opts *rootOptions) *cobra.Command {
	var month string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "advice",
		Short: "Grade a month's savings and suggest improvements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := buildReport(cmd, opts, month, false)
			if err != nil {
				return err
			}
			a := budget.SavingsAdvice(r.Breakdown)
			r.Advice = &a

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, r)
			}
			printAdvice(out, r)
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "YYYY-MM (default: current month)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

func printBreakdown(w io.Writer, r *monthReport) {
	b := r.Breakdown
	fmt.Fprintf(w, "Budget breakdown for %s (%s)\n", monthTitle(r.Month), r.Currency)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Income\t%s\t\n", b.TotalIncome.StringFixed(2))
	fmt.Fprintf(tw, "Expenses\t%s\t\n", b.TotalExpenses.StringFixed(2))
	fmt.Fprintf(tw, "Needs\t%s\t\n", b.Needs.StringFixed(2))
	fmt.Fprintf(tw, "Wants\t%s\t\n", b.Wants.StringFixed(2))
	fmt.Fprintf(tw, "Debt payments\t%s\t\n", b.DebtPayments.StringFixed(2))
	fmt.Fprintf(tw, "Savings\t%s\t\n", b.Savings.StringFixed(2))
	tw.Flush()

	if r.Usage != nil {
		u := r.Usage
		fmt.Fprintf(w, "Monthly budget: %s spent of %s (%s%%), %s remaining\n",
			u.Spent.StringFixed(2), u.Budget.StringFixed(2), u.PercentUsed.StringFixed(1), u.Remaining.StringFixed(2))
		if u.OverBudget {
			fmt.Fprintln(w, "Over budget!")
		}
	}

	printCategories(w, "Expenses by category", r.Expenses)
	printCategories(w, "Income by category", r.Income)
}

func printCategories(w io.Writer, title string, rows []budget.CategoryAmount) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", title)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range rows {
		fmt.Fprintf(tw, "  %s\t%s\t\n", c.Category, c.Amount.StringFixed(2))
	}
	tw.Flush()
}

func printAdvice(w io.Writer, r *monthReport) {
	a := r.Advice
	fmt.Fprintf(w, "Savings advice for %s (%s)\n", monthTitle(r.Month), r.Currency)
	fmt.Fprintf(w, "Status: %s\n", a.Status)
	fmt.Fprintf(w, "Savings rate: %s%% (target %s%%, %s)\n",
		a.CurrentSavingsRate.StringFixed(1), a.OptimalSavingsRate.StringFixed(0), a.OptimalSavingsAmount.StringFixed(2))
	fmt.Fprintf(w, "Needs %s%% / Wants %s%% / Savings %s%%\n",
		a.NeedsPercent.StringFixed(1), a.WantsPercent.StringFixed(1), a.SavingsPercent.StringFixed(1))
	for _, tip := range a.Tips {
		fmt.Fprintf(w, "- %s\n", tip)
	}
}

func monthTitle(month string) string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return month
	}
	return t.Format("January 2006")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
