package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/activity"
	"github.com/fintrack-dev/fintrack/internal/model"
)

func newSettingsCommand(opts *rootOptions) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change settings",
	}
	settingsCmd.AddCommand(newSettingsShowCommand(opts), newSettingsSetCommand(opts))
	return settingsCmd
}

func newSettingsShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			settings, err := s.store.Settings(cmd.Context())
			if err != nil {
				return err
			}
			printSettings(cmd.OutOrStdout(), settings)
			return nil
		},
	}
}

func newSettingsSetCommand(opts *rootOptions) *cobra.Command {
	var primary, rate, monthlyBudget string
	var autoRate bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change one or more settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch model.SettingsPatch
			var changed []string
			flags := cmd.Flags()

			if flags.Changed("primary") {
				c, err := parseCurrency(primary)
				if err != nil {
					return err
				}
				patch.PrimaryCurrency = &c
				changed = append(changed, "primaryCurrency="+string(c))
			}
			if flags.Changed("rate") {
				r, err := parseMoney("rate", rate)
				if err != nil {
					return err
				}
				patch.ExchangeRate = &r
				changed = append(changed, "exchangeRate="+r.String())
			}
			if flags.Changed("auto-rate") {
				patch.AutoExchangeRate = &autoRate
				changed = append(changed, fmt.Sprintf("autoExchangeRate=%t", autoRate))
			}
			if flags.Changed("budget") {
				b, err := parseMoney("budget", monthlyBudget)
				if err != nil {
					return err
				}
				patch.MonthlyBudget = &b
				changed = append(changed, "monthlyBudget="+b.String())
			}
			if len(changed) == 0 {
				return fmt.Errorf("nothing to change: pass --primary, --rate, --auto-rate or --budget")
			}

			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			settings, err := s.store.UpdateSettings(cmd.Context(), patch)
			if err != nil {
				return err
			}
			s.record(activity.ActionSettings, strings.Join(changed, " "))
			printSettings(cmd.OutOrStdout(), settings)
			return nil
		},
	}

	cmd.Flags().StringVar(&primary, "primary", "", "primary currency (USD or PLN)")
	cmd.Flags().StringVar(&rate, "rate", "", "USD->PLN fallback exchange rate")
	cmd.Flags().BoolVar(&autoRate, "auto-rate", false, "use the live exchange rate when available")
	cmd.Flags().StringVar(&monthlyBudget, "budget", "", "monthly spending budget in the primary currency")

	return cmd
}

func printSettings(w io.Writer, s model.UserSettings) {
	fmt.Fprintf(w, "Primary currency:   %s\n", s.PrimaryCurrency)
	fmt.Fprintf(w, "Exchange rate:      1 USD = %s PLN\n", s.ExchangeRate.String())
	fmt.Fprintf(w, "Auto exchange rate: %t\n", s.AutoExchangeRate)
	if s.MonthlyBudget != nil {
		fmt.Fprintf(w, "Monthly budget:     %s\n", money(*s.MonthlyBudget, s.PrimaryCurrency))
	} else {
		fmt.Fprintln(w, "Monthly budget:     not set")
	}
}

func newRateCommand(opts *rootOptions) *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Fetch the live USD->PLN exchange rate",
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
			out := cmd.OutOrStdout()

			live, ok := s.rates.USDToPLN(ctx)
			if !ok {
				fmt.Fprintf(out, "Live rate unavailable, keeping 1 USD = %s PLN\n", settings.ExchangeRate.String())
				return nil
			}
			fmt.Fprintf(out, "Live rate: 1 USD = %s PLN (configured: %s)\n", live.String(), settings.ExchangeRate.String())

			if !apply {
				return nil
			}
			if _, err := s.store.UpdateSettings(ctx, model.SettingsPatch{ExchangeRate: &live}); err != nil {
				return err
			}
			s.record(activity.ActionApplyRate, "exchangeRate="+live.String())
			fmt.Fprintln(out, "Saved as the configured exchange rate.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "store the live rate as the configured rate")

	return cmd
}
