package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Spending statistics",
	}
	cmd.PersistentFlags().String("currency", "", "convert amounts to this currency")

	cmd.AddCommand(statsPerDayCmd())
	cmd.AddCommand(statsPerMonthCmd())
	cmd.AddCommand(statsPerYearCmd())
	cmd.AddCommand(statsTopCategoriesCmd())
	cmd.AddCommand(statsOverviewCmd())
	return cmd
}

func statsPerDayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "per-day",
		Short: "Spending per day from a start date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := currentUser()
			if err != nil {
				return err
			}
			from, err := requireFlag(cmd, "from")
			if err != nil {
				return err
			}
			raw, err := rt.Client().GetExpensesPerDay(cmd.Context(), user, from,
				optionalString(cmd, "to"), optionalString(cmd, "currency"))
			return respond(cmd, raw, err)
		},
	}
	cmd.Flags().String("from", "", "first date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "last date (YYYY-MM-DD)")
	return cmd
}

func statsPerMonthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "per-month",
		Short: "Spending per month from a start month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := currentUser()
			if err != nil {
				return err
			}
			from, err := requireFlag(cmd, "from")
			if err != nil {
				return err
			}
			raw, err := rt.Client().GetExpensesPerMonth(cmd.Context(), user, from, optionalString(cmd, "currency"))
			return respond(cmd, raw, err)
		},
	}
	cmd.Flags().String("from", "", "first year-month (YYYY-MM)")
	return cmd
}

func statsPerYearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "per-year",
		Short: "Spending per year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := currentUser()
			if err != nil {
				return err
			}
			raw, err := rt.Client().GetExpensesPerYear(cmd.Context(), user, optionalString(cmd, "currency"))
			return respond(cmd, raw, err)
		},
	}
}

func statsTopCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top-categories",
		Short: "Top spending categories per month, or of a single month",
		Example: `  expenses stats top-categories --from 2024-01
  expenses stats top-categories --month 2024-03 --max 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := currentUser()
			if err != nil {
				return err
			}
			from, _ := cmd.Flags().GetString("from")
			month, _ := cmd.Flags().GetString("month")
			currency := optionalString(cmd, "currency")

			switch {
			case from != "" && month != "":
				return fmt.Errorf("--from and --month are mutually exclusive")
			case from != "":
				raw, err := rt.Client().GetTopSpendingCategoriesPerMonth(cmd.Context(), user, from, currency)
				return respond(cmd, raw, err)
			case month != "":
				limit, err := optionalInt(cmd, "max")
				if err != nil {
					return err
				}
				raw, err := rt.Client().GetTopSpendingCategoriesOfMonth(cmd.Context(), user, month, limit, currency)
				return respond(cmd, raw, err)
			default:
				return fmt.Errorf("one of --from or --month is required")
			}
		},
	}
	cmd.Flags().String("from", "", "first year-month for the per-month breakdown")
	cmd.Flags().String("month", "", "single year-month to rank")
	cmd.Flags().Int("max", 0, "maximum categories for --month")
	return cmd
}

// overview is the combined output of `stats overview`.
type overview struct {
	Month         string          `json:"month"`
	Total         json.RawMessage `json:"total"`
	TopCategories json.RawMessage `json:"top_categories"`
	PerYear       json.RawMessage `json:"per_year"`
}

func statsOverviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Month total, top categories and yearly totals in one call",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := currentUser()
			if err != nil {
				return err
			}
			month, err := requireFlag(cmd, "month")
			if err != nil {
				return err
			}
			currency := optionalString(cmd, "currency")
			client := rt.Client()
			out := overview{Month: month}

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				raw, err := client.GetMonthTotalSpending(ctx, user, month, currency)
				out.Total = raw
				return err
			})
			g.Go(func() error {
				raw, err := client.GetTopSpendingCategoriesOfMonth(ctx, user, month, nil, currency)
				out.TopCategories = raw
				return err
			})
			g.Go(func() error {
				raw, err := client.GetExpensesPerYear(ctx, user, currency)
				out.PerYear = raw
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}
			return printValue(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().String("month", "", "year-month (YYYY-MM)")
	return cmd
}
