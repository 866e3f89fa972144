package main

import "github.com/spf13/cobra"

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent mutating calls recorded in the local journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			entries, err := rt.History(limit)
			if err != nil {
				return err
			}
			if entries == nil {
				return printValue(cmd.OutOrStdout(), []any{})
			}
			return printValue(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().Int("limit", 20, "maximum entries to show (0 for all)")
	return cmd
}
