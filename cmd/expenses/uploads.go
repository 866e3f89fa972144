package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/totoapp/expenses-client/pkg/expenses"
)

func uploadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uploads",
		Short: "Import bank statements and manage uploaded months",
	}

	cmd.AddCommand(uploadsUploadCmd())
	cmd.AddCommand(uploadsConfirmCmd())
	cmd.AddCommand(uploadsListCmd())
	cmd.AddCommand(uploadsGetCmd())
	cmd.AddCommand(uploadsStatusCmd())
	cmd.AddCommand(uploadsDeleteAllCmd())
	return cmd
}

func uploadsUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "upload <file>",
		Short:   "Upload a bank statement",
		Example: "  expenses uploads upload --bank ing statement.csv",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := currentUser()
			if err != nil {
				return err
			}
			bank, err := requireFlag(cmd, "bank")
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open statement: %w", err)
			}
			defer f.Close()

			raw, err := rt.Client().PostExpensesFile(cmd.Context(), expenses.File{
				Name:   filepath.Base(args[0]),
				Reader: f,
			}, bank, user)
			return respond(cmd, raw, err)
		},
	}
	cmd.Flags().String("bank", "", "bank code identifying the statement format")
	return cmd
}

func uploadsConfirmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "confirm",
		Short: "Confirm uploaded months",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := currentUser()
			if err != nil {
				return err
			}
			months, _ := cmd.Flags().GetStringSlice("month")
			if len(months) == 0 {
				return fmt.Errorf("at least one --month is required")
			}
			raw, err := rt.Client().ConfirmUploads(cmd.Context(), months, user)
			return respond(cmd, raw, err)
		},
	}
	cmd.Flags().StringSlice("month", nil, "month id to confirm (repeatable)")
	return cmd
}

func uploadsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List uploaded months",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := currentUser()
			if err != nil {
				return err
			}
			raw, err := rt.Client().GetUploads(cmd.Context(), user)
			return respond(cmd, raw, err)
		},
	}
}

func uploadsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <month-id>",
		Short: "Show one uploaded month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := rt.Client().GetUploadedMonth(cmd.Context(), args[0])
			return respond(cmd, raw, err)
		},
	}
}

func uploadsStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <month-id>",
		Short: "Show the processing status of an upload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := rt.Client().GetUploadStatus(cmd.Context(), args[0])
			return respond(cmd, raw, err)
		},
	}
}

func uploadsDeleteAllCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete-all",
		Short: "Delete every upload of the user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				return fmt.Errorf("refusing to delete all uploads without --yes")
			}
			user, err := currentUser()
			if err != nil {
				return err
			}
			raw, err := rt.Client().DeleteAllUploads(cmd.Context(), user)
			return respond(cmd, raw, err)
		},
	}
	cmd.Flags().Bool("yes", false, "confirm the deletion")
	return cmd
}
