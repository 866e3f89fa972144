package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/totoapp/expenses-client/internal/domain"
	"gopkg.in/yaml.v3"
)

func expenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Create, change and list expenses",
	}

	cmd.AddCommand(expenseAddCmd())
	cmd.AddCommand(expenseUpdateCmd())
	cmd.AddCommand(expenseDeleteCmd())
	cmd.AddCommand(expenseConsolidateCmd())
	cmd.AddCommand(expenseListCmd())
	cmd.AddCommand(expenseTotalCmd())
	return cmd
}

func addExpenseFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "read the expense from a YAML or JSON file")
	cmd.Flags().Float64("amount", 0, "expense amount")
	cmd.Flags().String("date", "", "expense date (YYYY-MM-DD)")
	cmd.Flags().String("category", "", "expense category")
	cmd.Flags().String("description", "", "free text description")
	cmd.Flags().String("currency", "", "ISO currency code")
	cmd.Flags().StringSlice("tag", nil, "tag to attach (repeatable)")
}

func expenseAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an expense",
		Example: `  expenses expense add --amount 12.50 --date 2024-03-02 --category food
  expenses expense add -f lunch.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ex, err := expenseInput(cmd)
			if err != nil {
				return err
			}
			raw, err := rt.Client().PostExpense(cmd.Context(), ex)
			return respond(cmd, raw, err)
		},
	}
	addExpenseFlags(cmd)
	return cmd
}

func expenseUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, err := expenseInput(cmd)
			if err != nil {
				return err
			}
			raw, err := rt.Client().PutExpense(cmd.Context(), args[0], ex)
			return respond(cmd, raw, err)
		},
	}
	addExpenseFlags(cmd)
	return cmd
}

func expenseDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := rt.Client().DeleteExpense(cmd.Context(), args[0])
			return respond(cmd, raw, err)
		},
	}
}

func expenseConsolidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consolidate <id>",
		Short: "Mark an expense as consolidated",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := rt.Client().ConsolidateExpense(cmd.Context(), args[0])
			return respond(cmd, raw, err)
		},
	}
}

func expenseListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses of a month or carrying a tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := currentUser()
			if err != nil {
				return err
			}
			month, _ := cmd.Flags().GetString("month")
			tag, _ := cmd.Flags().GetString("tag")

			switch {
			case tag != "" && month != "":
				return fmt.Errorf("--month and --tag are mutually exclusive")
			case tag != "":
				raw, err := rt.Client().GetExpensesWithTag(cmd.Context(), user, tag)
				return respond(cmd, raw, err)
			case month != "":
				raw, err := rt.Client().GetExpenses(cmd.Context(), user, month)
				return respond(cmd, raw, err)
			default:
				return fmt.Errorf("one of --month or --tag is required")
			}
		},
	}
	cmd.Flags().String("month", "", "year-month to list (YYYY-MM)")
	cmd.Flags().String("tag", "", "list expenses carrying this tag")
	return cmd
}

func expenseTotalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "total",
		Short: "Show the total spending of a month",
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
			raw, err := rt.Client().GetMonthTotalSpending(cmd.Context(), user, month, optionalString(cmd, "currency"))
			return respond(cmd, raw, err)
		},
	}
	cmd.Flags().String("month", "", "year-month (YYYY-MM)")
	cmd.Flags().String("currency", "", "convert the total to this currency")
	return cmd
}

// expenseInput builds the request body from --file or the individual flags.
func expenseInput(cmd *cobra.Command) (any, error) {
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		return readExpenseFile(path)
	}
	return expenseFromFlags(cmd)
}

func expenseFromFlags(cmd *cobra.Command) (domain.Expense, error) {
	flags := cmd.Flags()
	if !flags.Changed("amount") {
		return domain.Expense{}, fmt.Errorf("--amount or --file is required")
	}

	ex := domain.Expense{}
	ex.Amount, _ = flags.GetFloat64("amount")
	ex.Date, _ = flags.GetString("date")
	ex.Category, _ = flags.GetString("category")
	ex.Description, _ = flags.GetString("description")
	ex.Currency, _ = flags.GetString("currency")
	ex.Tags, _ = flags.GetStringSlice("tag")
	if len(ex.Date) >= len("2006-01") {
		ex.YearMonth = ex.Date[:len("2006-01")]
	}
	if rt != nil {
		ex.User = rt.User()
	}
	return ex, nil
}

// readExpenseFile loads an expense body from YAML or JSON without interpreting
// it. JSON is passed through as-is; YAML is converted to the equivalent JSON.
// Files without a known extension are tried as JSON first.
func readExpenseFile(path string) (json.RawMessage, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read expense file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return jsonBody(path, raw)
	case ".yaml", ".yml":
		return yamlBody(path, raw)
	default:
		if body, err := jsonBody(path, raw); err == nil {
			return body, nil
		}
		return yamlBody(path, raw)
	}
}

func jsonBody(path string, raw []byte) (json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if !json.Valid(raw) {
		return nil, fmt.Errorf("decode expense file %s: invalid json", path)
	}
	return json.RawMessage(raw), nil
}

func yamlBody(path string, raw []byte) (json.RawMessage, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode expense file %s: %w", path, err)
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("convert expense file %s to json: %w", path, err)
	}
	return body, nil
}
