package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/totoapp/expenses-client/internal/app"
	"github.com/totoapp/expenses-client/internal/config"
	"github.com/totoapp/expenses-client/internal/logger"
)

var (
	version = "dev"

	v  = viper.New()
	rt *app.App

	rootCmd = &cobra.Command{
		Use:   "expenses",
		Short: "Command line client for the expenses service",
		Long: `expenses talks to a remote expense-tracking service. Every command maps to
one API call and prints the JSON response on stdout.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}
)

// skipRuntime marks commands that never touch the backend.
const skipRuntime = "skip-runtime"

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("base-url", "", "expenses service base URL")
	flags.String("profile", "", "backend profile id from the profiles file")
	flags.String("profiles-file", "", "profiles file (YAML or JSON)")
	flags.String("publishers-file", "", "publishers file for mutation events (YAML or JSON)")
	flags.String("user", "", "default user for commands that take one")
	flags.Int64("timeout", 0, "request timeout in seconds")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("journal-type", "", "journal backend (bbolt, none)")
	flags.String("journal-path", "", "journal database path")
	flags.String("metrics-textfile", "", "write Prometheus metrics to this file on exit")

	bindings := map[string]string{
		"api_base_url":        "base-url",
		"profile":             "profile",
		"profiles_file":       "profiles-file",
		"publishers_file":     "publishers-file",
		"api_user":            "user",
		"api_timeout_seconds": "timeout",
		"log_level":           "log-level",
		"journal_type":        "journal-type",
		"journal_path":        "journal-path",
		"metrics_textfile":    "metrics-textfile",
	}
	for key, flag := range bindings {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(expenseCmd())
	rootCmd.AddCommand(uploadsCmd())
	rootCmd.AddCommand(settingsCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	if closeErr := teardown(); closeErr != nil && err == nil {
		err = closeErr
	}
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	if _, ok := cmd.Annotations[skipRuntime]; ok {
		return nil
	}

	cfg, err := config.LoadWith(v)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.DebugObj("expenses cli starting", "command", cmd.CommandPath())

	rt, err = app.New(cmd.Context(), cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize client", "error", err.Error())
		return err
	}
	return nil
}

// teardown releases the runtime after every command, failed ones included.
func teardown() error {
	defer logger.Close()
	if rt == nil {
		return nil
	}
	err := rt.Close()
	rt = nil
	return err
}
