package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/totoapp/expenses-client/pkg/expenses"
)

// printJSON writes raw indented on w. Invalid JSON is written unchanged.
func printJSON(w io.Writer, raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		buf.Reset()
		buf.Write(raw)
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

// printValue marshals v and prints it like an API response.
func printValue(w io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return printJSON(w, raw)
}

// respond prints a client result or returns its error.
func respond(cmd *cobra.Command, raw json.RawMessage, err error) error {
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), raw)
}

// currentUser returns the user from --user, API_USER or the selected profile.
func currentUser() (string, error) {
	if rt != nil && rt.User() != "" {
		return rt.User(), nil
	}
	return "", fmt.Errorf("user is required: pass --user, set API_USER or select a profile with a user")
}

// optionalString returns nil unless the flag was set explicitly.
func optionalString(cmd *cobra.Command, name string) *string {
	f := cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return nil
	}
	return expenses.String(f.Value.String())
}

// optionalInt returns nil unless the flag was set explicitly.
func optionalInt(cmd *cobra.Command, name string) (*int, error) {
	f := cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return nil, nil
	}
	n, err := cmd.Flags().GetInt(name)
	if err != nil {
		return nil, err
	}
	return expenses.Int(n), nil
}

func requireFlag(cmd *cobra.Command, name string) (string, error) {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", err
	}
	if val = strings.TrimSpace(val); val == "" {
		return "", fmt.Errorf("--%s is required", name)
	}
	return val, nil
}
