package main

import "github.com/spf13/cobra"

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show user settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := currentUser()
			if err != nil {
				return err
			}
			if app, _ := cmd.Flags().GetBool("app"); app {
				raw, err := rt.Client().GetAppSettings(cmd.Context(), user)
				return respond(cmd, raw, err)
			}
			raw, err := rt.Client().GetSettings(cmd.Context(), user)
			return respond(cmd, raw, err)
		},
	}
	cmd.Flags().Bool("app", false, "show application level settings instead")
	return cmd
}
