package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/credited/internal/model"
)

func newProfileCommand(a *app) *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change the name used to recognize your alerts",
	}
	profileCmd.AddCommand(newProfileShowCommand(a), newProfileSetCommand(a))
	return profileCmd
}

func newProfileShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current display name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, st, err := a.openService()
			if err != nil {
				return err
			}
			defer closeStore(st)

			p, err := svc.Profile(cmd.Context())
			if err != nil {
				return err
			}
			if p == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No display name set; name matching is off.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.DisplayName)
			return nil
		},
	}
}

func newProfileSetCommand(a *app) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "set <name...>",
		Short: "Set the display name",
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			if name == "" && !clear {
				return fmt.Errorf("a name is required (use --clear to turn name matching off)")
			}

			svc, st, err := a.openService()
			if err != nil {
				return err
			}
			defer closeStore(st)

			if err := svc.SetProfile(cmd.Context(), model.Profile{DisplayName: name}); err != nil {
				return err
			}
			a.log.Info().Str("display_name", name).Msg("profile updated")
			if name == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Display name cleared")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Display name set to %s\n", name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "clear the display name")
	return cmd
}
