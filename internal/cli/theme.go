package cli

import (
	"fmt"

	"github.com/sandeepkv93/todo/internal/app"
	"github.com/sandeepkv93/todo/internal/config"
	"github.com/spf13/cobra"
)

func newThemeCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "theme",
		Short: "Show the configured theme mode and the scheme it resolves to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withApp(cmd, func(a *app.App) error {
				a.FollowSystemTheme()
				mode := a.Config.Theme.Mode
				if mode == "" {
					mode = config.ThemeSystem
				}
				fmt.Fprintf(cmd.OutOrStdout(), "mode: %s\nscheme: %s\n", mode, a.Theme.Theme())
				if a.Config.Theme.AppearanceFile != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "appearance file: %s\n", a.Config.Theme.AppearanceFile)
				}
				return nil
			})
		},
	}
}
