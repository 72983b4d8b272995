package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todo/internal/app"
	"github.com/sandeepkv93/todo/internal/update"
	"github.com/spf13/cobra"
)

func newTUICommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive task list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, flags)
		},
	}
}

func runTUI(cmd *cobra.Command, flags *globalFlags) error {
	return flags.withApp(cmd, func(a *app.App) error {
		a.FollowSystemTheme()
		keys := a.Config.Keys
		m := update.NewModel(update.Options{
			Store: a.Store,
			Theme: a.Theme,
			Saves: a.Writer,
			Keys: update.GlobalKeyMap{
				Palette: keys.Palette,
				Theme:   keys.Theme,
				Help:    keys.Help,
				Quit:    keys.Quit,
			},
		})
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
		_, err := program.Run()
		return err
	})
}
