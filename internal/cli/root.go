// Package cli exposes the task store as cobra commands. Running the binary
// with no subcommand opens the TUI.
package cli

import (
	"context"
	"errors"

	"github.com/sandeepkv93/todo/internal/app"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	configPath string
	ephemeral  bool
	verbose    bool
}

func (g *globalFlags) options() app.Options {
	return app.Options{ConfigPath: g.configPath, Ephemeral: g.ephemeral, Verbose: g.verbose}
}

// withApp opens the runtime, runs fn and closes it, reporting save failures
// as command errors.
func (g *globalFlags) withApp(cmd *cobra.Command, fn func(*app.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.New(ctx, g.options())
	if err != nil {
		return err
	}
	runErr := fn(a)
	return errors.Join(runErr, a.Close(ctx))
}

func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "todo",
		Short:         "A terminal to-do list",
		Long:          "todo keeps a task list and a trash, persisted locally. With no subcommand it opens the interactive UI.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, flags)
		},
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default: user config dir/todo/config.toml)")
	root.PersistentFlags().BoolVar(&flags.ephemeral, "ephemeral", false, "keep tasks in memory for this run only")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newTUICommand(flags),
		newAddCommand(flags),
		newListCommand(flags),
		newToggleCommand(flags),
		newRemoveCommand(flags),
		newRestoreCommand(flags),
		newTrashCommand(flags),
		newEmptyTrashCommand(flags),
		newExportCommand(flags),
		newImportCommand(flags),
		newThemeCommand(flags),
	)
	return root
}
