package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sandeepkv93/todo/internal/app"
	"github.com/sandeepkv93/todo/internal/model"
	"github.com/spf13/cobra"
)

const dueDateLayout = "2006-01-02"

func newAddCommand(flags *globalFlags) *cobra.Command {
	var (
		description string
		due         string
		priority    string
	)
	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := model.ParsePriority(priority)
			if err != nil {
				return err
			}
			var dueAt *time.Time
			if strings.TrimSpace(due) != "" {
				parsed, err := time.ParseInLocation(dueDateLayout, strings.TrimSpace(due), time.UTC)
				if err != nil {
					return fmt.Errorf("due date must be YYYY-MM-DD: %w", err)
				}
				dueAt = &parsed
			}
			return flags.withApp(cmd, func(a *app.App) error {
				task, ok := a.Store.AddTask(strings.Join(args, " "), description, dueAt, p)
				if !ok {
					return errors.New("title is required")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %s: %s\n", task.ID, task.Title)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "task description (markdown)")
	cmd.Flags().StringVar(&due, "due", "", "due date, YYYY-MM-DD")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "low, medium or high")
	return cmd
}

func newListCommand(flags *globalFlags) *cobra.Command {
	var (
		filter string
		sortBy string
		search string
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List visible tasks using the saved filter, sort and search",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withApp(cmd, func(a *app.App) error {
				if cmd.Flags().Changed("filter") {
					f, err := model.ParseFilter(filter)
					if err != nil {
						return err
					}
					a.Store.SetFilter(f)
				}
				if cmd.Flags().Changed("sort") {
					s, err := model.ParseSortMode(sortBy)
					if err != nil {
						return err
					}
					a.Store.SetSort(s)
				}
				if cmd.Flags().Changed("search") {
					a.Store.SetSearch(search)
				}
				tasks := a.Store.VisibleTasks()
				if len(tasks) == 0 {
					if len(a.Store.Tasks()) == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "No tasks yet. Create your first task to get started.")
					} else {
						fmt.Fprintln(cmd.OutOrStdout(), "No tasks match.")
					}
					return nil
				}
				return writeTaskTable(cmd.OutOrStdout(), tasks)
			})
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "all, incomplete or completed (saved)")
	cmd.Flags().StringVar(&sortBy, "sort", "", "recent, oldest or dueDate (saved)")
	cmd.Flags().StringVar(&search, "search", "", "search text (saved)")
	return cmd
}

func newToggleCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a task between open and done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withApp(cmd, func(a *app.App) error {
				task, err := findIn(a, args[0], model.LocationActive)
				if err != nil {
					return err
				}
				a.Store.ToggleTask(task.ID)
				state := "done"
				if task.Completed {
					state = "open"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", state, task.Title)
				return nil
			})
		},
	}
}

func newRemoveCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Move a task to the trash",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withApp(cmd, func(a *app.App) error {
				task, err := findIn(a, args[0], model.LocationActive)
				if err != nil {
					return err
				}
				a.Store.MoveToTrash(task.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "moved to trash: %s\n", task.Title)
				return nil
			})
		},
	}
}

func newRestoreCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Move a task back from the trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withApp(cmd, func(a *app.App) error {
				task, err := findIn(a, args[0], model.LocationTrashed)
				if err != nil {
					return err
				}
				a.Store.RestoreFromTrash(task.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "restored: %s\n", task.Title)
				return nil
			})
		},
	}
}

func newTrashCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "trash",
		Short: "List trashed tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withApp(cmd, func(a *app.App) error {
				trash := a.Store.Trash()
				if len(trash) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Trash is empty")
					return nil
				}
				return writeTaskTable(cmd.OutOrStdout(), trash)
			})
		},
	}
}

func newEmptyTrashCommand(flags *globalFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "empty-trash",
		Short: "Permanently delete every trashed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withApp(cmd, func(a *app.App) error {
				n := len(a.Store.Trash())
				if n == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Trash is empty")
					return nil
				}
				if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Permanently delete %d task(s)? [y/N] ", n)) {
					fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
					return nil
				}
				a.Store.EmptyTrash()
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d task(s)\n", n)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func findIn(a *app.App, id string, loc model.Location) (model.Task, error) {
	task, ok := a.Store.Find(id)
	if !ok || task.Location != loc {
		return model.Task{}, fmt.Errorf("no %s task with id %s", loc, id)
	}
	return task, nil
}

func writeTaskTable(w io.Writer, tasks []model.Task) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "DONE", "PRIORITY", "DUE", "TITLE")
	for _, task := range tasks {
		done := " "
		if task.Completed {
			done = "x"
		}
		due := "-"
		if task.HasDueDate() {
			due = task.DueDate.Format(dueDateLayout)
		}
		priority := string(task.Priority)
		if priority == "" {
			priority = "-"
		}
		t.Row(task.ID, done, priority, due, task.Title)
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}
