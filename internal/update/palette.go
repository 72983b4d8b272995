package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todo/internal/commands"
	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/theme"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		switch msg.Type {
		case tea.KeyRunes:
			setInput(&m.commandInput, m.commandInput.Value()+string(msg.Runes))
		case tea.KeySpace:
			setInput(&m.commandInput, m.commandInput.Value()+" ")
		default:
			m.commandInput, _ = m.commandInput.Update(msg)
		}
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.closePalette()
		return m
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			task, ok := m.Store.AddTask(a.Title, "", nil, a.Priority)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "title is required"}
			}
			m.Screen = ScreenList
			m.Cursor = 0
			return commands.Result{Message: fmt.Sprintf("added: %s", task.Title)}, nil
		},
		Filter: func(f commands.FilterArgs) (commands.Result, error) {
			m.Store.SetFilter(f.Filter)
			return commands.Result{Message: "filter: " + f.Filter.Label()}, nil
		},
		Sort: func(s commands.SortArgs) (commands.Result, error) {
			m.Store.SetSort(s.Sort)
			return commands.Result{Message: "sort: " + s.Sort.Label()}, nil
		},
		Search: func(s commands.SearchArgs) (commands.Result, error) {
			m.setSearch(s.Query)
			if strings.TrimSpace(s.Query) == "" {
				return commands.Result{Message: "search cleared"}, nil
			}
			return commands.Result{Message: fmt.Sprintf("search: %s", s.Query)}, nil
		},
		Trash: func(t commands.TargetArgs) (commands.Result, error) {
			task, err := m.resolveTarget(t.ID, model.LocationActive)
			if err != nil {
				return commands.Result{}, err
			}
			m.Store.MoveToTrash(task.ID)
			return commands.Result{Message: fmt.Sprintf("moved to trash: %s", task.Title)}, nil
		},
		Restore: func(t commands.TargetArgs) (commands.Result, error) {
			task, err := m.resolveTarget(t.ID, model.LocationTrashed)
			if err != nil {
				return commands.Result{}, err
			}
			m.Store.RestoreFromTrash(task.ID)
			return commands.Result{Message: fmt.Sprintf("restored: %s", task.Title)}, nil
		},
		Empty: func() (commands.Result, error) {
			n := len(m.Store.Trash())
			m.Store.EmptyTrash()
			m.TrashCursor = 0
			return commands.Result{Message: fmt.Sprintf("trash emptied: %d task(s) deleted", n)}, nil
		},
		Theme: func(t commands.ThemeArgs) (commands.Result, error) {
			if t.Scheme == "" {
				m.Scheme = m.Theme.Toggle()
			} else {
				s, err := theme.ParseScheme(t.Scheme)
				if err != nil {
					return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
				}
				m.Theme.SetTheme(s)
				m.Scheme = m.Theme.Theme()
			}
			return commands.Result{Message: fmt.Sprintf("theme: %s", m.Scheme)}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	} else {
		m.Status = StatusBar{Text: res.Message}
	}
	m.Cursor = clampCursor(m.Cursor, len(m.Store.VisibleTasks()))
	m.TrashCursor = clampCursor(m.TrashCursor, len(m.Store.Trash()))
	m.closePalette()
	return m
}

// resolveTarget finds the task a palette command addresses. An empty id means
// the row under the cursor, and only when the current screen shows loc.
func (m Model) resolveTarget(id string, loc model.Location) (model.Task, error) {
	if id == "" {
		onScreen := m.Screen == ScreenTrash
		if loc == model.LocationActive {
			onScreen = m.Screen == ScreenList
		}
		if !onScreen {
			return model.Task{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("an id is required outside the %s view", viewName(loc))}
		}
		var (
			task model.Task
			ok   bool
		)
		if loc == model.LocationTrashed {
			trash := m.Store.Trash()
			if len(trash) > 0 {
				task, ok = trash[clampCursor(m.TrashCursor, len(trash))], true
			}
		} else {
			task, ok = m.selectedTask()
		}
		if !ok {
			return model.Task{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no task selected"}
		}
		return task, nil
	}
	task, ok := m.Store.Find(id)
	if !ok || task.Location != loc {
		return model.Task{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no %s task with id %s", loc, id)}
	}
	return task, nil
}

func viewName(loc model.Location) string {
	if loc == model.LocationTrashed {
		return "trash"
	}
	return "list"
}
