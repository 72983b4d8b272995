package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/views"
)

func (m Model) handleListKey(msg tea.KeyMsg) Model {
	visible := m.Store.VisibleTasks()
	switch msg.String() {
	case "up", "k":
		m.Cursor = clampCursor(m.Cursor-1, len(visible))
	case "down", "j":
		m.Cursor = clampCursor(m.Cursor+1, len(visible))
	case " ", "x":
		if t, ok := m.selectedTask(); ok {
			m.Store.ToggleTask(t.ID)
			state := "open"
			if !t.Completed {
				state = "done"
			}
			m.Status = StatusBar{Text: fmt.Sprintf("%s: %s", state, t.Title)}
		}
	case "d", "delete":
		if t, ok := m.selectedTask(); ok {
			m.Store.MoveToTrash(t.ID)
			m.Status = StatusBar{Text: fmt.Sprintf("moved to trash: %s", t.Title)}
		}
	case "a", "n":
		m.openCreate()
	case "t":
		m.Screen = ScreenTrash
		m.TrashCursor = 0
	case "f":
		next := m.Store.Filter().Next()
		m.Store.SetFilter(next)
		m.Status = StatusBar{Text: "filter: " + next.Label()}
	case "s":
		next := m.Store.Sort().Next()
		m.Store.SetSort(next)
		m.Status = StatusBar{Text: "sort: " + next.Label()}
	case "/":
		m.Searching = true
		m.searchInput.Focus()
		m.Status = StatusBar{Text: "search: type to filter, enter to keep, esc to clear"}
	case "esc":
		if m.Store.Search() != "" {
			m.setSearch("")
			m.Status = StatusBar{Text: "search cleared"}
		}
	}
	m.Cursor = clampCursor(m.Cursor, len(m.Store.VisibleTasks()))
	return m
}

func (m Model) handleSearchKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "enter":
		m.Searching = false
		m.searchInput.Blur()
	case "esc":
		m.Searching = false
		m.searchInput.Blur()
		m.setSearch("")
	default:
		switch msg.Type {
		case tea.KeyRunes:
			m.setSearch(m.searchInput.Value() + string(msg.Runes))
		case tea.KeySpace:
			m.setSearch(m.searchInput.Value() + " ")
		default:
			m.searchInput, _ = m.searchInput.Update(msg)
			m.setSearch(m.searchInput.Value())
		}
	}
	m.Cursor = clampCursor(m.Cursor, len(m.Store.VisibleTasks()))
	return m
}

// setSearch keeps the input and the store in step. The store receives the
// raw text; trimming only decides whether the search applies.
func (m *Model) setSearch(q string) {
	setInput(&m.searchInput, q)
	m.Store.SetSearch(q)
}

func (m Model) selectedTask() (model.Task, bool) {
	visible := m.Store.VisibleTasks()
	if len(visible) == 0 || m.Cursor < 0 || m.Cursor >= len(visible) {
		return model.Task{}, false
	}
	return visible[m.Cursor], true
}

func (m Model) renderListView(p views.Palette) string {
	visible := m.Store.VisibleTasks()
	stats := m.Store.Stats()
	searchView := m.Store.Search()
	if m.Searching {
		searchView = m.searchInput.View()
	}
	return views.RenderListScreen(views.ListScreenData{
		SearchView: searchView,
		Searching:  m.Searching,
		Filter:     m.Store.Filter(),
		Sort:       m.Store.Sort(),
		Rows:       taskRows(visible, m.Cursor),
		TotalTasks: stats.Active,
		TrashCount: stats.Trashed,
	}, p)
}

func (m Model) renderDetailPane(p views.Palette) string {
	t, ok := m.selectedTask()
	if !ok {
		return views.RenderDetailPane(views.DetailData{}, p)
	}
	return views.RenderDetailPane(views.DetailData{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    t.Priority,
		DueDate:     formatDue(t),
		CreatedAt:   formatStamp(t.CreatedAt),
		UpdatedAt:   formatStamp(t.UpdatedAt),
	}, p)
}
