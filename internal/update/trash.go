package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todo/internal/views"
)

func (m Model) handleTrashKey(msg tea.KeyMsg) Model {
	trash := m.Store.Trash()
	switch msg.String() {
	case "up", "k":
		m.TrashCursor = clampCursor(m.TrashCursor-1, len(trash))
	case "down", "j":
		m.TrashCursor = clampCursor(m.TrashCursor+1, len(trash))
	case "r":
		if len(trash) > 0 {
			t := trash[clampCursor(m.TrashCursor, len(trash))]
			m.Store.RestoreFromTrash(t.ID)
			m.Status = StatusBar{Text: fmt.Sprintf("restored: %s", t.Title)}
		}
	case "E":
		if len(trash) == 0 {
			m.Status = StatusBar{Text: "trash is already empty"}
			return m
		}
		m.ConfirmEmpty = true
		m.Status = StatusBar{Text: "confirm: permanently delete all trashed tasks?"}
	case "esc", "t":
		m.Screen = ScreenList
		return m
	}
	m.TrashCursor = clampCursor(m.TrashCursor, len(m.Store.Trash()))
	return m
}

func (m Model) handleConfirmEmptyKey(msg tea.KeyMsg) Model {
	m.ConfirmEmpty = false
	switch msg.String() {
	case "y", "Y":
		n := len(m.Store.Trash())
		m.Store.EmptyTrash()
		m.TrashCursor = 0
		m.Status = StatusBar{Text: fmt.Sprintf("trash emptied: %d task(s) deleted", n)}
	default:
		m.Status = StatusBar{Text: "empty trash cancelled"}
	}
	return m
}

func (m Model) renderTrashView(p views.Palette) string {
	return views.RenderTrashScreen(views.TrashScreenData{
		Rows:         taskRows(m.Store.Trash(), m.TrashCursor),
		ConfirmEmpty: m.ConfirmEmpty,
	}, p)
}
