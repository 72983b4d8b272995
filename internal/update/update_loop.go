package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todo/internal/theme"
	"github.com/sandeepkv93/todo/internal/views"
)

func (m Model) Init() tea.Cmd {
	return waitForThemeCmd(m.themeEvents)
}

func waitForThemeCmd(ch <-chan theme.Scheme) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return ThemeChangedMsg{Scheme: s}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		keyStr := typed.String()
		if keyStr == "ctrl+c" {
			return m.quit()
		}
		if m.Palette.Active {
			return m.handlePaletteKey(typed), nil
		}
		if m.Screen == ScreenCreate {
			return m.handleCreateKey(typed), nil
		}
		if m.Searching {
			return m.handleSearchKey(typed), nil
		}
		if m.ConfirmEmpty {
			return m.handleConfirmEmptyKey(typed), nil
		}

		switch keyStr {
		case m.Keys.Palette:
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.SetValue("")
			m.commandInput.Focus()
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Theme:
			m.Scheme = m.Theme.Toggle()
			m.Status = StatusBar{Text: fmt.Sprintf("theme: %s", m.Scheme)}
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown"}
			} else {
				m.Status = StatusBar{Text: "help hidden"}
			}
			return m, nil
		case m.Keys.Quit:
			return m.quit()
		}

		switch m.Screen {
		case ScreenList:
			return m.handleListKey(typed), nil
		case ScreenTrash:
			return m.handleTrashKey(typed), nil
		}
	case ThemeChangedMsg:
		if typed.Scheme.IsValid() {
			m.Scheme = typed.Scheme
		}
		return m, waitForThemeCmd(m.themeEvents)
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.Quitting = true
	if m.unsubscribeTheme != nil {
		m.unsubscribeTheme()
		m.unsubscribeTheme = nil
	}
	return m, tea.Quit
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	palette := views.PaletteFor(m.Scheme)

	mainPane := ""
	sidePane := ""
	switch m.Screen {
	case ScreenList:
		mainPane = m.renderListView(palette)
		sidePane = m.renderDetailPane(palette)
	case ScreenCreate:
		mainPane = m.renderCreateView(palette)
	case ScreenTrash:
		mainPane = m.renderTrashView(palette)
	}
	if p := views.RenderCommandPalette(m.Palette.Active, m.commandInput.Value()); p != "" {
		sidePane += "\n\n" + p
	}
	if m.HelpVisible {
		sidePane += "\n\n" + m.renderHelpView()
	}

	status := m.Status
	if !status.IsError && m.saves != nil {
		if err := m.saves.LastError(); err != nil {
			status = StatusBar{Text: "save failed: " + err.Error(), IsError: true}
		}
	}
	statusLine := ""
	if status.Text != "" {
		if status.IsError {
			statusLine = "error: " + status.Text
		} else {
			statusLine = status.Text
		}
	}

	stats := m.Store.Stats()
	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("todo | %s | %d open, %d done, %d in trash | theme: %s", m.Screen, stats.Active-stats.Completed, stats.Completed, stats.Trashed, m.Scheme),
		MainPane:   mainPane,
		SidePane:   sidePane,
		StatusLine: statusLine,
		StatusErr:  status.IsError,
		Footer:     m.footer(),
	}, palette)
}

func (m Model) footer() string {
	switch m.Screen {
	case ScreenCreate:
		return "keys: tab next | enter save | esc cancel"
	case ScreenTrash:
		return fmt.Sprintf("keys: r restore | E empty | esc back | %s cmd | %s theme | %s help | %s quit", m.Keys.Palette, m.Keys.Theme, m.Keys.Help, m.Keys.Quit)
	default:
		return fmt.Sprintf("keys: a add | space toggle | d trash | t view trash | f filter | s sort | / search | %s cmd | %s theme | %s help | %s quit", m.Keys.Palette, m.Keys.Theme, m.Keys.Help, m.Keys.Quit)
	}
}
