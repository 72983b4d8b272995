package update

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/views"
)

func (m *Model) openCreate() {
	m.Screen = ScreenCreate
	m.Create = CreateForm{Focus: FieldTitle, Priority: model.PriorityMedium}
	m.titleInput.SetValue("")
	m.descInput.SetValue("")
	m.dueInput.SetValue("")
	m.focusCreateField()
	m.Status = StatusBar{Text: "new task"}
}

func (m *Model) closeCreate() {
	m.Screen = ScreenList
	m.titleInput.Blur()
	m.descInput.Blur()
	m.dueInput.Blur()
}

func (m *Model) focusCreateField() {
	m.titleInput.Blur()
	m.descInput.Blur()
	m.dueInput.Blur()
	if in := m.focusedInput(); in != nil {
		in.Focus()
	}
}

func (m *Model) focusedInput() *textinput.Model {
	switch m.Create.Focus {
	case FieldTitle:
		return &m.titleInput
	case FieldDescription:
		return &m.descInput
	case FieldDueDate:
		return &m.dueInput
	default:
		return nil
	}
}

func (m Model) handleCreateKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.closeCreate()
		m.Status = StatusBar{Text: "create cancelled"}
		return m
	case "enter":
		return m.submitCreate()
	case "tab", "down":
		m.Create.Focus = (m.Create.Focus + 1) % numCreateFields
		m.focusCreateField()
		return m
	case "shift+tab", "up":
		m.Create.Focus = (m.Create.Focus + numCreateFields - 1) % numCreateFields
		m.focusCreateField()
		return m
	}

	if m.Create.Focus == FieldPriority {
		switch msg.String() {
		case "left", "h":
			m.Create.Priority = stepPriority(m.Create.Priority, -1)
		case "right", "l", " ":
			m.Create.Priority = stepPriority(m.Create.Priority, 1)
		}
		return m
	}

	in := m.focusedInput()
	switch msg.Type {
	case tea.KeyRunes:
		setInput(in, in.Value()+string(msg.Runes))
	case tea.KeySpace:
		setInput(in, in.Value()+" ")
	default:
		*in, _ = in.Update(msg)
	}
	m.Create.Err = ""
	return m
}

func (m Model) submitCreate() Model {
	title := strings.TrimSpace(m.titleInput.Value())
	if utf8.RuneCountInString(title) < minTitleLen {
		m.Create.Err = fmt.Sprintf("title must be at least %d characters", minTitleLen)
		m.Create.Focus = FieldTitle
		m.focusCreateField()
		return m
	}

	var due *time.Time
	if raw := strings.TrimSpace(m.dueInput.Value()); raw != "" {
		parsed, err := time.ParseInLocation(dueDateLayout, raw, time.UTC)
		if err != nil {
			m.Create.Err = "due date must be YYYY-MM-DD"
			m.Create.Focus = FieldDueDate
			m.focusCreateField()
			return m
		}
		due = &parsed
	}

	task, ok := m.Store.AddTask(title, strings.TrimSpace(m.descInput.Value()), due, m.Create.Priority)
	if !ok {
		m.Create.Err = "title is required"
		return m
	}
	m.closeCreate()
	m.Cursor = 0
	m.Status = StatusBar{Text: fmt.Sprintf("added: %s", task.Title)}
	return m
}

func stepPriority(p model.Priority, delta int) model.Priority {
	idx := 0
	for i, v := range model.Priorities {
		if v == p {
			idx = i
			break
		}
	}
	n := len(model.Priorities)
	return model.Priorities[((idx+delta)%n+n)%n]
}

func (m Model) renderCreateView(p views.Palette) string {
	return views.RenderCreateScreen(views.CreateScreenData{
		Fields: []views.FormFieldData{
			{Label: "title", View: m.titleInput.View(), Focused: m.Create.Focus == FieldTitle},
			{Label: "description", View: m.descInput.View(), Focused: m.Create.Focus == FieldDescription},
			{Label: "due date", View: m.dueInput.View(), Focused: m.Create.Focus == FieldDueDate},
		},
		Priority:        m.Create.Priority,
		PriorityFocused: m.Create.Focus == FieldPriority,
		Error:           m.Create.Err,
	}, p)
}
