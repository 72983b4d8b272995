package views

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/todo/internal/model"
)

const (
	EmptyListTitle    = "No tasks yet"
	EmptyListSubtitle = "Create your first task to get started"
	EmptyTrashTitle   = "Trash is empty"
	NoMatchesTitle    = "No tasks match"
)

type TaskRowData struct {
	ID        string
	Title     string
	Completed bool
	Priority  model.Priority
	DueDate   string
	Selected  bool
}

type ListScreenData struct {
	SearchView string
	Searching  bool
	Filter     model.Filter
	Sort       model.SortMode
	Rows       []TaskRowData
	// TotalTasks distinguishes an empty store from a filter with no matches.
	TotalTasks int
	TrashCount int
}

type FormFieldData struct {
	Label   string
	View    string
	Focused bool
}

type CreateScreenData struct {
	Fields   []FormFieldData
	Priority model.Priority
	// PriorityFocused marks the priority selector as the focused field.
	PriorityFocused bool
	Error           string
}

type TrashScreenData struct {
	Rows         []TaskRowData
	ConfirmEmpty bool
}

type DetailData struct {
	ID          string
	Title       string
	Description string
	Completed   bool
	Priority    model.Priority
	DueDate     string
	CreatedAt   string
	UpdatedAt   string
}

type HelpPanelData struct {
	Screen   string
	Bindings []string
	HelpView string
}

func RenderListScreen(data ListScreenData, p Palette) string {
	st := p.styles()
	var b strings.Builder
	b.WriteString(st.header.Render("tasks") + "\n")
	if data.Searching || data.SearchView != "" {
		b.WriteString("search: " + data.SearchView + "\n")
	}

	buttons := make([]string, 0, len(model.Filters))
	for _, f := range model.Filters {
		if f == data.Filter {
			buttons = append(buttons, st.active.Render("["+f.Label()+"]"))
		} else {
			buttons = append(buttons, st.muted.Render(" "+f.Label()+" "))
		}
	}
	b.WriteString("filter: " + strings.Join(buttons, " ") + "\n")
	b.WriteString("sort: " + data.Sort.Label() + "\n\n")

	if len(data.Rows) == 0 {
		if data.TotalTasks == 0 {
			b.WriteString(st.text.Render(EmptyListTitle) + "\n")
			b.WriteString(st.muted.Render(EmptyListSubtitle))
		} else {
			b.WriteString(st.muted.Render(NoMatchesTitle))
		}
		return strings.TrimSpace(b.String())
	}
	for _, row := range data.Rows {
		b.WriteString(renderTaskRow(row, st) + "\n")
	}
	if data.TrashCount > 0 {
		b.WriteString(st.muted.Render(fmt.Sprintf("\ntrash: %d", data.TrashCount)))
	}
	return strings.TrimSpace(b.String())
}

func RenderCreateScreen(data CreateScreenData, p Palette) string {
	st := p.styles()
	var b strings.Builder
	b.WriteString(st.header.Render("new task") + "\n")
	b.WriteString("keys: [tab] next field [left/right] priority [enter] save [esc] cancel\n\n")
	for _, f := range data.Fields {
		cursor := " "
		if f.Focused {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s: %s\n", cursor, f.Label, f.View))
	}

	cursor := " "
	if data.PriorityFocused {
		cursor = ">"
	}
	opts := make([]string, 0, len(model.Priorities))
	for _, pr := range model.Priorities {
		label := strings.ToLower(string(pr))
		if pr == data.Priority {
			opts = append(opts, st.active.Render("("+label+")"))
		} else {
			opts = append(opts, st.muted.Render(" "+label+" "))
		}
	}
	b.WriteString(fmt.Sprintf("%s priority: %s\n", cursor, strings.Join(opts, " ")))

	if data.Error != "" {
		b.WriteString("\n" + st.err.Render("error: "+data.Error))
	}
	return strings.TrimSpace(b.String())
}

func RenderTrashScreen(data TrashScreenData, p Palette) string {
	st := p.styles()
	var b strings.Builder
	b.WriteString(st.header.Render("trash") + "\n")
	if len(data.Rows) == 0 {
		b.WriteString("\n" + st.muted.Render(EmptyTrashTitle))
		return strings.TrimSpace(b.String())
	}
	b.WriteString("actions: [r]restore [E]empty trash [esc]back\n\n")
	for _, row := range data.Rows {
		b.WriteString(renderTaskRow(row, st) + "\n")
	}
	if data.ConfirmEmpty {
		b.WriteString("\n" + st.confirm.Render(fmt.Sprintf("Permanently delete %d task(s)? [y/N]", len(data.Rows))))
	}
	return strings.TrimSpace(b.String())
}

// RenderDetailPane shows the selected task. The description is rendered as
// markdown.
func RenderDetailPane(data DetailData, p Palette) string {
	if strings.TrimSpace(data.ID) == "" {
		return "details:\n(no selection)"
	}
	status := "open"
	if data.Completed {
		status = "done"
	}
	var b strings.Builder
	b.WriteString("details:\n")
	b.WriteString(fmt.Sprintf("title: %s\n", data.Title))
	b.WriteString(fmt.Sprintf("status: %s\n", status))
	if data.Priority != model.PriorityNone {
		b.WriteString(fmt.Sprintf("priority: %s\n", data.Priority))
	}
	if data.DueDate != "" {
		b.WriteString(fmt.Sprintf("due: %s\n", data.DueDate))
	}
	b.WriteString(fmt.Sprintf("created: %s\n", data.CreatedAt))
	b.WriteString(fmt.Sprintf("updated: %s\n", data.UpdatedAt))
	if md := RenderMarkdown(data.Description, p.Scheme); md != "" {
		b.WriteString("\n" + md)
	}
	return strings.TrimSpace(b.String())
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: :%s", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s screen:\n%s\n%s",
		strings.ToLower(data.Screen),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func renderTaskRow(row TaskRowData, st styles) string {
	cursor := " "
	if row.Selected {
		cursor = ">"
	}
	check := "[ ]"
	title := st.text.Render(row.Title)
	if row.Completed {
		check = "[x]"
		title = st.done.Render(row.Title)
	}
	line := fmt.Sprintf("%s %s %s", cursor, check, title)
	if badge := priorityBadge(row.Priority, st); badge != "" {
		line += " " + badge
	}
	if row.DueDate != "" {
		line += " " + st.muted.Render("due "+row.DueDate)
	}
	return line
}

func priorityBadge(p model.Priority, st styles) string {
	switch p {
	case model.PriorityHigh:
		return st.high.Render("!high")
	case model.PriorityMedium:
		return st.medium.Render("!medium")
	case model.PriorityLow:
		return st.low.Render("!low")
	default:
		return ""
	}
}
