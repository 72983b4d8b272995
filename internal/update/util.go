package update

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/views"
)

func clampCursor(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

func formatDue(t model.Task) string {
	if !t.HasDueDate() {
		return ""
	}
	return t.DueDate.Format(dueDateLayout)
}

func formatStamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func taskRows(tasks []model.Task, cursor int) []views.TaskRowData {
	rows := make([]views.TaskRowData, 0, len(tasks))
	for i, t := range tasks {
		rows = append(rows, views.TaskRowData{
			ID:        t.ID,
			Title:     t.Title,
			Completed: t.Completed,
			Priority:  t.Priority,
			DueDate:   formatDue(t),
			Selected:  i == cursor,
		})
	}
	return rows
}

// setInput replaces the value and parks the cursor at the end so later
// edits apply where the user is typing.
func setInput(in *textinput.Model, value string) {
	in.SetValue(value)
	in.CursorEnd()
}
