package store

import (
	"slices"
	"strings"

	"github.com/sandeepkv93/todo/internal/model"
)

// VisibleTasks filters by completion, then by search text, then sorts. The
// result is a fresh slice of copies.
func (s *Store) VisibleTasks() []model.Task {
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		switch s.filter {
		case model.FilterCompleted:
			if !t.Completed {
				continue
			}
		case model.FilterIncomplete:
			if t.Completed {
				continue
			}
		}
		out = append(out, t.Clone())
	}

	if strings.TrimSpace(s.search) != "" {
		q := strings.ToLower(s.search)
		out = slices.DeleteFunc(out, func(t model.Task) bool { return !t.Matches(q) })
	}

	SortTasks(out, s.sort)
	return out
}

// SortTasks sorts in place. The sort is stable, so tasks that compare equal
// keep their list order.
func SortTasks(tasks []model.Task, mode model.SortMode) {
	switch mode {
	case model.SortRecent:
		slices.SortStableFunc(tasks, func(a, b model.Task) int {
			return b.UpdatedAt.Compare(a.UpdatedAt)
		})
	case model.SortOldest:
		slices.SortStableFunc(tasks, func(a, b model.Task) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
	case model.SortDueDate:
		slices.SortStableFunc(tasks, compareDueDate)
	}
}

// compareDueDate orders tasks without a due date after those with one; two
// undated tasks are equal.
func compareDueDate(a, b model.Task) int {
	ad, bd := a.HasDueDate(), b.HasDueDate()
	switch {
	case !ad && !bd:
		return 0
	case !ad:
		return 1
	case !bd:
		return -1
	default:
		return a.DueDate.Compare(*b.DueDate)
	}
}
