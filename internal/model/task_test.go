package model

import (
	"errors"
	"testing"
	"time"
)

func TestTaskValidateSuccess(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:        "task-1",
		Title:     "Buy milk",
		Priority:  PriorityHigh,
		CreatedAt: now,
		UpdatedAt: now,
		Location:  LocationActive,
	}
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
}

func TestTaskValidateRejectsBlankTitle(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := Task{ID: "task-1", Title: "   ", CreatedAt: now, UpdatedAt: now}
	err := task.Validate()
	if err == nil || err.Error() != "model: task title is required" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTaskValidateUpdatedBeforeCreated(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := Task{ID: "task-1", Title: "x", CreatedAt: now, UpdatedAt: now.Add(-time.Second)}
	if err := task.Validate(); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestTaskValidateInvalidEnums(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:        "task-1",
		Title:     "Bad priority",
		Priority:  Priority("urgent"),
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := task.Validate()
	if err == nil || !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got: %v", err)
	}

	task.Priority = PriorityLow
	task.Location = Location("archived")
	err = task.Validate()
	if err == nil || !errors.Is(err, ErrInvalidLocation) {
		t.Fatalf("expected ErrInvalidLocation, got: %v", err)
	}
}

func TestCloneDoesNotShareDueDate(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	task := Task{ID: "a", Title: "a", DueDate: &due}
	cp := task.Clone()
	*cp.DueDate = cp.DueDate.AddDate(0, 0, 1)
	if !task.DueDate.Equal(due) {
		t.Fatalf("clone mutated original due date: %v", task.DueDate)
	}
}

func TestMatchesTitleOrDescription(t *testing.T) {
	task := Task{Title: "Buy Milk", Description: "From the FARM shop"}
	cases := []struct {
		q    string
		want bool
	}{
		{"milk", true},
		{"farm", true},
		{"bread", false},
	}
	for _, tc := range cases {
		if got := task.Matches(tc.q); got != tc.want {
			t.Fatalf("Matches(%q) = %v, want %v", tc.q, got, tc.want)
		}
	}
}

func TestParseEnums(t *testing.T) {
	if p, err := ParsePriority(" High "); err != nil || p != PriorityHigh {
		t.Fatalf("ParsePriority = %q, %v", p, err)
	}
	if _, err := ParsePriority("urgent"); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
	if f, err := ParseFilter("Incomplete"); err != nil || f != FilterIncomplete {
		t.Fatalf("ParseFilter = %q, %v", f, err)
	}
	if _, err := ParseFilter("done"); !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
	for _, raw := range []string{"dueDate", "duedate", "due-date"} {
		if s, err := ParseSortMode(raw); err != nil || s != SortDueDate {
			t.Fatalf("ParseSortMode(%q) = %q, %v", raw, s, err)
		}
	}
	if _, err := ParseSortMode("priority"); !errors.Is(err, ErrInvalidSortMode) {
		t.Fatalf("expected ErrInvalidSortMode, got %v", err)
	}
}

func TestFilterAndSortCycle(t *testing.T) {
	if got := FilterAll.Next(); got != FilterIncomplete {
		t.Fatalf("FilterAll.Next() = %q", got)
	}
	if got := FilterCompleted.Next(); got != FilterAll {
		t.Fatalf("FilterCompleted.Next() = %q", got)
	}
	if got := SortDueDate.Next(); got != SortRecent {
		t.Fatalf("SortDueDate.Next() = %q", got)
	}
	if SortDueDate.Label() != "DueDate" || FilterIncomplete.Label() != "Incomplete" {
		t.Fatalf("unexpected labels: %q %q", SortDueDate.Label(), FilterIncomplete.Label())
	}
}
