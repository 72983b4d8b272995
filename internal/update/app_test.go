package update

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/storage"
	"github.com/sandeepkv93/todo/internal/store"
	"github.com/sandeepkv93/todo/internal/theme"
)

type seqIDs struct{ n int }

func (g *seqIDs) NewID() string {
	g.n++
	return fmt.Sprintf("task-%d", g.n)
}

type tickClock struct{ t time.Time }

func (c *tickClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

type fakeSaves struct{ err error }

func (f fakeSaves) LastError() error { return f.err }

func newTestModel(t *testing.T) Model {
	t.Helper()
	clock := &tickClock{t: time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)}
	st := store.New(storage.DefaultSnapshot(), store.Options{IDs: &seqIDs{}, Now: clock.now})
	return NewModel(Options{Store: st, Theme: theme.NewStore(theme.Light)})
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	right = tea.KeyMsg{Type: tea.KeyRight}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func press(m Model, keys ...tea.KeyMsg) Model {
	for _, k := range keys {
		updated, _ := m.Update(k)
		m = updated.(Model)
	}
	return m
}

func TestNewModelDefaults(t *testing.T) {
	m := newTestModel(t)
	if m.Screen != ScreenList {
		t.Fatalf("expected default screen %q, got %q", ScreenList, m.Screen)
	}
	if m.Scheme != theme.Light {
		t.Fatalf("expected light scheme, got %q", m.Scheme)
	}
	if m.Keys.Quit != "q" || m.Keys.Theme != "T" {
		t.Fatalf("unexpected keys: %+v", m.Keys)
	}
	if m.Create.Priority != model.PriorityMedium {
		t.Fatalf("expected medium default priority, got %q", m.Create.Priority)
	}
}

func TestKeyOverrides(t *testing.T) {
	m := NewModel(Options{Keys: GlobalKeyMap{Quit: "Q"}})
	if m.Keys.Quit != "Q" || m.Keys.Help != "?" {
		t.Fatalf("unexpected keys: %+v", m.Keys)
	}
	m = press(m, runes("q"))
	if m.Quitting {
		t.Fatal("q must not quit once rebound")
	}
}

func TestCreateFlowAddsTask(t *testing.T) {
	m := newTestModel(t)
	m = press(m, runes("a"))
	if m.Screen != ScreenCreate {
		t.Fatalf("expected create screen, got %q", m.Screen)
	}
	m = press(m,
		runes("Buy"), space, runes("milk"), tab,
		runes("two *litres*"), tab,
		runes("2026-03-01"), tab,
		right, enter,
	)
	if m.Screen != ScreenList {
		t.Fatalf("expected list screen after submit, got %q (err %q)", m.Screen, m.Create.Err)
	}
	tasks := m.Store.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	got := tasks[0]
	if got.Title != "Buy milk" || got.Description != "two *litres*" || got.Priority != model.PriorityHigh {
		t.Fatalf("unexpected task: %+v", got)
	}
	if !got.HasDueDate() || !got.DueDate.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected due date: %v", got.DueDate)
	}
	if !strings.Contains(m.Status.Text, "added: Buy milk") {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
}

func TestCreateValidation(t *testing.T) {
	m := newTestModel(t)
	m = press(m, runes("a"), runes("ab"), enter)
	if m.Screen != ScreenCreate || !strings.Contains(m.Create.Err, "at least 3") {
		t.Fatalf("expected title validation error, got screen=%q err=%q", m.Screen, m.Create.Err)
	}

	m = press(m, runes("c"), tab, tab, runes("03/01/2026"), enter)
	if m.Screen != ScreenCreate || !strings.Contains(m.Create.Err, "YYYY-MM-DD") {
		t.Fatalf("expected due date validation error, got screen=%q err=%q", m.Screen, m.Create.Err)
	}
	if m.Create.Focus != FieldDueDate {
		t.Fatalf("expected focus on due date, got %d", m.Create.Focus)
	}
	if n := len(m.Store.Tasks()); n != 0 {
		t.Fatalf("expected no tasks, got %d", n)
	}

	m = press(m, esc)
	if m.Screen != ScreenList || len(m.Store.Tasks()) != 0 {
		t.Fatalf("expected cancelled create, got screen=%q tasks=%d", m.Screen, len(m.Store.Tasks()))
	}
}

func TestCreateFormResetsOnReopen(t *testing.T) {
	m := newTestModel(t)
	m = press(m, runes("a"), runes("half typed"), esc, runes("a"))
	if m.titleInput.Value() != "" || m.Create.Focus != FieldTitle || m.Create.Priority != model.PriorityMedium {
		t.Fatalf("expected fresh form, got title=%q form=%+v", m.titleInput.Value(), m.Create)
	}
}

func TestListToggleAndTrashKeys(t *testing.T) {
	m := newTestModel(t)
	m.Store.AddTask("first", "", nil, model.PriorityNone)
	m.Store.AddTask("second", "", nil, model.PriorityNone)

	m = press(m, space)
	second, _ := m.Store.Find("task-2")
	if !second.Completed {
		t.Fatal("expected top task toggled")
	}

	m = press(m, runes("j"), runes("d"))
	if len(m.Store.Trash()) != 1 || m.Store.Trash()[0].ID != "task-1" {
		t.Fatalf("expected task-1 trashed, got %+v", m.Store.Trash())
	}
	if m.Cursor != 0 {
		t.Fatalf("expected cursor clamped to 0, got %d", m.Cursor)
	}
}

func TestFilterAndSortKeysCycle(t *testing.T) {
	m := newTestModel(t)
	m = press(m, runes("f"), runes("s"))
	if m.Store.Filter() != model.FilterIncomplete {
		t.Fatalf("expected incomplete filter, got %q", m.Store.Filter())
	}
	if m.Store.Sort() != model.SortOldest {
		t.Fatalf("expected oldest sort, got %q", m.Store.Sort())
	}
	m = press(m, runes("f"), runes("f"), runes("s"), runes("s"))
	if m.Store.Filter() != model.FilterAll || m.Store.Sort() != model.SortRecent {
		t.Fatalf("expected cycle back to defaults, got %q %q", m.Store.Filter(), m.Store.Sort())
	}
}

func TestSearchMode(t *testing.T) {
	m := newTestModel(t)
	m.Store.AddTask("Buy milk", "", nil, model.PriorityNone)
	m.Store.AddTask("Walk dog", "", nil, model.PriorityNone)

	m = press(m, runes("/"), runes("m"), runes("i"), runes("q"))
	if !m.Searching || m.Store.Search() != "miq" {
		t.Fatalf("expected live search, got searching=%v search=%q", m.Searching, m.Store.Search())
	}
	if m.Quitting {
		t.Fatal("q inside search must not quit")
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyBackspace}, runes("lk"), enter)
	if m.Searching || m.Store.Search() != "milk" {
		t.Fatalf("expected kept search, got searching=%v search=%q", m.Searching, m.Store.Search())
	}
	visible := m.Store.VisibleTasks()
	if len(visible) != 1 || visible[0].Title != "Buy milk" {
		t.Fatalf("unexpected visible tasks: %+v", visible)
	}

	m = press(m, esc)
	if m.Store.Search() != "" || len(m.Store.VisibleTasks()) != 2 {
		t.Fatalf("expected search cleared, got %q", m.Store.Search())
	}
}

func TestTrashScreenRestoreAndEmpty(t *testing.T) {
	m := newTestModel(t)
	m.Store.AddTask("one", "", nil, model.PriorityNone)
	m.Store.AddTask("two", "", nil, model.PriorityNone)
	m.Store.AddTask("three", "", nil, model.PriorityNone)
	m.Store.MoveToTrash("task-1")
	m.Store.MoveToTrash("task-2")

	m = press(m, runes("t"))
	if m.Screen != ScreenTrash {
		t.Fatalf("expected trash screen, got %q", m.Screen)
	}
	m = press(m, runes("r"))
	if len(m.Store.Trash()) != 1 || m.Store.Tasks()[0].ID != "task-2" {
		t.Fatalf("expected task-2 restored, trash=%+v", m.Store.Trash())
	}

	m = press(m, runes("E"))
	if !m.ConfirmEmpty {
		t.Fatal("expected confirmation prompt")
	}
	m = press(m, runes("n"))
	if m.ConfirmEmpty || len(m.Store.Trash()) != 1 {
		t.Fatalf("expected cancel to keep trash, got %d", len(m.Store.Trash()))
	}

	m = press(m, runes("E"), runes("y"))
	if len(m.Store.Trash()) != 0 {
		t.Fatalf("expected empty trash, got %d", len(m.Store.Trash()))
	}
	if !strings.Contains(m.View(), "Trash is empty") {
		t.Fatal("expected empty trash state in view")
	}

	m = press(m, runes("E"))
	if m.ConfirmEmpty {
		t.Fatal("empty trash must not ask for confirmation")
	}
	m = press(m, esc)
	if m.Screen != ScreenList {
		t.Fatalf("expected list screen, got %q", m.Screen)
	}
}

func TestThemeToggleKeyAndSystemChange(t *testing.T) {
	th := theme.NewStore(theme.Light)
	m := NewModel(Options{Store: newTestModel(t).Store, Theme: th})

	th.SetTheme(theme.Dark)
	msg := m.Init()()
	changed, ok := msg.(ThemeChangedMsg)
	if !ok || changed.Scheme != theme.Dark {
		t.Fatalf("expected theme change message, got %#v", msg)
	}
	updated, cmd := m.Update(changed)
	m = updated.(Model)
	if m.Scheme != theme.Dark || cmd == nil {
		t.Fatalf("expected dark scheme and a follow-up wait, got %q", m.Scheme)
	}

	m = press(m, runes("T"))
	if m.Scheme != theme.Light || th.Theme() != theme.Light {
		t.Fatalf("expected toggle to light, got model=%q store=%q", m.Scheme, th.Theme())
	}
}

func TestLatestSchemeKeepsNewest(t *testing.T) {
	ch := make(chan theme.Scheme, 1)
	send := latestScheme(ch)
	send(theme.Dark)
	send(theme.Light)
	if got := <-ch; got != theme.Light {
		t.Fatalf("expected newest scheme, got %q", got)
	}
}

func TestPaletteCommands(t *testing.T) {
	m := newTestModel(t)
	m = press(m, runes(":"), runes("add Pay rent !high"), enter)
	if m.Palette.Active {
		t.Fatal("expected palette closed after command")
	}
	tasks := m.Store.Tasks()
	if len(tasks) != 1 || tasks[0].Title != "Pay rent" || tasks[0].Priority != model.PriorityHigh {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}

	m = press(m, runes(":"), runes("sort dueDate"), enter, runes(":"), runes("filter completed"), enter)
	if m.Store.Sort() != model.SortDueDate || m.Store.Filter() != model.FilterCompleted {
		t.Fatalf("unexpected view prefs: %q %q", m.Store.Sort(), m.Store.Filter())
	}

	m = press(m, runes(":"), runes("theme dark"), enter)
	if m.Scheme != theme.Dark {
		t.Fatalf("expected dark theme, got %q", m.Scheme)
	}

	m = press(m, runes(":"), runes("bogus"), enter)
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "unknown_command") {
		t.Fatalf("expected unknown command error, got %+v", m.Status)
	}

	m = press(m, runes(":"), runes("fil"), esc)
	if m.Palette.Active || m.Status.Text != "command palette closed" {
		t.Fatalf("expected palette closed, got %+v", m.Status)
	}
}

func TestPaletteTrashAndRestoreByID(t *testing.T) {
	m := newTestModel(t)
	m.Store.AddTask("one", "", nil, model.PriorityNone)
	m.Store.AddTask("two", "", nil, model.PriorityNone)

	m = press(m, runes(":"), runes("trash task-1"), enter)
	if len(m.Store.Trash()) != 1 || m.Store.Trash()[0].ID != "task-1" {
		t.Fatalf("expected task-1 trashed, got %+v", m.Store.Trash())
	}

	m = press(m, runes(":"), runes("trash task-1"), enter)
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "no active task") {
		t.Fatalf("expected error for already trashed task, got %+v", m.Status)
	}

	m = press(m, runes(":"), runes("restore task-1"), enter)
	if len(m.Store.Trash()) != 0 || len(m.Store.Tasks()) != 2 {
		t.Fatalf("expected task-1 restored, trash=%+v", m.Store.Trash())
	}

	m = press(m, runes(":"), runes("trash"), enter, runes(":"), runes("empty"), enter)
	if len(m.Store.Trash()) != 0 || len(m.Store.Tasks()) != 1 {
		t.Fatalf("expected selected task trashed then purged, tasks=%d trash=%d", len(m.Store.Tasks()), len(m.Store.Trash()))
	}
}

func TestPaletteTargetWithoutIDNeedsMatchingScreen(t *testing.T) {
	m := newTestModel(t)
	m.Store.AddTask("one", "", nil, model.PriorityNone)
	m.Store.AddTask("two", "", nil, model.PriorityNone)
	m.Store.MoveToTrash("task-1")

	m = press(m, runes(":"), runes("restore"), enter)
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "outside the trash view") {
		t.Fatalf("expected id required error, got %+v", m.Status)
	}
	if len(m.Store.Trash()) != 1 {
		t.Fatalf("expected trash untouched, got %+v", m.Store.Trash())
	}

	m.Screen = ScreenTrash
	m = press(m, runes(":"), runes("trash"), enter)
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "outside the list view") {
		t.Fatalf("expected id required error, got %+v", m.Status)
	}
	if len(m.Store.Tasks()) != 1 {
		t.Fatalf("expected tasks untouched, got %+v", m.Store.Tasks())
	}

	m = press(m, runes(":"), runes("restore"), enter)
	if len(m.Store.Trash()) != 0 || len(m.Store.Tasks()) != 2 {
		t.Fatalf("expected cursor row restored, trash=%+v", m.Store.Trash())
	}
}

func TestQuitUnsubscribesTheme(t *testing.T) {
	th := theme.NewStore(theme.Light)
	m := NewModel(Options{Store: newTestModel(t).Store, Theme: th})
	updated, cmd := m.Update(runes("q"))
	next := updated.(Model)
	if !next.Quitting || cmd == nil {
		t.Fatal("expected quit")
	}
	th.SetTheme(theme.Dark)
	select {
	case s := <-m.themeEvents:
		t.Fatalf("unexpected theme event after quit: %q", s)
	default:
	}
	if next.View() != "" {
		t.Fatal("expected empty view after quit")
	}
}

func TestViewShowsStateAndSaveErrors(t *testing.T) {
	m := newTestModel(t)
	if out := m.View(); !strings.Contains(out, "No tasks yet") {
		t.Fatalf("expected empty state, got:\n%s", out)
	}

	m.Store.AddTask("Buy milk", "", nil, model.PriorityLow)
	m.saves = fakeSaves{err: errors.New("disk full")}
	out := m.View()
	for _, want := range []string{"Buy milk", "!low", "save failed: disk full", "1 open"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}

	m = press(m, runes("?"))
	if !m.HelpVisible || !strings.Contains(m.View(), "toggle completed") {
		t.Fatal("expected help panel in view")
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(SetStatusMsg{Text: "ready", IsError: false})
	next := updated.(Model)
	if next.Status.Text != "ready" || next.Status.IsError {
		t.Fatalf("unexpected status: %+v", next.Status)
	}

	updated, _ = next.Update(AppErrorMsg{Err: errors.New("boom")})
	next = updated.(Model)
	if next.LastError == nil || next.LastError.Error() != "boom" {
		t.Fatalf("expected last error boom, got: %v", next.LastError)
	}
	if !next.Status.IsError || next.Status.Text != "boom" {
		t.Fatalf("unexpected error status: %+v", next.Status)
	}

	updated, _ = next.Update(ClearStatusMsg{})
	next = updated.(Model)
	if next.Status.Text != "" || next.Status.IsError {
		t.Fatalf("expected cleared status, got: %+v", next.Status)
	}
}
