// Package store holds the task list, the trash and the view preferences, and
// derives the visible task list from them. A Store is single-writer and not
// safe for concurrent use: callers serialise access, as the TUI update loop
// and a single CLI command naturally do.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/sandeepkv93/todo/internal/ids"
	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/storage"
	"go.uber.org/zap"
)

var ErrDuplicateID = errors.New("store: duplicate task id")

// Persister receives the full state after every mutation. It must not block.
type Persister interface {
	Persist(storage.Snapshot)
}

// TaskStore is the operation set the UI layers depend on.
type TaskStore interface {
	AddTask(title, description string, due *time.Time, priority model.Priority) (model.Task, bool)
	ToggleTask(id string)
	MoveToTrash(id string)
	RestoreFromTrash(id string)
	EmptyTrash()
	SetFilter(f model.Filter)
	SetSort(s model.SortMode)
	SetSearch(q string)
	VisibleTasks() []model.Task
	Tasks() []model.Task
	Trash() []model.Task
	Filter() model.Filter
	Sort() model.SortMode
	Search() string
}

type Options struct {
	IDs       ids.Generator
	Now       func() time.Time
	Persister Persister
	Logger    *zap.Logger
}

type Store struct {
	tasks  []model.Task
	trash  []model.Task
	filter model.Filter
	sort   model.SortMode
	search string

	ids       ids.Generator
	now       func() time.Time
	persister Persister
	log       *zap.Logger
}

var _ TaskStore = (*Store)(nil)

type nopPersister struct{}

func (nopPersister) Persist(storage.Snapshot) {}

// New builds a store from snap. Nothing is persisted until the first mutation.
func New(snap storage.Snapshot, opts Options) *Store {
	snap = snap.Clone().Normalize()
	s := &Store{
		tasks:     snap.Tasks,
		trash:     snap.Trash,
		filter:    snap.Filter,
		sort:      snap.Sort,
		search:    snap.Search,
		ids:       opts.IDs,
		now:       opts.Now,
		persister: opts.Persister,
		log:       opts.Logger,
	}
	if s.ids == nil {
		s.ids = ids.UUID{}
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	if s.persister == nil {
		s.persister = nopPersister{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.log = s.log.Named("store")
	return s
}

// Open rehydrates a store from repo. A snapshot that cannot be loaded is
// logged and replaced by empty defaults.
func Open(ctx context.Context, repo storage.Repository, opts Options) *Store {
	snap, err := repo.Load(ctx)
	if err != nil {
		if opts.Logger != nil {
			opts.Logger.Warn("load snapshot failed, starting empty", zap.Error(err))
		}
		snap = storage.DefaultSnapshot()
	}
	return New(snap, opts)
}

func (s *Store) AddTask(title, description string, due *time.Time, priority model.Priority) (model.Task, bool) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return model.Task{}, false
	}
	now := s.now()
	task := model.Task{
		ID:          s.ids.NewID(),
		Title:       trimmed,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Priority:    priority,
		Location:    model.LocationActive,
	}
	if due != nil {
		d := *due
		task.DueDate = &d
	}
	s.tasks = prepend(s.tasks, task)
	s.log.Debug("task added", zap.String("id", task.ID))
	s.persist()
	return task.Clone(), true
}

// Insert adds a fully formed task at the front of the list. Unlike AddTask it
// reports why a task was refused.
func (s *Store) Insert(task model.Task) error {
	if task.Location == "" {
		task.Location = model.LocationActive
	}
	if err := task.Validate(); err != nil {
		return err
	}
	if s.indexIn(s.tasks, task.ID) >= 0 || s.indexIn(s.trash, task.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateID, task.ID)
	}
	task = task.Clone()
	task.Location = model.LocationActive
	s.tasks = prepend(s.tasks, task)
	s.persist()
	return nil
}

func (s *Store) ToggleTask(id string) {
	i := s.indexIn(s.tasks, id)
	if i < 0 {
		return
	}
	t := &s.tasks[i]
	t.Completed = !t.Completed
	now := s.now()
	if now.Before(t.CreatedAt) {
		now = t.CreatedAt
	}
	t.UpdatedAt = now
	s.persist()
}

func (s *Store) MoveToTrash(id string) {
	i := s.indexIn(s.tasks, id)
	if i < 0 {
		return
	}
	task := s.tasks[i]
	s.tasks = slices.Delete(s.tasks, i, i+1)
	task.Location = model.LocationTrashed
	s.trash = prepend(s.trash, task)
	s.log.Debug("task trashed", zap.String("id", id))
	s.persist()
}

func (s *Store) RestoreFromTrash(id string) {
	i := s.indexIn(s.trash, id)
	if i < 0 {
		return
	}
	task := s.trash[i]
	s.trash = slices.Delete(s.trash, i, i+1)
	task.Location = model.LocationActive
	s.tasks = prepend(s.tasks, task)
	s.log.Debug("task restored", zap.String("id", id))
	s.persist()
}

func (s *Store) EmptyTrash() {
	s.log.Debug("trash emptied", zap.Int("count", len(s.trash)))
	s.trash = []model.Task{}
	s.persist()
}

func (s *Store) SetFilter(f model.Filter) {
	s.filter = f
	s.persist()
}

func (s *Store) SetSort(m model.SortMode) {
	s.sort = m
	s.persist()
}

func (s *Store) SetSearch(q string) {
	s.search = q
	s.persist()
}

// Reset drops every task and restores default view preferences.
func (s *Store) Reset() {
	def := storage.DefaultSnapshot()
	s.tasks, s.trash = def.Tasks, def.Trash
	s.filter, s.sort, s.search = def.Filter, def.Sort, def.Search
	s.persist()
}

func (s *Store) Tasks() []model.Task  { return model.CloneTasks(s.tasks) }
func (s *Store) Trash() []model.Task  { return model.CloneTasks(s.trash) }
func (s *Store) Filter() model.Filter { return s.filter }
func (s *Store) Sort() model.SortMode { return s.sort }
func (s *Store) Search() string       { return s.search }

// Find looks id up in both lists.
func (s *Store) Find(id string) (model.Task, bool) {
	if i := s.indexIn(s.tasks, id); i >= 0 {
		return s.tasks[i].Clone(), true
	}
	if i := s.indexIn(s.trash, id); i >= 0 {
		return s.trash[i].Clone(), true
	}
	return model.Task{}, false
}

type Stats struct {
	Active    int
	Completed int
	Trashed   int
}

func (s *Store) Stats() Stats {
	st := Stats{Active: len(s.tasks), Trashed: len(s.trash)}
	for _, t := range s.tasks {
		if t.Completed {
			st.Completed++
		}
	}
	return st
}

func (s *Store) Snapshot() storage.Snapshot {
	return storage.Snapshot{
		Tasks:  model.CloneTasks(s.tasks),
		Trash:  model.CloneTasks(s.trash),
		Filter: s.filter,
		Sort:   s.sort,
		Search: s.search,
	}
}

func (s *Store) persist() {
	s.persister.Persist(s.Snapshot())
}

func (s *Store) indexIn(list []model.Task, id string) int {
	return slices.IndexFunc(list, func(t model.Task) bool { return t.ID == id })
}

func prepend(list []model.Task, t model.Task) []model.Task {
	out := make([]model.Task, 0, len(list)+1)
	out = append(out, t)
	return append(out, list...)
}
