package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sandeepkv93/todo/internal/model"
	"go.uber.org/zap"
)

// Snapshot is the whole persisted state of the task store.
type Snapshot struct {
	Tasks  []model.Task   `json:"tasks"`
	Trash  []model.Task   `json:"trash"`
	Filter model.Filter   `json:"filter"`
	Sort   model.SortMode `json:"sort"`
	Search string         `json:"search"`
}

func DefaultSnapshot() Snapshot {
	return Snapshot{
		Tasks:  []model.Task{},
		Trash:  []model.Task{},
		Filter: model.FilterAll,
		Sort:   model.SortRecent,
	}
}

// Clone deep-copies the snapshot so a writer goroutine never shares task
// memory with the store.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Tasks = model.CloneTasks(s.Tasks)
	out.Trash = model.CloneTasks(s.Trash)
	return out
}

// Normalize fills defaults for anything a stored blob left out or got wrong.
func (s Snapshot) Normalize() Snapshot {
	out := s
	if out.Tasks == nil {
		out.Tasks = []model.Task{}
	}
	if out.Trash == nil {
		out.Trash = []model.Task{}
	}
	if !out.Filter.IsValid() {
		out.Filter = model.FilterAll
	}
	if !out.Sort.IsValid() {
		out.Sort = model.SortRecent
	}
	for i := range out.Tasks {
		out.Tasks[i].Location = model.LocationActive
	}
	for i := range out.Trash {
		out.Trash[i].Location = model.LocationTrashed
	}
	return out
}

const envelopeVersion = 0

type envelope struct {
	State   Snapshot `json:"state"`
	Version int      `json:"version"`
}

func EncodeSnapshot(s Snapshot) ([]byte, error) {
	return json.Marshal(envelope{State: s, Version: envelopeVersion})
}

func DecodeSnapshot(raw []byte) (Snapshot, error) {
	if strings.TrimSpace(string(raw)) == "" {
		return DefaultSnapshot(), nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return env.State.Normalize(), nil
}

// DroppedDueDate names a task whose stored dueDate could not be read as a date.
type DroppedDueDate struct {
	TaskID string
	Raw    string
}

// DroppedDueDates lists the tasks in an encoded snapshot whose dueDate was
// discarded on decode.
func DroppedDueDates(raw []byte) []DroppedDueDate {
	var scan struct {
		State struct {
			Tasks []dueDateEntry `json:"tasks"`
			Trash []dueDateEntry `json:"trash"`
		} `json:"state"`
	}
	if err := json.Unmarshal(raw, &scan); err != nil {
		return nil
	}
	var out []DroppedDueDate
	for _, e := range append(scan.State.Tasks, scan.State.Trash...) {
		if _, ok := model.DecodeDueDateJSON(e.DueDate); !ok {
			out = append(out, DroppedDueDate{TaskID: e.ID, Raw: string(e.DueDate)})
		}
	}
	return out
}

type dueDateEntry struct {
	ID      string          `json:"id"`
	DueDate json.RawMessage `json:"dueDate"`
}

// CorruptSuffix is appended to the key of a blob that failed to decode when a
// copy of it is kept.
const CorruptSuffix = ".corrupt"

// SnapshotRepository stores the snapshot as one blob under a fixed key.
type SnapshotRepository struct {
	blobs BlobStore
	key   string
	log   *zap.Logger
}

type RepositoryOption func(*SnapshotRepository)

func WithLogger(l *zap.Logger) RepositoryOption {
	return func(r *SnapshotRepository) {
		if l != nil {
			r.log = l
		}
	}
}

func NewSnapshotRepository(blobs BlobStore, key string, opts ...RepositoryOption) (*SnapshotRepository, error) {
	if blobs == nil {
		return nil, errors.New("storage: nil blob store")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		key = DefaultKey
	}
	r := &SnapshotRepository{blobs: blobs, key: key, log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.Named("storage")
	return r, nil
}

func (r *SnapshotRepository) Key() string { return r.key }

// Load returns the default snapshot when nothing has been saved yet. A blob
// that cannot be decoded is copied to key+CorruptSuffix before the error is
// returned, so a later save cannot destroy the only copy.
func (r *SnapshotRepository) Load(ctx context.Context) (Snapshot, error) {
	raw, err := r.blobs.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return DefaultSnapshot(), nil
		}
		return Snapshot{}, fmt.Errorf("load %s: %w", r.key, err)
	}
	snap, err := DecodeSnapshot(raw)
	if err != nil {
		backup := r.key + CorruptSuffix
		if berr := r.blobs.Set(ctx, backup, raw); berr != nil {
			r.log.Error("backup unreadable snapshot failed", zap.String("key", backup), zap.Error(berr))
		} else {
			r.log.Warn("unreadable snapshot kept", zap.String("key", backup), zap.Error(err))
		}
		return Snapshot{}, err
	}
	for _, d := range DroppedDueDates(raw) {
		r.log.Warn("ignoring unreadable due date", zap.String("task_id", d.TaskID), zap.String("due_date", d.Raw))
	}
	return snap, nil
}

func (r *SnapshotRepository) Save(ctx context.Context, snap Snapshot) error {
	raw, err := EncodeSnapshot(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := r.blobs.Set(ctx, r.key, raw); err != nil {
		return fmt.Errorf("save %s: %w", r.key, err)
	}
	return nil
}
