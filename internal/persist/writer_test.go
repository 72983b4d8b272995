package persist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sandeepkv93/todo/internal/storage"
	"go.uber.org/goleak"
)

type recordingRepo struct {
	mu      sync.Mutex
	saves   []storage.Snapshot
	failN   int
	failErr error
	gate    chan struct{}
	entered chan struct{}
}

func (r *recordingRepo) Load(context.Context) (storage.Snapshot, error) {
	return storage.DefaultSnapshot(), nil
}

func (r *recordingRepo) Save(_ context.Context, snap storage.Snapshot) error {
	if r.entered != nil {
		select {
		case r.entered <- struct{}{}:
		default:
		}
	}
	if r.gate != nil {
		<-r.gate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failN != 0 {
		if r.failN > 0 {
			r.failN--
		}
		return r.failErr
	}
	r.saves = append(r.saves, snap)
	return nil
}

func (r *recordingRepo) heal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failN = 0
}

func (r *recordingRepo) saved() []storage.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]storage.Snapshot(nil), r.saves...)
}

func snapWithSearch(q string) storage.Snapshot {
	s := storage.DefaultSnapshot()
	s.Search = q
	return s
}

func TestWriterSavesAndFlushes(t *testing.T) {
	defer goleak.VerifyNone(t)
	repo := &recordingRepo{}
	w := NewWriter(repo, Options{})
	w.Start()
	defer w.Stop()

	w.Persist(snapWithSearch("one"))
	if err := w.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}
	got := repo.saved()
	if len(got) != 1 || got[0].Search != "one" {
		t.Fatalf("unexpected saves: %+v", got)
	}
	if w.Saved() != 1 {
		t.Fatalf("expected saved=1, got %d", w.Saved())
	}
}

func TestWriterCoalescesWhileSaving(t *testing.T) {
	defer goleak.VerifyNone(t)
	repo := &recordingRepo{gate: make(chan struct{}), entered: make(chan struct{}, 1)}
	w := NewWriter(repo, Options{})
	w.Start()

	w.Persist(snapWithSearch("first"))
	select {
	case <-repo.entered:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for first save")
	}
	for _, q := range []string{"a", "b", "c", "last"} {
		w.Persist(snapWithSearch(q))
	}
	close(repo.gate)
	w.Stop()

	got := repo.saved()
	if len(got) != 2 {
		t.Fatalf("expected 2 saves (first + coalesced last), got %d", len(got))
	}
	if got[1].Search != "last" {
		t.Fatalf("expected newest snapshot to win, got %q", got[1].Search)
	}
	if w.Coalesced() != 3 {
		t.Fatalf("expected 3 coalesced snapshots, got %d", w.Coalesced())
	}
}

func TestWriterRetriesTransientFailures(t *testing.T) {
	defer goleak.VerifyNone(t)
	repo := &recordingRepo{failN: 2, failErr: errors.New("locked")}
	w := NewWriter(repo, Options{MaxAttempts: 3, Backoff: time.Millisecond})
	w.Start()
	defer w.Stop()

	w.Persist(snapWithSearch("x"))
	if err := w.Flush(context.Background()); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if w.Failures() != 2 {
		t.Fatalf("expected 2 failures, got %d", w.Failures())
	}
	if len(repo.saved()) != 1 {
		t.Fatalf("expected one successful save")
	}
}

func TestWriterParksSnapshotAfterExhaustingAttempts(t *testing.T) {
	defer goleak.VerifyNone(t)
	boom := errors.New("read-only filesystem")
	repo := &recordingRepo{failN: -1, failErr: boom}
	w := NewWriter(repo, Options{MaxAttempts: 2, Backoff: time.Millisecond})
	w.Start()
	defer w.Stop()

	w.Persist(snapWithSearch("keep"))
	if err := w.Flush(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
	if !errors.Is(w.LastError(), boom) {
		t.Fatalf("expected last error, got %v", w.LastError())
	}

	repo.heal()
	if err := w.Flush(context.Background()); err != nil {
		t.Fatalf("flush after heal: %v", err)
	}
	got := repo.saved()
	if len(got) != 1 || got[0].Search != "keep" {
		t.Fatalf("expected parked snapshot saved, got %+v", got)
	}
	if w.LastError() != nil {
		t.Fatalf("expected last error cleared, got %v", w.LastError())
	}
}

func TestWriterWithoutStartSavesOnStop(t *testing.T) {
	repo := &recordingRepo{}
	w := NewWriter(repo, Options{})
	w.Persist(snapWithSearch("late"))
	w.Stop()
	if got := repo.saved(); len(got) != 1 || got[0].Search != "late" {
		t.Fatalf("expected save on stop, got %+v", got)
	}

	w.Persist(snapWithSearch("dropped"))
	if len(repo.saved()) != 1 {
		t.Fatal("expected persist after stop to be dropped")
	}
}

func TestWriterPersistCopiesSnapshot(t *testing.T) {
	repo := &recordingRepo{}
	w := NewWriter(repo, Options{})
	snap := storage.DefaultSnapshot()
	snap.Search = "before"
	w.Persist(snap)
	snap.Search = "after"
	if err := w.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if got := repo.saved(); got[0].Search != "before" {
		t.Fatalf("expected copy taken at persist time, got %q", got[0].Search)
	}
}
