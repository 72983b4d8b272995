package persist

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandeepkv93/todo/internal/storage"
	"go.uber.org/zap"
)

var ErrStopped = errors.New("persist: writer stopped")

type Options struct {
	// MaxAttempts bounds how often one snapshot is tried before it is parked
	// until the next Persist or Flush.
	MaxAttempts int
	Backoff     time.Duration
	SaveTimeout time.Duration
	Logger      *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.Backoff <= 0 {
		o.Backoff = 50 * time.Millisecond
	}
	if o.SaveTimeout <= 0 {
		o.SaveTimeout = 5 * time.Second
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

type flushRequest struct {
	done chan error
}

// Writer saves store snapshots on its own goroutine. Persist never blocks;
// when snapshots arrive faster than they can be written only the newest is
// kept.
type Writer struct {
	mu      sync.Mutex
	repo    storage.Repository
	opts    Options
	log     *zap.Logger
	pending *storage.Snapshot
	lastErr error
	wakeup  chan struct{}
	flushCh chan flushRequest
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool

	saved     uint64
	coalesced uint64
	failures  uint64
}

func NewWriter(repo storage.Repository, opts Options) *Writer {
	opts = opts.withDefaults()
	return &Writer{
		repo:    repo,
		opts:    opts,
		log:     opts.Logger.Named("persist"),
		wakeup:  make(chan struct{}, 1),
		flushCh: make(chan flushRequest),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

func (w *Writer) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.stopped {
		return
	}
	w.started = true
	go w.loop()
}

// Stop writes whatever is still pending and waits for the loop to exit.
func (w *Writer) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	if !w.started {
		w.mu.Unlock()
		_ = w.drain()
		return
	}
	close(w.stopCh)
	w.mu.Unlock()
	<-w.doneCh
}

// Persist queues a copy of snap for saving.
func (w *Writer) Persist(snap storage.Snapshot) {
	cp := snap.Clone()
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		w.log.Warn("snapshot dropped after stop", zap.Int("tasks", len(cp.Tasks)))
		return
	}
	if w.pending != nil {
		atomic.AddUint64(&w.coalesced, 1)
	}
	w.pending = &cp
	w.mu.Unlock()
	w.signalWakeup()
}

// Flush blocks until every snapshot handed to Persist so far has been saved,
// returning the save error if the last attempt failed.
func (w *Writer) Flush(ctx context.Context) error {
	w.mu.Lock()
	started, stopped := w.started, w.stopped
	w.mu.Unlock()
	if !started {
		return w.drain()
	}
	if stopped {
		return w.LastError()
	}

	req := flushRequest{done: make(chan error, 1)}
	select {
	case w.flushCh <- req:
	case <-w.doneCh:
		return w.LastError()
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-req.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Writer) LastError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

func (w *Writer) Saved() uint64     { return atomic.LoadUint64(&w.saved) }
func (w *Writer) Coalesced() uint64 { return atomic.LoadUint64(&w.coalesced) }
func (w *Writer) Failures() uint64  { return atomic.LoadUint64(&w.failures) }

func (w *Writer) loop() {
	defer close(w.doneCh)
	for {
		select {
		case <-w.wakeup:
			_ = w.drain()
		case req := <-w.flushCh:
			req.done <- w.drain()
		case <-w.stopCh:
			_ = w.drain()
			return
		}
	}
}

func (w *Writer) signalWakeup() {
	select {
	case w.wakeup <- struct{}{}:
	default:
	}
}

func (w *Writer) take() (storage.Snapshot, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending == nil {
		return storage.Snapshot{}, false
	}
	snap := *w.pending
	w.pending = nil
	return snap, true
}

// park puts a snapshot that could not be saved back, unless a newer one
// arrived meanwhile.
func (w *Writer) park(snap storage.Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending == nil {
		w.pending = &snap
	}
}

func (w *Writer) drain() error {
	snap, ok := w.take()
	if !ok {
		return w.LastError()
	}
	err := w.saveWithRetry(snap)
	w.mu.Lock()
	w.lastErr = err
	w.mu.Unlock()
	if err != nil {
		w.park(snap)
	}
	return err
}

func (w *Writer) saveWithRetry(snap storage.Snapshot) error {
	var err error
	for attempt := 1; attempt <= w.opts.MaxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), w.opts.SaveTimeout)
		err = w.repo.Save(ctx, snap)
		cancel()
		if err == nil {
			atomic.AddUint64(&w.saved, 1)
			return nil
		}
		atomic.AddUint64(&w.failures, 1)
		w.log.Warn("save snapshot failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", w.opts.MaxAttempts),
			zap.Error(err))
		if attempt < w.opts.MaxAttempts {
			time.Sleep(w.opts.Backoff * time.Duration(attempt))
		}
	}
	w.log.Error("snapshot not persisted", zap.Error(err))
	return err
}
