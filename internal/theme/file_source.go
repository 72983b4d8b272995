package theme

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// FileSource reads the appearance ("light" or "dark") from a file and
// reports changes to it. Desktop hooks can write the file when the OS
// appearance flips.
type FileSource struct {
	Path     string
	Fallback Scheme
	Logger   *zap.Logger
}

func (f FileSource) logger() *zap.Logger {
	if f.Logger == nil {
		return zap.NewNop()
	}
	return f.Logger.Named("appearance")
}

func (f FileSource) Current() Scheme {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return f.fallback()
	}
	s, err := ParseScheme(strings.TrimSpace(string(raw)))
	if err != nil {
		return f.fallback()
	}
	return s
}

func (f FileSource) fallback() Scheme {
	if f.Fallback.IsValid() {
		return f.Fallback
	}
	return Light
}

// Subscribe watches the file's directory, since editors and scripts often
// replace the file rather than write it in place. The returned func stops
// the watcher and waits for its goroutine.
func (f FileSource) Subscribe(fn func(Scheme)) func() {
	log := f.logger()
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn("appearance watcher unavailable", zap.Error(err))
		return func() {}
	}
	dir := filepath.Dir(f.Path)
	if err := watcher.Add(dir); err != nil {
		log.Warn("watch appearance dir failed", zap.String("dir", dir), zap.Error(err))
		_ = watcher.Close()
		return func() {}
	}

	target := filepath.Clean(f.Path)
	done := make(chan struct{})
	go func() {
		defer close(done)
		last := f.Current()
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
					continue
				}
				next := f.Current()
				if next == last {
					continue
				}
				last = next
				log.Debug("appearance changed", zap.String("scheme", string(next)))
				fn(next)
			case werr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("appearance watcher error", zap.Error(werr))
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = watcher.Close()
			<-done
		})
	}
}
