// Package app wires configuration, logging, storage and the task store into
// one runtime shared by the TUI and the CLI commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sandeepkv93/todo/internal/config"
	"github.com/sandeepkv93/todo/internal/ids"
	"github.com/sandeepkv93/todo/internal/logging"
	"github.com/sandeepkv93/todo/internal/persist"
	"github.com/sandeepkv93/todo/internal/storage"
	"github.com/sandeepkv93/todo/internal/store"
	"github.com/sandeepkv93/todo/internal/theme"
	"go.uber.org/zap"
)

type Options struct {
	// ConfigPath overrides the per-user config file location.
	ConfigPath string
	// Ephemeral keeps tasks in memory for this run only.
	Ephemeral bool
	Verbose   bool
}

type App struct {
	Config config.Config
	Logger *zap.Logger
	Repo   *storage.SnapshotRepository
	Writer *persist.Writer
	Store  *store.Store
	Theme  *theme.Store

	blobs     storage.BlobStore
	stopTheme func()
	closed    bool
}

func LoadConfig(opts Options) (config.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
		path = p
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	cfg = config.FromEnv(cfg)
	if opts.Ephemeral {
		cfg.Storage.Driver = config.DriverMemory
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func New(ctx context.Context, opts Options) (*App, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(ctx, cfg, opts.Verbose)
}

// NewWithConfig builds the runtime from an already validated config. The
// writer is running when it returns; call Close to flush and release.
func NewWithConfig(ctx context.Context, cfg config.Config, verbose bool) (*App, error) {
	logger, err := logging.New(logging.Options{File: cfg.Log.File, Level: cfg.Log.Level, Verbose: verbose})
	if err != nil {
		return nil, err
	}
	blobs, err := OpenBlobStore(cfg.Storage)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	repo, err := storage.NewSnapshotRepository(blobs, cfg.Storage.Key, storage.WithLogger(logger))
	if err != nil {
		closeBlobs(blobs)
		return nil, err
	}
	gen, err := ids.New(cfg.IDScheme)
	if err != nil {
		closeBlobs(blobs)
		return nil, err
	}

	writer := persist.NewWriter(repo, persist.Options{
		MaxAttempts: cfg.Save.Attempts,
		Backoff:     time.Duration(cfg.Save.BackoffMS) * time.Millisecond,
		Logger:      logger,
	})
	st := store.Open(ctx, repo, store.Options{IDs: gen, Persister: writer, Logger: logger})
	writer.Start()

	logger.Info("todo started",
		zap.String("driver", cfg.Storage.Driver),
		zap.String("key", repo.Key()),
		zap.Int("tasks", len(st.Tasks())),
		zap.Int("trash", len(st.Trash())),
	)

	return &App{
		Config: cfg,
		Logger: logger,
		Repo:   repo,
		Writer: writer,
		Store:  st,
		Theme:  theme.NewStore(initialScheme(cfg.Theme.Mode)),
		blobs:  blobs,
	}, nil
}

// OpenBlobStore selects the blob backend named by the storage driver.
func OpenBlobStore(cfg config.StorageConfig) (storage.BlobStore, error) {
	switch cfg.Driver {
	case config.DriverSQLiteCGO, config.DriverSQLitePureGo:
		db, err := storage.OpenSQLite(cfg.Driver, cfg.Path)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.DriverFile:
		fs, err := storage.NewFileBlobStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case config.DriverMemory:
		return storage.NewMemoryBlobStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func initialScheme(mode string) theme.Scheme {
	if mode == config.ThemeDark {
		return theme.Dark
	}
	return theme.Light
}

// SystemSource is the appearance signal for the "system" theme mode.
func (a *App) SystemSource() theme.Source {
	if a.Config.Theme.AppearanceFile != "" {
		return theme.FileSource{
			Path:     a.Config.Theme.AppearanceFile,
			Fallback: theme.DetectSystem(),
			Logger:   a.Logger,
		}
	}
	return theme.StaticSource{Scheme: theme.DetectSystem()}
}

// FollowSystemTheme keeps the theme store in step with the system
// appearance when the configured mode is "system". Close stops it.
func (a *App) FollowSystemTheme() {
	if a.stopTheme != nil {
		return
	}
	mode := a.Config.Theme.Mode
	if mode != "" && mode != config.ThemeSystem {
		return
	}
	a.stopTheme = theme.SyncWithSystem(a.Theme, a.SystemSource())
}

// Flush waits for pending saves and reports the last save error.
func (a *App) Flush(ctx context.Context) error {
	return a.Writer.Flush(ctx)
}

func (a *App) Close(ctx context.Context) error {
	if a.closed {
		return nil
	}
	a.closed = true
	if a.stopTheme != nil {
		a.stopTheme()
	}
	err := a.Writer.Flush(ctx)
	a.Writer.Stop()
	if c, ok := a.blobs.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}
	a.Logger.Info("todo stopped", zap.Uint64("saves", a.Writer.Saved()), zap.Uint64("coalesced", a.Writer.Coalesced()))
	_ = a.Logger.Sync()
	return err
}

func closeBlobs(b storage.BlobStore) {
	if c, ok := b.(io.Closer); ok {
		_ = c.Close()
	}
}
