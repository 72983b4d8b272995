package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todo.db"
	DefaultLogName        = "todo.log"
	appDirName            = "todo"
)

// Storage drivers. The sqlite names match the database/sql driver names.
const (
	DriverSQLiteCGO    = "sqlite3"
	DriverSQLitePureGo = "sqlite"
	DriverFile         = "file"
	DriverMemory       = "memory"
)

// Theme modes. ThemeSystem follows the appearance file or the terminal.
const (
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
)

type StorageConfig struct {
	Driver string `toml:"driver"`
	// Path is the database file for sqlite drivers and a directory for the
	// file driver.
	Path string `toml:"path"`
	Key  string `toml:"key"`
}

type ThemeConfig struct {
	Mode           string `toml:"mode"`
	AppearanceFile string `toml:"appearance_file"`
}

type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type SaveConfig struct {
	Attempts  int `toml:"attempts"`
	BackoffMS int `toml:"backoff_ms"`
}

type Keymap struct {
	Palette string `toml:"palette"`
	Theme   string `toml:"theme"`
	Help    string `toml:"help"`
	Quit    string `toml:"quit"`
}

type Config struct {
	IDScheme string        `toml:"id_scheme"`
	Storage  StorageConfig `toml:"storage"`
	Theme    ThemeConfig   `toml:"theme"`
	Log      LogConfig     `toml:"log"`
	Save     SaveConfig    `toml:"save"`
	Keys     Keymap        `toml:"keys"`
}

// DefaultDir is the per-user config directory, e.g. ~/.config/todo.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigFileName), nil
}

// Default returns the configuration used when no file exists. Data and log
// files live next to the config file in dir.
func Default(dir string) Config {
	return Config{
		IDScheme: "uuid",
		Storage: StorageConfig{
			Driver: DriverSQLiteCGO,
			Path:   filepath.Join(dir, DefaultDBName),
			Key:    "todo-storage",
		},
		Theme: ThemeConfig{Mode: ThemeSystem},
		Log: LogConfig{
			File:  filepath.Join(dir, DefaultLogName),
			Level: "info",
		},
		Save: SaveConfig{Attempts: 3, BackoffMS: 50},
		Keys: Keymap{
			Palette: ":",
			Theme:   "T",
			Help:    "?",
			Quit:    "q",
		},
	}
}

// LoadOrCreate reads the TOML file at path, writing the defaults there first
// when it does not exist. Keys missing from the file keep their defaults.
func LoadOrCreate(path string) (Config, error) {
	dir := filepath.Dir(path)
	cfg := Default(dir)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.resolvePaths(dir)
	return cfg, nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// resolvePaths anchors relative data paths at the config directory.
func (c *Config) resolvePaths(dir string) {
	if c.Storage.Path == "" {
		c.Storage.Path = filepath.Join(dir, DefaultDBName)
	} else if !filepath.IsAbs(c.Storage.Path) {
		c.Storage.Path = filepath.Join(dir, c.Storage.Path)
	}
	if c.Log.File != "" && !filepath.IsAbs(c.Log.File) {
		c.Log.File = filepath.Join(dir, c.Log.File)
	}
	if c.Theme.AppearanceFile != "" && !filepath.IsAbs(c.Theme.AppearanceFile) {
		c.Theme.AppearanceFile = filepath.Join(dir, c.Theme.AppearanceFile)
	}
}

// FromEnv applies TODO_* environment overrides on top of base.
func FromEnv(base Config) Config {
	cfg := base
	if v, ok := getEnv("TODO_STORAGE_DRIVER"); ok {
		cfg.Storage.Driver = strings.ToLower(v)
	}
	if v, ok := getEnv("TODO_STORAGE_PATH"); ok {
		cfg.Storage.Path = v
	}
	if v, ok := getEnv("TODO_STORAGE_KEY"); ok {
		cfg.Storage.Key = v
	}
	if v, ok := getEnv("TODO_ID_SCHEME"); ok {
		cfg.IDScheme = strings.ToLower(v)
	}
	if v, ok := getEnv("TODO_THEME"); ok {
		cfg.Theme.Mode = strings.ToLower(v)
	}
	if v, ok := getEnv("TODO_APPEARANCE_FILE"); ok {
		cfg.Theme.AppearanceFile = v
	}
	if v, ok := getEnvRaw("TODO_LOG_FILE"); ok {
		// An explicitly empty value disables logging.
		cfg.Log.File = v
	}
	if v, ok := getEnv("TODO_LOG_LEVEL"); ok {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v, ok := getEnvInt("TODO_SAVE_ATTEMPTS"); ok && v > 0 {
		cfg.Save.Attempts = v
	}
	return cfg
}

func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLiteCGO, DriverSQLitePureGo, DriverFile, DriverMemory:
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Driver != DriverMemory && strings.TrimSpace(c.Storage.Path) == "" {
		return errors.New("config: storage path is required")
	}
	switch c.IDScheme {
	case "", "uuid", "ulid":
	default:
		return fmt.Errorf("config: unknown id scheme %q", c.IDScheme)
	}
	switch c.Theme.Mode {
	case "", ThemeSystem, ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("config: unknown theme mode %q", c.Theme.Mode)
	}
	if c.Save.Attempts < 0 || c.Save.BackoffMS < 0 {
		return errors.New("config: save settings must not be negative")
	}
	return nil
}

func getEnv(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvRaw(name string) (string, bool) {
	raw, ok := os.LookupEnv(name)
	return strings.TrimSpace(raw), ok
}

func getEnvInt(name string) (int, bool) {
	raw, ok := getEnv(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
