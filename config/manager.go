package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Change is a reloaded configuration together with what a running
// dashboard has to redo because of it.
type Change struct {
	Config Config
	// Endpoint is set when the API URL, retries or timeout differ, so the
	// client has to be rebuilt.
	Endpoint bool
	// Interval is set when the refresh interval differs.
	Interval bool
}

// Relevant reports whether a running dashboard needs to act on c.
func (c Change) Relevant() bool {
	return c.Endpoint || c.Interval
}

// Diff describes moving from old to next.
func Diff(old, next Config) Change {
	return Change{
		Config: next,
		Endpoint: old.APIBaseURL != next.APIBaseURL ||
			old.MaxRetries != next.MaxRetries ||
			old.RequestTimeout != next.RequestTimeout,
		Interval: old.RefreshInterval != next.RefreshInterval,
	}
}

// Manager owns config.json. It saves edits made through `config set` and,
// while watched, reports hand edits that change how the dashboard fetches.
type Manager struct {
	path     string
	initial  *Config
	debounce time.Duration

	mu       sync.RWMutex
	cfg      Config
	watching bool
}

type ManagerOption func(*Manager)

// WithConfigPath stores the configuration at path.
func WithConfigPath(path string) ManagerOption {
	return func(m *Manager) {
		if path != "" {
			m.path = path
		}
	}
}

// WithConfigDir stores config.json in dir, with data directories rooted there.
func WithConfigDir(dir string) ManagerOption {
	return func(m *Manager) {
		if dir != "" {
			m.path = filepath.Join(dir, "config.json")
		}
	}
}

// WithInitialConfig is written out when the file does not exist yet.
func WithInitialConfig(cfg *Config) ManagerOption {
	return func(m *Manager) { m.initial = cfg }
}

// WithDebounce sets how long the file has to be quiet before a reload.
func WithDebounce(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.debounce = d
		}
	}
}

func NewManager(opts ...ManagerOption) (*Manager, error) {
	m := &Manager{debounce: 300 * time.Millisecond}
	for _, opt := range opts {
		opt(m)
	}
	if m.path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		m.path = p
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	cfg, err := m.open()
	if err != nil {
		return nil, err
	}
	m.cfg = cfg
	return m, nil
}

// open reads the file, creating it from the initial config when missing.
func (m *Manager) open() (Config, error) {
	var cfg Config
	err := loadConfigFromFile(m.path, &cfg)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		if m.initial != nil {
			cfg = *m.initial
		} else {
			cfg = *DefaultConfigWithRoot(filepath.Dir(m.path))
		}
		if err := cfg.Validate(); err != nil {
			return Config{}, err
		}
		if err := saveFile(m.path, cfg); err != nil {
			return Config{}, fmt.Errorf("write initial config: %w", err)
		}
		return cfg, nil
	default:
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

func (m *Manager) Path() string {
	return m.path
}

// Update validates and saves cfg. The watcher does not report it back,
// since the reload finds the file equal to what is already held.
func (m *Manager) Update(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if m.Get() == cfg {
		return nil
	}
	if err := saveFile(m.path, cfg); err != nil {
		return err
	}
	m.mu.Lock()
	m.cfg = cfg
	m.mu.Unlock()
	return nil
}

// Watch reloads the file after edits until ctx is done and calls onChange
// for reloads that touch the endpoint or the refresh interval. Only one
// watch runs at a time.
func (m *Manager) Watch(ctx context.Context, onChange func(Change)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.watching {
		return errors.New("config is already being watched")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	// editors save by rename, which drops a watch on the file itself
	if err := w.Add(filepath.Dir(m.path)); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch config dir: %w", err)
	}
	m.watching = true

	go m.watch(ctx, w, onChange)
	return nil
}

func (m *Manager) watch(ctx context.Context, w *fsnotify.Watcher, onChange func(Change)) {
	defer func() {
		_ = w.Close()
		m.mu.Lock()
		m.watching = false
		m.mu.Unlock()
	}()

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(evt.Name) == filepath.Clean(m.path) &&
				evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				settle = time.After(m.debounce)
			}
		case <-settle:
			settle = nil
			if change, ok := m.reload(); ok && change.Relevant() {
				onChange(change)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("config watcher error: %v", err)
		}
	}
}

// reload adopts the file's contents if they are valid and new.
func (m *Manager) reload() (Change, bool) {
	var cfg Config
	if err := loadConfigFromFile(m.path, &cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("config reload failed: %v", err)
		}
		return Change{}, false
	}
	if err := cfg.Validate(); err != nil {
		log.Printf("config reload rejected: %v", err)
		return Change{}, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg == cfg {
		return Change{}, false
	}
	change := Diff(m.cfg, cfg)
	m.cfg = cfg
	return change, true
}

// DefaultConfigPath is CreditIntel/config.json under the user config dir,
// or under the working directory when there is none.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		if dir, err = os.Getwd(); err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, "CreditIntel", "config.json"), nil
}

// saveFile replaces path atomically.
func saveFile(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp config: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
