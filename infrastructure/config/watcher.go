package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 100 * time.Millisecond

// Watcher reloads the YAML file named by CONFIG_FILE when it changes on disk.
// A reload runs the same pipeline as LoadConfig (defaults, file, environment,
// validation); an invalid file is logged and the current configuration kept.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	current  *Config
	mu       sync.RWMutex
	onChange []func(*Config)
	logger   *zap.Logger
	debounce time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewWatcher creates a watcher for the config file at path
func NewWatcher(path string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg, err := loadFrom(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial config: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Editors and config management replace the file by rename, so the directory is watched
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	return &Watcher{
		path:     path,
		watcher:  fw,
		current:  cfg,
		logger:   logger,
		debounce: defaultDebounce,
		stopCh:   make(chan struct{}),
	}, nil
}

// Start begins watching for configuration changes
func (w *Watcher) Start() {
	go w.watchLoop()
	w.logger.Info("Configuration watcher started", zap.String("path", w.path))
}

// Stop stops watching. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.watcher.Close()
		w.logger.Info("Configuration watcher stopped")
	})
}

// OnChange registers a callback run after every successful reload
func (w *Watcher) OnChange(handler func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, handler)
}

// Current returns the last successfully loaded configuration
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

func (w *Watcher) watchLoop() {
	var debounceTimer *time.Timer

	for {
		select {
		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	select {
	case <-w.stopCh:
		return
	default:
	}

	cfg, err := loadFrom(w.path)
	if err != nil {
		w.logger.Error("Failed to reload configuration, keeping current", zap.Error(err))
		return
	}

	w.mu.Lock()
	previous := w.current
	w.current = cfg
	handlers := append([]func(*Config){}, w.onChange...)
	w.mu.Unlock()

	if previous.LogLevel != cfg.LogLevel {
		w.logger.Info("Configuration changes detected",
			zap.String("log_level", fmt.Sprintf("%s -> %s", previous.LogLevel, cfg.LogLevel)),
		)
	}

	for _, handler := range handlers {
		handler(cfg)
	}

	w.logger.Info("Configuration reloaded", zap.String("path", w.path))
}
