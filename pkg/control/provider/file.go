package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"mercator-hq/callisto/pkg/control"
)

// FileProviderConfig contains configuration for the file provider.
type FileProviderConfig struct {
	// Path is the JSON metrics feed file to follow. The file holds one
	// Metrics object; each rewrite is one new sample.
	Path string

	// HistoryLimit bounds the in-memory sample ring (default: 288).
	HistoryLimit int

	// DebounceInterval coalesces rapid write events before re-reading
	// (default: 100ms).
	DebounceInterval time.Duration
}

// DefaultFileProviderConfig returns the default file provider configuration.
func DefaultFileProviderConfig(path string) *FileProviderConfig {
	return &FileProviderConfig{
		Path:             path,
		HistoryLimit:     288,
		DebounceInterval: 100 * time.Millisecond,
	}
}

// FileProvider follows a JSON metrics feed file. An external collector
// rewrites the file on its own cadence; the provider re-reads it on change
// and keeps a bounded history of snapshots. This makes the metrics boundary
// honest: every sample originates from the external feed, never from the
// provider itself.
type FileProvider struct {
	config  *FileProviderConfig
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	mu      sync.RWMutex
	history []control.Metrics

	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewFileProvider creates a file provider. The feed file does not need to
// exist yet; the first sample is picked up when the collector writes it.
func NewFileProvider(config *FileProviderConfig, logger *slog.Logger) (*FileProvider, error) {
	if config == nil || config.Path == "" {
		return nil, fmt.Errorf("file provider requires a feed path")
	}
	if config.HistoryLimit <= 0 {
		config.HistoryLimit = 288
	}
	if config.DebounceInterval <= 0 {
		config.DebounceInterval = 100 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &FileProvider{
		config:  config,
		watcher: watcher,
		logger:  logger.With("component", "provider.file"),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Start begins following the feed file. It reads any existing sample, then
// watches the feed's directory (editors and collectors typically replace the
// file rather than write in place). Start returns once the watch is
// established; the follow loop runs until the context is cancelled or Close
// is called.
func (p *FileProvider) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("file provider already running")
	}
	p.running = true
	p.mu.Unlock()

	if err := p.watcher.Add(filepath.Dir(p.config.Path)); err != nil {
		// The follow loop never started, so Close must not wait for it.
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
		return fmt.Errorf("failed to watch %q: %w", p.config.Path, err)
	}

	if err := p.ingest(); err != nil && !os.IsNotExist(err) {
		p.logger.Warn("initial feed read failed", "path", p.config.Path, "error", err)
	}

	go p.follow(ctx)
	return nil
}

func (p *FileProvider) follow(ctx context.Context) {
	defer close(p.doneCh)

	var debounce *time.Timer
	var debounceCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(p.config.Path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(p.config.DebounceInterval)
			} else {
				debounce.Reset(p.config.DebounceInterval)
			}
			debounceCh = debounce.C
		case <-debounceCh:
			debounceCh = nil
			if err := p.ingest(); err != nil {
				p.logger.Warn("feed read failed", "path", p.config.Path, "error", err)
			}
		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("watcher error", "error", err)
		}
	}
}

// ingest reads the feed file and appends its sample to the history ring.
func (p *FileProvider) ingest() error {
	data, err := os.ReadFile(p.config.Path)
	if err != nil {
		return err
	}

	var m control.Metrics
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("malformed metrics feed: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.history) >= p.config.HistoryLimit {
		p.history = p.history[1:]
	}
	p.history = append(p.history, m)

	p.logger.Debug("ingested metrics sample", "samples", len(p.history))
	return nil
}

// Snapshot returns the most recent sample from the feed.
func (p *FileProvider) Snapshot(ctx context.Context) (control.Metrics, error) {
	if err := ctx.Err(); err != nil {
		return control.Metrics{}, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.history) == 0 {
		return control.Metrics{}, ErrNoSnapshot
	}
	return p.history[len(p.history)-1], nil
}

// History returns up to n recent samples, oldest first.
func (p *FileProvider) History(ctx context.Context, n int) ([]control.Metrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	history := p.history
	if n > 0 && len(history) > n {
		history = history[len(history)-n:]
	}
	out := make([]control.Metrics, len(history))
	copy(out, history)
	return out, nil
}

// Close stops the follow loop and releases the watcher.
func (p *FileProvider) Close() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return p.watcher.Close()
	}
	p.running = false
	p.mu.Unlock()

	close(p.stopCh)
	<-p.doneCh
	return p.watcher.Close()
}
