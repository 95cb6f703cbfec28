package provider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/five82/toolcat/internal/catalog"
)

const defaultReloadDebounce = 200 * time.Millisecond

// FileProvider reads the catalog from a YAML or JSON file.
type FileProvider struct {
	logger *zap.Logger
	path   string
	format Format

	mu          sync.RWMutex
	tools       []catalog.Tool
	initialized bool
}

var (
	_ Provider      = (*FileProvider)(nil)
	_ Reinitializer = (*FileProvider)(nil)
)

// NewFileProvider builds a provider for path. The file is not read until
// Initialize.
func NewFileProvider(path string, logger *zap.Logger) (*FileProvider, error) {
	resolved, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("catalog path: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileProvider{
		logger: logger.Named("file_provider"),
		path:   resolved,
		format: FormatForPath(resolved),
	}, nil
}

// Path returns the resolved catalog path.
func (p *FileProvider) Path() string {
	return p.path
}

// Initialize loads the file once.
func (p *FileProvider) Initialize(ctx context.Context) error {
	if p.IsInitialized() {
		return nil
	}
	return p.Reinitialize(ctx)
}

// Reinitialize re-reads the file regardless of current state.
func (p *FileProvider) Reinitialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := os.ReadFile(p.path)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	tools, err := Decode(data, p.format)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.tools = tools
	p.initialized = true
	p.mu.Unlock()

	p.logger.Debug("catalog read", zap.String("path", p.path), zap.Int("tools", len(tools)))
	return nil
}

// IsInitialized reports whether a load has succeeded.
func (p *FileProvider) IsInitialized() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.initialized
}

// AllTools returns a copy of the loaded catalog.
func (p *FileProvider) AllTools() ([]catalog.Tool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.initialized {
		return nil, ErrNotInitialized
	}
	return catalog.CloneTools(p.tools), nil
}

// Watch calls onChange, debounced, whenever the catalog file is written,
// created or renamed into place. It blocks until ctx is cancelled.
func (p *FileProvider) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Editors often replace the file, so watch the directory.
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(p.path), err)
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if err != nil {
				p.logger.Warn("catalog watcher error", zap.Error(err))
			}
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !p.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(defaultReloadDebounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(defaultReloadDebounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			p.logger.Info("catalog file changed", zap.String("path", p.path))
			onChange()
		}
	}
}

func (p *FileProvider) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != p.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
