// Package toolservice bridges the catalog provider and the store. It loads
// the catalog with bounded retries and computes the derived views (filter,
// search, featured, sort, statistics) behind a TTL cache.
package toolservice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/five82/toolcat/internal/catalog"
	"github.com/five82/toolcat/internal/events"
	"github.com/five82/toolcat/internal/provider"
	"github.com/five82/toolcat/internal/state"
)

const (
	// DefaultMaxAttempts bounds LoadTools retries.
	DefaultMaxAttempts = 3
	// DefaultRetryDelay is the linear backoff base between load attempts.
	DefaultRetryDelay = time.Second
)

var (
	// ErrEmptyCatalog is returned when the provider keeps returning no tools.
	ErrEmptyCatalog = errors.New("provider returned an empty catalog")
	// ErrProviderNil is returned when the service has no provider.
	ErrProviderNil = errors.New("tool provider is nil")
)

// Bus is the subset of events.Bus the service uses.
type Bus interface {
	events.Publisher
	Subscribe(topic events.Topic, handler events.Handler) func()
}

// Options configure a Service. Zero values select the defaults.
type Options struct {
	// Context bounds reloads triggered by catalog change events. Destroy
	// cancels them as well.
	Context     context.Context
	Logger      *zap.Logger
	Bus         Bus
	MaxAttempts int
	RetryDelay  time.Duration
	CacheTTL    time.Duration
	Registerer  prometheus.Registerer
	Now         func() time.Time
	Sleep       func(ctx context.Context, d time.Duration) error
}

// Service owns catalog loading and derived-view computation.
type Service struct {
	store    *state.Store
	provider provider.Provider
	bus      Bus
	logger   *zap.Logger
	metrics  *metrics
	cache    *ttlCache[[]catalog.Tool]

	maxAttempts int
	retryDelay  time.Duration
	now         func() time.Time
	sleep       func(ctx context.Context, d time.Duration) error

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	destroyed   bool
	unsubscribe func()
}

// New wires a service to store and p. When opts.Bus is set the service
// reloads on events.TopicCatalogChanged until Destroy.
func New(store *state.Store, p provider.Provider, opts Options) (*Service, error) {
	if store == nil {
		return nil, errors.New("store is nil")
	}
	if p == nil {
		return nil, ErrProviderNil
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	retryDelay := opts.RetryDelay
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}

	base := opts.Context
	if base == nil {
		base = context.Background()
	}

	s := &Service{
		store:       store,
		provider:    p,
		bus:         opts.Bus,
		logger:      logger.Named("toolservice"),
		metrics:     newMetrics(opts.Registerer),
		cache:       newTTLCache[[]catalog.Tool](opts.CacheTTL, now),
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
		now:         now,
		sleep:       sleep,
	}
	s.ctx, s.cancel = context.WithCancel(base)
	if s.bus != nil {
		s.unsubscribe = s.bus.Subscribe(events.TopicCatalogChanged, s.onCatalogChanged)
	}
	return s, nil
}

// Initialize prepares the provider and performs the first load. On failure
// the store falls back to an empty, renderable catalog with Error set, an
// error event is published, and the error is returned.
func (s *Service) Initialize(ctx context.Context) error {
	s.store.SetState(state.Update{Loading: state.Set(true)}, "tools/loading")

	if err := s.initialize(ctx); err != nil {
		s.logger.Error("catalog initialization failed", zap.Error(err))
		s.fallback(err)
		return err
	}

	count := len(s.store.GetState().Tools)
	s.logger.Info("catalog initialized", zap.Int("tools", count))
	s.publish(events.New(events.TopicInitialized, "", events.InitializedPayload{ToolCount: count}))
	return nil
}

func (s *Service) initialize(ctx context.Context) error {
	if !s.provider.IsInitialized() {
		if err := s.provider.Initialize(ctx); err != nil {
			return fmt.Errorf("initialize provider: %w", err)
		}
	}
	return s.LoadTools(ctx)
}

// LoadTools fetches the catalog with up to MaxAttempts attempts and linear
// backoff. An empty result re-initializes the provider and refetches once;
// if it is still empty the attempt fails with ErrEmptyCatalog.
func (s *Service) LoadTools(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		tools, err := s.fetch(ctx)
		if err == nil {
			s.metrics.loadAttempt("success")
			s.commit(tools)
			return nil
		}
		lastErr = err
		if errors.Is(err, ErrEmptyCatalog) {
			s.metrics.loadAttempt("empty")
		} else {
			s.metrics.loadAttempt("error")
		}
		s.logger.Warn("catalog load attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", s.maxAttempts),
			zap.Error(err),
		)
		if attempt < s.maxAttempts {
			if err := s.sleep(ctx, s.retryDelay*time.Duration(attempt)); err != nil {
				return fmt.Errorf("load tools: %w", err)
			}
		}
	}
	return fmt.Errorf("load tools after %d attempts: %w", s.maxAttempts, lastErr)
}

func (s *Service) fetch(ctx context.Context) ([]catalog.Tool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.provider.IsInitialized() {
		if err := s.provider.Initialize(ctx); err != nil {
			return nil, fmt.Errorf("initialize provider: %w", err)
		}
	}
	tools, err := s.provider.AllTools()
	if err != nil {
		return nil, fmt.Errorf("fetch tools: %w", err)
	}
	if len(tools) > 0 {
		return tools, nil
	}

	s.logger.Warn("provider returned no tools; reinitializing")
	if err := s.reinitialize(ctx); err != nil {
		return nil, fmt.Errorf("reinitialize provider: %w", err)
	}
	tools, err = s.provider.AllTools()
	if err != nil {
		return nil, fmt.Errorf("fetch tools: %w", err)
	}
	if len(tools) == 0 {
		return nil, ErrEmptyCatalog
	}
	return tools, nil
}

func (s *Service) reinitialize(ctx context.Context) error {
	if r, ok := s.provider.(provider.Reinitializer); ok {
		return r.Reinitialize(ctx)
	}
	return s.provider.Initialize(ctx)
}

// commit publishes a freshly loaded catalog. The cache is cleared on both
// sides of the store update so no lookup sees a result derived from the
// previous catalog.
func (s *Service) commit(tools []catalog.Tool) {
	stats := catalog.CalculateStatistics(tools, s.now())
	s.cache.clear()
	s.store.SetState(state.Update{
		Tools:         state.Set(tools),
		FilteredTools: state.Set(tools),
		Statistics:    state.Set(stats),
		Loading:       state.Set(false),
		Error:         state.Set[*state.ErrorInfo](nil),
	}, "tools/loaded")

	s.cache.clear()
	s.cache.set(keyAllTools, catalog.CloneTools(tools))
}

func (s *Service) fallback(err error) {
	stats := catalog.EmptyStatistics()
	stats.LastUpdated = s.now()
	s.store.SetState(state.Update{
		Tools:         state.Set([]catalog.Tool{}),
		FilteredTools: state.Set([]catalog.Tool{}),
		Statistics:    state.Set(stats),
		Loading:       state.Set(false),
		Error:         state.Set(s.errorInfo("Failed to load tools", err)),
	}, "tools/error")
	s.publish(events.New(events.TopicError, "", events.ErrorPayload{Message: "Failed to load tools", Err: err}))
}

func (s *Service) errorInfo(message string, err error) *state.ErrorInfo {
	return &state.ErrorInfo{Message: message, Details: err.Error(), Timestamp: s.now()}
}

// ReloadTools drops every cached result, forces the provider to re-read its
// source and loads the catalog again. On failure the previous catalog is kept
// and the error is recorded.
func (s *Service) ReloadTools(ctx context.Context) error {
	s.ClearCache()
	s.store.SetState(state.Update{Loading: state.Set(true)}, "tools/reloading")

	err := s.reinitialize(ctx)
	if err != nil {
		err = fmt.Errorf("reinitialize provider: %w", err)
	} else {
		err = s.LoadTools(ctx)
	}
	if err != nil {
		s.logger.Error("catalog reload failed", zap.Error(err))
		s.store.SetState(state.Update{
			Loading: state.Set(false),
			Error:   state.Set(s.errorInfo("Failed to reload tools", err)),
		}, "tools/error")
		s.publish(events.New(events.TopicError, "", events.ErrorPayload{Message: "Failed to reload tools", Err: err}))
		return err
	}

	count := len(s.store.GetState().Tools)
	s.logger.Info("catalog reloaded", zap.Int("tools", count))
	s.publish(events.New(events.TopicReloaded, "", events.InitializedPayload{ToolCount: count}))
	return nil
}

func (s *Service) onCatalogChanged(events.Event) {
	if s.isDestroyed() {
		return
	}
	if err := s.ReloadTools(s.ctx); err != nil {
		if s.ctx.Err() != nil {
			s.logger.Debug("reload after catalog change cancelled", zap.Error(err))
			return
		}
		s.logger.Warn("reload after catalog change failed", zap.Error(err))
	}
}

// AllTools returns the current catalog.
func (s *Service) AllTools() []catalog.Tool {
	return s.store.GetState().Tools
}

// Tool looks up a tool by id. Unknown ids report false.
func (s *Service) Tool(id string) (catalog.Tool, bool) {
	return catalog.Find(s.store.GetState().Tools, id)
}

// SortTools returns a sorted copy of tools.
func (s *Service) SortTools(tools []catalog.Tool, key catalog.SortKey) []catalog.Tool {
	return catalog.Sort(tools, key)
}

// CalculateStatistics aggregates tools from scratch.
func (s *Service) CalculateStatistics(tools []catalog.Tool) catalog.Statistics {
	return catalog.CalculateStatistics(tools, s.now())
}

// ClearCache drops every cached derived result.
func (s *Service) ClearCache() {
	s.cache.clear()
}

// Destroy cancels reloads started by catalog change events, clears the cache
// and detaches from the bus. Safe to call twice.
func (s *Service) Destroy() {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return
	}
	s.destroyed = true
	s.cancel()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	s.cache.clear()
	s.logger.Debug("tool service destroyed")
}

func (s *Service) isDestroyed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destroyed
}

func (s *Service) publish(ev events.Event) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ev)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
