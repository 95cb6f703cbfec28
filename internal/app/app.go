package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/five82/toolcat/internal/catalog"
	"github.com/five82/toolcat/internal/config"
	"github.com/five82/toolcat/internal/events"
	"github.com/five82/toolcat/internal/logging"
	"github.com/five82/toolcat/internal/prefs"
	"github.com/five82/toolcat/internal/provider"
	"github.com/five82/toolcat/internal/state"
	"github.com/five82/toolcat/internal/toolservice"
	"github.com/five82/toolcat/internal/ui"
)

// Options configure the toolcat application.
type Options struct {
	// Config is used as is when set; otherwise it is loaded from ConfigPath
	// and Flags.
	Config     *config.Config
	ConfigPath string
	Flags      *pflag.FlagSet
	PrefsPath  string // empty uses default ~/.config/toolcat/prefs.toml

	// Logger is built from the config when nil.
	Logger   *zap.Logger
	Registry *prometheus.Registry
	Opener   func(url string) error
}

// Shell owns every long-lived component. Build it with Open and release it
// with Close.
type Shell struct {
	Config   config.Config
	Prefs    prefs.Prefs
	Logger   *zap.Logger
	Store    *state.Store
	Bus      *events.Bus
	Provider provider.Provider
	Service  *toolservice.Service
	Registry *prometheus.Registry

	prefsPath  string
	ownsLogger bool
	opener     func(url string) error

	mu          sync.Mutex
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	unsubscribe []func()
	closeOnce   sync.Once
}

// Open wires configuration, logging, the provider, store, bus and tool
// service, then loads the catalog. A catalog that fails to load is logged
// and leaves the shell with the empty fallback state.
func Open(ctx context.Context, opts Options) (*Shell, error) {
	var cfg config.Config
	if opts.Config != nil {
		cfg = *opts.Config
	} else {
		loaded, err := config.Load(opts.ConfigPath, opts.Flags)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	logger := opts.Logger
	ownsLogger := false
	if logger == nil {
		built, err := logging.New(logging.Options{File: cfg.LogFile, Debug: cfg.Debug})
		if err != nil {
			return nil, fmt.Errorf("init logging: %w", err)
		}
		logger, ownsLogger = built, true
	}
	fail := func(err error) (*Shell, error) {
		if ownsLogger {
			logger.Error("startup failed", zap.Error(err))
			_ = logger.Sync()
		}
		return nil, err
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	p, err := provider.Open(cfg.CatalogSource, logger)
	if err != nil {
		return fail(fmt.Errorf("open catalog %s: %w", cfg.CatalogSource, err))
	}

	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	store := state.NewStore(state.Options{
		Logger:       logger,
		Debug:        cfg.Debug,
		HistoryLimit: cfg.StoreHistory,
	})
	bus := events.NewBus(logger)

	svc, err := toolservice.New(store, p, toolservice.Options{
		Context:     ctx,
		Logger:      logger,
		Bus:         bus,
		MaxAttempts: cfg.MaxAttempts,
		RetryDelay:  cfg.RetryDelay,
		CacheTTL:    cfg.CacheTTL,
		Registerer:  registry,
	})
	if err != nil {
		return fail(fmt.Errorf("init tool service: %w", err))
	}

	opener := opts.Opener
	if opener == nil {
		opener = openURL
	}

	s := &Shell{
		Config:     cfg,
		Prefs:      userPrefs,
		Logger:     logger.Named("app"),
		Store:      store,
		Bus:        bus,
		Provider:   p,
		Service:    svc,
		Registry:   registry,
		prefsPath:  opts.PrefsPath,
		ownsLogger: ownsLogger,
		opener:     opener,
	}
	s.subscribe()

	if err := svc.Initialize(ctx); err != nil {
		s.Logger.Warn("catalog unavailable, starting empty",
			zap.String("source", cfg.CatalogSource),
			zap.Error(err),
		)
	}
	return s, nil
}

// subscribe connects card intents and service events to their handlers.
func (s *Shell) subscribe() {
	s.unsubscribe = append(s.unsubscribe,
		s.Bus.Subscribe(events.TopicDetailsClicked, s.onDetails),
		s.Bus.Subscribe(events.TopicCompareToggled, s.onCompare),
		s.Bus.Subscribe(events.TopicWebsiteClicked, s.onWebsite),
		s.Bus.Subscribe(events.TopicDestroyed, func(ev events.Event) {
			s.Logger.Debug("card destroyed", zap.String("tool", ev.ToolID))
		}),
		s.Bus.Subscribe(events.TopicInitialized, func(ev events.Event) {
			if p, ok := ev.Payload.(events.InitializedPayload); ok {
				s.Logger.Info("catalog loaded", zap.Int("tools", p.ToolCount))
			}
		}),
		s.Bus.Subscribe(events.TopicReloaded, func(events.Event) {
			s.Service.RefreshView()
		}),
		s.Bus.Subscribe(events.TopicError, func(ev events.Event) {
			if p, ok := ev.Payload.(events.ErrorPayload); ok {
				s.Logger.Warn(p.Message, zap.String("event_id", ev.ID), zap.Error(p.Err))
			}
		}),
	)
}

func (s *Shell) onDetails(ev events.Event) {
	if !s.Service.OpenDetails(ev.ToolID) {
		s.Logger.Debug("details requested for unknown tool", zap.String("tool", ev.ToolID))
	}
}

// onCompare moves the selection to the state the card asked for.
func (s *Shell) onCompare(ev events.Event) {
	if p, ok := ev.Payload.(events.ComparePayload); ok && p.Selected == s.Store.GetState().IsSelected(ev.ToolID) {
		return
	}
	s.Service.ToggleSelection(ev.ToolID)
}

func (s *Shell) onWebsite(ev events.Event) {
	p, _ := ev.Payload.(events.WebsitePayload)
	if p.URL == "" {
		s.Logger.Info("tool has no website", zap.String("tool", ev.ToolID))
		return
	}
	if err := s.opener(p.URL); err != nil {
		s.Logger.Warn("open website failed", zap.String("tool", ev.ToolID), zap.String("url", p.URL), zap.Error(err))
	}
}

// Start launches the catalog watcher for file catalogs and the refresh
// poller when one is configured. It returns immediately.
func (s *Shell) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)

	if fp, ok := s.Provider.(*provider.FileProvider); ok && s.Config.WatchCatalog {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			err := fp.Watch(ctx, func() {
				s.Bus.Publish(events.New(events.TopicCatalogChanged, "", nil))
			})
			if err != nil {
				s.Logger.Warn("catalog watch stopped", zap.String("path", fp.Path()), zap.Error(err))
			}
		}()
	}

	if s.Config.Refresh > 0 {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.poll(ctx, s.Config.Refresh)
		}()
	}
}

// UIOptions returns the TUI options for this shell.
func (s *Shell) UIOptions(ctx context.Context) ui.Options {
	return ui.Options{
		Context:       ctx,
		Store:         s.Store,
		Service:       s.Service,
		Bus:           s.Bus,
		Logger:        s.Logger,
		ThemeName:     s.Prefs.Theme,
		Sort:          catalog.ParseSortKey(s.Prefs.Sort),
		View:          state.View(s.Prefs.View),
		PrefsPath:     s.prefsPath,
		FeaturedLimit: s.Config.FeaturedLimit,
		CatalogSource: s.Config.CatalogSource,
		LogFile:       s.Config.LogFile,
	}
}

// Close stops background work, destroys the service and flushes the logger.
// It is safe to call more than once.
func (s *Shell) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		if s.cancel != nil {
			s.cancel()
		}
		s.mu.Unlock()
		// Destroy first: it cancels a reload the watcher may be blocked in.
		s.Service.Destroy()
		s.wg.Wait()

		for _, unsubscribe := range s.unsubscribe {
			unsubscribe()
		}

		if s.ownsLogger {
			if syncErr := s.Logger.Sync(); syncErr != nil {
				err = fmt.Errorf("sync logger: %w", syncErr)
			}
		}
	})
	return err
}

// Run opens the shell, starts background work and runs the TUI until the
// user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	shell, err := Open(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = shell.Close() }()

	shell.Start(ctx)
	return ui.Run(shell.UIOptions(ctx))
}
