package toolservice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/five82/toolcat/internal/catalog"
	"github.com/five82/toolcat/internal/events"
	"github.com/five82/toolcat/internal/state"
)

type response struct {
	tools []catalog.Tool
	err   error
}

// scriptedProvider returns responses in order and repeats the last one.
type scriptedProvider struct {
	mu          sync.Mutex
	initialized bool
	initErr     error
	responses   []response
	fetches     int
	reinits     int
}

func (p *scriptedProvider) Initialize(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initErr != nil {
		return p.initErr
	}
	p.initialized = true
	return nil
}

func (p *scriptedProvider) Reinitialize(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reinits++
	p.initialized = true
	return nil
}

func (p *scriptedProvider) IsInitialized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

func (p *scriptedProvider) AllTools() ([]catalog.Tool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	idx := min(p.fetches, len(p.responses)-1)
	p.fetches++
	r := p.responses[idx]
	return catalog.CloneTools(r.tools), r.err
}

func (p *scriptedProvider) setResponses(rs ...response) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.responses = rs
	p.fetches = 0
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordedSleeps struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (r *recordedSleeps) sleep(_ context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.waits = append(r.waits, d)
	return nil
}

func priority(p int) *catalog.ToolConfig {
	return &catalog.ToolConfig{Featured: true, Priority: &p}
}

func sampleTools() []catalog.Tool {
	return []catalog.Tool{
		{
			ID: "cursor", Name: "Cursor", Description: "AI-first code editor",
			Category: "editor", Type: "ide", Price: "freemium", Status: "stable",
			Rating: 4.8, Users: "1.2k", Updated: "2024-05-01",
			Features:           []string{"chat", "code completion"},
			SupportedLanguages: []string{"go", "python"},
			Platforms:          []string{"macos", "linux"},
			Website:            "https://cursor.example",
			Config:             priority(2),
		},
		{
			ID: "copilot", Name: "Copilot", Description: "Pair programmer in your editor",
			Category: "assistant", Type: "plugin", Price: "paid", Status: "stable",
			Rating: 4.5, Users: "3m", Updated: "2024-06-01",
			Features:           []string{"completion"},
			SupportedLanguages: []string{"python", "typescript"},
			Platforms:          []string{"vscode"},
			Website:            "https://copilot.example",
			Config:             priority(1),
		},
		{
			ID: "aider", Name: "Aider", Description: "Terminal pair programming",
			Category: "cli", Type: "cli", Price: "free", Status: "beta",
			Rating: 4.1, Users: "500", Updated: "2024-04-01",
			Features:           []string{"git commits"},
			SupportedLanguages: []string{"go", "rust"},
			Platforms:          []string{"linux"},
			Website:            "https://aider.example",
		},
	}
}

type harness struct {
	svc      *Service
	store    *state.Store
	bus      *events.Bus
	provider *scriptedProvider
	clock    *fakeClock
	sleeps   *recordedSleeps
}

func newHarness(t *testing.T, responses ...response) *harness {
	t.Helper()
	if len(responses) == 0 {
		responses = []response{{tools: sampleTools()}}
	}
	h := &harness{
		store:    state.NewStore(state.Options{}),
		bus:      events.NewBus(nil),
		provider: &scriptedProvider{responses: responses},
		clock:    &fakeClock{now: time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)},
		sleeps:   &recordedSleeps{},
	}
	svc, err := New(h.store, h.provider, Options{
		Bus:        h.bus,
		Registerer: prometheus.NewRegistry(),
		Now:        h.clock.Now,
		Sleep:      h.sleeps.sleep,
	})
	require.NoError(t, err)
	t.Cleanup(svc.Destroy)
	h.svc = svc
	return h
}

func TestNewRejectsNilProvider(t *testing.T) {
	_, err := New(state.NewStore(state.Options{}), nil, Options{})
	require.ErrorIs(t, err, ErrProviderNil)
}

func TestInitializeLoadsCatalog(t *testing.T) {
	h := newHarness(t)
	var got []events.Event
	h.bus.Subscribe(events.TopicInitialized, func(ev events.Event) { got = append(got, ev) })

	require.NoError(t, h.svc.Initialize(context.Background()))

	st := h.store.GetState()
	require.False(t, st.Loading)
	require.Nil(t, st.Error)
	require.Equal(t, []string{"cursor", "copilot", "aider"}, catalog.IDs(st.Tools))
	require.Equal(t, catalog.IDs(st.Tools), catalog.IDs(st.FilteredTools))
	require.Equal(t, 3, st.Statistics.TotalTools)
	require.Equal(t, 2, st.Statistics.FeaturedTools)

	require.Len(t, got, 1)
	require.Equal(t, events.InitializedPayload{ToolCount: 3}, got[0].Payload)
}

func TestLoadToolsRetriesEmptyThenSucceeds(t *testing.T) {
	h := newHarness(t,
		response{tools: nil},
		response{tools: nil},
		response{tools: sampleTools()},
	)

	require.NoError(t, h.svc.Initialize(context.Background()))

	require.Len(t, h.store.GetState().Tools, 3)
	require.Equal(t, 1, h.provider.reinits)
	require.Equal(t, []time.Duration{time.Second}, h.sleeps.waits)
	require.Equal(t, 1.0, testutil.ToFloat64(h.svc.metrics.loadAttempts.WithLabelValues("empty")))
	require.Equal(t, 1.0, testutil.ToFloat64(h.svc.metrics.loadAttempts.WithLabelValues("success")))
}

func TestInitializeFallsBackAfterExhaustingAttempts(t *testing.T) {
	boom := errors.New("boom")
	h := newHarness(t, response{err: boom})
	var errs []events.Event
	h.bus.Subscribe(events.TopicError, func(ev events.Event) { errs = append(errs, ev) })

	err := h.svc.Initialize(context.Background())
	require.ErrorIs(t, err, boom)

	require.Equal(t, 3, h.provider.fetches)
	require.Equal(t, []time.Duration{time.Second, 2 * time.Second}, h.sleeps.waits)

	st := h.store.GetState()
	require.False(t, st.Loading)
	require.NotNil(t, st.Error)
	require.Equal(t, "Failed to load tools", st.Error.Message)
	require.Contains(t, st.Error.Details, "boom")
	require.Empty(t, st.Tools)
	require.Empty(t, st.FilteredTools)
	require.Equal(t, 0, st.Statistics.TotalTools)
	require.Len(t, errs, 1)
}

func TestInitializeProviderFailure(t *testing.T) {
	h := newHarness(t)
	h.provider.initErr = errors.New("no catalog")

	err := h.svc.Initialize(context.Background())
	require.Error(t, err)
	require.Zero(t, h.provider.fetches)
	require.NotNil(t, h.store.GetState().Error)
}

func TestLoadToolsPersistentEmptyCatalog(t *testing.T) {
	h := newHarness(t, response{tools: []catalog.Tool{}})
	require.NoError(t, h.provider.Initialize(context.Background()))

	err := h.svc.LoadTools(context.Background())
	require.ErrorIs(t, err, ErrEmptyCatalog)
	require.Equal(t, 3, h.provider.reinits)
}

func TestLoadToolsStopsOnCancelledContext(t *testing.T) {
	h := newHarness(t, response{err: errors.New("down")})
	ctx, cancel := context.WithCancel(context.Background())
	h.svc.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	err := h.svc.LoadTools(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, h.provider.fetches)
}

func TestToolLookup(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.svc.Initialize(context.Background()))

	tool, ok := h.svc.Tool("copilot")
	require.True(t, ok)
	require.Equal(t, "Copilot", tool.Name)

	_, ok = h.svc.Tool("nonexistent-id")
	require.False(t, ok)
}

func TestReloadKeepsCatalogOnFailure(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.svc.Initialize(context.Background()))

	h.provider.setResponses(response{err: errors.New("offline")})
	err := h.svc.ReloadTools(context.Background())
	require.Error(t, err)

	st := h.store.GetState()
	require.Len(t, st.Tools, 3)
	require.False(t, st.Loading)
	require.NotNil(t, st.Error)
}

func TestReloadPrunesSelection(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.svc.Initialize(context.Background()))
	require.True(t, h.svc.ToggleSelection("aider"))
	require.True(t, h.svc.ToggleSelection("cursor"))

	h.provider.setResponses(response{tools: sampleTools()[:2]})
	require.NoError(t, h.svc.ReloadTools(context.Background()))

	require.Equal(t, []string{"cursor"}, h.store.GetState().SelectedIDs())
}

func TestCatalogChangedTriggersReload(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.svc.Initialize(context.Background()))
	reloaded := 0
	h.bus.Subscribe(events.TopicReloaded, func(events.Event) { reloaded++ })

	h.provider.setResponses(response{tools: sampleTools()[:1]})
	h.bus.Publish(events.New(events.TopicCatalogChanged, "", nil))

	require.Equal(t, 1, reloaded)
	require.Equal(t, 1, h.provider.reinits)
	require.Equal(t, []string{"cursor"}, catalog.IDs(h.svc.AllTools()))
}

func TestDestroyIsIdempotent(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.svc.Initialize(context.Background()))
	h.svc.FeaturedTools(1)
	require.Equal(t, 1, h.bus.Subscribers(events.TopicCatalogChanged))

	h.svc.Destroy()
	h.svc.Destroy()

	require.Zero(t, h.bus.Subscribers(events.TopicCatalogChanged))
	require.Zero(t, h.svc.cache.len())
}

func TestDestroyCancelsReloadFromCatalogChange(t *testing.T) {
	store := state.NewStore(state.Options{})
	bus := events.NewBus(nil)
	p := &scriptedProvider{responses: []response{{tools: sampleTools()}}}

	sleeping := make(chan struct{}, 1)
	svc, err := New(store, p, Options{
		Bus:        bus,
		Registerer: prometheus.NewRegistry(),
		RetryDelay: time.Hour,
		Sleep: func(ctx context.Context, d time.Duration) error {
			select {
			case sleeping <- struct{}{}:
			default:
			}
			return sleepContext(ctx, d)
		},
	})
	require.NoError(t, err)
	require.NoError(t, svc.Initialize(context.Background()))

	p.setResponses(response{err: errors.New("catalog offline")})
	done := make(chan struct{})
	go func() {
		defer close(done)
		bus.Publish(events.New(events.TopicCatalogChanged, "", nil))
	}()

	select {
	case <-sleeping:
	case <-time.After(5 * time.Second):
		t.Fatal("reload never reached its retry delay")
	}
	svc.Destroy()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("reload kept waiting after Destroy")
	}
	require.Len(t, store.GetState().Tools, 3)
}
