package ui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/toolcat/internal/catalog"
	"github.com/five82/toolcat/internal/events"
	"github.com/five82/toolcat/internal/prefs"
	"github.com/five82/toolcat/internal/state"
	"github.com/five82/toolcat/internal/toolservice"
)

// Service is the part of the tool service the UI drives.
type Service interface {
	ApplyView(filters toolservice.Filters, key catalog.SortKey) []catalog.Tool
	ReloadTools(ctx context.Context) error
	FeaturedTools(limit int) []catalog.Tool
	ClearSelection()
	SetCompareMode(on bool)
	SetView(view state.View)
	OpenCompare() bool
	CloseModal()
}

// Options configures the UI.
type Options struct {
	Context       context.Context
	Store         *state.Store
	Service       Service
	Bus           events.Publisher
	Logger        *zap.Logger
	ThemeName     string
	Sort          catalog.SortKey
	View          state.View
	PrefsPath     string
	FeaturedLimit int
	CatalogSource string
	LogFile       string
}

// Pane focus within the list view.
const (
	paneList = iota
	paneDetail
)

// Model is the root application state for Bubble Tea. It renders only from
// the state.State values delivered by the store subscription.
type Model struct {
	// Configuration
	ctx           context.Context
	store         *state.Store
	svc           Service
	publisher     *IntentPublisher
	logger        *zap.Logger
	feed          *stateFeed
	keys          keyMap
	prefsPath     string
	featuredLimit int
	source        string
	startView     state.View

	// UI state
	theme       Theme
	width       int
	height      int
	ready       bool
	focusedPane int
	showHelp    bool
	cursor      int
	flash       string

	// Data state
	st          state.State
	lastUpdated time.Time
	filters     toolservice.Filters
	sort        catalog.SortKey

	// Search
	searching   bool
	searchInput textinput.Model

	detailViewport viewport.Model
	logs           logView
}

// New creates the Bubble Tea model and subscribes it to the store.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	sortKey := opts.Sort
	if sortKey == "" {
		sortKey = catalog.SortPopularity
	}

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "search tools"
	search.CharLimit = 80

	m := Model{
		ctx:           ctx,
		store:         opts.Store,
		svc:           opts.Service,
		publisher:     NewIntentPublisher(opts.Bus),
		logger:        logger.Named("ui"),
		keys:          DefaultKeyMap(),
		prefsPath:     prefsPath,
		featuredLimit: opts.FeaturedLimit,
		source:        opts.CatalogSource,
		startView:     opts.View,
		theme:         GetTheme(opts.ThemeName),
		sort:          sortKey,
		searchInput:   search,
		st:            state.InitialState(),
		logs:          logView{path: opts.LogFile},
	}
	if opts.Store != nil {
		m.st = opts.Store.GetState()
		m.feed = newStateFeed(opts.Store)
	}
	m.detailViewport = viewport.New(0, 0)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnterAltScreen, m.applyViewCmd()}
	if m.startView == state.ViewList && m.svc != nil {
		svc := m.svc
		cmds = append(cmds, func() tea.Msg {
			svc.SetView(state.ViewList)
			return nil
		})
	}
	if m.feed != nil {
		cmds = append(cmds, m.feed.wait())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.searchInput.Width = max(m.width/3, 20)
		m.updateDetailViewport()
		m.logs.viewport.Width = max(m.width-2, 0)
		m.logs.viewport.Height = max(m.height-chromeHeight-2, 0)
		return m, nil

	case stateMsg:
		m.st = state.State(msg)
		m.lastUpdated = time.Now()
		m.clampCursor()
		m.updateDetailViewport()
		var cmd tea.Cmd
		if m.feed != nil {
			cmd = m.feed.wait()
		}
		return m, cmd

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil

	case reloadDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.flash = "Reload failed"
			return m, nil
		}
		m.flash = ""
		return m, m.applyViewCmd()
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.logs.open {
		return m.renderLogs()
	}
	if m.st.Modal.Open {
		return m.renderModal()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}
	if m.logs.open {
		return m.handleLogsKey(msg)
	}
	if m.st.Modal.Open {
		return m.handleModalKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs(func(p *prefs.Prefs) { p.Theme = m.theme.Name })
		m.updateDetailViewport()
		return m, nil
	case key.Matches(msg, m.keys.Escape):
		if m.st.CompareMode && m.svc != nil {
			m.svc.SetCompareMode(false)
			return m, nil
		}
		if m.filters.Search != "" {
			m.filters.Search = ""
			m.searchInput.SetValue("")
			return m, m.applyView()
		}
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		return m, m.reloadCmd()
	case key.Matches(msg, m.keys.Logs):
		return m.toggleLogs()
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.searchInput.SetValue(m.filters.Search)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()
	case key.Matches(msg, m.keys.CycleType):
		m.filters.Type = nextFilterValue(m.filters.Type, m.st.Statistics.Types)
		return m, m.applyView()
	case key.Matches(msg, m.keys.CyclePrice):
		m.filters.Price = nextFilterValue(m.filters.Price, m.st.Statistics.PriceModels)
		return m, m.applyView()
	case key.Matches(msg, m.keys.CycleCategory):
		m.filters.Category = nextFilterValue(m.filters.Category, m.st.Statistics.Categories)
		return m, m.applyView()
	case key.Matches(msg, m.keys.ResetFilters):
		m.filters = toolservice.Filters{}
		m.searchInput.SetValue("")
		return m, m.applyView()
	case key.Matches(msg, m.keys.CycleSort):
		m.sort = catalog.NextSortKey(m.sort)
		m.savePrefs(func(p *prefs.Prefs) { p.Sort = string(m.sort) })
		return m, m.applyView()
	case key.Matches(msg, m.keys.ToggleView):
		m.toggleView()
		return m, nil
	case key.Matches(msg, m.keys.CompareMode):
		if m.svc != nil {
			m.svc.SetCompareMode(!m.st.CompareMode)
		}
		return m, nil
	case key.Matches(msg, m.keys.OpenCompare):
		if m.svc != nil && !m.svc.OpenCompare() {
			m.flash = "Select at least two tools to compare"
		}
		return m, nil
	case key.Matches(msg, m.keys.ClearSelection):
		if m.svc != nil {
			m.svc.ClearSelection()
		}
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		if m.st.CurrentView == state.ViewList {
			m.focusedPane = (m.focusedPane + 1) % 2
		}
		return m, nil
	case key.Matches(msg, m.keys.Details):
		m.dispatch(ActionViewDetails)
		return m, nil
	case key.Matches(msg, m.keys.Website):
		m.dispatch(ActionVisitWebsite)
		return m, nil
	case key.Matches(msg, m.keys.Compare):
		m.dispatch(ActionToggleCompare)
		return m, nil
	}

	if m.st.CurrentView == state.ViewList && m.focusedPane == paneDetail {
		var cmd tea.Cmd
		m.detailViewport, cmd = m.detailViewport.Update(msg)
		return m, cmd
	}
	m.moveCursor(msg)
	return m, nil
}

// handleModalKey closes the modal on esc and scrolls otherwise.
func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit) && msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Quit):
		if m.svc != nil {
			m.svc.CloseModal()
		}
		return m, nil
	case key.Matches(msg, m.keys.Website):
		m.dispatch(ActionVisitWebsite)
		return m, nil
	case key.Matches(msg, m.keys.Compare):
		m.dispatch(ActionToggleCompare)
		return m, nil
	}
	return m, nil
}

// moveCursor handles navigation keys over the visible tools.
func (m *Model) moveCursor(msg tea.KeyMsg) {
	count := len(m.visibleTools())
	if count == 0 {
		return
	}
	step := 1
	if m.st.CurrentView == state.ViewGrid {
		step = m.gridColumns()
	}
	page := max(m.pageSize(), 1)

	switch {
	case key.Matches(msg, m.keys.Down):
		m.cursor += step
	case key.Matches(msg, m.keys.Up):
		m.cursor -= step
	case key.Matches(msg, m.keys.Right):
		m.cursor++
	case key.Matches(msg, m.keys.Left):
		m.cursor--
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = count - 1
	case key.Matches(msg, m.keys.PageDown):
		m.cursor += page * step
	case key.Matches(msg, m.keys.PageUp):
		m.cursor -= page * step
	default:
		return
	}
	m.clampCursor()
	m.updateDetailViewport()
}

func (m *Model) clampCursor() {
	count := len(m.visibleTools())
	m.cursor = min(max(m.cursor, 0), max(count-1, 0))
}

func (m *Model) toggleView() {
	if m.svc == nil {
		return
	}
	next := state.ViewList
	if m.st.CurrentView == state.ViewList {
		next = state.ViewGrid
	}
	m.svc.SetView(next)
	m.focusedPane = paneList
	m.savePrefs(func(p *prefs.Prefs) { p.View = string(next) })
}

// visibleTools is the tool list the cursor moves over.
func (m Model) visibleTools() []catalog.Tool {
	if m.st.CurrentView == state.ViewCompare {
		return selectedTools(m.st)
	}
	return m.st.FilteredTools
}

// currentTool returns the tool under the cursor.
func (m Model) currentTool() *catalog.Tool {
	tools := m.visibleTools()
	if m.cursor < 0 || m.cursor >= len(tools) {
		return nil
	}
	tool := tools[m.cursor]
	return &tool
}

// modalTool returns the tool shown in the details modal.
func (m Model) modalTool() *catalog.Tool {
	if !m.st.Modal.Open || m.st.Modal.Type != state.ModalDetails || len(m.st.Modal.ToolIDs) == 0 {
		return nil
	}
	tool, ok := catalog.Find(m.st.Tools, m.st.Modal.ToolIDs[0])
	if !ok {
		return nil
	}
	return &tool
}

// dispatch publishes action for the focused card, or the modal's tool while
// a details modal is open.
func (m *Model) dispatch(action Action) {
	tool := m.modalTool()
	if tool == nil {
		tool = m.currentTool()
	}
	if tool == nil {
		return
	}
	card, err := NewCard(tool, CardOptions{Theme: m.theme, Selected: m.st.IsSelected(tool.ID)})
	if err != nil {
		m.logger.Warn("card dispatch skipped", zap.Error(err))
		return
	}
	intent := m.publisher.Dispatch(card, action)
	m.publisher.Release(card)
	if intent.Action == ActionVisitWebsite && intent.URL == "" {
		m.flash = fmt.Sprintf("%s has no website", tool.Name)
	}
}

// applyView pushes the current criteria to the service.
func (m *Model) applyView() tea.Cmd {
	m.flash = ""
	if m.svc != nil {
		m.svc.ApplyView(m.filters, m.sort)
	}
	m.cursor = 0
	return nil
}

func (m Model) applyViewCmd() tea.Cmd {
	if m.svc == nil {
		return nil
	}
	svc, filters, sortKey := m.svc, m.filters, m.sort
	return func() tea.Msg {
		svc.ApplyView(filters, sortKey)
		return nil
	}
}

func (m Model) reloadCmd() tea.Cmd {
	if m.svc == nil {
		return nil
	}
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		return reloadDoneMsg{err: svc.ReloadTools(ctx)}
	}
}

// savePrefs persists a preference change. Failures are logged and otherwise
// ignored.
func (m Model) savePrefs(fn func(*prefs.Prefs)) {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Update(m.prefsPath, fn); err != nil {
		m.logger.Warn("save prefs failed", zap.String("path", m.prefsPath), zap.Error(err))
	}
}

// nextFilterValue cycles "all" then every known value in sorted order.
func nextFilterValue(current string, counts map[string]int) string {
	values := make([]string, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	slices.Sort(values)
	if len(values) == 0 {
		return ""
	}
	if current == "" || current == state.FilterAll {
		return values[0]
	}
	idx := slices.Index(values, current)
	if idx < 0 || idx == len(values)-1 {
		return ""
	}
	return values[idx+1]
}

// Messages

type stateMsg state.State

type reloadDoneMsg struct{ err error }

// stateFeed carries store changes into the Bubble Tea loop. It keeps only
// the newest state so a store listener never blocks.
type stateFeed struct {
	ch          chan state.State
	unsubscribe func()
}

func newStateFeed(store *state.Store) *stateFeed {
	f := &stateFeed{ch: make(chan state.State, 1)}
	f.unsubscribe = store.Subscribe(func(c state.Change) {
		f.push(c.State.Clone())
	})
	return f
}

func (f *stateFeed) push(st state.State) {
	for {
		select {
		case f.ch <- st:
			return
		default:
		}
		select {
		case <-f.ch:
		default:
		}
	}
}

func (f *stateFeed) wait() tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-f.ch)
	}
}

func (f *stateFeed) close() {
	if f != nil && f.unsubscribe != nil {
		f.unsubscribe()
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	defer m.feed.close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
