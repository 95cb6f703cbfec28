package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/five82/toolcat/internal/catalog"
	"github.com/five82/toolcat/internal/events"
	"github.com/five82/toolcat/internal/prefs"
	"github.com/five82/toolcat/internal/state"
	"github.com/five82/toolcat/internal/toolservice"
)

type staticProvider struct {
	tools []catalog.Tool
}

func (p *staticProvider) Initialize(context.Context) error { return nil }
func (p *staticProvider) IsInitialized() bool              { return true }
func (p *staticProvider) AllTools() ([]catalog.Tool, error) {
	return catalog.CloneTools(p.tools), nil
}

func modelTools() []catalog.Tool {
	return []catalog.Tool{
		{ID: "cursor", Name: "Cursor", Type: "ide", Price: "freemium", Category: "editor", Status: "stable", Rating: 4.8},
		{ID: "copilot", Name: "Copilot", Type: "plugin", Price: "paid", Category: "assistant", Status: "stable", Rating: 4.5},
		{ID: "aider", Name: "Aider", Type: "cli", Price: "free", Category: "cli", Status: "beta", Rating: 4.1, Website: "https://aider.example"},
	}
}

type modelHarness struct {
	store     *state.Store
	bus       *events.Bus
	svc       *toolservice.Service
	prefsPath string
	websites  []string
}

func newModelHarness(t *testing.T) (*modelHarness, Model) {
	t.Helper()
	h := &modelHarness{
		store:     state.NewStore(state.Options{}),
		bus:       events.NewBus(nil),
		prefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	}
	svc, err := toolservice.New(h.store, &staticProvider{tools: modelTools()}, toolservice.Options{
		Bus:        h.bus,
		Registerer: prometheus.NewRegistry(),
	})
	if err != nil {
		t.Fatalf("toolservice.New: %v", err)
	}
	t.Cleanup(svc.Destroy)
	if err := svc.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	h.svc = svc

	// Mirror the shell's intent wiring.
	h.bus.Subscribe(events.TopicDetailsClicked, func(ev events.Event) { svc.OpenDetails(ev.ToolID) })
	h.bus.Subscribe(events.TopicCompareToggled, func(ev events.Event) { svc.ToggleSelection(ev.ToolID) })
	h.bus.Subscribe(events.TopicWebsiteClicked, func(ev events.Event) {
		h.websites = append(h.websites, ev.Payload.(events.WebsitePayload).URL)
	})

	m := New(Options{
		Store:     h.store,
		Service:   svc,
		Bus:       h.bus,
		PrefsPath: h.prefsPath,
	})
	t.Cleanup(m.feed.close)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return h, updated.(Model)
}

// drain applies the newest store state waiting on the feed, if any.
func drain(m Model) Model {
	select {
	case st := <-m.feed.ch:
		updated, _ := m.Update(stateMsg(st))
		return updated.(Model)
	default:
		return m
	}
}

func press(m Model, msgs ...tea.KeyMsg) Model {
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = drain(updated.(Model))
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelRendersCatalog(t *testing.T) {
	_, m := newModelHarness(t)

	view := m.View()
	for _, want := range []string{"toolcat", "Tools (3)", "Cursor", "Copilot", "Aider"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q", want)
		}
	}
}

func TestModelCycleSortPersistsPrefs(t *testing.T) {
	h, m := newModelHarness(t)

	m = press(m, runes("s"))

	if m.st.Sort != catalog.SortName {
		t.Fatalf("sort = %s, want name", m.st.Sort)
	}
	if got := catalog.IDs(m.st.FilteredTools); strings.Join(got, ",") != "aider,copilot,cursor" {
		t.Fatalf("filtered = %v", got)
	}
	p, err := prefs.Load(h.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if p.Sort != "name" {
		t.Fatalf("saved sort = %q, want name", p.Sort)
	}
}

func TestModelSearch(t *testing.T) {
	_, m := newModelHarness(t)

	m = press(m, runes("/"))
	if !m.searching {
		t.Fatal("expected search mode")
	}
	m = press(m, runes("aid"), tea.KeyMsg{Type: tea.KeyEnter})

	if m.searching {
		t.Fatal("search mode should end on enter")
	}
	if got := catalog.IDs(m.st.FilteredTools); len(got) != 1 || got[0] != "aider" {
		t.Fatalf("filtered = %v, want [aider]", got)
	}
	if m.st.SearchQuery != "aid" {
		t.Fatalf("search query = %q", m.st.SearchQuery)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if len(m.st.FilteredTools) != 3 {
		t.Fatalf("esc should clear search, got %d tools", len(m.st.FilteredTools))
	}
}

func TestModelCycleTypeFilter(t *testing.T) {
	_, m := newModelHarness(t)

	m = press(m, runes("t"))
	if m.st.Filters.Type != "cli" {
		t.Fatalf("type filter = %q, want cli", m.st.Filters.Type)
	}
	if got := catalog.IDs(m.st.FilteredTools); len(got) != 1 || got[0] != "aider" {
		t.Fatalf("filtered = %v", got)
	}

	m = press(m, runes("X"))
	if m.st.Filters.Type != state.FilterAll || len(m.st.FilteredTools) != 3 {
		t.Fatalf("reset filters: type=%q tools=%d", m.st.Filters.Type, len(m.st.FilteredTools))
	}
}

func TestModelDetailsModalThroughBus(t *testing.T) {
	_, m := newModelHarness(t)

	m = press(m, runes("G"), tea.KeyMsg{Type: tea.KeyEnter})

	if !m.st.Modal.Open || m.st.Modal.Type != state.ModalDetails {
		t.Fatalf("modal = %+v, want open details", m.st.Modal)
	}
	if len(m.st.Modal.ToolIDs) != 1 || m.st.Modal.ToolIDs[0] != "aider" {
		t.Fatalf("modal ids = %v", m.st.Modal.ToolIDs)
	}
	if view := m.View(); !strings.Contains(view, "Terminal") && !strings.Contains(view, "Aider") {
		t.Fatalf("modal view missing tool:\n%s", view)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.st.Modal.Open {
		t.Fatal("esc should close the modal")
	}
}

func TestModelCompareSelectionThroughBus(t *testing.T) {
	h, m := newModelHarness(t)

	m = press(m, tea.KeyMsg{Type: tea.KeySpace}, runes("G"), tea.KeyMsg{Type: tea.KeySpace})
	if got := m.st.SelectedIDs(); len(got) != 2 {
		t.Fatalf("selected = %v, want two tools", got)
	}

	m = press(m, runes("m"))
	if !m.st.Modal.Open || m.st.Modal.Type != state.ModalCompare {
		t.Fatalf("modal = %+v, want compare", m.st.Modal)
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyEsc}, runes("c"))
	if !m.st.CompareMode || m.st.CurrentView != state.ViewCompare {
		t.Fatalf("compare mode = %v view = %s", m.st.CompareMode, m.st.CurrentView)
	}
	if view := m.View(); !strings.Contains(view, "Compare (2)") {
		t.Fatalf("compare view missing title:\n%s", view)
	}

	m = press(m, runes("x"))
	if h.store.GetState().SelectedTools.Cardinality() != 0 {
		t.Fatal("x should clear the selection")
	}
}

func TestModelWebsiteIntent(t *testing.T) {
	h, m := newModelHarness(t)

	m = press(m, runes("o"))
	if len(h.websites) != 1 || h.websites[0] != "" {
		t.Fatalf("websites = %v, want one empty url for cursor", h.websites)
	}
	if !strings.Contains(m.flash, "no website") {
		t.Fatalf("flash = %q", m.flash)
	}

	m = press(m, runes("G"), runes("o"))
	if len(h.websites) != 2 || h.websites[1] != "https://aider.example" {
		t.Fatalf("websites = %v", h.websites)
	}
}

func TestModelToggleViewAndTheme(t *testing.T) {
	h, m := newModelHarness(t)

	m = press(m, runes("v"))
	if m.st.CurrentView != state.ViewList {
		t.Fatalf("view = %s, want list", m.st.CurrentView)
	}
	if view := m.View(); !strings.Contains(view, "Details") {
		t.Fatal("list view should render the detail pane")
	}

	m = press(m, runes("T"))
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %s, want Kanagawa", m.theme.Name)
	}
	p, err := prefs.Load(h.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if p.Theme != "Kanagawa" || p.View != "list" {
		t.Fatalf("prefs = %+v", p)
	}
}

func TestModelHelpOverlay(t *testing.T) {
	_, m := newModelHarness(t)

	m = press(m, runes("?"))
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatal("help overlay not shown")
	}
	m = press(m, runes("j"))
	if m.showHelp {
		t.Fatal("any key should close help")
	}
}

func TestModelQuit(t *testing.T) {
	_, m := newModelHarness(t)

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should quit")
	}
}

func TestStateFeedKeepsNewest(t *testing.T) {
	store := state.NewStore(state.Options{})
	feed := newStateFeed(store)
	defer feed.close()

	store.SetState(state.Update{SearchQuery: state.Set("first")}, "test")
	store.SetState(state.Update{SearchQuery: state.Set("second")}, "test")

	msg := feed.wait()()
	if got := state.State(msg.(stateMsg)).SearchQuery; got != "second" {
		t.Fatalf("feed delivered %q, want second", got)
	}
	select {
	case <-feed.ch:
		t.Fatal("feed should hold a single state")
	default:
	}
}

func TestNextFilterValue(t *testing.T) {
	counts := map[string]int{"ide": 1, "cli": 2, "plugin": 1}
	cases := []struct {
		current string
		want    string
	}{
		{"", "cli"},
		{state.FilterAll, "cli"},
		{"cli", "ide"},
		{"ide", "plugin"},
		{"plugin", ""},
		{"unknown", ""},
	}
	for _, tc := range cases {
		if got := nextFilterValue(tc.current, counts); got != tc.want {
			t.Fatalf("nextFilterValue(%q) = %q, want %q", tc.current, got, tc.want)
		}
	}
	if got := nextFilterValue("", nil); got != "" {
		t.Fatalf("nextFilterValue with no values = %q", got)
	}
}
