package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/five82/toolcat/internal/catalog"
	"github.com/five82/toolcat/internal/events"
)

func testTool() catalog.Tool {
	return catalog.Tool{
		ID: "aider", Name: "Aider", Description: "Terminal pair programming",
		Type: "cli", Price: "free", Status: "beta", Rating: 4.1, Users: "500",
		Website: "https://aider.example",
	}
}

func TestNewCardValidatesTool(t *testing.T) {
	if _, err := NewCard(nil, CardOptions{}); !errors.Is(err, ErrMissingTool) {
		t.Fatalf("NewCard(nil) error = %v, want ErrMissingTool", err)
	}
	if _, err := NewCard(&catalog.Tool{Name: "x"}, CardOptions{}); !errors.Is(err, ErrMissingToolID) {
		t.Fatalf("NewCard(no id) error = %v, want ErrMissingToolID", err)
	}
}

func TestCardTrigger(t *testing.T) {
	tool := testTool()
	card, err := NewCard(&tool, CardOptions{Selected: true})
	if err != nil {
		t.Fatalf("NewCard: %v", err)
	}

	if got := card.Trigger(ActionViewDetails); got.Action != ActionViewDetails || got.Tool.ID != "aider" {
		t.Fatalf("details intent = %+v", got)
	}
	if got := card.Trigger(ActionVisitWebsite); got.URL != "https://aider.example" {
		t.Fatalf("website intent URL = %q", got.URL)
	}
	if got := card.Trigger(ActionToggleCompare); got.Selected {
		t.Fatalf("compare intent on a selected card should deselect, got %+v", got)
	}
	if got := card.Trigger(Action("bogus")); !got.IsZero() {
		t.Fatalf("unknown action intent = %+v, want zero", got)
	}
}

func TestCardDoesNotAliasTool(t *testing.T) {
	tool := testTool()
	tool.Features = []string{"git"}
	card, _ := NewCard(&tool, CardOptions{})
	tool.Features[0] = "changed"
	tool.Name = "changed"

	if got := card.Tool(); got.Name != "Aider" || got.Features[0] != "git" {
		t.Fatalf("card tool mutated through caller: %+v", got)
	}
}

func TestCardDestroyOnce(t *testing.T) {
	tool := testTool()
	card, _ := NewCard(&tool, CardOptions{})

	if got := card.Destroy(); got.Action != actionDestroyed {
		t.Fatalf("first Destroy = %+v", got)
	}
	if got := card.Destroy(); !got.IsZero() {
		t.Fatalf("second Destroy = %+v, want zero", got)
	}
	if got := card.Trigger(ActionViewDetails); !got.IsZero() {
		t.Fatalf("Trigger after Destroy = %+v, want zero", got)
	}
}

func TestIntentPublisherPublishesAndCallsBack(t *testing.T) {
	bus := events.NewBus(nil)
	var got []events.Event
	for _, topic := range []events.Topic{
		events.TopicDetailsClicked, events.TopicWebsiteClicked,
		events.TopicCompareToggled, events.TopicDestroyed,
	} {
		bus.Subscribe(topic, func(ev events.Event) { got = append(got, ev) })
	}

	var detailsCalled, compareSelected bool
	var websiteURL string
	tool := testTool()
	card, _ := NewCard(&tool, CardOptions{Callbacks: Callbacks{
		OnDetails: func(catalog.Tool) { detailsCalled = true },
		OnWebsite: func(_ catalog.Tool, url string) { websiteURL = url },
		OnCompare: func(_ catalog.Tool, selected bool) { compareSelected = selected },
	}})

	pub := NewIntentPublisher(bus)
	pub.Dispatch(card, ActionViewDetails)
	pub.Dispatch(card, ActionVisitWebsite)
	pub.Dispatch(card, ActionToggleCompare)
	pub.Release(card)
	pub.Release(card)

	if !detailsCalled || websiteURL != "https://aider.example" || !compareSelected {
		t.Fatalf("callbacks: details=%v website=%q compare=%v", detailsCalled, websiteURL, compareSelected)
	}
	if len(got) != 4 {
		t.Fatalf("published %d events, want 4", len(got))
	}
	wantTopics := []events.Topic{
		events.TopicDetailsClicked, events.TopicWebsiteClicked,
		events.TopicCompareToggled, events.TopicDestroyed,
	}
	for i, want := range wantTopics {
		if got[i].Topic != want || got[i].ToolID != "aider" {
			t.Fatalf("event %d = %s/%s, want %s/aider", i, got[i].Topic, got[i].ToolID, want)
		}
	}
	if p, ok := got[1].Payload.(events.WebsitePayload); !ok || p.URL != "https://aider.example" {
		t.Fatalf("website payload = %#v", got[1].Payload)
	}
	if p, ok := got[2].Payload.(events.ComparePayload); !ok || !p.Selected {
		t.Fatalf("compare payload = %#v", got[2].Payload)
	}
}

func TestIntentPublisherWithoutBus(t *testing.T) {
	tool := testTool()
	called := false
	card, _ := NewCard(&tool, CardOptions{Callbacks: Callbacks{
		OnDetails: func(catalog.Tool) { called = true },
	}})
	NewIntentPublisher(nil).Dispatch(card, ActionViewDetails)
	if !called {
		t.Fatal("callback not invoked without a bus")
	}
}

func TestCardRendering(t *testing.T) {
	tool := testTool()
	tool.Config = &catalog.ToolConfig{Featured: true}
	card, _ := NewCard(&tool, CardOptions{Width: 40, Selected: true})

	view := card.View()
	for _, want := range []string{"Aider", "★", "Cli", "Beta", "500 users"} {
		if !strings.Contains(view, want) {
			t.Fatalf("card view missing %q:\n%s", want, view)
		}
	}
	if row := card.Row(); !strings.Contains(row, "✓") || !strings.Contains(row, "4.1") {
		t.Fatalf("card row = %q", row)
	}
}
