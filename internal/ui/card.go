package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/toolcat/internal/catalog"
	"github.com/five82/toolcat/internal/events"
)

var (
	// ErrMissingTool is returned by NewCard when no tool is given.
	ErrMissingTool = errors.New("card requires a tool")
	// ErrMissingToolID is returned by NewCard for a tool without an id.
	ErrMissingToolID = errors.New("card tool has no id")
)

// Action is a user interaction on a card.
type Action string

const (
	ActionViewDetails   Action = "details"
	ActionVisitWebsite  Action = "website"
	ActionToggleCompare Action = "compare"

	actionDestroyed Action = "destroyed"
)

// Callbacks are optional hooks run when a card intent is dispatched.
type Callbacks struct {
	OnDetails func(catalog.Tool)
	OnWebsite func(catalog.Tool, string)
	OnCompare func(catalog.Tool, bool)
}

// CardOptions control how a card renders.
type CardOptions struct {
	Theme       Theme
	Width       int
	Focused     bool
	Selected    bool
	CompareMode bool
	Callbacks   Callbacks
}

// Card renders a single tool and turns interactions into intents. It never
// touches shared state.
type Card struct {
	tool      catalog.Tool
	opts      CardOptions
	destroyed bool
}

// Intent describes what the user asked a card to do.
type Intent struct {
	Action   Action
	Tool     catalog.Tool
	URL      string
	Selected bool
}

// IsZero reports whether the intent carries no action.
func (i Intent) IsZero() bool {
	return i.Action == ""
}

// NewCard builds a card for tool.
func NewCard(tool *catalog.Tool, opts CardOptions) (*Card, error) {
	if tool == nil {
		return nil, ErrMissingTool
	}
	if strings.TrimSpace(tool.ID) == "" {
		return nil, ErrMissingToolID
	}
	if opts.Theme.Name == "" {
		opts.Theme = GetTheme("")
	}
	return &Card{tool: tool.Clone(), opts: opts}, nil
}

// Tool returns the card's tool.
func (c *Card) Tool() catalog.Tool {
	return c.tool
}

// Trigger maps action to an intent. Compare intents carry the selection
// state the toggle leads to. Unknown actions and destroyed cards yield the
// zero Intent.
func (c *Card) Trigger(action Action) Intent {
	if c.destroyed {
		return Intent{}
	}
	switch action {
	case ActionViewDetails:
		return Intent{Action: action, Tool: c.tool}
	case ActionVisitWebsite:
		return Intent{Action: action, Tool: c.tool, URL: strings.TrimSpace(c.tool.Website)}
	case ActionToggleCompare:
		return Intent{Action: action, Tool: c.tool, Selected: !c.opts.Selected}
	default:
		return Intent{}
	}
}

// Destroy retires the card. The first call returns the destroyed intent;
// later calls return the zero Intent.
func (c *Card) Destroy() Intent {
	if c.destroyed {
		return Intent{}
	}
	c.destroyed = true
	return Intent{Action: actionDestroyed, Tool: c.tool}
}

// View renders the card as a bordered tile.
func (c *Card) View() string {
	t := c.opts.Theme
	styles := t.Styles()
	width := max(c.opts.Width, 24)
	inner := width - 4

	bgColor := t.SurfaceAlt
	border := t.Border
	if c.opts.Focused {
		bgColor = t.FocusBg
		border = t.BorderFocus
	}
	bg := NewBgStyle(bgColor)

	marker := ""
	if c.opts.Selected {
		marker = "✓ "
	}
	featured := ""
	if c.tool.Featured() {
		featured = " ★"
	}
	title := bg.Render(truncate(marker+c.tool.Name, inner-2), styles.Text.Bold(true)) +
		bg.Render(featured, styles.WarningText)

	meta := bg.Join([]string{
		bg.Render(titleCase(c.tool.Type), styles.AccentText),
		bg.Render(titleCase(c.tool.Price), styles.MutedText),
		bg.Render(titleCase(c.tool.Status), lipgloss.NewStyle().Foreground(lipgloss.Color(t.StatusColor(c.tool.Status)))),
	}, " · ")

	stats := bg.Render(fmt.Sprintf("%s %.1f", ratingStars(c.tool.Rating), c.tool.Rating), styles.WarningText) +
		bg.Spaces(2) +
		bg.Render(formatUsers(c.tool.Users), styles.MutedText)

	desc := bg.Render(truncate(c.tool.Description, inner), styles.MutedText)

	body := strings.Join([]string{title, meta, desc, stats}, "\n")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Background(lipgloss.Color(bgColor)).
		Padding(0, 1).
		Width(width - 2).
		Render(body)
}

// Row renders the card as a single list line.
func (c *Card) Row() string {
	t := c.opts.Theme
	width := max(c.opts.Width, 20)
	bgColor := t.SurfaceAlt
	if c.opts.Focused {
		bgColor = t.SelectionBg
	}
	bg := NewBgStyle(bgColor)
	styles := t.Styles()

	nameStyle, metaStyle := styles.Text, styles.MutedText
	if c.opts.Focused {
		sel := lipgloss.NewStyle().Foreground(lipgloss.Color(t.SelectionText))
		nameStyle, metaStyle = sel.Bold(true), sel
	}

	marker := "  "
	if c.opts.Selected {
		marker = "✓ "
	} else if c.opts.CompareMode {
		marker = "· "
	}
	rating := fmt.Sprintf("%.1f", c.tool.Rating)
	nameWidth := max(width-len(rating)-len(c.tool.Type)-8, 8)

	line := bg.Render(marker, styles.SuccessText) +
		bg.Render(padRight(truncate(c.tool.Name, nameWidth), nameWidth), nameStyle) +
		bg.Space() +
		bg.Render(c.tool.Type, metaStyle) +
		bg.Space() +
		bg.Render(rating, metaStyle)
	return bg.FillLine(line, width)
}

// IntentPublisher runs intent callbacks and publishes the matching bus
// events.
type IntentPublisher struct {
	bus events.Publisher
}

// NewIntentPublisher returns a publisher writing to bus. A nil bus only runs
// callbacks.
func NewIntentPublisher(bus events.Publisher) *IntentPublisher {
	return &IntentPublisher{bus: bus}
}

// Dispatch triggers action on card and publishes the resulting intent.
func (p *IntentPublisher) Dispatch(card *Card, action Action) Intent {
	intent := card.Trigger(action)
	p.Publish(intent, card.opts.Callbacks)
	return intent
}

// Release destroys card and publishes the destroyed intent.
func (p *IntentPublisher) Release(card *Card) {
	p.Publish(card.Destroy(), Callbacks{})
}

// Publish invokes the callback for intent, then publishes it.
func (p *IntentPublisher) Publish(intent Intent, cb Callbacks) {
	if intent.IsZero() {
		return
	}

	var ev events.Event
	switch intent.Action {
	case ActionViewDetails:
		if cb.OnDetails != nil {
			cb.OnDetails(intent.Tool)
		}
		ev = events.New(events.TopicDetailsClicked, intent.Tool.ID, nil)
	case ActionVisitWebsite:
		if cb.OnWebsite != nil {
			cb.OnWebsite(intent.Tool, intent.URL)
		}
		ev = events.New(events.TopicWebsiteClicked, intent.Tool.ID, events.WebsitePayload{URL: intent.URL})
	case ActionToggleCompare:
		if cb.OnCompare != nil {
			cb.OnCompare(intent.Tool, intent.Selected)
		}
		ev = events.New(events.TopicCompareToggled, intent.Tool.ID, events.ComparePayload{Selected: intent.Selected})
	case actionDestroyed:
		ev = events.New(events.TopicDestroyed, intent.Tool.ID, nil)
	default:
		return
	}

	if p.bus != nil {
		p.bus.Publish(ev)
	}
}
