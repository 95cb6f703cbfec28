// Package ui provides the terminal user interface for toolcat.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model never mutates application state
// directly: it renders from the state.State values the store pushes through a
// subscription channel, and it turns key presses into calls on the tool
// service or into card intents.
//
// # Package Structure
//
//   - model.go: Model, options, the store feed and the Run entry point
//   - card.go: Card rendering, intents and the IntentPublisher bus adapter
//   - catalog.go: grid and list views with the detail pane
//   - compare.go: side by side comparison of selected tools
//   - modal.go: details and compare modals
//   - logview.go: the application log viewer
//   - header.go, help.go, search.go: chrome, help overlay and search input
//   - theme.go, box.go, strings.go: colors and rendering helpers
//
// # Card Intents
//
// A Card maps enter, o and space to ActionViewDetails, ActionVisitWebsite
// and ActionToggleCompare. Card.Trigger returns an Intent value; the
// IntentPublisher runs optional callbacks and publishes the matching
// events.Topic. The application shell subscribes to those topics and
// performs the side effects, such as opening a modal or toggling the
// comparison selection.
//
// # Themes
//
// Nightfox, Kanagawa and Slate are built in. T cycles them and the choice is
// persisted through the prefs package.
package ui
