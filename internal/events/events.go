// Package events is the shared notification channel between the tool
// service, the UI components and the application shell.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Topic names an event stream.
type Topic string

// Service lifecycle topics.
const (
	TopicInitialized Topic = "initialized"
	TopicReloaded    Topic = "reloaded"
	TopicError       Topic = "error"
)

// Component intent topics.
const (
	TopicDetailsClicked Topic = "detailsClicked"
	TopicWebsiteClicked Topic = "websiteClicked"
	TopicCompareToggled Topic = "compareToggled"
	TopicDestroyed      Topic = "destroyed"
)

// TopicCatalogChanged is published when the data provider's source changed.
const TopicCatalogChanged Topic = "catalog.changed"

// Event is a single notification.
type Event struct {
	ID      string
	Topic   Topic
	ToolID  string
	Payload any
	Time    time.Time
}

// New builds an event with a fresh id and timestamp.
func New(topic Topic, toolID string, payload any) Event {
	return Event{
		ID:      uuid.NewString(),
		Topic:   topic,
		ToolID:  toolID,
		Payload: payload,
		Time:    time.Now(),
	}
}

// InitializedPayload accompanies TopicInitialized.
type InitializedPayload struct {
	ToolCount int
}

// ErrorPayload accompanies TopicError.
type ErrorPayload struct {
	Message string
	Err     error
}

// WebsitePayload accompanies TopicWebsiteClicked.
type WebsitePayload struct {
	URL string
}

// ComparePayload accompanies TopicCompareToggled.
type ComparePayload struct {
	Selected bool
}
