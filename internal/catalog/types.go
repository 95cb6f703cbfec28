package catalog

import (
	"slices"
	"strings"
	"time"
)

const catalogDateLayout = "2006-01-02"

// DefaultPriority is used for tools without an explicit _config.priority.
const DefaultPriority = 999

// Tool describes a cataloged developer tool. Values are treated as immutable
// once loaded; use Clone when an independent copy is needed.
type Tool struct {
	ID                 string      `json:"id" yaml:"id"`
	Name               string      `json:"name" yaml:"name"`
	Description        string      `json:"description" yaml:"description"`
	Category           string      `json:"category" yaml:"category"`
	Type               string      `json:"type" yaml:"type"`
	Price              string      `json:"price" yaml:"price"`
	Status             string      `json:"status" yaml:"status"`
	Rating             float64     `json:"rating" yaml:"rating"`
	Users              string      `json:"users" yaml:"users"`
	Updated            string      `json:"updated" yaml:"updated"`
	Features           []string    `json:"features" yaml:"features"`
	SupportedLanguages []string    `json:"supported_languages" yaml:"supported_languages"`
	Platforms          []string    `json:"platforms" yaml:"platforms"`
	Website            string      `json:"website" yaml:"website"`
	Config             *ToolConfig `json:"_config,omitempty" yaml:"_config,omitempty"`
}

// ToolConfig carries catalog curation hints.
type ToolConfig struct {
	Featured bool `json:"featured" yaml:"featured"`
	Priority *int `json:"priority,omitempty" yaml:"priority,omitempty"`
}

// Featured reports whether the tool is marked as featured.
func (t Tool) Featured() bool {
	return t.Config != nil && t.Config.Featured
}

// Priority returns the curation priority, or DefaultPriority when unset.
func (t Tool) Priority() int {
	if t.Config == nil || t.Config.Priority == nil {
		return DefaultPriority
	}
	return *t.Config.Priority
}

// UpdatedAt returns the parsed Updated timestamp, zero when unparseable.
func (t Tool) UpdatedAt() time.Time {
	return parseTime(t.Updated)
}

// UserCount returns the parsed Users magnitude.
func (t Tool) UserCount() float64 {
	return ParseUsers(t.Users)
}

// Clone returns a deep copy of the tool.
func (t Tool) Clone() Tool {
	dup := t
	dup.Features = slices.Clone(t.Features)
	dup.SupportedLanguages = slices.Clone(t.SupportedLanguages)
	dup.Platforms = slices.Clone(t.Platforms)
	if t.Config != nil {
		cfg := *t.Config
		if t.Config.Priority != nil {
			p := *t.Config.Priority
			cfg.Priority = &p
		}
		dup.Config = &cfg
	}
	return dup
}

// CloneTools deep-copies a tool slice. A nil input yields an empty, non-nil slice.
func CloneTools(tools []Tool) []Tool {
	dup := make([]Tool, len(tools))
	for i, tool := range tools {
		dup[i] = tool.Clone()
	}
	return dup
}

// IDs returns the ids of tools in order.
func IDs(tools []Tool) []string {
	ids := make([]string, len(tools))
	for i, tool := range tools {
		ids[i] = tool.ID
	}
	return ids
}

// Find returns the tool with the given id.
func Find(tools []Tool, id string) (Tool, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Tool{}, false
	}
	for _, tool := range tools {
		if tool.ID == id {
			return tool, true
		}
	}
	return Tool{}, false
}

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, catalogDateLayout} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
