package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/five82/toolcat/internal/catalog"
)

// Format is a catalog document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// document is the wrapped catalog form: {"tools": [...]}.
type document struct {
	Tools []catalog.Tool `json:"tools" yaml:"tools"`
}

// FormatForPath infers the encoding from a file extension. Unknown
// extensions are read as YAML, which also accepts JSON.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Decode parses a catalog document. Both the wrapped form and a bare list of
// tools are accepted.
func Decode(data []byte, format Format) ([]catalog.Tool, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []catalog.Tool{}, nil
	}

	var tools []catalog.Tool
	switch format {
	case FormatJSON:
		if trimmed[0] == '[' {
			if err := json.Unmarshal(trimmed, &tools); err != nil {
				return nil, fmt.Errorf("decode catalog json: %w", err)
			}
			break
		}
		var doc document
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("decode catalog json: %w", err)
		}
		tools = doc.Tools
	default:
		var node yaml.Node
		if err := yaml.Unmarshal(trimmed, &node); err != nil {
			return nil, fmt.Errorf("decode catalog yaml: %w", err)
		}
		if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
			if err := node.Content[0].Decode(&tools); err != nil {
				return nil, fmt.Errorf("decode catalog yaml: %w", err)
			}
			break
		}
		var doc document
		if err := node.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode catalog yaml: %w", err)
		}
		tools = doc.Tools
	}

	if err := validate(tools); err != nil {
		return nil, err
	}
	if tools == nil {
		tools = []catalog.Tool{}
	}
	return tools, nil
}

func validate(tools []catalog.Tool) error {
	seen := make(map[string]struct{}, len(tools))
	for i, tool := range tools {
		id := strings.TrimSpace(tool.ID)
		if id == "" {
			return fmt.Errorf("tool %d (%q): id is required", i, tool.Name)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("tool %d: duplicate id %q", i, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
