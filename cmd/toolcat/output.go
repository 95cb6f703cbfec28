package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/five82/toolcat/internal/catalog"
	"github.com/five82/toolcat/internal/logging"
)

func writeJSON(w io.Writer, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printTools(w io.Writer, tools []catalog.Tool, jsonOutput bool) error {
	if jsonOutput {
		if tools == nil {
			tools = []catalog.Tool{}
		}
		return writeJSON(w, map[string]any{
			"count": len(tools),
			"tools": tools,
		})
	}
	if len(tools) == 0 {
		_, err := fmt.Fprintln(w, "no tools")
		return err
	}
	for _, tool := range tools {
		featured := " "
		if tool.Featured() {
			featured = "*"
		}
		fmt.Fprintf(w, "%s %-20s %-24s %-10s %-10s %.1f  %s\n",
			featured, tool.ID, tool.Name, tool.Type, tool.Price, tool.Rating, tool.Users)
	}
	return nil
}

func printTool(w io.Writer, tool catalog.Tool, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(w, tool)
	}
	fmt.Fprintf(w, "%s (%s)\n", tool.Name, tool.ID)
	if tool.Description != "" {
		fmt.Fprintf(w, "  %s\n", tool.Description)
	}
	rows := [][2]string{
		{"category", tool.Category},
		{"type", tool.Type},
		{"price", tool.Price},
		{"status", tool.Status},
		{"rating", fmt.Sprintf("%.1f", tool.Rating)},
		{"users", tool.Users},
		{"updated", tool.Updated},
		{"features", strings.Join(tool.Features, ", ")},
		{"languages", strings.Join(tool.SupportedLanguages, ", ")},
		{"platforms", strings.Join(tool.Platforms, ", ")},
		{"website", tool.Website},
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		fmt.Fprintf(w, "  %-10s %s\n", row[0], row[1])
	}
	return nil
}

func printStatistics(w io.Writer, stats catalog.Statistics, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(w, stats)
	}
	fmt.Fprintf(w, "tools=%d featured=%d avg_rating=%.1f\n", stats.TotalTools, stats.FeaturedTools, stats.AverageRating)
	sections := []struct {
		label  string
		counts map[string]int
	}{
		{"categories", stats.Categories},
		{"types", stats.Types},
		{"prices", stats.PriceModels},
		{"platforms", stats.Platforms},
		{"languages", stats.Languages},
	}
	for _, section := range sections {
		if len(section.counts) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s:\n", section.label)
		for _, key := range slices.Sorted(maps.Keys(section.counts)) {
			fmt.Fprintf(w, "  %-20s %d\n", key, section.counts[key])
		}
	}
	return nil
}

// printMetrics writes the registry in the Prometheus text exposition format.
func printMetrics(w io.Writer, registry *prometheus.Registry) error {
	families, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	encoder := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, family := range families {
		if err := encoder.Encode(family); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return nil
}

func printLogLines(w io.Writer, lines []string, jsonOutput bool) error {
	if jsonOutput {
		entries := make([]map[string]any, 0, len(lines))
		for _, line := range lines {
			entry, ok := logging.ParseEntry(line)
			if !ok {
				entries = append(entries, map[string]any{"raw": line})
				continue
			}
			entries = append(entries, map[string]any{
				"time":    entry.Time,
				"level":   entry.Level,
				"logger":  entry.Logger,
				"message": entry.Message,
				"fields":  entry.Fields,
			})
		}
		return writeJSON(w, entries)
	}
	for _, line := range lines {
		fmt.Fprintln(w, logging.Format(line))
	}
	return nil
}
