package catalog

import (
	"testing"
	"time"
)

func TestCalculateStatistics(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tools := []Tool{
		{ID: "a", Category: "editor", Type: "ide", Price: "free", Rating: 4.5, Platforms: []string{"mac", "linux"}, SupportedLanguages: []string{"go"}, Config: &ToolConfig{Featured: true}},
		{ID: "b", Category: "agent", Type: "cli", Price: "paid", Rating: 3.0, Platforms: []string{"linux"}},
		{ID: "c", Category: "editor", Type: "ide", Price: "free", Rating: 5.0, SupportedLanguages: []string{"go", "python"}},
	}

	stats := CalculateStatistics(tools, now)
	if stats.TotalTools != 3 {
		t.Fatalf("TotalTools = %d, want 3", stats.TotalTools)
	}
	if stats.AverageRating != 4.2 {
		t.Fatalf("AverageRating = %v, want 4.2", stats.AverageRating)
	}
	if stats.FeaturedTools != 1 {
		t.Fatalf("FeaturedTools = %d, want 1", stats.FeaturedTools)
	}
	if stats.Categories["editor"] != 2 || stats.Categories["agent"] != 1 {
		t.Fatalf("Categories = %v", stats.Categories)
	}
	if stats.Platforms["linux"] != 2 || stats.Platforms["mac"] != 1 {
		t.Fatalf("Platforms = %v", stats.Platforms)
	}
	if stats.Languages["go"] != 2 || stats.Languages["python"] != 1 {
		t.Fatalf("Languages = %v", stats.Languages)
	}
	if stats.PriceModels["free"] != 2 || stats.Types["cli"] != 1 {
		t.Fatalf("PriceModels = %v Types = %v", stats.PriceModels, stats.Types)
	}
	if !stats.LastUpdated.Equal(now) {
		t.Fatalf("LastUpdated = %v, want %v", stats.LastUpdated, now)
	}
}

func TestCalculateStatistics_Empty(t *testing.T) {
	stats := CalculateStatistics(nil, time.Now())
	if stats.TotalTools != 0 || stats.AverageRating != 0 {
		t.Fatalf("stats = %#v, want zero totals", stats)
	}
	if stats.Categories == nil {
		t.Fatal("Categories should be non-nil")
	}
}

func TestToolClone_Independent(t *testing.T) {
	orig := Tool{ID: "a", Features: []string{"x"}, Config: &ToolConfig{Priority: intPtr(2)}}
	dup := orig.Clone()
	dup.Features[0] = "y"
	*dup.Config.Priority = 9
	if orig.Features[0] != "x" || *orig.Config.Priority != 2 {
		t.Fatalf("Clone shares memory with original: %#v", orig)
	}
	if orig.Priority() != 2 || (Tool{}).Priority() != DefaultPriority {
		t.Fatalf("Priority defaults wrong")
	}
}
