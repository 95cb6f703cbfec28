package catalog

import (
	"maps"
	"math"
	"time"
)

// Statistics aggregates the catalog. It is always computed from scratch.
type Statistics struct {
	TotalTools    int            `json:"totalTools"`
	FeaturedTools int            `json:"featuredTools"`
	Categories    map[string]int `json:"categories"`
	Types         map[string]int `json:"types"`
	PriceModels   map[string]int `json:"priceModels"`
	Platforms     map[string]int `json:"platforms"`
	Languages     map[string]int `json:"languages"`
	AverageRating float64        `json:"averageRating"`
	LastUpdated   time.Time      `json:"lastUpdated"`
}

// EmptyStatistics returns zero statistics with initialized maps.
func EmptyStatistics() Statistics {
	return Statistics{
		Categories:  map[string]int{},
		Types:       map[string]int{},
		PriceModels: map[string]int{},
		Platforms:   map[string]int{},
		Languages:   map[string]int{},
	}
}

// Clone returns a deep copy.
func (s Statistics) Clone() Statistics {
	dup := s
	dup.Categories = cloneCounts(s.Categories)
	dup.Types = cloneCounts(s.Types)
	dup.PriceModels = cloneCounts(s.PriceModels)
	dup.Platforms = cloneCounts(s.Platforms)
	dup.Languages = cloneCounts(s.Languages)
	return dup
}

// CalculateStatistics counts every tool and every member of its multi-valued
// fields. AverageRating is rounded to one decimal place.
func CalculateStatistics(tools []Tool, now time.Time) Statistics {
	stats := EmptyStatistics()
	stats.TotalTools = len(tools)
	stats.LastUpdated = now

	var ratingSum float64
	for _, tool := range tools {
		if tool.Featured() {
			stats.FeaturedTools++
		}
		stats.Categories[tool.Category]++
		stats.Types[tool.Type]++
		stats.PriceModels[tool.Price]++
		for _, platform := range tool.Platforms {
			stats.Platforms[platform]++
		}
		for _, lang := range tool.SupportedLanguages {
			stats.Languages[lang]++
		}
		ratingSum += tool.Rating
	}

	if len(tools) > 0 {
		stats.AverageRating = math.Round(ratingSum/float64(len(tools))*10) / 10
	}
	return stats
}

func cloneCounts(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return maps.Clone(m)
}
