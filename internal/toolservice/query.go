package toolservice

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/five82/toolcat/internal/catalog"
)

const keyAllTools = "all-tools"

// Search weights.
const (
	weightName     = 100
	weightDesc     = 50
	weightCategory = 25
	weightFeature  = 30
	weightLanguage = 20
	weightPlatform = 15
)

// Filters are the criteria accepted by FilterTools. Empty strings and the
// "all" sentinel leave the corresponding field unconstrained; values are
// not validated.
type Filters struct {
	Search    string   `json:"search,omitempty"`
	Type      string   `json:"type,omitempty"`
	Price     string   `json:"price,omitempty"`
	Category  string   `json:"category,omitempty"`
	Status    string   `json:"status,omitempty"`
	MinRating *float64 `json:"min_rating,omitempty"`
	Languages []string `json:"languages,omitempty"`
	Platforms []string `json:"platforms,omitempty"`
}

// normalized returns an equivalent Filters value with a canonical shape:
// sentinels cleared, search trimmed and lowercased, member lists sorted and
// deduplicated.
func (f Filters) normalized() Filters {
	out := Filters{
		Search:    strings.ToLower(strings.TrimSpace(f.Search)),
		Type:      exact(f.Type),
		Price:     exact(f.Price),
		Category:  exact(f.Category),
		Status:    strings.TrimSpace(f.Status),
		MinRating: f.MinRating,
		Languages: canonicalSet(f.Languages),
		Platforms: canonicalSet(f.Platforms),
	}
	return out
}

func exact(value string) string {
	if value == "all" {
		return ""
	}
	return value
}

func canonicalSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}

// cacheKey serializes normalized filters. Struct fields marshal in
// declaration order, so equal filters always share a key.
func (f Filters) cacheKey() string {
	data, err := json.Marshal(f.normalized())
	if err != nil {
		return ""
	}
	return "filter:" + string(data)
}

// FilterTools applies search, then type/price/category, status, minimum
// rating, languages (any) and platforms (any), in that order.
func (s *Service) FilterTools(filters Filters) []catalog.Tool {
	key := filters.cacheKey()
	return s.cached("filter", key, func() []catalog.Tool {
		f := filters.normalized()

		working := s.AllTools()
		if f.Search != "" {
			working = s.SearchTools(f.Search)
		}

		out := make([]catalog.Tool, 0, len(working))
		for _, tool := range working {
			if f.Type != "" && tool.Type != f.Type {
				continue
			}
			if f.Price != "" && tool.Price != f.Price {
				continue
			}
			if f.Category != "" && tool.Category != f.Category {
				continue
			}
			if f.Status != "" && tool.Status != f.Status {
				continue
			}
			if f.MinRating != nil && tool.Rating < *f.MinRating {
				continue
			}
			if len(f.Languages) > 0 && !containsAny(tool.SupportedLanguages, f.Languages) {
				continue
			}
			if len(f.Platforms) > 0 && !containsAny(tool.Platforms, f.Platforms) {
				continue
			}
			out = append(out, tool)
		}
		return out
	})
}

func containsAny(have, want []string) bool {
	for _, w := range want {
		if slices.Contains(have, w) {
			return true
		}
	}
	return false
}

type scored struct {
	tool  catalog.Tool
	score int
}

// SearchTools scores every tool against query, case-insensitively, and
// returns the matches by descending score. Ties keep catalog order. A blank
// query returns the whole catalog.
func (s *Service) SearchTools(query string) []catalog.Tool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.AllTools()
	}
	return s.cached("search", "search:"+q, func() []catalog.Tool {
		var hits []scored
		for _, tool := range s.AllTools() {
			if score := scoreTool(tool, q); score > 0 {
				hits = append(hits, scored{tool: tool, score: score})
			}
		}
		slices.SortStableFunc(hits, func(a, b scored) int {
			return b.score - a.score
		})
		out := make([]catalog.Tool, len(hits))
		for i, hit := range hits {
			out[i] = hit.tool
		}
		return out
	})
}

func scoreTool(tool catalog.Tool, q string) int {
	score := 0
	if matches(tool.Name, q) {
		score += weightName
	}
	if matches(tool.Description, q) {
		score += weightDesc
	}
	if matches(tool.Category, q) {
		score += weightCategory
	}
	score += weightFeature * countMatches(tool.Features, q)
	score += weightLanguage * countMatches(tool.SupportedLanguages, q)
	score += weightPlatform * countMatches(tool.Platforms, q)
	return score
}

func matches(field, q string) bool {
	return strings.Contains(strings.ToLower(field), q)
}

func countMatches(values []string, q string) int {
	n := 0
	for _, v := range values {
		if matches(v, q) {
			n++
		}
	}
	return n
}

// FeaturedTools returns featured tools by ascending priority, at most limit
// of them. A non-positive limit returns them all.
func (s *Service) FeaturedTools(limit int) []catalog.Tool {
	return s.cached("featured", "featured:"+strconv.Itoa(limit), func() []catalog.Tool {
		var featured []catalog.Tool
		for _, tool := range s.AllTools() {
			if tool.Featured() {
				featured = append(featured, tool)
			}
		}
		featured = catalog.Sort(featured, catalog.SortPopularity)
		if limit > 0 && len(featured) > limit {
			featured = featured[:limit]
		}
		return featured
	})
}

// cached returns the entry under key, computing and storing it on a miss.
// A result is dropped instead of stored when the catalog was committed or
// the cache cleared while it was being computed. Hits return the stored
// slice itself; callers must not modify it.
func (s *Service) cached(op, key string, compute func() []catalog.Tool) []catalog.Tool {
	if tools, ok := s.cache.get(key); ok {
		s.metrics.cacheHit(op)
		return tools
	}
	s.metrics.cacheMiss(op)
	gen := s.cache.gen()
	tools := compute()
	if tools == nil {
		tools = []catalog.Tool{}
	}
	if !s.cache.setIn(gen, key, tools) {
		s.logger.Debug("catalog changed during compute; result not cached", zap.String("key", key))
	}
	return tools
}
