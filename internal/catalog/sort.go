package catalog

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the ordering applied by Sort.
type SortKey string

const (
	SortPopularity SortKey = "popularity"
	SortName       SortKey = "name"
	SortRating     SortKey = "rating"
	SortUsers      SortKey = "users"
	SortUpdated    SortKey = "updated"
)

// SortKeys lists the supported keys in UI cycling order.
func SortKeys() []SortKey {
	return []SortKey{SortPopularity, SortName, SortRating, SortUsers, SortUpdated}
}

// NextSortKey returns the key after current, wrapping around.
func NextSortKey(current SortKey) SortKey {
	keys := SortKeys()
	idx := slices.Index(keys, current)
	return keys[(idx+1)%len(keys)]
}

// ParseSortKey maps a user supplied string to a key, defaulting to popularity.
func ParseSortKey(value string) SortKey {
	key := SortKey(strings.ToLower(strings.TrimSpace(value)))
	if slices.Contains(SortKeys(), key) {
		return key
	}
	return SortPopularity
}

// Sort returns a newly ordered copy of tools. The input is never mutated.
// Equal elements keep their catalog order.
func Sort(tools []Tool, key SortKey) []Tool {
	sorted := slices.Clone(tools)
	if sorted == nil {
		sorted = []Tool{}
	}

	switch key {
	case SortName:
		col := collate.New(language.English, collate.IgnoreCase)
		slices.SortStableFunc(sorted, func(a, b Tool) int {
			return col.CompareString(a.Name, b.Name)
		})
	case SortRating:
		slices.SortStableFunc(sorted, func(a, b Tool) int {
			return cmp.Compare(b.Rating, a.Rating)
		})
	case SortUsers:
		slices.SortStableFunc(sorted, func(a, b Tool) int {
			return cmp.Compare(b.UserCount(), a.UserCount())
		})
	case SortUpdated:
		slices.SortStableFunc(sorted, func(a, b Tool) int {
			return b.UpdatedAt().Compare(a.UpdatedAt())
		})
	default:
		slices.SortStableFunc(sorted, func(a, b Tool) int {
			return cmp.Compare(a.Priority(), b.Priority())
		})
	}
	return sorted
}
