package ui

import (
	"fmt"
	"strings"

	"github.com/five82/toolcat/internal/catalog"
)

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// truncateMiddle keeps both ends of value, which suits paths and URLs.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || value == "" {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	keep := limit - 1
	prefix := keep / 2
	suffix := keep - prefix
	return string(runes[:prefix]) + "…" + string(runes[len(runes)-suffix:])
}

// titleCase converts a snake_case, kebab-case or lowercase string to Title Case.
func titleCase(s string) string {
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}

// padRight pads a string with spaces to the given width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(r))
}

// ratingStars renders a 0-5 rating as five stars, rounding to the nearest star.
func ratingStars(rating float64) string {
	full := int(rating + 0.5)
	full = min(max(full, 0), 5)
	return strings.Repeat("★", full) + strings.Repeat("☆", 5-full)
}

// formatUsers normalizes a users string for display, e.g. "3m" as "3.0M users".
func formatUsers(users string) string {
	n := catalog.ParseUsers(users)
	switch {
	case n <= 0:
		return "n/a"
	case n >= 1e9:
		return fmt.Sprintf("%.1fB users", n/1e9)
	case n >= 1e6:
		return fmt.Sprintf("%.1fM users", n/1e6)
	case n >= 1e3:
		return fmt.Sprintf("%.1fK users", n/1e3)
	default:
		return fmt.Sprintf("%.0f users", n)
	}
}

// joinOrDash joins values or returns "-" for an empty list.
func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}
