package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

var usersPattern = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s*([kmb千万亿])?`)

var userMultipliers = map[string]float64{
	"k": 1e3,
	"m": 1e6,
	"b": 1e9,
	"千": 1e3,
	"万": 1e4,
	"亿": 1e8,
}

// ParseUsers converts a human readable magnitude such as "1.2k", "3M" or
// "5万" into a number. Unparseable input yields 0.
func ParseUsers(value string) float64 {
	match := usersPattern.FindStringSubmatch(strings.ToLower(value))
	if match == nil {
		return 0
	}
	n, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0
	}
	if mult, ok := userMultipliers[match[2]]; ok {
		return n * mult
	}
	return n
}
