package helpers

import (
	"regexp"
	"strings"
)

var nameYearPattern = regexp.MustCompile(`^(.*?)\s*\(([^()]+)\)\s*$`)

// SplitNameYear splits a label like "Executive Board (2024-2025)" into its
// name and parenthesised year. Labels without a trailing group return an empty year.
func SplitNameYear(label string) (name, year string) {
	label = strings.TrimSpace(label)
	m := nameYearPattern.FindStringSubmatch(label)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return label, ""
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
}
