package service

import "strings"

// matchRules are tried in order; within a rule, the first candidate in upstream order wins.
var matchRules = []func(candidate, search string) bool{ //nolint:gochecknoglobals
	func(c, s string) bool { return c == s },
	func(c, s string) bool { return strings.HasPrefix(c, s) || strings.HasPrefix(s, c) },
	func(c, s string) bool { return strings.Contains(c, s) || strings.Contains(s, c) },
}

// matchPositionKey returns the index of the candidate key matching search, or -1.
// Comparison is case-insensitive and ignores surrounding whitespace. Empty keys never match.
func matchPositionKey(candidates []string, search string) int {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return -1
	}
	normalized := make([]string, len(candidates))
	for i, c := range candidates {
		normalized[i] = strings.ToLower(strings.TrimSpace(c))
	}

	for _, rule := range matchRules {
		for i, c := range normalized {
			if c != "" && rule(c, search) {
				return i
			}
		}
	}
	return -1
}
