package instantiate

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// ignoreMatcher decides which entries are left out of the copy.
// Patterns are shell globs matched against a single basename.
type ignoreMatcher struct {
	patterns []string
}

func newIgnoreMatcher(patterns []string, logger zerolog.Logger) *ignoreMatcher {
	m := &ignoreMatcher{}
	for _, p := range patterns {
		normalized := normalizePattern(p)
		if _, err := filepath.Match(normalized, ""); err != nil {
			logger.Warn().Str("pattern", p).Err(err).Msg("Ignoring malformed ignore pattern")
			continue
		}
		m.patterns = append(m.patterns, normalized)
	}
	return m
}

// Match reports whether name matches any pattern
func (m *ignoreMatcher) Match(name string) bool {
	for _, p := range m.patterns {
		if matched, _ := filepath.Match(p, name); matched {
			return true
		}
	}
	return false
}

// normalizePattern accepts the "[!...]" negated class spelling used by
// shell globs alongside Go's "[^...]".
func normalizePattern(p string) string {
	return strings.ReplaceAll(p, "[!", "[^")
}
