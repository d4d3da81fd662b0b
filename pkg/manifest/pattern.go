// SPDX-License-Identifier: MPL-2.0

package manifest

// MatchPattern is an opaque compiled URL-scoping expression supplied by the
// PatternEngine. The resolver only queries it; compilation and URL matching
// semantics live entirely in the engine.
type MatchPattern interface {
	// IsSupported reports whether this pattern can be honored at all
	// (e.g. the scheme is one the embedder handles).
	IsSupported() bool
	// MatchesURL reports whether the pattern applies to the given URL.
	MatchesURL(url string) bool
	// MatchesAllURLs reports whether the pattern is an all-URLs wildcard.
	MatchesAllURLs() bool
	// HostIsPublicSuffix reports whether the pattern's host is a bare
	// registrable public suffix (e.g. "*.com").
	HostIsPublicSuffix() bool
	// ExpandedStrings returns the normalized string forms of the pattern.
	ExpandedStrings() []string
	// String returns the canonical single string form. It doubles as the
	// set-membership key, so equal patterns must render identically.
	String() string
}

// PatternEngine compiles match-pattern strings. Parse returns an error for
// strings that are not match patterns at all; a successfully parsed pattern
// may still be unsupported (see MatchPattern.IsSupported).
type PatternEngine interface {
	Parse(pattern string) (MatchPattern, error)
}

// PatternSet is an insertion-ordered set of match patterns keyed by their
// canonical string form.
type PatternSet struct {
	order []MatchPattern
	seen  map[string]struct{}
}

// Add inserts a pattern unless an equal one is already present.
func (s *PatternSet) Add(pattern MatchPattern) {
	if pattern == nil {
		return
	}
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	key := pattern.String()
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}
	s.order = append(s.order, pattern)
}

// AddAll inserts every pattern from another set.
func (s *PatternSet) AddAll(other *PatternSet) {
	if other == nil {
		return
	}
	for _, p := range other.order {
		s.Add(p)
	}
}

// Contains reports whether an equal pattern is present.
func (s *PatternSet) Contains(pattern MatchPattern) bool {
	if pattern == nil || s.seen == nil {
		return false
	}
	_, ok := s.seen[pattern.String()]
	return ok
}

// ContainsString reports whether a pattern with the given canonical string
// form is present.
func (s *PatternSet) ContainsString(key string) bool {
	if s.seen == nil {
		return false
	}
	_, ok := s.seen[key]
	return ok
}

// Patterns returns the members in insertion order.
func (s *PatternSet) Patterns() []MatchPattern {
	out := make([]MatchPattern, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of distinct patterns.
func (s *PatternSet) Len() int { return len(s.order) }
