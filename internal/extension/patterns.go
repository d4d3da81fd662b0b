// SPDX-License-Identifier: MPL-2.0

package extension

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	"webextc/pkg/manifest"
)

// AllURLsPattern is the wildcard that scopes a pattern to every URL.
const AllURLsPattern = "<all_urls>"

// validSchemes are the schemes the match-pattern grammar accepts. A scheme
// can be valid yet unsupported: ftp patterns parse but are never honored.
var validSchemes = map[string]bool{
	"*":     true,
	"http":  true,
	"https": true,
	"ws":    true,
	"wss":   true,
	"ftp":   true,
	"file":  true,
}

// Engine compiles match-pattern strings. It implements
// manifest.PatternEngine.
type Engine struct{}

// Parse implements manifest.PatternEngine.
func (Engine) Parse(s string) (manifest.MatchPattern, error) {
	if s == AllURLsPattern {
		return &matchPattern{allURLs: true}, nil
	}

	scheme, rest, ok := strings.Cut(s, "://")
	if !ok {
		return nil, fmt.Errorf("pattern %q has no scheme separator", s)
	}
	scheme = strings.ToLower(scheme)
	if !validSchemes[scheme] {
		return nil, fmt.Errorf("pattern %q has unknown scheme %q", s, scheme)
	}

	host, path, ok := strings.Cut(rest, "/")
	if !ok {
		return nil, fmt.Errorf("pattern %q has no path component", s)
	}
	path = "/" + path

	host = strings.ToLower(host)
	if err := validateHost(scheme, host); err != nil {
		return nil, fmt.Errorf("pattern %q: %w", s, err)
	}

	return &matchPattern{scheme: scheme, host: host, path: path}, nil
}

func validateHost(scheme, host string) error {
	if host == "" {
		if scheme == "file" {
			return nil
		}
		return fmt.Errorf("host is empty")
	}
	if strings.Contains(host, ":") {
		return fmt.Errorf("host %q must not include a port", host)
	}
	if host == "*" {
		return nil
	}
	remainder := strings.TrimPrefix(host, "*.")
	if remainder == "" || strings.Contains(remainder, "*") {
		return fmt.Errorf("host %q has a wildcard outside the leading component", host)
	}
	return nil
}

// matchPattern is a compiled match pattern. It implements
// manifest.MatchPattern.
type matchPattern struct {
	allURLs bool

	scheme string
	host   string
	path   string
}

// IsSupported implements manifest.MatchPattern. ftp patterns parse for
// compatibility but no ftp content is ever served.
func (p *matchPattern) IsSupported() bool {
	return p.allURLs || p.scheme != "ftp"
}

// MatchesAllURLs implements manifest.MatchPattern.
func (p *matchPattern) MatchesAllURLs() bool {
	return p.allURLs || (p.scheme == "*" && p.host == "*" && p.path == "/*")
}

// HostIsPublicSuffix implements manifest.MatchPattern: true when the
// wildcard host's fixed part is a bare registrable suffix like "*.com",
// which would scope the pattern to effectively every site.
func (p *matchPattern) HostIsPublicSuffix() bool {
	if p.allURLs || !strings.HasPrefix(p.host, "*.") {
		return false
	}
	suffix := strings.TrimPrefix(p.host, "*.")
	ps, icann := publicsuffix.PublicSuffix(suffix)
	return icann && ps == suffix
}

// ExpandedStrings implements manifest.MatchPattern. A "*" scheme expands to
// its concrete http and https forms.
func (p *matchPattern) ExpandedStrings() []string {
	if p.allURLs {
		return []string{AllURLsPattern}
	}
	if p.scheme == "*" {
		return []string{
			"http://" + p.host + p.path,
			"https://" + p.host + p.path,
		}
	}
	return []string{p.String()}
}

// String implements manifest.MatchPattern.
func (p *matchPattern) String() string {
	if p.allURLs {
		return AllURLsPattern
	}
	return p.scheme + "://" + p.host + p.path
}

// MatchesURL implements manifest.MatchPattern.
func (p *matchPattern) MatchesURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)

	if p.allURLs {
		return validSchemes[scheme] && scheme != "*"
	}
	if !p.schemeMatches(scheme) {
		return false
	}
	if !p.hostMatches(strings.ToLower(u.Hostname())) {
		return false
	}
	urlPath := u.Path
	if urlPath == "" {
		urlPath = "/"
	}
	return globMatch(p.path, urlPath)
}

func (p *matchPattern) schemeMatches(scheme string) bool {
	if p.scheme == "*" {
		return scheme == "http" || scheme == "https"
	}
	return scheme == p.scheme
}

func (p *matchPattern) hostMatches(host string) bool {
	switch {
	case p.host == "*":
		return true
	case strings.HasPrefix(p.host, "*."):
		base := strings.TrimPrefix(p.host, "*.")
		return host == base || strings.HasSuffix(host, "."+base)
	default:
		return host == p.host
	}
}

// globMatch reports whether s matches pattern, where "*" matches any
// (possibly empty) substring. Iterative with single-star backtracking.
func globMatch(pattern, s string) bool {
	pi, si := 0, 0
	star, mark := -1, 0
	for si < len(s) {
		switch {
		case pi < len(pattern) && pattern[pi] == '*':
			star, mark = pi, si
			pi++
		case pi < len(pattern) && pattern[pi] == s[si]:
			pi++
			si++
		case star >= 0:
			mark++
			pi, si = star+1, mark
		default:
			return false
		}
	}
	for pi < len(pattern) && pattern[pi] == '*' {
		pi++
	}
	return pi == len(pattern)
}
