// SPDX-License-Identifier: MPL-2.0

package manifesttest

import (
	"fmt"
	"strings"

	"webextc/pkg/manifest"
)

// AllURLsPattern is the wildcard string the fake engine treats as matching
// every URL.
const AllURLsPattern = "<all_urls>"

// fakeSupportedSchemes are the schemes the fake engine reports as supported.
var fakeSupportedSchemes = map[string]bool{"*": true, "http": true, "https": true}

// publicSuffixHosts are hosts the fake engine reports as bare public
// suffixes.
var publicSuffixHosts = map[string]bool{"com": true, "org": true, "net": true}

// Pattern is a fake manifest.MatchPattern backed by a parsed
// scheme://host/path string.
type Pattern struct {
	raw    string
	scheme string
	host   string
	path   string
}

// Engine is a fake manifest.PatternEngine. The zero value is ready to use.
type Engine struct{}

// Parse compiles scheme://host/path strings and the AllURLsPattern wildcard.
// Anything else fails with an error, like capability-permission names do.
func (Engine) Parse(pattern string) (manifest.MatchPattern, error) {
	if pattern == AllURLsPattern {
		return &Pattern{raw: pattern, scheme: "*", host: "*", path: "/*"}, nil
	}
	scheme, rest, ok := strings.Cut(pattern, "://")
	if !ok {
		return nil, fmt.Errorf("%q is not a match pattern", pattern)
	}
	host, path, ok := strings.Cut(rest, "/")
	if !ok || host == "" {
		return nil, fmt.Errorf("%q is missing a host or path", pattern)
	}
	return &Pattern{raw: pattern, scheme: scheme, host: host, path: "/" + path}, nil
}

// IsSupported reports whether the scheme is one the fake handles.
func (p *Pattern) IsSupported() bool { return fakeSupportedSchemes[p.scheme] }

// MatchesURL does simple literal/wildcard comparison on scheme and host.
func (p *Pattern) MatchesURL(url string) bool {
	if p.MatchesAllURLs() {
		return true
	}
	scheme, rest, ok := strings.Cut(url, "://")
	if !ok {
		return false
	}
	if p.scheme != "*" && p.scheme != scheme {
		return false
	}
	host, _, _ := strings.Cut(rest, "/")
	if suffix, ok := strings.CutPrefix(p.host, "*."); ok {
		return host == suffix || strings.HasSuffix(host, "."+suffix)
	}
	return p.host == "*" || p.host == host
}

// MatchesAllURLs reports whether the pattern is the all-URLs wildcard.
func (p *Pattern) MatchesAllURLs() bool {
	return p.raw == AllURLsPattern || (p.scheme == "*" && p.host == "*")
}

// HostIsPublicSuffix reports whether the host names a bare public suffix.
func (p *Pattern) HostIsPublicSuffix() bool {
	host := strings.TrimPrefix(p.host, "*.")
	return publicSuffixHosts[host]
}

// ExpandedStrings returns the canonical forms of the pattern.
func (p *Pattern) ExpandedStrings() []string { return []string{p.String()} }

// String returns the canonical (and set-membership) form.
func (p *Pattern) String() string {
	if p.raw == AllURLsPattern {
		return AllURLsPattern
	}
	return p.scheme + "://" + p.host + p.path
}
