// SPDX-License-Identifier: MPL-2.0

package extension

import (
	"testing"
)

func TestEngineParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		wantErr bool
	}{
		{"all urls", "<all_urls>", false},
		{"https host path", "https://example.com/*", false},
		{"wildcard scheme", "*://example.com/*", false},
		{"wildcard subdomain", "https://*.example.com/path/*", false},
		{"wildcard host", "http://*/", false},
		{"file empty host", "file:///etc/*", false},
		{"websocket", "wss://chat.example.com/*", false},
		{"ftp parses", "ftp://files.example.com/*", false},
		{"no scheme separator", "example.com/*", true},
		{"unknown scheme", "gopher://example.com/*", true},
		{"missing path", "https://example.com", true},
		{"empty host", "https:///*", true},
		{"port in host", "https://example.com:8080/*", true},
		{"wildcard mid-host", "https://ex*mple.com/*", true},
		{"bare star-dot host", "https://*./*", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Engine{}.Parse(tt.pattern)
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse(%q) error = %v, wantErr %v", tt.pattern, err, tt.wantErr)
			}
		})
	}
}

func TestPatternMatchesURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		url     string
		want    bool
	}{
		{"<all_urls>", "https://anything.example/", true},
		{"<all_urls>", "file:///etc/hosts", true},
		{"https://example.com/*", "https://example.com/page", true},
		{"https://example.com/*", "http://example.com/page", false},
		{"https://example.com/*", "https://other.com/page", false},
		{"*://example.com/*", "http://example.com/", true},
		{"*://example.com/*", "https://example.com/", true},
		{"*://example.com/*", "wss://example.com/", false},
		{"https://*.example.com/*", "https://sub.example.com/a", true},
		{"https://*.example.com/*", "https://example.com/a", true},
		{"https://*.example.com/*", "https://notexample.com/a", false},
		{"https://example.com/exact", "https://example.com/exact", true},
		{"https://example.com/exact", "https://example.com/exact/more", false},
		{"https://example.com/a/*/c", "https://example.com/a/b/c", true},
		{"https://example.com/a/*/c", "https://example.com/a/c", false},
		{"https://example.com/*", "https://example.com", true},
		{"https://EXAMPLE.com/*", "https://example.COM/x", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" vs "+tt.url, func(t *testing.T) {
			t.Parallel()
			p, err := Engine{}.Parse(tt.pattern)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.pattern, err)
			}
			if got := p.MatchesURL(tt.url); got != tt.want {
				t.Errorf("MatchesURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestPatternMatchesAllURLs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		want    bool
	}{
		{"<all_urls>", true},
		{"*://*/*", true},
		{"https://*/*", false},
		{"*://*/path", false},
		{"*://example.com/*", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			t.Parallel()
			p, err := Engine{}.Parse(tt.pattern)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.pattern, err)
			}
			if got := p.MatchesAllURLs(); got != tt.want {
				t.Errorf("MatchesAllURLs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPatternHostIsPublicSuffix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		want    bool
	}{
		{"https://*.com/*", true},
		{"https://*.co.uk/*", true},
		{"https://*.example.com/*", false},
		{"https://example.com/*", false},
		{"http://*/", false},
		{"<all_urls>", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			t.Parallel()
			p, err := Engine{}.Parse(tt.pattern)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.pattern, err)
			}
			if got := p.HostIsPublicSuffix(); got != tt.want {
				t.Errorf("HostIsPublicSuffix() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPatternSupportAndStrings(t *testing.T) {
	t.Parallel()

	ftp, err := Engine{}.Parse("ftp://files.example.com/*")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if ftp.IsSupported() {
		t.Error("ftp pattern should be unsupported")
	}

	wild, err := Engine{}.Parse("*://example.com/*")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !wild.IsSupported() {
		t.Error("wildcard-scheme pattern should be supported")
	}
	if got := wild.String(); got != "*://example.com/*" {
		t.Errorf("String() = %q", got)
	}
	expanded := wild.ExpandedStrings()
	if len(expanded) != 2 || expanded[0] != "http://example.com/*" || expanded[1] != "https://example.com/*" {
		t.Errorf("ExpandedStrings() = %v", expanded)
	}

	all, err := Engine{}.Parse("<all_urls>")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := all.String(); got != "<all_urls>" {
		t.Errorf("String() = %q", got)
	}
	if expanded := all.ExpandedStrings(); len(expanded) != 1 || expanded[0] != "<all_urls>" {
		t.Errorf("ExpandedStrings() = %v", expanded)
	}

	// Scheme and host are normalized to lower case.
	upper, err := Engine{}.Parse("HTTPS://Example.COM/Path")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := upper.String(); got != "https://example.com/Path" {
		t.Errorf("String() = %q, want lowercased scheme and host", got)
	}
}

func TestGlobMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		s       string
		want    bool
	}{
		{"/*", "/", true},
		{"/*", "/anything/at/all", true},
		{"/a*c", "/abc", true},
		{"/a*c", "/ac", true},
		{"/a*c", "/ab", false},
		{"/a*b*c", "/aXbYc", true},
		{"/exact", "/exact", true},
		{"/exact", "/exac", false},
		{"", "", true},
		{"*", "anything", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.s, func(t *testing.T) {
			t.Parallel()
			if got := globMatch(tt.pattern, tt.s); got != tt.want {
				t.Errorf("globMatch(%q, %q) = %v, want %v", tt.pattern, tt.s, got, tt.want)
			}
		})
	}
}
