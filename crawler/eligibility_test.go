package crawler

import "testing"

func mustPolicy(t *testing.T, startURL string, strict bool) *DomainPolicy {
	t.Helper()
	p, err := NewDomainPolicy(startURL, strict, nil)
	if err != nil {
		t.Fatalf("NewDomainPolicy(%q): %v", startURL, err)
	}
	return p
}

func TestShouldCrawl(t *testing.T) {
	policy := mustPolicy(t, "https://example.com/", false)

	tests := []struct {
		name       string
		url        string
		parentHost string
		parsePDFs  bool
		wantOK     bool
		wantReason string
	}{
		{"internal page", "https://example.com/about", "", false, true, ""},
		{"sub-domain page", "https://docs.example.com/guide", "example.com", false, true, ""},
		{"mailto scheme", "mailto:team@example.com", "example.com", false, false, SkipBadScheme},
		{"javascript scheme", "javascript:void(0)", "example.com", false, false, SkipBadScheme},
		{"social platform", "https://twitter.com/example", "example.com", false, false, SkipBlockedPlatform},
		{"platform sub-domain", "https://www.facebook.com/example", "example.com", false, false, SkipBlockedPlatform},
		{"image asset", "https://example.com/logo.png", "example.com", false, false, SkipBinaryAsset},
		{"archive asset", "https://example.com/release.tar.gz", "example.com", false, false, SkipBinaryAsset},
		{"pdf disabled", "https://example.com/paper.pdf", "example.com", false, false, SkipPDFDisabled},
		{"pdf enabled", "https://example.com/paper.pdf", "example.com", true, true, ""},
		{"login path", "https://example.com/login?next=/", "example.com", false, false, SkipNonContentPath},
		{"api path", "https://example.com/api/v2/users", "example.com", false, false, SkipNonContentPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := shouldCrawl(tt.url, tt.parentHost, policy, tt.parsePDFs)
			if ok != tt.wantOK || reason != tt.wantReason {
				t.Errorf("shouldCrawl(%q) = (%v, %q), want (%v, %q)",
					tt.url, ok, reason, tt.wantOK, tt.wantReason)
			}
		})
	}
}

func TestShouldCrawl_ExternalOneHop(t *testing.T) {
	policy := mustPolicy(t, "https://example.com/", false)

	// External page linked from an internal page: one hop allowed.
	ok, _ := shouldCrawl("https://partner.io/docs", "example.com", policy, false)
	if !ok {
		t.Error("external page linked from internal parent should be eligible")
	}

	// External page linked from another external page: blocked.
	ok, reason := shouldCrawl("https://deeper.io/page", "partner.io", policy, false)
	if ok || reason != SkipExternal {
		t.Errorf("external-to-external hop = (%v, %q), want (false, %q)", ok, reason, SkipExternal)
	}

	// External crawl root: blocked (no internal parent).
	ok, reason = shouldCrawl("https://partner.io/docs", "", policy, false)
	if ok || reason != SkipExternal {
		t.Errorf("external root = (%v, %q), want (false, %q)", ok, reason, SkipExternal)
	}
}

func TestShouldCrawl_StrictBlocksSubdomains(t *testing.T) {
	policy := mustPolicy(t, "https://example.com/", true)

	// Sub-domain counts as external in strict mode, so the one-hop rule
	// still admits it when linked from the start host.
	ok, _ := shouldCrawl("https://docs.example.com/guide", "example.com", policy, false)
	if !ok {
		t.Error("strict mode should still allow a one-hop step onto a sub-domain")
	}

	ok, reason := shouldCrawl("https://docs.example.com/guide", "docs.example.com", policy, false)
	if ok || reason != SkipExternal {
		t.Errorf("strict sub-domain chain = (%v, %q), want (false, %q)", ok, reason, SkipExternal)
	}
}

func TestIsPDFURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/paper.pdf", true},
		{"https://example.com/PAPER.PDF", true},
		{"https://example.com/paper.pdf?dl=1", true},
		{"https://example.com/paper", false},
		{"https://example.com/pdf/viewer", false},
	}

	for _, tt := range tests {
		if got := isPDFURL(tt.url); got != tt.want {
			t.Errorf("isPDFURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
