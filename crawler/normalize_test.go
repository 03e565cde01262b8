package crawler

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases host", "https://Example.COM/Docs", "https://example.com/Docs"},
		{"drops fragment", "https://example.com/page#section-2", "https://example.com/page"},
		{"strips trailing slash", "https://example.com/docs/", "https://example.com/docs"},
		{"keeps root slash", "https://example.com/", "https://example.com/"},
		{"adds root slash", "https://example.com", "https://example.com/"},
		{"collapses index.html", "https://example.com/docs/index.html", "https://example.com/docs"},
		{"collapses index.htm", "https://example.com/docs/index.htm", "https://example.com/docs"},
		{"collapses index.php", "https://example.com/index.php", "https://example.com/"},
		{"preserves query", "https://example.com/search?q=go&page=2", "https://example.com/search?q=go&page=2"},
		{"trims whitespace", "  https://example.com/a  ", "https://example.com/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_EquivalentFormsShareIdentity(t *testing.T) {
	variants := []string{
		"https://Example.com/docs/",
		"https://example.com/docs",
		"https://example.com/docs/index.html",
		"https://example.com/docs#intro",
	}

	want := Normalize(variants[0])
	for _, v := range variants[1:] {
		if got := Normalize(v); got != want {
			t.Errorf("Normalize(%q) = %q, want same identity %q", v, got, want)
		}
	}
}
