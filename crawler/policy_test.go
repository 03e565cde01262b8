package crawler

import "testing"

func TestDomainPolicy_Strict(t *testing.T) {
	p, err := NewDomainPolicy("https://docs.example.com/start", true, nil)
	if err != nil {
		t.Fatalf("NewDomainPolicy: %v", err)
	}

	tests := []struct {
		host string
		want bool
	}{
		{"docs.example.com", true},
		{"DOCS.EXAMPLE.COM", true},
		{"example.com", false},
		{"www.docs.example.com", false},
		{"api.docs.example.com", false},
		{"evil.com", false},
	}

	for _, tt := range tests {
		if got := p.IsInternal(tt.host); got != tt.want {
			t.Errorf("strict IsInternal(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}
}

func TestDomainPolicy_Lenient(t *testing.T) {
	p, err := NewDomainPolicy("https://example.com/", false, nil)
	if err != nil {
		t.Fatalf("NewDomainPolicy: %v", err)
	}

	tests := []struct {
		host string
		want bool
	}{
		{"example.com", true},
		{"www.example.com", true},
		{"docs.example.com", true},
		{"a.b.example.com", true},
		{"notexample.com", false},
		{"example.com.evil.com", false},
	}

	for _, tt := range tests {
		if got := p.IsInternal(tt.host); got != tt.want {
			t.Errorf("lenient IsInternal(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}
}

func TestDomainPolicy_Aliases(t *testing.T) {
	p, err := NewDomainPolicy("https://example.com/", false, []string{"Example.ORG", " "})
	if err != nil {
		t.Fatalf("NewDomainPolicy: %v", err)
	}

	if !p.IsInternal("example.org") {
		t.Error("alias host should be internal")
	}
	if !p.IsInternal("docs.example.org") {
		t.Error("alias sub-domain should be internal in lenient mode")
	}
	if p.IsInternal("example.net") {
		t.Error("unrelated host should not be internal")
	}
}

func TestDomainPolicy_StrictIgnoresAliases(t *testing.T) {
	p, err := NewDomainPolicy("https://example.com/", true, []string{"example.org"})
	if err != nil {
		t.Fatalf("NewDomainPolicy: %v", err)
	}

	if p.IsInternal("example.org") {
		t.Error("strict mode should ignore domain aliases")
	}
	if p.IsInternal("www.example.com") {
		t.Error("strict mode should not allow the www variant")
	}
}
