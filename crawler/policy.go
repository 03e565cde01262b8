package crawler

import (
	"net/url"
	"strings"
)

// DomainPolicy decides which hosts count as internal for one crawl.
// It is computed once from the start URL and immutable for the crawl's
// duration.
type DomainPolicy struct {
	allowed []string
	strict  bool
}

// NewDomainPolicy derives the policy from the start URL's host.
//
// Strict mode allows only the exact start host. Lenient mode additionally
// allows the www-variant of the start host, any configured domain aliases,
// and sub-domains of all allowed entries.
func NewDomainPolicy(startURL string, strict bool, aliases []string) (*DomainPolicy, error) {
	u, err := url.Parse(startURL)
	if err != nil {
		return nil, err
	}
	host := strings.ToLower(u.Host)

	p := &DomainPolicy{strict: strict}
	p.allowed = append(p.allowed, host)

	if !strict {
		if v := wwwVariant(host); v != "" {
			p.allowed = append(p.allowed, v)
		}
		for _, a := range aliases {
			if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
				p.allowed = append(p.allowed, a)
			}
		}
	}
	return p, nil
}

// IsInternal reports whether host belongs to the crawl's domain scope.
func (p *DomainPolicy) IsInternal(host string) bool {
	host = strings.ToLower(host)
	for _, allowed := range p.allowed {
		if host == allowed {
			return true
		}
		if !p.strict && strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}

// wwwVariant returns the www-toggled form of a host, or "" when the host
// has a port or is not a plain domain name.
func wwwVariant(host string) string {
	if strings.Contains(host, ":") {
		return ""
	}
	if strings.HasPrefix(host, "www.") {
		return strings.TrimPrefix(host, "www.")
	}
	if strings.Contains(host, ".") {
		return "www." + host
	}
	return ""
}
