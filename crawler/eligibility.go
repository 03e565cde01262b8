package crawler

import (
	"net/url"
	"strings"
)

// Skip reasons reported through the Observer when a work item is rejected.
const (
	SkipBadScheme       = "bad_scheme"
	SkipExternal        = "external_domain"
	SkipBlockedPlatform = "blocked_platform"
	SkipBinaryAsset     = "binary_asset"
	SkipPDFDisabled     = "pdf_disabled"
	SkipNonContentPath  = "non_content_path"
	SkipVisited         = "already_visited"
	SkipDepthExceeded   = "depth_exceeded"
	SkipFetchFailed     = "fetch_failed"
	SkipParseFailed     = "parse_failed"
	SkipEmptyPDF        = "empty_pdf"
)

// blockedPlatforms are large non-content platforms never worth crawling:
// social networks, search engines, and marketplace/app-store domains.
var blockedPlatforms = []string{
	"facebook.com", "twitter.com", "x.com", "instagram.com",
	"linkedin.com", "youtube.com", "tiktok.com", "pinterest.com",
	"reddit.com", "snapchat.com", "whatsapp.com", "telegram.org",
	"google.com", "bing.com", "yahoo.com", "duckduckgo.com", "baidu.com",
	"amazon.com", "ebay.com", "apple.com", "microsoft.com", "play.google.com",
}

// blockedExtensions are binary asset extensions that never contain
// crawlable text. PDF is handled separately via the ParsePDFs flag.
var blockedExtensions = []string{
	".jpg", ".jpeg", ".png", ".gif", ".svg", ".webp", ".ico", ".bmp",
	".zip", ".tar", ".gz", ".tgz", ".rar", ".7z", ".bz2",
	".doc", ".docx", ".ppt", ".pptx", ".xls", ".xlsx", ".odt",
	".mp3", ".mp4", ".m4a", ".avi", ".mov", ".wmv", ".mkv", ".webm",
	".css", ".js", ".mjs", ".woff", ".woff2", ".ttf", ".eot",
	".exe", ".dmg", ".apk", ".iso",
}

// blockedPathPrefixes are path prefixes that lead to auth flows, admin
// areas, APIs, and asset bundles rather than content.
var blockedPathPrefixes = []string{
	"/admin", "/login", "/logout", "/signin", "/signout", "/signup",
	"/register", "/account", "/cart", "/checkout", "/search",
	"/api/", "/graphql", "/cdn-cgi/", "/wp-admin", "/wp-login",
	"/wp-json", "/static/", "/assets/", "/dist/", "/build/", "/_next/",
}

// shouldCrawl is the eligibility predicate for a work item. parentHost is
// the host of the page that linked here ("" for the crawl root).
//
// External hosts are eligible only when reached directly from an internal
// page: the crawl may step exactly one hop onto an external domain, and
// external pages never have their links expanded.
func shouldCrawl(rawURL, parentHost string, policy *DomainPolicy, parsePDFs bool) (bool, string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false, SkipBadScheme
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return false, SkipBadScheme
	}

	host := strings.ToLower(u.Host)
	if isBlockedPlatform(host) {
		return false, SkipBlockedPlatform
	}

	path := strings.ToLower(u.Path)
	if strings.HasSuffix(path, ".pdf") {
		if !parsePDFs {
			return false, SkipPDFDisabled
		}
	} else {
		for _, ext := range blockedExtensions {
			if strings.HasSuffix(path, ext) {
				return false, SkipBinaryAsset
			}
		}
	}

	for _, prefix := range blockedPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false, SkipNonContentPath
		}
	}

	if !policy.IsInternal(host) {
		if parentHost == "" || !policy.IsInternal(parentHost) {
			return false, SkipExternal
		}
	}

	return true, ""
}

func isBlockedPlatform(host string) bool {
	host = stripPort(host)
	for _, blocked := range blockedPlatforms {
		if host == blocked || strings.HasSuffix(host, "."+blocked) {
			return true
		}
	}
	return false
}

func stripPort(host string) string {
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		return host[:idx]
	}
	return host
}

// hostIsInternal reports whether a page's own host is inside the
// crawl's domain scope. Pages outside it are terminal: they are fetched
// when reachable in one hop but their links are never expanded.
func hostIsInternal(rawURL string, policy *DomainPolicy) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return policy.IsInternal(u.Host)
}

// isPDFURL reports whether the URL path indicates a PDF document.
func isPDFURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(u.Path), ".pdf")
}
