package crawler

import (
	"net/url"
	"strings"
)

// indexFiles are default directory index segments stripped during
// normalization so that /docs, /docs/ and /docs/index.html all map to the
// same cache key.
var indexFiles = []string{"index.html", "index.htm", "index.php"}

// Normalize canonicalizes a URL for cache-key derivation. The canonical
// form is never used for crawling, only as a stable identity:
//
//   - host is lower-cased
//   - the fragment is dropped
//   - a trailing default index file collapses to its parent directory
//   - a trailing slash is stripped unless the path is root
//
// Unparseable input is returned unchanged so it still yields a stable,
// if ugly, key.
func Normalize(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return rawURL
	}

	host := strings.ToLower(u.Host)
	path := u.EscapedPath()

	for _, idx := range indexFiles {
		if strings.HasSuffix(path, "/"+idx) {
			path = strings.TrimSuffix(path, idx)
			break
		}
		if path == idx {
			path = ""
			break
		}
	}

	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	if path == "" {
		path = "/"
	}

	var b strings.Builder
	if u.Scheme != "" {
		b.WriteString(u.Scheme)
		b.WriteString("://")
	}
	b.WriteString(host)
	b.WriteString(path)
	if u.RawQuery != "" {
		b.WriteString("?")
		b.WriteString(u.RawQuery)
	}
	return b.String()
}
