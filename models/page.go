package models

// ContentType identifies the kind of content a crawled page holds.
type ContentType string

const (
	ContentTypeHTML ContentType = "html"
	ContentTypePDF  ContentType = "pdf"
)

// PathEntry is one ancestor hop on the navigation path from the crawl
// root to a page.
type PathEntry struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// PageRecord is one crawled unit of content: an HTML page or a PDF with
// its cleaned text, crawl depth, and the navigation path that led to it.
//
// The navigation path length always equals the depth; the start page has
// depth 0 and an empty path.
type PageRecord struct {
	URL         string      `json:"url"`
	Title       string      `json:"title"`
	HTML        string      `json:"html,omitempty"` // raw markup; empty for PDFs
	Text        string      `json:"text"`
	Depth       int         `json:"depth"`
	ContentType ContentType `json:"content_type"`
	Path        []PathEntry `json:"path"`
}
