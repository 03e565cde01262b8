package cleaner

import (
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// Metadata holds page-level information extracted by readability.
type Metadata struct {
	Title    string
	Byline   string
	Excerpt  string
	SiteName string
}

// ExtractMetadata runs go-readability over the raw HTML for its metadata
// heuristics. Used as the title fallback when a page has no <title> and
// by the API layer for response metadata.
func ExtractMetadata(rawHTML, sourceURL string) (Metadata, error) {
	pageURL, err := url.Parse(sourceURL)
	if err != nil {
		pageURL = &url.URL{}
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), pageURL)
	if err != nil {
		return Metadata{}, err
	}

	return Metadata{
		Title:    article.Title,
		Byline:   article.Byline,
		Excerpt:  article.Excerpt,
		SiteName: article.SiteName,
	}, nil
}
