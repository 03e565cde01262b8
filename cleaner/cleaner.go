package cleaner

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/rufuslabs/rufus/models"
)

// Cleaner derives the main-body text of a page:
//
//	Stage 1: strip boilerplate elements (nav, ads, social widgets,
//	         cookie banners, comment sections)
//	Stage 2: select the highest-signal content container
//	Stage 3: normalize whitespace and strip boilerplate phrases
//
// The Markdown converter is created once and reused across all requests
// (goroutine-safe).
type Cleaner struct {
	mdConverter *converter.Converter
}

// NewCleaner initialises the Cleaner with a pre-configured Markdown converter.
func NewCleaner() *Cleaner {
	return &Cleaner{mdConverter: newMarkdownConverter()}
}

// Result is the cleaned view of one HTML page.
type Result struct {
	// Title is the <title> text, falling back to the readability title.
	// Empty when the page has neither.
	Title string

	// Text is the cleaned, whitespace-normalized main-body text.
	Text string

	// ContentHTML is the markup of the selected content container.
	ContentHTML string
}

// boilerplateSelectors match elements removed before container selection.
var boilerplateSelectors = []string{
	"script", "style", "noscript", "template", "svg",
	"nav", "header", "footer", "aside", "form", "iframe",
	"[class*='cookie']", "[id*='cookie']",
	"[class*='sidebar']", "[id*='sidebar']",
	"[class*='advert']", "[class*='banner']", "[class*='promo']",
	"[class*='social']", "[class*='share']",
	"[class*='comment']", "[id*='comment']",
	"[class*='popup']", "[class*='modal']",
}

// Clean parses rawHTML and returns its title and cleaned main-body text.
// A page that cannot be parsed is an error; the caller drops the node.
func (c *Cleaner) Clean(rawHTML, sourceURL string) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, models.NewRufusError(models.ErrCodeCrawlFailed, "parse html", err)
	}

	// Title before boilerplate removal: stripping <header> containers
	// must not cost us metadata.
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		if meta, err := ExtractMetadata(rawHTML, sourceURL); err == nil {
			title = strings.TrimSpace(meta.Title)
		}
	}

	for _, sel := range boilerplateSelectors {
		doc.Find(sel).Remove()
	}

	container := selectContainer(doc)

	text := StripBoilerplatePhrases(NormalizeWhitespace(container.Text()))

	contentHTML, err := goquery.OuterHtml(container)
	if err != nil {
		contentHTML = ""
	}

	return &Result{
		Title:       title,
		Text:        text,
		ContentHTML: contentHTML,
	}, nil
}

// ToMarkdown converts a cleaned content container to Markdown. The
// sourceURL resolves relative links so the output is self-contained.
func (c *Cleaner) ToMarkdown(contentHTML, sourceURL string) (string, error) {
	return c.mdConverter.ConvertString(contentHTML, converter.WithDomain(sourceURL))
}
