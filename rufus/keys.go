package rufus

import (
	"regexp"
	"strings"

	"github.com/rufuslabs/rufus/crawler"
)

// CrawlKey identifies a crawl result for memoization. Built directly
// from the normalized parameter tuple, so two invocations with the same
// effective parameters always share an entry.
type CrawlKey struct {
	NormalizedURL string
	MaxDepth      int
	StrictDomain  bool
	ParsePDFs     bool
}

// ExtractionKey identifies an extraction result: a crawl plus a
// normalized instruction.
type ExtractionKey struct {
	Crawl        CrawlKey
	Instructions string
}

// NewCrawlKey derives the crawl cache key from a crawl request.
func NewCrawlKey(startURL string, maxDepth int, strict, parsePDFs bool) CrawlKey {
	return CrawlKey{
		NormalizedURL: crawler.Normalize(startURL),
		MaxDepth:      maxDepth,
		StrictDomain:  strict,
		ParsePDFs:     parsePDFs,
	}
}

var instructionWhitespaceRe = regexp.MustCompile(`\s+`)

// NewExtractionKey derives the extraction cache key. Instructions are
// lower-cased and whitespace-collapsed so trivial rephrasings of the
// same instruction hit the same entry.
func NewExtractionKey(ck CrawlKey, instructions string) ExtractionKey {
	norm := strings.ToLower(strings.TrimSpace(instructions))
	norm = instructionWhitespaceRe.ReplaceAllString(norm, " ")
	return ExtractionKey{Crawl: ck, Instructions: norm}
}
