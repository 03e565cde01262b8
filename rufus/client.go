// Package rufus composes the traversal engine and the relevance pipeline
// behind a single client with two-tier result memoization.
package rufus

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rufuslabs/rufus/crawler"
	"github.com/rufuslabs/rufus/extractor"
	"github.com/rufuslabs/rufus/models"
)

// Cache status values reported by Scrape.
const (
	CacheMiss          = "miss"
	CacheHitCrawl      = "crawl_hit"
	CacheHitExtraction = "extraction_hit"
)

// ScrapeOptions parameterize one scrape invocation.
type ScrapeOptions struct {
	StartURL     string
	Instructions string
	MaxDepth     int
	StrictDomain bool
	ParsePDFs    bool

	// Threshold and ChunkSize are empirically tuned knobs with no
	// built-in default at this layer; callers must supply both.
	Threshold float64
	ChunkSize int
}

// Timing breaks down where a scrape spent its time.
type Timing struct {
	Crawl      time.Duration
	Extraction time.Duration
}

// Client owns one crawler/extractor pair and all cache tiers. All
// operations are serialized: the crawler's visited set and the result
// caches are exclusively owned by this instance.
type Client struct {
	mu sync.Mutex

	crawler   *crawler.Crawler
	extractor *extractor.Extractor
	pages     *crawler.PageCache

	crawlCache   map[CrawlKey][]models.PageRecord
	extractCache map[ExtractionKey]*models.ScrapeResult
}

// New creates a Client around an assembled crawler and extractor. The
// page cache must be the same instance the crawler writes to.
func New(cr *crawler.Crawler, ex *extractor.Extractor, pages *crawler.PageCache) *Client {
	return &Client{
		crawler:      cr,
		extractor:    ex,
		pages:        pages,
		crawlCache:   make(map[CrawlKey][]models.PageRecord),
		extractCache: make(map[ExtractionKey]*models.ScrapeResult),
	}
}

// Crawl runs the traversal engine directly, bypassing the result caches.
func (c *Client) Crawl(ctx context.Context, req crawler.Request) ([]models.PageRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.crawler.Crawl(ctx, req)
}

// Extract runs the relevance pipeline directly over already-crawled
// pages, bypassing the result caches.
func (c *Client) Extract(ctx context.Context, pages []models.PageRecord, instructions string, threshold float64, chunkSize int) ([]models.ExtractionRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.extractor.Extract(ctx, pages, instructions, threshold, chunkSize)
}

// Scrape crawls from opts.StartURL and extracts content relevant to
// opts.Instructions, consulting the extraction cache first and the crawl
// cache second. On a full miss both caches are populated. The returned
// string is one of CacheHitExtraction, CacheHitCrawl, or CacheMiss.
//
// Any failure is wrapped into a single RufusError; timing covers the
// phases actually run.
func (c *Client) Scrape(ctx context.Context, opts ScrapeOptions) (*models.ScrapeResult, string, *Timing, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	timing := &Timing{}

	crawlKey := NewCrawlKey(opts.StartURL, opts.MaxDepth, opts.StrictDomain, opts.ParsePDFs)
	extractKey := NewExtractionKey(crawlKey, opts.Instructions)

	if result, ok := c.extractCache[extractKey]; ok {
		return result, CacheHitExtraction, timing, nil
	}

	status := CacheMiss
	pages, ok := c.crawlCache[crawlKey]
	if ok {
		status = CacheHitCrawl
	} else {
		start := time.Now()
		crawled, err := c.crawler.Crawl(ctx, crawler.Request{
			StartURL:     opts.StartURL,
			MaxDepth:     opts.MaxDepth,
			StrictDomain: opts.StrictDomain,
			ParsePDFs:    opts.ParsePDFs,
		})
		timing.Crawl = time.Since(start)
		if err != nil {
			return nil, status, timing, wrapError("crawling failed", err)
		}
		pages = crawled
		c.crawlCache[crawlKey] = pages
	}

	start := time.Now()
	records, err := c.extractor.Extract(ctx, pages, opts.Instructions, opts.Threshold, opts.ChunkSize)
	timing.Extraction = time.Since(start)
	if err != nil {
		return nil, status, timing, wrapError("extraction failed", err)
	}

	result := assemble(records)
	c.extractCache[extractKey] = result
	return result, status, timing, nil
}

// CacheInfo reports entry counts across all cache tiers.
func (c *Client) CacheInfo() models.CacheInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	totalPages := 0
	for _, pages := range c.crawlCache {
		totalPages += len(pages)
	}

	return models.CacheInfo{
		CrawlEntries:      len(c.crawlCache),
		ExtractionEntries: len(c.extractCache),
		TotalCachedPages:  totalPages,
		PageCacheSize:     c.pages.Len(),
		VisitedURLs:       c.crawler.VisitedCount(),
	}
}

// ClearCache empties the crawl cache, the extraction cache, and the
// page cache.
func (c *Client) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.crawlCache = make(map[CrawlKey][]models.PageRecord)
	c.extractCache = make(map[ExtractionKey]*models.ScrapeResult)
	c.pages.Clear()
}

// assemble builds the final result: documents already sorted by score
// plus metadata listing distinct source URLs in output order.
func assemble(records []models.ExtractionRecord) *models.ScrapeResult {
	if records == nil {
		records = []models.ExtractionRecord{}
	}

	seen := make(map[string]struct{})
	sources := []string{}
	for _, rec := range records {
		if _, ok := seen[rec.URL]; ok {
			continue
		}
		seen[rec.URL] = struct{}{}
		sources = append(sources, rec.URL)
	}

	return &models.ScrapeResult{
		Documents: records,
		Metadata: models.ScrapeMetadata{
			DocumentCount: len(records),
			Sources:       sources,
		},
	}
}

// wrapError ensures every error surfaced from Scrape is a RufusError
// carrying the original message. Errors that already carry a code pass
// through unchanged.
func wrapError(msg string, err error) error {
	var rufusErr *models.RufusError
	if errors.As(err, &rufusErr) {
		return rufusErr
	}
	return models.NewRufusError(models.ErrCodeCrawlFailed, msg, err)
}
