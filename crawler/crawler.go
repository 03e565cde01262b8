package crawler

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/rufuslabs/rufus/cleaner"
	"github.com/rufuslabs/rufus/config"
	"github.com/rufuslabs/rufus/models"
)

// untitledPage is the placeholder title for pages without a usable <title>.
const untitledPage = "Untitled Page"

// Request describes one crawl invocation. Immutable once started.
type Request struct {
	StartURL     string
	MaxDepth     int
	StrictDomain bool
	ParsePDFs    bool
}

// workItem is one node on the traversal frontier.
type workItem struct {
	url        string
	depth      int
	path       []models.PathEntry
	parentHost string // "" for the crawl root
}

// Crawler is the depth- and domain-bounded traversal engine. It owns a
// visited set that is reset per invocation and a PageCache that persists
// across invocations. A Crawler is not safe for concurrent Crawl calls;
// callers serialize access.
type Crawler struct {
	fetcher  Fetcher
	pdf      PDFExtractor
	cleaner  *cleaner.Cleaner
	pages    *PageCache
	limiter  *rate.Limiter
	aliases  []string
	observer Observer

	visited map[string]struct{}
}

// New creates a traversal engine. The politeness limiter enforces the
// configured delay before every network fetch; cache hits skip it.
func New(fetcher Fetcher, pdfx PDFExtractor, cl *cleaner.Cleaner, pages *PageCache, cfg config.CrawlerConfig, obs Observer) *Crawler {
	return &Crawler{
		fetcher:  fetcher,
		pdf:      pdfx,
		cleaner:  cl,
		pages:    pages,
		limiter:  rate.NewLimiter(rate.Every(cfg.Delay), 1),
		aliases:  cfg.DomainAliases,
		observer: obs,
	}
}

// VisitedCount returns the size of the visited set from the most recent
// crawl invocation.
func (c *Crawler) VisitedCount() int {
	return len(c.visited)
}

// Crawl walks the site breadth-first from req.StartURL, bounded by depth
// and the domain policy, and returns PageRecords in discovery order.
//
// Fetch, parse, and PDF-extraction failures are node-local: the node and
// everything reachable only through it are omitted, with no retry.
func (c *Crawler) Crawl(ctx context.Context, req Request) ([]models.PageRecord, error) {
	if req.MaxDepth < 0 {
		return nil, models.NewRufusError(models.ErrCodeInvalidInput, "max depth must be >= 0", nil)
	}

	policy, err := NewDomainPolicy(req.StartURL, req.StrictDomain, c.aliases)
	if err != nil {
		return nil, models.NewRufusError(models.ErrCodeInvalidInput, "invalid start url", err)
	}

	// The visited set is per-invocation; the page cache is not.
	c.visited = make(map[string]struct{})

	c.notifyStarted(req.StartURL, req.MaxDepth)

	var records []models.PageRecord
	queue := []workItem{{url: req.StartURL, depth: 0}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if item.depth > req.MaxDepth {
			c.notifySkipped(item.url, SkipDepthExceeded)
			continue
		}

		norm := Normalize(item.url)
		if _, seen := c.visited[norm]; seen {
			c.notifySkipped(item.url, SkipVisited)
			continue
		}

		if ok, reason := shouldCrawl(item.url, item.parentHost, policy, req.ParsePDFs); !ok {
			c.notifySkipped(item.url, reason)
			continue
		}

		// Mark visited before any network access so duplicates
		// discovered through multiple links are never re-enqueued.
		c.visited[norm] = struct{}{}

		if entry, hit := c.pages.Get(norm); hit {
			// Re-stamp traversal context onto cached content. A hit
			// short-circuits the fetch, not the link expansion.
			records = append(records, recordFromEntry(entry, item))
			c.notifyCacheHit(item.url, item.depth)
			if item.depth < req.MaxDepth && entry.ContentType == models.ContentTypeHTML && hostIsInternal(item.url, policy) {
				queue = c.expand(queue, item, entry.Title, entry.HTML, policy, req)
			}
			continue
		}

		// Politeness pause before every real fetch.
		if err := c.limiter.Wait(ctx); err != nil {
			return records, err
		}

		res, err := c.fetcher.Fetch(ctx, item.url)
		if err != nil {
			slog.Warn("fetch failed, dropping node", "url", item.url, "error", err)
			c.notifySkipped(item.url, SkipFetchFailed)
			continue
		}

		if req.ParsePDFs && isPDFURL(item.url) {
			if rec, ok := c.processPDF(item, norm, res.Body); ok {
				records = append(records, rec)
			}
			continue
		}

		rec, rawHTML, ok := c.processHTML(item, norm, res.Body)
		if !ok {
			continue
		}
		records = append(records, rec)

		// External pages contribute their record only; no outgoing
		// links are followed from them.
		if item.depth < req.MaxDepth && hostIsInternal(item.url, policy) {
			queue = c.expand(queue, item, rec.Title, rawHTML, policy, req)
		}
	}

	c.notifyFinished(req.StartURL, len(records))
	return records, nil
}

// processPDF handles the PDF sub-path: extract text, derive a title from
// the filename, cache, and emit. Extraction failure drops the node.
func (c *Crawler) processPDF(item workItem, norm string, body []byte) (models.PageRecord, bool) {
	text, err := c.pdf.ExtractText(body)
	if err != nil {
		slog.Warn("pdf extraction failed, dropping node", "url", item.url, "error", err)
		c.notifySkipped(item.url, SkipEmptyPDF)
		return models.PageRecord{}, false
	}

	title := pdfTitle(item.url)
	c.pages.Set(norm, &Entry{
		Title:       title,
		Text:        text,
		ContentType: models.ContentTypePDF,
	})

	c.notifyFetched(item.url, item.depth, models.ContentTypePDF)
	return models.PageRecord{
		URL:         item.url,
		Title:       title,
		Text:        text,
		Depth:       item.depth,
		ContentType: models.ContentTypePDF,
		Path:        item.path,
	}, true
}

// processHTML cleans the page, caches the body, and emits a PageRecord.
// Parse failures drop the node.
func (c *Crawler) processHTML(item workItem, norm string, body []byte) (models.PageRecord, string, bool) {
	rawHTML := string(body)

	cleaned, err := c.cleaner.Clean(rawHTML, item.url)
	if err != nil {
		slog.Warn("parse failed, dropping node", "url", item.url, "error", err)
		c.notifySkipped(item.url, SkipParseFailed)
		return models.PageRecord{}, "", false
	}

	title := cleaned.Title
	if title == "" {
		title = untitledPage
	}

	c.pages.Set(norm, &Entry{
		Title:       title,
		HTML:        rawHTML,
		Text:        cleaned.Text,
		ContentType: models.ContentTypeHTML,
	})

	c.notifyFetched(item.url, item.depth, models.ContentTypeHTML)
	return models.PageRecord{
		URL:         item.url,
		Title:       title,
		HTML:        rawHTML,
		Text:        cleaned.Text,
		Depth:       item.depth,
		ContentType: models.ContentTypeHTML,
		Path:        item.path,
	}, rawHTML, true
}

// expand enumerates anchor links in rawHTML, resolves them against the
// page URL, and enqueues eligible children one level deeper.
func (c *Crawler) expand(queue []workItem, parent workItem, parentTitle, rawHTML string, policy *DomainPolicy, req Request) []workItem {
	base, err := url.Parse(parent.url)
	if err != nil {
		return queue
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return queue
	}

	childPath := make([]models.PathEntry, len(parent.path), len(parent.path)+1)
	copy(childPath, parent.path)
	childPath = append(childPath, models.PathEntry{URL: parent.url, Title: parentTitle})

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists || strings.TrimSpace(href) == "" {
			return
		}
		resolved, err := base.Parse(href)
		if err != nil {
			return
		}
		resolved.Fragment = ""
		child := resolved.String()

		if _, seen := c.visited[Normalize(child)]; seen {
			return
		}
		if ok, _ := shouldCrawl(child, strings.ToLower(base.Host), policy, req.ParsePDFs); !ok {
			return
		}

		queue = append(queue, workItem{
			url:        child,
			depth:      parent.depth + 1,
			path:       childPath,
			parentHost: strings.ToLower(base.Host),
		})
	})

	return queue
}

func (c *Crawler) notifyStarted(url string, maxDepth int) {
	if c.observer != nil {
		c.observer.CrawlStarted(url, maxDepth)
	}
}

func (c *Crawler) notifyFetched(url string, depth int, ct models.ContentType) {
	if c.observer != nil {
		c.observer.PageFetched(url, depth, ct)
	}
}

func (c *Crawler) notifyCacheHit(url string, depth int) {
	if c.observer != nil {
		c.observer.CacheHit(url, depth)
	}
}

func (c *Crawler) notifySkipped(url, reason string) {
	if c.observer != nil {
		c.observer.NodeSkipped(url, reason)
	}
}

func (c *Crawler) notifyFinished(url string, pages int) {
	if c.observer != nil {
		c.observer.CrawlFinished(url, pages)
	}
}

// recordFromEntry builds a PageRecord from cached content, stamped with
// the current traversal context.
func recordFromEntry(e *Entry, item workItem) models.PageRecord {
	return models.PageRecord{
		URL:         item.url,
		Title:       e.Title,
		HTML:        e.HTML,
		Text:        e.Text,
		Depth:       item.depth,
		ContentType: e.ContentType,
		Path:        item.path,
	}
}
