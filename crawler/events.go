package crawler

import (
	"log/slog"

	"github.com/rufuslabs/rufus/models"
)

// Observer receives structured crawl events. The engine calls it inline,
// so implementations must be cheap and must not block. A nil observer is
// valid; no behavior depends on whether events are observed.
type Observer interface {
	CrawlStarted(startURL string, maxDepth int)
	PageFetched(url string, depth int, contentType models.ContentType)
	CacheHit(url string, depth int)
	NodeSkipped(url string, reason string)
	CrawlFinished(startURL string, pages int)
}

// SlogObserver logs crawl events through slog.
type SlogObserver struct{}

func (SlogObserver) CrawlStarted(startURL string, maxDepth int) {
	slog.Info("crawl started", "url", startURL, "max_depth", maxDepth)
}

func (SlogObserver) PageFetched(url string, depth int, contentType models.ContentType) {
	slog.Info("page fetched", "url", url, "depth", depth, "content_type", contentType)
}

func (SlogObserver) CacheHit(url string, depth int) {
	slog.Debug("page cache hit", "url", url, "depth", depth)
}

func (SlogObserver) NodeSkipped(url string, reason string) {
	slog.Debug("node skipped", "url", url, "reason", reason)
}

func (SlogObserver) CrawlFinished(startURL string, pages int) {
	slog.Info("crawl finished", "url", startURL, "pages", pages)
}
