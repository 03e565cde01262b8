package models

// ExtractionRecord is one retained chunk of a crawled page together with
// its relevance score. A page producing several relevant chunks yields
// several records, all sharing the page-level fields.
type ExtractionRecord struct {
	URL         string      `json:"url"`
	Title       string      `json:"title"`
	Depth       int         `json:"depth"`
	ContentType ContentType `json:"content_type"`
	Path        []PathEntry `json:"path,omitempty"`

	// Content is the chunk text that exceeded the similarity threshold.
	Content string `json:"content"`

	// PageText is the full cleaned text of the source page.
	PageText string `json:"page_text,omitempty"`

	ChunkIndex int `json:"chunk_index"`
	ChunkCount int `json:"chunk_count"`

	// Score is the cosine similarity between the instruction embedding
	// and this chunk's embedding.
	Score float64 `json:"relevance_score"`
}

// ScrapeResult is the assembled output of a scrape: retained documents
// sorted by descending relevance plus aggregate metadata.
type ScrapeResult struct {
	Documents []ExtractionRecord `json:"documents"`
	Metadata  ScrapeMetadata     `json:"metadata"`
}

// ScrapeMetadata summarises a ScrapeResult.
type ScrapeMetadata struct {
	DocumentCount int `json:"document_count"`

	// Sources lists the distinct source URLs in discovery order.
	Sources []string `json:"sources"`
}

// CacheInfo reports the state of all cache tiers.
type CacheInfo struct {
	CrawlEntries      int `json:"crawl_entries"`
	ExtractionEntries int `json:"extraction_entries"`
	TotalCachedPages  int `json:"total_cached_pages"`
	PageCacheSize     int `json:"page_cache_size"`
	VisitedURLs       int `json:"visited_urls"`
}
