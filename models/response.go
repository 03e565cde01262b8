package models

// ScrapeResponse is the response for POST /api/v1/scrape.
type ScrapeResponse struct {
	// Success indicates whether the scrape completed without errors.
	Success bool `json:"success"`

	// Result holds the extracted documents and metadata on success.
	Result *ScrapeResult `json:"result,omitempty"`

	// CacheStatus indicates whether the result was served from the
	// extraction cache, the crawl cache, or computed fresh.
	// Values: "extraction_hit", "crawl_hit", "miss".
	CacheStatus string `json:"cache_status,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// CrawlMs is the time spent in the traversal engine.
	CrawlMs int64 `json:"crawl_ms"`

	// ExtractionMs is the time spent chunking and scoring.
	ExtractionMs int64 `json:"extraction_ms"`
}

// CrawlResponse is the immediate response for POST /api/v1/crawl.
type CrawlResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CrawlStatusResponse is the response for GET /api/v1/crawl/:id.
type CrawlStatusResponse struct {
	ID     string       `json:"id"`
	Status string       `json:"status"`
	Pages  []PageRecord `json:"pages,omitempty"`
	Error  *ErrorDetail `json:"error,omitempty"`
}

// CrawlJob tracks an in-progress crawl operation.
type CrawlJob struct {
	ID        string
	Status    string // "processing", "completed", "failed"
	Pages     []PageRecord
	Err       *ErrorDetail
	CreatedAt int64 // unix timestamp
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string    `json:"status"`
	Uptime  string    `json:"uptime"`
	Cache   CacheInfo `json:"cache"`
	Version string    `json:"version"`
}
