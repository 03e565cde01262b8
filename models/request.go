package models

// ScrapeRequest is the payload for POST /api/v1/scrape.
type ScrapeRequest struct {
	// URL is the page to start crawling from. Required.
	URL string `json:"url" binding:"required,url"`

	// Instructions is the natural-language description of the content
	// to extract. Required.
	Instructions string `json:"instructions" binding:"required"`

	// MaxDepth limits the crawl depth from the starting URL.
	// 0 means only the starting page. Default: 3. Max: 10.
	MaxDepth *int `json:"max_depth,omitempty" binding:"omitempty,min=0,max=10"`

	// StrictDomain restricts the crawl to the exact start host, with no
	// sub-domain or external-hop allowance.
	StrictDomain bool `json:"strict_domain,omitempty"`

	// ParsePDFs enables fetching and text-extracting linked PDF files.
	ParsePDFs bool `json:"parse_pdfs,omitempty"`

	// SimilarityThreshold is the minimum cosine similarity a chunk must
	// strictly exceed to be retained. Default: 0.3.
	SimilarityThreshold float64 `json:"similarity_threshold,omitempty" binding:"omitempty,gt=0,lt=1"`

	// ChunkSize is the maximum chunk length in characters. Default: 512.
	ChunkSize int `json:"chunk_size,omitempty" binding:"omitempty,min=64,max=8192"`

	// OutputFormat selects the document synthesis format.
	// "json" (default), "csv", or "markdown".
	OutputFormat string `json:"output_format,omitempty" binding:"omitempty,oneof=json csv markdown"`
}

// Defaults fills zero-valued optional fields with their defaults.
func (r *ScrapeRequest) Defaults() {
	if r.MaxDepth == nil {
		d := 3
		r.MaxDepth = &d
	}
	if r.SimilarityThreshold == 0 {
		r.SimilarityThreshold = 0.3
	}
	if r.ChunkSize == 0 {
		r.ChunkSize = 512
	}
	if r.OutputFormat == "" {
		r.OutputFormat = "json"
	}
}

// CrawlRequest is the payload for POST /api/v1/crawl.
type CrawlRequest struct {
	// URL is the starting page to crawl. Required.
	URL string `json:"url" binding:"required,url"`

	// MaxDepth limits the crawl depth. 0 means only the starting page.
	// Default: 3. Max: 10.
	MaxDepth *int `json:"max_depth,omitempty" binding:"omitempty,min=0,max=10"`

	// StrictDomain restricts the crawl to the exact start host.
	StrictDomain bool `json:"strict_domain,omitempty"`

	// ParsePDFs enables fetching and text-extracting linked PDF files.
	ParsePDFs bool `json:"parse_pdfs,omitempty"`
}

// Defaults fills zero-valued optional fields with their defaults.
func (r *CrawlRequest) Defaults() {
	if r.MaxDepth == nil {
		d := 3
		r.MaxDepth = &d
	}
}
