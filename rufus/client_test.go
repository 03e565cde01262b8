package rufus

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rufuslabs/rufus/cleaner"
	"github.com/rufuslabs/rufus/config"
	"github.com/rufuslabs/rufus/crawler"
	"github.com/rufuslabs/rufus/extractor"
	"github.com/rufuslabs/rufus/models"
)

// countingFetcher serves canned bodies and records fetch counts.
type countingFetcher struct {
	pages   map[string]string
	fetches int
}

func (f *countingFetcher) Fetch(_ context.Context, rawURL string) (*crawler.FetchResult, error) {
	body, ok := f.pages[rawURL]
	if !ok {
		return nil, models.NewRufusError(models.ErrCodeFetchFailed, "HTTP 404 for "+rawURL, nil)
	}
	f.fetches++
	return &crawler.FetchResult{StatusCode: 200, Body: []byte(body), ContentType: "text/html", FinalURL: rawURL}, nil
}

type noopPDF struct{}

func (noopPDF) ExtractText(_ []byte) (string, error) { return "", errors.New("unused") }

// matchAllEmbedder scores every chunk as a perfect match.
type matchAllEmbedder struct{ calls int }

func (e *matchAllEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	e.calls++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func sitePage(title, link string) string {
	body := "<html><head><title>" + title + "</title></head><body><main><p>Relevant content of " + title + " with enough words to produce cleaned text.</p>"
	if link != "" {
		body += fmt.Sprintf("<a href=%q>next</a>", link)
	}
	return body + "</main></body></html>"
}

func newTestClient(fetcher crawler.Fetcher, embedder *matchAllEmbedder) *Client {
	pages := crawler.NewPageCache()
	cfg := config.CrawlerConfig{Delay: time.Millisecond, FetchTimeout: time.Second, MaxBodyBytes: 1 << 20}
	cr := crawler.New(fetcher, noopPDF{}, cleaner.NewCleaner(), pages, cfg, nil)
	return New(cr, extractor.New(embedder), pages)
}

func testOpts() ScrapeOptions {
	return ScrapeOptions{
		StartURL:     "https://example.com/",
		Instructions: "find the relevant content",
		MaxDepth:     1,
		Threshold:    0.5,
		ChunkSize:    512,
	}
}

func TestScrape_MissThenExtractionHit(t *testing.T) {
	fetcher := &countingFetcher{pages: map[string]string{
		"https://example.com/":     sitePage("Home", "https://example.com/docs"),
		"https://example.com/docs": sitePage("Docs", ""),
	}}
	emb := &matchAllEmbedder{}
	client := newTestClient(fetcher, emb)

	result, status, _, err := client.Scrape(context.Background(), testOpts())
	if err != nil {
		t.Fatalf("first Scrape: %v", err)
	}
	if status != CacheMiss {
		t.Errorf("first status = %q, want %q", status, CacheMiss)
	}
	if result.Metadata.DocumentCount != len(result.Documents) {
		t.Errorf("DocumentCount = %d, documents = %d", result.Metadata.DocumentCount, len(result.Documents))
	}
	if len(result.Documents) == 0 {
		t.Fatal("expected at least one document")
	}

	fetchesAfterFirst := fetcher.fetches
	callsAfterFirst := emb.calls

	second, status, _, err := client.Scrape(context.Background(), testOpts())
	if err != nil {
		t.Fatalf("second Scrape: %v", err)
	}
	if status != CacheHitExtraction {
		t.Errorf("second status = %q, want %q", status, CacheHitExtraction)
	}
	if fetcher.fetches != fetchesAfterFirst {
		t.Errorf("second scrape fetched %d more pages, want 0", fetcher.fetches-fetchesAfterFirst)
	}
	if emb.calls != callsAfterFirst {
		t.Errorf("second scrape made %d more embedding calls, want 0", emb.calls-callsAfterFirst)
	}
	if second != result {
		t.Error("extraction hit should return the memoized result")
	}
}

func TestScrape_CrawlHitOnNewInstructions(t *testing.T) {
	fetcher := &countingFetcher{pages: map[string]string{
		"https://example.com/": sitePage("Home", ""),
	}}
	emb := &matchAllEmbedder{}
	client := newTestClient(fetcher, emb)

	if _, _, _, err := client.Scrape(context.Background(), testOpts()); err != nil {
		t.Fatalf("first Scrape: %v", err)
	}
	fetchesAfterFirst := fetcher.fetches

	opts := testOpts()
	opts.Instructions = "a completely different question"
	_, status, _, err := client.Scrape(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Scrape: %v", err)
	}

	if status != CacheHitCrawl {
		t.Errorf("status = %q, want %q", status, CacheHitCrawl)
	}
	if fetcher.fetches != fetchesAfterFirst {
		t.Error("crawl hit must not refetch pages")
	}

	info := client.CacheInfo()
	if info.CrawlEntries != 1 || info.ExtractionEntries != 2 {
		t.Errorf("CacheInfo = %+v, want 1 crawl entry and 2 extraction entries", info)
	}
}

func TestScrape_KeyNormalization(t *testing.T) {
	fetcher := &countingFetcher{pages: map[string]string{
		"https://example.com/": sitePage("Home", ""),
	}}
	client := newTestClient(fetcher, &matchAllEmbedder{})

	if _, _, _, err := client.Scrape(context.Background(), testOpts()); err != nil {
		t.Fatalf("first Scrape: %v", err)
	}

	// Equivalent URL spelling and a rephrased-whitespace instruction must
	// hit the same extraction entry.
	opts := testOpts()
	opts.StartURL = "https://EXAMPLE.com/#top"
	opts.Instructions = "  Find   the relevant CONTENT "
	_, status, _, err := client.Scrape(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Scrape: %v", err)
	}
	if status != CacheHitExtraction {
		t.Errorf("status = %q, want %q", status, CacheHitExtraction)
	}
}

func TestScrape_DistinctParamsDistinctEntries(t *testing.T) {
	fetcher := &countingFetcher{pages: map[string]string{
		"https://example.com/": sitePage("Home", ""),
	}}
	client := newTestClient(fetcher, &matchAllEmbedder{})

	if _, _, _, err := client.Scrape(context.Background(), testOpts()); err != nil {
		t.Fatalf("first Scrape: %v", err)
	}

	opts := testOpts()
	opts.MaxDepth = 0
	_, status, _, err := client.Scrape(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Scrape: %v", err)
	}
	if status != CacheMiss {
		t.Errorf("different max depth should miss, got %q", status)
	}

	info := client.CacheInfo()
	if info.CrawlEntries != 2 {
		t.Errorf("CrawlEntries = %d, want 2", info.CrawlEntries)
	}
}

func TestScrape_CrawlFailure(t *testing.T) {
	fetcher := &countingFetcher{pages: map[string]string{}} // every fetch 404s
	client := newTestClient(fetcher, &matchAllEmbedder{})

	// The start node fails, so the crawl yields zero pages and extraction
	// yields zero documents; that is a success with an empty result.
	result, status, _, err := client.Scrape(context.Background(), testOpts())
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if status != CacheMiss {
		t.Errorf("status = %q, want miss", status)
	}
	if len(result.Documents) != 0 || result.Metadata.DocumentCount != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
	if result.Metadata.Sources == nil {
		t.Error("Sources must be an empty list, not null")
	}
}

func TestScrape_InvalidDepthError(t *testing.T) {
	client := newTestClient(&countingFetcher{}, &matchAllEmbedder{})

	opts := testOpts()
	opts.MaxDepth = -1
	_, _, _, err := client.Scrape(context.Background(), opts)

	var rufusErr *models.RufusError
	if !errors.As(err, &rufusErr) || rufusErr.Code != models.ErrCodeInvalidInput {
		t.Fatalf("got %v, want INVALID_INPUT", err)
	}
}

func TestClearCache(t *testing.T) {
	fetcher := &countingFetcher{pages: map[string]string{
		"https://example.com/": sitePage("Home", ""),
	}}
	client := newTestClient(fetcher, &matchAllEmbedder{})

	if _, _, _, err := client.Scrape(context.Background(), testOpts()); err != nil {
		t.Fatalf("Scrape: %v", err)
	}

	info := client.CacheInfo()
	if info.CrawlEntries == 0 || info.ExtractionEntries == 0 || info.PageCacheSize == 0 {
		t.Fatalf("caches should be populated before clear: %+v", info)
	}

	client.ClearCache()

	info = client.CacheInfo()
	if info.CrawlEntries != 0 || info.ExtractionEntries != 0 || info.PageCacheSize != 0 || info.TotalCachedPages != 0 {
		t.Errorf("caches not cleared: %+v", info)
	}

	// After clearing, the same scrape is a full miss and refetches.
	fetchesBefore := fetcher.fetches
	_, status, _, err := client.Scrape(context.Background(), testOpts())
	if err != nil {
		t.Fatalf("Scrape after clear: %v", err)
	}
	if status != CacheMiss {
		t.Errorf("status after clear = %q, want miss", status)
	}
	if fetcher.fetches <= fetchesBefore {
		t.Error("scrape after clear should refetch pages")
	}
}

func TestNewExtractionKey_Normalization(t *testing.T) {
	ck := NewCrawlKey("https://example.com/", 3, false, false)

	a := NewExtractionKey(ck, "Find Pricing  Info")
	b := NewExtractionKey(ck, "  find pricing info ")
	if a != b {
		t.Errorf("equivalent instructions produced different keys: %+v vs %+v", a, b)
	}

	c := NewExtractionKey(ck, "find shipping info")
	if a == c {
		t.Error("different instructions must not collide")
	}
}

func TestNewCrawlKey_Normalization(t *testing.T) {
	a := NewCrawlKey("https://Example.com/docs/", 3, false, false)
	b := NewCrawlKey("https://example.com/docs#intro", 3, false, false)
	if a != b {
		t.Errorf("equivalent URLs produced different keys: %+v vs %+v", a, b)
	}

	c := NewCrawlKey("https://example.com/docs", 2, false, false)
	if a == c {
		t.Error("different depth must not collide")
	}
}
