package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// scrapeRequest mirrors the Rufus API request model.
type scrapeRequest struct {
	URL                 string  `json:"url"`
	Instructions        string  `json:"instructions"`
	MaxDepth            *int    `json:"max_depth,omitempty"`
	StrictDomain        bool    `json:"strict_domain,omitempty"`
	ParsePDFs           bool    `json:"parse_pdfs,omitempty"`
	SimilarityThreshold float64 `json:"similarity_threshold,omitempty"`
	OutputFormat        string  `json:"output_format,omitempty"`
}

// scrapeResponse mirrors the Rufus API response model.
type scrapeResponse struct {
	Success bool `json:"success"`
	Result  *struct {
		Documents []struct {
			URL     string  `json:"url"`
			Title   string  `json:"title"`
			Content string  `json:"content"`
			Score   float64 `json:"relevance_score"`
		} `json:"documents"`
		Metadata struct {
			DocumentCount int      `json:"document_count"`
			Sources       []string `json:"sources"`
		} `json:"metadata"`
	} `json:"result"`
	CacheStatus string `json:"cache_status"`
	Error       *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// crawlResponse mirrors the Rufus crawl API response.
type crawlResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// crawlStatusResponse mirrors the Rufus crawl status API response.
type crawlStatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Pages  []struct {
		URL   string `json:"url"`
		Title string `json:"title"`
		Depth int    `json:"depth"`
	} `json:"pages"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	apiURL := os.Getenv("RUFUS_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("RUFUS_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "RUFUS_API_KEY is required")
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"rufus",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	scrapeSiteTool := mcp.NewTool("scrape_site",
		mcp.WithDescription("Crawl a website and extract the content relevant to a natural-language instruction. Returns scored document chunks ready for RAG pipelines."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL to start crawling from"),
		),
		mcp.WithString("instructions",
			mcp.Required(),
			mcp.Description("Natural-language description of the content to extract, e.g. 'product pricing and FAQ information'"),
		),
		mcp.WithNumber("max_depth",
			mcp.Description("Maximum crawl depth from the starting URL (default: 3, max: 10). 0 scrapes only the starting page."),
		),
		mcp.WithNumber("similarity_threshold",
			mcp.Description("Minimum relevance score a chunk must exceed to be kept (default: 0.3)"),
		),
		mcp.WithBoolean("strict_domain",
			mcp.Description("Restrict the crawl to the exact starting host, with no sub-domain or external-link hops"),
		),
		mcp.WithBoolean("parse_pdfs",
			mcp.Description("Fetch and extract text from linked PDF files"),
		),
	)
	s.AddTool(scrapeSiteTool, handleScrapeSite(apiURL, apiKey))

	crawlSiteTool := mcp.NewTool("crawl_site",
		mcp.WithDescription("Crawl a website starting from a URL without extraction. Returns the page inventory with titles, depths and navigation paths."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The starting URL to crawl from"),
		),
		mcp.WithNumber("max_depth",
			mcp.Description("Maximum crawl depth from the starting URL (default: 3, max: 10)"),
		),
		mcp.WithBoolean("strict_domain",
			mcp.Description("Restrict the crawl to the exact starting host"),
		),
	)
	s.AddTool(crawlSiteTool, handleCrawlSite(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiPost sends a POST request to the Rufus API and returns the response body.
func apiPost(ctx context.Context, client *http.Client, apiURL, apiKey, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// pollJobCompletion polls a job endpoint until status is no longer "processing" or context is cancelled.
func pollJobCompletion(ctx context.Context, client *http.Client, apiURL, apiKey, endpoint string) ([]byte, error) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+endpoint, nil)
			if err != nil {
				return nil, fmt.Errorf("create poll request: %w", err)
			}
			req.Header.Set("X-API-Key", apiKey)

			resp, err := client.Do(req)
			if err != nil {
				return nil, fmt.Errorf("poll request failed: %w", err)
			}

			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("read poll response: %w", err)
			}

			var status struct {
				Status string `json:"status"`
			}
			if err := json.Unmarshal(body, &status); err != nil {
				return nil, fmt.Errorf("parse poll status: %w", err)
			}

			if status.Status != "processing" {
				return body, nil
			}
		}
	}
}

func handleScrapeSite(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 600 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}
		instructions, err := request.RequireString("instructions")
		if err != nil {
			return mcp.NewToolResultError("instructions is required"), nil
		}

		reqBody := scrapeRequest{
			URL:          url,
			Instructions: instructions,
		}

		args := request.GetArguments()
		if strict, ok := args["strict_domain"].(bool); ok {
			reqBody.StrictDomain = strict
		}
		if parsePDFs, ok := args["parse_pdfs"].(bool); ok {
			reqBody.ParsePDFs = parsePDFs
		}
		if maxDepth, ok := args["max_depth"].(float64); ok {
			d := int(maxDepth)
			reqBody.MaxDepth = &d
		}
		if threshold, ok := args["similarity_threshold"].(float64); ok {
			reqBody.SimilarityThreshold = threshold
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/scrape", reqBody)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("scrape request failed: %v", err)), nil
		}

		var scrapeResp scrapeResponse
		if err := json.Unmarshal(respBody, &scrapeResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !scrapeResp.Success {
			errMsg := "scrape failed"
			if scrapeResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", scrapeResp.Error.Code, scrapeResp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		if scrapeResp.Result == nil || len(scrapeResp.Result.Documents) == 0 {
			return mcp.NewToolResultText("No relevant content found."), nil
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Found %d relevant documents across %d sources (cache: %s)\n\n",
			scrapeResp.Result.Metadata.DocumentCount,
			len(scrapeResp.Result.Metadata.Sources),
			scrapeResp.CacheStatus,
		))
		for i, doc := range scrapeResp.Result.Documents {
			sb.WriteString(fmt.Sprintf("--- [%d] %s (%s, score %.3f) ---\n%s\n\n",
				i+1, doc.Title, doc.URL, doc.Score, doc.Content))
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleCrawlSite(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 600 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		payload := map[string]interface{}{
			"url": url,
		}

		args := request.GetArguments()
		if strict, ok := args["strict_domain"]; ok {
			payload["strict_domain"] = strict
		}
		if maxDepth, ok := args["max_depth"]; ok {
			payload["max_depth"] = maxDepth
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/crawl", payload)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("crawl request failed: %v", err)), nil
		}

		var crawlResp crawlResponse
		if err := json.Unmarshal(respBody, &crawlResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse crawl response: %v", err)), nil
		}

		if crawlResp.ID == "" {
			return mcp.NewToolResultError("crawl job creation failed"), nil
		}

		resultBody, err := pollJobCompletion(ctx, client, apiURL, apiKey, "/api/v1/crawl/"+crawlResp.ID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("polling crawl job failed: %v", err)), nil
		}

		var statusResp crawlStatusResponse
		if err := json.Unmarshal(resultBody, &statusResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse crawl status: %v", err)), nil
		}

		if statusResp.Status == "failed" {
			errMsg := "crawl failed"
			if statusResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", statusResp.Error.Code, statusResp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Crawl %s: %s (%d pages)\n\n", statusResp.ID, statusResp.Status, len(statusResp.Pages)))
		for _, p := range statusResp.Pages {
			sb.WriteString(fmt.Sprintf("[depth %d] %s (%s)\n", p.Depth, p.Title, p.URL))
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}
