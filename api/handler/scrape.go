package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rufuslabs/rufus/config"
	"github.com/rufuslabs/rufus/models"
	"github.com/rufuslabs/rufus/rufus"
	"github.com/rufuslabs/rufus/synthesizer"
)

// Scrape returns a handler for POST /api/v1/scrape.
//
// Orchestration flow:
//  1. Parse & validate request, apply defaults.
//  2. Client.Scrape → crawl + extract, consulting both result caches.
//  3. Synthesize to the requested output format.
func Scrape(client *rufus.Client, extCfg config.ExtractorConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		var req models.ScrapeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ScrapeResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		// Config-level defaults take precedence over the model fallbacks.
		if req.SimilarityThreshold == 0 {
			req.SimilarityThreshold = extCfg.SimilarityThreshold
		}
		if req.ChunkSize == 0 {
			req.ChunkSize = extCfg.ChunkSize
		}
		req.Defaults()

		result, cacheStatus, timing, err := client.Scrape(c.Request.Context(), rufus.ScrapeOptions{
			StartURL:     req.URL,
			Instructions: req.Instructions,
			MaxDepth:     *req.MaxDepth,
			StrictDomain: req.StrictDomain,
			ParsePDFs:    req.ParsePDFs,
			Threshold:    req.SimilarityThreshold,
			ChunkSize:    req.ChunkSize,
		})
		if err != nil {
			respondError(c, err, models.TimingInfo{
				TotalMs:      time.Since(totalStart).Milliseconds(),
				CrawlMs:      timing.Crawl.Milliseconds(),
				ExtractionMs: timing.Extraction.Milliseconds(),
			})
			return
		}

		// Non-JSON formats bypass the response envelope.
		if req.OutputFormat != synthesizer.FormatJSON {
			data, contentType, err := synthesizer.Synthesize(result, req.OutputFormat)
			if err != nil {
				respondError(c, err, models.TimingInfo{
					TotalMs: time.Since(totalStart).Milliseconds(),
				})
				return
			}
			c.Data(http.StatusOK, contentType, data)
			return
		}

		c.JSON(http.StatusOK, models.ScrapeResponse{
			Success:     true,
			Result:      result,
			CacheStatus: cacheStatus,
			Timing: models.TimingInfo{
				TotalMs:      time.Since(totalStart).Milliseconds(),
				CrawlMs:      timing.Crawl.Milliseconds(),
				ExtractionMs: timing.Extraction.Milliseconds(),
			},
		})
	}
}

// respondError maps a RufusError to the correct HTTP status code and
// writes a structured JSON error response.
func respondError(c *gin.Context, err error, timing models.TimingInfo) {
	var rufusErr *models.RufusError
	if !errors.As(err, &rufusErr) {
		rufusErr = models.NewRufusError(models.ErrCodeInternal, err.Error(), err)
	}

	c.JSON(mapErrorToStatus(rufusErr), models.ScrapeResponse{
		Success: false,
		Error:   rufusErr.ToDetail(),
		Timing:  timing,
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.RufusError) int {
	switch e.Code {
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeUnauthorized, models.ErrCodeEmbeddingAuthFailure:
		return http.StatusUnauthorized // 401
	case models.ErrCodeRateLimited, models.ErrCodeEmbeddingRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeFetchFailed, models.ErrCodeCrawlFailed:
		return http.StatusBadGateway // 502
	default:
		return http.StatusInternalServerError // 500
	}
}
