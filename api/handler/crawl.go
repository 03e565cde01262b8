package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rufuslabs/rufus/crawler"
	"github.com/rufuslabs/rufus/models"
	"github.com/rufuslabs/rufus/rufus"
)

// JobStore holds in-flight and completed crawl jobs. It is an explicit
// store passed into the handlers, not package-level state, so tests can
// run isolated instances.
//
// Jobs are stored by value as immutable snapshots: a status change is a
// fresh Put, never a mutation of a stored job, so readers polling a job
// never race with the crawl goroutine.
type JobStore struct {
	jobs sync.Map // job ID -> models.CrawlJob
}

// NewJobStore creates a JobStore and starts a background sweeper that
// expires jobs older than 1 hour every 5 minutes.
func NewJobStore() *JobStore {
	s := &JobStore{}
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			s.expire(time.Now().Add(-1 * time.Hour).Unix())
		}
	}()
	return s
}

// Put stores a job snapshot, replacing any previous snapshot for its ID.
func (s *JobStore) Put(job models.CrawlJob) {
	s.jobs.Store(job.ID, job)
}

// Get returns the latest snapshot of a job.
func (s *JobStore) Get(id string) (models.CrawlJob, bool) {
	val, ok := s.jobs.Load(id)
	if !ok {
		return models.CrawlJob{}, false
	}
	return val.(models.CrawlJob), true
}

// expire deletes jobs created before the cutoff unix timestamp.
func (s *JobStore) expire(cutoff int64) {
	s.jobs.Range(func(key, value any) bool {
		if value.(models.CrawlJob).CreatedAt < cutoff {
			s.jobs.Delete(key)
		}
		return true
	})
}

// PostCrawl returns a handler for POST /api/v1/crawl. The crawl runs in
// the background; clients poll GET /api/v1/crawl/:id for its pages.
func PostCrawl(client *rufus.Client, store *JobStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CrawlRequest
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
		req.Defaults()

		job := models.CrawlJob{
			ID:        "crawl-" + uuid.NewString(),
			Status:    "processing",
			CreatedAt: time.Now().Unix(),
		}
		store.Put(job)

		go runCrawl(client, store, job, req)

		c.JSON(http.StatusOK, models.CrawlResponse{
			ID:     job.ID,
			Status: "processing",
		})
	}
}

// GetCrawl returns a handler for GET /api/v1/crawl/:id.
func GetCrawl(store *JobStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		job, ok := store.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "crawl job not found",
				},
			})
			return
		}

		c.JSON(http.StatusOK, models.CrawlStatusResponse{
			ID:     job.ID,
			Status: job.Status,
			Pages:  job.Pages,
			Error:  job.Err,
		})
	}
}

// runCrawl executes the traversal in the background and stores the
// outcome as a new job snapshot.
func runCrawl(client *rufus.Client, store *JobStore, job models.CrawlJob, req models.CrawlRequest) {
	pages, err := client.Crawl(context.Background(), crawler.Request{
		StartURL:     req.URL,
		MaxDepth:     *req.MaxDepth,
		StrictDomain: req.StrictDomain,
		ParsePDFs:    req.ParsePDFs,
	})
	if err != nil {
		job.Status = "failed"
		job.Err = &models.ErrorDetail{Code: models.ErrCodeCrawlFailed, Message: err.Error()}
		store.Put(job)
		slog.Warn("crawl job failed", "id", job.ID, "error", err)
		return
	}

	job.Status = "completed"
	job.Pages = pages
	store.Put(job)
	slog.Info("crawl job finished", "id", job.ID, "pages", len(pages))
}
