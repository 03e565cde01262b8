// Package extractor is the relevance pipeline: it chunks crawled pages
// and retains the chunks whose embedding similarity to the instruction
// strictly exceeds a threshold.
package extractor

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/rufuslabs/rufus/chunker"
	"github.com/rufuslabs/rufus/embedding"
	"github.com/rufuslabs/rufus/models"
)

// Extractor scores page chunks against an instruction embedding.
type Extractor struct {
	embedder embedding.Embedder
}

// New creates an Extractor backed by the given embedding collaborator.
func New(embedder embedding.Embedder) *Extractor {
	return &Extractor{embedder: embedder}
}

// Extract chunks each page's cleaned text, embeds the chunks (batched
// per page), and returns one ExtractionRecord per chunk whose cosine
// similarity to the instruction strictly exceeds threshold, sorted by
// descending score. Ties preserve discovery order: page order, then
// chunk index.
//
// A page whose embedding call fails is dropped with a warning; only a
// failure to embed the instruction itself aborts the run.
func (e *Extractor) Extract(ctx context.Context, pages []models.PageRecord, instructions string, threshold float64, chunkSize int) ([]models.ExtractionRecord, error) {
	if strings.TrimSpace(instructions) == "" {
		return nil, models.NewRufusError(models.ErrCodeInvalidInput, "instructions must not be empty", nil)
	}

	instVectors, err := e.embedder.Embed(ctx, []string{instructions})
	if err != nil {
		return nil, err
	}
	if len(instVectors) != 1 {
		return nil, models.NewRufusError(models.ErrCodeEmbeddingFailure, "no embedding returned for instructions", nil)
	}
	instVector := instVectors[0]

	var records []models.ExtractionRecord

	for _, page := range pages {
		chunks := chunker.Split(page.Text, chunkSize)
		if len(chunks) == 0 {
			continue
		}

		vectors, err := e.embedder.Embed(ctx, chunks)
		if err != nil {
			slog.Warn("embedding failed, dropping page", "url", page.URL, "error", err)
			continue
		}

		for i, vec := range vectors {
			score := embedding.Cosine(instVector, vec)
			if score > threshold {
				records = append(records, models.ExtractionRecord{
					URL:         page.URL,
					Title:       page.Title,
					Depth:       page.Depth,
					ContentType: page.ContentType,
					Path:        page.Path,
					Content:     chunks[i],
					PageText:    page.Text,
					ChunkIndex:  i,
					ChunkCount:  len(chunks),
					Score:       score,
				})
			}
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Score > records[j].Score
	})
	return records, nil
}
