// Package synthesizer converts assembled scrape results into downstream
// document formats: JSON, a flat CSV table, or a Markdown report.
package synthesizer

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/rufuslabs/rufus/models"
)

// Supported output formats.
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
)

// Synthesize renders a ScrapeResult in the requested format and returns
// the bytes together with the matching Content-Type.
func Synthesize(result *models.ScrapeResult, format string) ([]byte, string, error) {
	switch format {
	case FormatJSON, "":
		return synthesizeJSON(result)
	case FormatCSV:
		return synthesizeCSV(result)
	case FormatMarkdown:
		return synthesizeMarkdown(result)
	default:
		return nil, "", models.NewRufusError(models.ErrCodeInvalidInput,
			fmt.Sprintf("unsupported format: %s", format), nil)
	}
}

func synthesizeJSON(result *models.ScrapeResult) ([]byte, string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, "", models.NewRufusError(models.ErrCodeInternal, "marshal result", err)
	}
	return data, "application/json", nil
}

func synthesizeCSV(result *models.ScrapeResult) ([]byte, string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"url", "title", "depth", "relevance_score", "content"}); err != nil {
		return nil, "", models.NewRufusError(models.ErrCodeInternal, "write csv header", err)
	}

	for _, doc := range result.Documents {
		row := []string{
			doc.URL,
			doc.Title,
			strconv.Itoa(doc.Depth),
			strconv.FormatFloat(doc.Score, 'f', 4, 64),
			doc.Content,
		}
		if err := w.Write(row); err != nil {
			return nil, "", models.NewRufusError(models.ErrCodeInternal, "write csv row", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", models.NewRufusError(models.ErrCodeInternal, "flush csv", err)
	}
	return buf.Bytes(), "text/csv", nil
}

func synthesizeMarkdown(result *models.ScrapeResult) ([]byte, string, error) {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	md.H1("Extraction Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Documents", strconv.Itoa(result.Metadata.DocumentCount)},
			{"Distinct sources", strconv.Itoa(len(result.Metadata.Sources))},
		},
	})
	md.PlainText("")

	if len(result.Metadata.Sources) > 0 {
		md.H2("Sources")
		md.BulletList(result.Metadata.Sources...)
		md.PlainText("")
	}

	for i, doc := range result.Documents {
		md.H2(fmt.Sprintf("%d. %s", i+1, doc.Title))
		md.Table(markdown.TableSet{
			Header: []string{"Property", "Value"},
			Rows: [][]string{
				{"URL", doc.URL},
				{"Depth", strconv.Itoa(doc.Depth)},
				{"Content type", string(doc.ContentType)},
				{"Chunk", fmt.Sprintf("%d of %d", doc.ChunkIndex+1, doc.ChunkCount)},
				{"Relevance", strconv.FormatFloat(doc.Score, 'f', 4, 64)},
			},
		})
		md.PlainText("")
		md.PlainText(doc.Content)
		md.PlainText("")
	}

	if err := md.Build(); err != nil {
		return nil, "", models.NewRufusError(models.ErrCodeInternal, "build markdown", err)
	}
	return buf.Bytes(), "text/markdown", nil
}
