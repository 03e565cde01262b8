package synthesizer

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rufuslabs/rufus/models"
)

func sampleResult() *models.ScrapeResult {
	return &models.ScrapeResult{
		Documents: []models.ExtractionRecord{
			{
				URL:         "https://example.com/pricing",
				Title:       "Pricing",
				Depth:       1,
				ContentType: models.ContentTypeHTML,
				Content:     "Plans start at $10 per month.",
				ChunkIndex:  0,
				ChunkCount:  2,
				Score:       0.91,
			},
			{
				URL:         "https://example.com/faq",
				Title:       "FAQ, with commas",
				Depth:       2,
				ContentType: models.ContentTypeHTML,
				Content:     "Refunds are available within 30 days.\nContact support.",
				ChunkIndex:  1,
				ChunkCount:  3,
				Score:       0.75,
			},
		},
		Metadata: models.ScrapeMetadata{
			DocumentCount: 2,
			Sources:       []string{"https://example.com/pricing", "https://example.com/faq"},
		},
	}
}

func TestSynthesize_JSON(t *testing.T) {
	data, contentType, err := Synthesize(sampleResult(), FormatJSON)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if contentType != "application/json" {
		t.Errorf("content type = %q", contentType)
	}

	var round models.ScrapeResult
	if err := json.Unmarshal(data, &round); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if round.Metadata.DocumentCount != 2 || len(round.Documents) != 2 {
		t.Errorf("round trip lost documents: %+v", round.Metadata)
	}
}

func TestSynthesize_EmptyFormatDefaultsToJSON(t *testing.T) {
	data, contentType, err := Synthesize(sampleResult(), "")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if contentType != "application/json" {
		t.Errorf("content type = %q, want application/json", contentType)
	}
	if !json.Valid(data) {
		t.Error("default format output is not JSON")
	}
}

func TestSynthesize_CSV(t *testing.T) {
	data, contentType, err := Synthesize(sampleResult(), FormatCSV)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if contentType != "text/csv" {
		t.Errorf("content type = %q", contentType)
	}

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}

	header := strings.Join(rows[0], ",")
	if header != "url,title,depth,relevance_score,content" {
		t.Errorf("header = %q", header)
	}
	// Embedded commas and newlines must survive quoting.
	if rows[2][1] != "FAQ, with commas" {
		t.Errorf("title with comma corrupted: %q", rows[2][1])
	}
	if !strings.Contains(rows[2][4], "\n") {
		t.Errorf("multiline content corrupted: %q", rows[2][4])
	}
	if rows[1][3] != "0.9100" {
		t.Errorf("score formatting = %q, want 0.9100", rows[1][3])
	}
}

func TestSynthesize_Markdown(t *testing.T) {
	data, contentType, err := Synthesize(sampleResult(), FormatMarkdown)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if contentType != "text/markdown" {
		t.Errorf("content type = %q", contentType)
	}

	out := string(data)
	for _, want := range []string{
		"# Extraction Report",
		"## Sources",
		"https://example.com/pricing",
		"## 1. Pricing",
		"Plans start at $10 per month.",
		"0.9100",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q:\n%s", want, out)
		}
	}
}

func TestSynthesize_EmptyResult(t *testing.T) {
	empty := &models.ScrapeResult{
		Documents: []models.ExtractionRecord{},
		Metadata:  models.ScrapeMetadata{DocumentCount: 0, Sources: []string{}},
	}

	for _, format := range []string{FormatJSON, FormatCSV, FormatMarkdown} {
		data, _, err := Synthesize(empty, format)
		if err != nil {
			t.Errorf("format %s on empty result: %v", format, err)
		}
		if len(data) == 0 {
			t.Errorf("format %s produced no output for empty result", format)
		}
	}
}

func TestSynthesize_UnknownFormat(t *testing.T) {
	_, _, err := Synthesize(sampleResult(), "xml")
	var rufusErr *models.RufusError
	if !errors.As(err, &rufusErr) || rufusErr.Code != models.ErrCodeInvalidInput {
		t.Fatalf("got %v, want INVALID_INPUT", err)
	}
}
