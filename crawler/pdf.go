package crawler

import (
	"bytes"
	"net/url"
	"path"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/rufuslabs/rufus/models"
)

// PDFExtractor turns raw PDF bytes into plain text.
type PDFExtractor interface {
	ExtractText(data []byte) (string, error)
}

// pdfExtractor is the production PDFExtractor backed by ledongthuc/pdf.
type pdfExtractor struct{}

// NewPDFExtractor returns the default PDF text extractor.
func NewPDFExtractor() PDFExtractor {
	return pdfExtractor{}
}

// ExtractText decodes the PDF and concatenates its plain text. A PDF
// that decodes to empty text is an error: the caller drops the node.
func (pdfExtractor) ExtractText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", models.NewRufusError(models.ErrCodePDFExtraction, "parse pdf", err)
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return "", models.NewRufusError(models.ErrCodePDFExtraction, "extract text", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(textReader); err != nil {
		return "", models.NewRufusError(models.ErrCodePDFExtraction, "read text", err)
	}

	text := strings.TrimSpace(buf.String())
	if text == "" {
		return "", models.NewRufusError(models.ErrCodePDFExtraction, "pdf contains no extractable text", nil)
	}
	return text, nil
}

// pdfTitle derives a human-readable title from the PDF's filename:
// "annual-report_2024.pdf" becomes "annual report 2024".
func pdfTitle(rawURL string) string {
	name := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		name = u.Path
	}
	name = path.Base(name)
	name = strings.TrimSuffix(name, path.Ext(name))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	name = strings.TrimSpace(name)
	if name == "" || name == "/" || name == "." {
		return "PDF Document"
	}
	return name
}
