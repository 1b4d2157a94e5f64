package readers

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFReader extracts text from PDF documents using a pure-Go parser.
type PDFReader struct{}

// Extensions returns the file extensions this reader handles.
func (r *PDFReader) Extensions() []string {
	return []string{".pdf"}
}

// Read returns the plain text of all readable pages, separated by blank
// lines. Pages whose content cannot be decoded are skipped rather than
// failing the whole document.
func (r *PDFReader) Read(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF file; %w", err)
	}
	if len(content) == 0 {
		return "", fmt.Errorf("empty PDF file: %s", path)
	}

	doc, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF; %w", err)
	}

	var text strings.Builder
	for i := 1; i <= doc.NumPage(); i++ {
		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			continue
		}

		if text.Len() > 0 {
			text.WriteString("\n\n")
		}
		text.WriteString(pageText)
	}

	return strings.TrimSpace(text.String()), nil
}
