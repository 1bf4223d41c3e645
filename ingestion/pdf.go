package ingestion

import (
	"bytes"
	"io"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// extractPDF pulls the embedded text layer out of a PDF. A scanned PDF with
// no text layer returns an empty string without error.
func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	b, err := r.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, b); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
