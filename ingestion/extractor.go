// Package ingestion extracts plain text from uploaded files so they can be
// chunked and embedded.
package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExtractText reads a file and returns its plain-text content, dispatching on
// the file extension. PDFs that yield no embedded text fall back to OCR.
func ExtractText(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, err := extractPDF(path)
		if err != nil || strings.TrimSpace(text) == "" {
			// Scanned PDFs carry no text layer.
			if ocrText, ocrErr := ExtractTextWithOCR(path); ocrErr == nil && ocrText != "" {
				return ocrText, nil
			}
		}
		if err != nil {
			return "", fmt.Errorf("extracting pdf text: %w", err)
		}
		return text, nil
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading file: %w", err)
		}
		return string(data), nil
	case ".png", ".jpg", ".jpeg", ".tiff":
		return ExtractTextWithOCR(path)
	default:
		return "", fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
}
