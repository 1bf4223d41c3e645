package ingestion

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// ExtractTextWithOCR runs OCR on an image, or on a scanned PDF by rendering
// its pages to PNGs with pdftoppm first.
func ExtractTextWithOCR(path string) (string, error) {
	if strings.ToLower(filepath.Ext(path)) != ".pdf" {
		return runTesseract(path)
	}

	tmpPrefix := filepath.Join(os.TempDir(), "flowstack_pdfimg")
	if err := exec.Command("pdftoppm", "-png", path, tmpPrefix).Run(); err != nil {
		return "", fmt.Errorf("pdftoppm convert failed: %w", err)
	}
	pages, err := filepath.Glob(tmpPrefix + "-*.png")
	if err != nil {
		return "", err
	}
	defer func() {
		for _, p := range pages {
			os.Remove(p)
		}
	}()

	var combined strings.Builder
	for _, page := range pages {
		text, err := runTesseract(page)
		if err != nil {
			continue
		}
		combined.WriteString(text)
		combined.WriteString("\n")
	}
	return strings.TrimSpace(combined.String()), nil
}

func runTesseract(imgPath string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetImage(imgPath); err != nil {
		return "", err
	}
	text, err := client.Text()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
