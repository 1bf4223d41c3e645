// Package knowledge turns uploaded documents into embedded chunks and
// serves similarity search over them.
package knowledge

import "strings"

// sentenceScanWindow bounds how far back from a hard cut we look for a
// sentence boundary before giving up and cutting mid-sentence.
const sentenceScanWindow = 100

// ChunkText splits text into overlapping chunks of at most chunkSize runes.
// Cuts prefer sentence boundaries near the chunk end so embeddings stay
// coherent. Each chunk after the first starts overlap runes before the
// previous cut.
func ChunkText(text string, chunkSize, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + chunkSize
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = breakAtSentence(runes, start, end)
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end == len(runes) {
			break
		}
		// A sentence break close to start can make end - overlap land at or
		// before the current start; continue from end so the loop always
		// advances.
		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// breakAtSentence scans backwards from end looking for sentence-ending
// punctuation, returning the position just after it. Falls back to the
// original end when no boundary is found within the scan window.
func breakAtSentence(runes []rune, start, end int) int {
	limit := end - sentenceScanWindow
	if limit < start {
		limit = start
	}
	for i := end - 1; i > limit; i-- {
		switch runes[i] {
		case '.', '!', '?':
			return i + 1
		}
	}
	return end
}
