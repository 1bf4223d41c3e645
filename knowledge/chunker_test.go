package knowledge

import (
	"strings"
	"testing"
)

func TestChunkText_Empty(t *testing.T) {
	if got := ChunkText("   ", 100, 20); got != nil {
		t.Fatalf("expected nil for blank text, got %v", got)
	}
}

func TestChunkText_ShortTextSingleChunk(t *testing.T) {
	got := ChunkText("short document", 100, 20)
	if len(got) != 1 || got[0] != "short document" {
		t.Fatalf("expected single chunk, got %v", got)
	}
}

func TestChunkText_SplitsLongText(t *testing.T) {
	text := strings.Repeat("word ", 300) // 1500 runes
	chunks := ChunkText(text, 400, 80)

	if len(chunks) < 3 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len([]rune(c)) > 400 {
			t.Fatalf("chunk %d exceeds size limit: %d runes", i, len([]rune(c)))
		}
	}
}

func TestChunkText_PrefersSentenceBoundary(t *testing.T) {
	first := strings.Repeat("a", 350) + ". "
	text := first + strings.Repeat("b", 200)
	chunks := ChunkText(text, 400, 50)

	if !strings.HasSuffix(chunks[0], ".") {
		t.Fatalf("first chunk should end at the sentence boundary, got %q", chunks[0][len(chunks[0])-10:])
	}
}

func TestChunkText_AdvancesPastEarlySentenceBreak(t *testing.T) {
	// A sentence boundary near the chunk start pulls the cut back far enough
	// that end - overlap would not move start forward. The chunker must still
	// terminate and cover the whole text.
	text := strings.Repeat("a", 155) + "." + strings.Repeat("a", 300)
	chunks := ChunkText(text, 250, 200)

	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	last := chunks[len(chunks)-1]
	if !strings.HasSuffix(text, last) {
		t.Fatal("final chunk should reach the end of the text")
	}
}

func TestChunkText_OverlapCarriesText(t *testing.T) {
	text := strings.Repeat("x", 1000)
	chunks := ChunkText(text, 400, 100)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	// With no sentence boundaries, each chunk restarts overlap runes back.
	tail := chunks[0][len(chunks[0])-100:]
	if !strings.HasPrefix(chunks[1], tail) {
		t.Fatal("second chunk should begin with the overlap of the first")
	}
}
