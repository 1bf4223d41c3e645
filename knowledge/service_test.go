package knowledge

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kbukum/flowstack/config"
	"github.com/kbukum/flowstack/storage"
)

type fakeEmbedder struct {
	failOn  map[string]bool
	embedFn func(text string) []float32
	calls   []string
}

func (f *fakeEmbedder) Embed(_ context.Context, text, _ string) ([]float32, error) {
	f.calls = append(f.calls, text)
	if f.failOn[text] {
		return nil, errors.New("embedding failed")
	}
	if f.embedFn != nil {
		return f.embedFn(text), nil
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeChunkStore struct {
	inserted   []storage.ChunkRecord
	deleted    []int64
	marked     []int64
	matches    []storage.ChunkMatch
	insertErr  error
	lastSearch struct {
		documentID *int64
		topK       int
		threshold  float64
	}
}

func (f *fakeChunkStore) InsertChunk(_ context.Context, documentID int64, index int, text string, _ []float32) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, storage.ChunkRecord{DocumentID: documentID, ChunkIndex: index, Text: text})
	return nil
}

func (f *fakeChunkStore) DeleteDocumentChunks(_ context.Context, documentID int64) error {
	f.deleted = append(f.deleted, documentID)
	return nil
}

func (f *fakeChunkStore) SearchSimilar(_ context.Context, _ []float32, documentID *int64, topK int, threshold float64) ([]storage.ChunkMatch, error) {
	f.lastSearch.documentID = documentID
	f.lastSearch.topK = topK
	f.lastSearch.threshold = threshold
	return f.matches, nil
}

func (f *fakeChunkStore) MarkEmbeddingsCreated(_ context.Context, id int64) error {
	f.marked = append(f.marked, id)
	return nil
}

func knowledgeConfig() config.KnowledgeConfig {
	return config.KnowledgeConfig{ChunkSize: 100, ChunkOverlap: 20, TopK: 5, SimilarityThreshold: 0.7}
}

func TestProcessDocument_IndexesChunks(t *testing.T) {
	store := &fakeChunkStore{}
	embedder := &fakeEmbedder{}
	svc := NewService(store, embedder, knowledgeConfig())

	doc := &storage.Document{ID: 7, Content: strings.Repeat("sentence. ", 40)}
	n, err := svc.ProcessDocument(context.Background(), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n == 0 || n != len(store.inserted) {
		t.Fatalf("stored count mismatch: returned %d, inserted %d", n, len(store.inserted))
	}
	if len(store.deleted) != 1 || store.deleted[0] != 7 {
		t.Fatalf("expected prior chunks of document 7 removed, got %v", store.deleted)
	}
	if len(store.marked) != 1 || store.marked[0] != 7 {
		t.Fatalf("expected document 7 marked indexed, got %v", store.marked)
	}
}

func TestProcessDocument_SkipsFailedChunks(t *testing.T) {
	text := strings.Repeat("alpha. ", 20) + strings.Repeat("beta. ", 20)
	chunks := ChunkText(text, 100, 20)
	if len(chunks) < 2 {
		t.Fatalf("test needs multiple chunks, got %d", len(chunks))
	}

	store := &fakeChunkStore{}
	embedder := &fakeEmbedder{failOn: map[string]bool{chunks[0]: true}}
	svc := NewService(store, embedder, knowledgeConfig())

	n, err := svc.ProcessDocument(context.Background(), &storage.Document{ID: 1, Content: text})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != len(chunks)-1 {
		t.Fatalf("expected %d stored chunks, got %d", len(chunks)-1, n)
	}
}

func TestProcessDocument_EmptyContent(t *testing.T) {
	svc := NewService(&fakeChunkStore{}, &fakeEmbedder{}, knowledgeConfig())
	if _, err := svc.ProcessDocument(context.Background(), &storage.Document{ID: 2}); err == nil {
		t.Fatal("expected error for document without text")
	}
}

func TestProcessDocument_AllChunksFail(t *testing.T) {
	store := &fakeChunkStore{}
	embedder := &fakeEmbedder{failOn: map[string]bool{"only chunk": true}}
	svc := NewService(store, embedder, knowledgeConfig())

	_, err := svc.ProcessDocument(context.Background(), &storage.Document{ID: 3, Content: "only chunk"})
	if err == nil {
		t.Fatal("expected error when nothing could be embedded")
	}
	if len(store.marked) != 0 {
		t.Fatal("document must not be marked indexed")
	}
}

func TestSearch_MapsMatchesToChunks(t *testing.T) {
	store := &fakeChunkStore{matches: []storage.ChunkMatch{
		{ChunkRecord: storage.ChunkRecord{DocumentID: 4, ChunkIndex: 0, Text: "relevant text"}, Similarity: 0.91},
	}}
	svc := NewService(store, &fakeEmbedder{}, knowledgeConfig())

	docID := int64(4)
	chunks, err := svc.Search(context.Background(), "question", &docID, 3, 0.8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 || chunks[0].Text != "relevant text" || chunks[0].Similarity != 0.91 {
		t.Fatalf("unexpected chunks: %+v", chunks)
	}
	if store.lastSearch.documentID == nil || *store.lastSearch.documentID != 4 {
		t.Fatal("document filter not forwarded")
	}
	if store.lastSearch.topK != 3 || store.lastSearch.threshold != 0.8 {
		t.Fatalf("search options not forwarded: %+v", store.lastSearch)
	}
}

func TestSearch_EmbeddingFailure(t *testing.T) {
	embedder := &fakeEmbedder{failOn: map[string]bool{"question": true}}
	svc := NewService(&fakeChunkStore{}, embedder, knowledgeConfig())

	if _, err := svc.Search(context.Background(), "question", nil, 3, 0.7); err == nil {
		t.Fatal("expected error when the query cannot be embedded")
	}
}
