package knowledge

import (
	"context"
	"fmt"

	"github.com/kbukum/flowstack/config"
	"github.com/kbukum/flowstack/logger"
	"github.com/kbukum/flowstack/storage"
	"github.com/kbukum/flowstack/workflow"
)

// Embedder produces embedding vectors for text. The provider name may be
// empty to use the default.
type Embedder interface {
	Embed(ctx context.Context, text, provider string) ([]float32, error)
}

// ChunkStore persists chunks and answers similarity queries.
type ChunkStore interface {
	InsertChunk(ctx context.Context, documentID int64, index int, text string, embedding []float32) error
	DeleteDocumentChunks(ctx context.Context, documentID int64) error
	SearchSimilar(ctx context.Context, embedding []float32, documentID *int64, topK int, threshold float64) ([]storage.ChunkMatch, error)
	MarkEmbeddingsCreated(ctx context.Context, id int64) error
}

// Service indexes documents and implements workflow.Retriever.
type Service struct {
	store    ChunkStore
	embedder Embedder
	cfg      config.KnowledgeConfig
	log      *logger.Logger
}

// NewService creates a knowledge service.
func NewService(store ChunkStore, embedder Embedder, cfg config.KnowledgeConfig) *Service {
	return &Service{
		store:    store,
		embedder: embedder,
		cfg:      cfg,
		log:      logger.WithComponent("knowledge"),
	}
}

// ProcessDocument chunks a document's content, embeds each chunk, and stores
// the results. Chunks whose embedding fails are skipped so one bad chunk does
// not block the rest of the document. Returns the number of chunks indexed.
func (s *Service) ProcessDocument(ctx context.Context, doc *storage.Document) (int, error) {
	chunks := ChunkText(doc.Content, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("document %d has no extractable text", doc.ID)
	}

	// Re-indexing replaces any previous chunks.
	if err := s.store.DeleteDocumentChunks(ctx, doc.ID); err != nil {
		return 0, err
	}

	stored := 0
	for i, chunk := range chunks {
		embedding, err := s.embedder.Embed(ctx, chunk, "")
		if err != nil {
			s.log.WithError(err).Warn("skipping chunk that failed to embed",
				logger.Fields(logger.FieldDocument, doc.ID, "chunk", i))
			continue
		}
		if err := s.store.InsertChunk(ctx, doc.ID, i, chunk, embedding); err != nil {
			return stored, err
		}
		stored++
	}
	if stored == 0 {
		return 0, fmt.Errorf("no chunks of document %d could be embedded", doc.ID)
	}

	if err := s.store.MarkEmbeddingsCreated(ctx, doc.ID); err != nil {
		return stored, err
	}
	s.log.Info("document indexed",
		logger.Fields(logger.FieldDocument, doc.ID, "chunks", stored))
	return stored, nil
}

// Search implements workflow.Retriever. It embeds the query and returns the
// most similar stored chunks.
func (s *Service) Search(ctx context.Context, query string, documentID *int64, topK int, threshold float64) ([]workflow.Chunk, error) {
	embedding, err := s.embedder.Embed(ctx, query, "")
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	matches, err := s.store.SearchSimilar(ctx, embedding, documentID, topK, threshold)
	if err != nil {
		return nil, err
	}

	chunks := make([]workflow.Chunk, 0, len(matches))
	for _, m := range matches {
		chunks = append(chunks, workflow.Chunk{
			Text:       m.Text,
			Similarity: m.Similarity,
			Metadata: map[string]any{
				"document_id": m.DocumentID,
				"chunk_index": m.ChunkIndex,
			},
		})
	}
	return chunks, nil
}
