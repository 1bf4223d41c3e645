package storage

import (
	"context"

	"github.com/pgvector/pgvector-go"

	apperrors "github.com/kbukum/flowstack/errors"
)

// ChunkRecord is a stored document chunk with its embedding.
type ChunkRecord struct {
	ID         int64
	DocumentID int64
	ChunkIndex int
	Text       string
}

// ChunkMatch is a similarity search hit.
type ChunkMatch struct {
	ChunkRecord
	Similarity float64
}

// InsertChunk stores one chunk and its embedding vector.
func (s *Store) InsertChunk(ctx context.Context, documentID int64, index int, text string, embedding []float32) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO document_chunks (document_id, chunk_index, text, embedding)
		 VALUES ($1, $2, $3, $4)`,
		documentID, index, text, pgvector.NewVector(embedding))
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	return nil
}

// DeleteDocumentChunks removes every chunk for a document. Used when a
// document is re-indexed.
func (s *Store) DeleteDocumentChunks(ctx context.Context, documentID int64) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM document_chunks WHERE document_id = $1`, documentID); err != nil {
		return apperrors.DatabaseError(err)
	}
	return nil
}

// SearchSimilar returns the topK chunks most similar to the query embedding,
// using cosine similarity and keeping only matches at or above threshold.
// A non-nil documentID restricts the search to a single document.
func (s *Store) SearchSimilar(ctx context.Context, embedding []float32, documentID *int64, topK int, threshold float64) ([]ChunkMatch, error) {
	vec := pgvector.NewVector(embedding)

	query := `SELECT id, document_id, chunk_index, text, 1 - (embedding <=> $1) AS similarity
	          FROM document_chunks
	          WHERE 1 - (embedding <=> $1) >= $2`
	args := []any{vec, threshold}
	if documentID != nil {
		query += ` AND document_id = $3
	          ORDER BY embedding <=> $1 LIMIT $4`
		args = append(args, *documentID, topK)
	} else {
		query += `
	          ORDER BY embedding <=> $1 LIMIT $3`
		args = append(args, topK)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	defer rows.Close()

	var matches []ChunkMatch
	for rows.Next() {
		var m ChunkMatch
		if err := rows.Scan(&m.ID, &m.DocumentID, &m.ChunkIndex, &m.Text, &m.Similarity); err != nil {
			return nil, apperrors.DatabaseError(err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
