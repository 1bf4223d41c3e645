package storage

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	apperrors "github.com/kbukum/flowstack/errors"
)

// Document is an uploaded file tracked for knowledge retrieval.
type Document struct {
	ID                int64     `json:"id"`
	Filename          string    `json:"filename"`
	OriginalFilename  string    `json:"original_filename"`
	FilePath          string    `json:"file_path"`
	FileSize          int64     `json:"file_size"`
	FileType          string    `json:"file_type"`
	Content           string    `json:"-"`
	EmbeddingsCreated bool      `json:"embeddings_created"`
	CreatedAt         time.Time `json:"created_at"`
}

// CreateDocument inserts a document record and fills in its assigned id.
func (s *Store) CreateDocument(ctx context.Context, d *Document) error {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO documents (filename, original_filename, file_path, file_size, file_type, content)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		d.Filename, d.OriginalFilename, d.FilePath, d.FileSize, d.FileType, d.Content)
	if err := row.Scan(&d.ID, &d.CreatedAt); err != nil {
		return apperrors.DatabaseError(err)
	}
	return nil
}

// GetDocument fetches a document by id, including its extracted content.
func (s *Store) GetDocument(ctx context.Context, id int64) (*Document, error) {
	var d Document
	row := s.db.QueryRowContext(ctx,
		`SELECT id, filename, original_filename, file_path, file_size, file_type,
		        COALESCE(content, ''), embeddings_created, created_at
		 FROM documents WHERE id = $1`, id)
	err := row.Scan(&d.ID, &d.Filename, &d.OriginalFilename, &d.FilePath, &d.FileSize,
		&d.FileType, &d.Content, &d.EmbeddingsCreated, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("document", strconv.FormatInt(id, 10))
		}
		return nil, apperrors.DatabaseError(err)
	}
	return &d, nil
}

// ListDocuments returns all documents, newest first. Content is omitted.
func (s *Store) ListDocuments(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, original_filename, file_path, file_size, file_type,
		        embeddings_created, created_at
		 FROM documents ORDER BY created_at DESC`)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Filename, &d.OriginalFilename, &d.FilePath, &d.FileSize,
			&d.FileType, &d.EmbeddingsCreated, &d.CreatedAt); err != nil {
			return nil, apperrors.DatabaseError(err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// MarkEmbeddingsCreated flags a document as fully indexed.
func (s *Store) MarkEmbeddingsCreated(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET embeddings_created = TRUE WHERE id = $1`, id)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("document", strconv.FormatInt(id, 10))
	}
	return nil
}

// DeleteDocument removes a document. Its chunks cascade at the database level.
func (s *Store) DeleteDocument(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("document", strconv.FormatInt(id, 10))
	}
	return nil
}
