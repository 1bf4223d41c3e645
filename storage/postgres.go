// Package storage provides PostgreSQL persistence for workflows, documents,
// and vector-indexed document chunks, plus Redis-backed chat sessions.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/kbukum/flowstack/config"
	"github.com/kbukum/flowstack/logger"
	"github.com/kbukum/flowstack/observability"
)

// Store wraps the PostgreSQL connection pool.
type Store struct {
	db  *sql.DB
	log *logger.Logger
	// dimensions is the embedding vector width for the chunks table.
	dimensions int
}

// NewStore opens a connection pool and verifies connectivity.
func NewStore(ctx context.Context, cfg config.DatabaseConfig, dimensions int) (*Store, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Store{
		db:         db,
		log:        logger.WithComponent("storage"),
		dimensions: dimensions,
	}, nil
}

// Migrate creates the schema if it does not exist. The pgvector extension
// must be installable by the connecting role.
func (s *Store) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS workflows (
			id          BIGSERIAL PRIMARY KEY,
			name        VARCHAR(255) NOT NULL,
			description TEXT,
			nodes       JSONB NOT NULL,
			edges       JSONB NOT NULL,
			is_active   BOOLEAN NOT NULL DEFAULT TRUE,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at  TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS documents (
			id                 BIGSERIAL PRIMARY KEY,
			filename           VARCHAR(255) NOT NULL,
			original_filename  VARCHAR(255) NOT NULL,
			file_path          VARCHAR(500) NOT NULL,
			file_size          BIGINT NOT NULL,
			file_type          VARCHAR(50) NOT NULL,
			content            TEXT,
			embeddings_created BOOLEAN NOT NULL DEFAULT FALSE,
			created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS document_chunks (
			id          BIGSERIAL PRIMARY KEY,
			document_id BIGINT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			chunk_index INT NOT NULL,
			text        TEXT NOT NULL,
			embedding   vector(%d) NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, s.dimensions),
		`CREATE INDEX IF NOT EXISTS idx_document_chunks_document_id ON document_chunks(document_id)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("running migration: %w", err)
		}
	}

	s.log.Info("database schema ready")
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// CheckHealth implements observability.HealthChecker.
func (s *Store) CheckHealth(ctx context.Context) observability.Health {
	if err := s.db.PingContext(ctx); err != nil {
		return observability.Health{
			Name:    "postgres",
			Status:  observability.HealthStatusDown,
			Message: err.Error(),
		}
	}
	return observability.Health{Name: "postgres", Status: observability.HealthStatusUp}
}
