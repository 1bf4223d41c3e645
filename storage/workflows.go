package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	apperrors "github.com/kbukum/flowstack/errors"
)

// Workflow is a stored node/edge description.
type Workflow struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Nodes       json.RawMessage `json:"nodes"`
	Edges       json.RawMessage `json:"edges"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

// CreateWorkflow inserts a workflow and returns it with its assigned id.
func (s *Store) CreateWorkflow(ctx context.Context, w *Workflow) error {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO workflows (name, description, nodes, edges, is_active)
		 VALUES ($1, $2, $3, $4, TRUE)
		 RETURNING id, is_active, created_at`,
		w.Name, w.Description, w.Nodes, w.Edges)
	if err := row.Scan(&w.ID, &w.IsActive, &w.CreatedAt); err != nil {
		return apperrors.DatabaseError(err)
	}
	return nil
}

// GetWorkflow fetches a workflow by id.
func (s *Store) GetWorkflow(ctx context.Context, id int64) (*Workflow, error) {
	var w Workflow
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, COALESCE(description, ''), nodes, edges, is_active, created_at, updated_at
		 FROM workflows WHERE id = $1`, id)
	if err := row.Scan(&w.ID, &w.Name, &w.Description, &w.Nodes, &w.Edges, &w.IsActive, &w.CreatedAt, &w.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("workflow", strconv.FormatInt(id, 10))
		}
		return nil, apperrors.DatabaseError(err)
	}
	return &w, nil
}

// ListWorkflows returns active workflows, newest first.
func (s *Store) ListWorkflows(ctx context.Context) ([]Workflow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, COALESCE(description, ''), nodes, edges, is_active, created_at, updated_at
		 FROM workflows WHERE is_active ORDER BY created_at DESC`)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	defer rows.Close()

	var workflows []Workflow
	for rows.Next() {
		var w Workflow
		if err := rows.Scan(&w.ID, &w.Name, &w.Description, &w.Nodes, &w.Edges, &w.IsActive, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, apperrors.DatabaseError(err)
		}
		workflows = append(workflows, w)
	}
	return workflows, rows.Err()
}

// UpdateWorkflow replaces a workflow's definition.
func (s *Store) UpdateWorkflow(ctx context.Context, w *Workflow) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE workflows SET name = $1, description = $2, nodes = $3, edges = $4, updated_at = now()
		 WHERE id = $5`,
		w.Name, w.Description, w.Nodes, w.Edges, w.ID)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("workflow", strconv.FormatInt(w.ID, 10))
	}
	return nil
}

// DeleteWorkflow soft-deletes a workflow by marking it inactive.
func (s *Store) DeleteWorkflow(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE workflows SET is_active = FALSE, updated_at = now() WHERE id = $1 AND is_active`, id)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("workflow", strconv.FormatInt(id, 10))
	}
	return nil
}
