// Package db provides the optional PostgreSQL archive of exported documents.
// The in-memory store is the working set; the archive keeps every export a
// client asked for, so past documents survive restarts and eviction.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Archive wraps a PostgreSQL connection pool.
type Archive struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool and ensures the archive table
// exists.
func Connect(ctx context.Context, databaseURL string) (*Archive, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	a := &Archive{pool: pool}
	if err := a.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}
	return a, nil
}

// Close closes the connection pool.
func (a *Archive) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

func (a *Archive) ensureSchema(ctx context.Context) error {
	_, err := a.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS exported_documents (
	id BIGSERIAL PRIMARY KEY,
	resume_id TEXT NOT NULL,
	candidate_name TEXT NOT NULL,
	document_xml TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS exported_documents_resume_id_idx
	ON exported_documents (resume_id, created_at DESC);
`)
	return err
}

// Export is one archived document.
type Export struct {
	ID            int64     `json:"id"`
	ResumeID      string    `json:"resume_id"`
	CandidateName string    `json:"candidate_name"`
	DocumentXML   string    `json:"document_xml,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// SaveExport archives one exported document under its resume handle.
func (a *Archive) SaveExport(ctx context.Context, resumeID, candidateName, documentXML string) (int64, error) {
	var id int64
	err := a.pool.QueryRow(ctx,
		`INSERT INTO exported_documents (resume_id, candidate_name, document_xml)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		resumeID, candidateName, documentXML,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to save export: %w", err)
	}
	return id, nil
}

// ListExports returns archived documents, newest first, without their XML
// bodies. An empty resumeID lists everything.
func (a *Archive) ListExports(ctx context.Context, resumeID string, limit int) ([]Export, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := a.pool.Query(ctx,
		`SELECT id, resume_id, candidate_name, created_at
		 FROM exported_documents
		 WHERE ($1 = '' OR resume_id = $1)
		 ORDER BY created_at DESC
		 LIMIT $2`,
		resumeID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	defer rows.Close()

	var exports []Export
	for rows.Next() {
		var e Export
		if err := rows.Scan(&e.ID, &e.ResumeID, &e.CandidateName, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		exports = append(exports, e)
	}
	return exports, rows.Err()
}

// GetExport returns one archived document with its XML body.
func (a *Archive) GetExport(ctx context.Context, id int64) (*Export, error) {
	var e Export
	err := a.pool.QueryRow(ctx,
		`SELECT id, resume_id, candidate_name, document_xml, created_at
		 FROM exported_documents
		 WHERE id = $1`,
		id,
	).Scan(&e.ID, &e.ResumeID, &e.CandidateName, &e.DocumentXML, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get export %d: %w", id, err)
	}
	return &e, nil
}
