package runs

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const runColumns = `id, request_id, kind, template_id, single_page, compiled, provider, model, status,
    failed_stage, artifact_name, latex_bytes, pdf_bytes, duration_ms, created_at`

// Create inserts a run.
func (r *PGRepo) Create(ctx context.Context, run Run) error {
	const query = `
INSERT INTO generation_runs (` + runColumns + `
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.DB.ExecContext(ctx, query,
		run.ID,
		run.RequestID,
		run.Kind,
		run.TemplateID,
		run.SinglePage,
		run.Compiled,
		run.Provider,
		run.Model,
		run.Status,
		run.FailedStage,
		run.ArtifactName,
		run.LatexBytes,
		run.PDFBytes,
		run.DurationMs,
		run.CreatedAt,
	)
	return err
}

// GetByID returns a run by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Run, error) {
	const query = `
SELECT ` + runColumns + `
FROM generation_runs
WHERE id = $1
LIMIT 1`
	run, err := scanRun(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, ErrNotFound
		}
		return Run{}, err
	}
	return run, nil
}

// List lists runs ordered newest-first.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT ` + runColumns + `
FROM generation_runs
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	err := row.Scan(
		&run.ID,
		&run.RequestID,
		&run.Kind,
		&run.TemplateID,
		&run.SinglePage,
		&run.Compiled,
		&run.Provider,
		&run.Model,
		&run.Status,
		&run.FailedStage,
		&run.ArtifactName,
		&run.LatexBytes,
		&run.PDFBytes,
		&run.DurationMs,
		&run.CreatedAt,
	)
	return run, err
}

var _ Repo = (*PGRepo)(nil)
