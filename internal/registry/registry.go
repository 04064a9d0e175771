package registry

import (
	"database/sql"
	"fmt"
	"strings"
)

// Repository provides CRUD operations for runs, steps, artifacts, and releases.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository using db.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateRun inserts a new run row in the running state.
func (r *Repository) CreateRun(id, pipeline string, trigger Trigger, ref string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("invalid run id: id cannot be empty")
	}
	_, err := r.db.Exec(`INSERT INTO pipeline_runs (id, pipeline, trigger, ref, status, started_at)
			VALUES (?, ?, ?, ?, ?, datetime('now'))`, id, pipeline, string(trigger), ref, StatusRunning)
	if err != nil {
		return fmt.Errorf("insert pipeline_run: %w", err)
	}
	return nil
}

// FinishRun marks a run terminal. errMsg may be empty for successful runs.
func (r *Repository) FinishRun(id, status, errMsg string) error {
	var e *string
	if errMsg != "" {
		e = &errMsg
	}
	res, err := r.db.Exec(`UPDATE pipeline_runs SET status = ?, error = ?, finished_at = datetime('now') WHERE id = ?`,
		status, e, id)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("run not found: %s", id)
	}
	return nil
}

// RecordStep appends a step record to a run.
func (r *Repository) RecordStep(runID string, position int, name, status, detail string) error {
	var d *string
	if detail != "" {
		d = &detail
	}
	_, err := r.db.Exec(`INSERT INTO run_steps (run_id, position, name, status, detail, started_at, finished_at)
			VALUES (?, ?, ?, ?, ?, datetime('now'), datetime('now'))`,
		runID, position, name, status, d)
	if err != nil {
		return fmt.Errorf("insert run_step: %w", err)
	}
	return nil
}

// AddArtifact records a stored artifact for a run.
func (r *Repository) AddArtifact(runID, name, path, sha256 string, sizeBytes int64) (int64, error) {
	res, err := r.db.Exec(`INSERT INTO artifacts (run_id, name, path, sha256, size_bytes, created_at)
			VALUES (?, ?, ?, ?, ?, datetime('now'))`, runID, name, path, sha256, sizeBytes)
	if err != nil {
		return 0, fmt.Errorf("insert artifact: %w", err)
	}
	return res.LastInsertId()
}

// UpsertRelease creates the release row for tag, or updates it in place when
// the tag was published before. Re-publishing a tag replaces its files, so
// the row tracks the latest run and bumps updated_at.
func (r *Repository) UpsertRelease(tag, runID, path string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return fmt.Errorf("invalid tag: tag cannot be empty")
	}
	trx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = trx.Rollback() }()

	res, err := trx.Exec(`UPDATE releases SET run_id = ?, path = ?, updated_at = datetime('now') WHERE tag = ?`,
		runID, path, tag)
	if err != nil {
		return fmt.Errorf("update release: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		if _, err := trx.Exec(`INSERT INTO releases (tag, run_id, path, created_at) VALUES (?, ?, ?, datetime('now'))`,
			tag, runID, path); err != nil {
			return fmt.Errorf("insert release: %w", err)
		}
	}
	return trx.Commit()
}

// GetRunByID returns the run and its step records, or nil when not found.
func (r *Repository) GetRunByID(id string) (*Run, error) {
	row := r.db.QueryRow(`SELECT id, pipeline, trigger, ref, status, error, started_at, finished_at
			FROM pipeline_runs WHERE id = ?`, id)
	var run Run
	var trigger string
	if err := row.Scan(&run.ID, &run.Pipeline, &trigger, &run.Ref, &run.Status, &run.Error, &run.StartedAt, &run.FinishedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	run.Trigger = Trigger(trigger)

	rows, err := r.db.Query(`SELECT id, run_id, position, name, status, detail, started_at, finished_at
			FROM run_steps WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var s StepRecord
		if err := rows.Scan(&s.ID, &s.RunID, &s.Position, &s.Name, &s.Status, &s.Detail, &s.StartedAt, &s.FinishedAt); err != nil {
			return nil, err
		}
		run.Steps = append(run.Steps, s)
	}
	return &run, rows.Err()
}

// ListRuns returns runs, newest first. status filters when non-empty.
func (r *Repository) ListRuns(status string) ([]Run, error) {
	q := `SELECT id, pipeline, trigger, ref, status, error, started_at, finished_at FROM pipeline_runs`
	args := []interface{}{}
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY started_at DESC, id DESC`

	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []Run
	for rows.Next() {
		var run Run
		var trigger string
		if err := rows.Scan(&run.ID, &run.Pipeline, &trigger, &run.Ref, &run.Status, &run.Error, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, err
		}
		run.Trigger = Trigger(trigger)
		out = append(out, run)
	}
	return out, rows.Err()
}

// ArtifactsForRun returns artifacts recorded for the run.
func (r *Repository) ArtifactsForRun(runID string) ([]Artifact, error) {
	rows, err := r.db.Query(`SELECT id, run_id, name, path, sha256, size_bytes, created_at
			FROM artifacts WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []Artifact
	for rows.Next() {
		var a Artifact
		if err := rows.Scan(&a.ID, &a.RunID, &a.Name, &a.Path, &a.SHA256, &a.SizeBytes, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListReleases returns all releases ordered by tag.
func (r *Repository) ListReleases() ([]Release, error) {
	rows, err := r.db.Query(`SELECT id, tag, run_id, path, created_at, updated_at FROM releases ORDER BY tag`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []Release
	for rows.Next() {
		var rel Release
		if err := rows.Scan(&rel.ID, &rel.Tag, &rel.RunID, &rel.Path, &rel.CreatedAt, &rel.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rel)
	}
	return out, rows.Err()
}

// GetReleaseByTag returns the release for tag, or nil when not found.
func (r *Repository) GetReleaseByTag(tag string) (*Release, error) {
	row := r.db.QueryRow(`SELECT id, tag, run_id, path, created_at, updated_at FROM releases WHERE tag = ?`, tag)
	var rel Release
	if err := row.Scan(&rel.ID, &rel.Tag, &rel.RunID, &rel.Path, &rel.CreatedAt, &rel.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rel, nil
}
