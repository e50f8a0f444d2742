package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/autoalbum/internal/models"
	"github.com/desertthunder/autoalbum/internal/shared"
)

// ErrRunNotFound is returned when no live sync run has the requested id.
var ErrRunNotFound = errors.New("sync run not found")

const syncRunColumns = `id, sequence, behavior, source_album_id, dest_album_id, item_count, selected, to_add, to_remove,
	add_error, remove_error, dry_run, started_at, finished_at, created_at, updated_at`

// SyncRunRepository implements models.Repository[*models.SyncRun] for sync run history.
type SyncRunRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.SyncRun] = (*SyncRunRepository)(nil)

// NewSyncRunRepository creates a new SyncRunRepository with the given database connection
func NewSyncRunRepository(db *sql.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

// Create inserts run with a generated ID and sequence
func (r *SyncRunRepository) Create(run *models.SyncRun) error {
	sequence, err := NextSequence(r.db, "sync_runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	run.SetID(shared.GenerateID())
	run.SetSequence(sequence)

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO sync_runs (` + syncRunColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		run.ID(),
		run.Sequence(),
		run.Behavior(),
		run.SourceAlbumID(),
		run.DestAlbumID(),
		run.Count(),
		run.Selected(),
		run.ToAdd(),
		run.ToRemove(),
		run.AddError(),
		run.RemoveError(),
		run.DryRun(),
		run.StartedAt(),
		nullTime(run.FinishedAt()),
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert sync run: %w", err)
	}

	return nil
}

// Get retrieves a run by ID, excluding soft-deleted runs
func (r *SyncRunRepository) Get(id string) (*models.SyncRun, error) {
	query := `SELECT ` + syncRunColumns + ` FROM sync_runs WHERE id = ? AND deleted_at IS NULL`

	run, err := scanSyncRun(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// Update stores the plan counts and outcome of run
func (r *SyncRunRepository) Update(run *models.SyncRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	run.SetUpdatedAt(now)

	query := `
		UPDATE sync_runs
		SET selected = ?, to_add = ?, to_remove = ?, add_error = ?, remove_error = ?, dry_run = ?, finished_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		run.Selected(),
		run.ToAdd(),
		run.ToRemove(),
		run.AddError(),
		run.RemoveError(),
		run.DryRun(),
		nullTime(run.FinishedAt()),
		now,
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update sync run: %w", err)
	}

	return expectOneRow(result, run.ID())
}

// Delete soft-deletes a run by ID
func (r *SyncRunRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE sync_runs SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete sync run: %w", err)
	}

	return expectOneRow(result, id)
}

// List retrieves runs newest first, excluding soft-deleted runs.
//
// Supported criteria: "behavior" and "dest_album_id" (string), "limit" (int).
func (r *SyncRunRepository) List(criteria map[string]any) ([]*models.SyncRun, error) {
	query := `SELECT ` + syncRunColumns + ` FROM sync_runs WHERE deleted_at IS NULL`
	args := []any{}

	if behavior, ok := criteria["behavior"].(string); ok && behavior != "" {
		query += " AND behavior = ?"
		args = append(args, behavior)
	}

	if dest, ok := criteria["dest_album_id"].(string); ok && dest != "" {
		query += " AND dest_album_id = ?"
		args = append(args, dest)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.SyncRun
	for rows.Next() {
		run, err := scanSyncRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// Recent returns at most limit runs, newest first.
func (r *SyncRunRepository) Recent(limit int) ([]*models.SyncRun, error) {
	return r.List(map[string]any{"limit": limit})
}

type scanner interface {
	Scan(dest ...any) error
}

// scanSyncRun scans a single row from [sql.Row] or [sql.Rows] into a [models.SyncRun]
func scanSyncRun(row scanner) (*models.SyncRun, error) {
	var (
		id          string
		sequence    int
		behavior    string
		sourceID    string
		destID      string
		count       int
		selected    int
		toAdd       int
		toRemove    int
		addError    string
		removeError string
		dryRun      bool
		startedAt   time.Time
		finishedAt  sql.NullTime
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := row.Scan(&id, &sequence, &behavior, &sourceID, &destID, &count, &selected, &toAdd, &toRemove,
		&addError, &removeError, &dryRun, &startedAt, &finishedAt, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan sync run: %w", err)
	}

	run := models.NewSyncRun(behavior, sourceID, destID, count)
	run.SetID(id)
	run.SetSequence(sequence)
	run.SetDryRun(dryRun)
	run.SetPlan(selected, toAdd, toRemove)
	run.SetStartedAt(startedAt)
	run.SetOutcome(finishedAt.Time, removeError, addError)
	run.SetCreatedAt(createdAt)
	run.SetUpdatedAt(updatedAt)

	return run, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func expectOneRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}
