package turso

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/emiliopalmerini/sprintsheet/internal/domain"
)

type ArchiveRepository struct {
	db *sql.DB
}

func NewArchiveRepository(db *sql.DB) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

func (r *ArchiveRepository) Create(ctx context.Context, archive *domain.Archive) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO archives (id, label, total_hours, total_story_points, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, archive.ID, archive.Label, archive.TotalHours, archive.TotalStoryPoints, archive.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}

	for i, row := range archive.Rows {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO archive_rows (archive_id, position, project, hours, story_points)
			VALUES (?, ?, ?, ?, ?)
		`, archive.ID, i, row.Name, row.Hours, row.StoryPoints)
		if err != nil {
			return fmt.Errorf("failed to create archive row: %w", err)
		}
	}

	return tx.Commit()
}

func (r *ArchiveRepository) GetByID(ctx context.Context, id string) (*domain.Archive, error) {
	var (
		archive   domain.Archive
		createdAt string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, label, total_hours, total_story_points, created_at
		FROM archives WHERE id = ?
	`, id).Scan(&archive.ID, &archive.Label, &archive.TotalHours, &archive.TotalStoryPoints, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrArchiveNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get archive: %w", err)
	}
	archive.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	rows, err := r.db.QueryContext(ctx, `
		SELECT project, hours, story_points
		FROM archive_rows WHERE archive_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get archive rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	archive.Rows = []domain.ChartRow{}
	for rows.Next() {
		var row domain.ChartRow
		if err := rows.Scan(&row.Name, &row.Hours, &row.StoryPoints); err != nil {
			return nil, fmt.Errorf("failed to scan archive row: %w", err)
		}
		archive.Rows = append(archive.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read archive rows: %w", err)
	}

	return &archive, nil
}

// List returns archives newest first, without their rows. limit <= 0 means all.
func (r *ArchiveRepository) List(ctx context.Context, limit int) ([]*domain.Archive, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, label, total_hours, total_story_points, created_at
		FROM archives ORDER BY created_at DESC, id LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list archives: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var archives []*domain.Archive
	for rows.Next() {
		var (
			a         domain.Archive
			createdAt string
		)
		if err := rows.Scan(&a.ID, &a.Label, &a.TotalHours, &a.TotalStoryPoints, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan archive: %w", err)
		}
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		archives = append(archives, &a)
	}
	return archives, rows.Err()
}

func (r *ArchiveRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM archive_rows WHERE archive_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete archive rows: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM archives WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete archive: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrArchiveNotFound, id)
	}
	return tx.Commit()
}
