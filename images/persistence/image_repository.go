package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"imagevault/images/domain"
	"imagevault/shared/db"
)

var _ domain.ImageRepository = (*SQLiteImageRepository)(nil)

// SQLiteImageRepository implements domain.ImageRepository using SQL database (SQLite)
type SQLiteImageRepository struct {
	db *sql.DB
}

// NewImageRepository creates a new SQLiteImageRepository from a standard sql.DB
func NewImageRepository(sqlDB *sql.DB) *SQLiteImageRepository {
	return &SQLiteImageRepository{
		db: sqlDB,
	}
}

const insertImageQuery = `
	INSERT INTO images (id, file_name, content_type, data, size, created_at, updated_at, description, tags, owner_id)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Insert persists a new image record
func (r *SQLiteImageRepository) Insert(ctx context.Context, img *domain.Image) error {
	if img == nil {
		return fmt.Errorf("image cannot be nil")
	}

	if img.ID == "" {
		return fmt.Errorf("image ID cannot be empty")
	}

	var updatedAt, description, tags any

	if img.UpdatedAt != nil {
		updatedAt = *img.UpdatedAt
	}
	if img.Description != nil {
		description = *img.Description
	}
	if img.Tags != nil {
		tags = *img.Tags
	}

	executor := db.GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, insertImageQuery,
		img.ID,
		img.FileName,
		img.ContentType,
		img.Data,
		img.Size,
		img.CreatedAt,
		updatedAt,
		description,
		tags,
		img.OwnerID,
	)

	if err != nil {
		return fmt.Errorf("failed to insert image record: %w", err)
	}

	return nil
}

const getImageQuery = `
	SELECT id, file_name, content_type, data, size, created_at, updated_at, description, tags, owner_id
	FROM images
	WHERE id = ?
`

// GetByID retrieves a single image by id, domain.ErrImageNotFound when absent
func (r *SQLiteImageRepository) GetByID(ctx context.Context, id string) (*domain.Image, error) {
	if id == "" {
		return nil, fmt.Errorf("image ID cannot be empty")
	}

	var row imageRow
	executor := db.GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx, getImageQuery, id).Scan(
		&row.ID,
		&row.FileName,
		&row.ContentType,
		&row.Data,
		&row.Size,
		&row.CreatedAt,
		&row.UpdatedAt,
		&row.Description,
		&row.Tags,
		&row.OwnerID,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrImageNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get image: %w", err)
	}

	return row.toDomain(), nil
}

const listImagesByOwnerQuery = `
	SELECT id, file_name, content_type, data, size, created_at, updated_at, description, tags, owner_id
	FROM images
	WHERE owner_id = ?
	ORDER BY created_at DESC
`

// ListByOwner returns all images belonging to ownerID, newest first
func (r *SQLiteImageRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Image, error) {
	executor := db.GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, listImagesByOwnerQuery, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer rows.Close()

	images := []*domain.Image{}
	for rows.Next() {
		var row imageRow
		err := rows.Scan(
			&row.ID,
			&row.FileName,
			&row.ContentType,
			&row.Data,
			&row.Size,
			&row.CreatedAt,
			&row.UpdatedAt,
			&row.Description,
			&row.Tags,
			&row.OwnerID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image row: %w", err)
		}
		images = append(images, row.toDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate image rows: %w", err)
	}

	return images, nil
}

const updateImageMetadataQuery = `
	UPDATE images
	SET description = ?, tags = ?, updated_at = ?
	WHERE id = ?
`

// UpdateMetadata overwrites description and tags (nil clears a field) and
// stamps updated_at. Returns domain.ErrImageNotFound when the record is absent.
func (r *SQLiteImageRepository) UpdateMetadata(ctx context.Context, id string, description, tags *string, updatedAt time.Time) error {
	if id == "" {
		return fmt.Errorf("image ID cannot be empty")
	}

	var desc, tg any
	if description != nil {
		desc = *description
	}
	if tags != nil {
		tg = *tags
	}

	executor := db.GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, updateImageMetadataQuery, desc, tg, updatedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update image metadata: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}

	if affected == 0 {
		return domain.ErrImageNotFound
	}

	return nil
}

const imageExistsQuery = `
	SELECT 1 FROM images WHERE id = ?
`

const deleteImageQuery = `
	DELETE FROM images WHERE id = ?
`

// Delete removes an image permanently. Returns false when the record is
// absent. The existence check and delete run in one transaction so two
// concurrent deletes cannot both report success.
func (r *SQLiteImageRepository) Delete(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("image ID cannot be empty")
	}

	deleted := false
	err := db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		executor := db.GetExecutor(txCtx, r.db)

		var one int
		err := executor.QueryRowContext(txCtx, imageExistsQuery, id).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to check image existence: %w", err)
		}

		if _, err := executor.ExecContext(txCtx, deleteImageQuery, id); err != nil {
			return fmt.Errorf("failed to delete image record: %w", err)
		}

		deleted = true
		return nil
	})

	if err != nil {
		return false, err
	}

	return deleted, nil
}

// imageRow is a private struct used to scan database rows
type imageRow struct {
	ID          string         `db:"id"`
	FileName    string         `db:"file_name"`
	ContentType string         `db:"content_type"`
	Data        []byte         `db:"data"`
	Size        int64          `db:"size"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   sql.NullTime   `db:"updated_at"`
	Description sql.NullString `db:"description"`
	Tags        sql.NullString `db:"tags"`
	OwnerID     sql.NullString `db:"owner_id"`
}

// toDomain converts an imageRow to a domain.Image, handling nullable columns
func (ir *imageRow) toDomain() *domain.Image {
	img := &domain.Image{
		ID:          ir.ID,
		FileName:    ir.FileName,
		ContentType: ir.ContentType,
		Data:        ir.Data,
		Size:        ir.Size,
		CreatedAt:   ir.CreatedAt,
		OwnerID:     ir.OwnerID.String,
	}

	if ir.UpdatedAt.Valid {
		t := ir.UpdatedAt.Time
		img.UpdatedAt = &t
	}
	if ir.Description.Valid {
		s := ir.Description.String
		img.Description = &s
	}
	if ir.Tags.Valid {
		s := ir.Tags.String
		img.Tags = &s
	}

	return img
}
