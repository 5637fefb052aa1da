package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"imagevault/images/domain"

	_ "modernc.org/sqlite"
)

func setupTestImageDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE images (
			id TEXT PRIMARY KEY,
			file_name TEXT NOT NULL,
			content_type TEXT NOT NULL,
			data BLOB NOT NULL,
			size INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP,
			description TEXT,
			tags TEXT,
			owner_id TEXT
		)
	`)
	if err != nil {
		t.Fatalf("Failed to create images table: %v", err)
	}

	return db
}

func testImage(id, owner string, createdAt time.Time) *domain.Image {
	data := []byte("fake image content")
	return &domain.Image{
		ID:          id,
		FileName:    "test.png",
		ContentType: "image/png",
		Data:        data,
		Size:        int64(len(data)),
		CreatedAt:   createdAt,
		OwnerID:     owner,
	}
}

func TestImageRepository_InsertAndGet(t *testing.T) {
	db := setupTestImageDB(t)
	repo := NewImageRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	desc := "a test image"
	img := testImage("img-1", "alice@example.com", now)
	img.Description = &desc

	if err := repo.Insert(ctx, img); err != nil {
		t.Fatalf("Failed to insert image: %v", err)
	}

	retrieved, err := repo.GetByID(ctx, "img-1")
	if err != nil {
		t.Fatalf("Failed to get image: %v", err)
	}

	if retrieved.FileName != img.FileName {
		t.Errorf("FileName = %q, want %q", retrieved.FileName, img.FileName)
	}
	if retrieved.ContentType != img.ContentType {
		t.Errorf("ContentType = %q, want %q", retrieved.ContentType, img.ContentType)
	}
	if string(retrieved.Data) != string(img.Data) {
		t.Errorf("Data = %q, want %q", retrieved.Data, img.Data)
	}
	if retrieved.Size != int64(len(img.Data)) {
		t.Errorf("Size = %d, want %d", retrieved.Size, len(img.Data))
	}
	if retrieved.OwnerID != "alice@example.com" {
		t.Errorf("OwnerID = %q, want %q", retrieved.OwnerID, "alice@example.com")
	}
	if retrieved.Description == nil || *retrieved.Description != desc {
		t.Errorf("Description = %v, want %q", retrieved.Description, desc)
	}
	if retrieved.Tags != nil {
		t.Errorf("Tags = %v, want nil", retrieved.Tags)
	}
	if retrieved.UpdatedAt != nil {
		t.Errorf("UpdatedAt = %v, want nil", retrieved.UpdatedAt)
	}
}

func TestImageRepository_GetByID_NotFound(t *testing.T) {
	db := setupTestImageDB(t)
	repo := NewImageRepository(db)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, domain.ErrImageNotFound) {
		t.Errorf("GetByID() error = %v, want ErrImageNotFound", err)
	}
}

func TestImageRepository_ListByOwner(t *testing.T) {
	db := setupTestImageDB(t)
	repo := NewImageRepository(db)
	ctx := context.Background()

	base := time.Now().UTC()
	for i, id := range []string{"img-old", "img-mid", "img-new"} {
		img := testImage(id, "alice@example.com", base.Add(time.Duration(i)*time.Minute))
		if err := repo.Insert(ctx, img); err != nil {
			t.Fatalf("Failed to insert %s: %v", id, err)
		}
	}
	if err := repo.Insert(ctx, testImage("img-other", "bob@example.com", base)); err != nil {
		t.Fatalf("Failed to insert other-owner image: %v", err)
	}

	images, err := repo.ListByOwner(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("Failed to list images: %v", err)
	}

	if len(images) != 3 {
		t.Fatalf("len(images) = %d, want 3", len(images))
	}

	// Newest first
	wantOrder := []string{"img-new", "img-mid", "img-old"}
	for i, want := range wantOrder {
		if images[i].ID != want {
			t.Errorf("images[%d].ID = %q, want %q", i, images[i].ID, want)
		}
	}
}

func TestImageRepository_ListByOwner_Empty(t *testing.T) {
	db := setupTestImageDB(t)
	repo := NewImageRepository(db)

	images, err := repo.ListByOwner(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("Failed to list images: %v", err)
	}

	if len(images) != 0 {
		t.Errorf("len(images) = %d, want 0", len(images))
	}
}

func TestImageRepository_UpdateMetadata(t *testing.T) {
	db := setupTestImageDB(t)
	repo := NewImageRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	if err := repo.Insert(ctx, testImage("img-1", "alice@example.com", now)); err != nil {
		t.Fatalf("Failed to insert image: %v", err)
	}

	desc := "updated description"
	tags := "cat,meme"
	updatedAt := now.Add(time.Minute)

	if err := repo.UpdateMetadata(ctx, "img-1", &desc, &tags, updatedAt); err != nil {
		t.Fatalf("Failed to update metadata: %v", err)
	}

	img, err := repo.GetByID(ctx, "img-1")
	if err != nil {
		t.Fatalf("Failed to get image: %v", err)
	}

	if img.Description == nil || *img.Description != desc {
		t.Errorf("Description = %v, want %q", img.Description, desc)
	}
	if img.Tags == nil || *img.Tags != tags {
		t.Errorf("Tags = %v, want %q", img.Tags, tags)
	}
	if img.UpdatedAt == nil {
		t.Error("UpdatedAt = nil, want set")
	}

	// nil clears both fields
	if err := repo.UpdateMetadata(ctx, "img-1", nil, nil, updatedAt.Add(time.Minute)); err != nil {
		t.Fatalf("Failed to clear metadata: %v", err)
	}

	img, err = repo.GetByID(ctx, "img-1")
	if err != nil {
		t.Fatalf("Failed to get image: %v", err)
	}

	if img.Description != nil {
		t.Errorf("Description = %v, want nil after clear", img.Description)
	}
	if img.Tags != nil {
		t.Errorf("Tags = %v, want nil after clear", img.Tags)
	}
}

func TestImageRepository_UpdateMetadata_NotFound(t *testing.T) {
	db := setupTestImageDB(t)
	repo := NewImageRepository(db)

	desc := "whatever"
	err := repo.UpdateMetadata(context.Background(), "nonexistent", &desc, nil, time.Now().UTC())
	if !errors.Is(err, domain.ErrImageNotFound) {
		t.Errorf("UpdateMetadata() error = %v, want ErrImageNotFound", err)
	}
}

func TestImageRepository_Delete(t *testing.T) {
	db := setupTestImageDB(t)
	repo := NewImageRepository(db)
	ctx := context.Background()

	if err := repo.Insert(ctx, testImage("img-1", "alice@example.com", time.Now().UTC())); err != nil {
		t.Fatalf("Failed to insert image: %v", err)
	}

	deleted, err := repo.Delete(ctx, "img-1")
	if err != nil {
		t.Fatalf("Failed to delete image: %v", err)
	}
	if !deleted {
		t.Error("Delete() = false, want true for existing image")
	}

	// Second delete reports absence
	deleted, err = repo.Delete(ctx, "img-1")
	if err != nil {
		t.Fatalf("Second delete errored: %v", err)
	}
	if deleted {
		t.Error("Delete() = true on second call, want false")
	}

	if _, err := repo.GetByID(ctx, "img-1"); !errors.Is(err, domain.ErrImageNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrImageNotFound", err)
	}
}
