package sqlite

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func connectTestDB(t *testing.T) *SQLiteDB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	database := NewSQLiteDB(&SQLiteConfig{Path: dbPath})
	if err := database.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return database
}

func TestRunMigrations(t *testing.T) {
	db := connectTestDB(t).DB()

	// Verify schema_migrations table exists
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_migrations'").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to check schema_migrations table: %v", err)
	}
	if count != 1 {
		t.Errorf("schema_migrations table not created")
	}

	// Verify images table exists
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='images'").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to check images table: %v", err)
	}
	if count != 1 {
		t.Errorf("images table not created")
	}

	// Verify index exists
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name='idx_images_owner_created'").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to check index: %v", err)
	}
	if count != 1 {
		t.Errorf("idx_images_owner_created index not created")
	}

	// Verify migration was recorded
	var version int
	var name string
	err = db.QueryRow("SELECT version, name FROM schema_migrations WHERE version = 1").Scan(&version, &name)
	if err != nil {
		t.Fatalf("Failed to query schema_migrations: %v", err)
	}
	if name != "create_images_table" {
		t.Errorf("name = %q, want %q", name, "create_images_table")
	}
}

func TestRunMigrationsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	database := NewSQLiteDB(&SQLiteConfig{Path: dbPath})
	if err := database.Connect(); err != nil {
		t.Fatalf("First Connect() error = %v", err)
	}
	database.Close()

	// Second connect must not re-apply migrations
	database = NewSQLiteDB(&SQLiteConfig{Path: dbPath})
	if err := database.Connect(); err != nil {
		t.Fatalf("Second Connect() error = %v", err)
	}
	defer database.Close()

	var count int
	err := database.DB().QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = 1").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query schema_migrations: %v", err)
	}
	if count != 1 {
		t.Errorf("migration recorded %d times, want 1", count)
	}
}

func TestImagesTableSchema(t *testing.T) {
	db := connectTestDB(t).DB()

	_, err := db.Exec(`
		INSERT INTO images (id, file_name, content_type, data, size, created_at, owner_id)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, ?)
	`, "img-1", "cat.png", "image/png", []byte{0x89, 0x50}, 2, "alice@example.com")
	if err != nil {
		t.Fatalf("Failed to insert image: %v", err)
	}

	var id, fileName, contentType, ownerID string
	var size int64
	var updatedAt sql.NullTime
	var description, tags sql.NullString
	err = db.QueryRow(`
		SELECT id, file_name, content_type, size, updated_at, description, tags, owner_id
		FROM images WHERE id = ?
	`, "img-1").Scan(&id, &fileName, &contentType, &size, &updatedAt, &description, &tags, &ownerID)
	if err != nil {
		t.Fatalf("Failed to query image: %v", err)
	}

	if fileName != "cat.png" {
		t.Errorf("file_name = %q, want %q", fileName, "cat.png")
	}
	if updatedAt.Valid {
		t.Error("updated_at should be NULL on insert")
	}
	if description.Valid || tags.Valid {
		t.Error("description and tags should be NULL when not provided")
	}
}
