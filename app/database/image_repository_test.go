package database

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "images.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_RunsMigrations(t *testing.T) {
	db := openTestDB(t)

	version, dirty, err := RunMigrations(db)
	if err != nil {
		t.Fatalf("Expected re-running migrations to be a no-op, got: %v", err)
	}
	if version != 1 || dirty {
		t.Errorf("Expected version 1 clean, got %d dirty=%v", version, dirty)
	}
}

func TestImageRepository_SaveAndGet(t *testing.T) {
	repo := NewImageRepository(openTestDB(t), time.Hour)

	if _, found, err := repo.GetPageImage("https://example.com/a"); err != nil || found {
		t.Fatalf("Expected miss, got found=%v err=%v", found, err)
	}

	if err := repo.SavePageImage("https://example.com/a", "https://img.example.com/a.jpg"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if err := repo.SavePageImage("https://example.com/none", ""); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	image, found, err := repo.GetPageImage("https://example.com/a")
	if err != nil || !found || image != "https://img.example.com/a.jpg" {
		t.Errorf("Expected stored image, got %q found=%v err=%v", image, found, err)
	}

	image, found, err = repo.GetPageImage("https://example.com/none")
	if err != nil || !found || image != "" {
		t.Errorf("Expected stored miss, got %q found=%v err=%v", image, found, err)
	}

	// upsert replaces
	if err := repo.SavePageImage("https://example.com/a", "https://img.example.com/b.jpg"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	image, _, _ = repo.GetPageImage("https://example.com/a")
	if image != "https://img.example.com/b.jpg" {
		t.Errorf("Expected replaced image, got %q", image)
	}

	count, err := repo.Count()
	if err != nil || count != 2 {
		t.Errorf("Expected 2 records, got %d err=%v", count, err)
	}
}

func TestImageRepository_Staleness(t *testing.T) {
	now := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	repo := NewImageRepository(openTestDB(t), time.Hour)
	repo.now = func() time.Time { return now }

	if err := repo.SavePageImage("https://example.com/old", "https://img.example.com/old.jpg"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	now = now.Add(30 * time.Minute)
	if err := repo.SavePageImage("https://example.com/new", "https://img.example.com/new.jpg"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	now = now.Add(45 * time.Minute)
	if _, found, _ := repo.GetPageImage("https://example.com/old"); found {
		t.Error("Expected stale record to be reported as missing")
	}
	if _, found, _ := repo.GetPageImage("https://example.com/new"); !found {
		t.Error("Expected fresh record to be found")
	}

	deleted, err := repo.DeleteStale()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 stale record deleted, got %d", deleted)
	}

	count, _ := repo.Count()
	if count != 1 {
		t.Errorf("Expected 1 record left, got %d", count)
	}
}

func TestImageRepository_NoMaxAge(t *testing.T) {
	repo := NewImageRepository(openTestDB(t), 0)
	repo.now = func() time.Time { return time.Unix(0, 0) }

	if err := repo.SavePageImage("https://example.com/a", "https://img.example.com/a.jpg"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	repo.now = time.Now
	if _, found, _ := repo.GetPageImage("https://example.com/a"); !found {
		t.Error("Expected record to never go stale")
	}
	if deleted, _ := repo.DeleteStale(); deleted != 0 {
		t.Errorf("Expected nothing deleted, got %d", deleted)
	}
}
