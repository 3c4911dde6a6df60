package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ImageRepository persists page image lookups, including pages found to
// have no image (stored as an empty image URL).
type ImageRepository struct {
	db     *DB
	maxAge time.Duration
	now    func() time.Time
}

// NewImageRepository returns a repository whose records go stale after
// maxAge. A non-positive maxAge keeps records forever.
func NewImageRepository(db *DB, maxAge time.Duration) *ImageRepository {
	return &ImageRepository{db: db, maxAge: maxAge, now: time.Now}
}

func (r *ImageRepository) GetPageImage(pageURL string) (string, bool, error) {
	var imageURL string
	var checkedAt int64

	err := r.db.QueryRow(`
		SELECT image_url, checked_at
		FROM page_images
		WHERE page_url = ?
	`, pageURL).Scan(&imageURL, &checkedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get page image: %w", err)
	}

	if r.maxAge > 0 && r.now().Sub(time.Unix(checkedAt, 0)) > r.maxAge {
		return "", false, nil
	}

	return imageURL, true, nil
}

func (r *ImageRepository) SavePageImage(pageURL, imageURL string) error {
	_, err := r.db.Exec(`
		INSERT INTO page_images (page_url, image_url, checked_at)
		VALUES (?, ?, ?)
		ON CONFLICT(page_url) DO UPDATE SET
			image_url = excluded.image_url,
			checked_at = excluded.checked_at
	`, pageURL, imageURL, r.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save page image: %w", err)
	}
	return nil
}

// DeleteStale removes records older than the repository's max age and
// returns how many were deleted.
func (r *ImageRepository) DeleteStale() (int64, error) {
	if r.maxAge <= 0 {
		return 0, nil
	}

	cutoff := r.now().Add(-r.maxAge).Unix()
	result, err := r.db.Exec(`DELETE FROM page_images WHERE checked_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale page images: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted page images: %w", err)
	}
	return deleted, nil
}

func (r *ImageRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM page_images`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count page images: %w", err)
	}
	return count, nil
}
