package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNoImage is returned when a merchandise item has no stored image.
var ErrNoImage = errors.New("no image")

// Image is a stored merchandise image.
type Image struct {
	Data []byte
	MIME string
	ETag string
}

// Images stores merchandise images in the merch_images table.
type Images struct {
	db *sql.DB
}

// NewImages returns an image store on a database with the schema applied.
func NewImages(db *sql.DB) *Images {
	return &Images{db: db}
}

// Put stores the image of a merchandise item, replacing any previous one.
func (s *Images) Put(ctx context.Context, eventID, merchID string, img Image) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO merch_images (merch_id, event_id, image, image_mime, etag, updated_at)
		 VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(merch_id) DO UPDATE SET
		     event_id = excluded.event_id, image = excluded.image,
		     image_mime = excluded.image_mime, etag = excluded.etag,
		     updated_at = CURRENT_TIMESTAMP`,
		merchID, eventID, img.Data, img.MIME, img.ETag,
	)
	if err != nil {
		return fmt.Errorf("setting merch image: %w", err)
	}
	return nil
}

// Get returns the image of a merchandise item, or ErrNoImage.
func (s *Images) Get(ctx context.Context, merchID string) (Image, error) {
	var img Image
	err := s.db.QueryRowContext(ctx,
		`SELECT image, image_mime, etag FROM merch_images WHERE merch_id = ?`, merchID,
	).Scan(&img.Data, &img.MIME, &img.ETag)
	if err == sql.ErrNoRows {
		return Image{}, ErrNoImage
	}
	if err != nil {
		return Image{}, fmt.Errorf("getting merch image: %w", err)
	}
	return img, nil
}

// Delete removes the image of a merchandise item, if any.
func (s *Images) Delete(ctx context.Context, merchID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM merch_images WHERE merch_id = ?`, merchID); err != nil {
		return fmt.Errorf("deleting merch image: %w", err)
	}
	return nil
}

// DeleteEvent removes every image belonging to an event.
func (s *Images) DeleteEvent(ctx context.Context, eventID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM merch_images WHERE event_id = ?`, eventID); err != nil {
		return fmt.Errorf("deleting event images: %w", err)
	}
	return nil
}
