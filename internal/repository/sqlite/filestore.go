package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/msomdec/storefront/internal/domain"
)

// imageStore implements domain.ImageStore using SQLite BLOBs.
type imageStore struct {
	db *sql.DB
}

func (s *imageStore) Save(ctx context.Context, key, contentType string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO image_blobs (storage_key, content_type, data) VALUES (?, ?, ?)
		 ON CONFLICT (storage_key) DO UPDATE SET
		     content_type = excluded.content_type,
		     data = excluded.data,
		     updated_at = CURRENT_TIMESTAMP`,
		key, contentType, data,
	)
	if err != nil {
		return fmt.Errorf("save image blob: %w", err)
	}
	return nil
}

func (s *imageStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	var (
		data        []byte
		contentType string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT data, content_type FROM image_blobs WHERE storage_key = ?", key,
	).Scan(&data, &contentType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", domain.ErrNotFound
		}
		return nil, "", fmt.Errorf("get image blob: %w", err)
	}
	return data, contentType, nil
}
