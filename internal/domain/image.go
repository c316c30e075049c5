package domain

import (
	"context"
	"fmt"
	"path/filepath"
)

// ImageStore abstracts raw product image storage. Keys are the original
// upload filenames; saving an existing key overwrites it.
type ImageStore interface {
	Save(ctx context.Context, key, contentType string, data []byte) error
	// Get returns the image bytes and the content type recorded at Save.
	Get(ctx context.Context, key string) (data []byte, contentType string, err error)
}

// ImageKey reduces a client-supplied filename to a bare file name so it
// cannot escape an image directory or bucket prefix.
func ImageKey(name string) (string, error) {
	key := filepath.Base(filepath.Clean("/" + name))
	if key == "" || key == "." || key == "/" || key == ".." {
		return "", fmt.Errorf("%w: invalid image name %q", ErrInvalidInput, name)
	}
	return key, nil
}
