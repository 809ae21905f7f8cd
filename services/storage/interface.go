package storage

import (
	"context"
	"io"
)

// ImageStore hosts public images and returns their URL.
type ImageStore interface {
	UploadImage(ctx context.Context, file io.Reader, filename string) (string, error)
}
