package storage

import (
	"context"
	"io"
)

// Uploader stores an uploaded object (answer audio) and returns a stable
// reference to it.
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
}
