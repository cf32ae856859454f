// Package storage stores uploaded files on a named disk and hands back the
// public path the frontend uses to fetch them.
//
// Two drivers exist:
//   - "local": a directory served by the app under STORAGE_URL (default)
//   - "s3": any S3-compatible bucket (AWS, MinIO, R2, Spaces)
//
//	disk, err := storage.Open(ctx, config.StorageDefault())
//	paths, err := storage.SaveUploads(ctx, disk, files)
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrInvalidPath is returned for paths that escape the disk root.
var ErrInvalidPath = errors.New("storage: invalid path")

// Disk is a flat object store addressed by slash-separated paths.
type Disk interface {
	// Name is the driver name, used as a metrics label.
	Name() string

	// Put writes r to path, replacing any existing object.
	Put(ctx context.Context, path string, r io.Reader, contentType string) error

	// Delete removes path. A missing object is not an error.
	Delete(ctx context.Context, path string) error

	// URL is the public address the frontend stores for path.
	URL(path string) string
}
