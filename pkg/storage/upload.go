package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

// MaxUploads caps the files accepted for one product.
const MaxUploads = 10

// ErrTooManyFiles is returned when more than MaxUploads files are offered.
var ErrTooManyFiles = fmt.Errorf("storage: at most %d images per product", MaxUploads)

// Upload is one incoming file.
type Upload struct {
	Filename    string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// FromMultipart adapts parsed multipart file headers.
func FromMultipart(headers []*multipart.FileHeader) []Upload {
	out := make([]Upload, 0, len(headers))
	for _, fh := range headers {
		out = append(out, Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Open:        func() (io.ReadCloser, error) { return fh.Open() },
		})
	}
	return out
}

// Stored is a file written by SaveUploads.
type Stored struct {
	Key string
	URL string
}

// NewName returns "<unix millis>-<random 0..1e9><ext of original>".
func NewName(now time.Time, original string) string {
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" +
		strconv.FormatInt(rand.Int64N(1_000_000_001), 10) +
		filepath.Ext(original)
}

// SaveUploads writes every upload to disk under a fresh name, in order. If
// any write fails the files already written are removed.
func SaveUploads(ctx context.Context, disk Disk, uploads []Upload) ([]Stored, error) {
	if len(uploads) > MaxUploads {
		return nil, ErrTooManyFiles
	}

	stored := make([]Stored, 0, len(uploads))
	for _, u := range uploads {
		key := NewName(time.Now(), u.Filename)
		if err := put(ctx, disk, key, u); err != nil {
			Remove(ctx, disk, stored)
			return nil, err
		}
		metrics.ImagesStored.WithLabelValues(disk.Name()).Inc()
		stored = append(stored, Stored{Key: key, URL: disk.URL(key)})
	}
	return stored, nil
}

func put(ctx context.Context, disk Disk, key string, u Upload) error {
	rc, err := u.Open()
	if err != nil {
		return fmt.Errorf("storage: open upload %q: %w", u.Filename, err)
	}
	defer rc.Close()
	return disk.Put(ctx, key, rc, u.ContentType)
}

// Remove deletes stored files, logging rather than returning failures.
func Remove(ctx context.Context, disk Disk, stored []Stored) {
	var errs []error
	for _, s := range stored {
		if err := disk.Delete(ctx, s.Key); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		logger.WithCtx(ctx).Warn("storage: cleanup left files behind", "error", err)
	}
}

// URLs returns the public paths of stored, in order.
func URLs(stored []Stored) []string {
	out := make([]string, len(stored))
	for i, s := range stored {
		out[i] = s.URL
	}
	return out
}
