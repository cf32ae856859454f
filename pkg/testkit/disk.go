package testkit

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/storage"
)

// Disk returns a local disk rooted in a temporary directory and served
// under /uploads.
func Disk(t *testing.T) *storage.LocalDisk {
	t.Helper()
	d, err := storage.NewLocalDisk(t.TempDir(), "/uploads")
	require.NoError(t, err)
	return d
}

// Files lists the names stored on d.
func Files(t *testing.T, d *storage.LocalDisk) []string {
	t.Helper()
	entries, err := os.ReadDir(d.Root())
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
