// Package seeders fills a fresh database with the rows the app needs to be
// usable, currently just the admin credential.
//
//	storefront seed
package seeders

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// SeederFunc writes seed rows.
type SeederFunc func(ctx context.Context, db *gorm.DB) error

type seeder struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seeder
)

// Register adds fn to the run list. Call it from init().
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seeder{name: name, fn: fn})
}

// RunAll runs every seeder in registration order and stops at the first
// failure.
func RunAll(ctx context.Context, db *gorm.DB) error {
	mu.Lock()
	current := append([]seeder(nil), entries...)
	mu.Unlock()

	log := logger.WithCtx(ctx)
	for _, s := range current {
		log.Info("seeder: running", "name", s.name)
		if err := s.fn(ctx, db); err != nil {
			return fmt.Errorf("seeder %q: %w", s.name, err)
		}
	}
	return nil
}
