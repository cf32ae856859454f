// Package testkit holds helpers shared by the package tests: a migrated
// in-memory database, a scratch upload disk and a cookie-keeping HTTP
// client.
package testkit

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	_ "github.com/shashiranjanraj/storefront/database/migrations"
	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/migration"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

// DB opens a private in-memory SQLite database with every migration applied.
// It is closed when the test ends.
func DB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	_, err = migration.New(db).Run(context.Background())
	require.NoError(t, err)
	return db
}

// Gateway is DB wrapped in an orm.Gateway.
func Gateway(t *testing.T) (*orm.Gateway, *gorm.DB) {
	t.Helper()
	db := DB(t)
	return orm.New(db), db
}
