package seeders

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/crypt"
)

// ErrNoAdminCredential is returned when ADMIN_USERNAME or ADMIN_PASSWORD is
// unset.
var ErrNoAdminCredential = errors.New("ADMIN_USERNAME and ADMIN_PASSWORD must be set")

func init() {
	Register("admin", SeedAdmin)
}

// SeedAdmin upserts the configured admin credential, storing the password in
// the form the configured hasher checks against.
func SeedAdmin(ctx context.Context, db *gorm.DB) error {
	username := config.Get("ADMIN_USERNAME", "")
	password := config.Get("ADMIN_PASSWORD", "")
	if username == "" || password == "" {
		return ErrNoAdminCredential
	}

	stored, err := crypt.ForName(config.PasswordHasher()).Hash(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.Admin{Username: username, Password: stored}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"password"}),
	}).Create(&admin).Error
}
