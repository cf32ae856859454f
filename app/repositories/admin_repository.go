package repositories

import (
	"context"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

// AdminRepository reads back-office credentials.
type AdminRepository struct {
	gw *orm.Gateway
}

func NewAdminRepository(gw *orm.Gateway) *AdminRepository {
	return &AdminRepository{gw: gw}
}

// FindByUsername returns orm.ErrNotFound when no admin has that name.
func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (models.Admin, error) {
	var admin models.Admin
	err := r.gw.Model(&models.Admin{}).Eq("username", username).Single(ctx, &admin)
	return admin, err
}
