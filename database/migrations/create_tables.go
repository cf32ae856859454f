package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

func init() {
	migration.Register("20240101000100_create_admin_table", &createTable{model: &models.Admin{}})
	migration.Register("20240101000200_create_categories_table", &createTable{model: &models.Category{}})
	migration.Register("20240101000300_create_products_table", &createTable{model: &models.Product{}})
	migration.Register("20240101000400_create_orders_table", &createTable{model: &models.Order{}})
}

type tabler interface {
	TableName() string
}

// createTable auto-migrates one model and drops its table on rollback.
type createTable struct {
	model tabler
}

func (m *createTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(m.model)
}

func (m *createTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(m.model.TableName())
}
